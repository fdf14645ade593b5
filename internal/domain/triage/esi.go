package triage

import "strings"

// ClassifyESI walks the severity ladder top-down and returns the first rule
// that matches. It is total: text that matches nothing resolves to ESI-3
// "Unspecified Complaint" so an unparsed complaint is never silently dropped
// to a low tier.
func ClassifyESI(text string, history *History) ESIResult {
	t := strings.ToLower(text)
	has := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(t, w) {
				return true
			}
		}
		return false
	}
	hasAll := func(words ...string) bool {
		for _, w := range words {
			if !strings.Contains(t, w) {
				return false
			}
		}
		return true
	}

	// ESI-1: immediate threats to the eye or to life.
	switch {
	case has("chemical", "acid", "alkali", "battery", "lime", "powder", "splash"):
		return ESIResult{1, "EMERGENCY", "Use Safety Shower / Irrigate Immediately"}
	case has("penetrat", "stuck", "metal", "glass piece", "knife", "open globe", "leak"):
		return ESIResult{1, "EMERGENCY", "Immediate Surgical Consult"}
	case has("no vision", "can't see", "cannot see", "black out", "complete loss") &&
		has("sudden", "now", "today", "hour"):
		return ESIResult{1, "EMERGENCY", "Immediate Retina/Neuro Check"}
	case has("pain", "severe") && has("vomit", "nausea", "headache"):
		// Acute angle-closure presentation.
		return ESIResult{1, "EMERGENCY", "Check IOP Immediately"}
	}

	// ESI-2: urgent, sight-threatening within hours.
	switch {
	case has("flash", "floater", "curtain", "shadow", "veil") && !hasAll("mild", "chronic"):
		return ESIResult{2, "Retinal Symptoms", "Urgent Dilated Exam"}
	case has("double vision", "diplopia") && has("sudden", "new"):
		return ESIResult{2, "Sudden Double Vision", "Urgent Neuro/Ortho Eval"}
	case has("ulcer", "white spot", "contact lens") && has("pain", "red"):
		return ESIResult{2, "Suspected Corneal Ulcer", "Urgent Cornea Eval"}
	case has("severe", "unbearable", "extreme") && has("pain", "hurt", "agony"):
		return ESIResult{2, "Severe Eye Pain", "Urgent Exam + IOP"}
	case has("light", "sun") && has("hurt", "sensitive", "photophobia"):
		return ESIResult{2, "Photophobia", "Urgent Slit Lamp Exam"}
	case history != nil && history.Age > 0 && history.Age < 16 &&
		has("red") && has("pain", "rub"):
		return ESIResult{2, "Pediatric Red Eye", "Priority Pediatric Eval"}
	case history != nil && history.OneEyed && has("pain", "blur", "red", "dim"):
		return ESIResult{2, "One-Eyed Patient (Risk)", "Priority Exam (Only Eye)"}
	}

	// ESI-3: semi-urgent, same-day OPD workup.
	switch {
	case has("blur", "hazy", "fog", "dim") && !has("sudden") && !has("pain"):
		return ESIResult{3, "Gradual Vision Loss", "Standard OPD Workup"}
	case has("mild pain", "dull ache", "strain", "tired", "heavy", "watering", "tearing"):
		return ESIResult{3, "Moderate Discomfort", "Standard OPD Workup"}
	case has("pain", "hurt", "ache"):
		return ESIResult{3, "Eye Pain (Undifferentiated)", "Standard OPD Workup"}
	case has("red", "pink", "bloodshot"):
		return ESIResult{3, "Red Eye (Stable)", "Standard OPD Workup"}
	case has("dry", "gritty", "sand", "foreign body feel", "itchy inside"):
		return ESIResult{3, "Dry Eye/Irritation", "Standard OPD Workup"}
	case history != nil && history.Glaucoma && has("check", "pressure", "drop"):
		return ESIResult{3, "Glaucoma Follow-up", "IOP Check + OPD"}
	}

	// ESI-4: routine, refraction-lane visits.
	switch {
	case has("glass", "spectacle", "power", "checkup", "test", "routine", "refraction", "read", "far", "near"):
		return ESIResult{4, "Refraction / Vision Check", "Optometry Workup"}
	case has("itch", "allerg") && !has("pain", "red"):
		return ESIResult{4, "Mild Allergy/Itching", "Optometry Workup"}
	}

	// ESI-5: no clinical exam needed.
	switch {
	case has("medicine", "pharmacy", "refill", "drop"):
		return ESIResult{5, "Pharmacy / Refill", "Direct to Pharmacy"}
	case has("report", "certificate", "paper", "bill"):
		return ESIResult{5, "Administrative", "Front Desk"}
	}

	return ESIResult{3, "Unspecified Complaint", "General Triage Assessment"}
}
