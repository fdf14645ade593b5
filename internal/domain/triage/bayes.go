package triage

import (
	"math"
	"strings"
)

const (
	labelHigh = "HighRisk"
	labelLow  = "LowRisk"
)

// Sample is one labelled training example.
type Sample struct {
	Features []string
	Label    string
}

// DefaultTrainingData returns the built-in clinical pattern set. Low-risk
// rows outnumber high-risk ones on purpose; walk-in clinics see mostly
// routine complaints, and the prior has to reflect that.
func DefaultTrainingData() []Sample {
	return []Sample{
		{Features: []string{"elderly", "glaucoma", "pain", "severe"}, Label: labelHigh},
		{Features: []string{"elderly", "glaucoma", "redness"}, Label: labelHigh},
		{Features: []string{"adult", "one_eyed", "pain"}, Label: labelHigh},
		{Features: []string{"adult", "one_eyed", "blur"}, Label: labelHigh},
		{Features: []string{"elderly", "diabetes", "flashes"}, Label: labelHigh},
		{Features: []string{"elderly", "diabetes", "black_spots"}, Label: labelHigh},
		{Features: []string{"adult", "recent_surgery", "pain"}, Label: labelHigh},
		{Features: []string{"adult", "recent_surgery", "redness"}, Label: labelHigh},
		{Features: []string{"child", "none", "white_spot"}, Label: labelHigh},
		{Features: []string{"any", "none", "chemical"}, Label: labelHigh},
		{Features: []string{"any", "none", "trauma"}, Label: labelHigh},
		{Features: []string{"any", "none", "severe_pain"}, Label: labelHigh},

		{Features: []string{"adult", "none", "itching", "mild"}, Label: labelLow},
		{Features: []string{"child", "none", "itching"}, Label: labelLow},
		{Features: []string{"elderly", "none", "watering"}, Label: labelLow},
		{Features: []string{"adult", "diabetes", "checkup"}, Label: labelLow},
		{Features: []string{"elderly", "glaucoma", "checkup"}, Label: labelLow},
		{Features: []string{"adult", "none", "glasses"}, Label: labelLow},
		{Features: []string{"child", "none", "blur"}, Label: labelLow},
		{Features: []string{"adult", "none", "mild_pain", "mild"}, Label: labelLow},
		{Features: []string{"adult", "none", "headache", "mild"}, Label: labelLow},
		{Features: []string{"elderly", "none", "checkup"}, Label: labelLow},
		{Features: []string{"child", "none", "checkup"}, Label: labelLow},
		{Features: []string{"adult", "none", "checkup"}, Label: labelLow},
		{Features: []string{"adult", "none", "dryness"}, Label: labelLow},
		{Features: []string{"elderly", "none", "dryness"}, Label: labelLow},
		{Features: []string{"adult", "none", "irritation", "mild"}, Label: labelLow},
		{Features: []string{"child", "none", "watering"}, Label: labelLow},
		{Features: []string{"adult", "none", "refraction"}, Label: labelLow},
		{Features: []string{"elderly", "cataract", "blur", "gradual"}, Label: labelLow},
		{Features: []string{"adult", "none", "tiredness"}, Label: labelLow},
		{Features: []string{"adult", "none", "strain"}, Label: labelLow},
	}
}

// Classifier is a two-class Naive Bayes model over categorical features.
// All counts are fixed at construction; Predict never mutates state, so a
// single instance is safe for concurrent use.
type Classifier struct {
	classCounts   map[string]int
	featureCounts map[string]map[string]int
	featureTotals map[string]int
	total         int
	vocab         map[string]bool
}

// NewClassifier trains on the given samples once. There is no online
// update path; corrections are recorded as feedback, not folded in.
func NewClassifier(data []Sample) *Classifier {
	c := &Classifier{
		classCounts:   map[string]int{labelHigh: 0, labelLow: 0},
		featureCounts: map[string]map[string]int{labelHigh: {}, labelLow: {}},
		featureTotals: map[string]int{},
		vocab:         map[string]bool{},
	}
	for _, s := range data {
		c.classCounts[s.Label]++
		c.total++
		for _, f := range s.Features {
			c.vocab[f] = true
			c.featureCounts[s.Label][f]++
			c.featureTotals[s.Label]++
		}
	}
	return c
}

// Predict returns P(high risk) in [0,1] for the given feature set, using
// log-space accumulation with Laplace +1 smoothing.
func (c *Classifier) Predict(features []string) float64 {
	scores := map[string]float64{}
	for _, cls := range []string{labelHigh, labelLow} {
		score := math.Log(float64(c.classCounts[cls]) / float64(c.total))
		denom := float64(c.featureTotals[cls] + len(c.vocab))
		for _, f := range features {
			count := float64(c.featureCounts[cls][f] + 1)
			score += math.Log(count / denom)
		}
		scores[cls] = score
	}
	expHigh := math.Exp(scores[labelHigh])
	expLow := math.Exp(scores[labelLow])
	return expHigh / (expHigh + expLow)
}

// symptomTokens is the closed set of symptom words the feature extractor
// looks for in complaint text.
var symptomTokens = []string{
	"pain", "redness", "blur", "flashes", "black_spots", "itching",
	"watering", "checkup", "glasses", "chemical", "trauma", "white_spot",
	"dryness", "strain",
}

// ExtractFeatures maps a patient history and complaint text onto the
// classifier's feature vocabulary. "mild pain" and "severe pain" become
// distinct tokens from bare "pain".
func ExtractFeatures(history *History, text string) []string {
	var features []string

	age := 0
	if history != nil {
		age = history.Age
	}
	switch {
	case age > 60:
		features = append(features, "elderly")
	case age > 0 && age < 16:
		features = append(features, "child")
	default:
		features = append(features, "adult")
	}

	if history != nil {
		if history.Glaucoma {
			features = append(features, "glaucoma")
		}
		if history.Diabetes {
			features = append(features, "diabetes")
		}
		if history.OneEyed {
			features = append(features, "one_eyed")
		}
	}
	if history != nil && len(history.Surgeries) > 0 {
		features = append(features, "recent_surgery")
	} else {
		features = append(features, "none")
	}

	t := strings.ToLower(text)
	mild := strings.Contains(t, "mild") || strings.Contains(t, "light") || strings.Contains(t, "little")
	severe := strings.Contains(t, "severe") || strings.Contains(t, "unbearable") || strings.Contains(t, "extreme")
	if mild {
		features = append(features, "mild")
	}
	if severe {
		features = append(features, "severe")
	}

	for _, sym := range symptomTokens {
		if !strings.Contains(t, sym) {
			continue
		}
		switch {
		case sym == "pain" && mild:
			features = append(features, "mild_pain")
		case sym == "pain" && severe:
			features = append(features, "severe_pain")
		default:
			features = append(features, sym)
		}
	}

	return features
}
