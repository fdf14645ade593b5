package triage

import (
	"fmt"
	"time"
)

// upgradeThreshold is the rule-based score at which the final level is
// bumped one tier up.
const upgradeThreshold = 4

// recentSurgeryDays marks a surgery as recent for risk scoring.
const recentSurgeryDays = 30

// ScoreRisk computes the additive risk score and the human-readable list of
// contributing factors. A nil history scores zero.
func ScoreRisk(history *History, now time.Time) (int, []string) {
	if history == nil {
		return 0, nil
	}

	score := 0
	var factors []string

	if history.Age > 60 {
		score++
		factors = append(factors, "Elderly (>60)")
	}
	if history.Diabetes {
		score += 2
		factors = append(factors, "Diabetic")
	}
	if history.Glaucoma {
		score += 3
		factors = append(factors, "Glaucoma History")
	}
	if history.OneEyed {
		score += 4
		factors = append(factors, "One-Eyed Patient (High Risk)")
	}

	if days, ok := daysSinceLastSurgery(history, now); ok && days <= recentSurgeryDays {
		score += 4
		factors = append(factors, fmt.Sprintf("Recent Surgery (%d days ago)", days))
	}

	return score, factors
}

// daysSinceLastSurgery returns whole days since the most recent surgery on
// record. Surgeries dated in the future are ignored.
func daysSinceLastSurgery(history *History, now time.Time) (int, bool) {
	var latest time.Time
	found := false
	for _, s := range history.Surgeries {
		if s.Date.After(now) {
			continue
		}
		if !found || s.Date.After(latest) {
			latest = s.Date
			found = true
		}
	}
	if !found {
		return 0, false
	}
	return int(now.Sub(latest) / (24 * time.Hour)), true
}
