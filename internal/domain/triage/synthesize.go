package triage

import (
	"fmt"
	"strings"

	"github.com/nethra/triage/internal/domain/pathway"
)

// Synthesize merges the rule verdict with both risk signals. Escalation
// only: the final level is never a larger number than the rule level, so
// no model output can demote a hard rule match.
func Synthesize(esi ESIResult, risk RiskAssessment, text string) FinalTriage {
	level := esi.Level
	reasoning := fmt.Sprintf("ESI-%d: %s", esi.Level, esi.Condition)

	if risk.Score >= upgradeThreshold && level > 1 {
		level--
		reasoning += fmt.Sprintf(" [UPGRADED by risk score %d: %s]",
			risk.Score, strings.Join(risk.Factors, ", "))
	}

	// The classifier can force level 2 when the rules landed lower, but it
	// can never touch a level-1 or level-2 verdict.
	if risk.HighRisk && level > 2 {
		level = 2
		reasoning += fmt.Sprintf(" [UPGRADED by ML: hidden risk pattern, %.1f%%]",
			risk.Probability)
	}

	return FinalTriage{
		Level:     level,
		Category:  categoryFor(level, esi.Condition, text),
		Severity:  severityFor(level),
		Condition: esi.Condition,
		Action:    esi.Action,
		Reasoning: reasoning,
	}
}

func categoryFor(level int, condition, text string) pathway.Category {
	t := strings.ToLower(text)
	switch level {
	case 1:
		return pathway.CategoryEmergency
	case 2:
		if strings.Contains(t, "flash") || strings.Contains(t, "curtain") {
			return pathway.CategoryRetina
		}
		return pathway.CategoryOphthalmology
	case 4:
		return pathway.CategoryRefraction
	case 5:
		return pathway.CategoryPharmacy
	default:
		return pathway.CategoryForCondition(condition)
	}
}

func severityFor(level int) string {
	switch level {
	case 1, 2:
		return "high"
	case 3:
		return "medium"
	default:
		return "low"
	}
}
