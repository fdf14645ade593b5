package triage

import (
	"time"

	"github.com/google/uuid"

	"github.com/nethra/triage/internal/domain/pathway"
)

// History is the snapshot of patient background supplied with a triage
// request. A nil History means no known risk factors.
type History struct {
	Age          int       `json:"age"`
	Diabetes     bool      `json:"diabetes"`
	Glaucoma     bool      `json:"glaucoma"`
	Hypertension bool      `json:"hypertension"`
	OneEyed      bool      `json:"one_eyed"`
	Surgeries    []Surgery `json:"surgeries,omitempty"`
}

// Surgery is a single past procedure on record.
type Surgery struct {
	Date time.Time `json:"date"`
}

// Input is one triage request. Text is expected to be normalized lowercase
// symptom text; normalization itself happens upstream.
type Input struct {
	Text    string   `json:"text"`
	History *History `json:"history,omitempty"`
}

// ESIResult is the deterministic rule engine's classification. Level 1 is
// the most severe, 5 the least.
type ESIResult struct {
	Level     int    `json:"level"`
	Condition string `json:"condition"`
	Action    string `json:"action"`
}

// RiskAssessment carries both risk signals: the additive rule-based score
// and the classifier's probability. The two are computed independently.
type RiskAssessment struct {
	Score    int      `json:"score"`
	Factors  []string `json:"factors"`
	Features []string `json:"features"`
	// Probability is P(high risk) as a percentage, one decimal.
	Probability float64 `json:"probability"`
	HighRisk    bool    `json:"high_risk"`
}

// FinalTriage is the synthesized decision. Level is never numerically
// higher (less urgent) than the rule engine's level.
type FinalTriage struct {
	Level     int              `json:"level"`
	Category  pathway.Category `json:"category"`
	Severity  string           `json:"severity"`
	Condition string           `json:"condition"`
	Action    string           `json:"action"`
	Reasoning string           `json:"reasoning"`
}

// Result bundles the full decision trail for one request.
type Result struct {
	Final FinalTriage    `json:"final"`
	ESI   ESIResult      `json:"esi"`
	Risk  RiskAssessment `json:"risk"`
}

// Feedback is an operator correction signal. It is recorded for later
// review only and never feeds back into the classifier.
type Feedback struct {
	ID             uuid.UUID `json:"id"`
	Token          string    `json:"token"`
	SuggestedLevel int       `json:"suggested_level"`
	Note           string    `json:"note,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
