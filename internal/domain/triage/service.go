package triage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// highRiskThreshold is the classifier probability (percent) above which a
// patient is flagged high risk.
const highRiskThreshold = 50.0

var ErrEmptyComplaint = errors.New("complaint text is required")

// FeedbackRepository stores operator corrections.
type FeedbackRepository interface {
	Create(ctx context.Context, f *Feedback) error
	List(ctx context.Context, limit, offset int) ([]*Feedback, int, error)
}

// Service runs the full triage pipeline. The classifier is trained once in
// NewService and shared across requests.
type Service struct {
	classifier *Classifier
	feedback   FeedbackRepository
	logger     zerolog.Logger
	now        func() time.Time
}

func NewService(feedback FeedbackRepository, logger zerolog.Logger) *Service {
	return &Service{
		classifier: NewClassifier(DefaultTrainingData()),
		feedback:   feedback,
		logger:     logger.With().Str("component", "triage").Logger(),
		now:        time.Now,
	}
}

// Triage classifies one complaint. The pipeline is deterministic for a
// fixed clock: rules, additive risk score, classifier, then synthesis.
func (s *Service) Triage(ctx context.Context, in Input) (*Result, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrEmptyComplaint
	}

	esi := ClassifyESI(text, in.History)

	score, factors := ScoreRisk(in.History, s.now())
	features := ExtractFeatures(in.History, text)
	prob := s.classifier.Predict(features) * 100
	prob = math.Round(prob*10) / 10

	risk := RiskAssessment{
		Score:       score,
		Factors:     factors,
		Features:    features,
		Probability: prob,
		HighRisk:    prob > highRiskThreshold,
	}

	final := Synthesize(esi, risk, text)

	s.logger.Info().
		Int("esi_level", esi.Level).
		Int("final_level", final.Level).
		Int("risk_score", score).
		Float64("ml_probability", prob).
		Str("category", string(final.Category)).
		Str("condition", final.Condition).
		Msg("triage decision")

	return &Result{Final: final, ESI: esi, Risk: risk}, nil
}

// RecordFeedback stores an operator correction for later review. Feedback
// never retrains the classifier.
func (s *Service) RecordFeedback(ctx context.Context, token string, level int, note string) (*Feedback, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("token is required")
	}
	if level < 1 || level > 5 {
		return nil, fmt.Errorf("suggested level must be between 1 and 5")
	}

	f := &Feedback{
		ID:             uuid.New(),
		Token:          token,
		SuggestedLevel: level,
		Note:           note,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.feedback.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("record feedback: %w", err)
	}

	s.logger.Info().
		Str("token", token).
		Int("suggested_level", level).
		Msg("feedback recorded")
	return f, nil
}

// ListFeedback pages through recorded corrections, newest first.
func (s *Service) ListFeedback(ctx context.Context, limit, offset int) ([]*Feedback, int, error) {
	return s.feedback.List(ctx, limit, offset)
}
