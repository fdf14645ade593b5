package patient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nethra/triage/internal/domain/pathway"
	"github.com/nethra/triage/internal/domain/queue"
	"github.com/nethra/triage/internal/domain/triage"
)

// Triager classifies a complaint. Satisfied by the triage service.
type Triager interface {
	Triage(ctx context.Context, in triage.Input) (*triage.Result, error)
}

// JourneyStarter places a new visit into the station queues. Satisfied by
// the queue engine.
type JourneyStarter interface {
	Register(v *queue.Visit)
	StartJourney(token string, esiLevel int, category pathway.Category) (*queue.Visit, error)
}

// Ticket is what the kiosk prints: the durable visit row plus the triage
// trail and the live journey it started.
type Ticket struct {
	Visit   *VisitRecord   `json:"visit"`
	Triage  *triage.Result `json:"triage"`
	Journey *queue.Visit   `json:"journey"`
}

type Service struct {
	repo    Repository
	visits  VisitRepository
	triager Triager
	queue   JourneyStarter
	logger  zerolog.Logger
	now     func() time.Time
}

func NewService(repo Repository, visits VisitRepository, triager Triager, q JourneyStarter, logger zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		visits:  visits,
		triager: triager,
		queue:   q,
		logger:  logger.With().Str("component", "patient").Logger(),
		now:     time.Now,
	}
}

func (s *Service) Register(ctx context.Context, p *Patient) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if p.Age < 0 || p.Age > 130 {
		return fmt.Errorf("age out of range")
	}
	p.ID = uuid.New()
	p.CreatedAt = s.now().UTC()
	p.UpdatedAt = p.CreatedAt
	if err := s.repo.Create(ctx, p); err != nil {
		return fmt.Errorf("register patient: %w", err)
	}
	s.logger.Info().Str("patient_id", p.ID.String()).Msg("patient registered")
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByPhone(ctx context.Context, phone string) (*Patient, error) {
	return s.repo.GetByPhone(ctx, phone)
}

func (s *Service) Update(ctx context.Context, p *Patient) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	p.UpdatedAt = s.now().UTC()
	return s.repo.Update(ctx, p)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListVisits(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*VisitRecord, int, error) {
	return s.visits.ListByPatient(ctx, patientID, limit, offset)
}

// CreateVisit runs the full intake: triage the complaint against the
// patient's stored history, persist the visit row, and start the queue
// journey under a fresh token.
func (s *Service) CreateVisit(ctx context.Context, patientID uuid.UUID, complaint string) (*Ticket, error) {
	p, err := s.repo.GetByID(ctx, patientID)
	if err != nil {
		return nil, err
	}

	res, err := s.triager.Triage(ctx, triage.Input{
		Text:    complaint,
		History: historyOf(p),
	})
	if err != nil {
		return nil, err
	}

	token := newToken()
	record := &VisitRecord{
		ID:        uuid.New(),
		PatientID: p.ID,
		Token:     token,
		Complaint: complaint,
		ESILevel:  res.Final.Level,
		Category:  res.Final.Category,
		Condition: res.Final.Condition,
		Reasoning: res.Final.Reasoning,
		CreatedAt: s.now().UTC(),
	}
	if err := s.visits.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("create visit: %w", err)
	}

	s.queue.Register(&queue.Visit{Token: token, PatientName: p.Name})
	journey, err := s.queue.StartJourney(token, res.Final.Level, res.Final.Category)
	if err != nil {
		return nil, fmt.Errorf("start journey: %w", err)
	}

	s.logger.Info().
		Str("patient_id", p.ID.String()).
		Str("token", token).
		Int("esi_level", res.Final.Level).
		Msg("visit created")

	return &Ticket{Visit: record, Triage: res, Journey: journey}, nil
}

func historyOf(p *Patient) *triage.History {
	h := &triage.History{
		Age:          p.Age,
		Diabetes:     p.Diabetes,
		Glaucoma:     p.Glaucoma,
		Hypertension: p.Hypertension,
		OneEyed:      p.OneEyed,
	}
	if p.LastSurgery != nil {
		h.Surgeries = []triage.Surgery{{Date: *p.LastSurgery}}
	}
	return h
}

func newToken() string {
	return "T-" + strings.ToUpper(uuid.NewString()[:8])
}
