package queue

import (
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/nethra/triage/internal/domain/pathway"
)

// Engine owns all queue mutation. Every operation takes the store lock
// once, so two concurrent advance calls for the same token cannot
// double-remove an entry.
type Engine struct {
	store    *Store
	resolver *pathway.Resolver
	logger   zerolog.Logger
	now      func() time.Time

	agingFactor       float64
	minutesPerPatient int
}

func NewEngine(store *Store, resolver *pathway.Resolver, logger zerolog.Logger, agingFactor float64, minutesPerPatient int) *Engine {
	return &Engine{
		store:             store,
		resolver:          resolver,
		logger:            logger.With().Str("component", "queue").Logger(),
		now:               time.Now,
		agingFactor:       agingFactor,
		minutesPerPatient: minutesPerPatient,
	}
}

// Register creates the visit record without queueing it. Registration and
// journey start are separate steps so a triage correction can restart a
// journey without re-registering.
func (e *Engine) Register(v *Visit) {
	e.store.CreateVisit(v)
}

// StartJourney resolves the visit's pathway and enqueues it at the first
// station. Calling it again for a started visit recomputes and overwrites
// the pathway; operators use that to correct a wrong initial triage.
func (e *Engine) StartJourney(token string, esiLevel int, category pathway.Category) (*Visit, error) {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()

	v, ok := e.store.visitLocked(token)
	if !ok {
		return nil, ErrNotFound
	}

	// Drop any stale entry from an earlier start.
	if v.Current != "" {
		e.store.removeLocked(v.Current, token)
	}

	p := e.resolver.Resolve(esiLevel, category)
	now := e.now()

	v.ESILevel = esiLevel
	v.Category = category
	v.Pathway = p
	v.Current = p[0]
	v.Status = StatusWaiting
	v.EntryTime = now

	if !p[0].Terminal() {
		e.store.enqueueLocked(p[0], &Entry{
			Token:        token,
			PatientName:  v.PatientName,
			ESILevel:     esiLevel,
			BasePriority: BasePriority(esiLevel),
			EntryTime:    now,
		})
	}

	e.logger.Info().
		Str("token", token).
		Int("esi_level", esiLevel).
		Str("category", string(category)).
		Str("station", string(p[0])).
		Msg("journey started")

	cp := *v
	cp.Pathway = append([]pathway.Station(nil), v.Pathway...)
	return &cp, nil
}

// Advance moves a visit to its next station. The pathway is re-resolved
// from the visit's level and category on every call so a corrected triage
// takes effect immediately. A current station missing from the fresh
// pathway is treated as journey end.
func (e *Engine) Advance(token string) (*AdvanceResult, error) {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()

	v, ok := e.store.visitLocked(token)
	if !ok {
		return nil, ErrNotFound
	}
	if v.Status == StatusCompleted {
		return &AdvanceResult{Completed: true}, nil
	}

	p := e.resolver.Resolve(v.ESILevel, v.Category)
	idx := -1
	for i, st := range p {
		if st == v.Current {
			idx = i
			break
		}
	}

	if idx < 0 || idx >= len(p)-1 {
		e.store.removeLocked(v.Current, token)
		v.Status = StatusCompleted
		if idx < 0 {
			e.logger.Warn().
				Str("token", token).
				Str("station", string(v.Current)).
				Msg("current station not in re-resolved pathway, completing journey")
		} else {
			e.logger.Info().Str("token", token).Msg("journey completed")
		}
		return &AdvanceResult{Completed: true}, nil
	}

	next := p[idx+1]
	e.store.removeLocked(v.Current, token)
	v.Current = next
	v.EntryTime = e.now()
	v.Status = StatusWaiting

	if !next.Terminal() {
		e.store.enqueueLocked(next, &Entry{
			Token:        token,
			PatientName:  v.PatientName,
			ESILevel:     v.ESILevel,
			BasePriority: BasePriority(v.ESILevel),
			EntryTime:    v.EntryTime,
		})
	}

	e.logger.Info().
		Str("token", token).
		Str("station", string(next)).
		Msg("patient advanced")

	return &AdvanceResult{NextStation: next}, nil
}

// StationQueue returns the live-scored, sorted view of one station. Scores
// are computed from wait time at call time; nothing is cached.
func (e *Engine) StationQueue(station pathway.Station) []Entry {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	return e.scoredLocked(station, e.now())
}

// PatientStatus reports a visit's 1-based rank in its station's live
// ordering and the rank-derived wait estimate. It never mutates state.
func (e *Engine) PatientStatus(token string) (*PatientStatus, error) {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()

	v, ok := e.store.visitLocked(token)
	if !ok {
		return nil, ErrNotFound
	}

	st := &PatientStatus{
		Token:    token,
		Current:  v.Current,
		Pathway:  append([]pathway.Station(nil), v.Pathway...),
		ESILevel: v.ESILevel,
		Status:   v.Status,
	}

	if v.Status != StatusCompleted {
		for i, entry := range e.scoredLocked(v.Current, e.now()) {
			if entry.Token == token {
				st.Position = i + 1
				st.EstimatedWait = st.Position * e.minutesPerPatient
				break
			}
		}
	}
	return st, nil
}

// scoredLocked builds the sorted snapshot for one station. Higher total
// score first; equal scores fall back to arrival order.
func (e *Engine) scoredLocked(station pathway.Station, now time.Time) []Entry {
	entries := e.store.entriesLocked(station)
	out := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		cp := *entry
		cp.WaitMinutes = now.Sub(entry.EntryTime).Minutes()
		if cp.WaitMinutes < 0 {
			cp.WaitMinutes = 0
		}
		cp.TotalScore = float64(cp.BasePriority) + cp.WaitMinutes*e.agingFactor
		out = append(out, cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalScore != out[j].TotalScore {
			return out[i].TotalScore > out[j].TotalScore
		}
		return out[i].EntryTime.Before(out[j].EntryTime)
	})
	return out
}
