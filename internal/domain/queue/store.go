package queue

import (
	"errors"
	"sync"

	"github.com/nethra/triage/internal/domain/pathway"
)

var ErrNotFound = errors.New("visit not found")

// Store holds all visit and station state behind one mutex. A single lock
// is deliberate: station occupancy is tens of patients, and one writer at a
// time keeps advance calls from double-removing an entry.
type Store struct {
	mu       sync.Mutex
	visits   map[string]*Visit
	stations map[pathway.Station][]*Entry
}

func NewStore() *Store {
	s := &Store{}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.visits = make(map[string]*Visit)
	s.stations = make(map[pathway.Station][]*Entry)
}

// Reset drops all visits and station lists. Used by the daily
// administrative reset.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// CreateVisit registers a new journey record. The visit is not queued
// anywhere until the engine starts it.
func (s *Store) CreateVisit(v *Visit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *v
	s.visits[v.Token] = &cp
}

// Visit returns a copy of the visit record for a token.
func (s *Store) Visit(token string) (*Visit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.visits[token]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *v
	cp.Pathway = append([]pathway.Station(nil), v.Pathway...)
	return &cp, nil
}

// Counts reports visits and waiting entries per station, for the health
// and dashboard endpoints.
func (s *Store) Counts() (visits int, waiting map[pathway.Station]int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	waiting = make(map[pathway.Station]int, len(s.stations))
	for st, entries := range s.stations {
		waiting[st] = len(entries)
	}
	return len(s.visits), waiting
}

// The mutating helpers below assume the caller holds s.mu; the Engine is
// the only caller and takes the lock once per operation.

func (s *Store) visitLocked(token string) (*Visit, bool) {
	v, ok := s.visits[token]
	return v, ok
}

func (s *Store) enqueueLocked(station pathway.Station, e *Entry) {
	s.stations[station] = append(s.stations[station], e)
}

func (s *Store) removeLocked(station pathway.Station, token string) {
	entries := s.stations[station]
	for i, e := range entries {
		if e.Token == token {
			s.stations[station] = append(entries[:i], entries[i+1:]...)
			return
		}
	}
}

func (s *Store) entriesLocked(station pathway.Station) []*Entry {
	return s.stations[station]
}
