package patient

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// In-memory repositories back demo deployments without a database and the
// package tests.

type repoMemory struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*Patient
}

func NewRepoMemory() Repository {
	return &repoMemory{items: make(map[uuid.UUID]*Patient)}
}

func (r *repoMemory) Create(_ context.Context, p *Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.items[p.ID] = &cp
	return nil
}

func (r *repoMemory) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *repoMemory) GetByPhone(_ context.Context, phone string) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.items {
		if p.Phone == phone {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *repoMemory) Update(_ context.Context, p *Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[p.ID]; !ok {
		return ErrNotFound
	}
	cp := *p
	r.items[p.ID] = &cp
	return nil
}

func (r *repoMemory) List(_ context.Context, limit, offset int) ([]*Patient, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]*Patient, 0, len(r.items))
	for _, p := range r.items {
		cp := *p
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

type visitRepoMemory struct {
	mu    sync.RWMutex
	items []*VisitRecord
}

func NewVisitRepoMemory() VisitRepository {
	return &visitRepoMemory{}
}

func (r *visitRepoMemory) Create(_ context.Context, v *VisitRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *v
	r.items = append(r.items, &cp)
	return nil
}

func (r *visitRepoMemory) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*VisitRecord, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matches []*VisitRecord
	for i := len(r.items) - 1; i >= 0; i-- {
		if r.items[i].PatientID == patientID {
			cp := *r.items[i]
			matches = append(matches, &cp)
		}
	}
	total := len(matches)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matches[offset:end], total, nil
}
