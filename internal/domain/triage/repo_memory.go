package triage

import (
	"context"
	"sync"
)

// feedbackRepoMemory backs feedback storage when no database is configured,
// as in kiosk demo deployments.
type feedbackRepoMemory struct {
	mu    sync.Mutex
	items []*Feedback
}

func NewFeedbackRepoMemory() FeedbackRepository {
	return &feedbackRepoMemory{}
}

func (r *feedbackRepoMemory) Create(_ context.Context, f *Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *f
	r.items = append(r.items, &cp)
	return nil
}

func (r *feedbackRepoMemory) List(_ context.Context, limit, offset int) ([]*Feedback, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := len(r.items)
	// Newest first.
	out := make([]*Feedback, 0, limit)
	for i := total - 1 - offset; i >= 0 && len(out) < limit; i-- {
		cp := *r.items[i]
		out = append(out, &cp)
	}
	return out, total, nil
}
