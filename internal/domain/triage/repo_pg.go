package triage

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type feedbackRepoPG struct{ pool *pgxpool.Pool }

func NewFeedbackRepoPG(pool *pgxpool.Pool) FeedbackRepository {
	return &feedbackRepoPG{pool: pool}
}

func (r *feedbackRepoPG) Create(ctx context.Context, f *Feedback) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO triage_feedback (id, token, suggested_level, note, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		f.ID, f.Token, f.SuggestedLevel, f.Note, f.CreatedAt)
	return err
}

func (r *feedbackRepoPG) List(ctx context.Context, limit, offset int) ([]*Feedback, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM triage_feedback`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, token, suggested_level, note, created_at
		FROM triage_feedback ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Feedback
	for rows.Next() {
		var f Feedback
		if err := rows.Scan(&f.ID, &f.Token, &f.SuggestedLevel, &f.Note, &f.CreatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, &f)
	}
	return items, total, rows.Err()
}
