package triage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestService() *Service {
	svc := NewService(NewFeedbackRepoMemory(), zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }
	return svc
}

func TestTriage_EmptyText(t *testing.T) {
	svc := newTestService()
	if _, err := svc.Triage(context.Background(), Input{Text: "   "}); !errors.Is(err, ErrEmptyComplaint) {
		t.Errorf("err = %v, want ErrEmptyComplaint", err)
	}
}

func TestTriage_EmergencyPassThrough(t *testing.T) {
	svc := newTestService()
	res, err := svc.Triage(context.Background(), Input{Text: "chemical splash in eye"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Final.Level != 1 {
		t.Errorf("final level = %d, want 1", res.Final.Level)
	}
	if res.Final.Category != "EMERGENCY" {
		t.Errorf("category = %s, want EMERGENCY", res.Final.Category)
	}
}

func TestTriage_PostOpRednessEscalates(t *testing.T) {
	svc := newTestService()
	history := &History{
		Age:       40,
		Surgeries: []Surgery{{Date: svc.now().Add(-7 * 24 * time.Hour)}},
	}
	res, err := svc.Triage(context.Background(), Input{Text: "redness in operated eye", History: history})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Rules alone say ESI-3; a week-old surgery pushes it to 2.
	if res.ESI.Level != 3 {
		t.Errorf("rule level = %d, want 3", res.ESI.Level)
	}
	if res.Final.Level != 2 {
		t.Errorf("final level = %d, want 2", res.Final.Level)
	}
}

func TestTriage_NeverDowngrades(t *testing.T) {
	svc := newTestService()
	inputs := []Input{
		{Text: "chemical splash"},
		{Text: "need new glasses"},
		{Text: "medicine refill", History: &History{Age: 70, Glaucoma: true}},
		{Text: "eye pain", History: &History{OneEyed: true, Age: 65}},
	}
	for _, in := range inputs {
		res, err := svc.Triage(context.Background(), in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Final.Level > res.ESI.Level {
			t.Errorf("%q: final %d below rule level %d", in.Text, res.Final.Level, res.ESI.Level)
		}
	}
}

func TestTriage_Deterministic(t *testing.T) {
	svc := newTestService()
	in := Input{Text: "mild pain", History: &History{Age: 70, Glaucoma: true}}
	a, err := svc.Triage(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := svc.Triage(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Final != b.Final {
		t.Errorf("same input must yield same decision: %+v vs %+v", a.Final, b.Final)
	}
}

func TestRecordFeedback(t *testing.T) {
	svc := newTestService()
	f, err := svc.RecordFeedback(context.Background(), "T-42", 2, "looked worse in person")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Token != "T-42" || f.SuggestedLevel != 2 {
		t.Errorf("feedback = %+v", f)
	}

	items, total, err := svc.ListFeedback(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Errorf("total = %d, items = %d, want 1", total, len(items))
	}
}

func TestRecordFeedback_Validation(t *testing.T) {
	svc := newTestService()
	if _, err := svc.RecordFeedback(context.Background(), "", 3, ""); err == nil {
		t.Error("expected error for empty token")
	}
	if _, err := svc.RecordFeedback(context.Background(), "T-1", 0, ""); err == nil {
		t.Error("expected error for level 0")
	}
	if _, err := svc.RecordFeedback(context.Background(), "T-1", 6, ""); err == nil {
		t.Error("expected error for level 6")
	}
}
