package queue

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/nethra/triage/internal/domain/pathway"
)

func newTestEngine() (*Engine, *Store, *time.Time) {
	store := NewStore()
	engine := NewEngine(store, pathway.NewResolver(), zerolog.Nop(), 2.0, 5)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := &now
	engine.now = func() time.Time { return *clock }
	return engine, store, clock
}

func addVisit(store *Store, token string) {
	store.CreateVisit(&Visit{Token: token, PatientName: "patient " + token})
}

func TestStationQueue_SickestFirst(t *testing.T) {
	engine, store, _ := newTestEngine()
	addVisit(store, "A")
	addVisit(store, "B")

	// Levels 2 and 3 both start at vision_test.
	if _, err := engine.StartJourney("A", 3, pathway.CategoryOPDGeneral); err != nil {
		t.Fatalf("start A: %v", err)
	}
	if _, err := engine.StartJourney("B", 2, pathway.CategoryOphthalmology); err != nil {
		t.Fatalf("start B: %v", err)
	}

	entries := engine.StationQueue(pathway.StationVision)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Token != "B" {
		t.Errorf("expected the ESI-2 patient first, got %s", entries[0].Token)
	}
	if entries[0].TotalScore < entries[1].TotalScore {
		t.Errorf("scores out of order: %v then %v", entries[0].TotalScore, entries[1].TotalScore)
	}
}

func TestStationQueue_AgingCrossover(t *testing.T) {
	engine, store, clock := newTestEngine()
	addVisit(store, "old")
	addVisit(store, "new")

	// ESI-4 waits 300 minutes: 200 + 300*2 = 800, exactly the ESI-2 base.
	if _, err := engine.StartJourney("old", 4, pathway.CategoryRefraction); err != nil {
		t.Fatalf("start old: %v", err)
	}
	*clock = clock.Add(300 * time.Minute)
	if _, err := engine.StartJourney("new", 2, pathway.CategoryOphthalmology); err != nil {
		t.Fatalf("start new: %v", err)
	}

	entries := engine.StationQueue(pathway.StationVision)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].TotalScore != 800 || entries[1].TotalScore != 800 {
		t.Errorf("expected both scores at 800, got %v and %v", entries[0].TotalScore, entries[1].TotalScore)
	}
	// Tie resolves by arrival time, so the long waiter ranks first.
	if entries[0].Token != "old" {
		t.Errorf("expected the aged ESI-4 patient first, got %s", entries[0].Token)
	}
}

func TestAdvance_Lifecycle(t *testing.T) {
	engine, store, _ := newTestEngine()
	addVisit(store, "T1")

	v, err := engine.StartJourney("T1", 3, pathway.CategoryOPDGeneral)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if v.Current != pathway.StationVision {
		t.Fatalf("expected journey to start at vision_test, got %s", v.Current)
	}

	res, err := engine.Advance("T1")
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if res.Completed || res.NextStation != pathway.StationRefraction {
		t.Fatalf("expected refraction next, got %+v", res)
	}
	if len(engine.StationQueue(pathway.StationVision)) != 0 {
		t.Error("advance must remove the entry from the previous station")
	}

	// Walk the rest: dilation, doctor, pharmacy, discharge, then done.
	want := []pathway.Station{
		pathway.StationDilation, pathway.StationDoctor,
		pathway.StationPharmacy, pathway.StationDischarge,
	}
	for _, st := range want {
		res, err = engine.Advance("T1")
		if err != nil {
			t.Fatalf("advance: %v", err)
		}
		if res.Completed || res.NextStation != st {
			t.Fatalf("expected %s next, got %+v", st, res)
		}
	}

	res, err = engine.Advance("T1")
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if !res.Completed {
		t.Fatal("expected completion after the last station")
	}

	// No entry may survive anywhere.
	for st := range map[pathway.Station]bool{
		pathway.StationVision: true, pathway.StationRefraction: true,
		pathway.StationDilation: true, pathway.StationDoctor: true,
		pathway.StationPharmacy: true, pathway.StationDischarge: true,
	} {
		if n := len(engine.StationQueue(st)); n != 0 {
			t.Errorf("station %s still has %d entries after completion", st, n)
		}
	}

	status, err := engine.PatientStatus("T1")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.Status != StatusCompleted {
		t.Errorf("status = %s, want completed", status.Status)
	}
}

func TestAdvance_DischargeNeverQueued(t *testing.T) {
	engine, store, _ := newTestEngine()
	addVisit(store, "T1")

	if _, err := engine.StartJourney("T1", 5, pathway.CategoryPharmacy); err != nil {
		t.Fatalf("start: %v", err)
	}
	res, err := engine.Advance("T1")
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if res.NextStation != pathway.StationDischarge {
		t.Fatalf("expected discharge, got %+v", res)
	}
	if len(engine.StationQueue(pathway.StationDischarge)) != 0 {
		t.Error("discharge must never hold queue entries")
	}

	status, err := engine.PatientStatus("T1")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.Position != 0 {
		t.Errorf("position = %d, want 0 at discharge", status.Position)
	}
}

func TestPatientStatus_RoundTrip(t *testing.T) {
	engine, store, _ := newTestEngine()
	addVisit(store, "T1")

	v, err := engine.StartJourney("T1", 3, pathway.CategoryOPDGeneral)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	status, err := engine.PatientStatus("T1")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.Position != 1 {
		t.Errorf("position = %d, want 1", status.Position)
	}
	if status.Current != v.Pathway[0] {
		t.Errorf("current = %s, want %s", status.Current, v.Pathway[0])
	}
	if status.EstimatedWait != 5 {
		t.Errorf("estimated wait = %d, want 5", status.EstimatedWait)
	}
}

func TestEngine_UnknownToken(t *testing.T) {
	engine, _, _ := newTestEngine()
	if _, err := engine.StartJourney("nope", 3, pathway.CategoryOPDGeneral); !errors.Is(err, ErrNotFound) {
		t.Errorf("start err = %v, want ErrNotFound", err)
	}
	if _, err := engine.Advance("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("advance err = %v, want ErrNotFound", err)
	}
	if _, err := engine.PatientStatus("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("status err = %v, want ErrNotFound", err)
	}
}

func TestStartJourney_OverwriteOnRestart(t *testing.T) {
	engine, store, _ := newTestEngine()
	addVisit(store, "T1")

	if _, err := engine.StartJourney("T1", 3, pathway.CategoryOPDGeneral); err != nil {
		t.Fatalf("start: %v", err)
	}
	// Corrected triage restarts the journey at a different lane.
	v, err := engine.StartJourney("T1", 5, pathway.CategoryPharmacy)
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	if v.Current != pathway.StationPharmacy {
		t.Errorf("current = %s, want pharmacy", v.Current)
	}
	if len(engine.StationQueue(pathway.StationVision)) != 0 {
		t.Error("restart must remove the stale vision_test entry")
	}
	if len(engine.StationQueue(pathway.StationPharmacy)) != 1 {
		t.Error("restart must enqueue at the new first station")
	}
}

func TestAdvance_MissingStationCompletes(t *testing.T) {
	engine, store, _ := newTestEngine()
	store.CreateVisit(&Visit{
		Token:    "T1",
		ESILevel: 3,
		Category: pathway.CategoryOPDGeneral,
		Current:  pathway.StationTrauma,
		Status:   StatusWaiting,
	})

	res, err := engine.Advance("T1")
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if !res.Completed {
		t.Error("a current station absent from the fresh pathway must complete the journey")
	}
}

func TestStore_Reset(t *testing.T) {
	engine, store, _ := newTestEngine()
	addVisit(store, "T1")
	if _, err := engine.StartJourney("T1", 3, pathway.CategoryOPDGeneral); err != nil {
		t.Fatalf("start: %v", err)
	}

	store.Reset()

	if _, err := engine.PatientStatus("T1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound after reset", err)
	}
	if len(engine.StationQueue(pathway.StationVision)) != 0 {
		t.Error("reset must clear station lists")
	}

	visits, _ := store.Counts()
	if visits != 0 {
		t.Errorf("visits = %d, want 0 after reset", visits)
	}
}
