package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/availtools/stopreports-to-loops/engine"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := Connect(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	if err := d.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("schema failed: %v", err)
	}
	return d
}

func TestSaveAndReadRun(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	completed := time.Date(2024, 3, 1, 10, 20, 0, 0, time.UTC)
	res := &engine.Result{
		Events: []engine.LoopEvent{{
			Vehicle:     "101",
			Block:       "B1",
			Route:       "55",
			StartTrip:   "10",
			EndTrip:     "11",
			StartStop:   "Pattee TC EB",
			EndStop:     "Jordan East Pk",
			CompletedAt: completed,
			ServiceDay:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			LoopCount:   1,
			TotalMiles:  4.3,
			TripFlip:    true,
		}},
		Summary:           engine.Summary{TotalLoops: 1, TotalMiles: 4.3, TripFlips: 1},
		DuplicatesDropped: 3,
	}
	meta := RunMeta{
		RangeStart:  time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC),
		RangeEnd:    time.Date(2024, 3, 2, 3, 0, 0, 0, time.UTC),
		Route:       "55",
		StartStop:   "Pattee TC EB",
		EndStop:     "Jordan East Pk",
		LoopMileage: 4.3,
	}

	runID, err := d.SaveRun(ctx, meta, res)
	if err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	if runID == "" {
		t.Fatal("SaveRun returned an empty run id")
	}

	runs, err := d.ListRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	r := runs[0]
	if r.RunID != runID || r.TotalLoops != 1 || r.TripFlips != 1 || r.DuplicatesDropped != 3 {
		t.Errorf("unexpected run summary: %+v", r)
	}

	events, err := d.RunEvents(ctx, runID)
	if err != nil {
		t.Fatalf("RunEvents failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	e := events[0]
	if e.StartTrip != "10" || e.EndTrip != "11" || !e.TripFlip {
		t.Errorf("unexpected event: %+v", e)
	}
	if !e.CompletedAt.Equal(completed) {
		t.Errorf("completed at %v, want %v", e.CompletedAt, completed)
	}
}

func TestRunEventsUnknownRun(t *testing.T) {
	d := openTestDB(t)
	events, err := d.RunEvents(context.Background(), "no-such-run")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected no events, got %d", len(events))
	}
}
