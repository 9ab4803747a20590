package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/availtools/stopreports-to-loops/engine"
)

// RunMeta describes one processed batch for archiving.
type RunMeta struct {
	RangeStart  time.Time
	RangeEnd    time.Time
	Route       string
	StartStop   string
	EndStop     string
	LoopMileage float64
}

// SaveRun persists the run row and its loop events in one transaction
// and returns the generated run id.
func (db *DB) SaveRun(ctx context.Context, meta RunMeta, res *engine.Result) (string, error) {
	db.writeMu.Lock()
	defer db.writeMu.Unlock()

	runID := uuid.New().String()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (
			run_id, created_at_utc, range_start_utc, range_end_utc,
			route, start_stop, end_stop, loop_mileage,
			total_loops, total_miles, trip_flips, duplicates_dropped
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID,
		time.Now().UTC().Format(time.RFC3339),
		meta.RangeStart.UTC().Format(time.RFC3339),
		meta.RangeEnd.UTC().Format(time.RFC3339),
		meta.Route,
		meta.StartStop,
		meta.EndStop,
		meta.LoopMileage,
		res.Summary.TotalLoops,
		res.Summary.TotalMiles,
		res.Summary.TripFlips,
		res.DuplicatesDropped,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO loop_events (
			run_id, seq, vehicle, block, route, start_trip, end_trip,
			start_stop, end_stop, completed_at_utc, service_day,
			loop_count, total_miles, trip_flip
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare event insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, e := range res.Events {
		_, err := stmt.ExecContext(ctx,
			runID, i,
			e.Vehicle, e.Block, e.Route,
			e.StartTrip, e.EndTrip,
			e.StartStop, e.EndStop,
			e.CompletedAt.UTC().Format(time.RFC3339),
			e.ServiceDay.Format("2006-01-02"),
			e.LoopCount, e.TotalMiles, boolToInt(e.TripFlip),
		)
		if err != nil {
			return "", fmt.Errorf("failed to insert event %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
