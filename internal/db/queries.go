package db

import (
	"context"
	"fmt"
	"time"

	"github.com/availtools/stopreports-to-loops/engine"
)

// RunSummary is one archived run as listed over HTTP.
type RunSummary struct {
	RunID             string  `json:"run_id"`
	CreatedAt         string  `json:"created_at"`
	RangeStart        string  `json:"range_start"`
	RangeEnd          string  `json:"range_end"`
	Route             string  `json:"route"`
	StartStop         string  `json:"start_stop"`
	EndStop           string  `json:"end_stop"`
	LoopMileage       float64 `json:"loop_mileage"`
	TotalLoops        int     `json:"total_loops"`
	TotalMiles        float64 `json:"total_miles"`
	TripFlips         int     `json:"trip_flips"`
	DuplicatesDropped int     `json:"duplicates_dropped"`
}

// ListRuns returns the most recent archived runs, newest first.
func (db *DB) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.conn.QueryContext(ctx, `
		SELECT run_id, created_at_utc, range_start_utc, range_end_utc,
		       route, start_stop, end_stop, loop_mileage,
		       total_loops, total_miles, trip_flips, duplicates_dropped
		FROM runs
		ORDER BY created_at_utc DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(
			&r.RunID, &r.CreatedAt, &r.RangeStart, &r.RangeEnd,
			&r.Route, &r.StartStop, &r.EndStop, &r.LoopMileage,
			&r.TotalLoops, &r.TotalMiles, &r.TripFlips, &r.DuplicatesDropped,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// RunEvents returns the archived loop events for one run in stored
// (block, completion time) order.
func (db *DB) RunEvents(ctx context.Context, runID string) ([]engine.LoopEvent, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT vehicle, block, route, start_trip, end_trip,
		       start_stop, end_stop, completed_at_utc, service_day,
		       loop_count, total_miles, trip_flip
		FROM loop_events
		WHERE run_id = ?
		ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to read run events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []engine.LoopEvent
	for rows.Next() {
		var e engine.LoopEvent
		var completedAt, serviceDay string
		var tripFlip int
		if err := rows.Scan(
			&e.Vehicle, &e.Block, &e.Route, &e.StartTrip, &e.EndTrip,
			&e.StartStop, &e.EndStop, &completedAt, &serviceDay,
			&e.LoopCount, &e.TotalMiles, &tripFlip,
		); err != nil {
			return nil, err
		}
		if e.CompletedAt, err = time.Parse(time.RFC3339, completedAt); err != nil {
			return nil, fmt.Errorf("bad completed_at in archive: %w", err)
		}
		if e.ServiceDay, err = time.Parse("2006-01-02", serviceDay); err != nil {
			return nil, fmt.Errorf("bad service_day in archive: %w", err)
		}
		e.TripFlip = tripFlip != 0
		out = append(out, e)
	}
	return out, rows.Err()
}
