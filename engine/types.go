package engine

import "time"

// StopVisit is one vehicle stop-visit record as delivered by the
// telemetry source. Values are immutable once parsed.
type StopVisit struct {
	Vehicle   string
	Block     string
	Route     string
	Trip      string
	StopName  string
	Direction string
	Timestamp time.Time
}

// LoopEvent is one completed traversal of the configured loop. Events
// are created by the detector, numbered by the sequencer, and never
// mutated afterward.
type LoopEvent struct {
	Vehicle     string
	Block       string
	Route       string
	StartTrip   string
	EndTrip     string
	StartStop   string
	EndStop     string
	CompletedAt time.Time
	ServiceDay  time.Time
	LoopCount   int
	TotalMiles  float64
	TripFlip    bool
}

// Options configures one detection run.
type Options struct {
	// StartStop and EndStop are the canonical stop names that open and
	// close a loop. They must match record stop names exactly.
	StartStop string
	EndStop   string

	// LoopMileage is the fixed mileage of one complete loop.
	LoopMileage float64
}

// Summary aggregates a finished run.
type Summary struct {
	TotalLoops int
	TotalMiles float64
	TripFlips  int
}

// Result is the terminal artifact of one batch run. An empty Events
// slice is a valid outcome, not an error.
type Result struct {
	Events  []LoopEvent
	Summary Summary

	// DuplicatesDropped counts records the normalizer collapsed.
	// Diagnostic only.
	DuplicatesDropped int
}
