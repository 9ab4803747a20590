package engine

import (
	"errors"
	"fmt"
)

// Run executes the full detection pipeline over one batch. Records may
// arrive unordered, duplicated, and mixed across vehicles; route and
// direction filtering is expected to have happened upstream. An input
// with no completable loops yields an empty Result, not an error.
func Run(records []StopVisit, opts Options) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	normalized, dropped := Normalize(records)
	keys, groups := groupVisits(normalized)

	var events []LoopEvent
	for _, k := range keys {
		events = append(events, detectLoops(groups[k], opts)...)
	}

	sequence(events, opts.LoopMileage)
	events, sum := collate(events, opts.LoopMileage)

	return &Result{
		Events:            events,
		Summary:           sum,
		DuplicatesDropped: dropped,
	}, nil
}

func (o Options) validate() error {
	if o.StartStop == "" {
		return errors.New("start stop must not be empty")
	}
	if o.EndStop == "" {
		return errors.New("end stop must not be empty")
	}
	if o.LoopMileage <= 0 {
		return fmt.Errorf("loop mileage must be positive, got %v", o.LoopMileage)
	}
	return nil
}
