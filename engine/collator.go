package engine

import "sort"

// collate orders the finalized events by block, then completion time,
// and computes the aggregate summary. The aggregate mileage is
// recomputed from the flat loop count: each event's TotalMiles is
// already cumulative for its vehicle-day, so summing them would
// double-weight the tally.
func collate(events []LoopEvent, mileage float64) ([]LoopEvent, Summary) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Block != events[j].Block {
			return events[i].Block < events[j].Block
		}
		return events[i].CompletedAt.Before(events[j].CompletedAt)
	})

	sum := Summary{
		TotalLoops: len(events),
		TotalMiles: round2(float64(len(events)) * mileage),
	}
	for _, e := range events {
		if e.TripFlip {
			sum.TripFlips++
		}
	}
	return events, sum
}
