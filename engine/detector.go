package engine

import "sort"

// tripState tracks start/end progress for one trip id within a
// partition. States are allocated lazily as new trip ids appear.
type tripState struct {
	waiting    bool
	startIndex int
}

// detectLoops scans one (vehicle, block, route) partition in timestamp
// order and emits raw loop events. Ordinals and mileage are assigned
// later by the sequencer.
//
// A start-stop visit arms the record's trip; a later end-stop visit
// under the same trip closes the loop. Re-visiting the start stop while
// armed restarts the wait rather than stacking. The close check runs
// first so the degenerate start==end configuration alternates
// open/close on successive visits.
func detectLoops(group []StopVisit, opts Options) []LoopEvent {
	states := make(map[string]*tripState)
	var events []LoopEvent

	for i, r := range group {
		if r.StopName == opts.EndStop {
			if st, ok := states[r.Trip]; ok && st.waiting {
				events = append(events, LoopEvent{
					Vehicle:     r.Vehicle,
					Block:       r.Block,
					Route:       r.Route,
					StartTrip:   r.Trip,
					EndTrip:     r.Trip,
					StartStop:   opts.StartStop,
					EndStop:     opts.EndStop,
					CompletedAt: r.Timestamp,
				})
				st.waiting = false
				continue
			}
		}
		if r.StopName == opts.StartStop {
			st, ok := states[r.Trip]
			if !ok {
				st = &tripState{}
				states[r.Trip] = st
			}
			st.waiting = true
			st.startIndex = i
		}
	}

	events = append(events, recoverTripFlips(group, states, opts)...)
	return events
}

// recoverTripFlips handles trips that saw the start stop but never the
// end stop under their own trip id. For each such trip the scan looks
// one trip boundary forward: the first trip id after the start that
// differs from the waiting trip. If that trip reaches the end stop
// within its contiguous run of records, the loop closed under a
// flipped trip and one event is emitted. Anything else leaves the loop
// incomplete, which is the expected state for a vehicle mid-loop at
// the data-window edge. Several trip changes before the end stop
// degrade to no event.
func recoverTripFlips(group []StopVisit, states map[string]*tripState, opts Options) []LoopEvent {
	waiting := make([]string, 0, len(states))
	for trip, st := range states {
		if st.waiting {
			waiting = append(waiting, trip)
		}
	}
	// Ascending start position keeps recovery output deterministic.
	sort.Slice(waiting, func(i, j int) bool {
		return states[waiting[i]].startIndex < states[waiting[j]].startIndex
	})

	var events []LoopEvent
	for _, trip := range waiting {
		st := states[trip]
		flipTrip := ""
		for j := st.startIndex + 1; j < len(group); j++ {
			r := group[j]
			if r.Trip == trip {
				continue
			}
			if flipTrip == "" {
				flipTrip = r.Trip
			}
			if r.Trip != flipTrip {
				break
			}
			if r.StopName == opts.EndStop {
				events = append(events, LoopEvent{
					Vehicle:     r.Vehicle,
					Block:       r.Block,
					Route:       r.Route,
					StartTrip:   trip,
					EndTrip:     r.Trip,
					StartStop:   opts.StartStop,
					EndStop:     opts.EndStop,
					CompletedAt: r.Timestamp,
					TripFlip:    true,
				})
				break
			}
		}
	}
	return events
}
