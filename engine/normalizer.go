package engine

import "sort"

type dedupKey struct {
	vehicle string
	block   string
	route   string
	ts      int64
	stop    string
}

// Normalize collapses duplicate records and orders the batch by block,
// then timestamp. Duplicates share (vehicle, block, route, timestamp,
// stop name); the first occurrence wins even when the trip ids differ,
// which happens when the upstream double-reports a visit across a trip
// boundary. The dropped count is returned for diagnostics.
func Normalize(records []StopVisit) ([]StopVisit, int) {
	seen := make(map[dedupKey]struct{}, len(records))
	out := make([]StopVisit, 0, len(records))
	dropped := 0
	for _, r := range records {
		k := dedupKey{r.Vehicle, r.Block, r.Route, r.Timestamp.UnixNano(), r.StopName}
		if _, ok := seen[k]; ok {
			dropped++
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	// Stable so equal keys keep their input order.
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Block != out[j].Block {
			return out[i].Block < out[j].Block
		}
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, dropped
}
