package engine

import "sort"

type groupKey struct {
	vehicle string
	block   string
	route   string
}

// groupVisits partitions the normalized batch by (vehicle, block,
// route) and re-sorts each partition by timestamp. Keys are returned in
// sorted order so partitions are always processed deterministically.
func groupVisits(records []StopVisit) ([]groupKey, map[groupKey][]StopVisit) {
	groups := make(map[groupKey][]StopVisit)
	for _, r := range records {
		k := groupKey{r.Vehicle, r.Block, r.Route}
		groups[k] = append(groups[k], r)
	}

	keys := make([]groupKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.vehicle != b.vehicle {
			return a.vehicle < b.vehicle
		}
		if a.block != b.block {
			return a.block < b.block
		}
		return a.route < b.route
	})

	for _, k := range keys {
		g := groups[k]
		sort.SliceStable(g, func(i, j int) bool {
			return g[i].Timestamp.Before(g[j].Timestamp)
		})
	}
	return keys, groups
}
