package stopreports

import (
	"fmt"
	"time"

	"github.com/availtools/stopreports-to-loops/engine"
)

// timestampLayouts are tried in order. The API mostly returns bare
// local timestamps but RFC3339 shows up in some exports.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Parse converts raw rows into engine records. Rows with missing
// required fields or unparseable timestamps fail the whole batch with a
// descriptive error; no partial result is returned.
func Parse(reports []StopReport) ([]engine.StopVisit, error) {
	visits := make([]engine.StopVisit, 0, len(reports))
	for i, r := range reports {
		switch {
		case r.Vehicle == "":
			return nil, fmt.Errorf("stop report %d: missing Vehicle", i)
		case r.Block == "":
			return nil, fmt.Errorf("stop report %d: missing Block", i)
		case r.Route == "":
			return nil, fmt.Errorf("stop report %d: missing Route", i)
		case r.Trip == "":
			return nil, fmt.Errorf("stop report %d: missing Trip", i)
		case r.StopName == "":
			return nil, fmt.Errorf("stop report %d: missing Stop_Name", i)
		case r.Timestamp == "":
			return nil, fmt.Errorf("stop report %d: missing Timestamp", i)
		}
		ts, err := parseTimestamp(r.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("stop report %d: %w", i, err)
		}
		visits = append(visits, engine.StopVisit{
			Vehicle:   string(r.Vehicle),
			Block:     string(r.Block),
			Route:     string(r.Route),
			Trip:      string(r.Trip),
			StopName:  r.StopName,
			Direction: r.Direction,
			Timestamp: ts,
		})
	}
	return visits, nil
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}

// Filter applies the pre-engine restrictions: route code, optional
// direction code, and an optional stop allowlist. Empty arguments
// disable their respective filter.
func Filter(visits []engine.StopVisit, route, direction string, stops []string) []engine.StopVisit {
	keep := make(map[string]struct{}, len(stops))
	for _, s := range stops {
		keep[s] = struct{}{}
	}
	out := make([]engine.StopVisit, 0, len(visits))
	for _, v := range visits {
		if route != "" && v.Route != route {
			continue
		}
		if direction != "" && v.Direction != direction {
			continue
		}
		if len(keep) > 0 {
			if _, ok := keep[v.StopName]; !ok {
				continue
			}
		}
		out = append(out, v)
	}
	return out
}

// StopsToKeep builds the stop allowlist for a run: the start and end
// stops plus any configured extras, deduplicated preserving order.
func StopsToKeep(startStop, endStop string, extras []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, s := range append([]string{startStop, endStop}, extras...) {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
