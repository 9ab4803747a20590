package engine

import (
	"math"
	"sort"
	"time"
)

// serviceDayStartHour is when the operating day rolls over. A service
// day runs 06:00 through 03:00 the next calendar day, so completions
// before 06:00 count toward the previous date.
const serviceDayStartHour = 6

// ServiceDay maps a timestamp to the midnight of its operating day.
func ServiceDay(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	if t.Hour() < serviceDayStartHour {
		day = day.AddDate(0, 0, -1)
	}
	return day
}

type vehicleDay struct {
	vehicle string
	day     string
}

// sequence assigns LoopCount and TotalMiles. Events are finalized in
// global CompletedAt order so ordinals are chronological across all
// partitions; the tally is keyed by (vehicle, service day) and spans
// blocks, since a vehicle changing blocks mid-day keeps its count.
func sequence(events []LoopEvent, mileage float64) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].CompletedAt.Before(events[j].CompletedAt)
	})
	counts := make(map[vehicleDay]int)
	for i := range events {
		e := &events[i]
		e.ServiceDay = ServiceDay(e.CompletedAt)
		k := vehicleDay{e.Vehicle, e.ServiceDay.Format("2006-01-02")}
		counts[k]++
		e.LoopCount = counts[k]
		e.TotalMiles = round2(float64(e.LoopCount) * mileage)
	}
}

func round2(x float64) float64 { return math.Round(x*100) / 100 }
