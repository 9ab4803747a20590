package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/availtools/stopreports-to-loops/engine"
)

// Columns is the output column contract, in order.
var Columns = []string{
	"Vehicle", "Block", "Route", "Trip", "End_Trip", "Start_Stop",
	"End_Stop", "Loop_Completed_At", "Loop_Count", "Total_Miles", "Trip_Flip",
}

const timestampLayout = "2006-01-02 15:04:05"

// WriteCSV renders the event table plus the trailing total row. An
// empty run still produces the header and the total row.
func WriteCSV(w io.Writer, res *engine.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, e := range res.Events {
		if err := cw.Write(eventRow(e)); err != nil {
			return err
		}
	}
	if err := cw.Write(totalRow(res.Summary)); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func eventRow(e engine.LoopEvent) []string {
	return []string{
		e.Vehicle,
		e.Block,
		e.Route,
		e.StartTrip,
		e.EndTrip,
		e.StartStop,
		e.EndStop,
		e.CompletedAt.Format(timestampLayout),
		strconv.Itoa(e.LoopCount),
		formatMiles(e.TotalMiles),
		strconv.FormatBool(e.TripFlip),
	}
}

// totalRow carries the aggregate: the collator already weighted the
// miles by the flat loop count, and Trip_Flip becomes a descriptive
// string on this one row.
func totalRow(s engine.Summary) []string {
	return []string{
		"Total", "", "", "", "", "", "", "",
		strconv.Itoa(s.TotalLoops),
		formatMiles(s.TotalMiles),
		fmt.Sprintf("%d trip flips", s.TripFlips),
	}
}

func formatMiles(m float64) string {
	return strconv.FormatFloat(m, 'f', 2, 64)
}
