package report

import (
	"encoding/json"

	"github.com/availtools/stopreports-to-loops/engine"
)

// jsonEvent mirrors the CSV column contract field for field.
type jsonEvent struct {
	Vehicle         string `json:"Vehicle"`
	Block           string `json:"Block"`
	Route           string `json:"Route"`
	Trip            string `json:"Trip"`
	EndTrip         string `json:"End_Trip"`
	StartStop       string `json:"Start_Stop"`
	EndStop         string `json:"End_Stop"`
	LoopCompletedAt string `json:"Loop_Completed_At"`
	LoopCount       int    `json:"Loop_Count"`
	TotalMiles      string `json:"Total_Miles"`
	TripFlip        bool   `json:"Trip_Flip"`
}

type jsonSummary struct {
	TotalLoops int    `json:"total_loops"`
	TotalMiles string `json:"total_miles"`
	TripFlips  int    `json:"trip_flips"`
}

type jsonDocument struct {
	Events            []jsonEvent `json:"events"`
	Summary           jsonSummary `json:"summary"`
	DuplicatesDropped int         `json:"duplicates_dropped"`
}

// BuildJSON serializes a finished run to JSON.
func BuildJSON(res *engine.Result) []byte {
	doc := jsonDocument{
		Events: make([]jsonEvent, 0, len(res.Events)),
		Summary: jsonSummary{
			TotalLoops: res.Summary.TotalLoops,
			TotalMiles: formatMiles(res.Summary.TotalMiles),
			TripFlips:  res.Summary.TripFlips,
		},
		DuplicatesDropped: res.DuplicatesDropped,
	}
	for _, e := range res.Events {
		doc.Events = append(doc.Events, jsonEvent{
			Vehicle:         e.Vehicle,
			Block:           e.Block,
			Route:           e.Route,
			Trip:            e.StartTrip,
			EndTrip:         e.EndTrip,
			StartStop:       e.StartStop,
			EndStop:         e.EndStop,
			LoopCompletedAt: e.CompletedAt.Format(timestampLayout),
			LoopCount:       e.LoopCount,
			TotalMiles:      formatMiles(e.TotalMiles),
			TripFlip:        e.TripFlip,
		})
	}
	b, _ := json.Marshal(doc)
	return b
}
