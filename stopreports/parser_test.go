package stopreports

import (
	"encoding/json"
	"testing"
	"time"
)

func validReport() StopReport {
	return StopReport{
		Vehicle:   "101",
		Block:     "B1",
		Route:     "55",
		Trip:      "10",
		StopName:  "Pattee TC EB",
		Direction: "L",
		Timestamp: "2024-03-01 10:00:00",
	}
}

func TestParseTimestampLayouts(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"rfc3339", "2024-03-01T10:00:00Z"},
		{"t-separated", "2024-03-01T10:00:00"},
		{"space-separated", "2024-03-01 10:00:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validReport()
			r.Timestamp = tt.in
			visits, err := Parse([]StopReport{r})
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			got := visits[0].Timestamp
			want := time.Date(2024, 3, 1, 10, 0, 0, 0, got.Location())
			if !got.Equal(want) {
				t.Errorf("parsed %v, want %v", got, want)
			}
		})
	}
}

func TestParseFailsFastOnMissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*StopReport)
	}{
		{"missing vehicle", func(r *StopReport) { r.Vehicle = "" }},
		{"missing block", func(r *StopReport) { r.Block = "" }},
		{"missing route", func(r *StopReport) { r.Route = "" }},
		{"missing trip", func(r *StopReport) { r.Trip = "" }},
		{"missing stop name", func(r *StopReport) { r.StopName = "" }},
		{"missing timestamp", func(r *StopReport) { r.Timestamp = "" }},
		{"garbage timestamp", func(r *StopReport) { r.Timestamp = "yesterday" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validReport()
			tt.mutate(&r)
			if _, err := Parse([]StopReport{validReport(), r}); err == nil {
				t.Error("expected an error, got none")
			}
		})
	}
}

func TestDecodeEnvelopeWithNumericColumns(t *testing.T) {
	payload := `{"result": {"Stop Reports": [
		{"Vehicle": 101, "Block": "B1", "Route": 55, "Trip": 10,
		 "Stop_Name": "Pattee TC EB", "Direction": "L",
		 "Timestamp": "2024-03-01 10:00:00"}
	]}}`

	var env envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	rows := env.Result.StopReports
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Vehicle != "101" || rows[0].Route != "55" || rows[0].Trip != "10" {
		t.Errorf("numeric columns not normalized: %+v", rows[0])
	}
}

func TestFilter(t *testing.T) {
	visits, err := Parse([]StopReport{validReport()})
	if err != nil {
		t.Fatal(err)
	}
	v := visits[0]
	other := v
	other.Route = "57"
	inbound := v
	inbound.Direction = "I"
	offLoop := v
	offLoop.StopName = "Schlow Lib_CATA"
	in := append(visits, other, inbound, offLoop)

	out := Filter(in, "55", "L", []string{"Pattee TC EB", "Jordan East Pk"})
	if len(out) != 1 {
		t.Fatalf("expected 1 surviving visit, got %d", len(out))
	}
	if out[0] != v {
		t.Errorf("wrong visit survived: %+v", out[0])
	}

	// Empty filters pass everything through.
	if out := Filter(in, "", "", nil); len(out) != len(in) {
		t.Errorf("empty filters dropped records: %d != %d", len(out), len(in))
	}
}

func TestStopsToKeep(t *testing.T) {
	got := StopsToKeep("Pattee TC EB", "Jordan East Pk",
		[]string{"Nittany Com Ctr", "Pattee TC EB", "College_Allen"})
	want := []string{"Pattee TC EB", "Jordan East Pk", "Nittany Com Ctr", "College_Allen"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
