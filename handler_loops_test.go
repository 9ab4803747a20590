package stoploops

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/availtools/stopreports-to-loops/config"
)

func testService() *Service {
	cfg := config.AppConfig{
		Server: config.ServerConfig{Port: 8162},
		Detection: config.DetectionConfig{
			StartStop:   "Pattee TC EB",
			EndStop:     "Jordan East Pk",
			LoopMileage: 4.3,
			RouteLoop:   "BL",
			Direction:   "L",
		},
		RouteMapping: map[string]string{"BL": "55", "WL": "57"},
	}
	return NewService(cfg, nil)
}

func TestParseRunParamsWindow(t *testing.T) {
	svc := testService()
	r := httptest.NewRequest("GET", "/api/loops.csv?start=2024-03-01&end=2024-03-02", nil)

	p, err := svc.parseRunParams(r)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	wantStart := time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2024, 3, 3, 3, 0, 0, 0, time.UTC)
	if !p.start.Equal(wantStart) || !p.end.Equal(wantEnd) {
		t.Errorf("window (%v, %v), want (%v, %v)", p.start, p.end, wantStart, wantEnd)
	}
	if p.route != "55" {
		t.Errorf("default route %q, want 55", p.route)
	}
	if p.opts.LoopMileage != 4.3 {
		t.Errorf("mileage %v, want config default", p.opts.LoopMileage)
	}
}

func TestParseRunParamsOverrides(t *testing.T) {
	svc := testService()
	r := httptest.NewRequest("GET",
		"/api/loops.json?start=2024-03-01&route=WL&startStop=Lot+83+West&endStop=Pattee+TC+WB&mileage=5.1", nil)

	p, err := svc.parseRunParams(r)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if p.route != "57" {
		t.Errorf("route %q, want 57", p.route)
	}
	if p.opts.StartStop != "Lot 83 West" || p.opts.EndStop != "Pattee TC WB" {
		t.Errorf("stops (%q, %q) not overridden", p.opts.StartStop, p.opts.EndStop)
	}
	if p.opts.LoopMileage != 5.1 {
		t.Errorf("mileage %v, want 5.1", p.opts.LoopMileage)
	}
	// end defaults to start.
	if !p.end.Equal(time.Date(2024, 3, 2, 3, 0, 0, 0, time.UTC)) {
		t.Errorf("single-day window end %v", p.end)
	}
}

func TestParseRunParamsRejectsBadInput(t *testing.T) {
	svc := testService()
	tests := []struct {
		name string
		url  string
	}{
		{"missing start", "/api/loops.csv"},
		{"garbage start", "/api/loops.csv?start=tomorrow"},
		{"start after end", "/api/loops.csv?start=2024-03-05&end=2024-03-01"},
		{"negative mileage", "/api/loops.csv?start=2024-03-01&mileage=-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			if _, err := svc.parseRunParams(r); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestHandleHealth(t *testing.T) {
	svc := testService()
	w := httptest.NewRecorder()
	svc.handleHealth(w, httptest.NewRequest("GET", "/api/health", nil))

	var resp healthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("bad health body: %v", err)
	}
	if resp.Status != "ok" || resp.ArchiveEnabled {
		t.Errorf("unexpected health response: %+v", resp)
	}
}

func TestHandleRunsWithoutArchive(t *testing.T) {
	svc := testService()
	w := httptest.NewRecorder()
	svc.handleRuns(w, httptest.NewRequest("GET", "/api/runs", nil))
	if w.Code != 404 {
		t.Errorf("status %d, want 404 when the archive is disabled", w.Code)
	}
}
