package stoploops

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/availtools/stopreports-to-loops/engine"
	"github.com/availtools/stopreports-to-loops/internal/db"
	"github.com/availtools/stopreports-to-loops/report"
)

// runParams holds one validated on-demand run request.
type runParams struct {
	start time.Time
	end   time.Time
	opts  engine.Options
	route string
}

// parseRunParams validates the query string for an on-demand run. The
// fetch window follows the operating convention: 06:00 on the start
// date through 03:00 the day after the end date.
func (s *Service) parseRunParams(r *http.Request) (runParams, error) {
	q := r.URL.Query()

	startDate := q.Get("start")
	if startDate == "" {
		return runParams{}, fmt.Errorf("missing required parameter start (YYYY-MM-DD)")
	}
	endDate := q.Get("end")
	if endDate == "" {
		endDate = startDate
	}
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return runParams{}, fmt.Errorf("bad start date %q", startDate)
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return runParams{}, fmt.Errorf("bad end date %q", endDate)
	}
	if start.After(end) {
		return runParams{}, fmt.Errorf("start date is after end date")
	}

	p := runParams{
		start: start.Add(6 * time.Hour),
		end:   end.AddDate(0, 0, 1).Add(3 * time.Hour),
		opts: engine.Options{
			StartStop:   s.cfg.Detection.StartStop,
			EndStop:     s.cfg.Detection.EndStop,
			LoopMileage: s.cfg.Detection.LoopMileage,
		},
		route: s.cfg.RouteCode(q.Get("route")),
	}
	if v := q.Get("startStop"); v != "" {
		p.opts.StartStop = v
	}
	if v := q.Get("endStop"); v != "" {
		p.opts.EndStop = v
	}
	if v := q.Get("mileage"); v != "" {
		m, err := strconv.ParseFloat(v, 64)
		if err != nil || m <= 0 {
			return runParams{}, fmt.Errorf("bad mileage %q", v)
		}
		p.opts.LoopMileage = m
	}
	return p, nil
}

func (s *Service) runAndArchive(r *http.Request, p runParams) (*engine.Result, error) {
	res, err := s.Run(r.Context(), p.start, p.end, p.opts, p.route)
	if err != nil {
		return nil, err
	}
	if s.archive != nil {
		meta := db.RunMeta{
			RangeStart:  p.start,
			RangeEnd:    p.end,
			Route:       p.route,
			StartStop:   p.opts.StartStop,
			EndStop:     p.opts.EndStop,
			LoopMileage: p.opts.LoopMileage,
		}
		if runID, err := s.archive.SaveRun(r.Context(), meta, res); err != nil {
			log.Printf("archive write failed: %v", err)
		} else {
			log.Printf("archived run %s (%d loops)", runID, res.Summary.TotalLoops)
		}
	}
	return res, nil
}

func (s *Service) handleLoopsCSV(w http.ResponseWriter, r *http.Request) {
	p, err := s.parseRunParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := s.runAndArchive(r, p)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="Bus_Loop_Events.csv"`)
	if err := report.WriteCSV(w, res); err != nil {
		log.Printf("csv write failed: %v", err)
	}
}

func (s *Service) handleLoopsJSON(w http.ResponseWriter, r *http.Request) {
	p, err := s.parseRunParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := s.runAndArchive(r, p)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(report.BuildJSON(res))
}

func (s *Service) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		http.Error(w, "archive disabled", http.StatusNotFound)
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}
	runs, err := s.archive.ListRuns(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(runs)
}

func (s *Service) handleRunEvents(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		http.Error(w, "archive disabled", http.StatusNotFound)
		return
	}
	runID := strings.TrimPrefix(r.URL.Path, "/api/runs/")
	if runID == "" || strings.Contains(runID, "/") {
		http.Error(w, "bad run id", http.StatusBadRequest)
		return
	}
	events, err := s.archive.RunEvents(r.Context(), runID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if len(events) == 0 {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(events)
}
