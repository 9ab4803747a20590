package stoploops

import (
	"context"
	"log"
	"time"

	"github.com/availtools/stopreports-to-loops/config"
	"github.com/availtools/stopreports-to-loops/engine"
	"github.com/availtools/stopreports-to-loops/internal/db"
	"github.com/availtools/stopreports-to-loops/internal/metrics"
	"github.com/availtools/stopreports-to-loops/stopreports"
)

// Service wires the fetch client, the detection engine, metrics, and
// the optional run archive behind the HTTP surface.
type Service struct {
	cfg     config.AppConfig
	client  *stopreports.Client
	metrics *metrics.Collector
	archive *db.DB
}

// NewService creates a Service. archive may be nil when the archive is
// disabled.
func NewService(cfg config.AppConfig, archive *db.DB) *Service {
	return &Service{
		cfg: cfg,
		client: stopreports.NewClient(
			cfg.API.BaseURL,
			cfg.API.SubscriptionKey,
			cfg.API.Timeout(),
			cfg.API.ChunkWindow(),
		),
		metrics: metrics.NewCollector(),
		archive: archive,
	}
}

// Run fetches the window, applies the pre-filters, and executes the
// detection engine.
func (s *Service) Run(ctx context.Context, start, end time.Time, opts engine.Options, route string) (*engine.Result, error) {
	began := time.Now()

	reports, err := s.client.FetchRange(ctx, start, end)
	if err != nil {
		s.metrics.FetchErrors.Inc()
		return nil, err
	}
	s.metrics.ReportsFetched.Add(float64(len(reports)))

	visits, err := stopreports.Parse(reports)
	if err != nil {
		return nil, err
	}
	visits = stopreports.Filter(visits, route, s.cfg.Detection.Direction,
		stopreports.StopsToKeep(opts.StartStop, opts.EndStop, s.cfg.Detection.ExtraStops))

	res, err := engine.Run(visits, opts)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveRun(res, time.Since(began).Seconds())
	if res.DuplicatesDropped > 0 {
		log.Printf("normalizer dropped %d duplicate stop reports", res.DuplicatesDropped)
	}
	return res, nil
}
