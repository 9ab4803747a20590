package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/availtools/stopreports-to-loops/engine"
)

// Collector holds the service metrics on a private registry.
type Collector struct {
	reg *prometheus.Registry

	ReportsFetched    prometheus.Counter
	FetchErrors       prometheus.Counter
	DuplicatesDropped prometheus.Counter
	LoopsDetected     prometheus.Counter
	TripFlips         prometheus.Counter

	LastRunLoops prometheus.Gauge
	RunDuration  prometheus.Histogram
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		ReportsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "loops_stop_reports_fetched_total",
			Help: "Total stop reports fetched from the API.",
		}),
		FetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "loops_fetch_errors_total",
			Help: "Total failed fetches against the StopReports API.",
		}),
		DuplicatesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "loops_duplicates_dropped_total",
			Help: "Total duplicate stop reports collapsed by the normalizer.",
		}),
		LoopsDetected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "loops_detected_total",
			Help: "Total loop completion events emitted.",
		}),
		TripFlips: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "loops_trip_flips_total",
			Help: "Total loops that closed under a flipped trip id.",
		}),
		LastRunLoops: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "loops_last_run_loops",
			Help: "Loop count of the most recent run.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "loops_run_duration_seconds",
			Help:    "Wall time of one fetch-and-detect run.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
	}

	reg.MustRegister(
		c.ReportsFetched,
		c.FetchErrors,
		c.DuplicatesDropped,
		c.LoopsDetected,
		c.TripFlips,
		c.LastRunLoops,
		c.RunDuration,
	)
	return c
}

// ObserveRun records the outcome of one processed batch.
func (c *Collector) ObserveRun(res *engine.Result, seconds float64) {
	c.DuplicatesDropped.Add(float64(res.DuplicatesDropped))
	c.LoopsDetected.Add(float64(res.Summary.TotalLoops))
	c.TripFlips.Add(float64(res.Summary.TripFlips))
	c.LastRunLoops.Set(float64(res.Summary.TotalLoops))
	c.RunDuration.Observe(seconds)
}

// Handler serves the private registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}
