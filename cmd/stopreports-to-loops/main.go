package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"time"

	lib "github.com/availtools/stopreports-to-loops"
	"github.com/availtools/stopreports-to-loops/config"
	"github.com/availtools/stopreports-to-loops/engine"
	"github.com/availtools/stopreports-to-loops/internal"
	"github.com/availtools/stopreports-to-loops/internal/db"
	"github.com/availtools/stopreports-to-loops/report"
	"github.com/availtools/stopreports-to-loops/stopreports"
)

func main() {
	mode := flag.String("mode", "oneshot", "oneshot|serve")
	startDate := flag.String("start", "", "range start date (YYYY-MM-DD)")
	endDate := flag.String("end", "", "range end date (YYYY-MM-DD, defaults to -start)")
	routeLoop := flag.String("route", "", "route loop to analyze, e.g. BL or WL (overrides config)")
	startStop := flag.String("startStop", "", "start stop name (overrides config)")
	endStop := flag.String("endStop", "", "end stop name (overrides config)")
	mileage := flag.Float64("mileage", 0, "miles per loop (overrides config)")
	input := flag.String("input", "", "local stop-reports JSON dump instead of the API")
	out := flag.String("out", "", "output file (default stdout)")
	format := flag.String("format", "csv", "csv|json")
	archive := flag.Bool("archive", false, "persist the run to the sqlite archive")
	flag.Parse()

	internal.InitLogging()
	if err := config.LoadAppConfig(); err != nil {
		log.Fatalf("config error: %v", err)
	}
	cfg := config.Config

	switch *mode {
	case "serve":
		var store *db.DB
		if cfg.Archive.Path != "" {
			var err error
			store, err = openArchive(cfg.Archive.Path)
			if err != nil {
				log.Fatalf("archive error: %v", err)
			}
			defer func() { _ = store.Close() }()
		}
		svc := lib.NewService(cfg, store)
		lib.StartServer(svc)
		lib.HandleGracefulShutdown()
	case "oneshot":
		runOnce(cfg, oneshotArgs{
			startDate: *startDate,
			endDate:   *endDate,
			routeLoop: *routeLoop,
			startStop: *startStop,
			endStop:   *endStop,
			mileage:   *mileage,
			input:     *input,
			out:       *out,
			format:    *format,
			archive:   *archive,
		})
	default:
		log.Fatalf("unknown mode %q", *mode)
	}
}

type oneshotArgs struct {
	startDate, endDate string
	routeLoop          string
	startStop, endStop string
	mileage            float64
	input, out, format string
	archive            bool
}

func runOnce(cfg config.AppConfig, args oneshotArgs) {
	opts := engine.Options{
		StartStop:   cfg.Detection.StartStop,
		EndStop:     cfg.Detection.EndStop,
		LoopMileage: cfg.Detection.LoopMileage,
	}
	if args.startStop != "" {
		opts.StartStop = args.startStop
	}
	if args.endStop != "" {
		opts.EndStop = args.endStop
	}
	if args.mileage > 0 {
		opts.LoopMileage = args.mileage
	}
	route := cfg.RouteCode(args.routeLoop)

	var (
		reports    []stopreports.StopReport
		err        error
		rangeStart time.Time
		rangeEnd   time.Time
	)
	if args.input != "" {
		reports, err = stopreports.ReadFile(args.input)
		if err != nil {
			log.Fatalf("failed to read %s: %v", args.input, err)
		}
	} else {
		if args.startDate == "" {
			log.Fatal("either -start or -input is required")
		}
		if args.endDate == "" {
			args.endDate = args.startDate
		}
		start, err := time.Parse("2006-01-02", args.startDate)
		if err != nil {
			log.Fatalf("bad -start date: %v", err)
		}
		end, err := time.Parse("2006-01-02", args.endDate)
		if err != nil {
			log.Fatalf("bad -end date: %v", err)
		}
		if start.After(end) {
			log.Fatal("start date is after end date")
		}
		// Fetch the full operating window: 06:00 on the start date
		// through 03:00 the day after the end date.
		rangeStart = start.Add(6 * time.Hour)
		rangeEnd = end.AddDate(0, 0, 1).Add(3 * time.Hour)

		client := stopreports.NewClient(cfg.API.BaseURL, cfg.API.SubscriptionKey,
			cfg.API.Timeout(), cfg.API.ChunkWindow())
		reports, err = client.FetchRange(context.Background(), rangeStart, rangeEnd)
		if err != nil {
			log.Fatalf("fetch failed: %v", err)
		}
	}
	log.Printf("loaded %d stop reports", len(reports))

	visits, err := stopreports.Parse(reports)
	if err != nil {
		log.Fatalf("malformed input: %v", err)
	}
	visits = stopreports.Filter(visits, route, cfg.Detection.Direction,
		stopreports.StopsToKeep(opts.StartStop, opts.EndStop, cfg.Detection.ExtraStops))

	res, err := engine.Run(visits, opts)
	if err != nil {
		log.Fatalf("detection failed: %v", err)
	}
	if res.Summary.TotalLoops == 0 {
		log.Printf("no complete loops found for route %s between %q and %q", route, opts.StartStop, opts.EndStop)
	} else {
		log.Printf("detected %d loops, %.2f miles, %d trip flips (%d duplicates dropped)",
			res.Summary.TotalLoops, res.Summary.TotalMiles, res.Summary.TripFlips,
			res.DuplicatesDropped)
	}

	var w io.Writer = os.Stdout
	if args.out != "" {
		f, err := os.Create(args.out)
		if err != nil {
			log.Fatalf("failed to create %s: %v", args.out, err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}
	switch args.format {
	case "csv":
		if err := report.WriteCSV(w, res); err != nil {
			log.Fatalf("csv write failed: %v", err)
		}
	case "json":
		if _, err := w.Write(report.BuildJSON(res)); err != nil {
			log.Fatalf("json write failed: %v", err)
		}
	default:
		log.Fatalf("unknown format %q", args.format)
	}

	if args.archive {
		if cfg.Archive.Path == "" {
			log.Fatal("-archive requires archive.path in config.yml")
		}
		store, err := openArchive(cfg.Archive.Path)
		if err != nil {
			log.Fatalf("archive error: %v", err)
		}
		defer func() { _ = store.Close() }()
		meta := db.RunMeta{
			RangeStart:  rangeStart,
			RangeEnd:    rangeEnd,
			Route:       route,
			StartStop:   opts.StartStop,
			EndStop:     opts.EndStop,
			LoopMileage: opts.LoopMileage,
		}
		runID, err := store.SaveRun(context.Background(), meta, res)
		if err != nil {
			log.Fatalf("archive write failed: %v", err)
		}
		log.Printf("archived run %s", runID)
	}
}

func openArchive(path string) (*db.DB, error) {
	store, err := db.Connect(path)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureSchema(context.Background()); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}
