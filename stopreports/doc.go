// Package stopreports handles fetching and parsing stop-visit telemetry
// from the StopReports API.
//
// The Client walks a date range in fixed-size chunks and concatenates
// the returned pages. Parse converts the raw string rows into engine
// records, failing fast on malformed input. Filter applies the
// route/direction/stop restrictions that happen before the detection
// engine runs.
package stopreports
