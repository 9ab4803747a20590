// Package engine converts an ordered batch of stop-visit records into
// loop completion events.
//
// The pipeline has five stages:
//   - normalize: drop duplicate telemetry, order by block and timestamp
//   - group: partition by (vehicle, block, route)
//   - detect: per-partition loop state machine with trip-flip recovery
//   - sequence: per-vehicle, per-service-day ordinals and mileage
//   - collate: final block/time ordering plus the aggregate summary
//
// The main entry point is Run. The engine is a pure in-memory
// computation: it performs no I/O and never retries.
package engine
