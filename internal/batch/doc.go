// Package batch drives the per-day reconciliation pipeline.
//
// One reference day is fully reconciled and written before the next begins:
// full-day window, candidate files, extraction, reconciliation, day-file
// write. Failures are isolated per day, so one bad day never aborts the
// batch, and the writer's existence check makes re-runs skip completed days.
// Each run carries a uuid that tags every log line and the final summary.
package batch
