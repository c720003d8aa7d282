// Package extract streams candidate raw trade files and accumulates the
// records falling inside a reference day's UTC window.
//
// Files are read in bounded-size chunks so peak memory stays flat
// regardless of file size. Event timestamps are normalized (integer
// nanosecond epoch values become canonical UTC ISO-8601) before filtering.
// Per-file read errors are reported and skipped; records already gathered
// from other files for the same day survive.
package extract
