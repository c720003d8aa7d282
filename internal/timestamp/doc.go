// Package timestamp converts heterogeneous vendor timestamp representations
// into canonical UTC ISO-8601 strings.
//
// Accepted inputs:
//   - integer nanosecond epoch values ("1522670400000000000")
//   - ISO-8601 strings, with or without fractional seconds and offsets
//   - locale strings ("02/04/2018 12:00", day-first)
//
// Canonical output uses a "T" separator and "Z" suffix, with nanosecond
// precision when the instant has a fractional second and whole seconds
// otherwise ("2018-04-02T12:00:00Z", "2018-04-02T12:00:00.000000001Z").
//
// Unconvertible values are reported, never silently dropped: batch helpers
// replace them with the null marker and surface the count to the caller.
package timestamp
