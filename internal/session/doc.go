// Package session computes the UTC instant range of a trading session on a
// given New York trading day.
//
// Two session types exist for intraday bar filtering (electronic, regular),
// plus a wider full-calendar-day window used by the reconciliation driver to
// decide which raw files may be relevant. All boundaries are defined in New
// York local time and respect DST, so the UTC offsets differ between summer
// and winter days.
package session
