// Package model defines shared data types used across the tradesilver pipeline.
//
// Conventions:
//   - Prices: int64 fixed-point, raw price = display units × 1e9
//     (a reference close of 2854.25 is a raw price of 2854250000000)
//   - Timestamps: canonical UTC ISO-8601 strings in files
//     ("2018-04-02T12:00:00.000000000Z"), time.Time in memory
//   - Dates: calendar trading days in the America/New_York trading calendar
package model
