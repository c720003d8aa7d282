// Package bars resamples per-day trade archives into OHLCV bars at day,
// minute, and hour granularity.
//
// Input is the reconciler's output folder of <YYYYMMDD>.parquet day files.
// Prices are converted from raw fixed-point to hundredths of a display
// unit (price / 1e7) before aggregation, and intraday bars are filtered to
// a trading session (electronic or regular) in New York time. One output
// file covers the whole input range, named
// <first>-<last>_<slot>_<unit>.parquet.
package bars
