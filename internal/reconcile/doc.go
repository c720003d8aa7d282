// Package reconcile implements the contract reconciliation engine.
//
// Futures roll between contract months and vendors multiplex several
// contracts per symbol per file, so the trades inside one reference day's
// window span many instrument identifiers. The reconciler decides which
// instrument the reference vendor actually priced: it groups candidate
// trades by instrument_id, computes each group's OHLCV in event-time order,
// counts exact matches against the reference open/high/low/close, and picks
// the winner under a documented policy:
//
//   - higher match count always wins
//   - ties at the same count are resolved by higher traded volume
//   - when no group matches any field, the most liquid instrument is
//     selected with degraded confidence (volume fallback)
//
// Price comparison is exact int64 equality after scaling the reference by
// 1e9; there is no floating-point tolerance anywhere in the engine.
package reconcile
