// Package reference loads the trusted daily OHLC reference table.
//
// The table is CSV with columns time, open, high, low, close. Times are
// localized to New York when timezone-naive and parsed day-first when
// ambiguous. Prices arrive as decimal text in display units; they are
// scaled to raw fixed-point (× 1e9) with exact decimal arithmetic so that
// reconciliation can compare with integer equality. A reference price that
// does not scale to a whole raw integer is a data error, not a rounding
// opportunity.
package reference
