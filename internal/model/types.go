package model

import "time"

// PriceScale converts display price units to raw fixed-point prices.
// Raw vendor prices are the reference price multiplied by 1e9.
const PriceScale = int64(1_000_000_000)

// Session identifies a trading-hours window within a trading day.
type Session string

const (
	// SessionElectronic runs 18:00 New York local on the previous day
	// through 16:15 on the trading day.
	SessionElectronic Session = "electronic"

	// SessionRegular runs 09:30 through 16:15 New York local on the
	// trading day.
	SessionRegular Session = "regular"
)

// -----------------------------------------------------------------------------
// Reference Types
// -----------------------------------------------------------------------------

// ReferenceDay is one row of the trusted daily OHLC reference table.
// Prices are already scaled to raw fixed-point units (× 1e9), so they
// compare directly against TradeRecord.Price with integer equality.
type ReferenceDay struct {
	Date    time.Time // Trading day (NY calendar), time part zero
	Open    int64     // Official open (raw, × 1e9)
	High    int64     // Official high (raw, × 1e9)
	Low     int64     // Official low (raw, × 1e9)
	Close   int64     // Official close (raw, × 1e9)
	Session Session   // Session the OHLC values describe
}

// -----------------------------------------------------------------------------
// Trade Types
// -----------------------------------------------------------------------------

// TradeRecord is one raw vendor trade row. Timestamp strings are kept in
// their canonical on-disk form so output files reproduce the input bytes;
// EventTime carries the parsed ts_event used for filtering and ordering.
type TradeRecord struct {
	TsRecv       string    // Receive timestamp, canonical UTC ISO-8601
	TsEvent      string    // Event timestamp, canonical UTC ISO-8601
	EventTime    time.Time // Parsed TsEvent; zero when the timestamp was malformed
	RType        int64     // Vendor record type
	PublisherID  int64     // Vendor publisher
	InstrumentID int64     // Contract identifier (one specific expiry)
	Action       string    // Vendor action code
	Side         string    // Aggressor side
	Depth        int64     // Book depth
	Price        int64     // Trade price (raw, × 1e9)
	Size         int64     // Contracts traded
	Flags        int64     // Vendor flags
	TsInDelta    int64     // Vendor receive-to-event delta
	Sequence     int64     // Vendor sequence number
	Symbol       string    // Optional human symbol; empty when the file has none
}

// InstrumentGroup holds all candidate records of one (day, instrument_id)
// pair together with OHLCV aggregates taken in event-time order.
type InstrumentGroup struct {
	InstrumentID int64
	Records      []TradeRecord // Original extraction order
	Open         int64         // Price of earliest record by EventTime
	High         int64
	Low          int64
	Close        int64 // Price of latest record by EventTime
	Volume       int64 // Sum of Size
}

// -----------------------------------------------------------------------------
// Reconciliation Types
// -----------------------------------------------------------------------------

// MatchLevel describes how the winning instrument was selected.
type MatchLevel string

const (
	// FullMatch: all four OHLC fields equal the reference exactly.
	FullMatch MatchLevel = "full"

	// PartialMatch: one to three OHLC fields equal the reference.
	PartialMatch MatchLevel = "partial"

	// VolumeFallback: no instrument matched any OHLC field; the most
	// liquid instrument was selected instead.
	VolumeFallback MatchLevel = "volume_fallback"
)

// Anomaly is a non-fatal reconciliation condition recorded for audit.
type Anomaly string

const (
	// AnomalyMultiStrongMatch: more than one instrument matched >= 3 of 4
	// OHLC fields; the tie was resolved by volume.
	AnomalyMultiStrongMatch Anomaly = "multi_strong_match"

	// AnomalyPartialBest: the final answer matched only 1-2 OHLC fields.
	AnomalyPartialBest Anomaly = "partial_best"

	// AnomalyVolumeFallback: the final answer matched no OHLC field.
	AnomalyVolumeFallback Anomaly = "volume_fallback"
)

// DayResult is the outcome of reconciling one reference day. Immutable
// once produced; persisted as one output file.
type DayResult struct {
	Date         time.Time     // Reference trading day
	InstrumentID int64         // Winning contract
	Quality      MatchLevel    // Selection confidence
	MatchCount   int           // OHLC fields matched (0-4)
	Volume       int64         // Winning group's total volume
	Anomalies    []Anomaly     // Conditions recorded during selection
	Records      []TradeRecord // Winning group's rows, extraction order
}

// -----------------------------------------------------------------------------
// Bar Types
// -----------------------------------------------------------------------------

// Bar is one resampled OHLCV row. Prices are in hundredths of a display
// unit (raw price / 1e7), matching the reference vendor's bar convention.
type Bar struct {
	Time   time.Time `parquet:"time"`
	Open   int64     `parquet:"open"`
	High   int64     `parquet:"high"`
	Low    int64     `parquet:"low"`
	Close  int64     `parquet:"close"`
	Volume int64     `parquet:"volume"`
}
