package reconcile

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/tickfoundry/tradesilver/internal/model"
)

// ErrNoCandidateData reports a reference day with zero trades in its
// window. Fatal for that day only; the batch driver skips and continues.
var ErrNoCandidateData = errors.New("no candidate trade data")

// Reconciler selects the winning instrument for each reference day.
type Reconciler struct {
	logger *slog.Logger
}

// New creates a Reconciler.
func New(logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{logger: logger}
}

// accumulator tracks the best candidate seen so far during the fold over
// instrument groups.
type accumulator struct {
	bestCount  int
	winningID  int64
	winningVol int64
}

// consider applies one group to the accumulator and reports whether the
// group tied the current best at a strong (>= 3 field) match count.
//
// One rule for every count: a strictly higher match count wins outright, a
// tie at the current best is resolved by strictly greater volume, and a
// lower count never displaces the winner. Zero-match groups are never
// candidates here; they are covered by the volume fallback.
func (a *accumulator) consider(g model.InstrumentGroup, count int) (strongTie bool) {
	switch {
	case count < 1 || count < a.bestCount:
		// Not a candidate, or strictly worse than the current winner.
	case count > a.bestCount:
		a.bestCount = count
		a.winningID = g.InstrumentID
		a.winningVol = g.Volume
	default: // count == a.bestCount, both candidates
		strongTie = count >= 3
		if g.Volume > a.winningVol {
			a.winningID = g.InstrumentID
			a.winningVol = g.Volume
		}
	}
	return strongTie
}

// Reconcile selects the instrument whose trades correspond to the reference
// day's official OHLC and returns exactly those trades.
func (r *Reconciler) Reconcile(day model.ReferenceDay, records []model.TradeRecord) (*model.DayResult, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoCandidateData, day.Date.Format("2006-01-02"))
	}

	groups := groupByInstrument(records)
	fallbackID := maxVolumeInstrument(groups)

	var acc accumulator
	var anomalies []model.Anomaly
	sawStrongTie := false

	for _, g := range groups {
		count := matchCount(day, g)
		if acc.consider(g, count) && !sawStrongTie {
			sawStrongTie = true
			anomalies = append(anomalies, model.AnomalyMultiStrongMatch)
			r.logger.Warn("multiple contracts match three or more OHLC fields",
				"date", day.Date.Format("2006-01-02"),
				"instrument_id", g.InstrumentID,
			)
		}
	}

	result := &model.DayResult{Date: day.Date, Anomalies: anomalies}

	switch {
	case acc.bestCount == 4:
		result.InstrumentID = acc.winningID
		result.Quality = model.FullMatch
		result.MatchCount = 4
	case acc.bestCount >= 1:
		result.InstrumentID = acc.winningID
		result.Quality = model.PartialMatch
		result.MatchCount = acc.bestCount
		result.Anomalies = append(result.Anomalies, model.AnomalyPartialBest)
		r.logger.Warn("best contract matches only part of the reference OHLC",
			"date", day.Date.Format("2006-01-02"),
			"instrument_id", acc.winningID,
			"match_count", acc.bestCount,
		)
	default:
		result.InstrumentID = fallbackID
		result.Quality = model.VolumeFallback
		result.Anomalies = append(result.Anomalies, model.AnomalyVolumeFallback)
		r.logger.Warn("no contract matches any OHLC field, using largest volume",
			"date", day.Date.Format("2006-01-02"),
			"instrument_id", fallbackID,
		)
	}

	for _, g := range groups {
		if g.InstrumentID == result.InstrumentID {
			result.Records = g.Records
			result.Volume = g.Volume
			break
		}
	}

	return result, nil
}

// groupByInstrument partitions records into per-instrument groups with
// OHLCV aggregates, ordered by ascending instrument_id so reruns are
// reproducible. Each group's Records keep their extraction order.
func groupByInstrument(records []model.TradeRecord) []model.InstrumentGroup {
	byID := make(map[int64][]model.TradeRecord)
	for _, rec := range records {
		byID[rec.InstrumentID] = append(byID[rec.InstrumentID], rec)
	}

	ids := make([]int64, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	groups := make([]model.InstrumentGroup, 0, len(ids))
	for _, id := range ids {
		groups = append(groups, buildGroup(id, byID[id]))
	}
	return groups
}

// buildGroup computes OHLCV over recs in event-time order without
// disturbing the extraction order of the stored records.
func buildGroup(id int64, recs []model.TradeRecord) model.InstrumentGroup {
	sorted := make([]model.TradeRecord, len(recs))
	copy(sorted, recs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EventTime.Before(sorted[j].EventTime)
	})

	g := model.InstrumentGroup{
		InstrumentID: id,
		Records:      recs,
		Open:         sorted[0].Price,
		High:         sorted[0].Price,
		Low:          sorted[0].Price,
		Close:        sorted[len(sorted)-1].Price,
	}
	for _, rec := range sorted {
		if rec.Price > g.High {
			g.High = rec.Price
		}
		if rec.Price < g.Low {
			g.Low = rec.Price
		}
		g.Volume += rec.Size
	}
	return g
}

// matchCount counts the group's OHLC fields that exactly equal the
// reference values. Reference prices are pre-scaled, so this is plain
// integer equality.
func matchCount(day model.ReferenceDay, g model.InstrumentGroup) int {
	count := 0
	if g.Open == day.Open {
		count++
	}
	if g.High == day.High {
		count++
	}
	if g.Low == day.Low {
		count++
	}
	if g.Close == day.Close {
		count++
	}
	return count
}

// maxVolumeInstrument returns the instrument with the largest total volume.
// Groups arrive in ascending instrument_id, so equal volumes resolve to the
// lowest id.
func maxVolumeInstrument(groups []model.InstrumentGroup) int64 {
	best := groups[0]
	for _, g := range groups[1:] {
		if g.Volume > best.Volume {
			best = g
		}
	}
	return best.InstrumentID
}
