package reconcile

import (
	"errors"
	"testing"
	"time"

	"github.com/tickfoundry/tradesilver/internal/model"
)

var testDay = model.ReferenceDay{
	Date:    time.Date(2018, 4, 2, 0, 0, 0, 0, time.UTC),
	Open:    2850 * model.PriceScale,
	High:    2870 * model.PriceScale,
	Low:     2840 * model.PriceScale,
	Close:   2860 * model.PriceScale,
	Session: model.SessionElectronic,
}

// trade builds a record with the given event second offset so tests control
// event-time ordering explicitly.
func trade(inst int64, sec int, priceUnits, size int64) model.TradeRecord {
	et := time.Date(2018, 4, 2, 12, 0, sec, 0, time.UTC)
	return model.TradeRecord{
		TsEvent:      et.Format("2006-01-02T15:04:05Z"),
		EventTime:    et,
		InstrumentID: inst,
		Price:        priceUnits * model.PriceScale,
		Size:         size,
	}
}

// fullMatchGroup emits trades whose OHLCV equals the reference exactly:
// open 2850, high 2870, low 2840, close 2860.
func fullMatchGroup(inst int64, size int64) []model.TradeRecord {
	return []model.TradeRecord{
		trade(inst, 0, 2850, size),
		trade(inst, 1, 2870, size),
		trade(inst, 2, 2840, size),
		trade(inst, 3, 2860, size),
	}
}

func TestReconcileExactMatchWins(t *testing.T) {
	r := New(nil)

	// Instrument 2 matches all four fields with tiny volume; instrument 1
	// matches nothing with huge volume.
	var records []model.TradeRecord
	records = append(records, trade(1, 0, 1000, 9_000_000))
	records = append(records, fullMatchGroup(2, 1)...)

	res, err := r.Reconcile(testDay, records)
	if err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}
	if res.InstrumentID != 2 {
		t.Errorf("InstrumentID = %d, want 2", res.InstrumentID)
	}
	if res.Quality != model.FullMatch {
		t.Errorf("Quality = %q, want %q", res.Quality, model.FullMatch)
	}
	if res.MatchCount != 4 {
		t.Errorf("MatchCount = %d, want 4", res.MatchCount)
	}
	if len(res.Anomalies) != 0 {
		t.Errorf("Anomalies = %v, want none", res.Anomalies)
	}
}

func TestReconcileStrongTieBrokenByVolume(t *testing.T) {
	r := New(nil)

	// Both instruments match open/high/low but not close; 20 has more
	// volume and must win, with the tie recorded as an anomaly.
	three := func(inst int64, size int64, closeUnits int64) []model.TradeRecord {
		return []model.TradeRecord{
			trade(inst, 0, 2850, size),
			trade(inst, 1, 2870, size),
			trade(inst, 2, 2840, size),
			trade(inst, 3, closeUnits, size),
		}
	}

	var records []model.TradeRecord
	records = append(records, three(10, 1, 2861)...)
	records = append(records, three(20, 100, 2862)...)

	res, err := r.Reconcile(testDay, records)
	if err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}
	if res.InstrumentID != 20 {
		t.Errorf("InstrumentID = %d, want 20", res.InstrumentID)
	}
	if res.Quality != model.PartialMatch || res.MatchCount != 3 {
		t.Errorf("Quality = %q count %d, want partial 3", res.Quality, res.MatchCount)
	}

	var sawTie bool
	for _, a := range res.Anomalies {
		if a == model.AnomalyMultiStrongMatch {
			sawTie = true
		}
	}
	if !sawTie {
		t.Errorf("Anomalies = %v, want %s recorded", res.Anomalies, model.AnomalyMultiStrongMatch)
	}
}

func TestReconcileTieKeepsFirstOnEqualVolume(t *testing.T) {
	r := New(nil)

	var records []model.TradeRecord
	records = append(records, fullMatchGroup(7, 5)...)
	records = append(records, fullMatchGroup(3, 5)...)

	res, err := r.Reconcile(testDay, records)
	if err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}
	// Groups are processed in ascending instrument_id; equal volume does
	// not displace, so 3 wins.
	if res.InstrumentID != 3 {
		t.Errorf("InstrumentID = %d, want 3", res.InstrumentID)
	}
}

func TestReconcileVolumeFallback(t *testing.T) {
	r := New(nil)

	records := []model.TradeRecord{
		trade(1, 0, 1000, 10),
		trade(2, 0, 1001, 500),
		trade(3, 0, 1002, 20),
	}

	res, err := r.Reconcile(testDay, records)
	if err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}
	if res.InstrumentID != 2 {
		t.Errorf("InstrumentID = %d, want 2 (largest volume)", res.InstrumentID)
	}
	if res.Quality != model.VolumeFallback {
		t.Errorf("Quality = %q, want %q", res.Quality, model.VolumeFallback)
	}
	if res.MatchCount != 0 {
		t.Errorf("MatchCount = %d, want 0", res.MatchCount)
	}
	if len(res.Anomalies) != 1 || res.Anomalies[0] != model.AnomalyVolumeFallback {
		t.Errorf("Anomalies = %v, want [%s]", res.Anomalies, model.AnomalyVolumeFallback)
	}
}

func TestReconcileLowerCountNeverDisplaces(t *testing.T) {
	r := New(nil)

	// Instrument 5 matches 3 fields with small volume; instrument 9
	// matches 1 field with enormous volume and must not win.
	var records []model.TradeRecord
	records = append(records,
		trade(5, 0, 2850, 1),
		trade(5, 1, 2870, 1),
		trade(5, 2, 2840, 1),
		trade(5, 3, 2000, 1),
	)
	records = append(records, trade(9, 0, 2850, 1_000_000))

	res, err := r.Reconcile(testDay, records)
	if err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}
	if res.InstrumentID != 5 {
		t.Errorf("InstrumentID = %d, want 5", res.InstrumentID)
	}
	if res.MatchCount != 3 {
		t.Errorf("MatchCount = %d, want 3", res.MatchCount)
	}
}

func TestReconcileOffByOnePriceIsNoMatch(t *testing.T) {
	r := New(nil)

	// One raw unit (1e-9 display units) off on the open: the field must
	// not count, leaving a 3-field match.
	records := fullMatchGroup(4, 1)
	records[0].Price++

	res, err := r.Reconcile(testDay, records)
	if err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}
	if res.MatchCount != 3 {
		t.Errorf("MatchCount = %d, want 3", res.MatchCount)
	}
	if res.Quality != model.PartialMatch {
		t.Errorf("Quality = %q, want %q", res.Quality, model.PartialMatch)
	}
}

func TestReconcileNoCandidateData(t *testing.T) {
	r := New(nil)

	_, err := r.Reconcile(testDay, nil)
	if !errors.Is(err, ErrNoCandidateData) {
		t.Errorf("error = %v, want ErrNoCandidateData", err)
	}
}

func TestReconcileOutputKeepsExtractionOrder(t *testing.T) {
	r := New(nil)

	// Records arrive out of event-time order; the winner's rows must come
	// back in the original relative order, not re-sorted.
	records := []model.TradeRecord{
		trade(8, 3, 2860, 1), // close
		trade(8, 0, 2850, 1), // open
		trade(8, 2, 2840, 1), // low
		trade(8, 1, 2870, 1), // high
	}

	res, err := r.Reconcile(testDay, records)
	if err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}
	if res.Quality != model.FullMatch {
		t.Fatalf("Quality = %q, want full (aggregates must use event order)", res.Quality)
	}
	for i, rec := range res.Records {
		if rec.EventTime != records[i].EventTime {
			t.Errorf("record %d out of extraction order", i)
		}
	}
}

func TestGroupByInstrumentAggregates(t *testing.T) {
	records := []model.TradeRecord{
		trade(1, 1, 2855, 2),
		trade(1, 0, 2850, 3),
		trade(2, 0, 2900, 7),
	}

	groups := groupByInstrument(records)
	if len(groups) != 2 {
		t.Fatalf("len(groups) = %d, want 2", len(groups))
	}

	g := groups[0]
	if g.InstrumentID != 1 {
		t.Fatalf("groups not in ascending id order: first = %d", g.InstrumentID)
	}
	if g.Open != 2850*model.PriceScale {
		t.Errorf("Open = %d, want earliest-by-event price", g.Open)
	}
	if g.Close != 2855*model.PriceScale {
		t.Errorf("Close = %d, want latest-by-event price", g.Close)
	}
	if g.Volume != 5 {
		t.Errorf("Volume = %d, want 5", g.Volume)
	}
}
