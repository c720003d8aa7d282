package extract

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tickfoundry/tradesilver/internal/model"
	"github.com/tickfoundry/tradesilver/internal/timestamp"
)

// Config holds extractor configuration.
type Config struct {
	ChunkSize int // Rows read per chunk (default: 100000)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{ChunkSize: 100_000}
}

// Result is one day's accumulated extraction.
type Result struct {
	Records       []model.TradeRecord // Window-filtered rows, file then row order
	HasSymbol     bool                // Any source file carried a symbol column
	FilesRead     int
	FilesFailed   int
	RowsScanned   int
	BadTimestamps int // Rows whose ts_event could not be parsed
	BadRows       int // Rows with unusable numeric fields, skipped
}

// Extractor pulls window-matching trade records out of raw CSV files.
type Extractor struct {
	cfg    Config
	logger *slog.Logger
}

// New creates an Extractor.
func New(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ChunkSize < 1 {
		cfg.ChunkSize = DefaultConfig().ChunkSize
	}
	return &Extractor{cfg: cfg, logger: logger}
}

// Extract streams each file and keeps records with
// utcStart <= ts_event < utcEnd. Duplicate detection is out of scope:
// upstream file sets are disjoint by construction.
func (e *Extractor) Extract(paths []string, utcStart, utcEnd time.Time) (*Result, error) {
	res := &Result{}
	for _, path := range paths {
		if err := e.extractFile(path, utcStart, utcEnd, res); err != nil {
			res.FilesFailed++
			e.logger.Error("failed to read raw file, continuing with others",
				"file", filepath.Base(path),
				"error", err,
			)
			continue
		}
		res.FilesRead++
	}
	return res, nil
}

func (e *Extractor) extractFile(path string, utcStart, utcEnd time.Time, res *Result) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	cols, err := mapColumns(header)
	if err != nil {
		return err
	}
	if cols.symbol >= 0 {
		res.HasSymbol = true
	}

	chunk := make([][]string, 0, e.cfg.ChunkSize)
	for {
		chunk = chunk[:0]
		for len(chunk) < e.cfg.ChunkSize {
			row, err := r.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				return fmt.Errorf("read row: %w", err)
			}
			chunk = append(chunk, append([]string(nil), row...))
		}
		if len(chunk) == 0 {
			break
		}

		kept := len(res.Records)
		e.processChunk(chunk, cols, utcStart, utcEnd, res)
		e.logger.Debug("processed chunk",
			"file", filepath.Base(path),
			"rows", len(chunk),
			"kept", len(res.Records)-kept,
		)

		if len(chunk) < e.cfg.ChunkSize {
			break
		}
	}
	return nil
}

func (e *Extractor) processChunk(chunk [][]string, cols tradeColumns, utcStart, utcEnd time.Time, res *Result) {
	for _, row := range chunk {
		res.RowsScanned++

		rec, ok := e.parseRow(row, cols, res)
		if !ok {
			continue
		}
		if rec.EventTime.IsZero() {
			// Malformed timestamp: retained upstream with a null
			// marker, but it can never fall inside a window.
			continue
		}
		if rec.EventTime.Before(utcStart) || !rec.EventTime.Before(utcEnd) {
			continue
		}
		res.Records = append(res.Records, rec)
	}
}

// parseRow builds a TradeRecord from one CSV row. A bad ts_event leaves a
// null marker and zero EventTime; a bad numeric field makes the row
// unusable and it is skipped with a count.
func (e *Extractor) parseRow(row []string, cols tradeColumns, res *Result) (model.TradeRecord, bool) {
	rec := model.TradeRecord{
		Action: field(row, cols.action),
		Side:   field(row, cols.side),
		Symbol: field(row, cols.symbol),
	}

	rec.TsEvent = field(row, cols.tsEvent)
	if t, err := timestamp.Parse(rec.TsEvent); err == nil {
		rec.EventTime = t
		rec.TsEvent = timestamp.Canonical(t)
	} else {
		res.BadTimestamps++
		rec.TsEvent = timestamp.NullMarker
	}

	if raw := field(row, cols.tsRecv); raw != "" {
		if s, err := timestamp.Normalize(raw); err == nil {
			rec.TsRecv = s
		}
	}

	var err error
	if rec.InstrumentID, err = parseInt(field(row, cols.instrumentID)); err != nil {
		res.BadRows++
		return model.TradeRecord{}, false
	}
	if rec.Price, err = parseInt(field(row, cols.price)); err != nil {
		res.BadRows++
		return model.TradeRecord{}, false
	}
	if rec.Size, err = parseInt(field(row, cols.size)); err != nil {
		res.BadRows++
		return model.TradeRecord{}, false
	}

	// Passthrough integers default to zero when absent or malformed.
	rec.RType, _ = parseInt(field(row, cols.rtype))
	rec.PublisherID, _ = parseInt(field(row, cols.publisherID))
	rec.Depth, _ = parseInt(field(row, cols.depth))
	rec.Flags, _ = parseInt(field(row, cols.flags))
	rec.TsInDelta, _ = parseInt(field(row, cols.tsInDelta))
	rec.Sequence, _ = parseInt(field(row, cols.sequence))

	return rec, true
}

// parseInt accepts plain integers and numeric text that scales to a whole
// integer (vendor files occasionally carry "2854250000000.0").
func parseInt(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty numeric field")
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsInteger() {
		return 0, fmt.Errorf("bad numeric field %q", s)
	}
	return d.IntPart(), nil
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

type tradeColumns struct {
	tsRecv, tsEvent, rtype, publisherID, instrumentID int
	action, side, depth, price, size                  int
	flags, tsInDelta, sequence, symbol                int
}

// mapColumns resolves header names to indexes. ts_event, instrument_id,
// price and size are required; everything else is passthrough.
func mapColumns(header []string) (tradeColumns, error) {
	idx := map[string]int{}
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}

	get := func(name string) int {
		if i, ok := idx[name]; ok {
			return i
		}
		return -1
	}

	cols := tradeColumns{
		tsRecv:       get("ts_recv"),
		tsEvent:      get("ts_event"),
		rtype:        get("rtype"),
		publisherID:  get("publisher_id"),
		instrumentID: get("instrument_id"),
		action:       get("action"),
		side:         get("side"),
		depth:        get("depth"),
		price:        get("price"),
		size:         get("size"),
		flags:        get("flags"),
		tsInDelta:    get("ts_in_delta"),
		sequence:     get("sequence"),
		symbol:       get("symbol"),
	}

	for _, req := range []struct {
		name string
		i    int
	}{
		{"ts_event", cols.tsEvent},
		{"instrument_id", cols.instrumentID},
		{"price", cols.price},
		{"size", cols.size},
	} {
		if req.i < 0 {
			return tradeColumns{}, fmt.Errorf("missing required column %q", req.name)
		}
	}
	return cols, nil
}
