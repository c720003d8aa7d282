package writer

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/tickfoundry/tradesilver/internal/model"
)

// Schema selects the day-file layout. The variant is fixed per output
// batch; the two layouts differ only in the trailing symbol column.
type Schema int

const (
	SchemaWithoutSymbol Schema = iota
	SchemaWithSymbol
)

// SchemaFor picks the variant from source-file column presence.
func SchemaFor(hasSymbol bool) Schema {
	if hasSymbol {
		return SchemaWithSymbol
	}
	return SchemaWithoutSymbol
}

// Config holds day-file writer configuration.
type Config struct {
	OutputDir string
}

// Metrics counts writer activity across a batch run.
type Metrics struct {
	DaysWritten int64
	RowsWritten int64
	Skips       int64
	Errors      int64
}

// DayWriter writes one parquet archive per reference day.
type DayWriter struct {
	cfg     Config
	logger  *slog.Logger
	metrics Metrics
}

// New creates a DayWriter and ensures the output folder exists.
func New(cfg Config, logger *slog.Logger) (*DayWriter, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output folder: %w", err)
	}
	return &DayWriter{cfg: cfg, logger: logger}, nil
}

// Path returns the output file path for a reference date.
func (w *DayWriter) Path(date time.Time) string {
	return filepath.Join(w.cfg.OutputDir, date.Format("20060102")+".parquet")
}

// IsProcessed reports whether the date's output file already exists.
func (w *DayWriter) IsProcessed(date time.Time) bool {
	_, err := os.Stat(w.Path(date))
	return err == nil
}

// Stats returns current metrics.
func (w *DayWriter) Stats() Metrics {
	return w.metrics
}

// Write persists the winning group's records for one reference day and
// returns the file path. Rows land in the given order. The file appears
// atomically: a temp file is written and renamed into place, so a crashed
// run never leaves a half-written day that IsProcessed would skip.
func (w *DayWriter) Write(date time.Time, records []model.TradeRecord, schema Schema) (string, error) {
	path := w.Path(date)
	tmp := path + ".tmp"

	var err error
	switch schema {
	case SchemaWithSymbol:
		err = parquet.WriteFile(tmp, transformRows(records, toRowV1))
	case SchemaWithoutSymbol:
		err = parquet.WriteFile(tmp, transformRows(records, toRowV2))
	default:
		return "", fmt.Errorf("unknown schema variant %d", schema)
	}
	if err != nil {
		w.metrics.Errors++
		os.Remove(tmp)
		return "", fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}

	if err := os.Rename(tmp, path); err != nil {
		w.metrics.Errors++
		os.Remove(tmp)
		return "", fmt.Errorf("rename %s: %w", filepath.Base(path), err)
	}

	w.metrics.DaysWritten++
	w.metrics.RowsWritten += int64(len(records))
	w.logger.Info("created trade file",
		"file", filepath.Base(path),
		"rows", len(records),
	)
	return path, nil
}

// Skip records an idempotency skip for metrics.
func (w *DayWriter) Skip() {
	w.metrics.Skips++
}

func transformRows[R any](records []model.TradeRecord, transform func(model.TradeRecord) R) []R {
	rows := make([]R, len(records))
	for i, rec := range records {
		rows[i] = transform(rec)
	}
	return rows
}
