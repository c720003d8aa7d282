package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/tickfoundry/tradesilver/internal/extract"
	"github.com/tickfoundry/tradesilver/internal/index"
	"github.com/tickfoundry/tradesilver/internal/model"
	"github.com/tickfoundry/tradesilver/internal/reconcile"
	"github.com/tickfoundry/tradesilver/internal/reference"
	"github.com/tickfoundry/tradesilver/internal/session"
	"github.com/tickfoundry/tradesilver/internal/writer"
)

// Config holds batch runner configuration.
type Config struct {
	ReferencePath string
	InputDir      string
	OutputDir     string
	Session       model.Session // Session type recorded on reference days
	ChunkSize     int           // Extractor chunk size
	CoverageStart time.Time     // Skip reference days before this date (zero = no bound)
	CoverageEnd   time.Time     // Skip reference days after this date (zero = no bound)
}

// Summary reports what one run did.
type Summary struct {
	RunID         uuid.UUID
	Days          int // Reference days considered
	Written       int
	AlreadyDone   int // Skipped by the idempotency check
	OutOfRange    int // Outside the coverage window
	Failed        int // NoCandidateData or write failures
	BadTimestamps int // Malformed event timestamps across all days
}

// Runner executes one batch over the reference table.
type Runner struct {
	cfg        Config
	logger     *slog.Logger
	extractor  *extract.Extractor
	reconciler *reconcile.Reconciler
	writer     *writer.DayWriter
}

// New creates a Runner and its pipeline components.
func New(cfg Config, logger *slog.Logger) (*Runner, error) {
	if logger == nil {
		logger = slog.Default()
	}

	w, err := writer.New(writer.Config{OutputDir: cfg.OutputDir}, logger)
	if err != nil {
		return nil, err
	}

	return &Runner{
		cfg:        cfg,
		logger:     logger,
		extractor:  extract.New(extract.Config{ChunkSize: cfg.ChunkSize}, logger),
		reconciler: reconcile.New(logger),
		writer:     w,
	}, nil
}

// Run processes every reference day in order. The context cancels between
// days; a day in flight always completes, so the writer's atomic rename
// keeps restarts safe at day granularity.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	sum := &Summary{RunID: uuid.New()}
	logger := r.logger.With("run_id", sum.RunID)

	days, err := reference.Load(r.cfg.ReferencePath, r.cfg.Session)
	if err != nil {
		return nil, fmt.Errorf("load reference table: %w", err)
	}

	names, err := r.inputFileNames()
	if err != nil {
		return nil, err
	}
	logger.Info("batch started",
		"reference_days", len(days),
		"input_files", len(names),
	)

	for _, day := range days {
		if err := ctx.Err(); err != nil {
			logger.Warn("batch cancelled", "completed_days", sum.Days)
			return sum, err
		}
		sum.Days++
		r.processDay(logger, day, names, sum)
	}

	logger.Info("batch finished",
		"days", sum.Days,
		"written", sum.Written,
		"already_done", sum.AlreadyDone,
		"out_of_range", sum.OutOfRange,
		"failed", sum.Failed,
		"bad_timestamps", sum.BadTimestamps,
	)
	return sum, nil
}

// processDay reconciles and writes one reference day. All failures are
// contained here; the batch always proceeds to the next day.
func (r *Runner) processDay(logger *slog.Logger, day model.ReferenceDay, names []string, sum *Summary) {
	dateStr := day.Date.Format("2006-01-02")

	if !r.inCoverage(day.Date) {
		sum.OutOfRange++
		return
	}
	if r.writer.IsProcessed(day.Date) {
		r.writer.Skip()
		sum.AlreadyDone++
		logger.Debug("day already processed", "date", dateStr)
		return
	}

	utcStart, utcEnd := session.FullDayWindow(day.Date)
	candidates := index.Candidates(names, utcStart, utcEnd)
	logger.Info("processing day",
		"date", dateStr,
		"window_start", utcStart,
		"window_end", utcEnd,
		"candidate_files", candidates,
	)

	paths := make([]string, len(candidates))
	for i, name := range candidates {
		paths[i] = filepath.Join(r.cfg.InputDir, name)
	}

	res, err := r.extractor.Extract(paths, utcStart, utcEnd)
	if err != nil {
		sum.Failed++
		logger.Error("extraction failed", "date", dateStr, "error", err)
		return
	}
	sum.BadTimestamps += res.BadTimestamps
	if res.BadTimestamps > 0 {
		logger.Warn("malformed event timestamps in window",
			"date", dateStr,
			"count", res.BadTimestamps,
		)
	}

	result, err := r.reconciler.Reconcile(day, res.Records)
	if err != nil {
		sum.Failed++
		if errors.Is(err, reconcile.ErrNoCandidateData) {
			logger.Warn("no candidate trades in window, skipping day", "date", dateStr)
		} else {
			logger.Error("reconciliation failed", "date", dateStr, "error", err)
		}
		return
	}

	if _, err := r.writer.Write(day.Date, result.Records, writer.SchemaFor(res.HasSymbol)); err != nil {
		sum.Failed++
		logger.Error("day-file write failed", "date", dateStr, "error", err)
		return
	}
	sum.Written++

	logger.Info("day reconciled",
		"date", dateStr,
		"instrument_id", result.InstrumentID,
		"quality", result.Quality,
		"match_count", result.MatchCount,
		"volume", result.Volume,
		"rows", len(result.Records),
	)
}

func (r *Runner) inCoverage(date time.Time) bool {
	if !r.cfg.CoverageStart.IsZero() && date.Before(r.cfg.CoverageStart) {
		return false
	}
	if !r.cfg.CoverageEnd.IsZero() && date.After(r.cfg.CoverageEnd) {
		return false
	}
	return true
}

// inputFileNames lists the raw CSV base names once per run.
func (r *Runner) inputFileNames() ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(r.cfg.InputDir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("list input folder: %w", err)
	}
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	return names, nil
}
