package bars

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/tickfoundry/tradesilver/internal/model"
	"github.com/tickfoundry/tradesilver/internal/session"
	"github.com/tickfoundry/tradesilver/internal/timestamp"
)

// ErrNoDayFiles reports an input folder with no day archives to resample.
var ErrNoDayFiles = errors.New("no day files in input folder")

// barScale converts raw fixed-point prices to bar price units
// (hundredths of a display unit), integer division as the reference
// vendor's convention requires.
const barScale = int64(10_000_000)

// Config holds resampler configuration.
type Config struct {
	InputDir  string
	OutputDir string
	Session   model.Session // Session filter for intraday bars
}

// Resampler turns day archives into OHLCV bar files.
type Resampler struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Resampler.
func New(cfg Config, logger *slog.Logger) *Resampler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resampler{cfg: cfg, logger: logger}
}

// dayRow is the subset of day-file columns the resampler needs.
type dayRow struct {
	TsEvent string `parquet:"ts_event"`
	Price   int64  `parquet:"price"`
	Size    int64  `parquet:"size"`
}

// tick is one trade in bar price units with its parsed event instant.
type tick struct {
	Time  time.Time // UTC
	Price int64     // Hundredths of a display unit
	Size  int64
}

// dayTicks is one day file's trades in event-time order.
type dayTicks struct {
	Date  time.Time // NY trading day of the last event
	Ticks []tick
}

// Daily writes one OHLCV row per day file and returns the output path.
func (r *Resampler) Daily() (string, error) {
	days, err := r.loadAll()
	if err != nil {
		return "", err
	}

	bars := make([]model.Bar, 0, len(days))
	for _, d := range days {
		bars = append(bars, aggregate(d.Date, d.Ticks))
	}
	sortBars(bars)

	return r.write(bars, days, "1_day")
}

// Minute writes slot-minute bars filtered to the configured session.
func (r *Resampler) Minute(slot int) (string, error) {
	if slot < 1 {
		return "", fmt.Errorf("minute slot must be >= 1, got %d", slot)
	}
	days, err := r.loadAll()
	if err != nil {
		return "", err
	}

	width := time.Duration(slot) * time.Minute
	var bars []model.Bar
	for _, d := range days {
		ticks, err := r.sessionTicks(d)
		if err != nil {
			return "", err
		}
		bars = append(bars, binTicks(ticks, func(t time.Time) time.Time {
			return t.Truncate(width)
		})...)
	}
	sortBars(bars)

	return r.write(bars, days, fmt.Sprintf("%d_min", slot))
}

// Hour writes slot-hour bars filtered to the configured session. Bins are
// measured from each day's first event hour rather than a fixed grid, so a
// 4-hour slot starting at 18:00 NY yields 18:00, 22:00, ... bars.
func (r *Resampler) Hour(slot int) (string, error) {
	if slot < 1 {
		return "", fmt.Errorf("hour slot must be >= 1, got %d", slot)
	}
	days, err := r.loadAll()
	if err != nil {
		return "", err
	}

	width := time.Duration(slot) * time.Hour
	var bars []model.Bar
	for _, d := range days {
		ticks, err := r.sessionTicks(d)
		if err != nil {
			return "", err
		}
		if len(ticks) == 0 {
			continue
		}
		origin := ticks[0].Time.Truncate(time.Hour)
		bars = append(bars, binTicks(ticks, func(t time.Time) time.Time {
			bin := t.Sub(origin) / width
			return origin.Add(bin * width)
		})...)
	}
	sortBars(bars)

	return r.write(bars, days, fmt.Sprintf("%d_hour", slot))
}

// sessionTicks filters one day's ticks to the configured session window.
func (r *Resampler) sessionTicks(d dayTicks) ([]tick, error) {
	start, end, err := session.Window(d.Date, r.cfg.Session)
	if err != nil {
		return nil, err
	}
	var out []tick
	for _, t := range d.Ticks {
		if !t.Time.Before(start) && t.Time.Before(end) {
			out = append(out, t)
		}
	}
	return out, nil
}

// loadAll reads every day file in the input folder, each sorted by event
// time, ordered by trading day.
func (r *Resampler) loadAll() ([]dayTicks, error) {
	paths, err := filepath.Glob(filepath.Join(r.cfg.InputDir, "*.parquet"))
	if err != nil {
		return nil, fmt.Errorf("list input folder: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoDayFiles, r.cfg.InputDir)
	}
	sort.Strings(paths)

	days := make([]dayTicks, 0, len(paths))
	for _, path := range paths {
		r.logger.Info("processing day file", "file", filepath.Base(path))
		d, err := loadDay(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
		}
		days = append(days, d)
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })
	return days, nil
}

func loadDay(path string) (dayTicks, error) {
	rows, err := parquet.ReadFile[dayRow](path)
	if err != nil {
		return dayTicks{}, err
	}

	ticks := make([]tick, 0, len(rows))
	for _, row := range rows {
		t, err := timestamp.Parse(row.TsEvent)
		if err != nil {
			continue
		}
		ticks = append(ticks, tick{Time: t, Price: row.Price / barScale, Size: row.Size})
	}
	if len(ticks) == 0 {
		return dayTicks{}, fmt.Errorf("no usable rows")
	}
	sort.SliceStable(ticks, func(i, j int) bool { return ticks[i].Time.Before(ticks[j].Time) })

	last := ticks[len(ticks)-1].Time.In(session.NY)
	y, m, d := last.Date()
	return dayTicks{
		Date:  time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Ticks: ticks,
	}, nil
}

// aggregate folds ticks (already in event order) into one bar at barTime.
func aggregate(barTime time.Time, ticks []tick) model.Bar {
	b := model.Bar{
		Time:  barTime,
		Open:  ticks[0].Price,
		High:  ticks[0].Price,
		Low:   ticks[0].Price,
		Close: ticks[len(ticks)-1].Price,
	}
	for _, t := range ticks {
		if t.Price > b.High {
			b.High = t.Price
		}
		if t.Price < b.Low {
			b.Low = t.Price
		}
		b.Volume += t.Size
	}
	return b
}

// binTicks groups ticks by the floor function and aggregates each bin.
// Ticks arrive in event order, so bins come out in order too.
func binTicks(ticks []tick, floor func(time.Time) time.Time) []model.Bar {
	var bars []model.Bar
	var bin []tick
	var binTime time.Time

	flush := func() {
		if len(bin) > 0 {
			bars = append(bars, aggregate(binTime, bin))
			bin = bin[:0]
		}
	}

	for _, t := range ticks {
		ft := floor(t.Time)
		if len(bin) > 0 && !ft.Equal(binTime) {
			flush()
		}
		binTime = ft
		bin = append(bin, t)
	}
	flush()
	return bars
}

func sortBars(bars []model.Bar) {
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
}

// write persists bars covering the days' date range and returns the path.
func (r *Resampler) write(bars []model.Bar, days []dayTicks, suffix string) (string, error) {
	if err := os.MkdirAll(r.cfg.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output folder: %w", err)
	}

	first := days[0].Date.Format("20060102")
	last := days[len(days)-1].Date.Format("20060102")
	path := filepath.Join(r.cfg.OutputDir, fmt.Sprintf("%s-%s_%s.parquet", first, last, suffix))
	tmp := path + ".tmp"

	if err := parquet.WriteFile(tmp, bars); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("write bars: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("rename bars: %w", err)
	}

	r.logger.Info("created bar file", "file", filepath.Base(path), "bars", len(bars))
	return path, nil
}
