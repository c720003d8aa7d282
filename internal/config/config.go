package config

import (
	"time"

	"github.com/tickfoundry/tradesilver/internal/model"
)

// Config is the root configuration for the pipeline binaries.
type Config struct {
	Paths    PathsConfig    `yaml:"paths"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Bars     BarsConfig     `yaml:"bars"`
	Log      LogConfig      `yaml:"log"`
}

// PathsConfig holds the three file-system paths everything runs from.
type PathsConfig struct {
	ReferenceFile string `yaml:"reference_file"` // Daily OHLC reference table (CSV)
	InputFolder   string `yaml:"input_folder"`   // Raw vendor trade files (CSV)
	OutputFolder  string `yaml:"output_folder"`  // Per-day parquet archives
}

// PipelineConfig tunes the reconciliation batch.
type PipelineConfig struct {
	Session   model.Session `yaml:"session"`    // Session type on reference days
	ChunkSize int           `yaml:"chunk_size"` // Extractor rows per chunk
	// Reference days outside [coverage_start, coverage_end] are skipped;
	// empty means unbounded. Dates are YYYY-MM-DD.
	CoverageStart string `yaml:"coverage_start"`
	CoverageEnd   string `yaml:"coverage_end"`
}

// BarsConfig tunes the bar resampling binary. Its input folder is the
// reconciler's output folder.
type BarsConfig struct {
	OutputFolder string        `yaml:"output_folder"`
	Session      model.Session `yaml:"session"`
	MinuteSlots  []int         `yaml:"minute_slots"` // e.g. [1, 30]
	HourSlots    []int         `yaml:"hour_slots"`   // e.g. [4]
	Daily        bool          `yaml:"daily"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// CoverageWindow returns the parsed coverage bounds; zero times mean
// unbounded. Validate has already checked the formats.
func (c *PipelineConfig) CoverageWindow() (start, end time.Time) {
	start, _ = parseDate(c.CoverageStart)
	end, _ = parseDate(c.CoverageEnd)
	return start, end
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", s)
}
