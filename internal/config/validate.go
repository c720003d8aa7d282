package config

import (
	"errors"
	"fmt"

	"github.com/tickfoundry/tradesilver/internal/model"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Paths.ReferenceFile == "" {
		return errors.New("paths.reference_file is required")
	}
	if c.Paths.InputFolder == "" {
		return errors.New("paths.input_folder is required")
	}
	if c.Paths.OutputFolder == "" {
		return errors.New("paths.output_folder is required")
	}

	if err := validateSession(c.Pipeline.Session, "pipeline.session"); err != nil {
		return err
	}
	if c.Pipeline.ChunkSize < 1 {
		return errors.New("pipeline.chunk_size must be >= 1")
	}
	if _, err := parseDate(c.Pipeline.CoverageStart); err != nil {
		return fmt.Errorf("pipeline.coverage_start: %w", err)
	}
	if _, err := parseDate(c.Pipeline.CoverageEnd); err != nil {
		return fmt.Errorf("pipeline.coverage_end: %w", err)
	}

	if err := validateSession(c.Bars.Session, "bars.session"); err != nil {
		return err
	}
	for _, slot := range c.Bars.MinuteSlots {
		if slot < 1 {
			return fmt.Errorf("bars.minute_slots entries must be >= 1, got %d", slot)
		}
	}
	for _, slot := range c.Bars.HourSlots {
		if slot < 1 {
			return fmt.Errorf("bars.hour_slots entries must be >= 1, got %d", slot)
		}
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug/info/warn/error, got %q", c.Log.Level)
	}

	return nil
}

func validateSession(s model.Session, field string) error {
	switch s {
	case model.SessionElectronic, model.SessionRegular:
		return nil
	default:
		return fmt.Errorf("%s must be %q or %q, got %q",
			field, model.SessionElectronic, model.SessionRegular, s)
	}
}
