package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/tickfoundry/tradesilver/internal/bars"
	"github.com/tickfoundry/tradesilver/internal/config"
	"github.com/tickfoundry/tradesilver/internal/model"
	"github.com/tickfoundry/tradesilver/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	inputDir := flag.String("input", "", "folder of per-day parquet archives")
	outputDir := flag.String("output", "", "folder for resampled bar files")
	session := flag.String("session", "", "session filter for intraday bars (electronic or regular)")
	daily := flag.Bool("daily", false, "emit one bar per trading day")
	minute := flag.Int("minute", 0, "emit N-minute bars (0 = off)")
	hour := flag.Int("hour", 0, "emit N-hour bars (0 = off)")
	flag.Parse()

	cfg, err := loadConfig(*configPath, *inputDir, *outputDir, *session)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.Log.Level),
	}))
	slog.SetDefault(logger)

	// Flags override the configured schedule when any of them is set.
	runDaily := cfg.Bars.Daily
	minuteSlots := cfg.Bars.MinuteSlots
	hourSlots := cfg.Bars.HourSlots
	if *daily || *minute > 0 || *hour > 0 {
		runDaily = *daily
		minuteSlots, hourSlots = nil, nil
		if *minute > 0 {
			minuteSlots = []int{*minute}
		}
		if *hour > 0 {
			hourSlots = []int{*hour}
		}
	}
	if !runDaily && len(minuteSlots) == 0 && len(hourSlots) == 0 {
		slog.Error("nothing to do: pass -daily, -minute N, or -hour N")
		os.Exit(1)
	}

	logger.Info("starting resampler",
		"version", version.Version,
		"commit", version.Commit,
		"input", cfg.Paths.OutputFolder,
		"output", cfg.Bars.OutputFolder,
		"session", cfg.Bars.Session,
	)

	r := bars.New(bars.Config{
		InputDir:  cfg.Paths.OutputFolder,
		OutputDir: cfg.Bars.OutputFolder,
		Session:   cfg.Bars.Session,
	}, logger)

	failed := false
	if runDaily {
		failed = resample(logger, "daily", r.Daily) || failed
	}
	for _, slot := range minuteSlots {
		failed = resample(logger, fmt.Sprintf("%dmin", slot), func() (string, error) {
			return r.Minute(slot)
		}) || failed
	}
	for _, slot := range hourSlots {
		failed = resample(logger, fmt.Sprintf("%dhour", slot), func() (string, error) {
			return r.Hour(slot)
		}) || failed
	}
	if failed {
		os.Exit(1)
	}
}

func resample(logger *slog.Logger, kind string, fn func() (string, error)) (failed bool) {
	path, err := fn()
	if err != nil {
		logger.Error("resample failed", "kind", kind, "error", err)
		return true
	}
	logger.Info("wrote bars", "kind", kind, "path", path)
	return false
}

// loadConfig merges the optional config file with flag overrides. The
// resampler reads the reconciler's output folder, so -input maps onto
// paths.output_folder.
func loadConfig(path, input, output, session string) (*config.Config, error) {
	var cfg *config.Config
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = &config.Config{}
	}

	if input != "" {
		cfg.Paths.OutputFolder = input
	}
	if output != "" {
		cfg.Bars.OutputFolder = output
	}
	if session != "" {
		cfg.Bars.Session = model.Session(session)
	}
	cfg.ApplyDefaults()

	// Standalone runs have no reference file or raw input folder, so full
	// Validate does not apply; check only what the resampler uses.
	if cfg.Paths.OutputFolder == "" {
		return nil, fmt.Errorf("input folder is required (-input or paths.output_folder)")
	}
	if cfg.Bars.OutputFolder == "" {
		return nil, fmt.Errorf("output folder is required (-output or bars.output_folder)")
	}
	if cfg.Bars.Session != model.SessionElectronic && cfg.Bars.Session != model.SessionRegular {
		return nil, fmt.Errorf("session must be %q or %q, got %q",
			model.SessionElectronic, model.SessionRegular, cfg.Bars.Session)
	}
	return cfg, nil
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
