package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tickfoundry/tradesilver/internal/batch"
	"github.com/tickfoundry/tradesilver/internal/config"
	"github.com/tickfoundry/tradesilver/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	referencePath := flag.String("reference", "", "path to the daily OHLC reference CSV")
	inputDir := flag.String("input", "", "folder of raw vendor trade CSVs")
	outputDir := flag.String("output", "", "folder for per-day parquet archives")
	flag.Parse()

	cfg, err := loadConfig(*configPath, *referencePath, *inputDir, *outputDir)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.Log.Level),
	}))
	slog.SetDefault(logger)

	logger.Info("starting reconciler",
		"version", version.Version,
		"commit", version.Commit,
		"reference", cfg.Paths.ReferenceFile,
		"input", cfg.Paths.InputFolder,
		"output", cfg.Paths.OutputFolder,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals; a day in flight finishes before exit.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	coverageStart, coverageEnd := cfg.Pipeline.CoverageWindow()
	runner, err := batch.New(batch.Config{
		ReferencePath: cfg.Paths.ReferenceFile,
		InputDir:      cfg.Paths.InputFolder,
		OutputDir:     cfg.Paths.OutputFolder,
		Session:       cfg.Pipeline.Session,
		ChunkSize:     cfg.Pipeline.ChunkSize,
		CoverageStart: coverageStart,
		CoverageEnd:   coverageEnd,
	}, logger)
	if err != nil {
		logger.Error("failed to create batch runner", "error", err)
		os.Exit(1)
	}

	sum, err := runner.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("batch failed", "error", err)
		os.Exit(1)
	}
	if sum.Failed > 0 {
		logger.Warn("batch completed with failed days", "failed", sum.Failed)
	}
}

// loadConfig merges the optional config file with flag overrides; paths
// given on the command line win.
func loadConfig(path, reference, input, output string) (*config.Config, error) {
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

	if reference != "" {
		cfg.Paths.ReferenceFile = reference
	}
	if input != "" {
		cfg.Paths.InputFolder = input
	}
	if output != "" {
		cfg.Paths.OutputFolder = output
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
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
