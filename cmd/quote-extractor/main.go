package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/quotex/quote-extractor/internal/config"
	"github.com/quotex/quote-extractor/internal/pdf"
	"github.com/quotex/quote-extractor/internal/pricesheet"
	"github.com/quotex/quote-extractor/internal/quote"
	"github.com/quotex/quote-extractor/internal/watch"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	if version != "dev" {
		cfg.Version = version
	}
	if cfg.IsDebug() {
		logger.Debug("starting", "config", cfg.String(), "version", cfg.Version)
	}

	process := newProcessFunc(cfg, logger)

	if cfg.IsWatchMode() {
		runWatchMode(cfg, logger, process)
		return
	}

	if err := process(context.Background(), cfg.Input); err != nil {
		logger.Error("processing failed", "file", cfg.Input, "error", err)
		os.Exit(1)
	}
}

// newProcessFunc builds the per-file pipeline shared by file and watch mode:
// PDF quotes become JSON records, spreadsheet price sheets become
// consolidated workbooks.
func newProcessFunc(cfg *config.Config, logger *slog.Logger) watch.Handler {
	reader := pdf.NewReader(cfg.MaxFileSize, logger)
	extractor := quote.NewExtractor(logger)
	prices := pricesheet.NewProcessor(cfg.MarginPercent, logger)

	return func(_ context.Context, path string) error {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".pdf":
			doc, err := reader.ReadDocument(path)
			if err != nil {
				return err
			}
			record := extractor.Extract(doc)

			out := outputPath(cfg.OutputDir, path, ".json")
			data, err := json.MarshalIndent(record, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode record: %w", err)
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("failed to write record: %w", err)
			}
			logger.Info("quote record written", "file", path, "output", out)
			return nil

		case ".xlsx", ".xlsm", ".xls":
			result, err := prices.ProcessFile(path)
			if err != nil {
				return err
			}
			out, err := prices.WriteConsolidated(result, cfg.OutputDir)
			if err != nil {
				return err
			}
			logger.Info("consolidated workbook written", "file", path, "output", out)
			return nil

		default:
			return fmt.Errorf("unsupported file type: %s", path)
		}
	}
}

func runWatchMode(cfg *config.Config, logger *slog.Logger, process watch.Handler) {
	watcher, err := watch.New(watch.Config{
		UploadDir:   cfg.UploadDir,
		ArchiveDir:  cfg.ArchiveDir,
		SettleDelay: cfg.SettleDelay,
	}, process, logger)
	if err != nil {
		logger.Error("failed to create watcher", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("watch loop failed", "error", err)
		os.Exit(1)
	}
	logger.Info("watch loop stopped")
}

func outputPath(dir, src, ext string) string {
	base := filepath.Base(src)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, base+ext)
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("Quote Extractor\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
