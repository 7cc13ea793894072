package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeFile  = "file"
	ModeWatch = "watch"

	// Default values
	DefaultLogLevel      = "info"
	DefaultMaxFileSize   = 100 * 1024 * 1024 // 100MB
	DefaultSettleDelay   = 2 * time.Second
	DefaultMarginPercent = 2.75

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for the quote extractor
type Config struct {
	// Mode is "file" for one-shot processing, "watch" for the folder loop
	Mode string

	// Input is the file processed in file mode
	Input string

	// OutputDir receives JSON records and consolidated workbooks
	OutputDir string

	// UploadDir and ArchiveDir drive watch mode
	UploadDir  string
	ArchiveDir string

	// SettleDelay is how long an upload must be quiet before processing
	SettleDelay time.Duration

	// MarginPercent is the price-sheet margin uplift
	MarginPercent float64

	// Application configuration
	Version     string
	LogLevel    string
	MaxFileSize int64 // Maximum input file size in bytes
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:          ModeFile,
		OutputDir:     currentDir,
		UploadDir:     filepath.Join(currentDir, "uploads"),
		ArchiveDir:    filepath.Join(currentDir, "archive"),
		SettleDelay:   DefaultSettleDelay,
		MarginPercent: DefaultMarginPercent,
		Version:       "1.0.0",
		LogLevel:      DefaultLogLevel,
		MaxFileSize:   DefaultMaxFileSize,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	pflag.Parse()

	populateConfigFromViper(cfg)

	for _, dir := range []*string{&cfg.Input, &cfg.OutputDir, &cfg.UploadDir, &cfg.ArchiveDir} {
		if *dir == "" {
			continue
		}
		if expanded, err := filepath.Abs(*dir); err == nil {
			*dir = expanded
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("QUOTE_EXTRACTOR")
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("input", cfg.Input)
	viper.SetDefault("outdir", cfg.OutputDir)
	viper.SetDefault("uploaddir", cfg.UploadDir)
	viper.SetDefault("archivedir", cfg.ArchiveDir)
	viper.SetDefault("settledelay", cfg.SettleDelay)
	viper.SetDefault("margin", cfg.MarginPercent)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Run mode: 'file' to process one input, 'watch' for the folder loop")
	pflag.String("input", cfg.Input, "Input file to process (file mode)")
	pflag.String("outdir", cfg.OutputDir, "Directory for extracted records and consolidated workbooks")
	pflag.String("uploaddir", cfg.UploadDir, "Directory watched for uploads (watch mode)")
	pflag.String("archivedir", cfg.ArchiveDir, "Directory processed uploads are moved to (watch mode)")
	pflag.Duration("settledelay", cfg.SettleDelay, "Quiet period before an upload is processed")
	pflag.Float64("margin", cfg.MarginPercent, "Price-sheet margin uplift percent")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum input file size in bytes")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	for _, name := range []string{
		"mode", "input", "outdir", "uploaddir", "archivedir",
		"settledelay", "margin", "loglevel", "maxfilesize",
	} {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nQuote Extractor - extracts quote records from PDF quotes and Excel price sheets\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s --input=quote.pdf                       # extract one quote to JSON\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --input=prices.xlsx --outdir=out        # consolidate a price sheet\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=watch --uploaddir=in --archivedir=done\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  QUOTE_EXTRACTOR_MODE        Run mode\n")
		fmt.Fprintf(os.Stderr, "  QUOTE_EXTRACTOR_INPUT       Input file\n")
		fmt.Fprintf(os.Stderr, "  QUOTE_EXTRACTOR_OUTDIR      Output directory\n")
		fmt.Fprintf(os.Stderr, "  QUOTE_EXTRACTOR_UPLOADDIR   Watched upload directory\n")
		fmt.Fprintf(os.Stderr, "  QUOTE_EXTRACTOR_ARCHIVEDIR  Archive directory\n")
		fmt.Fprintf(os.Stderr, "  QUOTE_EXTRACTOR_SETTLEDELAY Upload settle delay\n")
		fmt.Fprintf(os.Stderr, "  QUOTE_EXTRACTOR_MARGIN      Margin uplift percent\n")
		fmt.Fprintf(os.Stderr, "  QUOTE_EXTRACTOR_LOGLEVEL    Log level\n")
		fmt.Fprintf(os.Stderr, "  QUOTE_EXTRACTOR_MAXFILESIZE Maximum file size\n")
	}
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Input = viper.GetString("input")
	cfg.OutputDir = viper.GetString("outdir")
	cfg.UploadDir = viper.GetString("uploaddir")
	cfg.ArchiveDir = viper.GetString("archivedir")
	cfg.SettleDelay = viper.GetDuration("settledelay")
	cfg.MarginPercent = viper.GetFloat64("margin")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeFile && c.Mode != ModeWatch {
		return errors.New("mode must be either 'file' or 'watch'")
	}

	if c.Mode == ModeFile && c.Input == "" {
		return errors.New("input file is required in file mode")
	}

	if c.Mode == ModeWatch {
		if c.UploadDir == "" {
			return errors.New("upload directory cannot be empty in watch mode")
		}
		if c.ArchiveDir == "" {
			return errors.New("archive directory cannot be empty in watch mode")
		}
		if c.SettleDelay < 0 {
			return errors.New("settle delay cannot be negative")
		}
	}

	if c.OutputDir == "" {
		return errors.New("output directory cannot be empty")
	}
	if _, err := os.Stat(c.OutputDir); os.IsNotExist(err) {
		if err := os.MkdirAll(c.OutputDir, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create output directory %s: %w", c.OutputDir, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access output directory %s: %w", c.OutputDir, err)
	}

	if c.MarginPercent < 0 || c.MarginPercent >= 100 {
		return errors.New("margin percent must be in [0, 100)")
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// SlogLevel maps the configured log level onto slog's levels.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
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

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// IsWatchMode returns true when the folder watch loop should run
func (c *Config) IsWatchMode() bool {
	return c.Mode == ModeWatch
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Input: %s, OutputDir: %s, UploadDir: %s, ArchiveDir: %s, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.Input, c.OutputDir, c.UploadDir, c.ArchiveDir, c.LogLevel, c.MaxFileSize)
}
