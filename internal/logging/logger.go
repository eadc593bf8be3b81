// Package logging builds the playground's zap loggers from config.
// Each subsystem logs through a named child logger (its category), and a
// category switched off in config gets a no-op logger.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"playground/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot    Category = "boot"    // Startup and shutdown
	CategoryStore   Category = "store"   // Store lane, commits, effects
	CategoryUsers   Category = "users"   // Users source
	CategoryJournal Category = "journal" // Event journal
	CategoryUI      Category = "ui"      // Terminal UI
)

// Logger pairs a root zap logger with the category filter from config.
type Logger struct {
	*zap.Logger
	cfg config.LoggingConfig
}

// New builds a logger from cfg. verbose forces debug level. Output goes to
// cfg.File when set (its directory is created), otherwise to stderr.
func New(cfg config.LoggingConfig, verbose bool) (*Logger, error) {
	zcfg := zap.NewProductionConfig()
	if strings.EqualFold(cfg.Format, "console") {
		zcfg.Encoding = "console"
		zcfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.Sampling = nil

	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return nil, fmt.Errorf("failed to create logs directory: %w", err)
		}
		zcfg.OutputPaths = []string{cfg.File}
		zcfg.ErrorOutputPaths = []string{cfg.File}
	}

	zl, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return &Logger{Logger: zl, cfg: cfg}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// For returns the named logger for a category, or a no-op logger when the
// category is disabled.
func (l *Logger) For(c Category) *zap.Logger {
	if l == nil || l.Logger == nil {
		return zap.NewNop()
	}
	if !l.cfg.IsCategoryEnabled(string(c)) {
		return zap.NewNop()
	}
	return l.Logger.Named(string(c))
}

func parseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}
