// Package logging provides structured logging built on log/slog, with
// file rotation delegated to lumberjack. A single JSON handler writes to
// the console (stderr) and, when a file path is set, the rotated log file,
// gated by one dynamic level; there is no separate text-format console sink.
package logging

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu          sync.RWMutex
	baseLogger  *slog.Logger
	currentLvl  = new(slog.LevelVar)
	initialized bool
)

// Config controls where logs go and how they rotate.
type Config struct {
	FilePath   string // empty disables file logging
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Level      slog.Level
	Console    bool
}

// DefaultConfig returns sane defaults for a headless engine process.
func DefaultConfig() Config {
	return Config{
		MaxSizeMB:  20,
		MaxBackups: 5,
		MaxAgeDays: 28,
		Level:      slog.LevelInfo,
		Console:    true,
	}
}

// Init sets up the global logger. Safe to call once at process start;
// later calls replace the previous configuration.
func Init(cfg Config) {
	mu.Lock()
	defer mu.Unlock()

	currentLvl.Set(cfg.Level)

	var writers []io.Writer
	if cfg.Console {
		writers = append(writers, os.Stderr)
	}
	if cfg.FilePath != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		})
	}
	if len(writers) == 0 {
		writers = append(writers, io.Discard)
	}

	handler := slog.NewJSONHandler(io.MultiWriter(writers...), &slog.HandlerOptions{
		Level: currentLvl,
	})
	baseLogger = slog.New(handler)
	initialized = true
}

// SetLevel adjusts the active log level without reconfiguring outputs.
func SetLevel(level slog.Level) {
	currentLvl.Set(level)
}

// ForService returns a child logger tagged with the given service/component
// name. Falls back to slog.Default() if Init was never called.
func ForService(service string) *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if !initialized || baseLogger == nil {
		return slog.Default().With("service", service)
	}
	return baseLogger.With("service", service)
}
