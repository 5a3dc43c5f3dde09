// Package logging provides config-driven categorized logging for furnish.
// Everything is written to a single log file because the interactive shell
// owns the terminal; each category becomes a named zap logger.
// When debug mode is off every logger is a no-op.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot    Category = "boot"    // Startup, config resolution
	CategoryAPI     Category = "api"     // Backend requests and responses
	CategoryUI      Category = "ui"      // Screen lifecycle, dropped messages
	CategoryFixture Category = "fixture" // Fixture backend
)

// Options mirrors config.LoggingConfig to avoid an import cycle.
type Options struct {
	DebugMode  bool
	Level      string // debug, info, warn, error
	Format     string // json, console
	File       string
	Categories map[string]bool
}

var (
	mu      sync.RWMutex
	root    = zap.NewNop()
	opts    Options
	loggers = make(map[Category]*zap.Logger)
	file    *os.File
)

// Initialize opens the log file and builds the root logger.
// It is a silent no-op when debug mode is disabled.
func Initialize(o Options) error {
	if !o.DebugMode {
		Use(zap.NewNop(), o)
		return nil
	}
	if o.File == "" {
		return fmt.Errorf("log file path required")
	}

	if err := os.MkdirAll(filepath.Dir(o.File), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(o.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	if strings.EqualFold(o.Format, "json") {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(f), ParseLevel(o.Level))
	Use(zap.New(core), o)

	mu.Lock()
	file = f
	mu.Unlock()

	Get(CategoryBoot).Info("logging initialized",
		zap.String("file", o.File),
		zap.String("level", o.Level),
		zap.Int("categories", len(o.Categories)))
	return nil
}

// Use installs logger as the root logger. Tests pass an observer-backed
// logger here.
func Use(logger *zap.Logger, o Options) {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger = zap.NewNop()
	}
	root = logger
	opts = o
	loggers = make(map[Category]*zap.Logger)
}

// ParseLevel maps a level name to a zap level; unknown names mean info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// IsCategoryEnabled returns whether a specific category is enabled.
// Categories missing from the filter are enabled.
func IsCategoryEnabled(category Category) bool {
	mu.RLock()
	defer mu.RUnlock()

	if !opts.DebugMode {
		return false
	}
	enabled, exists := opts.Categories[string(category)]
	return !exists || enabled
}

// Get returns (or creates) the logger for a category.
func Get(category Category) *zap.Logger {
	if !IsCategoryEnabled(category) {
		return zap.NewNop()
	}

	mu.RLock()
	if l, ok := loggers[category]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}
	l := root.Named(string(category))
	loggers[category] = l
	return l
}

// WithRequestID returns a category logger tagged with a request correlation ID.
func WithRequestID(category Category, requestID string) *zap.Logger {
	return Get(category).With(zap.String("request_id", requestID))
}

// CloseAll flushes and closes the log file (call at shutdown).
func CloseAll() {
	mu.Lock()
	defer mu.Unlock()

	_ = root.Sync()
	if file != nil {
		_ = file.Close()
		file = nil
	}
	root = zap.NewNop()
	opts = Options{}
	loggers = make(map[Category]*zap.Logger)
}

// =============================================================================
// TIMERS
// =============================================================================

// Timer measures one operation and logs its duration.
type Timer struct {
	logger    *zap.Logger
	operation string
	start     time.Time
}

// StartTimer starts timing an operation in a category.
func StartTimer(category Category, operation string) *Timer {
	return &Timer{
		logger:    Get(category),
		operation: operation,
		start:     time.Now(),
	}
}

// Stop logs the elapsed time at debug level and returns it.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	t.logger.Debug("operation completed",
		zap.String("operation", t.operation),
		zap.Duration("elapsed", elapsed))
	return elapsed
}

// StopWithThreshold warns when the operation took longer than threshold.
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	if elapsed > threshold {
		t.logger.Warn("slow operation",
			zap.String("operation", t.operation),
			zap.Duration("elapsed", elapsed),
			zap.Duration("threshold", threshold))
		return elapsed
	}
	t.logger.Debug("operation completed",
		zap.String("operation", t.operation),
		zap.Duration("elapsed", elapsed))
	return elapsed
}
