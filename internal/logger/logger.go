// Package logger wraps zap to provide structured logging for the service.
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Logger carries the underlying zap.Logger.
type Logger struct {
	// Log is the configured zap logger; no-op until Init is called.
	Log *zap.Logger
}

// New returns a Logger with a no-op zap logger. Call Init to configure it.
func New() *Logger {
	return &Logger{Log: zap.NewNop()}
}

// Init configures the logger at the given level ("Debug", "Info", "Warn",
// "Error"). It replaces the no-op logger with a production zap logger.
func (l *Logger) Init(level string) error {
	lvl, err := zap.ParseAtomicLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl

	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}

	l.Log = logger
	return nil
}
