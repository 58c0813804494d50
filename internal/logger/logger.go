// Package logger provides the shared zap logger used by every component.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LoggerConfig struct {
	Debug bool
}

// NewLogger creates a production zap logger. When Debug is set the level is
// lowered to debug and callers get full caller annotations.
func NewLogger(cfg *LoggerConfig) (*zap.Logger, error) {
	c := zap.NewProductionConfig()
	c.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if cfg.Debug {
		c.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		c.Development = true
	}
	return c.Build()
}

// NewNoopLogger returns a logger that discards everything. Used by tests
// that only care about return values.
func NewNoopLogger() *zap.Logger {
	return zap.NewNop()
}
