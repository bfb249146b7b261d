// Package logger builds the zap loggers used by long-running surfaces
// (the MCP server) and best-effort paths that must not fail the caller.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New constructs a logger writing structured output to stderr. Pretty
// enables the human-readable development encoder.
func New(level string, pretty bool) *zap.Logger {
	var cfg zap.Config
	if pretty {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	if lvl, err := zapcore.ParseLevel(level); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	log, err := cfg.Build(zap.AddStacktrace(zapcore.FatalLevel))
	if err != nil {
		return zap.NewNop()
	}
	return log
}
