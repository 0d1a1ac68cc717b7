// Package logging builds the process logger.
package logging

import (
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
)

// NewLogger creates a logr.Logger backed by Zap. A level of "debug" or
// "trace" selects a development config with debug output; anything else
// selects the production JSON config. Both write to stderr, which keeps
// stdout free for the stdio transport.
// Returns the logger and a sync function the caller should defer.
func NewLogger(level string) (logr.Logger, func(), error) {
	zapLog, err := newZapLogger(level)
	if err != nil {
		return logr.Logger{}, nil, err
	}
	sync := func() { _ = zapLog.Sync() }
	return zapr.NewLogger(zapLog), sync, nil
}

func newZapLogger(level string) (*zap.Logger, error) {
	if level == "debug" || level == "trace" {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		return cfg.Build()
	}
	return zap.NewProduction()
}
