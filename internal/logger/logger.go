// Package logger installs the process-wide zap logger.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Init builds a logger for env and replaces zap's globals, so packages
// log through zap.L().  "prod" and "production" get JSON output at info
// level; everything else gets the colored development console.
func Init(env string) error {
	var (
		logger *zap.Logger
		err    error
	)
	switch env {
	case "prod", "production":
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		logger, err = cfg.Build()
	case "test":
		logger = zap.NewNop()
	default:
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		logger, err = cfg.Build()
	}
	if err != nil {
		return fmt.Errorf("failed to build %s logger -> %w", env, err)
	}
	zap.ReplaceGlobals(logger)
	return nil
}

// Sync flushes buffered entries of the global logger.
func Sync() {
	_ = zap.L().Sync()
}
