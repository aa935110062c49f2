// Package logging builds the zap loggers used by the intake daemon and
// the CLI analyzer.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mailguard/email-guard/internal/config"
)

// InitLogger builds the daemon logger from the logging config section.
func InitLogger(cfg *config.Config) (*zap.Logger, error) {
	logger, err := build(
		cfg.GetString("logging.format") == "json",
		parseLevel(cfg.GetString("logging.level")),
	)
	if err != nil {
		return nil, err
	}
	return logger.Named("email-guard"), nil
}

// InitConsoleLogger builds an interactive logger for the CLI analyzer,
// defaulting to info with a verbose switch for debug output.
func InitConsoleLogger(verbose bool, jsonFormat bool) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	return build(jsonFormat, level)
}

func parseLevel(name string) zapcore.Level {
	switch name {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func build(jsonFormat bool, level zapcore.Level) (*zap.Logger, error) {
	var zc zap.Config
	if jsonFormat {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
