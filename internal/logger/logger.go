// Package logger builds the zap loggers used by the CLI and the HTTP server.
package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/newthinker/trendkit/internal/core"
)

// Config selects the encoder and minimum level
type Config struct {
	Development bool
	Level       string
}

// New creates a zap logger. Development mode uses the console encoder with
// coloured levels; otherwise output is JSON.
func New(c Config) (*zap.Logger, error) {
	var cfg zap.Config
	if c.Development {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
	}

	if c.Level != "" {
		level, err := ParseLevel(c.Level)
		if err != nil {
			return nil, err
		}
		cfg.Level = zap.NewAtomicLevelAt(level)
	}

	return cfg.Build()
}

// Must creates a logger or panics
func Must(c Config) *zap.Logger {
	log, err := New(c)
	if err != nil {
		panic(err)
	}
	return log
}

// ParseLevel maps a config string such as "info" or "WARN" to a zap level
func ParseLevel(s string) (zapcore.Level, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(s)))); err != nil {
		return level, core.Errorf(core.ErrConfigInvalid, "log level %q", s)
	}
	return level, nil
}
