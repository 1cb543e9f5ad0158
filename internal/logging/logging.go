// Package logging builds the logrus logger shared by the client components.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// Config selects level, format, and destination.
type Config struct {
	Level  string    // logrus level name; unknown values fall back to warn
	Format string    // "json" or "text"
	Output io.Writer // defaults to stderr
}

// New returns a configured logger.
func New(cfg Config) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.WarnLevel
	}
	logger.SetLevel(level)

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: time.RFC3339Nano,
			FullTimestamp:   true,
		})
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	logger.SetOutput(out)
	return logger
}

// Discard returns a logger that drops everything. Components fall back to it
// when constructed without one.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.PanicLevel)
	return logger
}
