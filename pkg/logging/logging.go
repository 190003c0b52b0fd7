// Package logging builds the logrus logger shared by the CLI, the store and the API.
package logging

import (
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/ssargent/progress/pkg/config"
)

// New returns a logger configured from the logging section. Output goes to out,
// which for the CLI is stderr so that command output stays clean.
func New(cfg config.Logging, out io.Writer) (*log.Logger, error) {
	logger := log.New()
	logger.SetOutput(out)

	level := cfg.Level
	if level == "" {
		level = "warn"
	}
	parsed, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	logger.SetLevel(parsed)

	switch cfg.Format {
	case "", "text":
		logger.SetFormatter(&log.TextFormatter{
			DisableTimestamp: parsed < log.DebugLevel,
		})
	case "json":
		logger.SetFormatter(&log.JSONFormatter{})
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.Format)
	}

	return logger, nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	logger := log.New()
	logger.SetOutput(io.Discard)
	return logger
}
