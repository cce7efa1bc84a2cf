// Package logging configures the process-wide slog logger.
//
// Logs always go to stderr so they never interleave with the report on
// stdout. The level is taken from the caller, then from LOG_LEVEL, then
// defaults to info.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// EnvLogLevel is the environment variable consulted when no level is given.
const EnvLogLevel = "LOG_LEVEL"

// Options controls logger construction.
type Options struct {
	Name    string
	Version string
	Level   string
	JSON    bool
	Output  io.Writer
}

// ParseLogLevel converts a level name into a slog.Level. Unknown names map
// to info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds a logger from opts.
func New(opts Options) *slog.Logger {
	level := opts.Level
	if level == "" {
		level = os.Getenv(EnvLogLevel)
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{Level: ParseLogLevel(level)}

	var h slog.Handler
	if opts.JSON {
		h = slog.NewJSONHandler(out, handlerOpts)
	} else {
		h = slog.NewTextHandler(out, handlerOpts)
	}

	logger := slog.New(h)
	if opts.JSON {
		logger = logger.With(slog.String("module", opts.Name), slog.String("version", opts.Version))
	}
	return logger
}

// SetDefaultLogger installs a logger built from opts as the slog default.
func SetDefaultLogger(opts Options) {
	slog.SetDefault(New(opts))
}
