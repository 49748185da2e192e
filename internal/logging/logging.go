// Package logging configures the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Options configures Setup.
type Options struct {
	Level   slog.Level
	NoColor bool
	// AddSource adds file:line to each record; enabled for debug output.
	AddSource bool
}

// ParseLevel parses debug, info, warn or error.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %q (expected debug, info, warn, or error)", s)
	}
}

// NewHandler creates a tint console handler writing to w.
func NewHandler(w io.Writer, opts Options) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		Level:      opts.Level,
		TimeFormat: time.TimeOnly,
		AddSource:  opts.AddSource,
		NoColor:    opts.NoColor,
	})
}

// Setup installs a tint logger as the slog default and returns it.
func Setup(w io.Writer, opts Options) *slog.Logger {
	logger := slog.New(NewHandler(w, opts))
	slog.SetDefault(logger)
	return logger
}
