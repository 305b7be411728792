// Package logging configures structured logging with log/slog.
//
// Local runs get a colored tint handler; deployments usually want
// LOG_FORMAT=json for machine-readable output.
//
// Environment variables (read by Setup):
//
//	LOG_LEVEL:  debug, info, warn, error (default: info)
//	LOG_FORMAT: text, json (default: text)
package logging

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Options controls handler selection.
type Options struct {
	Level         string // debug|info|warn|error
	Format        string // text|json
	Colored       bool
	IncludeCaller bool
}

// Setup configures the default logger from LOG_LEVEL / LOG_FORMAT.
func Setup() {
	SetupWithOptions(Options{
		Level:   os.Getenv("LOG_LEVEL"),
		Format:  os.Getenv("LOG_FORMAT"),
		Colored: true,
	})
}

// SetupWithOptions configures the default logger from explicit options and
// returns it.
func SetupWithOptions(opts Options) *slog.Logger {
	level := parseLevel(opts.Level)

	var handler slog.Handler
	switch {
	case strings.EqualFold(opts.Format, "json"):
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     level,
			AddSource: opts.IncludeCaller,
		})
	case opts.Colored:
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			AddSource:  opts.IncludeCaller,
		})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level:     level,
			AddSource: opts.IncludeCaller,
		})
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(level string) slog.Level {
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
