// Package logger builds the structured slog.Logger used for startup and
// per-inspector diagnostic lines. It never logs the report body itself,
// which is pure data handled by internal/report.
package logger

import (
	"log/slog"
	"os"
)

// New returns a slog.Logger writing to stderr. format is "json" or "text";
// anything else falls back to text. level is one of debug/info/warn/error.
func New(format, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func parseLevel(level string) slog.Level {
	switch level {
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
