// Package logger builds the structured slog.Logger used throughout unitman.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// New builds a slog.Logger at the given level ("debug"|"info"|"warn"|"error",
// case-insensitive, default "info") writing to stderr in the given format
// ("text"|"json", case-insensitive, default "text").
func New(level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
