package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// #region levels
// ParseLevel maps a case-insensitive level name to a slog.Level.
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
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// #endregion levels

// #region new
// New builds a logger writing to w. format is "text" or "json"; an unknown
// level or format falls back to info or text and is reported as a warning
// on the returned logger.
func New(level, format string, w io.Writer) *slog.Logger {
	lvl, levelErr := ParseLevel(level)
	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	var formatErr error
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "", "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
		formatErr = fmt.Errorf("unknown log format %q", format)
	}

	logger := slog.New(handler)
	if levelErr != nil {
		logger.Warn("invalid log level configured, using info", "configured_level", level)
	}
	if formatErr != nil {
		logger.Warn("invalid log format configured, using text", "configured_format", format)
	}
	return logger
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// #endregion new
