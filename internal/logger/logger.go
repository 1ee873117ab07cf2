package logger

import (
	"io"
	"log/slog"
	"strings"

	"github.com/insightdelivered/ride-history-converter/internal/config"
)

// New builds a slog logger writing to out. Progress and warnings go through
// it; the converter's own output (the saved file name) does not.
func New(cfg config.LoggingConfig, out io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	return slog.New(handler)
}

// Setup builds the logger and installs it as the slog default.
func Setup(cfg config.LoggingConfig, out io.Writer) *slog.Logger {
	l := New(cfg, out)
	slog.SetDefault(l)
	return l
}

// ParseLevel converts a level name to a slog.Level. Unknown names mean info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
