package app

import (
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/giellatekno/termwiki/internal/config"
)

// NewLogger creates a *slog.Logger based on the provided LogConfig
// and sets it as the default logger via slog.SetDefault.
//
// Format "json" produces structured JSON output (cron runs).
// Format "text" produces human-readable output with source info (terminal runs).
// Level is one of: debug, info, warn, error (case-insensitive); defaults to info.
// Output is always os.Stderr, keeping stdout free for report output.
func NewLogger(cfg config.LogConfig) *slog.Logger {
	level := parseLevel(cfg.Level)

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: strings.EqualFold(cfg.Format, "text"),
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

// NewRunLogger creates the logger and tags every record with a fresh
// run id, so per-page diagnostics from one batch invocation can be
// grepped out of interleaved cron logs.
func NewRunLogger(cfg config.LogConfig) *slog.Logger {
	logger := NewLogger(cfg).With(slog.String("run_id", uuid.NewString()))
	slog.SetDefault(logger)
	logger.Info("starting", slog.String("version", BuildVersion()))
	return logger
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
