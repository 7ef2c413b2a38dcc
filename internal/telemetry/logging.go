package telemetry

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	EnvLogLevel  = "AGENTGEN_LOG_LEVEL"
	EnvLogFormat = "AGENTGEN_LOG_FORMAT"
)

// ParseLevel maps debug|info|warn|error (any case) to a slog level.
// Unknown values fall back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds a logger writing to w. format "json" selects the JSON
// handler, anything else the text handler.
func NewLogger(w io.Writer, level, format string) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl == slog.LevelDebug,
	}

	var handler slog.Handler
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// SetupLogger installs the default logger on stderr. The environment
// variables AGENTGEN_LOG_LEVEL and AGENTGEN_LOG_FORMAT override the
// configured values.
func SetupLogger(level, format string) *slog.Logger {
	if v := os.Getenv(EnvLogLevel); v != "" {
		level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		format = v
	}

	logger := NewLogger(os.Stderr, level, format)
	slog.SetDefault(logger)
	return logger
}

type ctxKey string

const ctxLogger ctxKey = "logger"

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxLogger, logger)
}

// FromContext returns the logger stored in ctx, or the default logger.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxLogger).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

func WithRunID(logger *slog.Logger, runID string) *slog.Logger {
	return logger.With("run_id", runID)
}

func WithSubtask(logger *slog.Logger, id int) *slog.Logger {
	return logger.With("subtask", id)
}
