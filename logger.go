package meshmap

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with meshmap-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithRank adds the rank of the partition to the logger.
func (l *Logger) WithRank(rank int) *Logger {
	return &Logger{
		Logger: l.Logger.With("rank", rank),
	}
}

// WithModelPart adds the name of the origin model part to the logger.
func (l *Logger) WithModelPart(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("model_part", name),
	}
}

// WithMode adds the mapping mode to the logger.
func (l *Logger) WithMode(mode Mode) *Logger {
	return &Logger{
		Logger: l.Logger.With("mode", mode.String()),
	}
}

// LogMap logs a mapping operation.
func (l *Logger) LogMap(ctx context.Context, points, unmatched, iterations int, err error) {
	switch {
	case err != nil:
		l.ErrorContext(ctx, "mapping failed",
			"points", points,
			"error", err,
		)
	case unmatched > 0:
		l.WarnContext(ctx, "mapping completed with unmatched points",
			"points", points,
			"unmatched", unmatched,
			"iterations", iterations,
		)
	default:
		l.DebugContext(ctx, "mapping completed",
			"points", points,
			"iterations", iterations,
		)
	}
}
