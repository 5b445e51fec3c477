package biodatasets

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with biodatasets-specific context.
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
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithDataset adds a dataset field to the logger.
func (l *Logger) WithDataset(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("dataset", name),
	}
}

// LogLoad logs the outcome of loading a dataset into the cache.
func (l *Logger) LogLoad(ctx context.Context, name, dir string, force bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "dataset load failed",
			"dataset", name,
			"force", force,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "dataset ready",
			"dataset", name,
			"dir", dir,
			"force", force,
		)
	}
}

// LogUnknownDataset logs a request for a dataset that is not in the bucket.
func (l *Logger) LogUnknownDataset(ctx context.Context, name string) {
	l.ErrorContext(ctx, "dataset "+name+" does not exist",
		"dataset", name,
		"error", ErrUnknownDataset,
	)
}

// LogMissingColumns logs a column selection that is not a subset of the table.
func (l *Logger) LogMissingColumns(ctx context.Context, err *ColumnsError) {
	l.ErrorContext(ctx, "some "+err.Role+" are not in the dataset",
		"dataset", err.Dataset,
		"missing", err.Missing,
	)
}
