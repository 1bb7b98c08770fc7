// Package logging provides small helpers around log/slog: a context
// carrier for request-scoped loggers and structured helpers for the log
// lines the application emits most.
package logging

import (
	"context"
	"log/slog"
)

type contextKey struct{}

// WithLogger returns a context carrying the given logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger stored in ctx, or slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// LogHTTPRequest emits one line per completed HTTP request.
func LogHTTPRequest(logger *slog.Logger, method, path string, status int, durationMs float64, attrs ...slog.Attr) {
	args := []slog.Attr{
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("duration_ms", durationMs),
	}
	args = append(args, attrs...)
	logger.LogAttrs(context.Background(), slog.LevelInfo, "http_request", args...)
}

// LogOperation records a named application operation with its attributes.
func LogOperation(logger *slog.Logger, operation string, attrs ...slog.Attr) {
	logger.LogAttrs(context.Background(), slog.LevelInfo, operation, attrs...)
}

// LogError records an error with an explanatory message.
func LogError(logger *slog.Logger, msg string, err error, attrs ...slog.Attr) {
	args := []slog.Attr{slog.Any("error", err)}
	args = append(args, attrs...)
	logger.LogAttrs(context.Background(), slog.LevelError, msg, args...)
}
