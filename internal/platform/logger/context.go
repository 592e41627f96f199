package logger

import (
	"context"
	"log/slog"
)

// contextKey is a private type for context keys defined in this package.
type contextKey int

const loggerKey contextKey = iota

// WithLogger returns a copy of ctx carrying the given logger. Request
// middleware uses this to hand request-scoped loggers (with request IDs
// attached) down to handlers and services.
func WithLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, log)
}

// FromContext extracts the logger carried by ctx, reporting whether one
// was present.
func FromContext(ctx context.Context) (*slog.Logger, bool) {
	log, ok := ctx.Value(loggerKey).(*slog.Logger)
	return log, ok
}

// FromContextOrDefault extracts the logger carried by ctx, falling back to
// the given logger, and failing that to slog.Default. It never returns nil.
func FromContextOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if log, ok := FromContext(ctx); ok {
		return log
	}
	if fallback != nil {
		return fallback
	}
	return slog.Default()
}
