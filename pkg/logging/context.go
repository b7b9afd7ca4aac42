package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey int

const loggerKey contextKey = iota

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the logger from context, or returns the default logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return Default()
	}
	if logger, ok := ctx.Value(loggerKey).(*zerolog.Logger); ok && logger != nil {
		return logger
	}
	return Default()
}

// WithRequestID tags the context logger with the request ID sent upstream.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return withField(ctx, "request_id", requestID)
}

// withField adds a single field to the logger in the context.
func withField(ctx context.Context, key string, value any) context.Context {
	logCtx := FromContext(ctx).With()
	logger := addField(logCtx, key, value).Logger()
	return WithLogger(ctx, &logger)
}

// WithMarker tags the context logger with a marker id.
func WithMarker(ctx context.Context, markerID int64) context.Context {
	return withField(ctx, "marker_id", markerID)
}

// WithOperation tags the context logger with the operation being performed.
func WithOperation(ctx context.Context, operation string) context.Context {
	return withField(ctx, "operation", operation)
}

// WithComponent tags the context logger with the emitting component.
func WithComponent(ctx context.Context, component string) context.Context {
	return withField(ctx, "component", component)
}
