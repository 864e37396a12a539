package logger

import (
	"context"
	"log/slog"
	"time"
)

// ContextKey is the type for context keys used in logging
type ContextKey string

const (
	RequestIDKey ContextKey = "request_id"
	OperationKey ContextKey = "operation"
	ItemIDKey    ContextKey = "item_id"
	JobIDKey     ContextKey = "job_id"
)

// GlobalContext is the global ContextLogger instance
var GlobalContext *ContextLogger

// ContextLogger wraps a slog.Logger to add context-aware logging
type ContextLogger struct {
	logger *slog.Logger
}

// NewContextLogger creates a new ContextLogger wrapping the provided logger
func NewContextLogger(logger *slog.Logger) *ContextLogger {
	return &ContextLogger{logger: logger}
}

// WithContext adds context values to log entries and returns a new logger
func (cl *ContextLogger) WithContext(ctx context.Context) *slog.Logger {
	args := make([]any, 0)

	if requestID := ctx.Value(RequestIDKey); requestID != nil {
		args = append(args, string(RequestIDKey), requestID)
	}

	if operation := ctx.Value(OperationKey); operation != nil {
		args = append(args, string(OperationKey), operation)
	}

	if itemID := ctx.Value(ItemIDKey); itemID != nil {
		args = append(args, string(ItemIDKey), itemID)
	}

	if jobID := ctx.Value(JobIDKey); jobID != nil {
		args = append(args, string(JobIDKey), jobID)
	}

	return cl.logger.With(args...)
}

// WithRequestID adds a request ID to context for observability
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// WithOperation adds the current operation name to context
func WithOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, OperationKey, operation)
}

// WithItemID adds a catalog item ID to context for observability
func WithItemID(ctx context.Context, itemID int64) context.Context {
	return context.WithValue(ctx, ItemIDKey, itemID)
}

// WithJobID adds a reindex job ID to context for observability
func WithJobID(ctx context.Context, jobID string) context.Context {
	return context.WithValue(ctx, JobIDKey, jobID)
}

// LogDuration logs an operation completion with duration in milliseconds
func (cl *ContextLogger) LogDuration(ctx context.Context, operation string, duration time.Duration) {
	cl.WithContext(ctx).Info("operation completed",
		"operation", operation,
		"duration_ms", duration.Milliseconds(),
	)
}

// LogError logs an operation failure with error details
func (cl *ContextLogger) LogError(ctx context.Context, operation string, err error) {
	cl.WithContext(ctx).Error("operation failed",
		"operation", operation,
		"error", err,
	)
}
