package logger

import (
	"context"
	"log/slog"
)

type ctxKey string

const fieldsKey ctxKey = "log_fields"

// With stores request-scoped log fields on ctx. Fields accumulate across
// calls, so middleware further down the chain can add to what RequestID set.
func With(ctx context.Context, fields ...any) context.Context {
	if len(fields) == 0 {
		return ctx
	}
	prev := Fields(ctx)
	merged := make([]any, 0, len(prev)+len(fields))
	merged = append(merged, prev...)
	merged = append(merged, fields...)
	return context.WithValue(ctx, fieldsKey, merged)
}

// Fields returns the key/value pairs stored by With.
func Fields(ctx context.Context) []any {
	fields, _ := ctx.Value(fieldsKey).([]any)
	return fields
}

// From returns the process logger enriched with the request fields.
func From(ctx context.Context) *slog.Logger {
	return Attach(ctx, LoggerWrapper())
}

// Attach enriches l with the request fields on ctx.
func Attach(ctx context.Context, l *slog.Logger) *slog.Logger {
	if fields := Fields(ctx); len(fields) > 0 {
		return l.With(fields...)
	}
	return l
}
