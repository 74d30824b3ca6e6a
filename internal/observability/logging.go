// Package observability carries compile-scoped logging context (build ID, phase,
// endpoint) through context.Context so log lines from deep inside a compile pass
// can be correlated.
package observability

import (
	"context"
	"log/slog"

	"github.com/phpnomad/documentation/internal/logfields"
)

// LogContext holds structured logging context information.
type LogContext struct {
	BuildID  string
	Phase    string
	Endpoint string
}

type logContextKeyType string

const logContextKey logContextKeyType = "log-context"

// WithBuildID adds a build ID to the context.
func WithBuildID(ctx context.Context, buildID string) context.Context {
	lc := extractLogContext(ctx)
	lc.BuildID = buildID
	return context.WithValue(ctx, logContextKey, lc)
}

// WithPhase adds a compile phase name to the context.
func WithPhase(ctx context.Context, phase string) context.Context {
	lc := extractLogContext(ctx)
	lc.Phase = phase
	return context.WithValue(ctx, logContextKey, lc)
}

// WithEndpoint adds the endpoint being rendered to the context.
func WithEndpoint(ctx context.Context, endpoint string) context.Context {
	lc := extractLogContext(ctx)
	lc.Endpoint = endpoint
	return context.WithValue(ctx, logContextKey, lc)
}

func extractLogContext(ctx context.Context) LogContext {
	if ctx == nil {
		return LogContext{}
	}
	if lc, ok := ctx.Value(logContextKey).(LogContext); ok {
		return lc
	}
	return LogContext{}
}

func getLogAttrs(ctx context.Context) []slog.Attr {
	lc := extractLogContext(ctx)
	attrs := []slog.Attr{}

	if lc.BuildID != "" {
		attrs = append(attrs, logfields.BuildID(lc.BuildID))
	}
	if lc.Phase != "" {
		attrs = append(attrs, logfields.Phase(lc.Phase))
	}
	if lc.Endpoint != "" {
		attrs = append(attrs, logfields.Endpoint(lc.Endpoint))
	}

	return attrs
}

// InfoContext logs an info message with context information.
func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logAttrs(ctx, slog.LevelInfo, msg, attrs)
}

// WarnContext logs a warning message with context information.
func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logAttrs(ctx, slog.LevelWarn, msg, attrs)
}

// ErrorContext logs an error message with context information.
func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logAttrs(ctx, slog.LevelError, msg, attrs)
}

// DebugContext logs a debug message with context information.
func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logAttrs(ctx, slog.LevelDebug, msg, attrs)
}

func logAttrs(ctx context.Context, level slog.Level, msg string, attrs []slog.Attr) {
	if ctx == nil {
		ctx = context.Background()
	}
	all := append(getLogAttrs(ctx), attrs...)
	slog.LogAttrs(ctx, level, msg, all...)
}

// GetContext returns the structured log context from the provided context.
func GetContext(ctx context.Context) LogContext {
	return extractLogContext(ctx)
}
