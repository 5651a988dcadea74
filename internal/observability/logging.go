package observability

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/scriptpack/internal/logfields"
)

// LogContext holds structured logging context information.
type LogContext struct {
	RunID  string
	Stage  string
	Target string
}

type logContextKeyType string

const logContextKey logContextKeyType = "log-context"

// WithRunID adds a run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	lc := extractLogContext(ctx)
	lc.RunID = runID
	return context.WithValue(ctx, logContextKey, lc)
}

// WithStage adds a stage name to the context.
func WithStage(ctx context.Context, stage string) context.Context {
	lc := extractLogContext(ctx)
	lc.Stage = stage
	return context.WithValue(ctx, logContextKey, lc)
}

// WithTarget adds an output target name to the context.
func WithTarget(ctx context.Context, target string) context.Context {
	lc := extractLogContext(ctx)
	lc.Target = target
	return context.WithValue(ctx, logContextKey, lc)
}

func extractLogContext(ctx context.Context) LogContext {
	if lc, ok := ctx.Value(logContextKey).(LogContext); ok {
		return lc
	}
	return LogContext{}
}

// GetContext returns the structured log context from the provided context.
func GetContext(ctx context.Context) LogContext {
	return extractLogContext(ctx)
}

// Attrs returns the non-empty context values as slog attributes.
func Attrs(ctx context.Context) []slog.Attr {
	lc := extractLogContext(ctx)
	attrs := []slog.Attr{}

	if lc.RunID != "" {
		attrs = append(attrs, logfields.RunID(lc.RunID))
	}
	if lc.Stage != "" {
		attrs = append(attrs, logfields.Stage(lc.Stage))
	}
	if lc.Target != "" {
		attrs = append(attrs, logfields.Target(lc.Target))
	}
	return attrs
}

// Log writes msg to logger (slog.Default when nil) with the context values
// prepended to attrs.
func Log(ctx context.Context, logger *slog.Logger, level slog.Level, msg string, attrs ...slog.Attr) {
	if logger == nil {
		logger = slog.Default()
	}
	all := append(Attrs(ctx), attrs...)
	logger.LogAttrs(ctx, level, msg, all...)
}

// InfoContext logs an info message with context information.
func InfoContext(ctx context.Context, logger *slog.Logger, msg string, attrs ...slog.Attr) {
	Log(ctx, logger, slog.LevelInfo, msg, attrs...)
}

// WarnContext logs a warning message with context information.
func WarnContext(ctx context.Context, logger *slog.Logger, msg string, attrs ...slog.Attr) {
	Log(ctx, logger, slog.LevelWarn, msg, attrs...)
}

// ErrorContext logs an error message with context information.
func ErrorContext(ctx context.Context, logger *slog.Logger, msg string, attrs ...slog.Attr) {
	Log(ctx, logger, slog.LevelError, msg, attrs...)
}

// DebugContext logs a debug message with context information.
func DebugContext(ctx context.Context, logger *slog.Logger, msg string, attrs ...slog.Attr) {
	Log(ctx, logger, slog.LevelDebug, msg, attrs...)
}
