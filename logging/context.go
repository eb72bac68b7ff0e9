package logging

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey string

const (
	// RequestIDKey carries the API request id through the context.
	RequestIDKey ctxKey = "request_id"
	// PluginKey carries the plugin name a lifecycle operation is acting on.
	PluginKey ctxKey = "plugin"
)

// WithContext creates a child logger carrying the request id and plugin
// name found in the context, if any.
func WithContext(logger Logger, ctx context.Context) Logger {
	if ctx == nil {
		return logger
	}

	var fields []zap.Field
	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	if name := GetPlugin(ctx); name != "" {
		fields = append(fields, zap.String("plugin", name))
	}

	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}

// GetRequestID extracts the request id from the context.
func GetRequestID(ctx context.Context) string {
	return stringFromCtx(ctx, RequestIDKey)
}

// SetRequestID stores a request id in the context.
func SetRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetPlugin extracts the plugin name from the context.
func GetPlugin(ctx context.Context) string {
	return stringFromCtx(ctx, PluginKey)
}

// SetPlugin stores a plugin name in the context.
func SetPlugin(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, PluginKey, name)
}

func stringFromCtx(ctx context.Context, key ctxKey) string {
	if ctx == nil {
		return ""
	}
	if s, ok := ctx.Value(key).(string); ok {
		return s
	}
	return ""
}

type loggerKey struct{}

// FromContext returns the logger stored in the context, falling back to
// the global logger.
func FromContext(ctx context.Context) Logger {
	if ctx == nil {
		return Global()
	}
	if l, ok := ctx.Value(loggerKey{}).(Logger); ok {
		return l
	}
	return Global()
}

// ToContext stores a logger in the context.
func ToContext(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}
