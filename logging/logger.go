// Package logging builds the zap-backed loggers the framework runs on:
// per-level rotated files, console output, named child loggers, and entry
// hooks for feeding counters.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured logging interface handed around the framework.
type Logger interface {
	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	// Fatal logs and then calls os.Exit(1).
	Fatal(msg string, fields ...zap.Field)

	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Fatalf(format string, args ...any)

	// With creates a child logger carrying additional fields.
	With(fields ...zap.Field) Logger
	// WithError creates a child logger carrying an error field.
	WithError(err error) Logger
	// Named creates a child logger with the given name.
	Named(name string) Logger

	// Zap returns the underlying *zap.Logger.
	Zap() *zap.Logger
	// Sync flushes buffered entries.
	Sync() error
}

type zapLogger struct {
	zl *zap.Logger
	sl *zap.SugaredLogger
}

var _ Logger = (*zapLogger)(nil)

// NewLogger builds a Logger from the given Config: one core per enabled
// level, each writing through its own rotated file and, unless disabled,
// the terminal.
func NewLogger(config Config) Logger {
	config.ApplyDefaults()

	zl := zap.New(zapcore.NewTee(buildCores(config)...))
	if config.ShowCaller {
		zl = zl.WithOptions(zap.AddCaller(), zap.AddCallerSkip(1))
	}
	return wrap(zl)
}

// FromZap wraps an existing *zap.Logger.
func FromZap(zl *zap.Logger) Logger {
	return wrap(zl)
}

func wrap(zl *zap.Logger) Logger {
	return &zapLogger{zl: zl, sl: zl.Sugar()}
}

func (l *zapLogger) Debug(msg string, fields ...zap.Field) { l.zl.Debug(msg, fields...) }
func (l *zapLogger) Info(msg string, fields ...zap.Field)  { l.zl.Info(msg, fields...) }
func (l *zapLogger) Warn(msg string, fields ...zap.Field)  { l.zl.Warn(msg, fields...) }
func (l *zapLogger) Error(msg string, fields ...zap.Field) { l.zl.Error(msg, fields...) }
func (l *zapLogger) Fatal(msg string, fields ...zap.Field) { l.zl.Fatal(msg, fields...) }

func (l *zapLogger) Debugf(format string, args ...any) { l.sl.Debugf(format, args...) }
func (l *zapLogger) Infof(format string, args ...any)  { l.sl.Infof(format, args...) }
func (l *zapLogger) Warnf(format string, args ...any)  { l.sl.Warnf(format, args...) }
func (l *zapLogger) Errorf(format string, args ...any) { l.sl.Errorf(format, args...) }
func (l *zapLogger) Fatalf(format string, args ...any) { l.sl.Fatalf(format, args...) }

func (l *zapLogger) With(fields ...zap.Field) Logger { return wrap(l.zl.With(fields...)) }
func (l *zapLogger) WithError(err error) Logger      { return wrap(l.zl.With(zap.Error(err))) }
func (l *zapLogger) Named(name string) Logger        { return wrap(l.zl.Named(name)) }

func (l *zapLogger) Zap() *zap.Logger { return l.zl }
func (l *zapLogger) Sync() error      { return l.zl.Sync() }
