package logging

import (
	"sync"

	"go.uber.org/zap"
)

var (
	globalLogger Logger
	globalMu     sync.RWMutex
	once         sync.Once
)

func initGlobal() {
	once.Do(func() {
		globalLogger = NewLogger(DefaultConfig())
	})
}

// Global returns the process-wide logger.
func Global() Logger {
	globalMu.RLock()
	if globalLogger != nil {
		defer globalMu.RUnlock()
		return globalLogger
	}
	globalMu.RUnlock()

	initGlobal()

	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// SetGlobal replaces the process-wide logger.
func SetGlobal(logger Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = logger
}

// Init builds the process-wide logger from a config.
func Init(config Config) {
	SetGlobal(NewLogger(config))
}

// Package-level shortcuts onto the global logger.

func Debug(msg string, fields ...zap.Field) { Global().Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { Global().Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { Global().Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { Global().Error(msg, fields...) }
func Fatal(msg string, fields ...zap.Field) { Global().Fatal(msg, fields...) }

// With creates a child of the global logger with additional fields.
func With(fields ...zap.Field) Logger { return Global().With(fields...) }

// Named creates a named child of the global logger.
func Named(name string) Logger { return Global().Named(name) }

// Sync flushes the global logger.
func Sync() error { return Global().Sync() }
