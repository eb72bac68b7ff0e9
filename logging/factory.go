package logging

import (
	"sync"
)

// Factory hands out named loggers sharing one configuration.
type Factory struct {
	config  Config
	loggers sync.Map // map[string]Logger
}

// NewFactory creates a factory for the given config.
func NewFactory(config Config) *Factory {
	config.ApplyDefaults()
	return &Factory{config: config}
}

// GetLogger returns the logger for a name, creating it on first use.
func (f *Factory) GetLogger(name string) Logger {
	if v, ok := f.loggers.Load(name); ok {
		return v.(Logger)
	}

	logger := NewLogger(f.config).Named(name)
	actual, loaded := f.loggers.LoadOrStore(name, logger)
	if loaded {
		return actual.(Logger)
	}
	return logger
}

// Config returns a copy of the factory's configuration.
func (f *Factory) Config() Config {
	return f.config
}
