package plugin

import (
	"sync"
	"time"

	"github.com/blackroad/roadplugin/hook"
	"github.com/blackroad/roadplugin/json"
)

// Config is the read-only settings map handed to a plugin at construction.
// Values come from whatever the manager had stored for the plugin's name at
// load time; missing keys fall back to the caller's default.
type Config struct {
	values map[string]any
}

// NewConfig copies the given settings into a Config.
func NewConfig(values map[string]any) Config {
	copied := make(map[string]any, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return Config{values: copied}
}

// Get returns the raw value for a key.
func (c Config) Get(key string) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// GetString returns a string value, or def when absent or mistyped.
func (c Config) GetString(key, def string) string {
	if v, ok := c.values[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// GetInt returns an integer value, or def when absent or mistyped. JSON and
// YAML decoders deliver numbers as float64 or int64; both are accepted.
func (c Config) GetInt(key string, def int) int {
	switch v := c.values[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

// GetBool returns a boolean value, or def when absent or mistyped.
func (c Config) GetBool(key string, def bool) bool {
	if v, ok := c.values[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// GetDuration parses a duration value ("30s", "5m"), or returns def.
func (c Config) GetDuration(key string, def time.Duration) time.Duration {
	if v, ok := c.values[key]; ok {
		switch d := v.(type) {
		case time.Duration:
			return d
		case string:
			if parsed, err := time.ParseDuration(d); err == nil {
				return parsed
			}
		}
	}
	return def
}

// Bind unmarshals the whole settings map into a struct.
func (c Config) Bind(target any) error {
	raw, err := json.Marshal(c.values)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, target)
}

// Len returns the number of settings.
func (c Config) Len() int {
	return len(c.values)
}

// Map returns a copy of the underlying settings.
func (c Config) Map() map[string]any {
	copied := make(map[string]any, len(c.values))
	for k, v := range c.values {
		copied[k] = v
	}
	return copied
}

// Context is the per-instance bag the manager builds once, at construction,
// and hands to the plugin's factory. The plugin owns it from then on: Config
// carries its settings, Data is its private scratch space, and RegisterHook
// buffers hook registrations for the manager to harvest after OnLoad.
type Context struct {
	name   string
	config Config

	mu    sync.RWMutex
	data  map[string]any
	hooks []hook.Registration
}

// NewContext builds a context for the named plugin.
func NewContext(name string, config map[string]any) *Context {
	return &Context{
		name:   name,
		config: NewConfig(config),
		data:   make(map[string]any),
	}
}

// Name returns the plugin's own name.
func (c *Context) Name() string { return c.name }

// Config returns the plugin's settings.
func (c *Context) Config() Config { return c.config }

// Get reads a scratch data value.
func (c *Context) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.data[key]
	return v, ok
}

// Set stores a scratch data value.
func (c *Context) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
}

// Delete removes a scratch data value.
func (c *Context) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

// HookOption adjusts a buffered hook registration.
type HookOption func(*hook.Registration)

// WithPriority sets the registration's execution priority.
func WithPriority(p hook.Priority) HookOption {
	return func(r *hook.Registration) {
		r.Priority = p
	}
}

// RegisterHook buffers a handler binding for the named hook at normal
// priority unless overridden. The manager harvests the buffer after OnLoad
// returns and inserts it into its hook registry; registrations buffered at
// any other time take effect only on the next load.
func (c *Context) RegisterHook(name string, handler hook.Handler, opts ...HookOption) {
	reg := hook.NewRegistration(name, c.name, handler, hook.Normal)
	for _, opt := range opts {
		opt(&reg)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks = append(c.hooks, reg)
}

// Hooks returns a copy of the buffered registrations, in registration order.
func (c *Context) Hooks() []hook.Registration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]hook.Registration(nil), c.hooks...)
}

// ClearHooks drops the buffered registrations. The manager calls this after
// harvesting them into the registry so a reused context starts clean.
func (c *Context) ClearHooks() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks = nil
}
