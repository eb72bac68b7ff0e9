// Package config loads and watches the process configuration: logging
// setup, plugin search directories, per-plugin stanzas, and the admin
// API listener. Files are YAML, merged in layers, with ROADPLUGIN_*
// environment variables taking precedence over file values.
package config

import (
	"sort"
	"time"

	"github.com/creasty/defaults"

	"github.com/blackroad/roadplugin/logging"
)

// Config is the full process configuration.
type Config struct {
	Logging    logging.Config          `mapstructure:"logging" json:"logging" yaml:"logging"`
	PluginDirs []string                `mapstructure:"plugin-dirs" json:"plugin-dirs" yaml:"plugin-dirs"`
	Plugins    map[string]PluginConfig `mapstructure:"plugins" json:"plugins" yaml:"plugins"`
	API        APIConfig               `mapstructure:"api" json:"api" yaml:"api"`
}

// PluginConfig is one plugin's stanza. Enabled is a pointer so an
// absent key reads differently from an explicit false.
type PluginConfig struct {
	Enabled  *bool          `mapstructure:"enabled" json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Settings map[string]any `mapstructure:"settings" json:"settings,omitempty" yaml:"settings,omitempty"`
}

// APIConfig configures the admin HTTP listener. A zero RateLimit turns
// rate limiting off.
type APIConfig struct {
	Addr            string        `mapstructure:"addr" json:"addr" yaml:"addr" default:":8080"`
	ReadTimeout     time.Duration `mapstructure:"read-timeout" json:"read-timeout" yaml:"read-timeout" default:"10s"`
	WriteTimeout    time.Duration `mapstructure:"write-timeout" json:"write-timeout" yaml:"write-timeout" default:"30s"`
	RateLimit       int           `mapstructure:"rate-limit" json:"rate-limit" yaml:"rate-limit"`
	RateLimitWindow time.Duration `mapstructure:"rate-limit-window" json:"rate-limit-window" yaml:"rate-limit-window" default:"1m"`
}

// Default returns a Config with every default applied and no file or
// environment input.
func Default() Config {
	var c Config
	_ = defaults.Set(&c)
	return c
}

// PluginSettings returns the settings stanza for a plugin, or nil when
// the plugin has none.
func (c Config) PluginSettings(name string) map[string]any {
	if pc, ok := c.Plugins[name]; ok {
		return pc.Settings
	}
	return nil
}

// PluginEnabled reports whether a plugin is explicitly marked enabled.
func (c Config) PluginEnabled(name string) bool {
	pc, ok := c.Plugins[name]
	return ok && pc.Enabled != nil && *pc.Enabled
}

// EnabledPlugins returns the sorted names of plugins marked enabled.
func (c Config) EnabledPlugins() []string {
	var names []string
	for name, pc := range c.Plugins {
		if pc.Enabled != nil && *pc.Enabled {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
