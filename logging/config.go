package logging

import (
	"strings"

	"github.com/creasty/defaults"
	"go.uber.org/zap/zapcore"
)

// Config describes how loggers are built. Boolean switches are named so the
// zero value is the default behavior: console on, file off.
type Config struct {
	// Level is the minimum level (debug, info, warn, error, fatal).
	Level string `mapstructure:"level" json:"level" yaml:"level" default:"info"`

	// Format selects the encoder, console or json.
	Format string `mapstructure:"format" json:"format" yaml:"format" default:"console"`

	// EncodeLevel selects the level encoder (LowercaseLevelEncoder,
	// LowercaseColorLevelEncoder, CapitalLevelEncoder,
	// CapitalColorLevelEncoder).
	EncodeLevel string `mapstructure:"encode-level" json:"encodeLevel" yaml:"encode-level" default:"LowercaseLevelEncoder"`

	// Prefix is prepended to every timestamp.
	Prefix string `mapstructure:"prefix" json:"prefix" yaml:"prefix"`

	// TimeFormat is the Go layout for timestamps.
	TimeFormat string `mapstructure:"time-format" json:"timeFormat" yaml:"time-format" default:"2006/01/02 - 15:04:05"`

	// Directory holds the per-level log files when file logging is on.
	Directory string `mapstructure:"directory" json:"directory" yaml:"directory" default:"logs"`

	// DisableConsole turns terminal output off.
	DisableConsole bool `mapstructure:"disable-console" json:"disableConsole" yaml:"disable-console"`

	// File turns per-level rotated file output on.
	File bool `mapstructure:"file" json:"file" yaml:"file"`

	// MaxSize is the size in megabytes before a log file rotates.
	MaxSize int `mapstructure:"max-size" json:"maxSize" yaml:"max-size" default:"100"`

	// MaxBackups is how many rotated files to keep.
	MaxBackups int `mapstructure:"max-backups" json:"maxBackups" yaml:"max-backups" default:"10"`

	// MaxAge is the retention in days for rotated files.
	MaxAge int `mapstructure:"max-age" json:"maxAge" yaml:"max-age" default:"7"`

	// Compress gzips rotated files.
	Compress bool `mapstructure:"compress" json:"compress" yaml:"compress"`

	// ShowCaller adds file:line to every entry.
	ShowCaller bool `mapstructure:"show-caller" json:"showCaller" yaml:"show-caller"`
}

// DefaultConfig returns the fully defaulted configuration.
func DefaultConfig() Config {
	var c Config
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills empty fields from the default tags.
func (c *Config) ApplyDefaults() {
	_ = defaults.Set(c)
}

// TransportLevel converts the configured level to a zapcore.Level.
func (c Config) TransportLevel() zapcore.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "dpanic":
		return zapcore.DPanicLevel
	case "panic":
		return zapcore.PanicLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// ZapEncodeLevel returns the configured level encoder.
func (c Config) ZapEncodeLevel() zapcore.LevelEncoder {
	switch c.EncodeLevel {
	case "LowercaseColorLevelEncoder":
		return zapcore.LowercaseColorLevelEncoder
	case "CapitalLevelEncoder":
		return zapcore.CapitalLevelEncoder
	case "CapitalColorLevelEncoder":
		return zapcore.CapitalColorLevelEncoder
	default:
		return zapcore.LowercaseLevelEncoder
	}
}
