package config

import (
	"os"
	"strings"
	"sync"
)

// EnvModeKey selects the run mode and with it the config file layers.
const EnvModeKey = "ROADPLUGIN_ENV"

type Mode string

const (
	ModeDev  Mode = "development"
	ModeProd Mode = "production"
	ModeTest Mode = "test"
)

var (
	currentMode Mode
	modeOnce    sync.Once
)

// ParseMode maps common spellings onto a Mode. Unknown values fall
// back to development.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "development", "dev", "":
		return ModeDev
	case "production", "prod", "pro":
		return ModeProd
	case "test", "testing":
		return ModeTest
	default:
		return ModeDev
	}
}

// CurrentMode reads the run mode from the environment once and caches
// it for the life of the process.
func CurrentMode() Mode {
	modeOnce.Do(func() {
		currentMode = ParseMode(os.Getenv(EnvModeKey))
	})
	return currentMode
}

// SetMode overrides the cached run mode and the environment variable.
func SetMode(m Mode) {
	modeOnce.Do(func() {})
	currentMode = m
	os.Setenv(EnvModeKey, string(m))
}
