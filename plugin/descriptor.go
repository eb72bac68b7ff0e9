package plugin

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// DefaultVersion is assigned to descriptors that declare no version.
const DefaultVersion = "0.1.0"

var (
	// ErrNilFactory is returned for a Type with no constructor.
	ErrNilFactory = errors.New("plugin: nil factory")

	validate = validator.New()
)

// Descriptor is the immutable identity and metadata record for a plugin
// type. Dependencies and Hooks are documentation only: the lifecycle never
// consults them for ordering or enforcement. ConfigSchema is advisory, a
// hint to operators about the settings the plugin reads.
type Descriptor struct {
	Name         string         `json:"name" validate:"required"`
	Version      string         `json:"version,omitempty"`
	Description  string         `json:"description,omitempty"`
	Author       string         `json:"author,omitempty"`
	Dependencies []string       `json:"dependencies,omitempty"`
	Hooks        []string       `json:"hooks,omitempty"`
	ConfigSchema map[string]any `json:"config_schema,omitempty"`
}

// Validate checks the descriptor's required fields.
func (d Descriptor) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("plugin: invalid descriptor: %w", err)
	}
	return nil
}
