// Package hook implements the extension point dispatcher: named hooks with
// priority-ordered handler lists, fan-out execution, and filter chains.
package hook

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Priority orders handler execution within a hook. Lower values run earlier.
// Intermediate values between the named levels are valid.
type Priority int

// Named priority levels.
const (
	Highest Priority = 0
	High    Priority = 25
	Normal  Priority = 50
	Low     Priority = 75
	Lowest  Priority = 100
)

// String returns the level name, or the numeric value for custom priorities.
func (p Priority) String() string {
	switch p {
	case Highest:
		return "highest"
	case High:
		return "high"
	case Normal:
		return "normal"
	case Low:
		return "low"
	case Lowest:
		return "lowest"
	default:
		return fmt.Sprintf("%d", int(p))
	}
}

// Handler is the callable bound to a hook. For plain hooks the dispatcher
// collects its result; for filter hooks args[0] is the current value and the
// result becomes the value fed to the next handler. Handlers may block; the
// dispatcher always waits for completion before invoking the next one.
type Handler func(ctx context.Context, args ...any) (any, error)

var (
	// ErrEmptyHookName is returned when a registration names no hook.
	ErrEmptyHookName = errors.New("hook: empty hook name")
	// ErrNilHandler is returned when a registration carries no handler.
	ErrNilHandler = errors.New("hook: nil handler")
)

// Registration binds one handler to a hook name. Owner identifies the plugin
// the binding belongs to, for bulk removal on unload.
type Registration struct {
	ID       string
	Hook     string
	Owner    string
	Priority Priority
	Handler  Handler
}

// NewRegistration builds a registration with a fresh ID.
func NewRegistration(hookName, owner string, handler Handler, priority Priority) Registration {
	return Registration{
		ID:       uuid.NewString(),
		Hook:     hookName,
		Owner:    owner,
		Priority: priority,
		Handler:  handler,
	}
}

// Validate reports whether the registration can be accepted by a Registry.
func (r Registration) Validate() error {
	if r.Hook == "" {
		return ErrEmptyHookName
	}
	if r.Handler == nil {
		return fmt.Errorf("%w (hook %q)", ErrNilHandler, r.Hook)
	}
	return nil
}
