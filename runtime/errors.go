package runtime

import (
	"errors"
	"fmt"
)

var (
	// ErrPluginNotFound is returned for lifecycle operations on names the
	// catalog does not hold.
	ErrPluginNotFound = errors.New("runtime: plugin not found")
	// ErrInvalidState is returned when an operation's precondition state
	// does not hold.
	ErrInvalidState = errors.New("runtime: invalid state for operation")
)

// CallbackError reports a failure inside a plugin's own lifecycle code,
// as opposed to a framework failure. Op names the callback that failed:
// instantiate, on_load, on_enable, on_disable or on_unload.
type CallbackError struct {
	Op     string
	Plugin string
	Err    error
}

func (e *CallbackError) Error() string {
	return fmt.Sprintf("runtime: %s %q: %v", e.Op, e.Plugin, e.Err)
}

func (e *CallbackError) Unwrap() error { return e.Err }
