package plugin

import "fmt"

// State represents the lifecycle state of a plugin instance. It is the
// single source of truth for which operations are currently valid.
type State int

const (
	StateDiscovered State = iota // Known to a source, not yet loaded
	StateLoaded                  // OnLoad succeeded, hooks registered
	StateEnabled                 // OnEnable succeeded, active
	StateDisabled                // OnDisable succeeded, inactive but loaded
	StateError                   // A transition callback failed
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateDiscovered:
		return "discovered"
	case StateLoaded:
		return "loaded"
	case StateEnabled:
		return "enabled"
	case StateDisabled:
		return "disabled"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseState converts a state name back to a State.
func ParseState(s string) (State, error) {
	switch s {
	case "discovered":
		return StateDiscovered, nil
	case "loaded":
		return StateLoaded, nil
	case "enabled":
		return StateEnabled, nil
	case "disabled":
		return StateDisabled, nil
	case "error":
		return StateError, nil
	default:
		return StateDiscovered, fmt.Errorf("plugin: unknown state %q", s)
	}
}

// IsActive reports whether the plugin is enabled and participating in the
// host's behavior.
func (s State) IsActive() bool {
	return s == StateEnabled
}

// CanEnable reports whether an enable transition may start from this state.
func (s State) CanEnable() bool {
	return s == StateLoaded || s == StateDisabled
}

// validTransitions encodes the lifecycle state machine. Error has no
// outgoing edges: the only way out is unload followed by a fresh load.
var validTransitions = map[State]map[State]bool{
	StateDiscovered: {StateLoaded: true},
	StateLoaded:     {StateEnabled: true, StateError: true},
	StateEnabled:    {StateDisabled: true},
	StateDisabled:   {StateEnabled: true, StateError: true},
	StateError:      {},
}

// ValidTransition reports whether moving from one state to another is legal.
func ValidTransition(from, to State) bool {
	return validTransitions[from][to]
}
