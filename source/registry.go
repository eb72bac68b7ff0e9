package source

import (
	"fmt"
	"sort"
	"sync"

	"github.com/blackroad/roadplugin/plugin"
)

// The package-level factory registry. Built-in plugins register their types
// from init(), the way database/sql drivers do; sources bind names against
// it at resolve time.
var (
	regMu     sync.RWMutex
	factories = make(map[string]plugin.Type)
)

// Register adds a plugin type under its descriptor name. Registering an
// invalid type or a duplicate name fails.
func Register(t plugin.Type) error {
	if err := t.Valid(); err != nil {
		return err
	}

	regMu.Lock()
	defer regMu.Unlock()

	name := t.Descriptor.Name
	if _, exists := factories[name]; exists {
		return fmt.Errorf("source: factory %q already registered", name)
	}
	factories[name] = t
	return nil
}

// MustRegister is Register for init() use; it panics on failure.
func MustRegister(t plugin.Type) {
	if err := Register(t); err != nil {
		panic(err)
	}
}

// Lookup returns the registered type for a name.
func Lookup(name string) (plugin.Type, bool) {
	regMu.RLock()
	defer regMu.RUnlock()
	t, ok := factories[name]
	return t, ok
}

// RegisteredNames returns all registered factory names, sorted.
func RegisteredNames() []string {
	regMu.RLock()
	defer regMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reset clears the registry. Tests only.
func Reset() {
	regMu.Lock()
	defer regMu.Unlock()
	factories = make(map[string]plugin.Type)
}
