// Package source locates plugin types. A Source turns a plugin name, and
// optionally an explicit path, into a loadable plugin.Type; implementations
// cache resolution per name until evicted. Go ships plugin code compiled in,
// so resolution is backed by an explicit factory registry rather than
// runtime scanning: built-in plugins register their types at init time, and
// directory manifests bind installed names onto registered entries.
package source

import (
	"errors"

	"github.com/blackroad/roadplugin/plugin"
)

var (
	// ErrNotFound means no source knows the requested name.
	ErrNotFound = errors.New("source: plugin not found")
	// ErrNoType means the resolved unit names an entry that is not
	// registered.
	ErrNoType = errors.New("source: no registered type")
	// ErrBadManifest means a manifest file exists but cannot be used.
	ErrBadManifest = errors.New("source: bad manifest")
)

// Source resolves plugin names to loadable types.
//
// Discover enumerates candidate names; the order is deterministic for
// identical input state. Resolve is treated as potentially expensive by
// callers and memoizes per name; Evict drops the memo so the next Resolve
// starts fresh.
type Source interface {
	Discover() []string
	Resolve(name, path string) (plugin.Type, error)
	Evict(name string)
}
