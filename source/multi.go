package source

import (
	"errors"

	"github.com/blackroad/roadplugin/plugin"
)

// Multi chains sources in priority order. Discovery is the union of every
// child's names in first-seen order; resolution asks each child in turn and
// moves on only when a child reports ErrNotFound.
type Multi struct {
	sources []Source
}

var _ Source = (*Multi)(nil)

// NewMulti composes the given sources. Earlier sources win.
func NewMulti(sources ...Source) *Multi {
	return &Multi{sources: sources}
}

// Discover returns the de-duplicated union of every child's discoveries.
func (m *Multi) Discover() []string {
	seen := make(map[string]bool)
	var names []string
	for _, src := range m.sources {
		for _, name := range src.Discover() {
			if seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// Resolve tries each child in order. Any error other than ErrNotFound stops
// the chain; a malformed manifest in an early source is surfaced, not
// shadowed by a later one.
func (m *Multi) Resolve(name, path string) (plugin.Type, error) {
	for _, src := range m.sources {
		t, err := src.Resolve(name, path)
		if err == nil {
			return t, nil
		}
		if errors.Is(err, ErrNotFound) {
			continue
		}
		return plugin.Type{}, err
	}
	return plugin.Type{}, ErrNotFound
}

// Evict forwards the eviction to every child.
func (m *Multi) Evict(name string) {
	for _, src := range m.sources {
		src.Evict(name)
	}
}
