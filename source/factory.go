package source

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/blackroad/roadplugin/plugin"
)

// FactorySource resolves plugins straight from the factory registry. It is
// the source of choice when every plugin is compiled into the binary and no
// manifest metadata is needed.
type FactorySource struct {
	mu     sync.Mutex
	cache  map[string]plugin.Type
	logger *zap.Logger
}

var _ Source = (*FactorySource)(nil)

// NewFactorySource creates a source backed by the factory registry.
func NewFactorySource(logger *zap.Logger) *FactorySource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FactorySource{
		cache:  make(map[string]plugin.Type),
		logger: logger,
	}
}

// Discover lists every registered factory name.
func (s *FactorySource) Discover() []string {
	return RegisteredNames()
}

// Resolve returns the registered type for name. The path argument is ignored;
// factory plugins are compiled in. Resolutions are memoized so repeated loads
// of the same name see the same type even if the registry changes underneath.
func (s *FactorySource) Resolve(name, _ string) (plugin.Type, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.cache[name]; ok {
		return t, nil
	}

	t, ok := Lookup(name)
	if !ok {
		return plugin.Type{}, fmt.Errorf("source: resolve %q: %w", name, ErrNotFound)
	}

	s.cache[name] = t
	s.logger.Debug("plugin resolved from factory registry", zap.String("plugin", name))
	return t, nil
}

// Evict drops the memoized resolution for name.
func (s *FactorySource) Evict(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cache, name)
}
