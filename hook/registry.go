package hook

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Registry stores per-hook ordered handler lists and dispatches them.
//
// Handler lists are kept sorted ascending by priority; ties preserve
// registration order. Dispatch snapshots the list under the read lock and
// invokes handlers outside it, so registration and removal never observe a
// torn list and a slow handler does not block mutation.
type Registry struct {
	mu      sync.RWMutex
	hooks   map[string][]Registration
	logger  *zap.Logger
	onError func(hook, owner string)
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithErrorCallback installs a callback invoked once per isolated handler
// failure, after the failure is logged. The dispatch result is unaffected.
func WithErrorCallback(fn func(hook, owner string)) RegistryOption {
	return func(r *Registry) { r.onError = fn }
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *zap.Logger, opts ...RegistryOption) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{
		hooks:  make(map[string][]Registration),
		logger: logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register inserts a registration into the ordered list for its hook.
// A plugin may register multiple handlers for the same hook.
func (r *Registry) Register(reg Registration) error {
	if err := reg.Validate(); err != nil {
		return err
	}
	if reg.ID == "" {
		reg.ID = uuid.NewString()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	list := append(r.hooks[reg.Hook], reg)
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Priority < list[j].Priority
	})
	r.hooks[reg.Hook] = list

	r.logger.Debug("hook registered",
		zap.String("hook", reg.Hook),
		zap.String("owner", reg.Owner),
		zap.String("priority", reg.Priority.String()),
	)
	return nil
}

// Unregister removes every registration owned by the given plugin across all
// hooks and returns the number removed. Removal is atomic with respect to
// dispatch: an execution in progress sees either all of the owner's handlers
// or none of them.
func (r *Registry) Unregister(owner string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for name, list := range r.hooks {
		kept := list[:0:0]
		for _, reg := range list {
			if reg.Owner == owner {
				count++
				continue
			}
			kept = append(kept, reg)
		}
		r.hooks[name] = kept
	}

	if count > 0 {
		r.logger.Debug("hooks unregistered",
			zap.String("owner", owner),
			zap.Int("count", count),
		)
	}
	return count
}

// Execute invokes every handler registered for the hook in priority order and
// returns one result per handler, in invocation order. A failing handler is
// logged and contributes a nil result; it never aborts the remaining handlers
// or surfaces to the caller. A hook with no registrations yields an empty
// slice.
func (r *Registry) Execute(ctx context.Context, name string, args ...any) []any {
	handlers := r.snapshot(name)
	results := make([]any, 0, len(handlers))

	for _, reg := range handlers {
		result, err := safeCall(ctx, reg.Handler, args...)
		if err != nil {
			r.logger.Error("hook handler failed",
				zap.String("hook", name),
				zap.String("owner", reg.Owner),
				zap.Error(err),
			)
			r.reportError(name, reg.Owner)
			results = append(results, nil)
			continue
		}
		results = append(results, result)
	}
	return results
}

// ExecuteFilter threads a value through every handler registered for the hook
// in priority order: each handler receives the current value (plus args) and
// its result becomes the next value. A failing handler is logged and leaves
// the value unchanged for the next handler. With no registrations the value
// is returned as-is.
func (r *Registry) ExecuteFilter(ctx context.Context, name string, value any, args ...any) any {
	for _, reg := range r.snapshot(name) {
		result, err := safeCall(ctx, reg.Handler, append([]any{value}, args...)...)
		if err != nil {
			r.logger.Error("filter hook handler failed",
				zap.String("hook", name),
				zap.String("owner", reg.Owner),
				zap.Error(err),
			)
			r.reportError(name, reg.Owner)
			continue
		}
		value = result
	}
	return value
}

// List returns a snapshot of registration counts per hook name. Hook names
// whose handlers have all been unregistered remain present with count zero.
func (r *Registry) List() map[string]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[string]int, len(r.hooks))
	for name, list := range r.hooks {
		counts[name] = len(list)
	}
	return counts
}

// Count returns the number of handlers registered for one hook.
func (r *Registry) Count(name string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.hooks[name])
}

// CountOwner returns the number of registrations held by one owner across all
// hooks.
func (r *Registry) CountOwner(owner string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, list := range r.hooks {
		for _, reg := range list {
			if reg.Owner == owner {
				count++
			}
		}
	}
	return count
}

// Registrations returns a copy of the ordered handler list for one hook.
func (r *Registry) Registrations(name string) []Registration {
	return r.snapshot(name)
}

func (r *Registry) reportError(name, owner string) {
	if r.onError != nil {
		r.onError(name, owner)
	}
}

func (r *Registry) snapshot(name string) []Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Registration(nil), r.hooks[name]...)
}

// safeCall invokes a handler, converting a panic into an error so one broken
// handler cannot take down the dispatch loop.
func safeCall(ctx context.Context, h Handler, args ...any) (result any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("handler panic: %v", rec)
		}
	}()
	return h(ctx, args...)
}
