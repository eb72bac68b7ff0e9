// Package runtime orchestrates the plugin lifecycle: resolving types
// through a source, driving the state machine via the plugin callbacks,
// harvesting hook registrations, and fanning lifecycle events out to
// subscribers.
package runtime

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/blackroad/roadplugin/hook"
	"github.com/blackroad/roadplugin/metrics"
	"github.com/blackroad/roadplugin/plugin"
	"github.com/blackroad/roadplugin/source"
)

// Manager drives the plugin lifecycle. One mutex serializes lifecycle
// operations; hook dispatch goes through the registry's own snapshot
// locking and never waits on a lifecycle operation.
type Manager struct {
	mu       sync.Mutex
	src      source.Source
	catalog  *plugin.Catalog
	registry *hook.Registry
	configs  map[string]map[string]any
	logger   *zap.Logger
	metrics  *metrics.Collector
	events   *Bus
}

// Option configures a Manager.
type Option func(*Manager)

// WithSource sets the plugin source. Defaults to the factory registry.
func WithSource(src source.Source) Option {
	return func(m *Manager) { m.src = src }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// WithMetrics sets the collector lifecycle counters land in.
func WithMetrics(c *metrics.Collector) Option {
	return func(m *Manager) { m.metrics = c }
}

// WithEvents attaches a bus for lifecycle events. Without one, no events
// are published.
func WithEvents(bus *Bus) Option {
	return func(m *Manager) { m.events = bus }
}

// NewManager creates a manager with its own catalog and hook registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		catalog: plugin.NewCatalog(),
		configs: make(map[string]map[string]any),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = zap.NewNop()
	}
	if m.src == nil {
		m.src = source.NewFactorySource(m.logger.Named("source"))
	}
	if m.metrics == nil {
		m.metrics = metrics.NewCollector()
	}
	m.registry = hook.NewRegistry(m.logger.Named("hooks"),
		hook.WithErrorCallback(m.metrics.RecordHandlerError))
	return m
}

// LoadOption adjusts a single load.
type LoadOption func(*loadOptions)

type loadOptions struct {
	path string
}

// WithPath points the source at an explicit location for this load. The
// path is remembered on the record so a reload resolves the same unit.
func WithPath(path string) LoadOption {
	return func(o *loadOptions) { o.path = path }
}

// Load resolves, instantiates, and catalogs a plugin. Loading a name that
// is already live is a no-op returning the existing record: no callbacks
// run and no hooks are re-registered. Any failure before the catalog
// insert leaves the catalog and hook registry untouched.
func (m *Manager) Load(ctx context.Context, name string, opts ...LoadOption) (*plugin.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load(ctx, name, opts...)
}

func (m *Manager) load(ctx context.Context, name string, opts ...LoadOption) (*plugin.Record, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	if rec, ok := m.catalog.Get(name); ok {
		m.logger.Debug("plugin already loaded", zap.String("plugin", name))
		return rec, nil
	}

	rec, err := m.loadFresh(ctx, name, o.path)
	if err != nil {
		m.metrics.RecordLoad(name, false)
		m.logger.Error("plugin load failed", zap.String("plugin", name), zap.Error(err))
		m.publish(ctx, Event{Name: TopicLoadFailed, Plugin: name, Err: err.Error()})
		return nil, err
	}

	m.metrics.RecordLoad(name, true)
	m.updateStateGauges()
	m.logger.Info("plugin loaded",
		zap.String("plugin", name),
		zap.String("version", rec.Descriptor().Version))
	m.publish(ctx, Event{Name: TopicLoaded, Plugin: name, State: rec.State()})
	return rec, nil
}

func (m *Manager) loadFresh(ctx context.Context, name, path string) (*plugin.Record, error) {
	typ, err := m.src.Resolve(name, path)
	if err != nil {
		return nil, fmt.Errorf("runtime: load %q: resolve: %w", name, err)
	}

	pctx := plugin.NewContext(name, m.configs[name])
	inst, err := typ.New(pctx)
	if err != nil {
		return nil, &CallbackError{Op: "instantiate", Plugin: name, Err: err}
	}
	if err := inst.OnLoad(ctx); err != nil {
		return nil, &CallbackError{Op: "on_load", Plugin: name, Err: err}
	}

	// Harvest the registrations the instance buffered during OnLoad.
	harvested := pctx.Hooks()
	for _, reg := range harvested {
		if err := m.registry.Register(reg); err != nil {
			m.registry.Unregister(name)
			return nil, fmt.Errorf("runtime: load %q: register hook %q: %w", name, reg.Hook, err)
		}
	}
	pctx.ClearHooks()

	rec := plugin.NewRecord(typ, inst, pctx, path)
	rec.SetState(plugin.StateLoaded)
	if err := m.catalog.Register(rec); err != nil {
		m.registry.Unregister(name)
		return nil, fmt.Errorf("runtime: load %q: %w", name, err)
	}

	if len(harvested) > 0 {
		m.logger.Debug("hooks registered",
			zap.String("plugin", name),
			zap.Int("count", len(harvested)))
	}
	return rec, nil
}

// LoadAll discovers every known name and loads each one. Individual
// failures are logged and swallowed; the return value counts successes.
func (m *Manager) LoadAll(ctx context.Context) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, name := range m.src.Discover() {
		if _, err := m.load(ctx, name); err != nil {
			continue
		}
		count++
	}
	return count
}

// Enable transitions a loaded or disabled plugin to enabled. Enabling an
// enabled plugin is a no-op success; the callback does not run again. An
// OnEnable failure parks the plugin in the error state.
func (m *Manager) Enable(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enable(ctx, name)
}

func (m *Manager) enable(ctx context.Context, name string) error {
	rec, ok := m.catalog.Get(name)
	if !ok {
		return fmt.Errorf("runtime: enable %q: %w", name, ErrPluginNotFound)
	}

	switch rec.State() {
	case plugin.StateEnabled:
		return nil
	case plugin.StateLoaded, plugin.StateDisabled:
	default:
		return fmt.Errorf("runtime: enable %q from %s: %w", name, rec.State(), ErrInvalidState)
	}

	if err := rec.Instance.OnEnable(ctx); err != nil {
		rec.SetState(plugin.StateError)
		m.updateStateGauges()
		m.logger.Error("plugin enable failed", zap.String("plugin", name), zap.Error(err))
		m.publish(ctx, Event{Name: TopicError, Plugin: name, State: plugin.StateError, Err: err.Error()})
		return &CallbackError{Op: "on_enable", Plugin: name, Err: err}
	}

	rec.SetState(plugin.StateEnabled)
	m.metrics.RecordTransition("enable", name)
	m.updateStateGauges()
	m.logger.Info("plugin enabled", zap.String("plugin", name))
	m.publish(ctx, Event{Name: TopicEnabled, Plugin: name, State: plugin.StateEnabled})
	return nil
}

// Disable transitions an enabled plugin to disabled. Disabling a disabled
// plugin is a no-op success. An OnDisable failure leaves the state
// unchanged, so the operation can be retried.
func (m *Manager) Disable(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.disable(ctx, name)
}

func (m *Manager) disable(ctx context.Context, name string) error {
	rec, ok := m.catalog.Get(name)
	if !ok {
		return fmt.Errorf("runtime: disable %q: %w", name, ErrPluginNotFound)
	}

	switch rec.State() {
	case plugin.StateDisabled:
		return nil
	case plugin.StateEnabled:
	default:
		return fmt.Errorf("runtime: disable %q from %s: %w", name, rec.State(), ErrInvalidState)
	}

	if err := rec.Instance.OnDisable(ctx); err != nil {
		m.logger.Error("plugin disable failed", zap.String("plugin", name), zap.Error(err))
		m.publish(ctx, Event{Name: TopicError, Plugin: name, State: rec.State(), Err: err.Error()})
		return &CallbackError{Op: "on_disable", Plugin: name, Err: err}
	}

	rec.SetState(plugin.StateDisabled)
	m.metrics.RecordTransition("disable", name)
	m.updateStateGauges()
	m.logger.Info("plugin disabled", zap.String("plugin", name))
	m.publish(ctx, Event{Name: TopicDisabled, Plugin: name, State: plugin.StateDisabled})
	return nil
}

// Unload removes a plugin: implicit disable if enabled, OnUnload, hook
// unregistration, catalog removal, source eviction. An OnUnload failure
// leaves everything in place; a failing implicit disable is logged and
// unload proceeds.
func (m *Manager) Unload(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unload(ctx, name)
}

func (m *Manager) unload(ctx context.Context, name string) error {
	rec, ok := m.catalog.Get(name)
	if !ok {
		return fmt.Errorf("runtime: unload %q: %w", name, ErrPluginNotFound)
	}

	if rec.State() == plugin.StateEnabled {
		if err := m.disable(ctx, name); err != nil {
			m.logger.Warn("disable before unload failed",
				zap.String("plugin", name), zap.Error(err))
		}
	}

	if err := rec.Instance.OnUnload(ctx); err != nil {
		m.logger.Error("plugin unload failed", zap.String("plugin", name), zap.Error(err))
		m.publish(ctx, Event{Name: TopicError, Plugin: name, State: rec.State(), Err: err.Error()})
		return &CallbackError{Op: "on_unload", Plugin: name, Err: err}
	}

	removed := m.registry.Unregister(name)
	m.catalog.Unregister(name)
	m.src.Evict(name)
	m.metrics.RecordTransition("unload", name)
	m.updateStateGauges()
	m.logger.Info("plugin unloaded",
		zap.String("plugin", name),
		zap.Int("hooks_removed", removed))
	m.publish(ctx, Event{Name: TopicUnloaded, Plugin: name})
	return nil
}

// Reload unloads a live plugin and loads it again, reusing the explicit
// path the original load recorded. A name that is not loaded is simply
// loaded.
func (m *Manager) Reload(ctx context.Context, name string) (*plugin.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	path := ""
	if rec, ok := m.catalog.Get(name); ok {
		path = rec.Path
		if err := m.unload(ctx, name); err != nil {
			return nil, err
		}
	}

	rec, err := m.load(ctx, name, WithPath(path))
	if err != nil {
		return nil, err
	}
	m.metrics.RecordTransition("reload", name)
	return rec, nil
}

// SetConfig stores settings handed to the plugin's context on its next
// load. A live instance never sees the change.
func (m *Manager) SetConfig(name string, config map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := make(map[string]any, len(config))
	for k, v := range config {
		cp[k] = v
	}
	m.configs[name] = cp
}

// Execute dispatches a hook through the manager's own registry.
func (m *Manager) Execute(ctx context.Context, name string, args ...any) []any {
	results := m.registry.Execute(ctx, name, args...)
	m.metrics.RecordExecution(name, len(results))
	return results
}

// ExecuteFilter threads value through the hook's filter chain.
func (m *Manager) ExecuteFilter(ctx context.Context, name string, value any, args ...any) any {
	out := m.registry.ExecuteFilter(ctx, name, value, args...)
	m.metrics.RecordFilter(name)
	return out
}

// Hooks returns per-hook registration counts.
func (m *Manager) Hooks() map[string]int {
	return m.registry.List()
}

// HookCount returns the handler count for one hook name.
func (m *Manager) HookCount(name string) int {
	return m.registry.Count(name)
}

// OwnerHookCount returns how many registrations a plugin holds.
func (m *Manager) OwnerHookCount(owner string) int {
	return m.registry.CountOwner(owner)
}

// Get returns the live record for a name.
func (m *Manager) Get(name string) (*plugin.Record, bool) {
	return m.catalog.Get(name)
}

// List returns live records in load order.
func (m *Manager) List() []*plugin.Record {
	return m.catalog.List()
}

// ListByState returns live records currently in the given state.
func (m *Manager) ListByState(state plugin.State) []*plugin.Record {
	return m.catalog.ListByState(state)
}

// Count returns the number of live plugins.
func (m *Manager) Count() int {
	return m.catalog.Len()
}

// Discover enumerates the names the source knows about.
func (m *Manager) Discover() []string {
	return m.src.Discover()
}

// Resolve returns the loadable type for a name without loading it. The
// source memoizes the resolution, so a later load reuses it.
func (m *Manager) Resolve(name string) (plugin.Type, error) {
	return m.src.Resolve(name, "")
}

// Events returns the attached bus, nil when none was configured.
func (m *Manager) Events() *Bus {
	return m.events
}

// Metrics returns the manager's collector.
func (m *Manager) Metrics() *metrics.Collector {
	return m.metrics
}

// Status is the aggregate view served by the status command and API.
type Status struct {
	Plugins       int              `json:"plugins"`
	States        map[string]int   `json:"states"`
	Hooks         map[string]int   `json:"hooks"`
	Handlers      int              `json:"handlers"`
	EventsDropped uint64           `json:"events_dropped,omitempty"`
	Metrics       metrics.Snapshot `json:"metrics"`
}

// Status reports plugin counts per state, hook registration totals, and a
// metrics snapshot.
func (m *Manager) Status() Status {
	states := make(map[string]int)
	for _, rec := range m.catalog.List() {
		states[rec.State().String()]++
	}

	hooks := m.registry.List()
	handlers := 0
	for _, n := range hooks {
		handlers += n
	}

	s := Status{
		Plugins:  m.catalog.Len(),
		States:   states,
		Hooks:    hooks,
		Handlers: handlers,
		Metrics:  m.metrics.TakeSnapshot(),
	}
	if m.events != nil {
		s.EventsDropped = m.events.Dropped()
	}
	return s
}

func (m *Manager) publish(ctx context.Context, event Event) {
	if m.events == nil {
		return
	}
	_ = m.events.Publish(ctx, event)
}

func (m *Manager) updateStateGauges() {
	counts := make(map[plugin.State]int)
	for _, rec := range m.catalog.List() {
		counts[rec.State()]++
	}
	for _, st := range []plugin.State{
		plugin.StateDiscovered,
		plugin.StateLoaded,
		plugin.StateEnabled,
		plugin.StateDisabled,
		plugin.StateError,
	} {
		m.metrics.SetStateGauge(st.String(), counts[st])
	}
}
