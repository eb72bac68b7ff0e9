package plugin

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

var (
	// ErrAlreadyRegistered is returned when a name is already live in the
	// catalog.
	ErrAlreadyRegistered = errors.New("plugin: already registered")
	// ErrEmptyName is returned for records without a descriptor name.
	ErrEmptyName = errors.New("plugin: empty name")
)

// Record is one live catalog entry: the resolved type, its instance, the
// context built for it, and the current lifecycle state. Path remembers the
// explicit location the plugin was loaded from, so reload can resolve the
// same unit again.
type Record struct {
	Type     Type
	Instance Instance
	Context  *Context
	Path     string
	LoadedAt time.Time

	mu    sync.RWMutex
	state State
}

// NewRecord builds a record in the discovered state.
func NewRecord(t Type, inst Instance, pctx *Context, path string) *Record {
	return &Record{
		Type:     t,
		Instance: inst,
		Context:  pctx,
		Path:     path,
		LoadedAt: time.Now(),
		state:    StateDiscovered,
	}
}

// Name returns the descriptor name, the record's identity.
func (r *Record) Name() string { return r.Type.Descriptor.Name }

// Descriptor returns the resolved type's descriptor.
func (r *Record) Descriptor() Descriptor { return r.Type.Descriptor }

// State returns the current lifecycle state.
func (r *Record) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// SetState moves the record to the given state unconditionally. Transition
// legality is the manager's concern; the record only stores the result.
func (r *Record) SetState(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = s
}

// Catalog is the thread-safe registry of live plugin instances, keyed by
// name. A name maps to at most one record at any time.
type Catalog struct {
	mu      sync.RWMutex
	records map[string]*Record
	order   []string
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		records: make(map[string]*Record),
	}
}

// Register inserts a record. Registering a name that is already live fails.
func (c *Catalog) Register(rec *Record) error {
	name := rec.Name()
	if name == "" {
		return ErrEmptyName
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.records[name]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, name)
	}
	c.records[name] = rec
	c.order = append(c.order, name)
	return nil
}

// Unregister removes and returns the record for a name, or nil if absent.
func (c *Catalog) Unregister(name string) *Record {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, exists := c.records[name]
	if !exists {
		return nil
	}
	delete(c.records, name)
	for i, n := range c.order {
		if n == name {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return rec
}

// Get looks up a record by name.
func (c *Catalog) Get(name string) (*Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, ok := c.records[name]
	return rec, ok
}

// List returns all records in registration order.
func (c *Catalog) List() []*Record {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*Record, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.records[name])
	}
	return out
}

// ListByState returns the records currently in the given state, in
// registration order.
func (c *Catalog) ListByState(s State) []*Record {
	out := make([]*Record, 0)
	for _, rec := range c.List() {
		if rec.State() == s {
			out = append(out, rec)
		}
	}
	return out
}

// Names returns the registered names, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := append([]string(nil), c.order...)
	sort.Strings(names)
	return names
}

// Len returns the number of live records.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}
