// Package plugin defines the contracts a loadable plugin satisfies: its
// descriptor, lifecycle state machine, per-instance context, and the catalog
// of live instances.
package plugin

import (
	"context"
)

// Instance is the minimal interface every live plugin must implement. The
// four callbacks are invoked by the manager, one per lifecycle transition;
// each may block and each may fail.
type Instance interface {
	Descriptor() Descriptor
	OnLoad(ctx context.Context) error
	OnEnable(ctx context.Context) error
	OnDisable(ctx context.Context) error
	OnUnload(ctx context.Context) error
}

// Factory constructs an instance around the context the manager built for it.
type Factory func(pctx *Context) (Instance, error)

// Type is a resolved, loadable plugin type: descriptor plus factory. Sources
// produce Types; the manager instantiates them.
type Type struct {
	Descriptor Descriptor
	New        Factory
}

// Valid reports whether the type can be loaded.
func (t Type) Valid() error {
	if err := t.Descriptor.Validate(); err != nil {
		return err
	}
	if t.New == nil {
		return ErrNilFactory
	}
	return nil
}

// Funcs is the optional callback subset for declaratively built plugins.
// Unset callbacks are no-ops. Each callback receives the plugin's own Context
// alongside the call context, so it can register hooks and read settings.
type Funcs struct {
	OnLoad    func(ctx context.Context, pctx *Context) error
	OnEnable  func(ctx context.Context, pctx *Context) error
	OnDisable func(ctx context.Context, pctx *Context) error
	OnUnload  func(ctx context.Context, pctx *Context) error
}

// NewType builds a plugin type from a descriptor and a callback subset,
// the declarative alternative to implementing Instance by hand. An empty
// version defaults to DefaultVersion.
func NewType(desc Descriptor, funcs Funcs) Type {
	if desc.Version == "" {
		desc.Version = DefaultVersion
	}
	return Type{
		Descriptor: desc,
		New: func(pctx *Context) (Instance, error) {
			return &funcsInstance{desc: desc, funcs: funcs, pctx: pctx}, nil
		},
	}
}

type funcsInstance struct {
	desc  Descriptor
	funcs Funcs
	pctx  *Context
}

func (p *funcsInstance) Descriptor() Descriptor { return p.desc }

func (p *funcsInstance) OnLoad(ctx context.Context) error {
	if p.funcs.OnLoad != nil {
		return p.funcs.OnLoad(ctx, p.pctx)
	}
	return nil
}

func (p *funcsInstance) OnEnable(ctx context.Context) error {
	if p.funcs.OnEnable != nil {
		return p.funcs.OnEnable(ctx, p.pctx)
	}
	return nil
}

func (p *funcsInstance) OnDisable(ctx context.Context) error {
	if p.funcs.OnDisable != nil {
		return p.funcs.OnDisable(ctx, p.pctx)
	}
	return nil
}

func (p *funcsInstance) OnUnload(ctx context.Context) error {
	if p.funcs.OnUnload != nil {
		return p.funcs.OnUnload(ctx, p.pctx)
	}
	return nil
}
