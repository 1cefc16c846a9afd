// Package domain implements the domain service: the only component that maps
// abstract type and function descriptions to the modules that own them and
// to the instances those modules materialize.
//
// Instances are cached for the lifetime of the Domain. For a given
// structural key at most one TypeInst and one FuncInst ever escape, so callers
// may compare instances by identity.
package domain

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"qs/internal/fault"
	"qs/internal/ids"
	"qs/internal/module"
	"qs/internal/trace"
	"qs/internal/types"
)

var _ module.Resolver = (*Domain)(nil)

// Domain owns the module registry and the instance caches.
type Domain struct {
	tracer trace.Tracer

	mu      sync.RWMutex
	modules map[string]module.Module
	order   []module.Module

	typeInsts *instCache[module.TypeInst]
	funcInsts *instCache[module.FuncInst]

	hits   atomic.Uint64
	misses atomic.Uint64
}

// Option configures a Domain.
type Option func(*Domain)

// WithTracer sets the tracer used when the context carries none.
func WithTracer(t trace.Tracer) Option {
	return func(d *Domain) {
		if t != nil {
			d.tracer = t
		}
	}
}

// New creates an empty domain.
func New(opts ...Option) *Domain {
	d := &Domain{
		tracer:    trace.Nop,
		modules:   make(map[string]module.Module),
		typeInsts: newInstCache[module.TypeInst](),
		funcInsts: newInstCache[module.FuncInst](),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Stats summarizes cache usage.
type Stats struct {
	Modules   int
	TypeInsts int
	FuncInsts int
	Hits      uint64
	Misses    uint64
}

// Stats returns a snapshot of cache counters.
func (d *Domain) Stats() Stats {
	d.mu.RLock()
	n := len(d.order)
	d.mu.RUnlock()
	return Stats{
		Modules:   n,
		TypeInsts: d.typeInsts.len(),
		FuncInsts: d.funcInsts.len(),
		Hits:      d.hits.Load(),
		Misses:    d.misses.Load(),
	}
}

// LoadModule registers m under its namespace and runs its load hook. The
// registration happens first so the hook can resolve the module's own items.
// If the hook fails, the registration and everything m materialized are
// withdrawn.
func (d *Domain) LoadModule(ctx context.Context, m module.Module) error {
	ns := m.Namespace()
	if _, err := ids.Make(ns); err != nil {
		return fault.Wrap(fault.ModuleLoad, err, "module namespace %q", ns)
	}

	d.mu.Lock()
	if existing, ok := d.modules[ns]; ok {
		d.mu.Unlock()
		if existing == m {
			return fault.New(fault.DuplicateModule, "module %q is already loaded", ns)
		}
		return fault.New(fault.DuplicateModule, "namespace %q is already owned by another module", ns)
	}
	d.modules[ns] = m
	d.order = append(d.order, m)
	d.mu.Unlock()

	t := d.tracerFor(ctx)
	span := trace.Begin(t, trace.ScopeModule, "load:"+ns, trace.CurrentSpan(ctx))
	err := m.OnLoad(trace.WithSpan(ctx, span), d)
	if err == nil {
		span.End("ok")
		return nil
	}

	d.mu.Lock()
	delete(d.modules, ns)
	d.order = slices.DeleteFunc(d.order, func(x module.Module) bool { return x == m })
	d.mu.Unlock()
	d.typeInsts.dropOwner(ns)
	d.funcInsts.dropOwner(ns)

	span.End("failed")
	trace.Error(t, trace.ScopeModule, "load:"+ns, err)
	return fault.Wrap(fault.ModuleLoad, err, "loading module %q", ns)
}

// LoadModules loads ms in order and stops at the first failure.
func (d *Domain) LoadModules(ctx context.Context, ms ...module.Module) error {
	for _, m := range ms {
		if err := d.LoadModule(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// Modules returns the loaded modules in load order.
func (d *Domain) Modules() []module.Module {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.order)
}

// Module returns the module owning the namespace segment.
func (d *Domain) Module(ns string) (module.Module, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	m, ok := d.modules[ns]
	return m, ok
}

// ResolvedTypes returns the descriptions of every cached type instance,
// ordered by structural key.
func (d *Domain) ResolvedTypes() []types.Normal {
	insts := d.typeInsts.sorted()
	out := make([]types.Normal, len(insts))
	for i, inst := range insts {
		out[i] = inst.TypeValue()
	}
	return out
}

// ResolvedFuncs is ResolvedTypes for function instances.
func (d *Domain) ResolvedFuncs() []types.FuncValue {
	insts := d.funcInsts.sorted()
	out := make([]types.FuncValue, len(insts))
	for i, inst := range insts {
		out[i] = inst.FuncValue()
	}
	return out
}

func (d *Domain) tracerFor(ctx context.Context) trace.Tracer {
	if t := trace.FromContext(ctx); t.Enabled() {
		return t
	}
	return d.tracer
}
