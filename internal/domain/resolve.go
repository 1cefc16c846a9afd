package domain

import (
	"context"

	"qs/internal/fault"
	"qs/internal/module"
	"qs/internal/trace"
	"qs/internal/types"
)

// GetTypeInst returns the single instance for t, materializing it through the
// owning module on first request. Failed materializations are not cached;
// a later identical request tries again.
func (d *Domain) GetTypeInst(ctx context.Context, t types.Normal) (module.TypeInst, error) {
	if !t.ID.IsValid() || t.ID.Len() == 0 {
		return nil, fault.New(fault.InvalidTypeValue, "type id %q does not name an item", t.ID)
	}
	ns := t.ID.Module()
	owner, ok := d.Module(ns)
	if !ok {
		return nil, fault.New(fault.UnknownType, "no module owns namespace %q (type %s)", ns, t)
	}
	if want := t.ID.TotalArity(); len(t.Args) != want {
		return nil, fault.New(fault.ArityMismatch, "%s expects %d type arguments, got %d", t.ID, want, len(t.Args))
	}
	args, err := d.canonicalArgs(ctx, t.Args)
	if err != nil {
		return nil, err
	}
	t = types.Normal{ID: t.ID, Args: args}

	key := types.Key(t)
	if inst, ok := d.typeInsts.get(key); ok {
		d.hits.Add(1)
		return inst, nil
	}
	d.misses.Add(1)

	tr := d.tracerFor(ctx)
	span := trace.Begin(tr, trace.ScopeResolve, "type:"+t.String(), trace.CurrentSpan(ctx))
	inst, err := owner.GetTypeInst(trace.WithSpan(ctx, span), d, t)
	if err == nil && inst == nil {
		err = fault.New(fault.InvalidTypeValue, "module %q returned no instance for %s", ns, t)
	}
	if err == nil && types.Key(inst.TypeValue()) != key {
		err = fault.New(fault.InvalidTypeValue, "module %q answered %s with an instance of %s", ns, t, inst.TypeValue())
	}
	if err != nil {
		span.End("failed")
		trace.Error(tr, trace.ScopeResolve, "type:"+t.String(), err)
		return nil, err
	}

	stored, inserted := d.typeInsts.putIfAbsent(key, ns, inst)
	if inserted {
		span.End("materialized")
	} else {
		span.End("raced")
	}
	return stored, nil
}

// ResolveType resolves any type description. Member chains are walked from
// the outermost parent: each parent is resolved first so its instantiated
// arguments become the outer arguments of the member.
func (d *Domain) ResolveType(ctx context.Context, t types.TypeValue) (module.TypeInst, error) {
	switch tt := t.(type) {
	case types.Normal:
		return d.GetTypeInst(ctx, tt)
	case types.Member:
		return d.resolveMember(ctx, tt)
	case types.Var:
		return nil, fault.New(fault.InvalidTypeValue, "type variable %s has not been substituted", tt)
	default:
		return nil, fault.New(fault.InvalidTypeValue, "cannot resolve %v", t)
	}
}

func (d *Domain) resolveMember(ctx context.Context, m types.Member) (module.TypeInst, error) {
	if m.Parent == nil {
		return nil, fault.New(fault.InvalidTypeValue, "member %q has no parent", m.Name)
	}
	parentInst, err := d.ResolveType(ctx, m.Parent)
	if err != nil {
		return nil, err
	}
	parent := parentInst.TypeValue()
	flat, err := types.Flatten(parent, m.Name, m.Args)
	if err != nil {
		return nil, fault.Wrap(fault.UnresolvedMember, err, "member %q of %s", m.Name, parent)
	}
	inst, err := d.GetTypeInst(ctx, flat)
	if fault.CodeOf(err) == fault.UnknownType {
		return nil, fault.Wrap(fault.UnresolvedMember, err, "%s has no member type %q with %d type arguments", parent, m.Name, len(m.Args))
	}
	return inst, err
}

// GetFuncInst returns the single instance for f. For member functions the
// owning type is resolved first and its canonical arguments replace f's
// outer arguments before the local ones are considered.
func (d *Domain) GetFuncInst(ctx context.Context, f types.FuncValue) (module.FuncInst, error) {
	if !f.ID.IsValid() || f.ID.Len() == 0 {
		return nil, fault.New(fault.UnknownFunction, "function id %q does not name an item", f.ID)
	}
	ns := f.ID.Module()
	owner, ok := d.Module(ns)
	if !ok {
		return nil, fault.New(fault.UnknownFunction, "no module owns namespace %q (function %s)", ns, f)
	}
	if want := f.ID.Last().Arity; len(f.Args.Local) != want {
		return nil, fault.New(fault.ArityMismatch, "%s expects %d type arguments, got %d", f.ID, want, len(f.Args.Local))
	}
	if want := f.ID.OuterArity(); len(f.Args.Outer) != want {
		return nil, fault.New(fault.ArityMismatch, "%s expects %d outer type arguments, got %d", f.ID, want, len(f.Args.Outer))
	}

	outer, err := d.canonicalArgs(ctx, f.Args.Outer)
	if err != nil {
		return nil, err
	}
	local, err := d.canonicalArgs(ctx, f.Args.Local)
	if err != nil {
		return nil, err
	}
	f = types.MakeFunc(f.ID, outer, local)

	if ownerType, ok := f.OwnerType(); ok {
		ownerInst, err := d.GetTypeInst(ctx, ownerType)
		if err != nil {
			if fault.CodeOf(err) == fault.UnknownType {
				return nil, fault.Wrap(fault.UnknownFunction, err, "owner of %s", f.ID)
			}
			return nil, err
		}
		f = types.MakeFunc(f.ID, ownerInst.TypeValue().Args, local)
	}

	key := types.FuncKey(f)
	if inst, ok := d.funcInsts.get(key); ok {
		d.hits.Add(1)
		return inst, nil
	}
	d.misses.Add(1)

	tr := d.tracerFor(ctx)
	span := trace.Begin(tr, trace.ScopeResolve, "func:"+f.String(), trace.CurrentSpan(ctx))
	inst, err := owner.GetFuncInst(trace.WithSpan(ctx, span), d, f)
	if err == nil && inst == nil {
		err = fault.New(fault.InvalidTypeValue, "module %q returned no instance for %s", ns, f)
	}
	if err == nil && types.FuncKey(inst.FuncValue()) != key {
		err = fault.New(fault.InvalidTypeValue, "module %q answered %s with an instance of %s", ns, f, inst.FuncValue())
	}
	if err != nil {
		span.End("failed")
		trace.Error(tr, trace.ScopeResolve, "func:"+f.String(), err)
		return nil, err
	}

	stored, inserted := d.funcInsts.putIfAbsent(key, ns, inst)
	if inserted {
		span.End("materialized")
	} else {
		span.End("raced")
	}
	return stored, nil
}

// canonicalArgs flattens member arguments so that every spelling of the same
// type produces the same cache key. Type variables are kept.
func (d *Domain) canonicalArgs(ctx context.Context, args []types.TypeValue) ([]types.TypeValue, error) {
	if len(args) == 0 {
		return nil, nil
	}
	out := make([]types.TypeValue, len(args))
	for i, arg := range args {
		c, err := d.canonical(ctx, arg)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

func (d *Domain) canonical(ctx context.Context, t types.TypeValue) (types.TypeValue, error) {
	switch tt := t.(type) {
	case types.Var:
		return tt, nil
	case types.Normal:
		args, err := d.canonicalArgs(ctx, tt.Args)
		if err != nil {
			return nil, err
		}
		return types.Normal{ID: tt.ID, Args: args}, nil
	case types.Member:
		inst, err := d.resolveMember(ctx, tt)
		if err != nil {
			return nil, err
		}
		return inst.TypeValue(), nil
	default:
		return nil, fault.New(fault.InvalidTypeValue, "type argument %v is not a type description", t)
	}
}
