// Package native implements the host runtime module: the primitive types,
// the generic List<T> and the value primitives the interpreter boxes and
// unboxes values with.
package native

import (
	"context"

	"qs/internal/fault"
	"qs/internal/ids"
	"qs/internal/module"
	"qs/internal/trace"
	"qs/internal/types"
)

var _ module.RuntimeModule = (*Module)(nil)

// Repr is the runtime representation of a native type.
type Repr uint8

const (
	ReprInvalid Repr = iota
	ReprInt
	ReprBool
	ReprString
	ReprVoid
	ReprList
)

func (r Repr) String() string {
	switch r {
	case ReprInt:
		return "int"
	case ReprBool:
		return "bool"
	case ReprString:
		return "string"
	case ReprVoid:
		return "void"
	case ReprList:
		return "list"
	default:
		return "invalid"
	}
}

// TypeInst is the instance of a native type.
type TypeInst struct {
	Value types.Normal
	Repr  Repr
	// Elem is the element instance of a List. It is nil while the element
	// type still mentions type variables.
	Elem module.TypeInst
}

// TypeValue implements module.TypeInst.
func (t *TypeInst) TypeValue() types.Normal { return t.Value }

// Module is the native runtime module. It holds no mutable state after
// construction and is safe for concurrent use.
type Module struct {
	ns    string
	ids   IDs
	reprs map[ids.ItemID]Repr
	funcs map[ids.ItemID]funcEntry
}

type funcEntry struct {
	params int
	body   func(m *Module, f types.FuncValue) module.NativeFunc
}

// New returns a runtime module owning namespace.
func New(namespace string) (*Module, error) {
	x, err := NewIDs(namespace)
	if err != nil {
		return nil, err
	}
	m := &Module{
		ns:  namespace,
		ids: x,
		reprs: map[ids.ItemID]Repr{
			x.Int:    ReprInt,
			x.Bool:   ReprBool,
			x.String: ReprString,
			x.Void:   ReprVoid,
			x.List:   ReprList,
		},
		funcs: map[ids.ItemID]funcEntry{
			x.ListAdd:   {params: 1, body: (*Module).listAdd},
			x.ListCount: {params: 0, body: (*Module).listCount},
			x.ListGet:   {params: 1, body: (*Module).listGet},
			x.ListClear: {params: 0, body: (*Module).listClear},
		},
	}
	return m, nil
}

// Namespace implements module.Module.
func (m *Module) Namespace() string { return m.ns }

// IDs returns the module's well-known ids.
func (m *Module) IDs() IDs { return m.ids }

// OnLoad resolves the primitive types so they are cached before any script
// asks for them.
func (m *Module) OnLoad(ctx context.Context, r module.Resolver) error {
	for _, id := range []ids.ItemID{m.ids.Int, m.ids.Bool, m.ids.String, m.ids.Void} {
		if _, err := r.GetTypeInst(ctx, types.MakeNormal(id)); err != nil {
			return err
		}
	}
	return nil
}

// GetTypeInst implements module.Module.
func (m *Module) GetTypeInst(ctx context.Context, r module.Resolver, t types.Normal) (module.TypeInst, error) {
	repr, ok := m.reprs[t.ID]
	if !ok {
		for id := range m.reprs {
			if id.SameName(t.ID) {
				return nil, fault.New(fault.ArityMismatch, "%s is declared as %s", t.ID, id)
			}
		}
		return nil, fault.New(fault.UnknownType, "module %q declares no type %s", m.ns, t.ID)
	}
	inst := &TypeInst{Value: t, Repr: repr}
	if repr != ReprList {
		return inst, nil
	}
	elemType := t.Args[0]
	if !types.IsConcrete(elemType) {
		return inst, nil
	}
	elem, err := r.ResolveType(ctx, elemType)
	if err != nil {
		return nil, err
	}
	inst.Elem = elem
	trace.Point(trace.FromContext(ctx), trace.ScopeModule, "native:list", t.String())
	return inst, nil
}

// GetFuncInst implements module.Module.
func (m *Module) GetFuncInst(ctx context.Context, r module.Resolver, f types.FuncValue) (module.FuncInst, error) {
	entry, ok := m.funcs[f.ID]
	if !ok {
		for id := range m.funcs {
			if id.SameName(f.ID) {
				return nil, fault.New(fault.ArityMismatch, "%s is declared as %s", f.ID, id)
			}
		}
		return nil, fault.New(fault.UnknownFunction, "module %q declares no function %s", m.ns, f.ID)
	}
	return &module.NativeFuncInst{
		Value:      f,
		IsThisCall: true,
		ParamCount: entry.params,
		Call:       entry.body(m, f),
	}, nil
}

// elemKind is the representation of elemType, or ReprInvalid when it is not
// a native type.
func (m *Module) elemKind(elemType types.TypeValue) Repr {
	n, ok := elemType.(types.Normal)
	if !ok {
		return ReprInvalid
	}
	return m.reprs[n.ID]
}
