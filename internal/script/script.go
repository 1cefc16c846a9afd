// Package script adapts declarations produced by the analyzer into a
// module the domain can load. Bodies are opaque here; only their type
// information is instantiated.
package script

import (
	"context"
	"fmt"
	"sync"

	"qs/internal/fault"
	"qs/internal/ids"
	"qs/internal/module"
	"qs/internal/types"
)

var _ module.Module = (*Module)(nil)

// MemberDecl is one member of a declared type. Type refers to the
// declaration's parameters as types.Var indexes into the flattened
// parameter list, outer parameters first.
type MemberDecl struct {
	Name string
	Type types.TypeValue
}

// TypeDecl declares a type at Path below the module's namespace.
type TypeDecl struct {
	Path    []ids.Segment
	Members []MemberDecl
}

// FuncDecl declares a function at Path. A member function's path extends
// the path of its type.
type FuncDecl struct {
	Path          []ids.Segment
	IsThisCall    bool
	SeqElemType   types.TypeValue // nil unless the function is a sequence
	Body          any
	Captures      []module.Capture
	LocalVarCount int
}

// Module owns the declarations of one script namespace. Declarations may be
// added after the module is loaded; requests that failed before then
// succeed on retry.
type Module struct {
	ns string

	mu    sync.RWMutex
	types map[ids.ItemID]*TypeDecl
	funcs map[ids.ItemID]*FuncDecl
	order []ids.ItemID // type declaration order
}

// NewModule returns an empty module owning namespace.
func NewModule(namespace string) (*Module, error) {
	if _, err := ids.Make(namespace); err != nil {
		return nil, err
	}
	return &Module{
		ns:    namespace,
		types: make(map[ids.ItemID]*TypeDecl),
		funcs: make(map[ids.ItemID]*FuncDecl),
	}, nil
}

// Namespace implements module.Module.
func (m *Module) Namespace() string { return m.ns }

// DeclareType adds a type declaration and returns its id.
func (m *Module) DeclareType(d TypeDecl) (ids.ItemID, error) {
	id, err := ids.Make(m.ns, d.Path...)
	if err != nil {
		return ids.ItemID{}, err
	}
	if id.Len() == 0 {
		return ids.ItemID{}, fmt.Errorf("type declaration in %q has an empty path", m.ns)
	}
	seen := make(map[string]bool, len(d.Members))
	for _, mem := range d.Members {
		if seen[mem.Name] {
			return ids.ItemID{}, fmt.Errorf("%s declares member %q twice", id, mem.Name)
		}
		seen[mem.Name] = true
		if mem.Type == nil {
			return ids.ItemID{}, fmt.Errorf("%s: member %q has no type", id, mem.Name)
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.types[id]; dup {
		return ids.ItemID{}, fmt.Errorf("type %s is already declared", id)
	}
	m.types[id] = &d
	m.order = append(m.order, id)
	return id, nil
}

// DeclareFunc adds a function declaration and returns its id.
func (m *Module) DeclareFunc(d FuncDecl) (ids.ItemID, error) {
	id, err := ids.Make(m.ns, d.Path...)
	if err != nil {
		return ids.ItemID{}, err
	}
	if id.Len() == 0 {
		return ids.ItemID{}, fmt.Errorf("function declaration in %q has an empty path", m.ns)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.funcs[id]; dup {
		return ids.ItemID{}, fmt.Errorf("function %s is already declared", id)
	}
	m.funcs[id] = &d
	return id, nil
}

// OnLoad resolves every member type that mentions no type parameter, so
// references to types of other modules fail at load rather than at first
// use.
func (m *Module) OnLoad(ctx context.Context, r module.Resolver) error {
	m.mu.RLock()
	var pending []types.TypeValue
	var owners []ids.ItemID
	for _, id := range m.order {
		for _, mem := range m.types[id].Members {
			if types.IsConcrete(mem.Type) {
				pending = append(pending, mem.Type)
				owners = append(owners, id)
			}
		}
	}
	m.mu.RUnlock()

	for i, tv := range pending {
		if _, err := r.ResolveType(ctx, tv); err != nil {
			return fmt.Errorf("member of %s: %w", owners[i], err)
		}
	}
	return nil
}

func (m *Module) typeDecl(id ids.ItemID) (*TypeDecl, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if d, ok := m.types[id]; ok {
		return d, nil
	}
	for other := range m.types {
		if other.SameName(id) {
			return nil, fault.New(fault.ArityMismatch, "%s is declared as %s", id, other)
		}
	}
	return nil, fault.New(fault.UnknownType, "module %q declares no type %s", m.ns, id)
}

func (m *Module) funcDecl(id ids.ItemID) (*FuncDecl, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if d, ok := m.funcs[id]; ok {
		return d, nil
	}
	for other := range m.funcs {
		if other.SameName(id) {
			return nil, fault.New(fault.ArityMismatch, "%s is declared as %s", id, other)
		}
	}
	return nil, fault.New(fault.UnknownFunction, "module %q declares no function %s", m.ns, id)
}
