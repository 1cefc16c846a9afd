package typeexpr

import (
	"qs/internal/ids"
	"qs/internal/types"
)

// BindingKind distinguishes what a name in a scope refers to.
type BindingKind uint8

const (
	BindingInvalid BindingKind = iota
	BindingType                // a declared item
	BindingVar                 // a type parameter of an enclosing declaration
)

// Binding is one meaning of a name.
type Binding struct {
	Kind  BindingKind
	Item  ids.ItemID
	Index int
}

// Scope maps visible names to bindings. A name may carry several type
// bindings that differ in arity; the first scope that binds a name hides
// every outer binding of it.
type Scope struct {
	parent *Scope
	names  map[string][]Binding
}

func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, names: make(map[string][]Binding)}
}

func (s *Scope) Parent() *Scope { return s.parent }

// DeclareType binds name to a declared item.
func (s *Scope) DeclareType(name string, id ids.ItemID) {
	s.names[name] = append(s.names[name], Binding{Kind: BindingType, Item: id})
}

// DeclareVar binds name to the type parameter at index in the flattened
// parameter list of the enclosing declaration.
func (s *Scope) DeclareVar(name string, index int) {
	s.names[name] = append(s.names[name], Binding{Kind: BindingVar, Index: index})
}

// Lookup returns the description name<args> denotes. A nested item found by
// its short name takes the enclosing parameters as its outer arguments, so
// inside Outer<T> the name Inner<U> means Outer<T>.Inner<U>.
func (s *Scope) Lookup(name string, args []types.TypeValue) (types.TypeValue, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		bindings, ok := sc.names[name]
		if !ok {
			continue
		}
		for _, b := range bindings {
			switch b.Kind {
			case BindingVar:
				if len(args) == 0 {
					return types.Var{Index: b.Index}, true
				}
			case BindingType:
				if b.Item.Last().Arity != len(args) {
					continue
				}
				outer := b.Item.OuterArity()
				flat := make([]types.TypeValue, 0, outer+len(args))
				for i := range outer {
					flat = append(flat, types.Var{Index: i})
				}
				flat = append(flat, args...)
				return types.Normal{ID: b.Item, Args: flat}, true
			}
		}
		return nil, false
	}
	return nil, false
}
