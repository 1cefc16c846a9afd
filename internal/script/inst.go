package script

import (
	"context"

	"qs/internal/fault"
	"qs/internal/module"
	"qs/internal/types"
)

// Member is a member of an instantiated script type.
type Member struct {
	Name string
	Type types.TypeValue
}

// TypeInst is the instance of a script type. Member types are substituted
// with the instance's arguments but not resolved, which keeps
// self-referential declarations finite; ResolveMember resolves one on
// demand.
type TypeInst struct {
	Value   types.Normal
	Members []Member
}

// TypeValue implements module.TypeInst.
func (t *TypeInst) TypeValue() types.Normal { return t.Value }

// Member returns the substituted type of the named member.
func (t *TypeInst) Member(name string) (types.TypeValue, bool) {
	for _, mem := range t.Members {
		if mem.Name == name {
			return mem.Type, true
		}
	}
	return nil, false
}

// ResolveMember resolves the type of the named member through r.
func (t *TypeInst) ResolveMember(ctx context.Context, r module.Resolver, name string) (module.TypeInst, error) {
	tv, ok := t.Member(name)
	if !ok {
		return nil, fault.New(fault.UnresolvedMember, "%s has no member %q", t.Value, name)
	}
	return r.ResolveType(ctx, tv)
}

// GetTypeInst implements module.Module. Outer parameters of a nested
// declaration observe the arguments of the enclosing instance because both
// halves are substituted from the same flattened list.
func (m *Module) GetTypeInst(_ context.Context, _ module.Resolver, t types.Normal) (module.TypeInst, error) {
	decl, err := m.typeDecl(t.ID)
	if err != nil {
		return nil, err
	}
	args := t.ArgList()
	inst := &TypeInst{Value: t, Members: make([]Member, len(decl.Members))}
	for i, mem := range decl.Members {
		inst.Members[i] = Member{Name: mem.Name, Type: types.Subst(mem.Type, args)}
	}
	return inst, nil
}

// GetFuncInst implements module.Module.
func (m *Module) GetFuncInst(_ context.Context, _ module.Resolver, f types.FuncValue) (module.FuncInst, error) {
	decl, err := m.funcDecl(f.ID)
	if err != nil {
		return nil, err
	}
	inst := &module.ScriptFuncInst{
		Value:         f,
		IsThisCall:    decl.IsThisCall,
		Body:          decl.Body,
		LocalVarCount: decl.LocalVarCount,
	}
	if decl.SeqElemType != nil {
		inst.SeqElemType = types.Subst(decl.SeqElemType, f.Args)
	}
	if len(decl.Captures) > 0 {
		inst.Captures = make([]module.Capture, len(decl.Captures))
		for i, c := range decl.Captures {
			c.Type = types.Subst(c.Type, f.Args)
			inst.Captures[i] = c
		}
	}
	return inst, nil
}
