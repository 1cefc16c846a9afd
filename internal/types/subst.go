package types

// Subst replaces type variables in t with the arguments they index. Vars
// outside the range of args are left in place, which allows partial
// substitution. The result never shares argument slices with t, so neither
// side can observe later appends to the other.
func Subst(t TypeValue, args ArgumentList) TypeValue {
	switch tt := t.(type) {
	case Var:
		if repl, ok := args.At(tt.Index); ok {
			return repl
		}
		return tt
	case Normal:
		return SubstNormal(tt, args)
	case Member:
		return Member{Parent: Subst(tt.Parent, args), Name: tt.Name, Args: SubstList(tt.Args, args)}
	default:
		return t
	}
}

// SubstNormal is Subst for a Normal, preserving the static type.
func SubstNormal(n Normal, args ArgumentList) Normal {
	return Normal{ID: n.ID, Args: SubstList(n.Args, args)}
}

// SubstList substitutes every element into a fresh slice.
func SubstList(list []TypeValue, args ArgumentList) []TypeValue {
	if len(list) == 0 {
		return nil
	}
	out := make([]TypeValue, len(list))
	for i, item := range list {
		out[i] = Subst(item, args)
	}
	return out
}

// SubstArgs substitutes both halves of an argument list.
func SubstArgs(l ArgumentList, args ArgumentList) ArgumentList {
	return ArgumentList{Outer: SubstList(l.Outer, args), Local: SubstList(l.Local, args)}
}

// SubstFunc substitutes the arguments of a function value.
func SubstFunc(f FuncValue, args ArgumentList) FuncValue {
	return FuncValue{ID: f.ID, Args: SubstArgs(f.Args, args)}
}
