// Package types models abstract, unresolved descriptions of types and
// functions. Values here carry no reference to an owning module; the domain
// service maps them to modules and then to cached instances.
package types

import (
	"strconv"
	"strings"

	"qs/internal/ids"
)

// Kind enumerates TypeValue variants.
type Kind uint8

const (
	KindNormal Kind = iota + 1
	KindVar
	KindMember
)

func (k Kind) String() string {
	switch k {
	case KindNormal:
		return "normal"
	case KindVar:
		return "var"
	case KindMember:
		return "member"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// TypeValue is a structurally compared type description.
type TypeValue interface {
	Kind() Kind
	String() string
	typeValue()
}

// Normal names a declared type together with the flattened type arguments of
// every segment of ID, outer segments first.
type Normal struct {
	ID   ids.ItemID
	Args []TypeValue
}

// Var refers to a type parameter of the enclosing declaration by its flat
// index: outer parameters first, then the declaration's own.
type Var struct {
	Index int
}

// Member is an un-flattened member access such as Outer<T>.Inner<U>.
type Member struct {
	Parent TypeValue
	Name   string
	Args   []TypeValue
}

func (Normal) Kind() Kind { return KindNormal }
func (Var) Kind() Kind    { return KindVar }
func (Member) Kind() Kind { return KindMember }

func (Normal) typeValue() {}
func (Var) typeValue()    {}
func (Member) typeValue() {}

// MakeNormal is shorthand for Normal{ID: id, Args: args}.
func MakeNormal(id ids.ItemID, args ...TypeValue) Normal {
	return Normal{ID: id, Args: args}
}

// OuterArgs returns the arguments that belong to the segments above the
// innermost one.
func (n Normal) OuterArgs() []TypeValue {
	k := min(n.ID.OuterArity(), len(n.Args))
	return n.Args[:k:k]
}

// LocalArgs returns the arguments of the innermost segment.
func (n Normal) LocalArgs() []TypeValue {
	k := min(n.ID.OuterArity(), len(n.Args))
	return n.Args[k:]
}

// ArgList splits the flattened arguments into outer and local parts.
func (n Normal) ArgList() ArgumentList {
	return ArgumentList{Outer: n.OuterArgs(), Local: n.LocalArgs()}
}

func (n Normal) String() string {
	segs := n.ID.Segments()
	if len(segs) == 0 || len(n.Args) != n.ID.TotalArity() {
		// malformed arity: print flat so the mismatch stays visible
		var b strings.Builder
		b.WriteString(n.ID.String())
		writeArgs(&b, n.Args)
		return b.String()
	}
	var b strings.Builder
	b.WriteString(n.ID.Module())
	pos := 0
	for _, seg := range segs {
		b.WriteByte('.')
		b.WriteString(seg.Name)
		writeArgs(&b, n.Args[pos:pos+seg.Arity])
		pos += seg.Arity
	}
	return b.String()
}

func (v Var) String() string {
	return "$" + strconv.Itoa(v.Index)
}

func (m Member) String() string {
	var b strings.Builder
	if m.Parent != nil {
		b.WriteString(m.Parent.String())
	} else {
		b.WriteString("<nil>")
	}
	b.WriteByte('.')
	b.WriteString(m.Name)
	writeArgs(&b, m.Args)
	return b.String()
}

func writeArgs(b *strings.Builder, args []TypeValue) {
	if len(args) == 0 {
		return
	}
	b.WriteByte('<')
	for i, arg := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		if arg == nil {
			b.WriteString("<nil>")
			continue
		}
		b.WriteString(arg.String())
	}
	b.WriteByte('>')
}

// IsConcrete reports whether t contains no type variables.
func IsConcrete(t TypeValue) bool {
	switch tt := t.(type) {
	case Normal:
		return allConcrete(tt.Args)
	case Member:
		return IsConcrete(tt.Parent) && allConcrete(tt.Args)
	default:
		return false
	}
}

func allConcrete(args []TypeValue) bool {
	for _, arg := range args {
		if !IsConcrete(arg) {
			return false
		}
	}
	return true
}

// Flatten turns parent.name<args> into the Normal it denotes.
func Flatten(parent Normal, name string, args []TypeValue) (Normal, error) {
	id, err := parent.ID.MakeChild(name, len(args))
	if err != nil {
		return Normal{}, err
	}
	flat := make([]TypeValue, 0, len(parent.Args)+len(args))
	flat = append(flat, parent.Args...)
	flat = append(flat, args...)
	return Normal{ID: id, Args: flat}, nil
}
