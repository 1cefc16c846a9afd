package types

import (
	"strings"

	"qs/internal/ids"
)

// ArgumentList keeps the arguments of the enclosing generic scope apart from
// the arguments of the item itself, so each side can be substituted alone.
type ArgumentList struct {
	Outer []TypeValue
	Local []TypeValue
}

// Len is the total number of arguments.
func (l ArgumentList) Len() int { return len(l.Outer) + len(l.Local) }

// Flatten returns Outer followed by Local in a fresh slice.
func (l ArgumentList) Flatten() []TypeValue {
	if l.Len() == 0 {
		return nil
	}
	out := make([]TypeValue, 0, l.Len())
	out = append(out, l.Outer...)
	return append(out, l.Local...)
}

// WithLocal replaces the local arguments, keeping Outer.
func (l ArgumentList) WithLocal(local ...TypeValue) ArgumentList {
	return ArgumentList{Outer: l.Outer, Local: local}
}

// At resolves a flat parameter index.
func (l ArgumentList) At(index int) (TypeValue, bool) {
	switch {
	case index < 0:
		return nil, false
	case index < len(l.Outer):
		return l.Outer[index], l.Outer[index] != nil
	case index-len(l.Outer) < len(l.Local):
		arg := l.Local[index-len(l.Outer)]
		return arg, arg != nil
	default:
		return nil, false
	}
}

func (l ArgumentList) String() string {
	var b strings.Builder
	b.WriteByte('[')
	writeList(&b, l.Outer)
	b.WriteString(" | ")
	writeList(&b, l.Local)
	b.WriteByte(']')
	return b.String()
}

func writeList(b *strings.Builder, args []TypeValue) {
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
}

// FuncValue identifies one, possibly partially instantiated, function.
type FuncValue struct {
	ID   ids.ItemID
	Args ArgumentList
}

// MakeFunc is shorthand for a FuncValue.
func MakeFunc(id ids.ItemID, outer, local []TypeValue) FuncValue {
	return FuncValue{ID: id, Args: ArgumentList{Outer: outer, Local: local}}
}

// OwnerType returns the type a member function is declared on. ok is false
// for functions declared directly in a namespace.
func (f FuncValue) OwnerType() (Normal, bool) {
	parent, ok := f.ID.Parent()
	if !ok {
		return Normal{}, false
	}
	return Normal{ID: parent, Args: f.Args.Outer}, true
}

func (f FuncValue) String() string {
	var b strings.Builder
	b.WriteString(f.ID.String())
	if f.Args.Len() > 0 {
		b.WriteString(f.Args.String())
	}
	return b.String()
}
