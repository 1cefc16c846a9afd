package types

import (
	"strconv"
	"strings"
)

// Key returns the canonical encoding of t. Two type values are structurally
// equal exactly when their keys are equal, which makes keys usable as cache
// keys regardless of where the values were constructed.
func Key(t TypeValue) string {
	var b strings.Builder
	writeKey(&b, t)
	return b.String()
}

// FuncKey is Key for function values. Outer and local arguments are kept
// apart in the encoding.
func FuncKey(f FuncValue) string {
	var b strings.Builder
	b.WriteString(f.ID.String())
	b.WriteByte('(')
	writeKeys(&b, f.Args.Outer)
	b.WriteByte('|')
	writeKeys(&b, f.Args.Local)
	b.WriteByte(')')
	return b.String()
}

// Equal reports structural equality.
func Equal(a, b TypeValue) bool {
	switch at := a.(type) {
	case Normal:
		bt, ok := b.(Normal)
		return ok && at.ID == bt.ID && equalList(at.Args, bt.Args)
	case Var:
		bt, ok := b.(Var)
		return ok && at.Index == bt.Index
	case Member:
		bt, ok := b.(Member)
		return ok && at.Name == bt.Name && Equal(at.Parent, bt.Parent) && equalList(at.Args, bt.Args)
	case nil:
		return b == nil
	default:
		return false
	}
}

// EqualArgs reports structural equality of two argument lists.
func EqualArgs(a, b ArgumentList) bool {
	return equalList(a.Outer, b.Outer) && equalList(a.Local, b.Local)
}

// FuncEqual reports structural equality of function values.
func FuncEqual(a, b FuncValue) bool {
	return a.ID == b.ID && EqualArgs(a.Args, b.Args)
}

func equalList(a, b []TypeValue) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func writeKey(b *strings.Builder, t TypeValue) {
	switch tt := t.(type) {
	case Normal:
		b.WriteString(tt.ID.String())
		b.WriteByte('<')
		writeKeys(b, tt.Args)
		b.WriteByte('>')
	case Var:
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(tt.Index))
	case Member:
		b.WriteByte('{')
		writeKey(b, tt.Parent)
		b.WriteString("}~")
		b.WriteString(tt.Name)
		b.WriteByte('<')
		writeKeys(b, tt.Args)
		b.WriteByte('>')
	default:
		b.WriteString("nil")
	}
}

func writeKeys(b *strings.Builder, args []TypeValue) {
	for i, arg := range args {
		if i > 0 {
			b.WriteByte(',')
		}
		writeKey(b, arg)
	}
}
