package value

import (
	"strings"

	"qs/internal/types"
)

// HeapObject is the payload of an Object.
type HeapObject interface {
	// Type is the description of the object's type.
	Type() types.TypeValue
	String() string
}

// List is the heap payload of List<T>.
type List struct {
	ElemType types.TypeValue
	Elems    []Value

	listType types.Normal
}

// NewList returns an empty list whose Type is listType.
func NewList(listType types.Normal, elemType types.TypeValue) *List {
	return &List{ElemType: elemType, listType: listType}
}

// Type implements HeapObject.
func (l *List) Type() types.TypeValue { return l.listType }

func (l *List) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, e := range l.Elems {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.String())
	}
	b.WriteByte(']')
	return b.String()
}

// AsList returns the list behind an Object value.
func AsList(v Value) (*List, bool) {
	o, ok := v.(*Object)
	if !ok || o.Obj == nil {
		return nil, false
	}
	l, ok := o.Obj.(*List)
	return l, ok
}
