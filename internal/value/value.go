// Package value implements runtime values shared by the interpreter, native
// modules and the global variable repository.
//
// Values are mutable slots: the interpreter allocates one per local, global or
// result and populates it with Set. Primitive variants own their payload;
// an Object shares its heap payload with every Object that references it.
package value

import (
	"fmt"
	"strconv"
)

// Kind identifies the runtime variant of a Value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInt
	KindBool
	KindString
	KindVoid
	KindObject
)

// String returns a human-readable name for the value kind.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindVoid:
		return "void"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Value is a runtime value slot.
type Value interface {
	Kind() Kind
	// Clone returns a new slot holding the same value. Objects keep sharing
	// their payload.
	Clone() Value
	// Set overwrites the slot with src; src must have the same kind.
	Set(src Value) error
	String() string
}

// KindError reports a Set between different variants.
type KindError struct {
	Want Kind
	Got  Kind
}

func (e *KindError) Error() string {
	return fmt.Sprintf("value kind mismatch: want %s, got %s", e.Want, e.Got)
}

func kindOf(v Value) Kind {
	if v == nil {
		return KindInvalid
	}
	return v.Kind()
}

// Int holds a signed integer.
type Int struct{ V int64 }

// Bool holds a boolean.
type Bool struct{ V bool }

// String holds an immutable string payload; mutation replaces it whole.
type String struct{ V string }

// Void is the result slot of functions that return nothing.
type Void struct{}

// Object references a heap object. A nil Obj is the null reference.
type Object struct{ Obj HeapObject }

func (*Int) Kind() Kind    { return KindInt }
func (*Bool) Kind() Kind   { return KindBool }
func (*String) Kind() Kind { return KindString }
func (*Void) Kind() Kind   { return KindVoid }
func (*Object) Kind() Kind { return KindObject }

func (v *Int) Clone() Value    { return &Int{V: v.V} }
func (v *Bool) Clone() Value   { return &Bool{V: v.V} }
func (v *String) Clone() Value { return &String{V: v.V} }
func (*Void) Clone() Value     { return &Void{} }
func (v *Object) Clone() Value { return &Object{Obj: v.Obj} }

func (v *Int) Set(src Value) error {
	s, ok := src.(*Int)
	if !ok {
		return &KindError{Want: KindInt, Got: kindOf(src)}
	}
	v.V = s.V
	return nil
}

func (v *Bool) Set(src Value) error {
	s, ok := src.(*Bool)
	if !ok {
		return &KindError{Want: KindBool, Got: kindOf(src)}
	}
	v.V = s.V
	return nil
}

func (v *String) Set(src Value) error {
	s, ok := src.(*String)
	if !ok {
		return &KindError{Want: KindString, Got: kindOf(src)}
	}
	v.V = s.V
	return nil
}

func (*Void) Set(src Value) error {
	if _, ok := src.(*Void); !ok {
		return &KindError{Want: KindVoid, Got: kindOf(src)}
	}
	return nil
}

func (v *Object) Set(src Value) error {
	s, ok := src.(*Object)
	if !ok {
		return &KindError{Want: KindObject, Got: kindOf(src)}
	}
	v.Obj = s.Obj
	return nil
}

func (v *Int) String() string  { return strconv.FormatInt(v.V, 10) }
func (v *Bool) String() string { return strconv.FormatBool(v.V) }
func (v *String) String() string {
	return strconv.Quote(v.V)
}
func (*Void) String() string { return "void" }
func (v *Object) String() string {
	if v.Obj == nil {
		return "null"
	}
	return v.Obj.String()
}

// IsNull reports whether v is an Object holding the null reference.
func IsNull(v Value) bool {
	o, ok := v.(*Object)
	return ok && o.Obj == nil
}
