// Package ast holds the syntax nodes of type expressions as the parser
// produces them: identifiers with type arguments and member accesses on a
// parent expression.
package ast

import (
	"fmt"
	"strings"
)

type (
	TypeID    uint32
	PayloadID uint32
)

const NoTypeID TypeID = 0

func (id TypeID) IsValid() bool { return id != NoTypeID }

// Span is a byte range in the text a node was read from.
type Span struct {
	Start int // inclusive
	End   int // exclusive
}

func (s Span) String() string { return fmt.Sprintf("%d-%d", s.Start, s.End) }

type TypeExpKind uint8

const (
	TypeExpInvalid TypeExpKind = iota
	TypeExpId                  // Name<TypeArgs>
	TypeExpMember              // Parent.MemberName<TypeArgs>
)

// TypeExp is the common header of every type expression node.
type TypeExp struct {
	Kind    TypeExpKind
	Span    Span
	Payload PayloadID
}

type IdTypeExp struct {
	Name     string
	TypeArgs []TypeID
}

type MemberTypeExp struct {
	Parent     TypeID
	MemberName string
	TypeArgs   []TypeID
}

// TypeExps owns the type expression nodes of one unit of text.
type TypeExps struct {
	Arena   *Arena[TypeExp]
	Ids     *Arena[IdTypeExp]
	Members *Arena[MemberTypeExp]
}

func NewTypeExps(capHint uint) *TypeExps {
	return &TypeExps{
		Arena:   NewArena[TypeExp](capHint),
		Ids:     NewArena[IdTypeExp](capHint),
		Members: NewArena[MemberTypeExp](capHint / 2),
	}
}

func (t *TypeExps) new(kind TypeExpKind, span Span, payload PayloadID) TypeID {
	return TypeID(t.Arena.Allocate(TypeExp{Kind: kind, Span: span, Payload: payload}))
}

func (t *TypeExps) Get(id TypeID) *TypeExp {
	return t.Arena.Get(uint32(id))
}

// NewId creates an identifier node.
func (t *TypeExps) NewId(span Span, name string, args []TypeID) TypeID {
	payload := t.Ids.Allocate(IdTypeExp{Name: name, TypeArgs: args})
	return t.new(TypeExpId, span, PayloadID(payload))
}

// Id returns the identifier data for the given node.
func (t *TypeExps) Id(id TypeID) (*IdTypeExp, bool) {
	exp := t.Get(id)
	if exp == nil || exp.Kind != TypeExpId {
		return nil, false
	}
	return t.Ids.Get(uint32(exp.Payload)), true
}

// NewMember creates a member access node.
func (t *TypeExps) NewMember(span Span, parent TypeID, name string, args []TypeID) TypeID {
	payload := t.Members.Allocate(MemberTypeExp{Parent: parent, MemberName: name, TypeArgs: args})
	return t.new(TypeExpMember, span, PayloadID(payload))
}

// Member returns the member data for the given node.
func (t *TypeExps) Member(id TypeID) (*MemberTypeExp, bool) {
	exp := t.Get(id)
	if exp == nil || exp.Kind != TypeExpMember {
		return nil, false
	}
	return t.Members.Get(uint32(exp.Payload)), true
}

// Format renders the node back to text.
func (t *TypeExps) Format(id TypeID) string {
	var b strings.Builder
	t.format(&b, id)
	return b.String()
}

func (t *TypeExps) format(b *strings.Builder, id TypeID) {
	var args []TypeID
	switch {
	case t.isKind(id, TypeExpId):
		data, _ := t.Id(id)
		b.WriteString(data.Name)
		args = data.TypeArgs
	case t.isKind(id, TypeExpMember):
		data, _ := t.Member(id)
		t.format(b, data.Parent)
		b.WriteByte('.')
		b.WriteString(data.MemberName)
		args = data.TypeArgs
	default:
		b.WriteString("<invalid>")
		return
	}
	if len(args) == 0 {
		return
	}
	b.WriteByte('<')
	for i, arg := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		t.format(b, arg)
	}
	b.WriteByte('>')
}

func (t *TypeExps) isKind(id TypeID, kind TypeExpKind) bool {
	exp := t.Get(id)
	return exp != nil && exp.Kind == kind
}
