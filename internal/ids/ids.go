// Package ids defines qualified module item identifiers.
//
// An ItemID names a type, function or variable inside the namespace of the
// module that owns it. Every path segment carries its own type-parameter
// count, so `List/0` and `List/1` are different items.
package ids

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"golang.org/x/text/unicode/norm"
)

// Segment is one element of an item path.
type Segment struct {
	Name  string
	Arity int
}

func (s Segment) String() string {
	return s.Name + "/" + strconv.Itoa(s.Arity)
}

// ItemID is an immutable, comparable identifier. The zero value is invalid.
//
// The path is kept in its encoded form so ItemID can be used as a map key and
// compared with ==.
type ItemID struct {
	module string
	path   string // "List/1.Add/0", empty for the namespace root
}

// ErrInvalidID reports a malformed identifier.
var ErrInvalidID = errors.New("invalid item id")

// Make builds an ItemID, validating and normalizing every name.
func Make(module string, segs ...Segment) (ItemID, error) {
	ns, err := checkName(module)
	if err != nil {
		return ItemID{}, fmt.Errorf("%w: module %q: %w", ErrInvalidID, module, err)
	}
	var b strings.Builder
	for i, seg := range segs {
		name, err := checkName(seg.Name)
		if err != nil {
			return ItemID{}, fmt.Errorf("%w: segment %d %q: %w", ErrInvalidID, i, seg.Name, err)
		}
		if _, err := safecast.Conv[uint16](seg.Arity); err != nil {
			return ItemID{}, fmt.Errorf("%w: segment %q arity %d: %w", ErrInvalidID, name, seg.Arity, err)
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(name)
		b.WriteByte('/')
		b.WriteString(strconv.Itoa(seg.Arity))
	}
	return ItemID{module: ns, path: b.String()}, nil
}

// New is Make for host constants; it panics on invalid input.
func New(module string, segs ...Segment) ItemID {
	id, err := Make(module, segs...)
	if err != nil {
		panic(err)
	}
	return id
}

// Parse reads the form produced by String, e.g. "System.List/1.Add/0".
func Parse(s string) (ItemID, error) {
	parts := strings.Split(s, ".")
	segs := make([]Segment, 0, len(parts)-1)
	for _, part := range parts[1:] {
		name, arity, ok := strings.Cut(part, "/")
		if !ok {
			return ItemID{}, fmt.Errorf("%w: %q: segment %q lacks arity", ErrInvalidID, s, part)
		}
		n, err := strconv.Atoi(arity)
		if err != nil {
			return ItemID{}, fmt.Errorf("%w: %q: bad arity %q", ErrInvalidID, s, arity)
		}
		segs = append(segs, Segment{Name: name, Arity: n})
	}
	return Make(parts[0], segs...)
}

func checkName(name string) (string, error) {
	if name == "" {
		return "", errors.New("empty name")
	}
	name = norm.NFC.String(name)
	if i := strings.IndexAny(name, "./<>,$ \t\r\n"); i >= 0 {
		return "", fmt.Errorf("reserved character %q", name[i])
	}
	return name, nil
}

// IsValid reports whether the id names a module.
func (id ItemID) IsValid() bool { return id.module != "" }

// Module returns the namespace segment that owns the item.
func (id ItemID) Module() string { return id.module }

// Len returns the number of path segments below the namespace.
func (id ItemID) Len() int {
	if id.path == "" {
		return 0
	}
	return strings.Count(id.path, ".") + 1
}

// Segments decodes the path.
func (id ItemID) Segments() []Segment {
	if id.path == "" {
		return nil
	}
	parts := strings.Split(id.path, ".")
	segs := make([]Segment, len(parts))
	for i, part := range parts {
		segs[i] = decodeSegment(part)
	}
	return segs
}

// Last returns the innermost segment; the zero Segment for a namespace root.
func (id ItemID) Last() Segment {
	if id.path == "" {
		return Segment{}
	}
	part := id.path
	if i := strings.LastIndexByte(part, '.'); i >= 0 {
		part = part[i+1:]
	}
	return decodeSegment(part)
}

// Parent drops the innermost segment. ok is false when the item is declared
// directly in the namespace (its parent is not an item).
func (id ItemID) Parent() (ItemID, bool) {
	i := strings.LastIndexByte(id.path, '.')
	if i < 0 {
		return ItemID{}, false
	}
	return ItemID{module: id.module, path: id.path[:i]}, true
}

// MakeChild appends a segment, validating the new name.
func (id ItemID) MakeChild(name string, arity int) (ItemID, error) {
	return Make(id.module, append(id.Segments(), Segment{Name: name, Arity: arity})...)
}

// Child is MakeChild for constant names; it panics on invalid input.
func (id ItemID) Child(name string, arity int) ItemID {
	child, err := id.MakeChild(name, arity)
	if err != nil {
		panic(err)
	}
	return child
}

// SameName reports whether id and other spell the same path, ignoring
// arities.
func (id ItemID) SameName(other ItemID) bool {
	if id.module != other.module || id.Len() != other.Len() {
		return false
	}
	a, b := id.Segments(), other.Segments()
	for i := range a {
		if a[i].Name != b[i].Name {
			return false
		}
	}
	return true
}

// TotalArity is the number of type arguments the full path accepts.
func (id ItemID) TotalArity() int {
	n := 0
	for _, seg := range id.Segments() {
		n += seg.Arity
	}
	return n
}

// OuterArity is TotalArity minus the arity of the innermost segment.
func (id ItemID) OuterArity() int {
	return id.TotalArity() - id.Last().Arity
}

func (id ItemID) String() string {
	if id.path == "" {
		return id.module
	}
	return id.module + "." + id.path
}

func decodeSegment(part string) Segment {
	name, arity, _ := strings.Cut(part, "/")
	n, err := strconv.Atoi(arity)
	if err != nil {
		panic(fmt.Errorf("ids: corrupt segment %q: %w", part, err))
	}
	return Segment{Name: name, Arity: n}
}
