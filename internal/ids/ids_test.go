package ids

import (
	"errors"
	"testing"
)

func TestItemIDValueEquality(t *testing.T) {
	a := New("System", Segment{Name: "List", Arity: 1}, Segment{Name: "Add", Arity: 0})
	b := New("System", Segment{Name: "List", Arity: 1}).Child("Add", 0)
	if a != b {
		t.Fatalf("ids built from equal inputs must be ==: %v vs %v", a, b)
	}
	seen := map[ItemID]int{a: 1}
	if seen[b] != 1 {
		t.Fatalf("ItemID must work as a map key")
	}
}

func TestArityDistinguishesItems(t *testing.T) {
	list0 := New("System", Segment{Name: "List"})
	list1 := New("System", Segment{Name: "List", Arity: 1})
	if list0 == list1 {
		t.Fatalf("List/0 and List/1 must differ")
	}
}

func TestNamesAreNormalized(t *testing.T) {
	composed := New("M", Segment{Name: "caf\u00e9"})
	decomposed := New("M", Segment{Name: "cafe\u0301"})
	if composed != decomposed {
		t.Fatalf("NFC normalization should unify %q and %q", composed, decomposed)
	}
}

func TestParseRoundTrip(t *testing.T) {
	cases := []string{
		"System",
		"System.int/0",
		"System.List/1.Add/0",
		"Script.Outer/1.Inner/1.Get/2",
	}
	for _, tc := range cases {
		id, err := Parse(tc)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tc, err)
		}
		if got := id.String(); got != tc {
			t.Errorf("round trip %q -> %q", tc, got)
		}
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, tc := range []string{"", "System.List", "System.List/x", "System.List/-1", "Sys tem.int/0"} {
		if _, err := Parse(tc); !errors.Is(err, ErrInvalidID) {
			t.Errorf("Parse(%q): expected ErrInvalidID, got %v", tc, err)
		}
	}
}

func TestPathAccessors(t *testing.T) {
	id := New("S", Segment{Name: "Outer", Arity: 2}, Segment{Name: "Inner", Arity: 1}, Segment{Name: "F", Arity: 3})
	if id.Len() != 3 {
		t.Fatalf("Len = %d", id.Len())
	}
	if id.TotalArity() != 6 || id.OuterArity() != 3 {
		t.Fatalf("arity total=%d outer=%d", id.TotalArity(), id.OuterArity())
	}
	if last := id.Last(); last.Name != "F" || last.Arity != 3 {
		t.Fatalf("Last = %v", last)
	}
	parent, ok := id.Parent()
	if !ok || parent.String() != "S.Outer/2.Inner/1" {
		t.Fatalf("Parent = %v, %v", parent, ok)
	}
	top := New("S", Segment{Name: "int"})
	if _, ok := top.Parent(); ok {
		t.Fatalf("namespace-level item has no parent item")
	}
	if top.Module() != "S" || !top.IsValid() || (ItemID{}).IsValid() {
		t.Fatalf("module/validity accessors broken")
	}
}

func TestSameNameIgnoresArity(t *testing.T) {
	a := New("System", Segment{Name: "List", Arity: 1}, Segment{Name: "Add"})
	b := New("System", Segment{Name: "List"}, Segment{Name: "Add", Arity: 2})
	if !a.SameName(b) {
		t.Fatalf("%s and %s should share a name", a, b)
	}
	c := New("System", Segment{Name: "List", Arity: 1}, Segment{Name: "Get"})
	if a.SameName(c) {
		t.Fatalf("%s and %s should not share a name", a, c)
	}
	if a.SameName(New("Other", Segment{Name: "List", Arity: 1}, Segment{Name: "Add"})) {
		t.Fatalf("different namespaces must not share a name")
	}
}
