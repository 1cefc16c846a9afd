package types

import (
	"testing"

	"qs/internal/ids"
)

var (
	intID   = ids.New("S", ids.Segment{Name: "int"})
	strID   = ids.New("S", ids.Segment{Name: "string"})
	listID  = ids.New("S", ids.Segment{Name: "List", Arity: 1})
	outerID = ids.New("S", ids.Segment{Name: "Outer", Arity: 1})
	innerID = outerID.Child("Inner", 1)
)

func intT() Normal              { return MakeNormal(intID) }
func strT() Normal              { return MakeNormal(strID) }
func listOf(t TypeValue) Normal { return MakeNormal(listID, t) }

func TestStructuralEqualityIgnoresConstructionSite(t *testing.T) {
	a := listOf(intT())
	b := Normal{ID: listID, Args: []TypeValue{Normal{ID: intID}}}
	if !Equal(a, b) || Key(a) != Key(b) {
		t.Fatalf("structurally equal values must share key: %q vs %q", Key(a), Key(b))
	}
	if Equal(a, listOf(strT())) {
		t.Fatalf("different arguments must not be equal")
	}
	if Equal(Var{Index: 0}, Var{Index: 1}) {
		t.Fatalf("vars with different indices must differ")
	}
}

func TestKeysSeparateVariants(t *testing.T) {
	member := Member{Parent: MakeNormal(outerID, intT()), Name: "Inner", Args: []TypeValue{strT()}}
	flat := MakeNormal(innerID, intT(), strT())
	if Key(member) == Key(flat) {
		t.Fatalf("member and flattened forms are distinct descriptions")
	}
	f1 := MakeFunc(listID.Child("Add", 0), []TypeValue{intT()}, nil)
	f2 := MakeFunc(listID.Child("Add", 0), nil, []TypeValue{intT()})
	if FuncKey(f1) == FuncKey(f2) {
		t.Fatalf("outer and local arguments must be encoded apart")
	}
	if !FuncEqual(f1, MakeFunc(listID.Child("Add", 0), []TypeValue{intT()}, nil)) {
		t.Fatalf("FuncEqual should be structural")
	}
}

func TestNormalStringDistributesArgs(t *testing.T) {
	got := MakeNormal(innerID, intT(), strT()).String()
	if want := "S.Outer<S.int>.Inner<S.string>"; got != want {
		t.Fatalf("String = %q, want %q", got, want)
	}
}

func TestSubstKeepsOuterAndLocalIndependent(t *testing.T) {
	// Outer<T>.Method<U> returning Pair-like List<List<T>> and U.
	t0, u1 := Var{Index: 0}, Var{Index: 1}
	body := []TypeValue{listOf(listOf(t0)), u1}

	onlyLocal := ArgumentList{Outer: []TypeValue{t0}, Local: []TypeValue{strT()}}
	got := SubstList(body, onlyLocal)
	if !Equal(got[0], listOf(listOf(t0))) {
		t.Fatalf("local substitution disturbed outer parameter: %v", got[0])
	}
	if !Equal(got[1], strT()) {
		t.Fatalf("local parameter not substituted: %v", got[1])
	}

	full := ArgumentList{Outer: []TypeValue{intT()}, Local: []TypeValue{strT()}}
	got = SubstList(body, full)
	if !Equal(got[0], listOf(listOf(intT()))) || !Equal(got[1], strT()) {
		t.Fatalf("full substitution wrong: %v", got)
	}
}

func TestSubstLeavesOutOfRangeVars(t *testing.T) {
	got := Subst(listOf(Var{Index: 3}), ArgumentList{Local: []TypeValue{intT()}})
	if !Equal(got, listOf(Var{Index: 3})) {
		t.Fatalf("out-of-range var should stay: %v", got)
	}
	if IsConcrete(got) {
		t.Fatalf("value with a var is not concrete")
	}
}

func TestSubstDoesNotAliasInput(t *testing.T) {
	orig := listOf(intT())
	out := SubstNormal(orig, ArgumentList{Local: []TypeValue{strT()}})
	out.Args[0] = strT()
	if !Equal(orig.Args[0], intT()) {
		t.Fatalf("substitution result aliases the input slice")
	}
}

func TestFlattenMember(t *testing.T) {
	flat, err := Flatten(MakeNormal(outerID, intT()), "Inner", []TypeValue{strT()})
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	if flat.ID != innerID || !Equal(flat, MakeNormal(innerID, intT(), strT())) {
		t.Fatalf("Flatten = %v", flat)
	}
	if outer := flat.OuterArgs(); len(outer) != 1 || !Equal(outer[0], intT()) {
		t.Fatalf("OuterArgs = %v", outer)
	}
	if _, err := Flatten(MakeNormal(outerID, intT()), "bad.name", nil); err == nil {
		t.Fatalf("Flatten should reject reserved characters")
	}
}

func TestOwnerType(t *testing.T) {
	add := MakeFunc(listID.Child("Add", 0), []TypeValue{intT()}, nil)
	owner, ok := add.OwnerType()
	if !ok || !Equal(owner, listOf(intT())) {
		t.Fatalf("OwnerType = %v, %v", owner, ok)
	}
	if _, ok := MakeFunc(intID, nil, nil).OwnerType(); ok {
		t.Fatalf("namespace-level function has no owner type")
	}
}
