package script_test

import (
	"context"
	"errors"
	"testing"

	"qs/internal/domain"
	"qs/internal/fault"
	"qs/internal/ids"
	"qs/internal/module"
	"qs/internal/native"
	"qs/internal/script"
	"qs/internal/types"
)

type fixture struct {
	d     *domain.Domain
	nat   *native.Module
	app   *script.Module
	outer ids.ItemID
	inner ids.ItemID
	node  ids.ItemID
	items ids.ItemID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	nat, err := native.New("System")
	if err != nil {
		t.Fatalf("native.New: %v", err)
	}
	app, err := script.NewModule("App")
	if err != nil {
		t.Fatalf("NewModule: %v", err)
	}
	f := &fixture{d: domain.New(), nat: nat, app: app}
	x := nat.IDs()

	f.outer = declareType(t, app, script.TypeDecl{
		Path:    []ids.Segment{{Name: "Outer", Arity: 1}},
		Members: []script.MemberDecl{{Name: "value", Type: types.Var{Index: 0}}},
	})
	f.inner = declareType(t, app, script.TypeDecl{
		Path: []ids.Segment{{Name: "Outer", Arity: 1}, {Name: "Inner", Arity: 1}},
		Members: []script.MemberDecl{
			{Name: "outer", Type: types.Var{Index: 0}},
			{Name: "local", Type: types.Var{Index: 1}},
			{Name: "pair", Type: types.MakeNormal(x.List, types.Var{Index: 0})},
		},
	})
	f.node = ids.New("App", ids.Segment{Name: "Node"})
	declareType(t, app, script.TypeDecl{
		Path: []ids.Segment{{Name: "Node"}},
		Members: []script.MemberDecl{
			{Name: "next", Type: types.MakeNormal(f.node)},
			{Name: "count", Type: types.MakeNormal(x.Int)},
		},
	})
	items, err := app.DeclareFunc(script.FuncDecl{
		Path:          []ids.Segment{{Name: "Outer", Arity: 1}, {Name: "Items", Arity: 1}},
		IsThisCall:    true,
		SeqElemType:   types.Var{Index: 1},
		Body:          "body",
		Captures:      []module.Capture{{Name: "seed", Type: types.Var{Index: 0}}},
		LocalVarCount: 3,
	})
	if err != nil {
		t.Fatalf("DeclareFunc: %v", err)
	}
	f.items = items

	if err := f.d.LoadModules(context.Background(), nat, app); err != nil {
		t.Fatalf("LoadModules: %v", err)
	}
	return f
}

func declareType(t *testing.T, m *script.Module, d script.TypeDecl) ids.ItemID {
	t.Helper()
	id, err := m.DeclareType(d)
	if err != nil {
		t.Fatalf("DeclareType: %v", err)
	}
	return id
}

func TestMemberSeesOuterArguments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	x := f.nat.IDs()
	intT := types.MakeNormal(x.Int)
	strT := types.MakeNormal(x.String)

	inst, err := f.d.ResolveType(ctx, types.Member{Parent: types.MakeNormal(f.outer, intT), Name: "Inner", Args: []types.TypeValue{strT}})
	if err != nil {
		t.Fatalf("ResolveType: %v", err)
	}
	si := inst.(*script.TypeInst)
	for _, tt := range []struct {
		member string
		want   types.TypeValue
	}{
		{"outer", intT},
		{"local", strT},
		{"pair", types.MakeNormal(x.List, intT)},
	} {
		got, ok := si.Member(tt.member)
		if !ok {
			t.Fatalf("member %q missing", tt.member)
		}
		if !types.Equal(got, tt.want) {
			t.Fatalf("member %q: expected %s, got %s", tt.member, tt.want, got)
		}
	}

	pair, err := si.ResolveMember(ctx, f.d, "pair")
	if err != nil {
		t.Fatalf("ResolveMember: %v", err)
	}
	list, err := f.d.GetTypeInst(ctx, types.MakeNormal(x.List, intT))
	if err != nil {
		t.Fatalf("GetTypeInst: %v", err)
	}
	if pair != list {
		t.Fatalf("member resolution bypassed the cache")
	}
	if _, err := si.ResolveMember(ctx, f.d, "missing"); fault.CodeOf(err) != fault.UnresolvedMember {
		t.Fatalf("expected unresolved member, got %v", err)
	}
}

func TestSelfReferentialType(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inst, err := f.d.GetTypeInst(ctx, types.MakeNormal(f.node))
	if err != nil {
		t.Fatalf("GetTypeInst: %v", err)
	}
	next, err := inst.(*script.TypeInst).ResolveMember(ctx, f.d, "next")
	if err != nil {
		t.Fatalf("ResolveMember: %v", err)
	}
	if next != inst {
		t.Fatalf("Node.next does not resolve to Node")
	}
}

func TestFuncInstSubstitution(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	x := f.nat.IDs()
	intT := types.MakeNormal(x.Int)
	strT := types.MakeNormal(x.String)

	fi, err := f.d.GetFuncInst(ctx, types.MakeFunc(f.items, []types.TypeValue{intT}, []types.TypeValue{strT}))
	if err != nil {
		t.Fatalf("GetFuncInst: %v", err)
	}
	sf, ok := fi.(*module.ScriptFuncInst)
	if !ok {
		t.Fatalf("expected script func inst, got %T", fi)
	}
	if !sf.IsThisCall || sf.Body != "body" || sf.LocalVarCount != 3 {
		t.Fatalf("declaration data not carried over: %+v", sf)
	}
	if !types.Equal(sf.SeqElemType, strT) {
		t.Fatalf("sequence element: expected string, got %v", sf.SeqElemType)
	}
	if len(sf.Captures) != 1 || !types.Equal(sf.Captures[0].Type, intT) {
		t.Fatalf("capture not substituted: %+v", sf.Captures)
	}

	again, err := f.d.GetFuncInst(ctx, types.MakeFunc(f.items, []types.TypeValue{intT}, []types.TypeValue{strT}))
	if err != nil || again != fi {
		t.Fatalf("function instance not cached: %v", err)
	}

	_, err = f.d.GetFuncInst(ctx, types.MakeFunc(f.outer.Child("Items", 0), []types.TypeValue{intT}, nil))
	if fault.CodeOf(err) != fault.ArityMismatch {
		t.Fatalf("expected arity mismatch, got %v", err)
	}
	_, err = f.d.GetFuncInst(ctx, types.MakeFunc(f.outer.Child("Other", 0), []types.TypeValue{intT}, nil))
	if fault.CodeOf(err) != fault.UnknownFunction {
		t.Fatalf("expected unknown function, got %v", err)
	}
}

func TestLateDeclarationRetries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	later := types.MakeNormal(ids.New("App", ids.Segment{Name: "Later"}))

	if _, err := f.d.GetTypeInst(ctx, later); fault.CodeOf(err) != fault.UnknownType {
		t.Fatalf("expected unknown type, got %v", err)
	}
	declareType(t, f.app, script.TypeDecl{Path: []ids.Segment{{Name: "Later"}}})
	if _, err := f.d.GetTypeInst(ctx, later); err != nil {
		t.Fatalf("retry after declaration: %v", err)
	}
}

func TestDeclarationErrors(t *testing.T) {
	m, err := script.NewModule("App")
	if err != nil {
		t.Fatalf("NewModule: %v", err)
	}
	node := script.TypeDecl{Path: []ids.Segment{{Name: "Node"}}}
	if _, err := m.DeclareType(node); err != nil {
		t.Fatalf("DeclareType: %v", err)
	}
	if _, err := m.DeclareType(node); err == nil {
		t.Fatalf("expected duplicate declaration to fail")
	}
	if _, err := m.DeclareType(script.TypeDecl{}); err == nil {
		t.Fatalf("expected empty path to fail")
	}
	dupMember := script.TypeDecl{
		Path:    []ids.Segment{{Name: "Pair"}},
		Members: []script.MemberDecl{{Name: "a", Type: types.Var{}}, {Name: "a", Type: types.Var{}}},
	}
	if _, err := m.DeclareType(dupMember); err == nil {
		t.Fatalf("expected duplicate member to fail")
	}
	if _, err := script.NewModule("not valid"); err == nil {
		t.Fatalf("expected invalid namespace to fail")
	}
}

func TestOnLoadReportsMissingDependencies(t *testing.T) {
	app, err := script.NewModule("App")
	if err != nil {
		t.Fatalf("NewModule: %v", err)
	}
	ghost := ids.New("Ghost", ids.Segment{Name: "T"})
	declareType(t, app, script.TypeDecl{
		Path:    []ids.Segment{{Name: "Holder"}},
		Members: []script.MemberDecl{{Name: "x", Type: types.MakeNormal(ghost)}},
	})
	d := domain.New()
	err = d.LoadModule(context.Background(), app)
	if !errors.Is(err, fault.ErrModuleLoad) || !errors.Is(err, fault.ErrUnknownType) {
		t.Fatalf("expected module load fault caused by unknown type, got %v", err)
	}
	if len(d.Modules()) != 0 {
		t.Fatalf("failed module remained loaded")
	}
}
