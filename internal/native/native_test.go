package native_test

import (
	"context"
	"errors"
	"testing"

	"qs/internal/domain"
	"qs/internal/fault"
	"qs/internal/globals"
	"qs/internal/ids"
	"qs/internal/module"
	"qs/internal/native"
	"qs/internal/types"
	"qs/internal/value"
)

func load(t *testing.T) (*domain.Domain, *native.Module) {
	t.Helper()
	m, err := native.New("System")
	if err != nil {
		t.Fatalf("native.New: %v", err)
	}
	d := domain.New()
	if err := d.LoadModule(context.Background(), m); err != nil {
		t.Fatalf("LoadModule: %v", err)
	}
	return d, m
}

func TestOnLoadCachesPrimitives(t *testing.T) {
	d, _ := load(t)
	if got := d.Stats().TypeInsts; got != 4 {
		t.Fatalf("expected 4 cached primitives after load, got %d", got)
	}
}

func TestListArity(t *testing.T) {
	d, m := load(t)
	ctx := context.Background()
	x := m.IDs()
	intT := types.MakeNormal(x.Int)

	tests := []struct {
		name string
		tv   types.Normal
		want fault.Code
	}{
		{"one arg", types.MakeNormal(x.List, intT), 0},
		{"none", types.MakeNormal(ids.New("System", ids.Segment{Name: "List"})), fault.ArityMismatch},
		{"two", types.MakeNormal(ids.New("System", ids.Segment{Name: "List", Arity: 2}), intT, intT), fault.ArityMismatch},
		{"two on List/1", types.Normal{ID: x.List, Args: []types.TypeValue{intT, intT}}, fault.ArityMismatch},
		{"unknown", types.MakeNormal(ids.New("System", ids.Segment{Name: "Map", Arity: 2}), intT, intT), fault.UnknownType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst, err := d.GetTypeInst(ctx, tt.tv)
			if tt.want == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if inst == nil {
					t.Fatalf("expected instance")
				}
				return
			}
			if got := fault.CodeOf(err); got != tt.want {
				t.Fatalf("expected %s, got %v", tt.want, err)
			}
		})
	}
}

func TestListInstHoldsElement(t *testing.T) {
	d, m := load(t)
	ctx := context.Background()
	x := m.IDs()
	intT := types.MakeNormal(x.Int)

	inst, err := d.GetTypeInst(ctx, types.MakeNormal(x.List, types.MakeNormal(x.List, intT)))
	if err != nil {
		t.Fatalf("GetTypeInst: %v", err)
	}
	li := inst.(*native.TypeInst)
	if li.Repr != native.ReprList {
		t.Fatalf("expected list repr, got %s", li.Repr)
	}
	inner, err := d.GetTypeInst(ctx, types.MakeNormal(x.List, intT))
	if err != nil {
		t.Fatalf("GetTypeInst inner: %v", err)
	}
	if li.Elem != inner {
		t.Fatalf("element instance is not the cached List<int>")
	}

	open, err := d.GetTypeInst(ctx, types.MakeNormal(x.List, types.Var{Index: 0}))
	if err != nil {
		t.Fatalf("GetTypeInst List<$0>: %v", err)
	}
	if open.(*native.TypeInst).Elem != nil {
		t.Fatalf("open list must not resolve its element")
	}
}

// Resolve int, resolve List<int>.Add, build [1, 2], add 3, read back [1, 2, 3].
func TestListAddEndToEnd(t *testing.T) {
	d, m := load(t)
	ctx := context.Background()
	x := m.IDs()
	intT := types.MakeNormal(x.Int)

	intInst, err := d.GetTypeInst(ctx, intT)
	if err != nil {
		t.Fatalf("GetTypeInst int: %v", err)
	}
	if intInst.TypeValue().ID != x.Int {
		t.Fatalf("unexpected int instance %s", intInst.TypeValue())
	}

	fi, err := d.GetFuncInst(ctx, types.MakeFunc(x.ListAdd, []types.TypeValue{intT}, nil))
	if err != nil {
		t.Fatalf("GetFuncInst List<int>.Add: %v", err)
	}
	add, ok := fi.(*module.NativeFuncInst)
	if !ok {
		t.Fatalf("expected native func inst, got %T", fi)
	}

	list := m.MakeNullObject()
	if err := m.SetList(ctx, d, list, intT, []value.Value{m.MakeInt(1), m.MakeInt(2)}); err != nil {
		t.Fatalf("SetList: %v", err)
	}
	if err := add.Invoke(ctx, list, []value.Value{m.MakeInt(3)}, &value.Void{}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	l, ok := value.AsList(list)
	if !ok {
		t.Fatalf("object does not hold a list")
	}
	want := []int64{1, 2, 3}
	if len(l.Elems) != len(want) {
		t.Fatalf("expected %d elements, got %s", len(want), l)
	}
	for i, w := range want {
		got, err := m.GetInt(l.Elems[i])
		if err != nil {
			t.Fatalf("GetInt(%d): %v", i, err)
		}
		if got != w {
			t.Fatalf("element %d: expected %d, got %d", i, w, got)
		}
	}
}

func TestListFunctions(t *testing.T) {
	d, m := load(t)
	ctx := context.Background()
	x := m.IDs()
	strT := types.MakeNormal(x.String)

	call := func(id ids.ItemID, this value.Value, args []value.Value, result value.Value) error {
		t.Helper()
		fi, err := d.GetFuncInst(ctx, types.MakeFunc(id, []types.TypeValue{strT}, nil))
		if err != nil {
			t.Fatalf("GetFuncInst %s: %v", id, err)
		}
		return fi.(*module.NativeFuncInst).Invoke(ctx, this, args, result)
	}

	list := m.MakeNullObject()
	if err := m.SetList(ctx, d, list, strT, []value.Value{m.MakeString("a"), m.MakeString("b")}); err != nil {
		t.Fatalf("SetList: %v", err)
	}

	n := m.MakeInt(0)
	if err := call(x.ListCount, list, nil, n); err != nil {
		t.Fatalf("Count: %v", err)
	}
	if got, _ := m.GetInt(n); got != 2 {
		t.Fatalf("Count: expected 2, got %d", got)
	}

	s := m.MakeString("")
	if err := call(x.ListGet, list, []value.Value{m.MakeInt(1)}, s); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got, _ := m.GetString(s); got != "b" {
		t.Fatalf("Get(1): expected b, got %q", got)
	}

	err := call(x.ListGet, list, []value.Value{m.MakeInt(5)}, s)
	if !errors.Is(err, fault.ErrNativeInvocation) {
		t.Fatalf("Get(5): expected native invocation fault, got %v", err)
	}

	err = call(x.ListAdd, list, []value.Value{m.MakeInt(1)}, nil)
	if !errors.Is(err, fault.ErrNativeInvocation) {
		t.Fatalf("Add(int) to List<string>: expected native invocation fault, got %v", err)
	}

	if err := call(x.ListClear, list, nil, nil); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := call(x.ListCount, list, nil, n); err != nil {
		t.Fatalf("Count: %v", err)
	}
	if got, _ := m.GetInt(n); got != 0 {
		t.Fatalf("Count after Clear: expected 0, got %d", got)
	}
}

func TestUnknownFunction(t *testing.T) {
	d, m := load(t)
	ctx := context.Background()
	x := m.IDs()
	intT := types.MakeNormal(x.Int)

	_, err := d.GetFuncInst(ctx, types.MakeFunc(x.List.Child("Sort", 0), []types.TypeValue{intT}, nil))
	if fault.CodeOf(err) != fault.UnknownFunction {
		t.Fatalf("expected unknown function, got %v", err)
	}
	_, err = d.GetFuncInst(ctx, types.MakeFunc(x.List.Child("Add", 1), []types.TypeValue{intT}, []types.TypeValue{intT}))
	if fault.CodeOf(err) != fault.ArityMismatch {
		t.Fatalf("expected arity mismatch for Add/1, got %v", err)
	}
}

func TestEnumerableAbort(t *testing.T) {
	d, m := load(t)
	ctx := context.Background()
	x := m.IDs()
	intT := types.MakeNormal(x.Int)

	boom := errors.New("producer failed")
	produced := 0
	seq := value.SeqFunc(func(context.Context) (value.Value, bool, error) {
		if produced == 2 {
			return nil, false, boom
		}
		produced++
		return m.MakeInt(int64(produced)), true, nil
	})

	repo := globals.New()
	gid := ids.New("App", ids.Segment{Name: "items"})
	obj := m.MakeNullObject()

	err := m.SetEnumerable(ctx, d, obj, intT, seq)
	if !errors.Is(err, fault.ErrNativeInvocation) {
		t.Fatalf("expected native invocation fault, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected producer error in chain, got %v", err)
	}
	if !value.IsNull(obj) {
		t.Fatalf("partially built list was published: %s", obj)
	}
	if repo.Has(gid) {
		t.Fatalf("global bound after aborted population")
	}
	if _, err := repo.GetValue(gid); !errors.Is(err, fault.ErrUnboundVariable) {
		t.Fatalf("expected unbound variable, got %v", err)
	}
}

func TestEnumerableComplete(t *testing.T) {
	d, m := load(t)
	ctx := context.Background()
	intT := types.MakeNormal(m.IDs().Int)

	obj := m.MakeNullObject()
	seq := value.FromSlice(m.MakeInt(4), m.MakeInt(5))
	if err := m.SetEnumerable(ctx, d, obj, intT, seq); err != nil {
		t.Fatalf("SetEnumerable: %v", err)
	}
	if got := obj.String(); got != "[4, 5]" {
		t.Fatalf("expected [4, 5], got %s", got)
	}
}

func TestEnumerableCancelled(t *testing.T) {
	d, m := load(t)
	intT := types.MakeNormal(m.IDs().Int)

	ctx, cancel := context.WithCancel(context.Background())
	seq := value.SeqFunc(func(context.Context) (value.Value, bool, error) {
		cancel()
		return m.MakeInt(1), true, nil
	})
	obj := m.MakeNullObject()
	err := m.SetEnumerable(ctx, d, obj, intT, seq)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if !value.IsNull(obj) {
		t.Fatalf("cancelled population published %s", obj)
	}
}

func TestAccessorKindErrors(t *testing.T) {
	_, m := load(t)
	var kerr *value.KindError
	if _, err := m.GetInt(m.MakeBool(true)); !errors.As(err, &kerr) {
		t.Fatalf("GetInt(bool): expected kind error, got %v", err)
	}
	s := m.MakeString("old")
	if err := m.SetString(s, "new"); err != nil {
		t.Fatalf("SetString: %v", err)
	}
	if got, _ := m.GetString(s); got != "new" {
		t.Fatalf("expected new, got %q", got)
	}
	b := m.MakeBool(false)
	if err := m.SetBool(b, true); err != nil {
		t.Fatalf("SetBool: %v", err)
	}
	if got, _ := m.GetBool(b); !got {
		t.Fatalf("expected true")
	}
}

func TestEnumerableClonesReusedSlot(t *testing.T) {
	d, m := load(t)
	ctx := context.Background()
	intT := types.MakeNormal(m.IDs().Int)

	// The producer writes each element into the same slot, like a loop
	// variable.
	slot := &value.Int{}
	i := int64(0)
	seq := value.SeqFunc(func(context.Context) (value.Value, bool, error) {
		if i == 3 {
			return nil, false, nil
		}
		slot.V = i
		i++
		return slot, true, nil
	})

	obj := m.MakeNullObject()
	if err := m.SetEnumerable(ctx, d, obj, intT, seq); err != nil {
		t.Fatalf("SetEnumerable: %v", err)
	}
	if got := obj.String(); got != "[0, 1, 2]" {
		t.Fatalf("expected [0, 1, 2], got %s", got)
	}
}

func TestEnumerableStopsAtBadElement(t *testing.T) {
	d, m := load(t)
	ctx := context.Background()
	intT := types.MakeNormal(m.IDs().Int)

	pulled := 0
	seq := value.SeqFunc(func(context.Context) (value.Value, bool, error) {
		pulled++
		if pulled == 2 {
			return m.MakeBool(true), true, nil
		}
		return m.MakeInt(int64(pulled)), true, nil // unbounded
	})

	obj := m.MakeNullObject()
	err := m.SetEnumerable(ctx, d, obj, intT, seq)
	if !errors.Is(err, fault.ErrNativeInvocation) {
		t.Fatalf("expected native invocation fault, got %v", err)
	}
	var kerr *value.KindError
	if !errors.As(err, &kerr) {
		t.Fatalf("expected kind error in chain, got %v", err)
	}
	if pulled != 2 {
		t.Fatalf("producer called %d times, want 2", pulled)
	}
	if !value.IsNull(obj) {
		t.Fatalf("list published after a bad element: %s", obj)
	}
}

func TestListFunctionRejectsForeignReceiver(t *testing.T) {
	d, m := load(t)
	ctx := context.Background()
	x := m.IDs()
	intT := types.MakeNormal(x.Int)
	boolT := types.MakeNormal(x.Bool)

	ints := m.MakeNullObject()
	if err := m.SetList(ctx, d, ints, intT, []value.Value{m.MakeInt(1)}); err != nil {
		t.Fatalf("SetList: %v", err)
	}

	for _, id := range []ids.ItemID{x.ListAdd, x.ListCount, x.ListGet, x.ListClear} {
		fi, err := d.GetFuncInst(ctx, types.MakeFunc(id, []types.TypeValue{boolT}, nil))
		if err != nil {
			t.Fatalf("GetFuncInst %s: %v", id, err)
		}
		f := fi.(*module.NativeFuncInst)
		args := make([]value.Value, f.ParamCount)
		for i := range args {
			args[i] = m.MakeBool(true)
		}
		if id == x.ListGet {
			args[0] = m.MakeInt(0)
		}
		if err := f.Invoke(ctx, ints, args, nil); !errors.Is(err, fault.ErrNativeInvocation) {
			t.Fatalf("%s on List<int>: expected native invocation fault, got %v", id, err)
		}
	}
	if got := ints.String(); got != "[1]" {
		t.Fatalf("List<int> changed by List<bool> members: %s", got)
	}
}
