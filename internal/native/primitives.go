package native

import (
	"context"
	"fmt"

	"qs/internal/fault"
	"qs/internal/module"
	"qs/internal/trace"
	"qs/internal/types"
	"qs/internal/value"
)

func (m *Module) MakeBool(b bool) value.Value     { return &value.Bool{V: b} }
func (m *Module) MakeInt(i int64) value.Value     { return &value.Int{V: i} }
func (m *Module) MakeString(s string) value.Value { return &value.String{V: s} }
func (m *Module) MakeNullObject() value.Value     { return &value.Object{} }

func (m *Module) GetInt(v value.Value) (int64, error) {
	x, ok := v.(*value.Int)
	if !ok {
		return 0, kindErr(value.KindInt, v)
	}
	return x.V, nil
}

func (m *Module) SetInt(v value.Value, i int64) error {
	x, ok := v.(*value.Int)
	if !ok {
		return kindErr(value.KindInt, v)
	}
	x.V = i
	return nil
}

func (m *Module) GetBool(v value.Value) (bool, error) {
	x, ok := v.(*value.Bool)
	if !ok {
		return false, kindErr(value.KindBool, v)
	}
	return x.V, nil
}

func (m *Module) SetBool(v value.Value, b bool) error {
	x, ok := v.(*value.Bool)
	if !ok {
		return kindErr(value.KindBool, v)
	}
	x.V = b
	return nil
}

func (m *Module) GetString(v value.Value) (string, error) {
	x, ok := v.(*value.String)
	if !ok {
		return "", kindErr(value.KindString, v)
	}
	return x.V, nil
}

func (m *Module) SetString(v value.Value, s string) error {
	x, ok := v.(*value.String)
	if !ok {
		return kindErr(value.KindString, v)
	}
	x.V = s
	return nil
}

func kindErr(want value.Kind, got value.Value) error {
	k := value.KindInvalid
	if got != nil {
		k = got.Kind()
	}
	return &value.KindError{Want: want, Got: k}
}

// SetList implements module.RuntimeModule. Elements are cloned into the new
// list, so primitives are copied and objects shared.
func (m *Module) SetList(ctx context.Context, r module.Resolver, obj value.Value, elemType types.TypeValue, elems []value.Value) error {
	slot, listType, err := m.listTarget(ctx, r, obj, elemType)
	if err != nil {
		return err
	}
	list := value.NewList(listType, listType.Args[0])
	list.Elems = make([]value.Value, 0, len(elems))
	for i, e := range elems {
		if err := m.checkElem(list.ElemType, e); err != nil {
			return fault.Wrap(fault.NativeInvocation, err, "element %d of %s", i, listType)
		}
		list.Elems = append(list.Elems, e.Clone())
	}
	slot.Obj = list
	return nil
}

// SetEnumerable implements module.RuntimeModule. The list is private until
// seq is exhausted; an error or cancellation discards it and leaves obj as
// it was.
func (m *Module) SetEnumerable(ctx context.Context, r module.Resolver, obj value.Value, elemType types.TypeValue, seq value.Sequence) error {
	slot, listType, err := m.listTarget(ctx, r, obj, elemType)
	if err != nil {
		return err
	}
	if seq == nil {
		return fault.New(fault.NativeInvocation, "populating %s: nil sequence", listType)
	}

	tr := trace.FromContext(ctx)
	span := trace.Begin(tr, trace.ScopeCall, "native:enumerable", trace.CurrentSpan(ctx))
	list := value.NewList(listType, listType.Args[0])
	// Producers may hand back the same slot every time, so each element is
	// checked and cloned as it arrives.
	n, err := value.Each(ctx, seq, func(i int, e value.Value) error {
		if err := m.checkElem(list.ElemType, e); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
		list.Elems = append(list.Elems, e.Clone())
		return nil
	})
	if err != nil {
		span.WithExtra("produced", fmt.Sprint(n)).End("aborted")
		ferr := fault.Wrap(fault.NativeInvocation, err, "populating %s after %d elements", listType, n)
		trace.Error(tr, trace.ScopeCall, "native:enumerable", ferr)
		return ferr
	}
	slot.Obj = list
	span.WithExtra("produced", fmt.Sprint(n)).End("")
	return nil
}

// listTarget checks obj and resolves List<elemType> so the stored list
// carries the canonical description.
func (m *Module) listTarget(ctx context.Context, r module.Resolver, obj value.Value, elemType types.TypeValue) (*value.Object, types.Normal, error) {
	slot, ok := obj.(*value.Object)
	if !ok {
		return nil, types.Normal{}, fault.Wrap(fault.NativeInvocation, kindErr(value.KindObject, obj), "list target")
	}
	if elemType == nil {
		return nil, types.Normal{}, fault.New(fault.InvalidTypeValue, "list element type is missing")
	}
	inst, err := r.GetTypeInst(ctx, types.MakeNormal(m.ids.List, elemType))
	if err != nil {
		return nil, types.Normal{}, err
	}
	return slot, inst.TypeValue(), nil
}
