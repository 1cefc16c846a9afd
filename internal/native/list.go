package native

import (
	"context"
	"errors"
	"fmt"

	"fortio.org/safecast"

	"qs/internal/module"
	"qs/internal/types"
	"qs/internal/value"
)

func valueKind(r Repr) value.Kind {
	switch r {
	case ReprInt:
		return value.KindInt
	case ReprBool:
		return value.KindBool
	case ReprString:
		return value.KindString
	case ReprVoid:
		return value.KindVoid
	case ReprList:
		return value.KindObject
	default:
		return value.KindInvalid
	}
}

// checkElem rejects values whose kind cannot be stored in a list of
// elemType. Element types that are not native are not checked here.
func (m *Module) checkElem(elemType types.TypeValue, v value.Value) error {
	if v == nil {
		return errors.New("nil element")
	}
	want := valueKind(m.elemKind(elemType))
	if want != value.KindInvalid && v.Kind() != want {
		return &value.KindError{Want: want, Got: v.Kind()}
	}
	return nil
}

// receiverList returns the list this refers to. The list must be an
// instance of the type f is declared on.
func (m *Module) receiverList(f types.FuncValue, this value.Value) (*value.List, error) {
	l, ok := value.AsList(this)
	if !ok {
		return nil, fmt.Errorf("receiver %v is not a list", this)
	}
	owner := types.Normal{ID: m.ids.List, Args: f.Args.Outer}
	if !types.Equal(l.Type(), owner) {
		return nil, fmt.Errorf("receiver of type %s passed to %s", l.Type(), owner)
	}
	return l, nil
}

func setResult(result, v value.Value) error {
	if result == nil {
		return nil
	}
	return result.Set(v)
}

func (m *Module) listAdd(f types.FuncValue) module.NativeFunc {
	elemType := f.Args.Outer[0]
	return func(_ context.Context, this value.Value, args []value.Value, result value.Value) error {
		l, err := m.receiverList(f, this)
		if err != nil {
			return err
		}
		if err := m.checkElem(elemType, args[0]); err != nil {
			return err
		}
		l.Elems = append(l.Elems, args[0].Clone())
		return setResult(result, &value.Void{})
	}
}

func (m *Module) listCount(f types.FuncValue) module.NativeFunc {
	return func(_ context.Context, this value.Value, _ []value.Value, result value.Value) error {
		l, err := m.receiverList(f, this)
		if err != nil {
			return err
		}
		n, err := safecast.Conv[int64](len(l.Elems))
		if err != nil {
			return err
		}
		return setResult(result, &value.Int{V: n})
	}
}

func (m *Module) listGet(f types.FuncValue) module.NativeFunc {
	return func(_ context.Context, this value.Value, args []value.Value, result value.Value) error {
		l, err := m.receiverList(f, this)
		if err != nil {
			return err
		}
		raw, err := m.GetInt(args[0])
		if err != nil {
			return err
		}
		idx, err := safecast.Conv[int](raw)
		if err != nil {
			return fmt.Errorf("index %d: %w", raw, err)
		}
		if idx < 0 || idx >= len(l.Elems) {
			return fmt.Errorf("index %d out of range [0, %d)", idx, len(l.Elems))
		}
		return setResult(result, l.Elems[idx])
	}
}

func (m *Module) listClear(f types.FuncValue) module.NativeFunc {
	return func(_ context.Context, this value.Value, _ []value.Value, result value.Value) error {
		l, err := m.receiverList(f, this)
		if err != nil {
			return err
		}
		clear(l.Elems)
		l.Elems = l.Elems[:0]
		return setResult(result, &value.Void{})
	}
}
