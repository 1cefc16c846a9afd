package module

import (
	"context"
	"errors"

	"qs/internal/fault"
	"qs/internal/types"
	"qs/internal/value"
)

// TypeInst is a materialized type. Modules attach their own layout and
// behavior data by implementing it with their own structs. Instances are
// never mutated after they are handed to the domain.
type TypeInst interface {
	TypeValue() types.Normal
}

// FuncInst is a materialized function: *NativeFuncInst or *ScriptFuncInst.
type FuncInst interface {
	FuncValue() types.FuncValue
	funcInst()
}

// NativeFunc is a host-provided function body. this is nil for static
// functions. The body writes its result into result and may block while it
// waits on an external producer; it must return when ctx is cancelled.
type NativeFunc func(ctx context.Context, this value.Value, args []value.Value, result value.Value) error

// NativeFuncInst wraps a NativeFunc.
type NativeFuncInst struct {
	Value      types.FuncValue
	IsThisCall bool
	ParamCount int
	Call       NativeFunc
}

// ScriptFuncInst wraps an interpretable body. Body is opaque to the core;
// the interpreter that produced it knows how to run it.
type ScriptFuncInst struct {
	Value      types.FuncValue
	IsThisCall bool
	// SeqElemType is set for sequence functions (generators): the element
	// type after substitution.
	SeqElemType   types.TypeValue
	Body          any
	Captures      []Capture
	LocalVarCount int
}

// Capture describes one variable a script function closes over.
type Capture struct {
	Name  string
	Type  types.TypeValue
	ByRef bool
}

func (f *NativeFuncInst) FuncValue() types.FuncValue { return f.Value }
func (f *ScriptFuncInst) FuncValue() types.FuncValue { return f.Value }

func (*NativeFuncInst) funcInst() {}
func (*ScriptFuncInst) funcInst() {}

// Invoke calls the native body. Any failure, including cancellation, is
// reported as a NativeInvocation fault.
func (f *NativeFuncInst) Invoke(ctx context.Context, this value.Value, args []value.Value, result value.Value) error {
	if f.IsThisCall && this == nil {
		return fault.New(fault.NativeInvocation, "%s: missing receiver", f.Value.ID)
	}
	if !f.IsThisCall && this != nil {
		return fault.New(fault.NativeInvocation, "%s: static function called with a receiver", f.Value.ID)
	}
	if len(args) != f.ParamCount {
		return fault.New(fault.NativeInvocation, "%s: expected %d arguments, got %d", f.Value.ID, f.ParamCount, len(args))
	}
	if err := ctx.Err(); err != nil {
		return fault.Wrap(fault.NativeInvocation, err, "%s: aborted", f.Value.ID)
	}
	if err := f.Call(ctx, this, args, result); err != nil {
		if errors.Is(err, fault.ErrNativeInvocation) {
			return err
		}
		return fault.Wrap(fault.NativeInvocation, err, "%s", f.Value.ID)
	}
	return nil
}
