// Package module defines the contract between the domain service and the
// pluggable units (native or script) that own namespaces of types and
// functions.
package module

import (
	"context"

	"qs/internal/types"
	"qs/internal/value"
)

// Resolver is the view of the domain service handed to modules. A module may
// call back into it while loading or while materializing an instance.
type Resolver interface {
	GetTypeInst(ctx context.Context, t types.Normal) (TypeInst, error)
	GetFuncInst(ctx context.Context, f types.FuncValue) (FuncInst, error)
	ResolveType(ctx context.Context, t types.TypeValue) (TypeInst, error)
}

// Module owns one namespace segment and materializes instances on request.
//
// GetTypeInst and GetFuncInst receive descriptions whose ID lives in the
// module's namespace and whose argument counts already match the ID. They
// must return a complete instance or an error; the domain caches successes
// only. Implementations must tolerate concurrent calls.
type Module interface {
	Namespace() string
	OnLoad(ctx context.Context, r Resolver) error
	GetTypeInst(ctx context.Context, r Resolver, t types.Normal) (TypeInst, error)
	GetFuncInst(ctx context.Context, r Resolver, f types.FuncValue) (FuncInst, error)
}

// RuntimeModule is a Module that also provides the value primitives the
// interpreter uses to box and unbox values.
type RuntimeModule interface {
	Module

	MakeBool(b bool) value.Value
	MakeInt(i int64) value.Value
	MakeString(s string) value.Value
	MakeNullObject() value.Value

	GetInt(v value.Value) (int64, error)
	SetInt(v value.Value, i int64) error
	GetBool(v value.Value) (bool, error)
	SetBool(v value.Value, b bool) error
	GetString(v value.Value) (string, error)
	// SetString replaces the whole payload.
	SetString(v value.Value, s string) error

	// SetList stores a new list holding elems into obj.
	SetList(ctx context.Context, r Resolver, obj value.Value, elemType types.TypeValue, elems []value.Value) error
	// SetEnumerable stores a new list holding everything seq produces. obj is
	// only written once seq is exhausted; on failure it is left untouched.
	SetEnumerable(ctx context.Context, r Resolver, obj value.Value, elemType types.TypeValue, seq value.Sequence) error
}
