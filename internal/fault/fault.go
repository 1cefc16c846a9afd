// Package fault defines the error taxonomy of the resolution core.
package fault

import (
	"errors"
	"fmt"
)

// Code identifies the kind of failure.
type Code int

// Stable codes - do not change values.
const (
	DuplicateModule  Code = 1001 // RT1001: namespace segment already owned
	UnknownType      Code = 1002 // RT1002: no module owns the type id
	UnknownFunction  Code = 1003 // RT1003: no module owns the function id
	ArityMismatch    Code = 1004 // RT1004: declared vs supplied type-argument count
	UnresolvedMember Code = 1005 // RT1005: member missing on a resolved parent
	UnboundVariable  Code = 1006 // RT1006: global read before first write
	NativeInvocation Code = 1007 // RT1007: native call failed or was aborted
	InvalidTypeValue Code = 1008 // RT1008: description cannot be resolved as given
	ModuleLoad       Code = 1009 // RT1009: module load hook failed
)

var codeNames = map[Code]string{
	DuplicateModule:  "duplicate module",
	UnknownType:      "unknown type",
	UnknownFunction:  "unknown function",
	ArityMismatch:    "arity mismatch",
	UnresolvedMember: "unresolved member",
	UnboundVariable:  "unbound variable",
	NativeInvocation: "native invocation",
	InvalidTypeValue: "invalid type value",
	ModuleLoad:       "module load",
}

// String returns the code as "RT1001".
func (c Code) String() string {
	return fmt.Sprintf("RT%d", int(c))
}

// Title is a short human-readable description of the code.
func (c Code) Title() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "unknown fault"
}

// Error is the concrete error returned by the core.
type Error struct {
	Code    Code
	Message string
	Err     error // underlying cause, may be nil
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %s: %v", e.Code, e.Code.Title(), e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Code, e.Code.Title(), e.Message)
}

// Unwrap exposes the cause.
func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same code, so the sentinels below work with
// errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code && t.Message == ""
}

// Sentinels for errors.Is.
var (
	ErrDuplicateModule  = &Error{Code: DuplicateModule}
	ErrUnknownType      = &Error{Code: UnknownType}
	ErrUnknownFunction  = &Error{Code: UnknownFunction}
	ErrArityMismatch    = &Error{Code: ArityMismatch}
	ErrUnresolvedMember = &Error{Code: UnresolvedMember}
	ErrUnboundVariable  = &Error{Code: UnboundVariable}
	ErrNativeInvocation = &Error{Code: NativeInvocation}
	ErrInvalidTypeValue = &Error{Code: InvalidTypeValue}
	ErrModuleLoad       = &Error{Code: ModuleLoad}
)

// New builds an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: cause}
}

// CodeOf returns the code of the outermost *Error in err's chain, or 0.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return 0
}
