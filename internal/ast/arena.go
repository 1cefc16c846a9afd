package ast

import "fortio.org/safecast"

// Arena is an append-only node store addressed by 1-based index; index 0 is
// reserved for "no node".
type Arena[T any] struct {
	data []T
}

// NewArena creates an arena with room for capHint nodes.
func NewArena[T any](capHint uint) *Arena[T] {
	return &Arena[T]{
		data: make([]T, 0, capHint),
	}
}

// Allocate stores value and returns its index.
func (a *Arena[T]) Allocate(value T) uint32 {
	a.data = append(a.data, value)
	n, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(err)
	}
	return n
}

// Get returns the node at index, or nil for 0 and out-of-range indices.
func (a *Arena[T]) Get(index uint32) *T {
	if index == 0 || int(index) > len(a.data) {
		return nil
	}
	return &a.data[index-1]
}

// READONLY
func (a *Arena[T]) Slice() []T {
	return a.data
}

func (a *Arena[T]) Len() int {
	return len(a.data)
}
