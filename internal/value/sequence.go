package value

import "context"

// Sequence is a single-pass producer of values. It may be unbounded; a
// consumer pulls with Next until ok is false, an error is returned, or the
// context is cancelled. A producer may block inside Next while it waits for
// the next element.
type Sequence interface {
	Next(ctx context.Context) (v Value, ok bool, err error)
}

// SeqFunc adapts a function to Sequence.
type SeqFunc func(ctx context.Context) (Value, bool, error)

// Next implements Sequence.
func (f SeqFunc) Next(ctx context.Context) (Value, bool, error) { return f(ctx) }

// SliceSequence produces the elements of a slice once.
type SliceSequence struct {
	elems []Value
	pos   int
}

// FromSlice returns a sequence over elems.
func FromSlice(elems ...Value) *SliceSequence {
	return &SliceSequence{elems: elems}
}

// Next implements Sequence.
func (s *SliceSequence) Next(ctx context.Context) (Value, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if s.pos >= len(s.elems) {
		return nil, false, nil
	}
	v := s.elems[s.pos]
	s.pos++
	return v, true, nil
}

// Each pulls the elements of seq one at a time and hands each to fn as it
// arrives. It stops at the first error from seq, from fn, or from ctx, and
// never calls Next again after that. n is the number of elements fn
// accepted.
func Each(ctx context.Context, seq Sequence, fn func(i int, v Value) error) (n int, err error) {
	for {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		v, ok, err := seq.Next(ctx)
		if err != nil {
			return n, err
		}
		if !ok {
			return n, nil
		}
		if err := fn(n, v); err != nil {
			return n, err
		}
		n++
	}
}

// Drain pulls every element of seq, stopping at the first error or
// cancellation. The elements collected so far are returned alongside the
// error; callers that must not publish partial results discard them.
// Elements are stored as produced, not cloned.
func Drain(ctx context.Context, seq Sequence) ([]Value, error) {
	var out []Value
	_, err := Each(ctx, seq, func(_ int, v Value) error {
		out = append(out, v)
		return nil
	})
	return out, err
}
