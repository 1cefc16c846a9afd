// Package globals stores module-level variable bindings.
package globals

import (
	"sync"

	"qs/internal/fault"
	"qs/internal/ids"
	"qs/internal/value"
)

// Repository is an untyped slot store keyed by item id. The caller is
// responsible for storing values of the declared type. Every SetValue is an
// atomic unit; there is no grouping of writes.
type Repository struct {
	mu    sync.RWMutex
	slots map[ids.ItemID]value.Value
}

// New returns an empty repository.
func New() *Repository {
	return &Repository{slots: make(map[ids.ItemID]value.Value)}
}

// GetValue returns the current binding of id.
func (r *Repository) GetValue(id ids.ItemID) (value.Value, error) {
	r.mu.RLock()
	v, ok := r.slots[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fault.New(fault.UnboundVariable, "global %s read before it was set", id)
	}
	return v, nil
}

// SetValue replaces or first establishes the binding of id. A nil value is a
// programming error and panics before anything is written.
func (r *Repository) SetValue(id ids.ItemID, v value.Value) {
	if v == nil {
		panic("globals: nil value for " + id.String())
	}
	r.mu.Lock()
	r.slots[id] = v
	r.mu.Unlock()
}

// Has reports whether id has been set.
func (r *Repository) Has(id ids.ItemID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.slots[id]
	return ok
}

// Len is the number of bound ids.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.slots)
}
