package domain

import (
	"slices"
	"sync"
)

// instCache maps a structural key to the single instance materialized for it.
// Insertion is check-then-insert under one lock, so concurrent resolvers of
// the same key all end up with the first instance stored.
type instCache[T any] struct {
	mu    sync.RWMutex
	byKey map[string]cacheEntry[T]
}

type cacheEntry[T any] struct {
	owner string // namespace of the module that materialized inst
	inst  T
}

func newInstCache[T any]() *instCache[T] {
	return &instCache[T]{byKey: make(map[string]cacheEntry[T], 64)}
}

func (c *instCache[T]) get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.byKey[key]
	return e.inst, ok
}

// putIfAbsent stores inst unless key is already present. It returns the
// stored instance and whether it was this call that stored it.
func (c *instCache[T]) putIfAbsent(key, owner string, inst T) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.byKey[key]; ok {
		return e.inst, false
	}
	c.byKey[key] = cacheEntry[T]{owner: owner, inst: inst}
	return inst, true
}

// dropOwner removes every instance materialized by the given module.
func (c *instCache[T]) dropOwner(owner string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for key, e := range c.byKey {
		if e.owner == owner {
			delete(c.byKey, key)
			n++
		}
	}
	return n
}

func (c *instCache[T]) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byKey)
}

// sorted returns the instances ordered by key.
func (c *instCache[T]) sorted() []T {
	c.mu.RLock()
	keys := make([]string, 0, len(c.byKey))
	for key := range c.byKey {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	out := make([]T, len(keys))
	for i, key := range keys {
		out[i] = c.byKey[key].inst
	}
	c.mu.RUnlock()
	return out
}
