// Package state provides small observable containers for client-side state.
package state

import (
	"sort"
	"sync"
)

// Cell holds a single value and notifies subscribers whenever it is set.
// Subscribers run synchronously on the goroutine that called Set, after the
// internal lock has been released.
type Cell[T any] struct {
	mu     sync.Mutex
	value  T
	nextID int
	subs   map[int]func(T)
}

// NewCell returns a cell holding initial.
func NewCell[T any](initial T) *Cell[T] {
	return &Cell[T]{value: initial, subs: map[int]func(T){}}
}

// Get returns the current value.
func (c *Cell[T]) Get() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Set stores value and notifies subscribers.
func (c *Cell[T]) Set(value T) {
	c.mu.Lock()
	c.value = value
	subs := c.snapshotLocked()
	c.mu.Unlock()
	for _, fn := range subs {
		fn(value)
	}
}

// Swap stores value only when ok(current) is true. It reports whether the
// value was stored. The check and the store happen under one lock.
func (c *Cell[T]) Swap(ok func(current T) bool, value T) bool {
	c.mu.Lock()
	if !ok(c.value) {
		c.mu.Unlock()
		return false
	}
	c.value = value
	subs := c.snapshotLocked()
	c.mu.Unlock()
	for _, fn := range subs {
		fn(value)
	}
	return true
}

// Subscribe registers fn and returns a function that removes it.
func (c *Cell[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *Cell[T]) snapshotLocked() []func(T) {
	if len(c.subs) == 0 {
		return nil
	}
	ids := make([]int, 0, len(c.subs))
	for id := range c.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]func(T), 0, len(ids))
	for _, id := range ids {
		out = append(out, c.subs[id])
	}
	return out
}

// Value is the read-only view of a Cell handed to renderers.
type Value[T any] interface {
	Get() T
	Subscribe(fn func(T)) (unsubscribe func())
}

var _ Value[int] = (*Cell[int])(nil)
