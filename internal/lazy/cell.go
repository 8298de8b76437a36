// Package lazy provides a compute-once memoization cell used by wire-backed
// messages to defer deserialization until first access.
package lazy

import "sync"

// Cell memoizes a single computation. The first caller of Get runs the
// function; every caller, including concurrent ones, observes the same value
// or the same error. A failed computation is not retried: the error is
// remembered and returned again on re-access.
type Cell[T any] struct {
	once sync.Once
	fn   func() (T, error)
	val  T
	err  error
}

// New creates a cell that computes its value on first Get.
func New[T any](fn func() (T, error)) *Cell[T] {
	return &Cell[T]{fn: fn}
}

// Resolved creates a cell already holding v; Get never computes anything.
func Resolved[T any](v T) *Cell[T] {
	c := &Cell[T]{val: v}
	c.once.Do(func() {})
	return c
}

// Get returns the memoized value, computing it on first call.
func (c *Cell[T]) Get() (T, error) {
	c.once.Do(func() {
		c.val, c.err = c.fn()
		c.fn = nil
	})
	return c.val, c.err
}
