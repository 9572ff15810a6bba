// Package arena provides a fixed-capacity list. The capacity is part of the
// type, so a zero List is ready to use and a decoded List can never hold more
// elements than its ceiling.
package arena

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrFull is returned when an append would exceed the list capacity.
var ErrFull = errors.New("arena: capacity exceeded")

// Capacity names the ceiling of a List. Implementations are empty structs.
type Capacity interface {
	Limit() int
}

// List is an ordered list holding at most C.Limit() elements. The backing
// array is allocated once at full capacity on first use and never grows.
type List[T any, C Capacity] struct {
	items []T
}

func (l *List[T, C]) limit() int {
	var c C
	return c.Limit()
}

// Len returns the number of elements.
func (l *List[T, C]) Len() int { return len(l.items) }

// Cap returns the fixed ceiling.
func (l *List[T, C]) Cap() int { return l.limit() }

// Free returns how many more elements fit.
func (l *List[T, C]) Free() int { return l.limit() - len(l.items) }

// Append adds v at the end or fails with ErrFull.
func (l *List[T, C]) Append(v T) error {
	if len(l.items) >= l.limit() {
		return fmt.Errorf("%w (limit %d)", ErrFull, l.limit())
	}
	if l.items == nil {
		l.items = make([]T, 0, l.limit())
	}
	l.items = append(l.items, v)
	return nil
}

// At returns a pointer to the i-th element so callers can mutate it in place.
func (l *List[T, C]) At(i int) *T { return &l.items[i] }

// Index returns the index of the first element matching fn, or -1.
func (l *List[T, C]) Index(fn func(T) bool) int {
	for i, v := range l.items {
		if fn(v) {
			return i
		}
	}
	return -1
}

// Find returns a pointer to the first element matching fn.
func (l *List[T, C]) Find(fn func(T) bool) (*T, bool) {
	i := l.Index(fn)
	if i < 0 {
		return nil, false
	}
	return &l.items[i], true
}

// Retain keeps only the elements for which keep returns true, preserving
// order, and reports how many were dropped.
func (l *List[T, C]) Retain(keep func(T) bool) int {
	n := 0
	for _, v := range l.items {
		if keep(v) {
			l.items[n] = v
			n++
		}
	}
	var zero T
	for i := n; i < len(l.items); i++ {
		l.items[i] = zero
	}
	dropped := len(l.items) - n
	l.items = l.items[:n]
	return dropped
}

// All iterates over the elements in order.
func (l *List[T, C]) All() func(yield func(int, T) bool) {
	return func(yield func(int, T) bool) {
		for i, v := range l.items {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Slice returns a copy of the elements.
func (l *List[T, C]) Slice() []T {
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// Clone returns an independent copy.
func (l List[T, C]) Clone() List[T, C] {
	if l.items == nil {
		return List[T, C]{}
	}
	items := make([]T, len(l.items), l.limit())
	copy(items, l.items)
	return List[T, C]{items: items}
}

// MarshalJSON encodes the list as a JSON array.
func (l List[T, C]) MarshalJSON() ([]byte, error) {
	if l.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.items)
}

// UnmarshalJSON decodes a JSON array, rejecting input longer than the limit.
func (l *List[T, C]) UnmarshalJSON(data []byte) error {
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	if len(items) > l.limit() {
		return fmt.Errorf("%w: decoded %d elements", ErrFull, len(items))
	}
	l.items = make([]T, len(items), l.limit())
	copy(l.items, items)
	return nil
}
