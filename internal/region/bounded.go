package region

import (
	"errors"
	"fmt"
)

// ErrCapacityExceeded is returned by Bounded.Push when the sequence is full.
var ErrCapacityExceeded = errors.New("capacity exceeded")

// Bounded is an ordered sequence that never grows past its capacity. A zero
// Bounded of RiverSegment or WaterBody holds MaxRiverSegments or
// MaxWaterBodies items; a zero Bounded of any other type holds none.
type Bounded[T any] struct {
	items []T
	limit int
}

// NewBounded returns an empty sequence holding at most limit items. A limit
// of zero selects the default capacity for T.
func NewBounded[T any](limit int) Bounded[T] {
	return Bounded[T]{limit: limit}
}

// Push appends v, or returns ErrCapacityExceeded when full.
func (b *Bounded[T]) Push(v T) error {
	if limit := b.Cap(); len(b.items) >= limit {
		return fmt.Errorf("push beyond %d items: %w", limit, ErrCapacityExceeded)
	}
	b.items = append(b.items, v)
	return nil
}

// Remove deletes the item at index i, keeping order.
func (b *Bounded[T]) Remove(i int) error {
	if i < 0 || i >= len(b.items) {
		return fmt.Errorf("remove index %d out of range [0,%d)", i, len(b.items))
	}
	b.items = append(b.items[:i], b.items[i+1:]...)
	if len(b.items) == 0 {
		b.items = nil
	}
	return nil
}

// Clear removes every item.
func (b *Bounded[T]) Clear() {
	b.items = nil
}

func (b Bounded[T]) Len() int { return len(b.items) }

func (b Bounded[T]) Cap() int {
	if b.limit == 0 {
		return defaultLimit[T]()
	}
	return b.limit
}

func defaultLimit[T any]() int {
	var zero T
	switch any(zero).(type) {
	case RiverSegment:
		return MaxRiverSegments
	case WaterBody:
		return MaxWaterBodies
	}
	return 0
}

// Full reports whether another Push would fail.
func (b Bounded[T]) Full() bool { return len(b.items) >= b.Cap() }

// At returns the item at index i. It panics when i is out of range.
func (b Bounded[T]) At(i int) T { return b.items[i] }

// Items returns a copy of the stored items.
func (b Bounded[T]) Items() []T {
	if len(b.items) == 0 {
		return nil
	}
	out := make([]T, len(b.items))
	copy(out, b.items)
	return out
}

// clone returns an independent copy.
func (b Bounded[T]) clone() Bounded[T] {
	return Bounded[T]{items: b.Items(), limit: b.limit}
}
