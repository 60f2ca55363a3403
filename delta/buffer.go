package delta

import (
	"errors"
	"fmt"
	"slices"
)

// Errors returned by Splice. Both wrap ErrOutOfRange.
var (
	// ErrOutOfRange is the base error for illegal splice positions.
	ErrOutOfRange = errors.New("delta: out of range")

	// ErrSyncedMiddle is returned when a splice would delete elements
	// strictly inside the synced middle.
	ErrSyncedMiddle = fmt.Errorf("%w: cannot delete inside the synced range", ErrOutOfRange)

	// ErrInsertMiddle is returned when a splice would insert elements
	// strictly inside the synced middle.
	ErrInsertMiddle = fmt.Errorf("%w: cannot insert inside the synced range", ErrOutOfRange)
)

// Delta is a snapshot of the change counters of a Buffer.
type Delta struct {
	PushedFront int
	PushedBack  int
	PoppedFront int
	PoppedBack  int
}

// IsZero reports whether no change is pending.
func (d Delta) IsZero() bool { return d == Delta{} }

// Buffer is a growable ordered sequence with change tracking.
// It is not safe for concurrent use.
type Buffer[T any] struct {
	items []T
	d     Delta
}

// New returns a buffer holding items, all of them pending on the back.
func New[T any](items ...T) *Buffer[T] {
	return FromSlice(slices.Clone(items))
}

// FromSlice wraps s without copying. All elements are pending on the back.
// The caller must not use s afterwards.
func FromSlice[T any](s []T) *Buffer[T] {
	return &Buffer[T]{items: s, d: Delta{PushedBack: len(s)}}
}

// Len returns the number of elements.
func (b *Buffer[T]) Len() int { return len(b.items) }

// At returns the i-th element. It panics if i is out of range.
func (b *Buffer[T]) At(i int) T { return b.items[i] }

// Items returns the backing slice. The caller must not modify it.
func (b *Buffer[T]) Items() []T { return b.items }

// First returns the first element, or false if the buffer is empty.
func (b *Buffer[T]) First() (T, bool) {
	if len(b.items) == 0 {
		var zero T
		return zero, false
	}
	return b.items[0], true
}

// Last returns the last element, or false if the buffer is empty.
func (b *Buffer[T]) Last() (T, bool) {
	if len(b.items) == 0 {
		var zero T
		return zero, false
	}
	return b.items[len(b.items)-1], true
}

// Delta returns the pending change counters.
func (b *Buffer[T]) Delta() Delta { return b.d }

// Reset marks the whole buffer as synced.
func (b *Buffer[T]) Reset() { b.d = Delta{} }

// Append adds items to the back.
func (b *Buffer[T]) Append(items ...T) {
	b.d.PushedBack += len(items)
	b.items = append(b.items, items...)
}

// Prepend adds items to the front, keeping their order.
func (b *Buffer[T]) Prepend(items ...T) {
	if len(items) == 0 {
		return
	}
	b.d.PushedFront += len(items)
	b.items = slices.Insert(b.items, 0, items...)
}

// PopBack removes and returns the last element.
// It returns false if the buffer is empty.
func (b *Buffer[T]) PopBack() (T, bool) {
	var zero T
	n := len(b.items)
	if n == 0 {
		return zero, false
	}
	v := b.items[n-1]
	b.items[n-1] = zero
	b.items = b.items[:n-1]

	switch {
	case b.d.PushedBack > 0:
		b.d.PushedBack--
	case n-b.d.PushedFront > 0:
		b.d.PoppedBack++
	default:
		b.d.PushedFront--
	}
	return v, true
}

// PopFront removes and returns the first element.
// It returns false if the buffer is empty.
func (b *Buffer[T]) PopFront() (T, bool) {
	var zero T
	n := len(b.items)
	if n == 0 {
		return zero, false
	}
	v := b.items[0]
	b.items[0] = zero
	b.items = b.items[1:]

	switch {
	case b.d.PushedFront > 0:
		b.d.PushedFront--
	case n-b.d.PushedBack > 0:
		b.d.PoppedFront++
	default:
		b.d.PushedBack--
	}
	return v, true
}

// Splice removes deleteCount elements starting at start, inserts items in
// their place and returns the removed elements.
//
// A negative start counts from the end. deleteCount is clamped to the
// elements available after start; a negative deleteCount deletes nothing.
func (b *Buffer[T]) Splice(start, deleteCount int, items ...T) ([]T, error) {
	n := len(b.items)
	switch {
	case start < 0:
		start = max(n+start, 0)
	case start > n:
		start = n
	}
	deleteCount = min(max(deleteCount, 0), n-start)

	d := b.d
	if err := d.delete(start, deleteCount, n); err != nil {
		return nil, err
	}
	if err := d.insert(start, len(items), n-deleteCount); err != nil {
		return nil, err
	}

	removed := slices.Clone(b.items[start : start+deleteCount])
	b.items = slices.Replace(b.items, start, start+deleteCount, items...)
	if want := n - deleteCount + len(items); len(b.items) != want {
		panic(fmt.Sprintf("delta: length after splice is %d, want %d", len(b.items), want))
	}
	b.d = d
	return removed, nil
}

// Truncate removes every element from start to the end.
func (b *Buffer[T]) Truncate(start int) ([]T, error) {
	return b.Splice(start, len(b.items))
}

// delete accounts for removing count elements at start from a sequence of
// length n. The zones are consumed left to right: pending front, synced
// prefix, synced suffix, pending back.
func (d *Delta) delete(start, count, n int) error {
	if count == 0 {
		return nil
	}
	take := func(c int) bool {
		count -= c
		n -= c
		return count == 0
	}

	if start < d.PushedFront {
		c := min(count, d.PushedFront-start)
		d.PushedFront -= c
		if take(c) {
			return nil
		}
	}

	if start == d.PushedFront {
		c := min(count, n-d.PushedFront-d.PushedBack)
		d.PoppedFront += c
		if take(c) {
			return nil
		}
	}

	if start > d.PushedFront && start < n-d.PushedBack {
		if start+count < n-d.PushedBack {
			return ErrSyncedMiddle
		}
		c := min(count, n-start-d.PushedBack)
		d.PoppedBack += c
		if take(c) {
			return nil
		}
	}

	c := min(count, n-start)
	d.PushedBack -= c
	if take(c) {
		return nil
	}
	panic(fmt.Sprintf("delta: %d deleted elements left unaccounted", count))
}

// insert accounts for inserting count elements at start into a sequence of
// length n.
func (d *Delta) insert(start, count, n int) error {
	if count == 0 {
		return nil
	}
	switch {
	case start <= d.PushedFront:
		d.PushedFront += count
	case start >= n-d.PushedBack:
		d.PushedBack += count
	default:
		return ErrInsertMiddle
	}
	return nil
}
