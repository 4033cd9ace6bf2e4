// Package timeline holds the sorted, tick keyed container every chart track
// is stored in.
//
// Parsers emit events in non-decreasing tick order, so the container is tuned
// for appends at (or coalescing into) the end. Binary search is only used by
// the rare non-monotonic emitters such as sync track markers.
package timeline

import (
	"fmt"
	"sort"

	"github.com/jsphweid/yargchart/model"
)

// DefaultNoteCapacity is the pre-size used for note lists. Most charts fit in
// it without a single regrowth.
const DefaultNoteCapacity = 5000

const (
	// TrimExcess leaves lists below this capacity alone
	minTrimCapacity = 16
	// and only shrinks when less than this share of the buffer is used.
	trimRatio = 0.9
)

type Entry[T any] struct {
	Key   model.DualTime
	Value T
}

type Timeline[T any] struct {
	entries  []Entry[T]
	disposed bool
}

func New[T any](capacity int) *Timeline[T] {
	return &Timeline[T]{entries: make([]Entry[T], 0, capacity)}
}

func (t *Timeline[T]) Len() int {
	return len(t.entries)
}

func (t *Timeline[T]) Cap() int {
	return cap(t.entries)
}

func (t *Timeline[T]) IsEmpty() bool {
	return len(t.entries) == 0
}

// Entries is a read-only view; it is invalidated by any mutation.
func (t *Timeline[T]) Entries() []Entry[T] {
	return t.entries
}

// At panics when i is out of range.
func (t *Timeline[T]) At(i int) *Entry[T] {
	return &t.entries[i]
}

// Last returns nil on an empty list.
func (t *Timeline[T]) Last() *Entry[T] {
	if len(t.entries) == 0 {
		return nil
	}
	return &t.entries[len(t.entries)-1]
}

func (t *Timeline[T]) grow() {
	if len(t.entries) < cap(t.entries) {
		return
	}
	size := cap(t.entries) * 2
	if size == 0 {
		size = 4
	}
	grown := make([]Entry[T], len(t.entries), size)
	copy(grown, t.entries)
	t.entries = grown
}

func (t *Timeline[T]) checkUsable() {
	if t.disposed {
		panic("timeline: use after dispose")
	}
}

// Append adds an entry after the current last one. key must be strictly
// greater than the last key: anything else is a parser bug.
func (t *Timeline[T]) Append(key model.DualTime, value T) *T {
	t.checkUsable()
	if n := len(t.entries); n > 0 && t.entries[n-1].Key.Ticks >= key.Ticks {
		panic(fmt.Sprintf("timeline: append at tick %d is not after last tick %d", key.Ticks, t.entries[n-1].Key.Ticks))
	}
	t.grow()
	t.entries = append(t.entries, Entry[T]{Key: key, Value: value})
	return &t.entries[len(t.entries)-1].Value
}

// GetOrAppendLast returns the last value when it sits at key, otherwise it
// appends a zero value at key. Simultaneous events coalesce through here.
func (t *Timeline[T]) GetOrAppendLast(key model.DualTime) *T {
	t.checkUsable()
	if n := len(t.entries); n > 0 && t.entries[n-1].Key.Ticks == key.Ticks {
		return &t.entries[n-1].Value
	}
	var zero T
	return t.Append(key, zero)
}

// TryGetLastValue returns the last value if it sits exactly at ticks.
func (t *Timeline[T]) TryGetLastValue(ticks int64) (*T, bool) {
	if n := len(t.entries); n > 0 && t.entries[n-1].Key.Ticks == ticks {
		return &t.entries[n-1].Value, true
	}
	return nil, false
}

// ValidateLastKey reports whether the last entry sits exactly at ticks.
func (t *Timeline[T]) ValidateLastKey(ticks int64) bool {
	n := len(t.entries)
	return n > 0 && t.entries[n-1].Key.Ticks == ticks
}

// TraverseBackwardsUntil scans from the end and returns the index of the last
// entry whose key is at or before ticks, or -1. Cost is the distance from the
// end, which is small for paired on/off events.
func (t *Timeline[T]) TraverseBackwardsUntil(ticks int64) int {
	i := len(t.entries) - 1
	for i >= 0 && t.entries[i].Key.Ticks > ticks {
		i--
	}
	return i
}

// Find binary searches for ticks. When missing, the returned index is where
// it would be inserted.
func (t *Timeline[T]) Find(ticks int64) (int, bool) {
	i := sort.Search(len(t.entries), func(i int) bool {
		return t.entries[i].Key.Ticks >= ticks
	})
	return i, i < len(t.entries) && t.entries[i].Key.Ticks == ticks
}

// FindValue returns the value at ticks, if any.
func (t *Timeline[T]) FindValue(ticks int64) (*T, bool) {
	i, ok := t.Find(ticks)
	if !ok {
		return nil, false
	}
	return &t.entries[i].Value, true
}

// InsertAt places a new zero value at index i, shifting later entries. The
// caller guarantees key fits between its neighbours.
func (t *Timeline[T]) InsertAt(i int, key model.DualTime) *T {
	t.checkUsable()
	if i < 0 || i > len(t.entries) {
		panic(fmt.Sprintf("timeline: insert index %d out of range [0, %d]", i, len(t.entries)))
	}
	if i > 0 && t.entries[i-1].Key.Ticks >= key.Ticks ||
		i < len(t.entries) && t.entries[i].Key.Ticks <= key.Ticks {
		panic(fmt.Sprintf("timeline: insert at tick %d breaks ordering", key.Ticks))
	}
	t.grow()
	var zero Entry[T]
	t.entries = append(t.entries, zero)
	copy(t.entries[i+1:], t.entries[i:])
	t.entries[i] = Entry[T]{Key: key}
	return &t.entries[i].Value
}

// TryFindOrInsert returns the value at key, inserting a zero value in sorted
// position when missing. Meant for the rare out-of-order emitter.
func (t *Timeline[T]) TryFindOrInsert(key model.DualTime) *T {
	t.checkUsable()
	if n := len(t.entries); n == 0 || t.entries[n-1].Key.Ticks < key.Ticks {
		var zero T
		return t.Append(key, zero)
	}
	i, ok := t.Find(key.Ticks)
	if ok {
		return &t.entries[i].Value
	}
	return t.InsertAt(i, key)
}

// Pop removes the last entry.
func (t *Timeline[T]) Pop() {
	t.checkUsable()
	if len(t.entries) == 0 {
		panic("timeline: pop on empty list")
	}
	var zero Entry[T]
	t.entries[len(t.entries)-1] = zero
	t.entries = t.entries[:len(t.entries)-1]
}

// CopyFrom replaces the contents with a copy of other's entries.
func (t *Timeline[T]) CopyFrom(other *Timeline[T]) {
	t.checkUsable()
	if cap(t.entries) < len(other.entries) {
		t.entries = make([]Entry[T], len(other.entries))
	} else {
		t.entries = t.entries[:len(other.entries)]
	}
	copy(t.entries, other.entries)
}

// Move hands the buffer to a new container. The source ends up disposed and
// empty, so disposing it again is harmless.
func (t *Timeline[T]) Move() *Timeline[T] {
	t.checkUsable()
	moved := &Timeline[T]{entries: t.entries}
	t.entries = nil
	t.disposed = true
	return moved
}

// TrimExcess shrinks the buffer to its length when enough of it is unused.
func (t *Timeline[T]) TrimExcess() {
	t.checkUsable()
	n, c := len(t.entries), cap(t.entries)
	if c < minTrimCapacity || float64(n) >= float64(c)*trimRatio {
		return
	}
	trimmed := make([]Entry[T], n)
	copy(trimmed, t.entries)
	t.entries = trimmed
}

func (t *Timeline[T]) Clear() {
	t.checkUsable()
	var zero Entry[T]
	for i := range t.entries {
		t.entries[i] = zero
	}
	t.entries = t.entries[:0]
}

// Dispose releases the buffer. Only the first call does anything.
func (t *Timeline[T]) Dispose() {
	if t == nil || t.disposed {
		return
	}
	t.entries = nil
	t.disposed = true
}

func (t *Timeline[T]) IsDisposed() bool {
	return t.disposed
}
