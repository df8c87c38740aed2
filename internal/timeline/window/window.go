package window

import "iter"

type entry[V any] struct {
	index int
	value V
}

// Window holds (index, value) pairs sorted ascending by index, with at
// most one entry per index. Entries sit in two stacks around a cursor:
// past holds entries at or before the cursor in ascending order, future
// holds entries after it in descending order, so both stack tops face
// the cursor and a one-step move is a single push/pop pair.
type Window[V any] struct {
	past   []entry[V]
	future []entry[V]
}

// Seek positions the cursor so the entry with the greatest index <= i
// is on top of the past stack. Amortized O(1) when successive calls
// vary slowly; a jump over k entries costs O(k).
func (w *Window[V]) Seek(i int) {
	for n := len(w.future); n > 0 && w.future[n-1].index <= i; n = len(w.future) {
		w.past = append(w.past, w.future[n-1])
		w.future = w.future[:n-1]
	}
	for n := len(w.past); n > 0 && w.past[n-1].index > i; n = len(w.past) {
		w.future = append(w.future, w.past[n-1])
		w.past = w.past[:n-1]
	}
}

// Current returns the entry under the cursor: the one with the
// greatest index at or before the last Seek. ok is false when the
// cursor is before the first entry.
func (w *Window[V]) Current() (index int, value V, ok bool) {
	if n := len(w.past); n > 0 {
		e := w.past[n-1]
		return e.index, e.value, true
	}
	var zero V
	return 0, zero, false
}

// Get seeks to i and returns the effective value there.
func (w *Window[V]) Get(i int) (V, bool) {
	w.Seek(i)
	_, v, ok := w.Current()
	return v, ok
}

// GetIndexed seeks to i and returns the effective entry with the index
// it was recorded at.
func (w *Window[V]) GetIndexed(i int) (index int, value V, ok bool) {
	w.Seek(i)
	return w.Current()
}

// HasExact reports whether an entry exists at exactly i.
func (w *Window[V]) HasExact(i int) bool {
	w.Seek(i)
	n := len(w.past)
	return n > 0 && w.past[n-1].index == i
}

// Set inserts or overwrites the entry at index i, re-seating the
// cursor at it.
func (w *Window[V]) Set(i int, v V) {
	w.Seek(i)
	if n := len(w.past); n > 0 && w.past[n-1].index == i {
		w.past[n-1].value = v
		return
	}
	w.past = append(w.past, entry[V]{index: i, value: v})
}

// TruncateAfter discards every entry with index > i and returns how
// many were discarded.
func (w *Window[V]) TruncateAfter(i int) int {
	w.Seek(i)
	n := len(w.future)
	w.future = nil
	return n
}

// Len returns the number of entries.
func (w *Window[V]) Len() int {
	return len(w.past) + len(w.future)
}

// Empty reports whether the window holds no entries.
func (w *Window[V]) Empty() bool {
	return len(w.past) == 0 && len(w.future) == 0
}

// Beginning returns the smallest index, ok=false when empty.
func (w *Window[V]) Beginning() (int, bool) {
	if len(w.past) > 0 {
		return w.past[0].index, true
	}
	if n := len(w.future); n > 0 {
		return w.future[n-1].index, true
	}
	return 0, false
}

// End returns the greatest index, ok=false when empty.
func (w *Window[V]) End() (int, bool) {
	if len(w.future) > 0 {
		return w.future[0].index, true
	}
	if n := len(w.past); n > 0 {
		return w.past[n-1].index, true
	}
	return 0, false
}

// Last returns the entry at the greatest index without moving the
// cursor.
func (w *Window[V]) Last() (index int, value V, ok bool) {
	if len(w.future) > 0 {
		e := w.future[0]
		return e.index, e.value, true
	}
	if n := len(w.past); n > 0 {
		e := w.past[n-1]
		return e.index, e.value, true
	}
	var zero V
	return 0, zero, false
}

// All iterates every entry in ascending index order without moving the
// cursor.
func (w *Window[V]) All() iter.Seq2[int, V] {
	return func(yield func(int, V) bool) {
		for _, e := range w.past {
			if !yield(e.index, e.value) {
				return
			}
		}
		for i := len(w.future) - 1; i >= 0; i-- {
			if !yield(w.future[i].index, w.future[i].value) {
				return
			}
		}
	}
}

// Backward iterates every entry in descending index order without
// moving the cursor.
func (w *Window[V]) Backward() iter.Seq2[int, V] {
	return func(yield func(int, V) bool) {
		for _, e := range w.future {
			if !yield(e.index, e.value) {
				return
			}
		}
		for i := len(w.past) - 1; i >= 0; i-- {
			if !yield(w.past[i].index, w.past[i].value) {
				return
			}
		}
	}
}
