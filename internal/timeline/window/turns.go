package window

import "iter"

// Turns is a Window of turns whose values are Windows of ticks: the
// two-level index behind per-(branch, path) history. A value set at
// some (turn, tick) stays effective through later turns until
// overwritten, so lookups carry the last value of an earlier turn
// forward across turn boundaries.
type Turns[V any] struct {
	turns Window[*Window[V]]
}

// Set records v at (turn, tick), creating the turn's tick window on
// first write.
func (t *Turns[V]) Set(turn, tick int, v V) {
	t.turns.Seek(turn)
	if idx, ticks, ok := t.turns.Current(); ok && idx == turn {
		ticks.Set(tick, v)
		return
	}
	ticks := &Window[V]{}
	ticks.Set(tick, v)
	t.turns.Set(turn, ticks)
}

// Get returns the value effective at (turn, tick). When the turn has
// no entry at or before tick, the final value of the nearest earlier
// turn carries forward. ok is false when no write precedes the point.
func (t *Turns[V]) Get(turn, tick int) (V, bool) {
	t.turns.Seek(turn)
	for i := len(t.turns.past) - 1; i >= 0; i-- {
		e := t.turns.past[i]
		if e.index == turn {
			if v, ok := e.value.Get(tick); ok {
				return v, true
			}
			// The turn's first write is after tick; carry from the
			// previous turn.
			continue
		}
		if _, v, ok := e.value.Last(); ok {
			return v, true
		}
	}
	var zero V
	return zero, false
}

// HasExact reports whether a value was recorded at exactly (turn, tick).
func (t *Turns[V]) HasExact(turn, tick int) bool {
	t.turns.Seek(turn)
	idx, ticks, ok := t.turns.Current()
	return ok && idx == turn && ticks.HasExact(tick)
}

// TruncateAfter discards every entry after (turn, tick): later turns
// entirely and later ticks within the turn. It returns how many
// entries were discarded. Turn windows never stay behind empty.
func (t *Turns[V]) TruncateAfter(turn, tick int) int {
	t.turns.Seek(turn)
	dropped := 0
	for _, e := range t.turns.future {
		dropped += e.value.Len()
	}
	t.turns.future = nil
	if idx, ticks, ok := t.turns.Current(); ok && idx == turn {
		dropped += ticks.TruncateAfter(tick)
		if ticks.Empty() {
			t.turns.past = t.turns.past[:len(t.turns.past)-1]
		}
	}
	return dropped
}

// Empty reports whether no writes are recorded.
func (t *Turns[V]) Empty() bool {
	return t.turns.Empty()
}

// Len returns the total number of recorded writes.
func (t *Turns[V]) Len() int {
	n := 0
	for _, ticks := range t.turns.All() {
		n += ticks.Len()
	}
	return n
}

// Beginning returns the earliest recorded (turn, tick).
func (t *Turns[V]) Beginning() (turn, tick int, ok bool) {
	first, ok := t.turns.Beginning()
	if !ok {
		return 0, 0, false
	}
	t.turns.Seek(first)
	_, ticks, _ := t.turns.Current()
	tk, ok := ticks.Beginning()
	return first, tk, ok
}

// End returns the latest recorded (turn, tick).
func (t *Turns[V]) End() (turn, tick int, ok bool) {
	tn, ticks, ok := t.turns.Last()
	if !ok {
		return 0, 0, false
	}
	tk, _, ok := ticks.Last()
	return tn, tk, ok
}

// Between iterates values recorded strictly after (fromTurn, fromTick)
// and at or before (toTurn, toTick), in ascending time order. The
// cursor does not move; iterating the sequence again restarts it.
func (t *Turns[V]) Between(fromTurn, fromTick, toTurn, toTick int) iter.Seq[V] {
	return func(yield func(V) bool) {
		for turn, ticks := range t.turns.All() {
			if turn < fromTurn {
				continue
			}
			if turn > toTurn {
				return
			}
			for tick, v := range ticks.All() {
				if turn == fromTurn && tick <= fromTick {
					continue
				}
				if turn == toTurn && tick > toTick {
					break
				}
				if !yield(v) {
					return
				}
			}
		}
	}
}

// BetweenDesc iterates values at or before (hiTurn, hiTick) and
// strictly after (loTurn, loTick), in descending time order.
func (t *Turns[V]) BetweenDesc(hiTurn, hiTick, loTurn, loTick int) iter.Seq[V] {
	return func(yield func(V) bool) {
		for turn, ticks := range t.turns.Backward() {
			if turn > hiTurn {
				continue
			}
			if turn < loTurn {
				return
			}
			for tick, v := range ticks.Backward() {
				if turn == hiTurn && tick > hiTick {
					continue
				}
				if turn == loTurn && tick <= loTick {
					break
				}
				if !yield(v) {
					return
				}
			}
		}
	}
}
