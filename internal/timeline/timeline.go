package timeline

import (
	"fmt"
	"strconv"
	"strings"
)

// Time is a point within a branch: a coarse turn and a tick within it.
// The zero value is the start of history.
type Time struct {
	Turn int
	Tick int
}

// At builds a Time from a turn and tick.
func At(turn, tick int) Time {
	return Time{Turn: turn, Tick: tick}
}

// Compare orders two times within the same branch.
// It returns -1 when t precedes o, 0 when equal, and 1 when t follows o.
func (t Time) Compare(o Time) int {
	switch {
	case t.Turn < o.Turn:
		return -1
	case t.Turn > o.Turn:
		return 1
	case t.Tick < o.Tick:
		return -1
	case t.Tick > o.Tick:
		return 1
	default:
		return 0
	}
}

// Before reports whether t strictly precedes o.
func (t Time) Before(o Time) bool {
	return t.Compare(o) < 0
}

// After reports whether t strictly follows o.
func (t Time) After(o Time) bool {
	return t.Compare(o) > 0
}

// Min returns the earlier of t and o.
func (t Time) Min(o Time) Time {
	if o.Before(t) {
		return o
	}
	return t
}

// Valid reports whether both components are non-negative.
func (t Time) Valid() bool {
	return t.Turn >= 0 && t.Tick >= 0
}

// String renders the time as "turn:tick".
func (t Time) String() string {
	return fmt.Sprintf("%d:%d", t.Turn, t.Tick)
}

// ParseTime parses the "turn:tick" form produced by String.
func ParseTime(s string) (Time, error) {
	turnPart, tickPart, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Time{}, fmt.Errorf("parse time %q: want turn:tick", s)
	}
	turn, err := strconv.Atoi(turnPart)
	if err != nil {
		return Time{}, fmt.Errorf("parse time %q: turn: %w", s, err)
	}
	tick, err := strconv.Atoi(tickPart)
	if err != nil {
		return Time{}, fmt.Errorf("parse time %q: tick: %w", s, err)
	}
	t := Time{Turn: turn, Tick: tick}
	if !t.Valid() {
		return Time{}, fmt.Errorf("parse time %q: negative component", s)
	}
	return t, nil
}
