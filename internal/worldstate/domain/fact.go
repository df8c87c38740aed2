package domain

import (
	"reflect"

	"github.com/louisbranch/worldline/internal/timeline"
)

// Value is an opaque datum. The store never interprets values beyond
// equality comparison during delta computation.
type Value any

// ValueEqual reports whether two values are equal, descending into
// nested containers.
func ValueEqual(a, b Value) bool {
	return reflect.DeepEqual(a, b)
}

// Fact records that a variable took on a value (or was deleted) at a
// time point in a branch. Facts are immutable once recorded; a
// historical edit appends a superseding fact and discards the entries
// it invalidates.
type Fact struct {
	Path   Path
	Branch string
	At     timeline.Time
	Value  Value
	// Deleted marks a tombstone: the variable stops existing at At.
	Deleted bool
}

// Tombstone builds a deletion fact.
func Tombstone(path Path, branch string, at timeline.Time) Fact {
	return Fact{Path: path, Branch: branch, At: at, Deleted: true}
}

// Keyframe is a full snapshot of every tracked variable at one time
// point in a branch. Its content equals the result of replaying all
// facts up to and including At, so any keyframe but the first trunk
// one is redundant and deletable.
type Keyframe struct {
	Branch string
	At     timeline.Time
	State  map[Path]Value
}

// Change is one entry of a delta: the value before and after, with
// explicit presence markers so appearing and disappearing variables
// are representable.
type Change struct {
	Old    Value
	OldSet bool
	New    Value
	NewSet bool
}

// Inverse returns the change with old and new swapped.
func (c Change) Inverse() Change {
	return Change{Old: c.New, OldSet: c.NewSet, New: c.Old, NewSet: c.OldSet}
}

// Delta maps each path whose value differs between two time points to
// its change.
type Delta map[Path]Change
