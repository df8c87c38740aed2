// Package keyframe holds full-state snapshots per branch and answers
// nearest-at-or-before queries. Keyframes bound how far back a lookup
// must search; they are trusted without replaying history.
package keyframe

import (
	"github.com/louisbranch/worldline/internal/timeline"
	"github.com/louisbranch/worldline/internal/timeline/window"
	"github.com/louisbranch/worldline/internal/worldstate/domain"
)

// Store indexes keyframes by branch and time.
type Store struct {
	branches map[string]*window.Turns[domain.Keyframe]
}

// New creates an empty keyframe store.
func New() *Store {
	return &Store{branches: make(map[string]*window.Turns[domain.Keyframe])}
}

// Put records a keyframe, overwriting any existing one at the same
// (branch, turn, tick).
func (s *Store) Put(kf domain.Keyframe) {
	tr := s.branches[kf.Branch]
	if tr == nil {
		tr = &window.Turns[domain.Keyframe]{}
		s.branches[kf.Branch] = tr
	}
	tr.Set(kf.At.Turn, kf.At.Tick, kf)
}

// NearestAtOrBefore returns the latest keyframe of the branch at or
// before the given time. Only the branch's own keyframes are
// considered; inherited history is the branch graph's concern.
func (s *Store) NearestAtOrBefore(branch string, at timeline.Time) (domain.Keyframe, bool) {
	tr := s.branches[branch]
	if tr == nil {
		return domain.Keyframe{}, false
	}
	return tr.Get(at.Turn, at.Tick)
}

// Latest returns the branch's most recent keyframe.
func (s *Store) Latest(branch string) (domain.Keyframe, bool) {
	tr := s.branches[branch]
	if tr == nil {
		return domain.Keyframe{}, false
	}
	turn, tick, ok := tr.End()
	if !ok {
		return domain.Keyframe{}, false
	}
	return tr.Get(turn, tick)
}

// DeleteAtOrAfter drops every keyframe of the branch at or after the
// given time and returns the dropped frames, newest last. Used when an
// edit invalidates snapshots: a keyframe covers facts at its own point,
// so a fact landing exactly on one invalidates it too.
func (s *Store) DeleteAtOrAfter(branch string, at timeline.Time) []domain.Keyframe {
	tr := s.branches[branch]
	if tr == nil {
		return nil
	}
	endTurn, endTick, ok := tr.End()
	if !ok {
		return nil
	}
	var dropped []domain.Keyframe
	if tr.HasExact(at.Turn, at.Tick) {
		if kf, ok := tr.Get(at.Turn, at.Tick); ok {
			dropped = append(dropped, kf)
		}
	}
	for kf := range tr.Between(at.Turn, at.Tick, endTurn, endTick) {
		dropped = append(dropped, kf)
	}
	if len(dropped) == 0 {
		return nil
	}
	// Truncate past the newest surviving frame; Get with tick-1 finds
	// the frame strictly before at, carrying across turn boundaries.
	if prev, ok := tr.Get(at.Turn, at.Tick-1); ok {
		tr.TruncateAfter(prev.At.Turn, prev.At.Tick)
	} else {
		delete(s.branches, branch)
	}
	return dropped
}
