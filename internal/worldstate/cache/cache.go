// Package cache implements the in-memory temporal store: per-(path,
// branch) turn indexes, point retrieval with keyframe precedence and
// branch-parent fallback, and windowed fact iteration.
package cache

import (
	"iter"
	"sort"

	"github.com/louisbranch/worldline/internal/timeline"
	"github.com/louisbranch/worldline/internal/timeline/window"
	"github.com/louisbranch/worldline/internal/worldstate/domain"
	"github.com/louisbranch/worldline/internal/worldstate/keyframe"
)

// Cache maps (path, branch) to the turn index of recorded facts and
// orchestrates lookups across keyframes and branch ancestry. It does
// not lock; callers serialize access.
type Cache struct {
	graph  *timeline.Graph
	frames *keyframe.Store

	paths    map[domain.Path]map[string]*window.Turns[domain.Fact]
	byBranch map[string]map[domain.Path]struct{}
}

// New creates a cache backed by the given branch graph and keyframe
// store.
func New(graph *timeline.Graph, frames *keyframe.Store) *Cache {
	return &Cache{
		graph:    graph,
		frames:   frames,
		paths:    make(map[domain.Path]map[string]*window.Turns[domain.Fact]),
		byBranch: make(map[string]map[domain.Path]struct{}),
	}
}

// SetResult reports what a write did to existing history.
type SetResult struct {
	// Rewrote is true when the write landed before existing entries
	// and invalidated them.
	Rewrote bool
	// Dropped counts the future entries discarded by the rewrite.
	Dropped int
}

// Set records a fact, overwriting any fact at the same exact point
// (the most recently applied write is authoritative). A write before
// the end of recorded history for its (path, branch) discards the
// entries it invalidates.
func (c *Cache) Set(f domain.Fact) SetResult {
	tr := c.ensure(f.Path, f.Branch)
	var res SetResult
	if endTurn, endTick, ok := tr.End(); ok && timeline.At(endTurn, endTick).After(f.At) {
		res.Dropped = tr.TruncateAfter(f.At.Turn, f.At.Tick)
		res.Rewrote = true
	}
	tr.Set(f.At.Turn, f.At.Tick, f)
	return res
}

// Retrieve returns the value effective for path at (branch, at),
// searching the branch's own facts, then its keyframes, then the
// ancestor chain. ok is false when the variable is unset there.
//
// A fact later than the covering keyframe is trusted directly. At or
// before the keyframe, the keyframe is the authority: a path it holds
// resolves to its snapshot value, a path it omits is unset (keyframes
// are complete snapshots, so inherited values appear in them). Only a
// branch with neither covering facts nor keyframes defers to its
// parent, at the divergence point.
func (c *Cache) Retrieve(path domain.Path, branch string, at timeline.Time) (domain.Value, bool) {
	for _, step := range c.graph.Ancestry(branch, at) {
		var f domain.Fact
		var haveFact bool
		if tr := c.turns(path, step.Branch); tr != nil {
			f, haveFact = tr.Get(step.At.Turn, step.At.Tick)
		}
		kf, haveFrame := c.frames.NearestAtOrBefore(step.Branch, step.At)

		if haveFact && (!haveFrame || f.At.After(kf.At)) {
			if f.Deleted {
				return nil, false
			}
			return f.Value, true
		}
		if haveFrame {
			if v, ok := kf.State[path]; ok {
				return v, true
			}
			return nil, false
		}
	}
	return nil, false
}

// IterBetween iterates facts for one path in one branch between two
// time points: exclusive of from, inclusive of to, ascending. With
// from after to, the same window is walked in descending order. The
// sequence is lazy and restartable.
func (c *Cache) IterBetween(path domain.Path, branch string, from, to timeline.Time) iter.Seq[domain.Fact] {
	tr := c.turns(path, branch)
	if tr == nil {
		return func(func(domain.Fact) bool) {}
	}
	if from.After(to) {
		return tr.BetweenDesc(from.Turn, from.Tick, to.Turn, to.Tick)
	}
	return tr.Between(from.Turn, from.Tick, to.Turn, to.Tick)
}

// PathsTouched returns every path with at least one fact recorded in
// the branch lineage between the two points (order-insensitive). The
// result may include paths whose effective value did not change;
// delta computation filters those by comparing point values.
func (c *Cache) PathsTouched(branch string, a, b timeline.Time) []domain.Path {
	lo, hi := a, b
	if hi.Before(lo) {
		lo, hi = hi, lo
	}
	touched := make(map[domain.Path]struct{})
	for _, step := range c.graph.Ancestry(branch, hi) {
		if !step.At.After(lo) {
			break
		}
		for p := range c.byBranch[step.Branch] {
			if _, seen := touched[p]; seen {
				continue
			}
			tr := c.turns(p, step.Branch)
			if tr == nil {
				continue
			}
			for range tr.Between(lo.Turn, lo.Tick, step.At.Turn, step.At.Tick) {
				touched[p] = struct{}{}
				break
			}
		}
	}
	return sortedPaths(touched)
}

// Paths returns every path with history visible to the branch,
// including inherited ancestor history.
func (c *Cache) Paths(branch string, at timeline.Time) []domain.Path {
	found := make(map[domain.Path]struct{})
	for _, step := range c.graph.Ancestry(branch, at) {
		for p := range c.byBranch[step.Branch] {
			found[p] = struct{}{}
		}
		if kf, ok := c.frames.NearestAtOrBefore(step.Branch, step.At); ok {
			for p := range kf.State {
				found[p] = struct{}{}
			}
		}
	}
	return sortedPaths(found)
}

func (c *Cache) turns(path domain.Path, branch string) *window.Turns[domain.Fact] {
	branches, ok := c.paths[path]
	if !ok {
		return nil
	}
	return branches[branch]
}

func (c *Cache) ensure(path domain.Path, branch string) *window.Turns[domain.Fact] {
	branches, ok := c.paths[path]
	if !ok {
		branches = make(map[string]*window.Turns[domain.Fact])
		c.paths[path] = branches
	}
	tr, ok := branches[branch]
	if !ok {
		tr = &window.Turns[domain.Fact]{}
		branches[branch] = tr
		set, ok := c.byBranch[branch]
		if !ok {
			set = make(map[domain.Path]struct{})
			c.byBranch[branch] = set
		}
		set[path] = struct{}{}
	}
	return tr
}

func sortedPaths(set map[domain.Path]struct{}) []domain.Path {
	out := make([]domain.Path, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return out
}
