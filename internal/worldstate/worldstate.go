package worldstate

import (
	"github.com/louisbranch/worldline/internal/errors"
	"github.com/louisbranch/worldline/internal/timeline"
	"github.com/louisbranch/worldline/internal/worldstate/cache"
	"github.com/louisbranch/worldline/internal/worldstate/delta"
	"github.com/louisbranch/worldline/internal/worldstate/domain"
	"github.com/louisbranch/worldline/internal/worldstate/keyframe"
)

// InvalidationFunc is notified when an edit invalidates keyframes
// recorded at or after the edited point in a branch. A keyframe covers
// facts at its own point, so the bound is inclusive. The persistence
// layer regenerates or drops the affected keyframes.
type InvalidationFunc func(branch string, from timeline.Time, dropped []domain.Keyframe)

// RewriteFunc is notified when a fact lands before already-recorded
// history for its path and the later entries are discarded. The
// persistence layer prunes the superseded journal rows.
type RewriteFunc func(f domain.Fact, dropped int)

// Store is the world-state store facade: branch graph, fact cache,
// and keyframes behind one explicit object.
type Store struct {
	graph  *timeline.Graph
	frames *keyframe.Store
	cache  *cache.Cache
	deltas *delta.Builder

	invalidation []InvalidationFunc
	rewrite      []RewriteFunc
}

// NewStore creates an empty store for one simulation session.
func NewStore() *Store {
	graph := timeline.NewGraph()
	frames := keyframe.New()
	c := cache.New(graph, frames)
	return &Store{
		graph:  graph,
		frames: frames,
		cache:  c,
		deltas: delta.New(c),
	}
}

// OnKeyframeInvalidated registers a callback fired when a historical
// edit invalidates keyframes.
func (s *Store) OnKeyframeInvalidated(fn InvalidationFunc) {
	if fn != nil {
		s.invalidation = append(s.invalidation, fn)
	}
}

// OnHistoryRewritten registers a callback fired when a historical edit
// discards later entries for the edited path.
func (s *Store) OnHistoryRewritten(fn RewriteFunc) {
	if fn != nil {
		s.rewrite = append(s.rewrite, fn)
	}
}

// SetFact records a fact. Writes normally arrive with non-decreasing
// (turn, tick) per (branch, path); a write before already-recorded
// history is a historical edit that discards the entries and keyframes
// it invalidates and notifies the invalidation callbacks.
func (s *Store) SetFact(f domain.Fact) error {
	if f.Path.IsZero() {
		return errors.New(errors.CodeFactPathEmpty, "fact path is required")
	}
	if !f.Path.Valid() {
		return errors.WithMetadata(errors.CodeFactPathInvalid, "fact path does not survive the dotted round trip", map[string]string{
			"path": f.Path.String(),
		})
	}
	if !f.At.Valid() {
		return errors.WithMetadata(errors.CodeFactTimeNegative, "fact time is negative", map[string]string{
			"at": f.At.String(),
		})
	}
	if !s.graph.Has(f.Branch) {
		return errors.WithMetadata(errors.CodeBranchUnknown, "branch does not exist", map[string]string{
			"branch": f.Branch,
		})
	}

	result := s.cache.Set(f)
	s.graph.AdvanceEnd(f.Branch, f.At)

	if result.Rewrote {
		for _, fn := range s.rewrite {
			fn(f, result.Dropped)
		}
	}

	if dropped := s.frames.DeleteAtOrAfter(f.Branch, f.At); len(dropped) > 0 {
		for _, fn := range s.invalidation {
			fn(f.Branch, f.At, dropped)
		}
	}
	return nil
}

// GetValue returns the value of path at (branch, turn, tick), or
// ok=false when the variable is unset there. Unset is an ordinary
// result, not an error.
func (s *Store) GetValue(path domain.Path, branch string, at timeline.Time) (domain.Value, bool) {
	return s.cache.Retrieve(path, branch, at)
}

// GetDelta computes the changes between two time points of a branch:
// exclusive of from, inclusive of to. Swapped arguments produce the
// inverse (undo) delta.
func (s *Store) GetDelta(branch string, from, to timeline.Time) (domain.Delta, error) {
	if !s.graph.Has(branch) {
		return nil, errors.WithMetadata(errors.CodeBranchUnknown, "branch does not exist", map[string]string{
			"branch": branch,
		})
	}
	return s.deltas.Delta(branch, from, to), nil
}

// NewBranch creates a branch diverging from parent at the given time.
// An empty parent creates a trunk. Creation is atomic; on error no
// state changes.
func (s *Store) NewBranch(name, parent string, at timeline.Time) error {
	return s.graph.Create(name, parent, at)
}

// TakeKeyframe records a full-state snapshot for the branch. The
// snapshot must equal the result of replaying all facts up to and
// including at; the store trusts it without verification.
func (s *Store) TakeKeyframe(branch string, at timeline.Time, state map[domain.Path]domain.Value) error {
	if !at.Valid() {
		return errors.WithMetadata(errors.CodeKeyframeTimeNegative, "keyframe time is negative", map[string]string{
			"at": at.String(),
		})
	}
	if !s.graph.Has(branch) {
		return errors.WithMetadata(errors.CodeBranchUnknown, "branch does not exist", map[string]string{
			"branch": branch,
		})
	}
	for p := range state {
		if !p.Valid() {
			return errors.WithMetadata(errors.CodeFactPathInvalid, "keyframe state path does not survive the dotted round trip", map[string]string{
				"path": p.String(),
			})
		}
	}
	s.frames.Put(domain.Keyframe{Branch: branch, At: at, State: state})
	s.graph.AdvanceEnd(branch, at)
	return nil
}

// Snapshot computes the complete state at a time point, in the form
// TakeKeyframe accepts. Keyframe policies use this to materialize
// snapshots without replaying history themselves.
func (s *Store) Snapshot(branch string, at timeline.Time) map[domain.Path]domain.Value {
	state := make(map[domain.Path]domain.Value)
	for _, p := range s.cache.Paths(branch, at) {
		if v, ok := s.cache.Retrieve(p, branch, at); ok {
			state[p] = v
		}
	}
	return state
}

// PathsAt lists every path with a set value at the time point, sorted.
func (s *Store) PathsAt(branch string, at timeline.Time) []domain.Path {
	var out []domain.Path
	for _, p := range s.cache.Paths(branch, at) {
		if _, ok := s.cache.Retrieve(p, branch, at); ok {
			out = append(out, p)
		}
	}
	return out
}

// AdvanceBranchEnd records that the branch has history up to at. The
// end never retreats. Rebuilds use this to restore ends that facts no
// longer witness after journal pruning.
func (s *Store) AdvanceBranchEnd(branch string, at timeline.Time) error {
	if !s.graph.Has(branch) {
		return errors.WithMetadata(errors.CodeBranchUnknown, "branch does not exist", map[string]string{
			"branch": branch,
		})
	}
	if !at.Valid() {
		return errors.WithMetadata(errors.CodeFactTimeNegative, "time is negative", map[string]string{
			"at": at.String(),
		})
	}
	s.graph.AdvanceEnd(branch, at)
	return nil
}

// Branch returns the record of a branch.
func (s *Store) Branch(name string) (timeline.Branch, bool) {
	return s.graph.Branch(name)
}

// Branches lists every branch sorted by name.
func (s *Store) Branches() []timeline.Branch {
	return s.graph.Branches()
}

// LatestKeyframe returns the branch's most recent keyframe.
func (s *Store) LatestKeyframe(branch string) (domain.Keyframe, bool) {
	return s.frames.Latest(branch)
}
