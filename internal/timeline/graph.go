package timeline

import (
	"sort"

	"github.com/louisbranch/worldline/internal/errors"
)

// Branch records one named timeline in the forest.
type Branch struct {
	// Name identifies the branch. Names are assigned by the caller.
	Name string
	// Parent is the branch this one diverged from, empty for a trunk.
	Parent string
	// Start is the divergence point in the parent's time, zero for a trunk.
	Start Time
	// End is the latest time recorded in this branch.
	End Time
}

// IsTrunk reports whether the branch has no parent.
func (b Branch) IsTrunk() bool {
	return b.Parent == ""
}

// Step is one hop of an ancestry walk: a branch and the effective
// time at which the walk entered it.
type Step struct {
	Branch string
	At     Time
}

// Graph is the branch forest: every branch's parent and divergence
// point, plus end-of-history bookkeeping per branch.
type Graph struct {
	branches map[string]Branch
}

// NewGraph creates an empty branch forest.
func NewGraph() *Graph {
	return &Graph{branches: make(map[string]Branch)}
}

// Create adds a branch. An empty parent creates a trunk. Creation is
// atomic: on error no state changes. A non-trunk branch must name an
// existing parent and a divergence point the parent has reached.
func (g *Graph) Create(name, parent string, at Time) error {
	if name == "" {
		return errors.New(errors.CodeBranchNameEmpty, "branch name is required")
	}
	if !at.Valid() {
		return errors.WithMetadata(errors.CodeBranchDivergenceUnreachable, "divergence point is negative", map[string]string{
			"branch": name,
			"at":     at.String(),
		})
	}
	if _, ok := g.branches[name]; ok {
		return errors.WithMetadata(errors.CodeBranchExists, "branch already exists", map[string]string{
			"branch": name,
		})
	}
	if parent == "" {
		g.branches[name] = Branch{Name: name}
		return nil
	}
	if name == parent {
		return errors.WithMetadata(errors.CodeBranchCycle, "branch cannot be its own parent", map[string]string{
			"branch": name,
		})
	}
	p, ok := g.branches[parent]
	if !ok {
		return errors.WithMetadata(errors.CodeBranchUnknownParent, "parent branch does not exist", map[string]string{
			"branch": name,
			"parent": parent,
		})
	}
	if at.After(p.End) {
		return errors.WithMetadata(errors.CodeBranchDivergenceUnreachable, "divergence point beyond parent history", map[string]string{
			"branch":     name,
			"parent":     parent,
			"at":         at.String(),
			"parent_end": p.End.String(),
		})
	}
	g.branches[name] = Branch{Name: name, Parent: parent, Start: at, End: at}
	return nil
}

// Branch returns the record for a branch name.
func (g *Graph) Branch(name string) (Branch, bool) {
	b, ok := g.branches[name]
	return b, ok
}

// Has reports whether the branch exists.
func (g *Graph) Has(name string) bool {
	_, ok := g.branches[name]
	return ok
}

// Parent returns the parent branch and divergence point, or ok=false
// for a trunk or unknown branch.
func (g *Graph) Parent(name string) (string, Time, bool) {
	b, ok := g.branches[name]
	if !ok || b.IsTrunk() {
		return "", Time{}, false
	}
	return b.Parent, b.Start, true
}

// AdvanceEnd records that the branch has history up to at. Earlier
// times are ignored.
func (g *Graph) AdvanceEnd(name string, at Time) {
	b, ok := g.branches[name]
	if !ok {
		return
	}
	if at.After(b.End) {
		b.End = at
		g.branches[name] = b
	}
}

// Ancestry walks from the named branch toward its trunk. The first
// step is (name, at); each following step is the parent branch at the
// divergence point, clipped so the effective time never moves forward.
// Creation-time validation makes cycles impossible, but the walk still
// guards against them so a corrupted graph cannot loop forever.
func (g *Graph) Ancestry(name string, at Time) []Step {
	var steps []Step
	seen := make(map[string]bool)
	eff := at
	for name != "" && !seen[name] {
		b, ok := g.branches[name]
		if !ok {
			break
		}
		seen[name] = true
		steps = append(steps, Step{Branch: name, At: eff})
		if b.IsTrunk() {
			break
		}
		eff = eff.Min(b.Start)
		name = b.Parent
	}
	return steps
}

// Branches lists every branch sorted by name.
func (g *Graph) Branches() []Branch {
	out := make([]Branch, 0, len(g.branches))
	for _, b := range g.branches {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
