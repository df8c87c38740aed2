// Package delta computes the set of variable changes between two time
// points in a branch lineage.
package delta

import (
	"github.com/louisbranch/worldline/internal/timeline"
	"github.com/louisbranch/worldline/internal/worldstate/cache"
	"github.com/louisbranch/worldline/internal/worldstate/domain"
)

// Builder diffs two points of one branch by comparing point values for
// every path touched between them. Both directions use the same
// method; a from after to simply produces the inverse delta.
type Builder struct {
	cache *cache.Cache
}

// New creates a delta builder over the cache.
func New(c *cache.Cache) *Builder {
	return &Builder{cache: c}
}

// Delta returns the changes distinguishing from and to: exclusive of
// from, inclusive of to. Paths whose facts in the window cancel out to
// an equal effective value are omitted.
func (b *Builder) Delta(branch string, from, to timeline.Time) domain.Delta {
	d := make(domain.Delta)
	for _, p := range b.cache.PathsTouched(branch, from, to) {
		oldV, oldSet := b.cache.Retrieve(p, branch, from)
		newV, newSet := b.cache.Retrieve(p, branch, to)
		if oldSet == newSet && (!oldSet || domain.ValueEqual(oldV, newV)) {
			continue
		}
		d[p] = domain.Change{Old: oldV, OldSet: oldSet, New: newV, NewSet: newSet}
	}
	return d
}
