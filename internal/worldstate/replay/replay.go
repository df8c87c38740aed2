// Package replay rebuilds an in-memory worldstate store from the
// durable log.
package replay

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/louisbranch/worldline/internal/storage"
	"github.com/louisbranch/worldline/internal/timeline"
	"github.com/louisbranch/worldline/internal/worldstate"
	"github.com/louisbranch/worldline/internal/worldstate/domain"
)

const replayPageSize = 200

// Source is the slice of storage a rebuild reads from.
type Source interface {
	storage.BranchStore
	storage.FactStore
	storage.KeyframeStore
}

// Options configures rebuild behavior.
type Options struct {
	// UntilTurn bounds the rebuild: facts and keyframes after this turn
	// are skipped. Negative means unbounded.
	UntilTurn int
	// PageSize overrides the fact page size when positive.
	PageSize int
	// Filter skips fact records it rejects.
	Filter func(storage.FactRecord) bool
}

// Rebuild loads every branch, fact, and keyframe into a fresh store.
func Rebuild(ctx context.Context, src Source) (*worldstate.Store, error) {
	return RebuildWith(ctx, src, Options{UntilTurn: -1})
}

// RebuildWith loads the durable log with additional filtering and
// bounds. Branches load parent-first so each divergence point exists
// before its children; within a branch, facts load in insertion order
// and keyframes after facts.
func RebuildWith(ctx context.Context, src Source, options Options) (*worldstate.Store, error) {
	if src == nil {
		return nil, fmt.Errorf("replay source is not configured")
	}

	tracer := otel.Tracer("worldline/replay")
	ctx, span := tracer.Start(ctx, "replay.rebuild")
	defer span.End()

	branches, err := src.ListBranches(ctx)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	ordered, err := parentFirst(branches)
	if err != nil {
		return nil, err
	}

	store := worldstate.NewStore()
	var factCount int
	for _, branch := range ordered {
		if err := store.NewBranch(branch.Name, branch.Parent, timeline.At(branch.StartTurn, branch.StartTick)); err != nil {
			return nil, fmt.Errorf("recreate branch %s: %w", branch.Name, err)
		}
		loaded, err := loadFacts(ctx, src, store, branch.Name, options)
		if err != nil {
			return nil, err
		}
		factCount += loaded
		if err := loadKeyframes(ctx, src, store, branch.Name, options); err != nil {
			return nil, err
		}
		if err := store.AdvanceBranchEnd(branch.Name, timeline.At(branch.EndTurn, branch.EndTick)); err != nil {
			return nil, fmt.Errorf("restore branch end %s: %w", branch.Name, err)
		}
	}

	span.SetAttributes(
		attribute.Int("worldline.branches", len(ordered)),
		attribute.Int("worldline.facts", factCount),
	)
	return store, nil
}

func loadFacts(ctx context.Context, src Source, store *worldstate.Store, branch string, options Options) (int, error) {
	pageSize := options.PageSize
	if pageSize <= 0 {
		pageSize = replayPageSize
	}

	var lastID int64
	var loaded int
	for {
		page, err := src.ListFacts(ctx, branch, lastID, pageSize)
		if err != nil {
			return loaded, fmt.Errorf("list facts %s: %w", branch, err)
		}
		if len(page) == 0 {
			return loaded, nil
		}
		for _, rec := range page {
			lastID = rec.ID
			if options.UntilTurn >= 0 && rec.Turn > options.UntilTurn {
				continue
			}
			if options.Filter != nil && !options.Filter(rec) {
				continue
			}
			fact, err := recordToFact(rec)
			if err != nil {
				return loaded, fmt.Errorf("fact %s id=%d: %w", branch, rec.ID, err)
			}
			if err := store.SetFact(fact); err != nil {
				return loaded, fmt.Errorf("apply fact %s id=%d: %w", branch, rec.ID, err)
			}
			loaded++
		}
	}
}

func loadKeyframes(ctx context.Context, src Source, store *worldstate.Store, branch string, options Options) error {
	frames, err := src.ListKeyframes(ctx, branch)
	if err != nil {
		return fmt.Errorf("list keyframes %s: %w", branch, err)
	}
	for _, rec := range frames {
		if options.UntilTurn >= 0 && rec.Turn > options.UntilTurn {
			continue
		}
		state, err := domain.DecodeState(rec.StateJSON)
		if err != nil {
			return fmt.Errorf("keyframe %s %d:%d: %w", branch, rec.Turn, rec.Tick, err)
		}
		if err := store.TakeKeyframe(branch, timeline.At(rec.Turn, rec.Tick), state); err != nil {
			return fmt.Errorf("apply keyframe %s %d:%d: %w", branch, rec.Turn, rec.Tick, err)
		}
	}
	return nil
}

func recordToFact(rec storage.FactRecord) (domain.Fact, error) {
	path, err := domain.ParsePath(rec.Path)
	if err != nil {
		return domain.Fact{}, err
	}
	fact := domain.Fact{
		Path:    path,
		Branch:  rec.Branch,
		At:      timeline.At(rec.Turn, rec.Tick),
		Deleted: rec.Deleted,
	}
	if !rec.Deleted {
		value, err := domain.DecodeValue(rec.ValueJSON)
		if err != nil {
			return domain.Fact{}, err
		}
		fact.Value = value
	}
	return fact, nil
}

// parentFirst orders branches so every parent precedes its children.
func parentFirst(branches []storage.BranchRecord) ([]storage.BranchRecord, error) {
	placed := make(map[string]bool, len(branches))
	ordered := make([]storage.BranchRecord, 0, len(branches))
	remaining := branches
	for len(remaining) > 0 {
		var deferred []storage.BranchRecord
		progressed := false
		for _, branch := range remaining {
			if branch.Parent == "" || placed[branch.Parent] {
				placed[branch.Name] = true
				ordered = append(ordered, branch)
				progressed = true
				continue
			}
			deferred = append(deferred, branch)
		}
		if !progressed {
			return nil, fmt.Errorf("branch %s references missing or cyclic parent %s", deferred[0].Name, deferred[0].Parent)
		}
		remaining = deferred
	}
	return ordered, nil
}
