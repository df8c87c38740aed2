package seed

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/worldline/internal/storage"
	"github.com/louisbranch/worldline/internal/telemetry"
	"github.com/louisbranch/worldline/internal/timeline"
	"github.com/louisbranch/worldline/internal/worldstate"
	"github.com/louisbranch/worldline/internal/worldstate/domain"
)

// Recorder writes through an in-memory worldstate store to the durable
// log, pruning journal rows and keyframes the store invalidates.
type Recorder struct {
	world *worldstate.Store
	store storage.Store

	factPrunes  []factPrune
	framePrunes []framePrune

	factCount   int
	branchCount int
	rewrites    int
}

type factPrune struct {
	branch string
	path   string
	at     timeline.Time
}

type framePrune struct {
	branch  string
	from    timeline.Time
	dropped int
}

// NewRecorder creates a recorder over an empty world.
func NewRecorder(store storage.Store) *Recorder {
	r := &Recorder{
		world: worldstate.NewStore(),
		store: store,
	}
	// Callbacks only queue work; the mutating method drains the queue
	// with its own context.
	r.world.OnHistoryRewritten(func(f domain.Fact, dropped int) {
		r.factPrunes = append(r.factPrunes, factPrune{branch: f.Branch, path: f.Path.String(), at: f.At})
		r.rewrites++
	})
	r.world.OnKeyframeInvalidated(func(branch string, from timeline.Time, dropped []domain.Keyframe) {
		r.framePrunes = append(r.framePrunes, framePrune{branch: branch, from: from, dropped: len(dropped)})
	})
	return r
}

// World exposes the in-memory store for reads.
func (r *Recorder) World() *worldstate.Store {
	return r.world
}

// NewBranch creates a branch in memory and persists its record.
func (r *Recorder) NewBranch(ctx context.Context, name, parent string, at timeline.Time) error {
	if err := r.world.NewBranch(name, parent, at); err != nil {
		return err
	}
	if err := r.putBranch(ctx, name); err != nil {
		return err
	}
	r.branchCount++
	emitter := telemetry.NewEmitter(r.store)
	if err := emitter.Emit(ctx, storage.TelemetryEvent{
		EventName: telemetry.EventBranchCreated,
		Branch:    name,
		Attributes: map[string]any{
			"parent": parent,
			"at":     at.String(),
		},
	}); err != nil {
		return fmt.Errorf("emit branch created: %w", err)
	}
	return nil
}

// SetFact records a fact in memory and appends it to the journal,
// pruning whatever the write invalidated.
func (r *Recorder) SetFact(ctx context.Context, f domain.Fact) error {
	if err := r.world.SetFact(f); err != nil {
		return err
	}
	if err := r.drainPrunes(ctx); err != nil {
		return err
	}
	valueJSON, err := domain.EncodeValue(f.Value)
	if err != nil {
		return err
	}
	if f.Deleted {
		valueJSON = nil
	}
	if _, err := r.store.AppendFact(ctx, storage.FactRecord{
		Branch:    f.Branch,
		Turn:      f.At.Turn,
		Tick:      f.At.Tick,
		Path:      f.Path.String(),
		ValueJSON: valueJSON,
		Deleted:   f.Deleted,
	}); err != nil {
		return fmt.Errorf("append fact: %w", err)
	}
	r.factCount++
	return r.putBranch(ctx, f.Branch)
}

// TakeKeyframe snapshots the branch at the given point, in memory and
// in the durable log.
func (r *Recorder) TakeKeyframe(ctx context.Context, branch string, at timeline.Time) error {
	state := r.world.Snapshot(branch, at)
	if err := r.world.TakeKeyframe(branch, at, state); err != nil {
		return err
	}
	stateJSON, err := domain.EncodeState(state)
	if err != nil {
		return err
	}
	if err := r.store.PutKeyframe(ctx, storage.KeyframeRecord{
		Branch:    branch,
		Turn:      at.Turn,
		Tick:      at.Tick,
		StateJSON: stateJSON,
	}); err != nil {
		return fmt.Errorf("put keyframe: %w", err)
	}
	return r.putBranch(ctx, branch)
}

func (r *Recorder) drainPrunes(ctx context.Context) error {
	emitter := telemetry.NewEmitter(r.store)
	var traceID string
	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		traceID = sc.TraceID().String()
	}
	for _, p := range r.factPrunes {
		if _, err := r.store.DeleteFactsAfter(ctx, p.branch, p.path, p.at.Turn, p.at.Tick); err != nil {
			return fmt.Errorf("prune facts: %w", err)
		}
		if err := emitter.Emit(ctx, storage.TelemetryEvent{
			EventName: telemetry.EventHistoryRewritten,
			Severity:  string(telemetry.SeverityWarn),
			Branch:    p.branch,
			Path:      p.path,
			Attributes: map[string]any{
				"at":       p.at.String(),
				"trace_id": traceID,
			},
		}); err != nil {
			return fmt.Errorf("emit history rewritten: %w", err)
		}
	}
	r.factPrunes = r.factPrunes[:0]

	for _, p := range r.framePrunes {
		if _, err := r.store.DeleteKeyframesAtOrAfter(ctx, p.branch, p.from.Turn, p.from.Tick); err != nil {
			return fmt.Errorf("prune keyframes: %w", err)
		}
		if err := emitter.Emit(ctx, storage.TelemetryEvent{
			EventName: telemetry.EventKeyframeInvalidated,
			Severity:  string(telemetry.SeverityWarn),
			Branch:    p.branch,
			Attributes: map[string]any{
				"from":    p.from.String(),
				"dropped": p.dropped,
			},
		}); err != nil {
			return fmt.Errorf("emit keyframe invalidated: %w", err)
		}
	}
	r.framePrunes = r.framePrunes[:0]
	return nil
}

func (r *Recorder) putBranch(ctx context.Context, name string) error {
	b, ok := r.world.Branch(name)
	if !ok {
		return fmt.Errorf("branch %s missing after write", name)
	}
	if err := r.store.PutBranch(ctx, storage.BranchRecord{
		Name:      b.Name,
		Parent:    b.Parent,
		StartTurn: b.Start.Turn,
		StartTick: b.Start.Tick,
		EndTurn:   b.End.Turn,
		EndTick:   b.End.Tick,
	}); err != nil {
		return fmt.Errorf("put branch: %w", err)
	}
	return nil
}

func (r *Recorder) seededEvent() storage.TelemetryEvent {
	return storage.TelemetryEvent{
		EventName: telemetry.EventWorldSeeded,
		Attributes: map[string]any{
			"facts":    r.factCount,
			"branches": r.branchCount,
			"rewrites": r.rewrites,
		},
	}
}
