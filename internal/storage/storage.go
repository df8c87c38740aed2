package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// FactRecord is one persisted fact row. ID is assigned on append and
// breaks ties between facts recorded at the same time point, so replay
// in (turn, tick, id) order reproduces last-write-wins.
type FactRecord struct {
	ID         int64
	Branch     string
	Turn       int
	Tick       int
	Path       string
	ValueJSON  []byte
	Deleted    bool
	RecordedAt time.Time
}

// KeyframeRecord is one persisted full-state snapshot. StateJSON maps
// dotted path strings to values.
type KeyframeRecord struct {
	Branch     string
	Turn       int
	Tick       int
	StateJSON  []byte
	RecordedAt time.Time
}

// BranchRecord is one persisted branch of the timeline forest.
type BranchRecord struct {
	Name      string
	Parent    string
	StartTurn int
	StartTick int
	EndTurn   int
	EndTick   int
	CreatedAt time.Time
}

// BranchStore persists the branch forest.
type BranchStore interface {
	PutBranch(ctx context.Context, branch BranchRecord) error
	GetBranch(ctx context.Context, name string) (BranchRecord, error)
	ListBranches(ctx context.Context) ([]BranchRecord, error)
}

// FactStore persists the fact journal.
type FactStore interface {
	// AppendFact stores a fact and returns it with ID assigned.
	AppendFact(ctx context.Context, fact FactRecord) (FactRecord, error)
	// ListFacts returns a branch's facts in insertion order, starting
	// after the given ID. Limit must be positive. Historical edits
	// prune the rows they supersede, so insertion order replays
	// cleanly.
	ListFacts(ctx context.Context, branch string, afterID int64, limit int) ([]FactRecord, error)
	// DeleteFactsAfter removes a path's facts strictly after (turn, tick)
	// in a branch and reports how many rows were removed.
	DeleteFactsAfter(ctx context.Context, branch, path string, turn, tick int) (int64, error)
}

// KeyframeStore persists full-state snapshots.
type KeyframeStore interface {
	// PutKeyframe stores a snapshot, replacing any existing one at the
	// same (branch, turn, tick).
	PutKeyframe(ctx context.Context, frame KeyframeRecord) error
	// LatestKeyframe returns the branch's most recent snapshot.
	LatestKeyframe(ctx context.Context, branch string) (KeyframeRecord, error)
	// ListKeyframes returns a branch's snapshots ordered by (turn, tick).
	ListKeyframes(ctx context.Context, branch string) ([]KeyframeRecord, error)
	// DeleteKeyframesAtOrAfter removes snapshots at or after (turn, tick)
	// in a branch and reports how many rows were removed. The bound is
	// inclusive: a snapshot covers facts at its own point, so an edit
	// landing exactly on one invalidates it.
	DeleteKeyframesAtOrAfter(ctx context.Context, branch string, turn, tick int) (int64, error)
}

// TelemetryEvent records one operational occurrence worth keeping.
type TelemetryEvent struct {
	Timestamp  time.Time
	EventName  string
	Severity   string
	Branch     string
	Path       string
	Attributes map[string]any
}

// TelemetryStore persists operational telemetry events.
type TelemetryStore interface {
	AppendTelemetryEvent(ctx context.Context, evt TelemetryEvent) error
}

// Store combines every persistence contract a worldline session needs.
type Store interface {
	BranchStore
	FactStore
	KeyframeStore
	TelemetryStore
	Close() error
}
