package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/louisbranch/worldline/internal/storage"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir() + "/worldline.db")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestBranchRoundTrip(t *testing.T) {
	store := openStore(t)
	now := time.Date(2026, time.August, 25, 12, 0, 0, 0, time.UTC)

	if err := store.PutBranch(context.Background(), storage.BranchRecord{
		Name:      "trunk",
		EndTurn:   4,
		CreatedAt: now,
	}); err != nil {
		t.Fatalf("put trunk: %v", err)
	}
	if err := store.PutBranch(context.Background(), storage.BranchRecord{
		Name:      "what-if",
		Parent:    "trunk",
		StartTurn: 2,
		StartTick: 1,
		EndTurn:   2,
		EndTick:   1,
		CreatedAt: now,
	}); err != nil {
		t.Fatalf("put branch: %v", err)
	}

	branch, err := store.GetBranch(context.Background(), "what-if")
	if err != nil {
		t.Fatalf("get branch: %v", err)
	}
	if branch.Parent != "trunk" || branch.StartTurn != 2 || branch.StartTick != 1 {
		t.Errorf("branch = %+v", branch)
	}
	if !branch.CreatedAt.Equal(now) {
		t.Errorf("created at = %v, want %v", branch.CreatedAt, now)
	}

	// Upsert advances the end without touching lineage.
	if err := store.PutBranch(context.Background(), storage.BranchRecord{
		Name:    "what-if",
		Parent:  "other",
		EndTurn: 9,
	}); err != nil {
		t.Fatalf("upsert branch: %v", err)
	}
	branch, err = store.GetBranch(context.Background(), "what-if")
	if err != nil {
		t.Fatalf("get branch after upsert: %v", err)
	}
	if branch.Parent != "trunk" || branch.EndTurn != 9 {
		t.Errorf("branch after upsert = %+v", branch)
	}

	branches, err := store.ListBranches(context.Background())
	if err != nil {
		t.Fatalf("list branches: %v", err)
	}
	if len(branches) != 2 || branches[0].Name != "trunk" || branches[1].Name != "what-if" {
		t.Errorf("branches = %+v", branches)
	}

	if _, err := store.GetBranch(context.Background(), "ghost"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("get missing branch: %v, want ErrNotFound", err)
	}
}

func TestFactJournal(t *testing.T) {
	store := openStore(t)

	facts := []storage.FactRecord{
		{Branch: "trunk", Turn: 0, Tick: 0, Path: "physical.alice.awake", ValueJSON: []byte("false")},
		{Branch: "trunk", Turn: 8, Tick: 0, Path: "physical.alice.awake", ValueJSON: []byte("true")},
		{Branch: "trunk", Turn: 9, Tick: 0, Path: "physical.alice.hp", ValueJSON: []byte("10")},
		{Branch: "side", Turn: 1, Tick: 0, Path: "physical.alice.hp", ValueJSON: []byte("3")},
	}
	var lastID int64
	for i, fact := range facts {
		stored, err := store.AppendFact(context.Background(), fact)
		if err != nil {
			t.Fatalf("append fact %d: %v", i, err)
		}
		if stored.ID <= lastID {
			t.Errorf("fact %d id = %d, want greater than %d", i, stored.ID, lastID)
		}
		lastID = stored.ID
	}

	page, err := store.ListFacts(context.Background(), "trunk", 0, 2)
	if err != nil {
		t.Fatalf("list facts: %v", err)
	}
	if len(page) != 2 || page[0].Turn != 0 || page[1].Turn != 8 {
		t.Fatalf("first page = %+v", page)
	}
	rest, err := store.ListFacts(context.Background(), "trunk", page[1].ID, 10)
	if err != nil {
		t.Fatalf("list facts second page: %v", err)
	}
	if len(rest) != 1 || rest[0].Path != "physical.alice.hp" {
		t.Errorf("second page = %+v", rest)
	}

	// A historical edit prunes the path's later rows, other paths and
	// branches untouched.
	dropped, err := store.DeleteFactsAfter(context.Background(), "trunk", "physical.alice.awake", 3, 0)
	if err != nil {
		t.Fatalf("delete facts after: %v", err)
	}
	if dropped != 1 {
		t.Errorf("dropped = %d, want 1", dropped)
	}
	remaining, err := store.ListFacts(context.Background(), "trunk", 0, 10)
	if err != nil {
		t.Fatalf("list remaining: %v", err)
	}
	if len(remaining) != 2 {
		t.Errorf("remaining = %+v", remaining)
	}
	side, err := store.ListFacts(context.Background(), "side", 0, 10)
	if err != nil {
		t.Fatalf("list side: %v", err)
	}
	if len(side) != 1 {
		t.Errorf("side facts = %+v", side)
	}
}

func TestKeyframes(t *testing.T) {
	store := openStore(t)

	frames := []storage.KeyframeRecord{
		{Branch: "trunk", Turn: 2, Tick: 0, StateJSON: []byte(`{"physical.alice.awake":false}`)},
		{Branch: "trunk", Turn: 6, Tick: 3, StateJSON: []byte(`{"physical.alice.awake":true}`)},
	}
	for i, frame := range frames {
		if err := store.PutKeyframe(context.Background(), frame); err != nil {
			t.Fatalf("put keyframe %d: %v", i, err)
		}
	}

	latest, err := store.LatestKeyframe(context.Background(), "trunk")
	if err != nil {
		t.Fatalf("latest keyframe: %v", err)
	}
	if latest.Turn != 6 || latest.Tick != 3 {
		t.Errorf("latest = %+v", latest)
	}

	// Same point replaces.
	if err := store.PutKeyframe(context.Background(), storage.KeyframeRecord{
		Branch: "trunk", Turn: 6, Tick: 3, StateJSON: []byte(`{}`),
	}); err != nil {
		t.Fatalf("replace keyframe: %v", err)
	}
	all, err := store.ListKeyframes(context.Background(), "trunk")
	if err != nil {
		t.Fatalf("list keyframes: %v", err)
	}
	if len(all) != 2 || string(all[1].StateJSON) != "{}" {
		t.Errorf("keyframes = %+v", all)
	}

	// The bound is inclusive: a row at exactly (6, 3) goes too.
	dropped, err := store.DeleteKeyframesAtOrAfter(context.Background(), "trunk", 6, 3)
	if err != nil {
		t.Fatalf("delete keyframes at or after: %v", err)
	}
	if dropped != 1 {
		t.Errorf("dropped = %d, want the exact-point row", dropped)
	}
	dropped, err = store.DeleteKeyframesAtOrAfter(context.Background(), "trunk", 0, 0)
	if err != nil {
		t.Fatalf("delete remaining keyframes: %v", err)
	}
	if dropped != 1 {
		t.Errorf("dropped = %d, want 1", dropped)
	}
	if _, err := store.LatestKeyframe(context.Background(), "side"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("latest keyframe on empty branch: %v, want ErrNotFound", err)
	}
}

func TestTelemetryAppend(t *testing.T) {
	store := openStore(t)

	err := store.AppendTelemetryEvent(context.Background(), storage.TelemetryEvent{
		EventName: "keyframe.invalidated",
		Branch:    "trunk",
		Path:      "physical.alice.awake",
		Attributes: map[string]any{
			"dropped": 2,
		},
	})
	if err != nil {
		t.Fatalf("append telemetry: %v", err)
	}

	var count int
	if err := store.sqlDB.QueryRow("SELECT COUNT(*) FROM telemetry_events").Scan(&count); err != nil {
		t.Fatalf("count telemetry: %v", err)
	}
	if count != 1 {
		t.Errorf("telemetry rows = %d, want 1", count)
	}

	if err := store.AppendTelemetryEvent(context.Background(), storage.TelemetryEvent{}); err == nil {
		t.Error("append without event name succeeded")
	}
}
