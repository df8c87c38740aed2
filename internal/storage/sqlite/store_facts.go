package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/worldline/internal/storage"
)

// AppendFact stores a fact row and returns it with ID assigned.
func (s *Store) AppendFact(ctx context.Context, fact storage.FactRecord) (storage.FactRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.FactRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.FactRecord{}, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(fact.Branch) == "" {
		return storage.FactRecord{}, fmt.Errorf("branch is required")
	}
	if strings.TrimSpace(fact.Path) == "" {
		return storage.FactRecord{}, fmt.Errorf("path is required")
	}
	if fact.RecordedAt.IsZero() {
		fact.RecordedAt = time.Now().UTC()
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO facts (branch, turn, tick, path, value_json, deleted, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		fact.Branch,
		fact.Turn,
		fact.Tick,
		fact.Path,
		fact.ValueJSON,
		boolToInt(fact.Deleted),
		toMillis(fact.RecordedAt),
	)
	if err != nil {
		return storage.FactRecord{}, fmt.Errorf("append fact: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return storage.FactRecord{}, fmt.Errorf("fact insert id: %w", err)
	}
	fact.ID = id
	return fact, nil
}

// ListFacts returns a branch's facts in insertion order after the
// given ID.
func (s *Store) ListFacts(ctx context.Context, branch string, afterID int64, limit int) ([]storage.FactRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(branch) == "" {
		return nil, fmt.Errorf("branch is required")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, branch, turn, tick, path, value_json, deleted, recorded_at
		 FROM facts
		 WHERE branch = ? AND id > ?
		 ORDER BY id
		 LIMIT ?`,
		branch,
		afterID,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list facts: %w", err)
	}
	defer rows.Close()

	var facts []storage.FactRecord
	for rows.Next() {
		var fact storage.FactRecord
		var deleted int
		var recordedAt int64
		if err := rows.Scan(
			&fact.ID,
			&fact.Branch,
			&fact.Turn,
			&fact.Tick,
			&fact.Path,
			&fact.ValueJSON,
			&deleted,
			&recordedAt,
		); err != nil {
			return nil, fmt.Errorf("scan fact: %w", err)
		}
		fact.Deleted = deleted != 0
		fact.RecordedAt = fromMillis(recordedAt)
		facts = append(facts, fact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate facts: %w", err)
	}
	return facts, nil
}

// DeleteFactsAfter removes a path's facts strictly after (turn, tick)
// in a branch.
func (s *Store) DeleteFactsAfter(ctx context.Context, branch, path string, turn, tick int) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(branch) == "" {
		return 0, fmt.Errorf("branch is required")
	}
	if strings.TrimSpace(path) == "" {
		return 0, fmt.Errorf("path is required")
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM facts
		 WHERE branch = ? AND path = ? AND (turn > ? OR (turn = ? AND tick > ?))`,
		branch,
		path,
		turn,
		turn,
		tick,
	)
	if err != nil {
		return 0, fmt.Errorf("delete facts after: %w", err)
	}
	dropped, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deleted fact count: %w", err)
	}
	return dropped, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
