package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/worldline/internal/storage"
)

// PutBranch upserts one branch record.
func (s *Store) PutBranch(ctx context.Context, branch storage.BranchRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	name := strings.TrimSpace(branch.Name)
	if name == "" {
		return fmt.Errorf("branch name is required")
	}
	if branch.CreatedAt.IsZero() {
		branch.CreatedAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO branches (name, parent, start_turn, start_tick, end_turn, end_tick, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
		   end_turn = excluded.end_turn,
		   end_tick = excluded.end_tick`,
		name,
		branch.Parent,
		branch.StartTurn,
		branch.StartTick,
		branch.EndTurn,
		branch.EndTick,
		toMillis(branch.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("put branch: %w", err)
	}
	return nil
}

// GetBranch returns one branch record by name.
func (s *Store) GetBranch(ctx context.Context, name string) (storage.BranchRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.BranchRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.BranchRecord{}, fmt.Errorf("storage is not configured")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return storage.BranchRecord{}, fmt.Errorf("branch name is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT name, parent, start_turn, start_tick, end_turn, end_tick, created_at
		 FROM branches
		 WHERE name = ?`,
		name,
	)
	branch, err := scanBranch(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.BranchRecord{}, storage.ErrNotFound
		}
		return storage.BranchRecord{}, fmt.Errorf("get branch: %w", err)
	}
	return branch, nil
}

// ListBranches returns every branch ordered by name.
func (s *Store) ListBranches(ctx context.Context) ([]storage.BranchRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT name, parent, start_turn, start_tick, end_turn, end_tick, created_at
		 FROM branches
		 ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	defer rows.Close()

	var branches []storage.BranchRecord
	for rows.Next() {
		branch, err := scanBranch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan branch: %w", err)
		}
		branches = append(branches, branch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate branches: %w", err)
	}
	return branches, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBranch(row rowScanner) (storage.BranchRecord, error) {
	var branch storage.BranchRecord
	var createdAt int64
	err := row.Scan(
		&branch.Name,
		&branch.Parent,
		&branch.StartTurn,
		&branch.StartTick,
		&branch.EndTurn,
		&branch.EndTick,
		&createdAt,
	)
	if err != nil {
		return storage.BranchRecord{}, err
	}
	branch.CreatedAt = fromMillis(createdAt)
	return branch, nil
}
