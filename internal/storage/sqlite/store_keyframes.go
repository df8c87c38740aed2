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

// PutKeyframe upserts one snapshot at (branch, turn, tick).
func (s *Store) PutKeyframe(ctx context.Context, frame storage.KeyframeRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(frame.Branch) == "" {
		return fmt.Errorf("branch is required")
	}
	if frame.RecordedAt.IsZero() {
		frame.RecordedAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO keyframes (branch, turn, tick, state_json, recorded_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(branch, turn, tick) DO UPDATE SET
		   state_json = excluded.state_json,
		   recorded_at = excluded.recorded_at`,
		frame.Branch,
		frame.Turn,
		frame.Tick,
		frame.StateJSON,
		toMillis(frame.RecordedAt),
	)
	if err != nil {
		return fmt.Errorf("put keyframe: %w", err)
	}
	return nil
}

// LatestKeyframe returns the branch's most recent snapshot.
func (s *Store) LatestKeyframe(ctx context.Context, branch string) (storage.KeyframeRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.KeyframeRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.KeyframeRecord{}, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(branch) == "" {
		return storage.KeyframeRecord{}, fmt.Errorf("branch is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT branch, turn, tick, state_json, recorded_at
		 FROM keyframes
		 WHERE branch = ?
		 ORDER BY turn DESC, tick DESC
		 LIMIT 1`,
		branch,
	)
	frame, err := scanKeyframe(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.KeyframeRecord{}, storage.ErrNotFound
		}
		return storage.KeyframeRecord{}, fmt.Errorf("latest keyframe: %w", err)
	}
	return frame, nil
}

// ListKeyframes returns a branch's snapshots ordered by (turn, tick).
func (s *Store) ListKeyframes(ctx context.Context, branch string) ([]storage.KeyframeRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(branch) == "" {
		return nil, fmt.Errorf("branch is required")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT branch, turn, tick, state_json, recorded_at
		 FROM keyframes
		 WHERE branch = ?
		 ORDER BY turn, tick`,
		branch,
	)
	if err != nil {
		return nil, fmt.Errorf("list keyframes: %w", err)
	}
	defer rows.Close()

	var frames []storage.KeyframeRecord
	for rows.Next() {
		frame, err := scanKeyframe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan keyframe: %w", err)
		}
		frames = append(frames, frame)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate keyframes: %w", err)
	}
	return frames, nil
}

// DeleteKeyframesAtOrAfter removes snapshots at or after (turn, tick)
// in a branch.
func (s *Store) DeleteKeyframesAtOrAfter(ctx context.Context, branch string, turn, tick int) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(branch) == "" {
		return 0, fmt.Errorf("branch is required")
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM keyframes
		 WHERE branch = ? AND (turn > ? OR (turn = ? AND tick >= ?))`,
		branch,
		turn,
		turn,
		tick,
	)
	if err != nil {
		return 0, fmt.Errorf("delete keyframes at or after: %w", err)
	}
	dropped, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deleted keyframe count: %w", err)
	}
	return dropped, nil
}

func scanKeyframe(row rowScanner) (storage.KeyframeRecord, error) {
	var frame storage.KeyframeRecord
	var recordedAt int64
	err := row.Scan(
		&frame.Branch,
		&frame.Turn,
		&frame.Tick,
		&frame.StateJSON,
		&recordedAt,
	)
	if err != nil {
		return storage.KeyframeRecord{}, err
	}
	frame.RecordedAt = fromMillis(recordedAt)
	return frame, nil
}
