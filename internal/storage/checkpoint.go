package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/klaro/internal/common"
)

// Checkpoint errors.
var (
	ErrCheckpointNotFound = errors.New("checkpoint not found")
	ErrCheckpointExists   = errors.New("checkpoint already exists")
)

// CheckpointInfo describes a saved copy of the live snapshot.
type CheckpointInfo struct {
	CreatedAt   time.Time
	ID          string
	Description string
	Size        int64
}

// CreateCheckpoint copies the live snapshot under tag. An empty tag is replaced
// by a timestamped one.
func (s *SQLiteStorage) CreateCheckpoint(ctx context.Context, tag, description string) (*CheckpointInfo, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	now := s.now()
	if tag == "" {
		tag = fmt.Sprintf("checkpoint-%s", now.Format("2006-01-02-150405"))
	}
	if err := validateTag(tag); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM checkpoints WHERE id = ?`, tag).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check checkpoint: %w", err)
	}
	if exists > 0 {
		return nil, fmt.Errorf("%w: %s", ErrCheckpointExists, tag)
	}

	var data []byte
	err = tx.QueryRowContext(ctx, `SELECT data FROM snapshots WHERE key = ?`, snapshotKey).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("nothing to checkpoint: %w", common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO checkpoints (id, description, data, created_at) VALUES (?, ?, ?, ?)`,
		tag, description, data, now.UnixNano()); err != nil {
		return nil, fmt.Errorf("failed to store checkpoint: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit checkpoint: %w", err)
	}

	return &CheckpointInfo{
		ID:          tag,
		CreatedAt:   now,
		Description: description,
		Size:        int64(len(data)),
	}, nil
}

// ListCheckpoints returns all checkpoints, newest first.
func (s *SQLiteStorage) ListCheckpoints(ctx context.Context) ([]CheckpointInfo, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, description, length(data), created_at
		FROM checkpoints
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query checkpoints: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var checkpoints []CheckpointInfo
	for rows.Next() {
		var (
			info    CheckpointInfo
			created int64
		)
		if err := rows.Scan(&info.ID, &info.Description, &info.Size, &created); err != nil {
			return nil, fmt.Errorf("failed to scan checkpoint: %w", err)
		}
		info.CreatedAt = time.Unix(0, created)
		checkpoints = append(checkpoints, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate checkpoints: %w", err)
	}
	return checkpoints, nil
}

// RestoreCheckpoint makes the checkpoint's copy the live snapshot again.
func (s *SQLiteStorage) RestoreCheckpoint(ctx context.Context, tag string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTag(tag); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var data []byte
	err = tx.QueryRowContext(ctx, `SELECT data FROM checkpoints WHERE id = ?`, tag).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrCheckpointNotFound, tag)
	}
	if err != nil {
		return fmt.Errorf("failed to read checkpoint: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO snapshots (key, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`, snapshotKey, data, s.now().UnixNano()); err != nil {
		return fmt.Errorf("failed to restore snapshot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit restore: %w", err)
	}
	return nil
}

// DeleteCheckpoint removes a checkpoint.
func (s *SQLiteStorage) DeleteCheckpoint(ctx context.Context, tag string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTag(tag); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM checkpoints WHERE id = ?`, tag)
	if err != nil {
		return fmt.Errorf("failed to delete checkpoint: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete checkpoint: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrCheckpointNotFound, tag)
	}
	return nil
}
