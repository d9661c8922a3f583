package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iudanet/todoist/internal/models"
	"github.com/iudanet/todoist/internal/server/storage"
)

// CreateFrame creates a new frame
func (s *Storage) CreateFrame(ctx context.Context, frame *models.Frame) error {
	query := `
		INSERT INTO frames (id, target, title, client, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		frame.ID,
		frame.Target,
		frame.Title,
		frame.Client,
		frame.CreatedAt.Unix(),
	)
	if err != nil {
		// SQLite возвращает ошибку UNIQUE constraint при дублировании id
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return storage.ErrFrameAlreadyExists
		}
		return fmt.Errorf("failed to create frame: %w", err)
	}

	return nil
}

// GetFrame retrieves frame by id
func (s *Storage) GetFrame(ctx context.Context, frameID string) (*models.Frame, error) {
	query := `
		SELECT id, target, title, client, created_at
		FROM frames
		WHERE id = ?
	`

	var frame models.Frame
	var createdAt int64
	err := s.db.QueryRowContext(ctx, query, frameID).Scan(
		&frame.ID,
		&frame.Target,
		&frame.Title,
		&frame.Client,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrFrameNotFound
		}
		return nil, fmt.Errorf("failed to get frame: %w", err)
	}
	frame.CreatedAt = time.Unix(createdAt, 0)

	return &frame, nil
}

// ListFrames returns all open frames ordered by creation time
func (s *Storage) ListFrames(ctx context.Context) ([]*models.Frame, error) {
	query := `
		SELECT id, target, title, client, created_at
		FROM frames
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list frames: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	frames := make([]*models.Frame, 0)
	for rows.Next() {
		var frame models.Frame
		var createdAt int64
		if err := rows.Scan(&frame.ID, &frame.Target, &frame.Title, &frame.Client, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan frame: %w", err)
		}
		frame.CreatedAt = time.Unix(createdAt, 0)
		frames = append(frames, &frame)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate frames: %w", err)
	}

	return frames, nil
}

// DeleteFrame removes frame with everything attached to it
func (s *Storage) DeleteFrame(ctx context.Context, frameID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM frames WHERE id = ?`, frameID)
	if err != nil {
		return fmt.Errorf("failed to delete frame: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return storage.ErrFrameNotFound
	}

	return nil
}
