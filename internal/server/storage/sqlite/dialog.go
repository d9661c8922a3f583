package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/todoist/internal/models"
	"github.com/iudanet/todoist/internal/server/storage"
	"github.com/iudanet/todoist/pkg/api"
)

// SaveDialog stores a dialog and returns its id
func (s *Storage) SaveDialog(ctx context.Context, dialog *models.Dialog) (int64, error) {
	query := `
		INSERT INTO dialogs (frame_id, kind, title, text, value, requestor, answered, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		dialog.FrameID,
		string(dialog.Kind),
		dialog.Title,
		dialog.Text,
		dialog.Value,
		int64(dialog.Requestor),
		boolToInt(dialog.Answered),
		dialog.CreatedAt.Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save dialog: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get dialog id: %w", err)
	}
	dialog.ID = id

	return id, nil
}

// PendingDialogs returns unanswered input dialogs of a frame, oldest first
func (s *Storage) PendingDialogs(ctx context.Context, frameID string) ([]*models.Dialog, error) {
	query := `
		SELECT id, frame_id, kind, title, text, value, requestor, answered, created_at
		FROM dialogs
		WHERE frame_id = ? AND kind = ? AND answered = 0
		ORDER BY id ASC
	`
	return s.queryDialogs(ctx, query, frameID, string(models.DialogKindInput))
}

// ListDialogs returns all dialogs of a frame, oldest first
func (s *Storage) ListDialogs(ctx context.Context, frameID string) ([]*models.Dialog, error) {
	query := `
		SELECT id, frame_id, kind, title, text, value, requestor, answered, created_at
		FROM dialogs
		WHERE frame_id = ?
		ORDER BY id ASC
	`
	return s.queryDialogs(ctx, query, frameID)
}

// AnswerDialog marks an input dialog as answered
func (s *Storage) AnswerDialog(ctx context.Context, dialogID int64) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE dialogs SET answered = 1 WHERE id = ? AND answered = 0`,
		dialogID,
	)
	if err != nil {
		return fmt.Errorf("failed to answer dialog: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return storage.ErrDialogNotFound
	}
	return nil
}

func (s *Storage) queryDialogs(ctx context.Context, query string, args ...any) ([]*models.Dialog, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query dialogs: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	dialogs := make([]*models.Dialog, 0)
	for rows.Next() {
		var d models.Dialog
		var kind string
		var requestor, answered, createdAt int64
		err := rows.Scan(&d.ID, &d.FrameID, &kind, &d.Title, &d.Text, &d.Value, &requestor, &answered, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dialog: %w", err)
		}
		d.Kind = models.DialogKind(kind)
		d.Requestor = api.Requestor(requestor)
		d.Answered = answered != 0
		d.CreatedAt = time.Unix(createdAt, 0)
		dialogs = append(dialogs, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate dialogs: %w", err)
	}
	return dialogs, nil
}
