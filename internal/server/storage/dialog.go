package storage

import (
	"context"

	"github.com/iudanet/todoist/internal/models"
)

// DialogStorage defines interface for dialogs shown to the user
type DialogStorage interface {
	// SaveDialog stores a dialog and returns its id
	SaveDialog(ctx context.Context, dialog *models.Dialog) (int64, error)

	// PendingDialogs returns unanswered input dialogs of a frame, oldest first
	PendingDialogs(ctx context.Context, frameID string) ([]*models.Dialog, error)

	// AnswerDialog marks an input dialog as answered
	// Returns ErrDialogNotFound if dialog doesn't exist or was answered already
	AnswerDialog(ctx context.Context, dialogID int64) error

	// ListDialogs returns all dialogs of a frame, oldest first
	ListDialogs(ctx context.Context, frameID string) ([]*models.Dialog, error)
}

// DocumentStorage combines everything the render engine needs
type DocumentStorage interface {
	FrameStorage
	ElementStorage
	EventStorage
	DialogStorage
}
