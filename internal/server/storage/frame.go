package storage

import (
	"context"

	"github.com/iudanet/todoist/internal/models"
)

// FrameStorage defines interface for frame persistence
type FrameStorage interface {
	// CreateFrame creates a new frame
	// Returns ErrFrameAlreadyExists if frame id is taken
	CreateFrame(ctx context.Context, frame *models.Frame) error

	// GetFrame retrieves frame by id
	// Returns ErrFrameNotFound if frame doesn't exist
	GetFrame(ctx context.Context, frameID string) (*models.Frame, error)

	// ListFrames returns all open frames ordered by creation time
	ListFrames(ctx context.Context) ([]*models.Frame, error)

	// DeleteFrame removes frame with its elements, events and dialogs
	// Returns ErrFrameNotFound if frame doesn't exist
	DeleteFrame(ctx context.Context, frameID string) error
}
