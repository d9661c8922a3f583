package storage

import (
	"context"

	"github.com/iudanet/todoist/internal/models"
	"github.com/iudanet/todoist/pkg/api"
)

// EventStorage defines interface for event interest registrations
type EventStorage interface {
	// AddEventInterest registers interest in an element event
	// Returns ErrElementNotFound if the element doesn't exist
	AddEventInterest(ctx context.Context, interest *models.EventInterest) error

	// EventInterests returns registrations for an element event in registration order
	EventInterests(ctx context.Context, frameID string, location api.Location, event string) ([]*models.EventInterest, error)
}
