package storage

import (
	"context"

	"github.com/iudanet/todoist/internal/models"
	"github.com/iudanet/todoist/pkg/api"
)

// ElementStorage defines interface for the document tree of a frame.
// Location 0 addresses the frame body, which is implicit and has no row.
type ElementStorage interface {
	// AppendElement appends a child to parent and returns its new location
	// Returns ErrElementNotFound if parent doesn't exist in the frame
	AppendElement(ctx context.Context, frameID string, parent api.Location, tag, htmlID string) (api.Location, error)

	// AppendText appends text to the element's own text
	AppendText(ctx context.Context, frameID string, location api.Location, text string) error

	// SetText replaces the element's text and removes all its descendants
	SetText(ctx context.Context, frameID string, location api.Location, text string) error

	// SetStyle sets one inline style property
	SetStyle(ctx context.Context, frameID string, location api.Location, property, value string) error

	// AddStyleRule stores a frame-wide CSS rule
	AddStyleRule(ctx context.Context, frameID, selector, declarations string) error

	// DeleteElement removes the element with its whole subtree
	DeleteElement(ctx context.Context, frameID string, location api.Location) error

	// GetElement retrieves one element with its styles
	GetElement(ctx context.Context, frameID string, location api.Location) (*models.Element, error)

	// FindByHTMLID returns the first element with the given id attribute
	FindByHTMLID(ctx context.Context, frameID, htmlID string) (*models.Element, error)

	// Children returns direct children of location in append order
	Children(ctx context.Context, frameID string, location api.Location) ([]*models.Element, error)
}
