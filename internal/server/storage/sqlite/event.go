package sqlite

import (
	"context"
	"fmt"

	"github.com/iudanet/todoist/internal/models"
	"github.com/iudanet/todoist/pkg/api"
)

// AddEventInterest registers interest in an element event
func (s *Storage) AddEventInterest(ctx context.Context, interest *models.EventInterest) error {
	if err := s.ensureElement(ctx, interest.FrameID, interest.Location); err != nil {
		return err
	}

	query := `
		INSERT INTO event_interests (frame_id, location, event, requestor, correlation)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		interest.FrameID,
		int64(interest.Location),
		interest.Event,
		int64(interest.Requestor),
		interest.Correlation,
	)
	if err != nil {
		return fmt.Errorf("failed to add event interest: %w", err)
	}
	return nil
}

// EventInterests returns registrations for an element event in registration order
func (s *Storage) EventInterests(ctx context.Context, frameID string, location api.Location, event string) ([]*models.EventInterest, error) {
	query := `
		SELECT frame_id, location, event, requestor, correlation
		FROM event_interests
		WHERE frame_id = ? AND location = ? AND event = ?
		ORDER BY id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, frameID, int64(location), event)
	if err != nil {
		return nil, fmt.Errorf("failed to query event interests: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	interests := make([]*models.EventInterest, 0)
	for rows.Next() {
		var in models.EventInterest
		var loc, requestor int64
		if err := rows.Scan(&in.FrameID, &loc, &in.Event, &requestor, &in.Correlation); err != nil {
			return nil, fmt.Errorf("failed to scan event interest: %w", err)
		}
		in.Location = api.Location(loc)
		in.Requestor = api.Requestor(requestor)
		interests = append(interests, &in)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate event interests: %w", err)
	}
	return interests, nil
}
