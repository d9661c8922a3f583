package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/todoist/internal/models"
	"github.com/iudanet/todoist/internal/server/storage"
	"github.com/iudanet/todoist/pkg/api"
)

// deleteSubtreeQuery удаляет потомков элемента; стили и подписки удаляются каскадно
const deleteSubtreeQuery = `
	WITH RECURSIVE subtree(location) AS (
		SELECT location FROM elements WHERE parent = ? AND frame_id = ?
		UNION ALL
		SELECT e.location FROM elements e JOIN subtree s ON e.parent = s.location
	)
	DELETE FROM elements WHERE location IN (SELECT location FROM subtree)
`

// AppendElement appends a child element and returns its location
func (s *Storage) AppendElement(ctx context.Context, frameID string, parent api.Location, tag, htmlID string) (api.Location, error) {
	if parent != api.Body {
		if err := s.ensureElement(ctx, frameID, parent); err != nil {
			return 0, err
		}
	}

	query := `
		INSERT INTO elements (frame_id, parent, tag, html_id, text)
		VALUES (?, ?, ?, ?, '')
	`

	result, err := s.db.ExecContext(ctx, query, frameID, int64(parent), tag, htmlID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert element: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get element location: %w", err)
	}

	return api.Location(id), nil
}

// AppendText appends text to the element's own text
func (s *Storage) AppendText(ctx context.Context, frameID string, location api.Location, text string) error {
	query := `UPDATE elements SET text = text || ? WHERE location = ? AND frame_id = ?`
	return s.execOnElement(ctx, query, text, int64(location), frameID)
}

// SetText replaces the element's text and removes all its descendants
func (s *Storage) SetText(ctx context.Context, frameID string, location api.Location, text string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(ctx,
		`UPDATE elements SET text = ? WHERE location = ? AND frame_id = ?`,
		text, int64(location), frameID,
	)
	if err != nil {
		return fmt.Errorf("failed to set text: %w", err)
	}
	if err := requireAffected(result); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, deleteSubtreeQuery, int64(location), frameID); err != nil {
		return fmt.Errorf("failed to delete children: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// SetStyle sets one inline style property
func (s *Storage) SetStyle(ctx context.Context, frameID string, location api.Location, property, value string) error {
	if err := s.ensureElement(ctx, frameID, location); err != nil {
		return err
	}

	query := `
		INSERT INTO element_styles (location, property, value)
		VALUES (?, ?, ?)
		ON CONFLICT (location, property) DO UPDATE SET value = excluded.value
	`
	if _, err := s.db.ExecContext(ctx, query, int64(location), property, value); err != nil {
		return fmt.Errorf("failed to set style: %w", err)
	}
	return nil
}

// AddStyleRule stores a frame-wide CSS rule
func (s *Storage) AddStyleRule(ctx context.Context, frameID, selector, declarations string) error {
	query := `INSERT INTO style_rules (frame_id, selector, declarations) VALUES (?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query, frameID, selector, declarations); err != nil {
		return fmt.Errorf("failed to add style rule: %w", err)
	}
	return nil
}

// DeleteElement removes the element with its whole subtree
func (s *Storage) DeleteElement(ctx context.Context, frameID string, location api.Location) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, deleteSubtreeQuery, int64(location), frameID); err != nil {
		return fmt.Errorf("failed to delete children: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`DELETE FROM elements WHERE location = ? AND frame_id = ?`,
		int64(location), frameID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete element: %w", err)
	}
	if err := requireAffected(result); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetElement retrieves one element with its styles
func (s *Storage) GetElement(ctx context.Context, frameID string, location api.Location) (*models.Element, error) {
	query := `
		SELECT location, frame_id, parent, tag, html_id, text
		FROM elements
		WHERE location = ? AND frame_id = ?
	`
	return s.queryElement(ctx, query, int64(location), frameID)
}

// FindByHTMLID returns the first element with the given id attribute
func (s *Storage) FindByHTMLID(ctx context.Context, frameID, htmlID string) (*models.Element, error) {
	query := `
		SELECT location, frame_id, parent, tag, html_id, text
		FROM elements
		WHERE frame_id = ? AND html_id = ?
		ORDER BY location ASC
		LIMIT 1
	`
	return s.queryElement(ctx, query, frameID, htmlID)
}

// Children returns direct children of location in append order
func (s *Storage) Children(ctx context.Context, frameID string, location api.Location) ([]*models.Element, error) {
	query := `
		SELECT location, frame_id, parent, tag, html_id, text
		FROM elements
		WHERE frame_id = ? AND parent = ?
		ORDER BY location ASC
	`

	rows, err := s.db.QueryContext(ctx, query, frameID, int64(location))
	if err != nil {
		return nil, fmt.Errorf("failed to query children: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	children := make([]*models.Element, 0)
	for rows.Next() {
		el, err := scanElement(rows)
		if err != nil {
			return nil, err
		}
		children = append(children, el)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate children: %w", err)
	}

	for _, el := range children {
		if el.Styles, err = s.loadStyles(ctx, el.Location); err != nil {
			return nil, err
		}
	}

	return children, nil
}

// queryElement выполняет запрос одного элемента и подгружает его стили
func (s *Storage) queryElement(ctx context.Context, query string, args ...any) (*models.Element, error) {
	el, err := scanElement(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrElementNotFound
		}
		return nil, err
	}

	if el.Styles, err = s.loadStyles(ctx, el.Location); err != nil {
		return nil, err
	}
	return el, nil
}

// loadStyles читает inline стили элемента
func (s *Storage) loadStyles(ctx context.Context, location api.Location) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT property, value FROM element_styles WHERE location = ? ORDER BY property`,
		int64(location),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query styles: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var styles map[string]string
	for rows.Next() {
		var property, value string
		if err := rows.Scan(&property, &value); err != nil {
			return nil, fmt.Errorf("failed to scan style: %w", err)
		}
		if styles == nil {
			styles = make(map[string]string)
		}
		styles[property] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate styles: %w", err)
	}
	return styles, nil
}

// ensureElement проверяет, что элемент существует в фрейме
func (s *Storage) ensureElement(ctx context.Context, frameID string, location api.Location) error {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM elements WHERE location = ? AND frame_id = ?`,
		int64(location), frameID,
	).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrElementNotFound
		}
		return fmt.Errorf("failed to check element: %w", err)
	}
	return nil
}

// execOnElement выполняет UPDATE по одному элементу и проверяет, что он существовал
func (s *Storage) execOnElement(ctx context.Context, query string, args ...any) error {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update element: %w", err)
	}
	return requireAffected(result)
}

func requireAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return storage.ErrElementNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanElement(row rowScanner) (*models.Element, error) {
	var el models.Element
	var location, parent int64
	err := row.Scan(&location, &el.FrameID, &parent, &el.Tag, &el.HTMLID, &el.Text)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan element: %w", err)
	}
	el.Location = api.Location(location)
	el.Parent = api.Location(parent)
	return &el, nil
}
