package entry

import "errors"

var (
	// ErrEntryNotFound indicates that no live entry owns the given location
	ErrEntryNotFound = errors.New("entry not found")

	// ErrCapacityExceeded indicates that the store already holds the maximum number of entries
	ErrCapacityExceeded = errors.New("entry capacity exceeded")

	// ErrDuplicateLocation indicates that a location is already owned by another entry
	ErrDuplicateLocation = errors.New("location already in use")

	// ErrEmptyText indicates an attempt to store an entry without text
	ErrEmptyText = errors.New("entry text is empty")
)
