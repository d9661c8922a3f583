package storage

import "errors"

// Common storage errors
var (
	// ErrFrameNotFound indicates that frame was not found in storage
	ErrFrameNotFound = errors.New("frame not found")

	// ErrFrameAlreadyExists indicates that frame with this id already exists
	ErrFrameAlreadyExists = errors.New("frame already exists")

	// ErrElementNotFound indicates that element was not found in the frame
	ErrElementNotFound = errors.New("element not found")

	// ErrDialogNotFound indicates that dialog was not found or already answered
	ErrDialogNotFound = errors.New("dialog not found")
)
