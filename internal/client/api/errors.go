package api

import "errors"

var (
	// ErrClosed indicates that the session connection is closed
	ErrClosed = errors.New("session closed")

	// ErrSessionRejected indicates that the server refused to open a session
	ErrSessionRejected = errors.New("session rejected by server")
)
