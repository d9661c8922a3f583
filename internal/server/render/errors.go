package render

import "errors"

var (
	// ErrSessionNotFound indicates that no frame is open for the session id
	ErrSessionNotFound = errors.New("session not found")

	// ErrUnsupportedOpcode indicates an instruction the engine does not accept from clients
	ErrUnsupportedOpcode = errors.New("unsupported opcode")

	// ErrNoPendingDialog indicates that the frame has no unanswered input dialog
	ErrNoPendingDialog = errors.New("no pending dialog")
)
