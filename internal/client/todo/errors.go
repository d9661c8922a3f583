package todo

import "errors"

// ErrElementMissing indicates that the server has no element with the requested id
var ErrElementMissing = errors.New("element not found on server")
