package errors

import "errors"

// ErrLockHeld means another request is booking the same room right now.
var ErrLockHeld = errors.New("room is locked by another booking request")
