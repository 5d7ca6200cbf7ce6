package errors

import "errors"

var (
	ErrNotFound = errors.New("hotel not found")

	ErrInvalidID = errors.New("invalid hotel ID format")

	// ErrOwnerHasHotel maps the unique index on owner: one hotel per
	// principal, enforced by the store.
	ErrOwnerHasHotel = errors.New("owner already has a registered hotel")

	ErrRoomNotFound = errors.New("room not found")

	ErrInvalidRoomID = errors.New("invalid room ID format")
)
