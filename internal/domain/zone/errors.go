package zone

import "errors"

var (
	// ErrZoneNotFound indicates the zone doesn't exist.
	ErrZoneNotFound = errors.New("zone not found")
	// ErrDuplicateName indicates another zone already uses the name (case-insensitive).
	ErrDuplicateName = errors.New("zone name already exists")
	// ErrInvalidInput indicates invalid zone input.
	ErrInvalidInput = errors.New("invalid zone input")
)
