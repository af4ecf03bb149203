package business

import "errors"

var (
	// ErrNotFound is returned when no business matches the lookup.
	ErrNotFound = errors.New("business not found")

	// ErrInvalidScheduling is returned when scheduling parameters violate
	// the grid invariants (duration <= 0, break < 0, open >= close).
	ErrInvalidScheduling = errors.New("invalid scheduling parameters")

	// ErrDuplicatePhone is returned when a new business claims a WhatsApp
	// number that another business already owns.
	ErrDuplicatePhone = errors.New("phone number already registered")
)
