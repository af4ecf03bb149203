package reservations

import "errors"

// Rejection reasons for the booking flow. Handlers map these to HTTP
// statuses; the chat adapter maps them all to an apology message.
var (
	// ErrInvalidInput rejects requests with missing or malformed fields.
	ErrInvalidInput = errors.New("invalid reservation input")

	// ErrModuleDisabled rejects bookings for businesses that do not exist
	// or have the reservations module turned off.
	ErrModuleDisabled = errors.New("reservations module disabled")

	// ErrInvalidSlot rejects intervals that do not match a generated grid
	// slot for the business's schedule.
	ErrInvalidSlot = errors.New("requested interval is not a valid slot")

	// ErrConflict rejects intervals overlapping an existing reservation.
	ErrConflict = errors.New("slot already reserved")

	// ErrNotFound is returned when a reservation does not exist under the
	// given business.
	ErrNotFound = errors.New("reservation not found")
)
