// Package reservations implements the appointment booking core: slot-grid
// validation, conflict checking, and the validate-then-insert commit flow.
package reservations

import (
	"time"

	"github.com/autowhapp/platform/internal/schedule"
)

const dateLayout = "2006-01-02"

// Reservation is one booked interval. Rows are immutable after insert;
// moving a booking is cancel-and-recreate.
type Reservation struct {
	ID          int64     `json:"id"`
	BusinessID  int64     `json:"business_id"`
	Date        string    `json:"date"`       // YYYY-MM-DD
	StartTime   string    `json:"start_time"` // HH:MM, inclusive
	EndTime     string    `json:"end_time"`   // HH:MM, exclusive
	Occupied    bool      `json:"occupied"`
	ClientName  string    `json:"client_name,omitempty"`
	ClientPhone string    `json:"client_phone,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Interval parses the reservation's times into a minute-offset slot.
func (r Reservation) Interval() (schedule.Slot, error) {
	return schedule.ParseSlot(r.StartTime, r.EndTime)
}

// BookRequest carries the booking parameters from the dashboard or the chat
// adapter.
type BookRequest struct {
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	ClientName  string `json:"client_name,omitempty"`
	ClientPhone string `json:"client_phone,omitempty"`
	Description string `json:"description,omitempty"`
}

// SchedulingUpdate carries PUT /reservations/{businessID} parameters. Open
// and close are optional; absent values keep the profile's current window.
type SchedulingUpdate struct {
	AppointmentDuration int     `json:"appointment_duration"`
	BreakBetween        int     `json:"break_between"`
	DayOpenTime         *string `json:"day_open_time,omitempty"`
	DayCloseTime        *string `json:"day_close_time,omitempty"`
}

// Today returns the current date in the ledger's YYYY-MM-DD form. The chat
// path always books for today.
func Today() string {
	return time.Now().Format(dateLayout)
}

// ValidDate reports whether s is a well-formed YYYY-MM-DD date.
func ValidDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}
