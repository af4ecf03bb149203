// Package reminders stores the per-business scheduled messages the
// dashboard's reminders module manages.
package reminders

import (
	"errors"

	"github.com/autowhapp/platform/internal/schedule"
)

// ErrInvalidReminder is returned when a reminder fails validation: empty
// message, unknown frequency, or a malformed send time.
var ErrInvalidReminder = errors.New("invalid reminder")

// Frequencies a reminder can repeat at.
const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
)

// ValidFrequency reports whether f is one of the dashboard's options.
func ValidFrequency(f string) bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// Reminder is one scheduled message: what to send, how often, and at what
// time of day.
type Reminder struct {
	ID         int64  `json:"id"`
	BusinessID int64  `json:"business_id"`
	Message    string `json:"message"`
	Frequency  string `json:"frequency"`
	SendTime   string `json:"time"` // "HH:MM"
}

// Validate checks the reminder fields the dashboard lets users edit.
func (r Reminder) Validate() error {
	if r.Message == "" {
		return ErrInvalidReminder
	}
	if !ValidFrequency(r.Frequency) {
		return ErrInvalidReminder
	}
	if _, err := schedule.ParseClock(r.SendTime); err != nil {
		return ErrInvalidReminder
	}
	return nil
}
