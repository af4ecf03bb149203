package business

import (
	"strings"
	"time"

	"github.com/autowhapp/platform/internal/schedule"
)

// Business is a tenant: one shop with its bot context and module flags.
type Business struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	GroupID      string    `json:"group_id,omitempty"`
	BusinessType string    `json:"business_type,omitempty"`
	Locality     string    `json:"locality,omitempty"`
	Address      string    `json:"address,omitempty"`
	OpeningHours string    `json:"opening_hours,omitempty"`
	OwnerEmail   string    `json:"owner_email,omitempty"`
	Context      string    `json:"context"`
	BotEnabled   bool      `json:"bot_enabled"`
	CreatedAt    time.Time `json:"created_at"`

	Modules    Modules    `json:"modules"`
	Scheduling Scheduling `json:"scheduling"`
}

// Modules gates per-business features.
type Modules struct {
	Orders       bool `json:"orders"`
	Reservations bool `json:"reservations"`
	Reminders    bool `json:"reminders"`
}

// Scheduling holds the slot-grid parameters for the reservations module.
type Scheduling struct {
	AppointmentDuration int    `json:"appointment_duration"` // minutes per bookable unit
	BreakBetween        int    `json:"break_between"`        // idle minutes after each unit
	DayOpenTime         string `json:"day_open_time"`        // "HH:MM"
	DayCloseTime        string `json:"day_close_time"`       // "HH:MM"
}

// Validate checks the scheduling invariants: positive duration, non-negative
// break, and an open time strictly before close.
func (s Scheduling) Validate() error {
	if s.AppointmentDuration <= 0 {
		return ErrInvalidScheduling
	}
	if s.BreakBetween < 0 {
		return ErrInvalidScheduling
	}
	open, err := schedule.ParseClock(s.DayOpenTime)
	if err != nil {
		return ErrInvalidScheduling
	}
	close, err := schedule.ParseClock(s.DayCloseTime)
	if err != nil {
		return ErrInvalidScheduling
	}
	if open >= close {
		return ErrInvalidScheduling
	}
	return nil
}

// Grid generates the day's slot grid from the scheduling parameters.
func (s Scheduling) Grid() ([]schedule.Slot, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	open, _ := schedule.ParseClock(s.DayOpenTime)
	close, _ := schedule.ParseClock(s.DayCloseTime)
	return schedule.Generate(open, close, s.AppointmentDuration, s.BreakBetween), nil
}

// DefaultScheduling mirrors the dashboard defaults for a fresh business.
func DefaultScheduling() Scheduling {
	return Scheduling{
		AppointmentDuration: 60,
		BreakBetween:        15,
		DayOpenTime:         "09:00",
		DayCloseTime:        "18:00",
	}
}

// UpdateRequest carries the mutable profile fields for PUT /business/{id}.
type UpdateRequest struct {
	Name         *string `json:"name,omitempty"`
	GroupID      *string `json:"group_id,omitempty"`
	BusinessType *string `json:"business_type,omitempty"`
	Locality     *string `json:"locality,omitempty"`
	Address      *string `json:"address,omitempty"`
	OpeningHours *string `json:"opening_hours,omitempty"`
	OwnerEmail   *string `json:"owner_email,omitempty"`
	Context      *string `json:"context,omitempty"`
	BotEnabled   *bool   `json:"bot_enabled,omitempty"`
	Orders       *bool   `json:"orders_enabled,omitempty"`
	Reservations *bool   `json:"reservations_enabled,omitempty"`
	Reminders    *bool   `json:"reminders_enabled,omitempty"`
}

// CreateRequest carries the fields for POST /business. Name and phone are
// required; everything else starts at the dashboard defaults.
type CreateRequest struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	GroupID      string `json:"group_id,omitempty"`
	BusinessType string `json:"business_type,omitempty"`
	Locality     string `json:"locality,omitempty"`
	Address      string `json:"address,omitempty"`
	OpeningHours string `json:"opening_hours,omitempty"`
	OwnerEmail   string `json:"owner_email,omitempty"`
	Context      string `json:"context,omitempty"`
}

// NormalizePhone strips formatting characters so WhatsApp sender ids can be
// matched against the stored number.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
