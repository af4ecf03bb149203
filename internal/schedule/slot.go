// Package schedule implements the appointment-slot grid: generating bookable
// intervals from a business's daily window and testing candidate intervals
// against existing reservations.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// Slot is a half-open interval [Start, End) expressed in minutes from midnight.
type Slot struct {
	Start int
	End   int
}

// ParseClock converts a wall-clock "HH:MM" string to minutes from midnight.
func ParseClock(s string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("schedule: invalid clock %q", s)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("schedule: invalid clock %q", s)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("schedule: invalid clock %q", s)
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("schedule: clock %q out of range", s)
	}
	return hours*60 + minutes, nil
}

// FormatClock renders minutes from midnight as "HH:MM".
func FormatClock(totalMinutes int) string {
	return fmt.Sprintf("%02d:%02d", totalMinutes/60, totalMinutes%60)
}

// ParseSlot builds a Slot from "HH:MM" start and end strings.
func ParseSlot(start, end string) (Slot, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Slot{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Slot{}, err
	}
	if s >= e {
		return Slot{}, fmt.Errorf("schedule: interval %s-%s is empty or inverted", start, end)
	}
	return Slot{Start: s, End: e}, nil
}

// StartClock returns the slot's start as "HH:MM".
func (s Slot) StartClock() string { return FormatClock(s.Start) }

// EndClock returns the slot's end as "HH:MM".
func (s Slot) EndClock() string { return FormatClock(s.End) }

// Overlaps reports whether two half-open intervals intersect. Touching
// endpoints do not conflict: [10:00,11:00) and [11:00,12:00) are disjoint.
func (s Slot) Overlaps(other Slot) bool {
	return s.Start < other.End && other.Start < s.End
}

// Generate produces the day's slot grid: starting at open, each slot spans
// durationMinutes and the cursor then advances by durationMinutes plus
// breakMinutes. Slots that would run past close are dropped. The result is
// deterministic for identical inputs and empty (never an error) when the
// duration does not fit the window.
func Generate(openMinutes, closeMinutes, durationMinutes, breakMinutes int) []Slot {
	if durationMinutes <= 0 || breakMinutes < 0 {
		return nil
	}
	var slots []Slot
	for cursor := openMinutes; cursor+durationMinutes <= closeMinutes; cursor += durationMinutes + breakMinutes {
		slots = append(slots, Slot{Start: cursor, End: cursor + durationMinutes})
	}
	return slots
}

// Free filters the generated grid down to slots that do not overlap any
// occupied interval. Used both to present choices to a chat customer and to
// narrow the dashboard calendar view.
func Free(slots, occupied []Slot) []Slot {
	free := make([]Slot, 0, len(slots))
	for _, slot := range slots {
		if !Conflicts(slot, occupied) {
			free = append(free, slot)
		}
	}
	return free
}

// Conflicts reports whether the candidate overlaps any existing interval.
func Conflicts(candidate Slot, existing []Slot) bool {
	for _, other := range existing {
		if candidate.Overlaps(other) {
			return true
		}
	}
	return false
}

// Contains reports whether the candidate exactly matches one slot of the
// grid. Booking requests must be grid-aligned; arbitrary custom-length
// intervals are rejected.
func Contains(grid []Slot, candidate Slot) bool {
	for _, slot := range grid {
		if slot == candidate {
			return true
		}
	}
	return false
}
