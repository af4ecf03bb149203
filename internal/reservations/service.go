package reservations

import (
	"context"
	"errors"
	"fmt"

	"github.com/autowhapp/platform/internal/business"
	"github.com/autowhapp/platform/internal/schedule"
	"github.com/autowhapp/platform/pkg/logging"
)

// ProfileLoader supplies the scheduling profile for a business. Satisfied
// by business.ProfileCache, so repeated chat-path bookings hit Redis.
type ProfileLoader interface {
	Get(ctx context.Context, businessID int64) (*business.Business, error)
}

// SchedulingStore persists scheduling parameter changes.
type SchedulingStore interface {
	UpdateScheduling(ctx context.Context, id int64, s business.Scheduling) error
}

// CacheInvalidator drops a cached profile after a scheduling change.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, businessID int64)
}

// Ledger is the durable reservation store the service books against.
type Ledger interface {
	ListByDate(ctx context.Context, businessID int64, date string) ([]Reservation, error)
	Insert(ctx context.Context, rec *Reservation) error
	Delete(ctx context.Context, businessID, reservationID int64) error
}

// Service runs the booking commit flow: validate input, check the module
// flag, enforce grid alignment, check for conflicts, then insert.
type Service struct {
	profiles  ProfileLoader
	schedules SchedulingStore
	cache     CacheInvalidator
	ledger    Ledger
	logger    *logging.Logger
}

// NewService wires the booking service. schedules and cache may be nil when
// only the booking path is needed (the chat worker does not update config).
func NewService(profiles ProfileLoader, ledger Ledger, schedules SchedulingStore, cache CacheInvalidator, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{profiles: profiles, schedules: schedules, cache: cache, ledger: ledger, logger: logger}
}

// Book validates and commits a reservation. Each step short-circuits; no
// write happens on any rejection. A concurrent booking that slips past the
// conflict read still fails at insert time on the ledger's unique
// constraint and surfaces as ErrConflict.
func (s *Service) Book(ctx context.Context, businessID int64, req BookRequest) (*Reservation, error) {
	if businessID <= 0 || req.Date == "" || req.StartTime == "" || req.EndTime == "" {
		return nil, ErrInvalidInput
	}
	if !ValidDate(req.Date) {
		return nil, fmt.Errorf("%w: bad date %q", ErrInvalidInput, req.Date)
	}
	candidate, err := schedule.ParseSlot(req.StartTime, req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	profile, err := s.profiles.Get(ctx, businessID)
	if err != nil {
		if errors.Is(err, business.ErrNotFound) {
			return nil, ErrModuleDisabled
		}
		return nil, fmt.Errorf("reservations: load profile: %w", err)
	}
	if !profile.Modules.Reservations {
		return nil, ErrModuleDisabled
	}

	grid, err := profile.Scheduling.Grid()
	if err != nil {
		return nil, fmt.Errorf("reservations: scheduling profile: %w", err)
	}
	if !schedule.Contains(grid, candidate) {
		return nil, ErrInvalidSlot
	}

	existing, err := s.ledger.ListByDate(ctx, businessID, req.Date)
	if err != nil {
		return nil, fmt.Errorf("reservations: conflict read: %w", err)
	}
	if schedule.Conflicts(candidate, occupiedSlots(existing)) {
		return nil, ErrConflict
	}

	rec := &Reservation{
		BusinessID:  businessID,
		Date:        req.Date,
		StartTime:   candidate.StartClock(),
		EndTime:     candidate.EndClock(),
		Occupied:    true,
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		Description: req.Description,
	}
	if err := s.ledger.Insert(ctx, rec); err != nil {
		return nil, err
	}

	s.logger.Info("reservation booked",
		"business_id", businessID, "date", rec.Date,
		"start", rec.StartTime, "end", rec.EndTime)
	return rec, nil
}

// FreeSlots computes the day's still-bookable slots: the generated grid
// minus every occupied reservation.
func (s *Service) FreeSlots(ctx context.Context, businessID int64, date string) ([]schedule.Slot, error) {
	if !ValidDate(date) {
		return nil, fmt.Errorf("%w: bad date %q", ErrInvalidInput, date)
	}

	profile, err := s.profiles.Get(ctx, businessID)
	if err != nil {
		if errors.Is(err, business.ErrNotFound) {
			return nil, ErrModuleDisabled
		}
		return nil, fmt.Errorf("reservations: load profile: %w", err)
	}
	if !profile.Modules.Reservations {
		return nil, ErrModuleDisabled
	}

	grid, err := profile.Scheduling.Grid()
	if err != nil {
		return nil, fmt.Errorf("reservations: scheduling profile: %w", err)
	}

	existing, err := s.ledger.ListByDate(ctx, businessID, date)
	if err != nil {
		return nil, fmt.Errorf("reservations: conflict read: %w", err)
	}
	return schedule.Free(grid, occupiedSlots(existing)), nil
}

// Cancel deletes a reservation owned by the business.
func (s *Service) Cancel(ctx context.Context, businessID, reservationID int64) error {
	if businessID <= 0 || reservationID <= 0 {
		return ErrInvalidInput
	}
	if err := s.ledger.Delete(ctx, businessID, reservationID); err != nil {
		return err
	}
	s.logger.Info("reservation cancelled", "business_id", businessID, "reservation_id", reservationID)
	return nil
}

// UpdateConfig applies new scheduling parameters, keeping the current
// open/close window when the request omits either bound.
func (s *Service) UpdateConfig(ctx context.Context, businessID int64, req SchedulingUpdate) error {
	profile, err := s.profiles.Get(ctx, businessID)
	if err != nil {
		if errors.Is(err, business.ErrNotFound) {
			return business.ErrNotFound
		}
		return fmt.Errorf("reservations: load profile: %w", err)
	}

	next := profile.Scheduling
	next.AppointmentDuration = req.AppointmentDuration
	next.BreakBetween = req.BreakBetween
	if req.DayOpenTime != nil {
		next.DayOpenTime = *req.DayOpenTime
	}
	if req.DayCloseTime != nil {
		next.DayCloseTime = *req.DayCloseTime
	}
	if err := next.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.schedules.UpdateScheduling(ctx, businessID, next); err != nil {
		return fmt.Errorf("reservations: update scheduling: %w", err)
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, businessID)
	}
	s.logger.Info("scheduling updated", "business_id", businessID,
		"duration", next.AppointmentDuration, "break", next.BreakBetween)
	return nil
}

func occupiedSlots(list []Reservation) []schedule.Slot {
	slots := make([]schedule.Slot, 0, len(list))
	for _, rec := range list {
		if !rec.Occupied {
			continue
		}
		slot, err := rec.Interval()
		if err != nil {
			continue
		}
		slots = append(slots, slot)
	}
	return slots
}
