package reservations

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/autowhapp/platform/internal/business"
	"github.com/autowhapp/platform/internal/observability/metrics"
	"github.com/autowhapp/platform/pkg/logging"
)

// Handler serves the dashboard-facing booking endpoints.
type Handler struct {
	service *Service
	metrics *metrics.BotMetrics
	logger  *logging.Logger
}

// NewHandler creates a reservations handler. metrics may be nil.
func NewHandler(service *Service, m *metrics.BotMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, metrics: m, logger: logger}
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

// Book handles POST /reservations/{businessID}.
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	businessID, ok := pathID(r, "businessID")
	if !ok {
		http.Error(w, "invalid business id", http.StatusBadRequest)
		return
	}

	var req BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	rec, err := h.service.Book(r.Context(), businessID, req)
	switch {
	case errors.Is(err, ErrInvalidInput):
		h.metrics.ObserveBooking("invalid_input")
		http.Error(w, "missing or malformed reservation fields", http.StatusBadRequest)
		return
	case errors.Is(err, ErrInvalidSlot):
		h.metrics.ObserveBooking("invalid_slot")
		http.Error(w, "requested interval is not a valid slot", http.StatusBadRequest)
		return
	case errors.Is(err, ErrModuleDisabled):
		h.metrics.ObserveBooking("module_disabled")
		http.Error(w, "reservations module disabled", http.StatusForbidden)
		return
	case errors.Is(err, ErrConflict):
		h.metrics.ObserveBooking("conflict")
		http.Error(w, "slot already reserved", http.StatusConflict)
		return
	case err != nil:
		h.metrics.ObserveBooking("error")
		h.logger.Error("failed to book reservation", "error", err, "business_id", businessID)
		http.Error(w, "failed to book reservation", http.StatusInternalServerError)
		return
	}

	h.metrics.ObserveBooking("confirmed")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(rec)
}

// Cancel handles DELETE /reservations/{businessID}/{reservationID}.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	businessID, ok := pathID(r, "businessID")
	if !ok {
		http.Error(w, "invalid business id", http.StatusBadRequest)
		return
	}
	reservationID, ok := pathID(r, "reservationID")
	if !ok {
		http.Error(w, "invalid reservation id", http.StatusBadRequest)
		return
	}

	err := h.service.Cancel(r.Context(), businessID, reservationID)
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, "reservation not found", http.StatusNotFound)
		return
	case err != nil:
		h.logger.Error("failed to cancel reservation", "error", err,
			"business_id", businessID, "reservation_id", reservationID)
		http.Error(w, "failed to cancel reservation", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// UpdateConfig handles PUT /reservations/{businessID}: scheduling
// parameters, with optional open/close overrides.
func (h *Handler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	businessID, ok := pathID(r, "businessID")
	if !ok {
		http.Error(w, "invalid business id", http.StatusBadRequest)
		return
	}

	var req SchedulingUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	err := h.service.UpdateConfig(r.Context(), businessID, req)
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, "invalid scheduling parameters", http.StatusBadRequest)
		return
	case errors.Is(err, business.ErrNotFound):
		http.Error(w, "business not found", http.StatusNotFound)
		return
	case err != nil:
		h.logger.Error("failed to update scheduling", "error", err, "business_id", businessID)
		http.Error(w, "failed to update scheduling", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

type slotView struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// Slots handles GET /reservations/{businessID}/slots?date=YYYY-MM-DD. An
// omitted date means today.
func (h *Handler) Slots(w http.ResponseWriter, r *http.Request) {
	businessID, ok := pathID(r, "businessID")
	if !ok {
		http.Error(w, "invalid business id", http.StatusBadRequest)
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		date = Today()
	}

	free, err := h.service.FreeSlots(r.Context(), businessID, date)
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	case errors.Is(err, ErrModuleDisabled):
		http.Error(w, "reservations module disabled", http.StatusForbidden)
		return
	case err != nil:
		h.logger.Error("failed to compute slots", "error", err, "business_id", businessID)
		http.Error(w, "failed to compute slots", http.StatusInternalServerError)
		return
	}

	views := make([]slotView, len(free))
	for i, s := range free {
		views[i] = slotView{StartTime: s.StartClock(), EndTime: s.EndClock()}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"date": date, "slots": views})
}
