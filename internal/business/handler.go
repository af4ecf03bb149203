package business

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/autowhapp/platform/pkg/logging"
)

// ReservationView is the calendar shape the dashboard consumes.
type ReservationView struct {
	ID          int64  `json:"id"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Occupied    bool   `json:"occupied"`
	ClientName  string `json:"client_name,omitempty"`
	ClientPhone string `json:"client_phone,omitempty"`
	Description string `json:"description,omitempty"`
}

// ReservationLister supplies the calendar rows for GET /business/{id}.
type ReservationLister interface {
	ListViews(ctx context.Context, businessID int64) ([]ReservationView, error)
}

// Handler serves the dashboard's business profile endpoints.
type Handler struct {
	repo         *Repository
	cache        *ProfileCache
	reservations ReservationLister
	logger       *logging.Logger
}

// NewHandler creates a business handler.
func NewHandler(repo *Repository, cache *ProfileCache, reservations ReservationLister, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, cache: cache, reservations: reservations, logger: logger}
}

type profileResponse struct {
	*Business
	Reservations []ReservationView `json:"reservations"`
}

// Get handles GET /business/{businessID}: the profile plus its scheduling
// parameters and reservation list for the calendar view.
// Create handles POST /business: registers a new tenant with default
// scheduling. Name and phone are required, and the phone must not belong
// to another business.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	if req.Name == "" || req.Phone == "" {
		http.Error(w, "name and phone are required", http.StatusBadRequest)
		return
	}

	b, err := h.repo.Insert(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrDuplicatePhone) {
			http.Error(w, "phone number already registered", http.StatusConflict)
			return
		}
		h.logger.Error("failed to create business", "error", err)
		http.Error(w, "failed to create business", http.StatusInternalServerError)
		return
	}

	h.logger.Info("business created", "business_id", b.ID, "name", b.Name)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(b)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "businessID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid business id", http.StatusBadRequest)
		return
	}

	b, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "business not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load business", "error", err, "business_id", id)
		http.Error(w, "failed to load business", http.StatusInternalServerError)
		return
	}

	resp := profileResponse{Business: b, Reservations: []ReservationView{}}
	if h.reservations != nil {
		views, err := h.reservations.ListViews(r.Context(), id)
		if err != nil {
			h.logger.Error("failed to list reservations", "error", err, "business_id", id)
			http.Error(w, "failed to load business", http.StatusInternalServerError)
			return
		}
		if views != nil {
			resp.Reservations = views
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Update handles PUT /business/{businessID}: profile fields and module flags.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "businessID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid business id", http.StatusBadRequest)
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.repo.UpdateProfile(r.Context(), id, req); err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "business not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to update business", "error", err, "business_id", id)
		http.Error(w, "failed to update business", http.StatusInternalServerError)
		return
	}
	if h.cache != nil {
		h.cache.Invalidate(r.Context(), id)
	}

	h.logger.Info("business updated", "business_id", id)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}
