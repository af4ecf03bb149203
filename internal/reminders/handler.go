package reminders

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/autowhapp/platform/pkg/logging"
)

// Handler serves the dashboard's reminder list.
type Handler struct {
	repo   *Repository
	logger *logging.Logger
}

// NewHandler creates a reminders handler.
func NewHandler(repo *Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

func businessID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "businessID"), 10, 64)
	return id, err == nil && id > 0
}

// List handles GET /business/{businessID}/reminders.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := businessID(r)
	if !ok {
		http.Error(w, "invalid business id", http.StatusBadRequest)
		return
	}

	list, err := h.repo.ListByBusiness(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to list reminders", "error", err, "business_id", id)
		http.Error(w, "failed to list reminders", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []Reminder{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]Reminder{"reminders": list})
}

type replaceRequest struct {
	Reminders []Reminder `json:"reminders"`
}

// Replace handles PUT /business/{businessID}/reminders: the dashboard saves
// the full list every time, so the stored list is swapped wholesale.
func (h *Handler) Replace(w http.ResponseWriter, r *http.Request) {
	id, ok := businessID(r)
	if !ok {
		http.Error(w, "invalid business id", http.StatusBadRequest)
		return
	}

	var req replaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	for i := range req.Reminders {
		req.Reminders[i].Message = strings.TrimSpace(req.Reminders[i].Message)
		if err := req.Reminders[i].Validate(); err != nil {
			http.Error(w, "invalid reminder", http.StatusBadRequest)
			return
		}
	}

	list, err := h.repo.Replace(r.Context(), id, req.Reminders)
	if err != nil {
		h.logger.Error("failed to save reminders", "error", err, "business_id", id)
		http.Error(w, "failed to save reminders", http.StatusInternalServerError)
		return
	}

	h.logger.Info("reminders saved", "business_id", id, "count", len(list))
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]Reminder{"reminders": list})
}
