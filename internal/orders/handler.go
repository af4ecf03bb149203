package orders

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/autowhapp/platform/pkg/logging"
)

// Handler serves the dashboard's order queue endpoints.
type Handler struct {
	repo   *Repository
	logger *logging.Logger
}

// NewHandler creates an orders handler.
func NewHandler(repo *Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

// List handles GET /business/{businessID}/orders.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	businessID, ok := pathID(r, "businessID")
	if !ok {
		http.Error(w, "invalid business id", http.StatusBadRequest)
		return
	}

	list, err := h.repo.List(r.Context(), businessID)
	if err != nil {
		h.logger.Error("failed to list orders", "error", err, "business_id", businessID)
		http.Error(w, "failed to list orders", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []Order{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

type createRequest struct {
	CustomerPhone string `json:"customer_phone"`
	Product       string `json:"product"`
	Quantity      int    `json:"quantity"`
}

// Create handles POST /business/{businessID}/orders.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	businessID, ok := pathID(r, "businessID")
	if !ok {
		http.Error(w, "invalid business id", http.StatusBadRequest)
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	req.Product = strings.TrimSpace(req.Product)
	if req.Product == "" {
		http.Error(w, "product is required", http.StatusBadRequest)
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	order, err := h.repo.Create(r.Context(), businessID, req.CustomerPhone, req.Product, req.Quantity)
	if err != nil {
		h.logger.Error("failed to create order", "error", err, "business_id", businessID)
		http.Error(w, "failed to create order", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(order)
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PUT /business/{businessID}/orders/{orderID}.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	businessID, ok := pathID(r, "businessID")
	if !ok {
		http.Error(w, "invalid business id", http.StatusBadRequest)
		return
	}
	orderID, ok := pathID(r, "orderID")
	if !ok {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	err := h.repo.UpdateStatus(r.Context(), businessID, orderID, req.Status)
	switch {
	case errors.Is(err, ErrInvalidStatus):
		http.Error(w, "invalid order status", http.StatusBadRequest)
		return
	case errors.Is(err, ErrNotFound):
		http.Error(w, "order not found", http.StatusNotFound)
		return
	case err != nil:
		h.logger.Error("failed to update order", "error", err, "business_id", businessID, "order_id", orderID)
		http.Error(w, "failed to update order", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// Delete handles DELETE /business/{businessID}/orders/{orderID}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	businessID, ok := pathID(r, "businessID")
	if !ok {
		http.Error(w, "invalid business id", http.StatusBadRequest)
		return
	}
	orderID, ok := pathID(r, "orderID")
	if !ok {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}

	if err := h.repo.Delete(r.Context(), businessID, orderID); err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "order not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to delete order", "error", err, "business_id", businessID, "order_id", orderID)
		http.Error(w, "failed to delete order", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}
