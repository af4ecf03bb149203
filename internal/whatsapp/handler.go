package whatsapp

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Handler exposes the pairing state of each business's session.
type Handler struct {
	registry *Registry
}

// NewHandler creates a session status handler.
func NewHandler(registry *Registry) *Handler {
	return &Handler{registry: registry}
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (SessionHandle, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "businessID"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid business id", http.StatusBadRequest)
		return nil, false
	}
	s, ok := h.registry.Get(id)
	if !ok {
		http.Error(w, "no session for business", http.StatusNotFound)
		return nil, false
	}
	return s, true
}

// Status handles GET /whatsapp/{businessID}/status.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"authenticated": s.Authenticated()})
}

// QR handles GET /whatsapp/{businessID}/qr: the current pairing code, 404
// once paired.
func (h *Handler) QR(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	code := s.QRCode()
	if code == "" {
		http.Error(w, "no pending qr code", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"qr": code})
}
