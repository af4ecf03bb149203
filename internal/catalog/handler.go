package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/autowhapp/platform/pkg/logging"
)

// Handler serves FAQ and product CRUD for the dashboard.
type Handler struct {
	repo   *Repository
	logger *logging.Logger
}

// NewHandler creates a catalog handler.
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

// ListFAQs handles GET /business/{businessID}/faqs.
func (h *Handler) ListFAQs(w http.ResponseWriter, r *http.Request) {
	businessID, ok := pathID(r, "businessID")
	if !ok {
		http.Error(w, "invalid business id", http.StatusBadRequest)
		return
	}

	faqs, err := h.repo.ListFAQs(r.Context(), businessID)
	if err != nil {
		h.logger.Error("failed to list faqs", "error", err, "business_id", businessID)
		http.Error(w, "failed to list faqs", http.StatusInternalServerError)
		return
	}
	if faqs == nil {
		faqs = []FAQ{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(faqs)
}

type createFAQRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// CreateFAQ handles POST /business/{businessID}/faqs.
func (h *Handler) CreateFAQ(w http.ResponseWriter, r *http.Request) {
	businessID, ok := pathID(r, "businessID")
	if !ok {
		http.Error(w, "invalid business id", http.StatusBadRequest)
		return
	}

	var req createFAQRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	req.Question = strings.TrimSpace(req.Question)
	req.Answer = strings.TrimSpace(req.Answer)
	if req.Question == "" || req.Answer == "" {
		http.Error(w, "question and answer are required", http.StatusBadRequest)
		return
	}

	faq, err := h.repo.CreateFAQ(r.Context(), businessID, req.Question, req.Answer)
	if err != nil {
		h.logger.Error("failed to create faq", "error", err, "business_id", businessID)
		http.Error(w, "failed to create faq", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(faq)
}

// DeleteFAQ handles DELETE /business/{businessID}/faqs/{faqID}.
func (h *Handler) DeleteFAQ(w http.ResponseWriter, r *http.Request) {
	businessID, ok := pathID(r, "businessID")
	if !ok {
		http.Error(w, "invalid business id", http.StatusBadRequest)
		return
	}
	faqID, ok := pathID(r, "faqID")
	if !ok {
		http.Error(w, "invalid faq id", http.StatusBadRequest)
		return
	}

	if err := h.repo.DeleteFAQ(r.Context(), businessID, faqID); err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "faq not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to delete faq", "error", err, "business_id", businessID, "faq_id", faqID)
		http.Error(w, "failed to delete faq", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// ListProducts handles GET /business/{businessID}/products.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	businessID, ok := pathID(r, "businessID")
	if !ok {
		http.Error(w, "invalid business id", http.StatusBadRequest)
		return
	}

	products, err := h.repo.ListProducts(r.Context(), businessID)
	if err != nil {
		h.logger.Error("failed to list products", "error", err, "business_id", businessID)
		http.Error(w, "failed to list products", http.StatusInternalServerError)
		return
	}
	if products == nil {
		products = []Product{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(products)
}

type createProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// CreateProduct handles POST /business/{businessID}/products.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	businessID, ok := pathID(r, "businessID")
	if !ok {
		http.Error(w, "invalid business id", http.StatusBadRequest)
		return
	}

	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	if req.Price < 0 {
		http.Error(w, "price must not be negative", http.StatusBadRequest)
		return
	}

	product, err := h.repo.CreateProduct(r.Context(), businessID, req.Name, req.Description, req.Price)
	if err != nil {
		h.logger.Error("failed to create product", "error", err, "business_id", businessID)
		http.Error(w, "failed to create product", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(product)
}

// DeleteProduct handles DELETE /business/{businessID}/products/{productID}.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	businessID, ok := pathID(r, "businessID")
	if !ok {
		http.Error(w, "invalid business id", http.StatusBadRequest)
		return
	}
	productID, ok := pathID(r, "productID")
	if !ok {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	if err := h.repo.DeleteProduct(r.Context(), businessID, productID); err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to delete product", "error", err, "business_id", businessID, "product_id", productID)
		http.Error(w, "failed to delete product", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}
