// Package router assembles the chi HTTP surface for the dashboard API.
package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/autowhapp/platform/internal/business"
	"github.com/autowhapp/platform/internal/catalog"
	httpmiddleware "github.com/autowhapp/platform/internal/http/middleware"
	"github.com/autowhapp/platform/internal/orders"
	"github.com/autowhapp/platform/internal/reminders"
	"github.com/autowhapp/platform/internal/reservations"
	"github.com/autowhapp/platform/internal/whatsapp"
	"github.com/autowhapp/platform/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger              *logging.Logger
	BusinessHandler     *business.Handler
	CatalogHandler      *catalog.Handler
	OrdersHandler       *orders.Handler
	RemindersHandler    *reminders.Handler
	ReservationsHandler *reservations.Handler
	WhatsAppHandler     *whatsapp.Handler
	MetricsHandler      http.Handler
	AdminAuthSecret     string
	CORSAllowedOrigins  []string
}

// New creates the chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// Dashboard API. Reads are open to the dashboard; writes sit behind the
	// admin JWT. Creating a tenant additionally requires a platform-wide
	// token, which TenantScope enforces by rejecting business-scoped
	// subjects outside their own routes.
	r.Group(func(admin chi.Router) {
		admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
		admin.Use(httpmiddleware.TenantScope)
		admin.Post("/business", cfg.BusinessHandler.Create)
	})

	r.Route("/business/{businessID}", func(r chi.Router) {
		r.Use(httpmiddleware.TenantContext)
		r.Get("/", cfg.BusinessHandler.Get)
		r.Get("/faqs", cfg.CatalogHandler.ListFAQs)
		r.Get("/products", cfg.CatalogHandler.ListProducts)
		r.Get("/orders", cfg.OrdersHandler.List)
		r.Get("/reminders", cfg.RemindersHandler.List)

		r.Group(func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			admin.Use(httpmiddleware.TenantScope)
			admin.Put("/", cfg.BusinessHandler.Update)
			admin.Post("/faqs", cfg.CatalogHandler.CreateFAQ)
			admin.Delete("/faqs/{faqID}", cfg.CatalogHandler.DeleteFAQ)
			admin.Post("/products", cfg.CatalogHandler.CreateProduct)
			admin.Delete("/products/{productID}", cfg.CatalogHandler.DeleteProduct)
			admin.Post("/orders", cfg.OrdersHandler.Create)
			admin.Put("/orders/{orderID}/status", cfg.OrdersHandler.UpdateStatus)
			admin.Delete("/orders/{orderID}", cfg.OrdersHandler.Delete)
			admin.Put("/reminders", cfg.RemindersHandler.Replace)
		})
	})

	r.Route("/reservations/{businessID}", func(r chi.Router) {
		r.Use(httpmiddleware.TenantContext)
		r.Get("/slots", cfg.ReservationsHandler.Slots)

		r.Group(func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			admin.Use(httpmiddleware.TenantScope)
			admin.Post("/", cfg.ReservationsHandler.Book)
			admin.Delete("/{reservationID}", cfg.ReservationsHandler.Cancel)
			admin.Put("/", cfg.ReservationsHandler.UpdateConfig)
		})
	})

	// QR codes pair the account itself, so the whole pairing surface sits
	// behind the admin JWT.
	if cfg.WhatsAppHandler != nil {
		r.Route("/whatsapp/{businessID}", func(r chi.Router) {
			r.Use(httpmiddleware.TenantContext)
			r.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			r.Use(httpmiddleware.TenantScope)
			r.Get("/status", cfg.WhatsAppHandler.Status)
			r.Get("/qr", cfg.WhatsAppHandler.QR)
		})
	}

	return r
}
