package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterConfig holds what the router needs beyond the handlers
type RouterConfig struct {
	AllowedOrigins []string
	Logger         *slog.Logger
}

// NewRouter wires middleware and routes. Every route accepts an optional
// trailing slash.
func NewRouter(customers *CustomerHandler, health *HealthHandler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))
	r.Use(SecurityHeadersMiddleware)
	r.Use(CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middleware.StripSlashes)

	r.Get("/health", health.Health)

	r.Route("/api/customers", func(r chi.Router) {
		r.Get("/", customers.ListCustomers)
		r.Post("/", customers.CreateCustomer)
		r.Get("/stats", customers.Stats)

		r.Route("/{id:[0-9]+}", func(r chi.Router) {
			r.Get("/", customers.GetCustomer)
			r.Put("/", customers.UpdateCustomer)
			r.Patch("/", customers.PatchCustomer)
			r.Delete("/", customers.DeleteCustomer)
			r.Post("/activate", customers.Activate)
			r.Post("/deactivate", customers.Deactivate)
			r.Get("/history", customers.History)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Not found.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed.")
	})

	return r
}
