package router

import (
	"net/http"

	"stockflow-pos-api/internal/handler"
	"stockflow-pos-api/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Config holds the configuration for creating a router.
type Config struct {
	Handler         *handler.Handler
	AuthHandler     *handler.AuthHandler
	POSHandler      *handler.POSHandler
	ProductHandler  *handler.ProductHandler
	SalesHandler    *handler.SalesHandler
	SyncHandler     *handler.SyncHandler
	ForecastHandler *handler.ForecastHandler
	AuthMiddleware  func(http.Handler) http.Handler
}

// New creates and configures the HTTP router.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware stack (applies to ALL routes)
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-Session"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// PUBLIC routes (no auth required)
	if cfg.Handler != nil {
		r.Get("/api/status", cfg.Handler.Status)
		r.Get("/api/v1/health", cfg.Handler.Health)
		r.Get("/api/v1/ready", cfg.Handler.Ready)
	}
	if cfg.AuthHandler != nil {
		r.Post("/api/v1/auth/login", cfg.AuthHandler.Login)
	}

	// AUTHENTICATED routes (use Group to apply auth middleware only to these)
	r.Group(func(r chi.Router) {
		if cfg.AuthMiddleware != nil {
			r.Use(cfg.AuthMiddleware)
		}

		r.Route("/api/v1", func(r chi.Router) {
			if cfg.AuthHandler != nil {
				r.Post("/auth/logout", cfg.AuthHandler.Logout)
				r.Post("/auth/refresh", cfg.AuthHandler.Refresh)
			}

			if cfg.POSHandler != nil {
				r.Post("/pos/checkout", cfg.POSHandler.Checkout)
			}

			if cfg.ProductHandler != nil {
				r.Route("/products", func(r chi.Router) {
					r.Get("/", cfg.ProductHandler.List)
					r.Post("/", cfg.ProductHandler.Create)
					r.Put("/{id}", cfg.ProductHandler.Update)
				})
			}

			if cfg.SalesHandler != nil {
				r.Route("/sales", func(r chi.Router) {
					r.Get("/", cfg.SalesHandler.List)
					r.Get("/export", cfg.SalesHandler.Export)
				})
			}

			if cfg.SyncHandler != nil {
				r.Route("/sync", func(r chi.Router) {
					r.Get("/status", cfg.SyncHandler.Status)
					r.Post("/", cfg.SyncHandler.Trigger)
					r.Get("/history", cfg.SyncHandler.History)
				})
			}

			if cfg.ForecastHandler != nil {
				r.Get("/forecast", cfg.ForecastHandler.Get)
			}
		})
	})

	return r
}
