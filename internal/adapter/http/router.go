package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/relaypoint/relaypoint/internal/adapter/http/handler"
	"github.com/relaypoint/relaypoint/internal/adapter/http/middleware"
	"github.com/relaypoint/relaypoint/internal/infrastructure/auth"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AuthHandler      *handler.AuthHandler
	AccountHandler   *handler.AccountHandler
	BalanceHandler   *handler.BalanceHandler
	PackageHandler   *handler.PackageHandler
	TrackHandler     *handler.TrackHandler
	DashboardHandler *handler.DashboardHandler
	BlogHandler      *handler.BlogHandler
	PaymentHandler   *handler.PaymentHandler
	HealthHandler    *handler.HealthHandler

	JWTManager  *auth.JWTManager
	Logger      zerolog.Logger
	RateLimiter *middleware.RateLimiter
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Metrics)

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	authenticate := middleware.AuthMiddleware(cfg.JWTManager)

	r.Route("/api/v1", func(r chi.Router) {
		// Public surface
		r.Post("/auth/register", cfg.AuthHandler.Register)
		r.Post("/auth/login", cfg.AuthHandler.Login)

		r.Get("/track/{trackingNumber}", cfg.TrackHandler.Track)
		r.Get("/track/{trackingNumber}/qr", cfg.TrackHandler.TrackQR)

		r.Get("/blog", cfg.BlogHandler.List)
		r.Get("/blog/{id}", cfg.BlogHandler.Get)

		r.Post("/payments/webhook", cfg.PaymentHandler.Webhook)

		// Authenticated surface
		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Get("/account", cfg.AccountHandler.Profile)
			r.Post("/account/balance", cfg.BalanceHandler.TopUp)

			r.Get("/packages", cfg.PackageHandler.ListMine)
			r.Put("/packages/{id}/status", cfg.PackageHandler.UpdateStatus)
		})

		// Admin surface
		r.Route("/admin", func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.RequireAdmin)

			r.Route("/accounts", func(r chi.Router) {
				r.Get("/", cfg.AccountHandler.List)
				r.Post("/", cfg.AccountHandler.CreateShop)
				r.Get("/{id}", cfg.AccountHandler.Get)
				r.Put("/{id}", cfg.AccountHandler.Update)
				r.Delete("/{id}", cfg.AccountHandler.Delete)
				r.Post("/{id}/balance", cfg.BalanceHandler.Adjust)
				r.Get("/{id}/statement", cfg.AccountHandler.Statement)
			})

			r.Route("/packages", func(r chi.Router) {
				r.Get("/", cfg.PackageHandler.List)
				r.Post("/", cfg.PackageHandler.Create)
				r.Get("/{id}", cfg.PackageHandler.Get)
				r.Put("/{id}", cfg.PackageHandler.Update)
				r.Delete("/{id}", cfg.PackageHandler.Delete)
			})

			r.Get("/dashboard", cfg.DashboardHandler.Dashboard)
			r.Get("/reconciliation", cfg.BalanceHandler.Reconciliation)

			r.Route("/blog", func(r chi.Router) {
				r.Post("/", cfg.BlogHandler.Create)
				r.Put("/{id}", cfg.BlogHandler.Update)
				r.Delete("/{id}", cfg.BlogHandler.Delete)
			})
		})
	})

	return r
}
