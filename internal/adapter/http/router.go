package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/dinhcongdat866/moneytracker/internal/adapter/http/handler"
	"github.com/dinhcongdat866/moneytracker/internal/adapter/http/middleware"
	"github.com/dinhcongdat866/moneytracker/internal/backend"
	"github.com/dinhcongdat866/moneytracker/internal/infrastructure/auth"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	TransactionHandler *handler.TransactionHandler
	DashboardHandler   *handler.DashboardHandler
	AuthHandler        *handler.AuthHandler
	HealthHandler      *handler.HealthHandler
	// ChangeFeed serves GET /ws when set.
	ChangeFeed       http.Handler
	IdempotencyStore backend.IdempotencyStore
	IdempotencyTTL   time.Duration
	// JWTManager guards /api/mock when AuthRequired is set.
	JWTManager   *auth.JWTManager
	AuthRequired bool
	RateLimiter  *middleware.RateLimiter
	Logger       zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery(cfg.Logger))

	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// The upgrade needs the raw ResponseWriter, so the feed skips the
	// recording middlewares below.
	if cfg.ChangeFeed != nil {
		r.Handle("/ws", cfg.ChangeFeed)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
		r.Use(middleware.Metrics)
		if cfg.RateLimiter != nil {
			r.Use(cfg.RateLimiter.Limit)
		}

		r.Route("/api/auth", func(r chi.Router) {
			r.Post("/login", cfg.AuthHandler.Login)
			r.Post("/logout", cfg.AuthHandler.Logout)
			if cfg.JWTManager != nil {
				r.With(middleware.AuthMiddleware(cfg.JWTManager)).Get("/me", cfg.AuthHandler.GetCurrentUser)
			}
		})

		r.Route("/api/mock", func(r chi.Router) {
			if cfg.AuthRequired && cfg.JWTManager != nil {
				r.Use(middleware.AuthMiddleware(cfg.JWTManager))
			}
			if cfg.IdempotencyStore != nil {
				r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL).Wrap)
			}

			r.Route("/transactions", func(r chi.Router) {
				r.Get("/", cfg.TransactionHandler.List)
				r.Post("/", cfg.TransactionHandler.Create)
				r.Get("/summary", cfg.TransactionHandler.MonthlySummary)
				r.Get("/{id}", cfg.TransactionHandler.Get)
				r.Put("/{id}", cfg.TransactionHandler.Update)
				r.Delete("/{id}", cfg.TransactionHandler.Delete)
			})

			r.Get("/balance", cfg.DashboardHandler.Balance)
			r.Get("/summary", cfg.DashboardHandler.Summary)
			r.Get("/expenses/top", cfg.DashboardHandler.TopExpenses)
		})
	})

	return r
}
