package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/signond/signond/internal/auth"
	"github.com/signond/signond/internal/http/features/account"
	"github.com/signond/signond/internal/http/features/password"
	"github.com/signond/signond/internal/http/middleware"
	"github.com/signond/signond/internal/httputil"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Logger             *slog.Logger
	Service            *auth.Service
	RateLimitEnabled   bool
	MaxRequestBodySize int64
	CORSOrigins        []string
}

// NewRouter creates a new HTTP router with all routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Recover(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.RequestSizeLimit(cfg.MaxRequestBodySize))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	rateLimiters := middleware.CreateRateLimiters(cfg.RateLimitEnabled, cfg.Logger)

	accountHandler := account.NewHandler(cfg.Logger, cfg.Service)
	passwordHandler := password.NewHandler(cfg.Logger, cfg.Service)

	r.Group(func(r chi.Router) {
		r.Use(rateLimiters["auth"])
		r.Post("/v1/auth/register", accountHandler.Register)
		r.Post("/v1/auth/verify-account", accountHandler.VerifyAccount)
		r.Post("/v1/auth/login", passwordHandler.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(rateLimiters["reset"])
		r.Post("/v1/auth/password/reset-request", passwordHandler.ResetRequest)
		r.Post("/v1/auth/password/reset-verify", passwordHandler.ResetVerify)
		r.Post("/v1/auth/password/reset-confirm", passwordHandler.ResetConfirm)
	})

	return r
}
