package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/marcusw/leadclaim/internal/auth"
	"github.com/marcusw/leadclaim/internal/handlers"
	"github.com/marcusw/leadclaim/internal/middleware"
	"github.com/marcusw/leadclaim/internal/repositories"
	"github.com/marcusw/leadclaim/pkg/httpx"
)

// RegisterRoutes registers all application routes under /api
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	enquiryHandler *handlers.EnquiryHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *auth.TokenManager,
	userRepo *repositories.UserRepository,
	intakeLimit middleware.RateLimitConfig,
) {
	router.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Health)

		// Public routes - no authentication required
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.With(middleware.RateLimitByIP(intakeLimit)).Post("/public/enquiries", enquiryHandler.Submit)

		// Protected routes - authentication required
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(tokenManager, userRepo))

			r.Get("/enquiries/unclaimed", enquiryHandler.ListUnclaimed)
			r.Post("/enquiries/{id}/claim", enquiryHandler.Claim)
			r.Get("/enquiries/claimed", enquiryHandler.ListMine)
		})
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteNotFound(w, "Route not found")
	})
}
