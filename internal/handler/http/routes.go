package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/baseytransit/transit-server/models"
)

// Init assembles the router.
//
// Public routes carry per-IP rate limits on the credential-sensitive
// endpoints; everything under /api/admin sits behind the bearer-token
// middleware plus an ADMIN role guard.
func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.With(h.rateLimit(h.loginLimiter)).Post("/api/auth/login", h.login)
		r.With(h.rateLimit(h.registerLimiter)).Post("/api/auth/register", h.register)
		r.With(h.rateLimit(h.resetLimiter)).Post("/api/auth/request-reset", h.requestReset)

		r.Post("/api/auth/verify-reset-token", h.verifyResetToken)
		r.Post("/api/auth/reset-password", h.resetPassword)
		r.Post("/api/auth/verify-otp", h.verifyOTP)

		r.Get("/api/version", h.getVersion)
	})

	// admin-only routes
	router.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Use(h.requireRole(models.RoleAdmin))

		r.Post("/api/admin/reset-password", h.adminResetPassword)
		r.Get("/api/admin/users", h.listUsers)
		r.Post("/api/admin/users/verify", h.verifyUser)
		r.Post("/api/admin/users/toggle-status", h.toggleUserStatus)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
