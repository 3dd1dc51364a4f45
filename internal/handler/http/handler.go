package http

import (
	"github.com/baseytransit/transit-server/internal/config"
	"github.com/baseytransit/transit-server/internal/logger"
	"github.com/baseytransit/transit-server/internal/service"
)

// Handler carries the service dependencies and per-endpoint rate limiters of
// the HTTP transport layer.
type Handler struct {
	services *service.Services
	version  string

	loginLimiter    *rateLimiter
	registerLimiter *rateLimiter
	resetLimiter    *rateLimiter

	logger *logger.Logger
}

// NewHandler constructs the HTTP handler set with its rate limiters.
func NewHandler(services *service.Services, cfg config.App, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")

	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	return &Handler{
		services:        services,
		version:         version,
		loginLimiter:    newRateLimiter(loginRateLimit, loginRateWindow),
		registerLimiter: newRateLimiter(registerRateLimit, registerRateWindow),
		resetLimiter:    newRateLimiter(resetRateLimit, resetRateWindow),
		logger:          logger,
	}
}
