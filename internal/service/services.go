package service

import (
	"github.com/baseytransit/transit-server/internal/config"
	"github.com/baseytransit/transit-server/internal/logger"
	"github.com/baseytransit/transit-server/internal/store"
)

// Services bundles every service the transport layer depends on.
type Services struct {
	AuthService     AuthService
	RecoveryService RecoveryService
	AdminService    AdminService
}

// NewServices wires all services to the shared storages, mailer and config.
func NewServices(storages *store.Storages, mailer Mailer, cfg config.StructuredConfig, logger *logger.Logger) *Services {
	return &Services{
		AuthService:     NewAuthService(storages.UserRepository, cfg.App, logger),
		RecoveryService: NewRecoveryService(storages.UserRepository, mailer, cfg.App, logger),
		AdminService:    NewAdminService(storages.UserRepository, cfg.App, logger),
	}
}
