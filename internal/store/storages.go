package store

import "github.com/baseytransit/transit-server/internal/logger"

// Storages bundles every repository the service layer depends on.
type Storages struct {
	UserRepository UserRepository
}

// NewStorages wires all repositories to the shared database handle.
func NewStorages(db *DB, log *logger.Logger) *Storages {
	return &Storages{
		UserRepository: NewUserRepository(db, log),
	}
}
