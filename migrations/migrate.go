// Package migrations embeds the SQL migrations for the users schema
// (accounts, lockout counters, recovery artifacts) and applies them with
// goose at server startup.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var embedMigrations embed.FS

// Migrate applies all pending migrations against db. It is idempotent; goose
// tracks applied versions in its own table, so rerunning at every startup is
// safe.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("migration error applying pending versions: %w", err)
	}

	return nil
}
