package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"

	"clinicbook/api/internal/config"
)

// Migrate applies pending schema migrations. The slot uniqueness index that
// backs the booking conflict guarantee lives here, so the server refuses to
// start without it.
func Migrate(cfg config.PostgresConfig, logger zerolog.Logger) error {
	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer func() { _ = db.Close() }()

	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", cfg.MigrationsDir), "postgres", driver)
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info().Msg("schema up to date")
			return nil
		}
		return fmt.Errorf("apply migrations: %w", err)
	}

	logger.Info().Msg("migrations applied")
	return nil
}
