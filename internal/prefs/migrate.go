package prefs

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// newMigrator builds a goose provider over the embedded preference schema.
// The provider borrows db; closing it would close the store's connection.
func newMigrator(db *sql.DB) (*goose.Provider, error) {
	if db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return nil, err
	}
	p, err := goose.NewProvider(goose.DialectSQLite3, db, fsys, goose.WithDisableGlobalRegistry(true))
	if err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}
	return p, nil
}

// Migrate applies every pending preference migration.
func (s *Store) Migrate(ctx context.Context) error {
	return MigrateWithDB(ctx, s.db, s.logger)
}

// MigrateWithDB applies pending migrations to a raw connection, logging
// each applied version at debug level.
func MigrateWithDB(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	p, err := newMigrator(db)
	if err != nil {
		return err
	}
	results, err := p.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	for _, r := range results {
		logger.Debug("preferences migrated", "version", r.Source.Version, "duration", r.Duration)
	}
	return nil
}

// MigrationVersion returns the schema version of the preference database.
func (s *Store) MigrationVersion(ctx context.Context) (int64, error) {
	p, err := newMigrator(s.db)
	if err != nil {
		return 0, err
	}
	return p.GetDBVersion(ctx)
}

// HasPendingMigrations reports whether the database is behind the
// embedded schema.
func (s *Store) HasPendingMigrations(ctx context.Context) (bool, error) {
	p, err := newMigrator(s.db)
	if err != nil {
		return false, err
	}
	return p.HasPending(ctx)
}
