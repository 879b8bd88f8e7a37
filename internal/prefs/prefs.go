// Package prefs provides the durable preference store backed by SQLite.
// It holds the handful of values that outlive a session, such as the
// theme mode.
package prefs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/leapstack-labs/tablemgr/pkg/table"

	_ "modernc.org/sqlite" // SQLite driver (pure Go)
)

// ErrNotFound is returned when a preference has never been written.
var ErrNotFound = errors.New("preference not found")

// Store persists key/value preferences.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Open opens (creating if needed) the preference database at path and
// runs migrations. Use ":memory:" for a throwaway store.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return nil, fmt.Errorf("failed to create preferences directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open preferences database: %w", err)
	}
	// one connection: ":memory:" databases are per-connection
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping preferences database: %w", err)
	}

	s := &Store{db: db, path: path, logger: logger}
	if err := s.Migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Debug("preferences opened", "path", path)
	return s, nil
}

// NewWithDB wraps an already-migrated connection.
func NewWithDB(db *sql.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{db: db, logger: logger}
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database path the store was opened with.
func (s *Store) Path() string {
	return s.path
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE key = ?`, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get preference %s: %w", key, err)
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to set preference %s: %w", key, err)
	}
	s.logger.Debug("preference saved", "key", key, "value", value)
	return nil
}

// Theme returns the persisted theme mode. An unset or unrecognised value
// returns ErrNotFound.
func (s *Store) Theme(ctx context.Context) (table.ThemeMode, error) {
	v, err := s.Get(ctx, table.ThemeKey)
	if err != nil {
		return "", err
	}
	mode, ok := table.ParseThemeMode(v)
	if !ok {
		s.logger.Warn("ignoring unknown theme preference", "value", v)
		return "", ErrNotFound
	}
	return mode, nil
}

// SetTheme persists the theme mode. It satisfies table.ThemeWriter.
func (s *Store) SetTheme(mode table.ThemeMode) error {
	return s.Set(context.Background(), table.ThemeKey, string(mode))
}
