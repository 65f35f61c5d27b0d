// Package settings persists small runtime state across restarts: the
// active route and its progress, plus free-form key/value entries. Backed
// by a single-table SQLite database next to the config file.
package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS settings (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TEXT NOT NULL
);`

const routeKey = "active_route"

// Store wraps a sql.DB with typed accessors.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed creates) the settings database at path.
// ":memory:" yields a throwaway store for tests.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening settings database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging settings database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing settings schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get retrieves a value; a missing key returns "" without error.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading setting %s: %w", key, err)
	}
	return value, nil
}

// Set stores a value, replacing any previous one.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, value)
	if err != nil {
		return fmt.Errorf("writing setting %s: %w", key, err)
	}
	return nil
}

// Delete removes a key; deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting setting %s: %w", key, err)
	}
	return nil
}

// SavedRoute is the persisted slice of route state needed to resume a
// session: the systems as loaded, the next hop index, and the source.
type SavedRoute struct {
	Systems []string `json:"systems"`
	Index   int      `json:"index"`
	Source  string   `json:"source"`
}

// SaveRoute persists the active route. An empty route clears the entry.
func (s *Store) SaveRoute(ctx context.Context, route SavedRoute) error {
	if len(route.Systems) == 0 {
		return s.Delete(ctx, routeKey)
	}
	raw, err := json.Marshal(route)
	if err != nil {
		return fmt.Errorf("encoding route: %w", err)
	}
	return s.Set(ctx, routeKey, string(raw))
}

// LoadRoute retrieves the persisted route. ok is false when none is saved.
func (s *Store) LoadRoute(ctx context.Context) (SavedRoute, bool, error) {
	raw, err := s.Get(ctx, routeKey)
	if err != nil || raw == "" {
		return SavedRoute{}, false, err
	}
	var route SavedRoute
	if err := json.Unmarshal([]byte(raw), &route); err != nil {
		// A corrupt entry is dropped rather than wedging every start.
		_ = s.Delete(ctx, routeKey)
		return SavedRoute{}, false, nil
	}
	return route, true, nil
}
