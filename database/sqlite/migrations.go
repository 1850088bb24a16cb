package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate creates the catalog tables if they do not exist.
//
// memes.name carries a plain (non-unique) index: the upsert protocol
// resolves names by lookup, and a uniqueness constraint would change
// observable concurrent behavior.
func Migrate(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS memes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			description TEXT,
			last_updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_memes_name ON memes (name)`,
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}

	return nil
}
