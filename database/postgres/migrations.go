package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the catalog tables if they do not exist.
//
// The memes.name index is intentionally non-unique: the upsert protocol
// resolves names by first-match-wins lookup, and adding a constraint would
// change observable concurrent behavior.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	sql := `
		CREATE TABLE IF NOT EXISTS memes (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			last_updated_at TIMESTAMPTZ NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_memes_name ON memes (name);

		CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL
		);
	`

	if _, err := pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("migrate postgres: %w", err)
	}
	return nil
}
