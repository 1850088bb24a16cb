// Package database selects and wires a catalog backend.
//
// Two backends are supported: PostgreSQL (via pgx) and SQLite (via
// modernc.org/sqlite). Connect runs migrations and returns the meme and
// user repositories for the configured backend.
package database
