// Package sqlite implements the catalog repositories using SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/memecat/memecat"
	"github.com/memecat/memecat/token"
)

type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// Ping verifies database connectivity
func (r *Repo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func scanMeme(row *sql.Row) (memecat.Meme, error) {
	var m memecat.Meme
	var desc sql.NullString
	var lastUpdated string

	if err := row.Scan(&m.ID, &m.Name, &desc, &lastUpdated); err != nil {
		return memecat.Meme{}, err
	}

	if desc.Valid {
		m.Description = &desc.String
	}

	t, err := time.Parse(time.RFC3339Nano, lastUpdated)
	if err != nil {
		return memecat.Meme{}, fmt.Errorf("parse last_updated_at: %w", err)
	}
	m.LastUpdatedAt = memecat.NormalizeTime(t)

	return m, nil
}

func (r *Repo) Get(ctx context.Context, id int64) (memecat.Meme, error) {
	query := `
		SELECT id, name, description, last_updated_at
		FROM memes
		WHERE id = ?
	`

	m, err := scanMeme(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return memecat.Meme{}, memecat.ErrNotFound
		}
		return memecat.Meme{}, fmt.Errorf("get: %w", err)
	}

	return m, nil
}

func (r *Repo) GetByName(ctx context.Context, name string) (memecat.Meme, error) {
	// First match wins if duplicate names exist.
	query := `
		SELECT id, name, description, last_updated_at
		FROM memes
		WHERE name = ?
		ORDER BY id
		LIMIT 1
	`

	m, err := scanMeme(r.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return memecat.Meme{}, memecat.ErrNotFound
		}
		return memecat.Meme{}, fmt.Errorf("get by name: %w", err)
	}

	return m, nil
}

// Upsert looks up the row by name, then updates in place or inserts. The
// two statements are not wrapped in a transaction: two concurrent upserts
// for the same new name can insert duplicate rows, which lookups resolve
// first-match-wins.
func (r *Repo) Upsert(ctx context.Context, res memecat.SyncResult) (memecat.Meme, error) {
	existing, err := r.GetByName(ctx, res.Name)
	if err != nil && !errors.Is(err, memecat.ErrNotFound) {
		return memecat.Meme{}, fmt.Errorf("upsert: %w", err)
	}

	lastUpdated := memecat.NormalizeTime(res.LastUpdatedAt)

	if errors.Is(err, memecat.ErrNotFound) {
		query := `
			INSERT INTO memes (name, description, last_updated_at)
			VALUES (?, ?, ?)
		`

		result, err := r.db.ExecContext(ctx, query, res.Name, descValue(res.Description), lastUpdated.Format(time.RFC3339Nano))
		if err != nil {
			return memecat.Meme{}, fmt.Errorf("upsert: insert: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return memecat.Meme{}, fmt.Errorf("upsert: last insert id: %w", err)
		}

		return memecat.Meme{
			ID:            id,
			Name:          res.Name,
			Description:   res.Description,
			LastUpdatedAt: lastUpdated,
		}, nil
	}

	query := `
		UPDATE memes
		SET description = ?, last_updated_at = ?
		WHERE id = ?
	`

	if _, err := r.db.ExecContext(ctx, query, descValue(res.Description), lastUpdated.Format(time.RFC3339Nano), existing.ID); err != nil {
		return memecat.Meme{}, fmt.Errorf("upsert: update: %w", err)
	}

	existing.Description = res.Description
	existing.LastUpdatedAt = lastUpdated
	return existing, nil
}

func (r *Repo) List(ctx context.Context, q memecat.ListQuery) ([]memecat.Meme, error) {
	query := `
		SELECT id, name, description, last_updated_at
		FROM memes
		ORDER BY id
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, q.Limit, q.Offset)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer func() { _ = rows.Close() }()

	memes := make([]memecat.Meme, 0, q.Limit)
	for rows.Next() {
		var m memecat.Meme
		var desc sql.NullString
		var lastUpdated string

		if err := rows.Scan(&m.ID, &m.Name, &desc, &lastUpdated); err != nil {
			return nil, fmt.Errorf("list: scan: %w", err)
		}

		if desc.Valid {
			m.Description = &desc.String
		}

		t, err := time.Parse(time.RFC3339Nano, lastUpdated)
		if err != nil {
			return nil, fmt.Errorf("list: parse last_updated_at: %w", err)
		}
		m.LastUpdatedAt = memecat.NormalizeTime(t)

		memes = append(memes, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list: rows: %w", err)
	}

	return memes, nil
}

func (r *Repo) Update(ctx context.Context, id int64, patch memecat.MemePatch) (memecat.Meme, error) {
	m, err := r.Get(ctx, id)
	if err != nil {
		return memecat.Meme{}, fmt.Errorf("update: %w", err)
	}

	if patch.Name != nil {
		m.Name = *patch.Name
	}
	if patch.Description != nil {
		m.Description = patch.Description
	}
	if patch.LastUpdatedAt != nil {
		m.LastUpdatedAt = memecat.NormalizeTime(*patch.LastUpdatedAt)
	}

	query := `
		UPDATE memes
		SET name = ?, description = ?, last_updated_at = ?
		WHERE id = ?
	`

	if _, err := r.db.ExecContext(ctx, query, m.Name, descValue(m.Description), m.LastUpdatedAt.Format(time.RFC3339Nano), m.ID); err != nil {
		return memecat.Meme{}, fmt.Errorf("update: %w", err)
	}

	return m, nil
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM memes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("delete: %w", memecat.ErrNotFound)
	}

	return nil
}

func descValue(desc *string) any {
	if desc == nil {
		return nil
	}
	return *desc
}

// UserRepo reads and seeds the user table backing token issuance.
type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (token.User, error) {
	query := `
		SELECT id, username, password_hash
		FROM users
		WHERE username = ?
	`

	var u token.User
	err := r.db.QueryRowContext(ctx, query, username).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return token.User{}, memecat.ErrNotFound
		}
		return token.User{}, fmt.Errorf("get user: %w", err)
	}

	return u, nil
}

func (r *UserRepo) Create(ctx context.Context, username, passwordHash string) (token.User, error) {
	query := `
		INSERT INTO users (username, password_hash)
		VALUES (?, ?)
		ON CONFLICT (username) DO UPDATE SET password_hash = excluded.password_hash
	`

	if _, err := r.db.ExecContext(ctx, query, username, passwordHash); err != nil {
		return token.User{}, fmt.Errorf("create user: %w", err)
	}

	return r.GetByUsername(ctx, username)
}
