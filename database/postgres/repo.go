// Package postgres implements the catalog repositories for PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/memecat/memecat"
	"github.com/memecat/memecat/token"
)

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Ping verifies database connectivity
func (r *Repo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *Repo) Get(ctx context.Context, id int64) (memecat.Meme, error) {
	query := `
		SELECT id, name, description, last_updated_at
		FROM memes
		WHERE id = $1
	`

	var m memecat.Meme
	err := r.pool.QueryRow(ctx, query, id).Scan(&m.ID, &m.Name, &m.Description, &m.LastUpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return memecat.Meme{}, memecat.ErrNotFound
		}
		return memecat.Meme{}, fmt.Errorf("get: %w", err)
	}

	m.LastUpdatedAt = memecat.NormalizeTime(m.LastUpdatedAt)
	return m, nil
}

func (r *Repo) GetByName(ctx context.Context, name string) (memecat.Meme, error) {
	// Names are not constrained unique; lookups take the oldest row.
	query := `
		SELECT id, name, description, last_updated_at
		FROM memes
		WHERE name = $1
		ORDER BY id
		LIMIT 1
	`

	var m memecat.Meme
	err := r.pool.QueryRow(ctx, query, name).Scan(&m.ID, &m.Name, &m.Description, &m.LastUpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return memecat.Meme{}, memecat.ErrNotFound
		}
		return memecat.Meme{}, fmt.Errorf("get by name: %w", err)
	}

	m.LastUpdatedAt = memecat.NormalizeTime(m.LastUpdatedAt)
	return m, nil
}

// Upsert looks up the row by name and either updates it in place or inserts
// a new one. The lookup and the write are two separate statements: a
// concurrent upsert for the same new name can race to insert twice.
func (r *Repo) Upsert(ctx context.Context, res memecat.SyncResult) (memecat.Meme, error) {
	existing, err := r.GetByName(ctx, res.Name)
	if err != nil && !errors.Is(err, memecat.ErrNotFound) {
		return memecat.Meme{}, fmt.Errorf("upsert: %w", err)
	}

	if errors.Is(err, memecat.ErrNotFound) {
		query := `
			INSERT INTO memes (name, description, last_updated_at)
			VALUES ($1, $2, $3)
			RETURNING id
		`

		m := memecat.Meme{
			Name:          res.Name,
			Description:   res.Description,
			LastUpdatedAt: memecat.NormalizeTime(res.LastUpdatedAt),
		}
		if err := r.pool.QueryRow(ctx, query, m.Name, m.Description, m.LastUpdatedAt).Scan(&m.ID); err != nil {
			return memecat.Meme{}, fmt.Errorf("upsert: insert: %w", err)
		}
		return m, nil
	}

	query := `
		UPDATE memes
		SET description = $1, last_updated_at = $2
		WHERE id = $3
	`

	existing.Description = res.Description
	existing.LastUpdatedAt = memecat.NormalizeTime(res.LastUpdatedAt)
	if _, err := r.pool.Exec(ctx, query, existing.Description, existing.LastUpdatedAt, existing.ID); err != nil {
		return memecat.Meme{}, fmt.Errorf("upsert: update: %w", err)
	}

	return existing, nil
}

func (r *Repo) List(ctx context.Context, q memecat.ListQuery) ([]memecat.Meme, error) {
	query := `
		SELECT id, name, description, last_updated_at
		FROM memes
		ORDER BY id
		OFFSET $1
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, q.Offset, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer rows.Close()

	memes := make([]memecat.Meme, 0, q.Limit)
	for rows.Next() {
		var m memecat.Meme
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.LastUpdatedAt); err != nil {
			return nil, fmt.Errorf("list: scan: %w", err)
		}
		m.LastUpdatedAt = memecat.NormalizeTime(m.LastUpdatedAt)
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
		SET name = $1, description = $2, last_updated_at = $3
		WHERE id = $4
	`

	if _, err := r.pool.Exec(ctx, query, m.Name, m.Description, m.LastUpdatedAt, m.ID); err != nil {
		return memecat.Meme{}, fmt.Errorf("update: %w", err)
	}

	return m, nil
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM memes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete: %w", memecat.ErrNotFound)
	}

	return nil
}

// UserRepo reads and seeds the user table backing token issuance.
type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (token.User, error) {
	query := `
		SELECT id, username, password_hash
		FROM users
		WHERE username = $1
	`

	var u token.User
	err := r.pool.QueryRow(ctx, query, username).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return token.User{}, memecat.ErrNotFound
		}
		return token.User{}, fmt.Errorf("get user: %w", err)
	}

	return u, nil
}

func (r *UserRepo) Create(ctx context.Context, username, passwordHash string) (token.User, error) {
	query := `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		ON CONFLICT (username) DO UPDATE SET password_hash = EXCLUDED.password_hash
		RETURNING id
	`

	u := token.User{Username: username, PasswordHash: passwordHash}
	if err := r.pool.QueryRow(ctx, query, username, passwordHash).Scan(&u.ID); err != nil {
		return token.User{}, fmt.Errorf("create user: %w", err)
	}

	return u, nil
}
