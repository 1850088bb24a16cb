package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/memecat/memecat"
	"github.com/memecat/memecat/database/postgres"
	"github.com/memecat/memecat/database/sqlite"
	"github.com/memecat/memecat/token"

	_ "modernc.org/sqlite" // SQLite driver
)

// Config holds the configuration for connecting to a catalog backend.
type Config struct {
	// Type specifies the database type: "sqlite" or "postgres"
	Type string `mapstructure:"type" validate:"required,oneof=sqlite postgres"`
	// DSN is the data source name (connection string)
	DSN string `mapstructure:"dsn" validate:"required"`
}

// UserRepo extends the token-service user lookup with seeding.
type UserRepo interface {
	token.UserStore
	Create(ctx context.Context, username, passwordHash string) (token.User, error)
}

// Store bundles the repositories of one catalog database connection.
type Store struct {
	Memes memecat.MemeRepo
	Users UserRepo

	close func()
}

// Close releases the underlying connection.
func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}

// Connect establishes a connection to the configured backend, runs
// migrations, and returns the repositories.
func Connect(ctx context.Context, cfg Config) (*Store, error) {
	switch cfg.Type {
	case "sqlite":
		return connectSQLite(ctx, cfg.DSN)
	case "postgres":
		return connectPostgres(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
}

func connectSQLite(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if err = sqlite.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}

	return &Store{
		Memes: sqlite.NewRepo(db),
		Users: sqlite.NewUserRepo(db),
		close: func() { _ = db.Close() },
	}, nil
}

func connectPostgres(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err = postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate postgres: %w", err)
	}

	return &Store{
		Memes: postgres.NewRepo(pool),
		Users: postgres.NewUserRepo(pool),
		close: pool.Close,
	}, nil
}
