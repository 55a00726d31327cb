package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

// DB represents a PostgreSQL connection pool backing the accounts table
type DB struct {
	Pool *pgxpool.Pool
}

// New opens a pool for the given connection URL and verifies it with a ping
func New(ctx context.Context, dbURL string) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("error parsing database URL: %w", err)
	}

	// Account operations are single-row; a small pool is enough
	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2

	pool, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Close releases the pool
func (db *DB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}
