package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool wraps pgxpool.Pool for dependency injection.
type Pool struct {
	*pgxpool.Pool
}

// NewPool creates a new Postgres connection pool and verifies it.
func NewPool(ctx context.Context, dsn string) (*Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	config.MaxConns = 5

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Pool{Pool: pool}, nil
}

// Migrate creates the archive schema if it does not exist yet.
func (p *Pool) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS forex_data (
			id         BIGSERIAL PRIMARY KEY,
			pair       TEXT NOT NULL,
			timestamp  TIMESTAMPTZ NOT NULL,
			open       DOUBLE PRECISION,
			high       DOUBLE PRECISION,
			low        DOUBLE PRECISION,
			close      DOUBLE PRECISION NOT NULL,
			volume     DOUBLE PRECISION,
			resolution TEXT NOT NULL,
			UNIQUE (pair, timestamp, resolution)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_forex_data_pair_res_ts ON forex_data(pair, resolution, timestamp)`,
	}
	for _, s := range stmts {
		if _, err := p.Exec(ctx, s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}
