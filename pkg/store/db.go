// Package store persists parsed transcripts in PostgreSQL.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coursenote/chatseg/config"
	"github.com/coursenote/chatseg/credentials"
	chatsegerrors "github.com/coursenote/chatseg/pkg/errors"
)

// Pool tuning for a short-lived CLI process: few connections, generous
// lifetime so batch ingests reuse them.
const (
	maxConns        = 4
	minConns        = 1
	maxConnLifetime = time.Hour
	maxConnIdleTime = 30 * time.Minute
)

// Connect builds a pgx pool from the storage configuration. The password is
// resolved in order: explicit config value, then the system keyring.
func Connect(ctx context.Context, cfg *config.StorageConfig) (*pgxpool.Pool, error) {
	if !cfg.IsConfigured() {
		return nil, fmt.Errorf("%w: storage is not configured", chatsegerrors.ErrValidation)
	}

	connStr := cfg.ConnectionString()
	password := cfg.Password
	if password == "" {
		if stored, err := credentials.NewKeyringStore().Get(); err == nil {
			password = stored
		}
	}
	if password != "" {
		connStr += fmt.Sprintf(" password=%s", password)
	}

	poolCfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}
	poolCfg.MaxConns = maxConns
	poolCfg.MinConns = minConns
	poolCfg.MaxConnLifetime = maxConnLifetime
	poolCfg.MaxConnIdleTime = maxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: pinging database: %v", chatsegerrors.ErrUnavailable, err)
	}
	return pool, nil
}
