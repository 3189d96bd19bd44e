// Package db contains code for connecting to the database.
package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/healthsync/healthsync/internal/config"
	"github.com/healthsync/healthsync/internal/db/sqlc"
)

const (
	defaultMaxConns        = 25
	defaultMinConns        = 2
	defaultConnMaxLifetime = 5 * time.Minute
	defaultConnectTimeout  = 10 * time.Second
)

// Connection wraps the connection pool and query interface
type Connection struct {
	Pool    *pgxpool.Pool
	Queries *sqlc.Queries
}

// NewConnection creates a new database connection pool from the provided configuration
func NewConnection(ctx context.Context, cfg *config.DatabaseConfig) (*Connection, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database configuration is required")
	}

	connString, err := cfg.GetConnectionString()
	if err != nil {
		return nil, fmt.Errorf("failed to build connection string: %w", err)
	}

	poolCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	if poolCfg.MaxConns == 0 {
		poolCfg.MaxConns = defaultMaxConns
	}
	poolCfg.MinConns = cfg.MinConns
	if poolCfg.MinConns == 0 {
		poolCfg.MinConns = defaultMinConns
	}
	poolCfg.MaxConnLifetime = defaultConnMaxLifetime
	if cfg.ConnMaxLifetime != "" {
		duration, err := time.ParseDuration(cfg.ConnMaxLifetime)
		if err != nil {
			return nil, fmt.Errorf("invalid connection max lifetime: %w", err)
		}
		poolCfg.MaxConnLifetime = duration
	}
	poolCfg.ConnConfig.ConnectTimeout = defaultConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("database connection established",
		"user", cfg.User,
		"host", cfg.Host,
		"port", cfg.Port,
		"database", cfg.Database)

	return &Connection{
		Pool:    pool,
		Queries: sqlc.New(pool),
	}, nil
}

// Close closes the connection pool
func (c *Connection) Close() {
	if c.Pool != nil {
		slog.Info("closing database connection pool")
		c.Pool.Close()
	}
}

// Ping verifies the database connection is still alive
func (c *Connection) Ping(ctx context.Context) error {
	if c.Pool == nil {
		return fmt.Errorf("database connection is nil")
	}
	return c.Pool.Ping(ctx)
}
