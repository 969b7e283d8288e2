package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kyra/interntrack/internal/config"
	"github.com/kyra/interntrack/internal/pkg/apperrors"
	"github.com/rs/zerolog"
)

// PostgresDB database connection structure
type PostgresDB struct {
	Pool *pgxpool.Pool
}

// NewPostgresDB creates a new PostgreSQL connection pool and verifies it with a ping.
// Any failure is reported as apperrors.ErrStoreUnavailable.
func NewPostgresDB(cfg *config.Config, lgr zerolog.Logger) (*PostgresDB, error) {
	return NewPostgresDBFromDSN(cfg.GetPostgresConnectionString(), PoolOptions{
		MinConns:        int32(cfg.Database.MinConns),
		MaxConns:        int32(cfg.Database.MaxConns),
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnectTimeout:  cfg.Database.ConnectTimeout,
	}, lgr)
}

// PoolOptions tunes the pgx pool
type PoolOptions struct {
	MinConns        int32
	MaxConns        int32
	ConnMaxLifetime string
	ConnectTimeout  string
}

// NewPostgresDBFromDSN is NewPostgresDB for callers that already hold a connection string.
func NewPostgresDBFromDSN(dsn string, opts PoolOptions, lgr zerolog.Logger) (*PostgresDB, error) {
	timeout := 10 * time.Second
	if opts.ConnectTimeout != "" {
		d, err := time.ParseDuration(opts.ConnectTimeout)
		if err != nil {
			return nil, fmt.Errorf("failed to parse connect timeout: %w", err)
		}
		timeout = d
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgxpool config: %w", err)
	}

	if opts.MaxConns > 0 {
		poolConfig.MaxConns = opts.MaxConns
	}
	if opts.MinConns > 0 && opts.MinConns <= poolConfig.MaxConns {
		poolConfig.MinConns = opts.MinConns
	}

	if opts.ConnMaxLifetime != "" {
		maxLifetime, err := time.ParseDuration(opts.ConnMaxLifetime)
		if err != nil {
			return nil, fmt.Errorf("failed to parse connection max lifetime: %w", err)
		}
		poolConfig.MaxConnLifetime = maxLifetime
	}

	poolConfig.BeforeAcquire = func(ctx context.Context, conn *pgx.Conn) bool {
		if err := conn.Ping(ctx); err != nil {
			lgr.Warn().Err(err).Msg("Unhealthy connection detected")
			return false
		}
		return true
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create database connection pool: %w", apperrors.ErrStoreUnavailable, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: failed to establish database connection: %w", apperrors.ErrStoreUnavailable, err)
	}

	return &PostgresDB{Pool: pool}, nil
}

// Close closes the pool
func (db *PostgresDB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}
