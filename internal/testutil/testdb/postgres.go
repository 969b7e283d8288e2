// Package testdb starts a throwaway PostgreSQL for repository integration tests.
package testdb

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kyra/interntrack/internal/app/migrations"
	"github.com/kyra/interntrack/internal/db"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	sharedContainer *PostgresContainer
	sharedOnce      sync.Once
	sharedErr       error
)

// PostgresContainer wraps the postgres testcontainer with a migrated pool
type PostgresContainer struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	DSN       string
}

// SetupSharedPostgres starts one container per test binary and applies the schema.
// Tests are skipped under -short or when no container runtime is reachable.
//
// Tests sharing the container must not run in parallel; call CleanupTables between them.
func SetupSharedPostgres(t *testing.T) *PostgresContainer {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	sharedOnce.Do(func() {
		ctx := context.Background()
		pgContainer, err := postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("testdb"),
			postgres.WithUsername("postgres"),
			postgres.WithPassword("postgres"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second),
			),
		)
		if err != nil {
			sharedErr = err
			return
		}

		dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			sharedErr = err
			return
		}

		database, err := db.NewPostgresDBFromDSN(dsn, db.PoolOptions{MaxConns: 4}, zerolog.Nop())
		if err != nil {
			sharedErr = err
			return
		}

		if err := migrations.NewMigrator(database.Pool, zerolog.Nop()).Migrate(ctx); err != nil {
			sharedErr = err
			return
		}

		sharedContainer = &PostgresContainer{
			Container: pgContainer,
			Pool:      database.Pool,
			DSN:       dsn,
		}
	})

	require.NoError(t, sharedErr)
	return sharedContainer
}

// CleanupTables truncates the tracker tables and resets their id sequences
func CleanupTables(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		"TRUNCATE feedback, courses, internships, queries, projects, metrics, users RESTART IDENTITY CASCADE")
	require.NoError(t, err, "failed to truncate tables")
}
