// Package testutil opens the Postgres database used by the repository
// integration tests. Every helper skips the calling test when
// TEST_DATABASE_URL is unset, so `go test ./...` runs against the in-memory
// store alone.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"

	"github.com/DeborahScali/travelapp-sub000/migrations"
)

const dsnEnv = "TEST_DATABASE_URL"

// DSN returns the test database URL, or "" when none is configured.
func DSN() string {
	return os.Getenv(dsnEnv)
}

// NewPool returns a pool on the test database, closed when t finishes.
// The repo tests wrap it in a transaction that they roll back.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	pool, err := pgxpool.New(context.Background(), requireDSN(t))
	require.NoError(t, err, "open pool")
	t.Cleanup(pool.Close)
	require.NoError(t, pool.Ping(context.Background()), "ping test database")
	return pool
}

// NewSQLDB returns a database/sql handle on the test database for goose.
func NewSQLDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := openSQLDB(requireDSN(t))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// MigrateUp applies every pending migration to the database at dsn. It is
// meant for TestMain, where there is no *testing.T.
func MigrateUp(ctx context.Context, dsn string) error {
	db, err := openSQLDB(dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("testutil.MigrateUp: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("testutil.MigrateUp: %w", err)
	}
	return nil
}

func openSQLDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("testutil: open: %w", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("testutil: ping: %w", err)
	}
	return db, nil
}

func requireDSN(t *testing.T) string {
	t.Helper()
	dsn := DSN()
	if dsn == "" {
		t.Skip(dsnEnv + " not set; skipping Postgres test")
	}
	return dsn
}
