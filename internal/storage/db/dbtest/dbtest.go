// Package dbtest opens a migrated database for integration tests.
//
// Tests using it are skipped unless TEST_POSTGRES_DSN points at a disposable
// PostgreSQL database.
package dbtest

import (
	"context"
	"os"
	"testing"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/medical-inventory/internal/storage/db"
)

const dsnEnv = "TEST_POSTGRES_DSN"

// New returns a client on a freshly migrated and emptied database.
func New(t *testing.T) *db.Client {
	t.Helper()

	dsn := os.Getenv(dsnEnv)
	if dsn == "" {
		t.Skipf("%s not set, run make test-integration", dsnEnv)
	}

	ctx := context.Background()

	cfg, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)
	cfg.AfterConnect = func(_ context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = db.Migrate(ctx, pool)
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `TRUNCATE medicines, users, outbox_messages RESTART IDENTITY`)
	require.NoError(t, err)

	return db.NewClient(pool)
}
