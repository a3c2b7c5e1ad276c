package testdb

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/phrazzld/tasks-api/internal/platform/migrations"
	"github.com/phrazzld/tasks-api/internal/platform/postgres"
	"github.com/phrazzld/tasks-api/internal/platform/sqlite"
	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/stretchr/testify/require"
)

// PostgresURLEnv names the variable holding a disposable PostgreSQL URL.
const PostgresURLEnv = "TASKS_TEST_POSTGRES_URL"

// quietLogger keeps goose progress out of test output.
var quietLogger = slog.New(slog.DiscardHandler)

// SQLitePath returns a fresh database file path inside t.TempDir().
func SQLitePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "tasks.db")
}

// NewSQLite opens a migrated SQLite database file that is closed when the test ends.
func NewSQLite(t *testing.T) *sql.DB {
	t.Helper()
	return OpenSQLite(t, SQLitePath(t))
}

// OpenSQLite opens and migrates the SQLite database at path.
func OpenSQLite(t *testing.T, path string) *sql.DB {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := sqlite.Open(ctx, path, 4)
	require.NoError(t, err, "failed to open sqlite test database")
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Up(ctx, db, store.DriverSQLite, quietLogger), "failed to migrate sqlite test database")
	return db
}

// NewPostgres opens the database named by TASKS_TEST_POSTGRES_URL, applies
// the schema and empties the task table. The test is skipped when the
// variable is unset.
func NewPostgres(t *testing.T) *sql.DB {
	t.Helper()

	url := os.Getenv(PostgresURLEnv)
	if url == "" {
		t.Skipf("%s not set; skipping PostgreSQL test", PostgresURLEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := postgres.Open(ctx, url, 4)
	require.NoError(t, err, "failed to open postgres test database")
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Up(ctx, db, store.DriverPostgres, quietLogger))
	_, err = db.ExecContext(ctx, "TRUNCATE task RESTART IDENTITY")
	require.NoError(t, err, "failed to reset task table")
	return db
}
