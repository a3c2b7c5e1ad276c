package store

import (
	"context"
	"database/sql"
)

// Driver names a supported database backend.
type Driver string

// Supported backends.
const (
	// DriverSQLite is the default, file-backed backend.
	DriverSQLite Driver = "sqlite"
	// DriverPostgres is the optional server backend.
	DriverPostgres Driver = "postgres"
)

// DBTX is the subset of *sql.DB and *sql.Tx used by store implementations.
// Each call checks a connection out of the pool and returns it when the
// call (or the returned rows) completes.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
