package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/platform/postgres"
	"github.com/phrazzld/tasks-api/internal/platform/sqlite"
	"github.com/phrazzld/tasks-api/internal/store"
)

// openDatabase opens and pings the configured backend.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)

	switch store.Driver(cfg.Driver) {
	case store.DriverSQLite:
		db, err = sqlite.Open(ctx, cfg.URL, cfg.MaxOpenConns)
	case store.DriverPostgres:
		db, err = postgres.Open(ctx, cfg.URL, cfg.MaxOpenConns)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("database connection established",
		"driver", cfg.Driver,
		"max_open_conns", cfg.MaxOpenConns)
	return db, nil
}

// newTaskStore builds the backend-specific store over db, optionally
// echoing every statement.
func newTaskStore(db *sql.DB, cfg config.DatabaseConfig, logger *slog.Logger) (store.TaskStore, error) {
	var dbtx store.DBTX = db
	if cfg.LogQueries {
		dbtx = store.NewQueryLogger(db, logger)
	}

	switch store.Driver(cfg.Driver) {
	case store.DriverSQLite:
		return sqlite.NewTaskStore(dbtx, logger), nil
	case store.DriverPostgres:
		return postgres.NewPostgresTaskStore(dbtx, logger), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
