package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/pressly/goose/v3"
)

//go:embed sqlite/*.sql postgres/*.sql
var embedded embed.FS

// goose keeps its dialect, filesystem and logger in package globals.
var gooseMu sync.Mutex

// dirAndDialect resolves the embedded directory and goose dialect for driver.
func dirAndDialect(driver store.Driver) (string, string, error) {
	switch driver {
	case store.DriverSQLite:
		return "sqlite", "sqlite3", nil
	case store.DriverPostgres:
		return "postgres", "postgres", nil
	default:
		return "", "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

func prepare(driver store.Driver, logger *slog.Logger) (string, error) {
	dir, dialect, err := dirAndDialect(driver)
	if err != nil {
		return "", err
	}
	goose.SetBaseFS(embedded)
	goose.SetLogger(&slogGooseLogger{logger: logger})
	if err := goose.SetDialect(dialect); err != nil {
		return "", fmt.Errorf("failed to set goose dialect %s: %w", dialect, err)
	}
	return dir, nil
}

// Up ensures the task schema exists. It is safe to call any number of times.
func Up(ctx context.Context, db *sql.DB, driver store.Driver, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	// Correlates every goose line of one run.
	log := logger.With(
		slog.String("component", "migrations"),
		slog.String("correlation_id", uuid.New().String()),
		slog.String("driver", string(driver)),
	)

	gooseMu.Lock()
	defer gooseMu.Unlock()

	dir, err := prepare(driver, log)
	if err != nil {
		return err
	}

	start := time.Now()
	log.Info("applying schema")
	if err := goose.UpContext(ctx, db, dir); err != nil {
		log.Error("schema initialization failed", slog.String("error", err.Error()))
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	log.Info("schema ready", slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	return nil
}

// Version returns the applied schema version, 0 when nothing is applied.
func Version(ctx context.Context, db *sql.DB, driver store.Driver) (int64, error) {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	if _, err := prepare(driver, slog.Default()); err != nil {
		return 0, err
	}

	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// slogGooseLogger adapts the goose logger interface to use slog.
type slogGooseLogger struct {
	logger *slog.Logger
}

// Printf forwards goose progress messages at info level.
func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

// Fatalf logs at error level. It does NOT exit; goose also returns the
// error to the caller.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}
