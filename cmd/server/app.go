package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/platform/metrics"
	"github.com/phrazzld/tasks-api/internal/platform/migrations"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config

	logger  *slog.Logger
	db      *sql.DB
	metrics *metrics.Metrics

	taskStore   store.TaskStore
	taskService service.TaskService
}

// newApplication opens the database, initializes the schema and wires the
// store and service. The returned application owns the database handle;
// call cleanup to release it.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := openDatabase(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	app := &application{
		config:  cfg,
		logger:  logger,
		db:      db,
		metrics: metrics.New(),
	}

	if err := migrations.Up(ctx, db, store.Driver(cfg.Database.Driver), logger); err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	taskStore, err := newTaskStore(db, cfg.Database, logger)
	if err != nil {
		app.cleanup()
		return nil, err
	}
	app.taskStore = metrics.NewInstrumentedTaskStore(taskStore, app.metrics)

	app.taskService, err = service.NewTaskService(app.taskStore, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	return app, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db == nil {
		return
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("failed to close database connection", "error", err)
		return
	}
	app.db = nil
	app.logger.Info("database connection closed")
}
