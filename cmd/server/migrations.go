package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/platform/migrations"
	"github.com/phrazzld/tasks-api/internal/store"
)

// runMigrate initializes the schema and writes the resulting version to out.
func runMigrate(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	db, err := openDatabase(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database connection", "error", err)
		}
	}()

	driver := store.Driver(cfg.Database.Driver)
	if err := migrations.Up(ctx, db, driver, logger); err != nil {
		return err
	}

	version, err := migrations.Version(ctx, db, driver)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "schema version: %d\n", version)
	return err
}
