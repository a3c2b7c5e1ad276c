package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/urfave/cli/v3"
)

// newRootCommand returns the top-level CLI command. Running it without a
// subcommand serves the API.
func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "tasks-api",
		Usage: "Task list HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to an optional YAML config file",
				Sources: cli.EnvVars(config.EnvPrefix + "_CONFIG"),
			},
		},
		Action: serveAction,
		Commands: []*cli.Command{
			newServeCommand(),
			newMigrateCommand(os.Stdout),
		},
	}
}

// newServeCommand returns the serve subcommand.
func newServeCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Initialize the schema and serve the HTTP API",
		Action: serveAction,
	}
}

// newMigrateCommand returns the migrate subcommand, which prints the schema
// version to out.
func newMigrateCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Initialize the schema and exit",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.Load(cmd.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			log, err := logger.Setup(cfg.Server)
			if err != nil {
				return fmt.Errorf("failed to set up logger: %w", err)
			}
			return runMigrate(ctx, cfg, log, out)
		},
	}
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("server configuration loaded",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"database_driver", cfg.Database.Driver)

	app, err := newApplication(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.cleanup()

	return app.startHTTPServer(ctx, app.setupRouter())
}
