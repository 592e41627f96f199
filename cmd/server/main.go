// Package main implements the entry point for the Hearth API server,
// which manages users' household tasks and provides LLM integration for
// priority advice and recurrence suggestions.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"

	"github.com/hearthapp/hearth-api/internal/config"
	"github.com/hearthapp/hearth-api/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String(
		"migrate", "",
		"run a migration command (up, down, status, version) and exit",
	)
	flag.Parse()

	if err := run(*migrateCmd); err != nil {
		log.Fatalf("hearth-api: %v", err)
	}
}

// run loads configuration, dispatches migration commands, and otherwise
// builds and serves the application until shutdown.
func run(migrateCmd string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	if migrateCmd != "" {
		return runMigrations(cfg, migrateCmd)
	}

	db, err := setupDatabase(cfg, appLogger)
	if err != nil {
		return err
	}

	ctx := context.Background()
	app, err := newApplication(ctx, cfg, appLogger, db)
	if err != nil {
		// The application owns the connection only once construction
		// succeeds.
		if closeErr := db.Close(); closeErr != nil {
			appLogger.Error("error closing database connection", "error", closeErr)
		}
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
