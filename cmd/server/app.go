package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/hearthapp/hearth-api/internal/config"
	"github.com/hearthapp/hearth-api/internal/domain/urgency"
	"github.com/hearthapp/hearth-api/internal/events"
	"github.com/hearthapp/hearth-api/internal/insight"
	"github.com/hearthapp/hearth-api/internal/job"
	"github.com/hearthapp/hearth-api/internal/platform/gemini"
	"github.com/hearthapp/hearth-api/internal/platform/postgres"
	"github.com/hearthapp/hearth-api/internal/recurrence"
	"github.com/hearthapp/hearth-api/internal/service"
	"github.com/hearthapp/hearth-api/internal/service/auth"
	"github.com/hearthapp/hearth-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore       store.UserStore
	taskStore       store.TaskStore
	suggestionStore store.SuggestionStore
	jobStore        job.JobStore

	// Service interfaces
	jwtService        auth.JWTService
	passwordHasher    auth.PasswordHasher
	passwordVerifier  auth.PasswordVerifier
	taskService       service.TaskService
	suggestionService service.SuggestionService
	insightService    insight.Service
	recurrenceOracle  *recurrence.Oracle

	// Event system
	eventEmitter events.EventEmitter

	// Background jobs
	jobRunner *job.Runner
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Authentication
	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordHasher, err = auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize password hasher: %w", err)
	}
	app.passwordVerifier = auth.NewBcryptVerifier()

	// Stores
	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)
	app.suggestionStore = postgres.NewPostgresSuggestionStore(db, logger)
	app.jobStore = postgres.NewPostgresJobStore(db, logger)

	// Assistant client and the services built on it
	asker, err := gemini.NewGeminiAsker(ctx, logger.With("component", "assistant"), cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize assistant client: %w", err)
	}
	logger.Info("assistant client initialized", "model", cfg.LLM.ModelName)

	app.recurrenceOracle = recurrence.NewOracle(asker, logger)
	draftGenerator := recurrence.NewGenerator(app.recurrenceOracle, cfg.LLM.MaxConcurrent, logger)
	classifier := urgency.NewDefaultService()

	// Event system
	app.eventEmitter = events.NewInMemoryEventEmitter(logger)

	// Domain services
	app.taskService = service.NewTaskService(app.taskStore, db, classifier, logger)
	app.suggestionService = service.NewSuggestionService(
		app.suggestionStore,
		app.taskStore,
		draftGenerator,
		app.eventEmitter,
		db,
		logger,
	)
	app.insightService = insight.NewService(asker, classifier, app.taskStore, logger)

	// Background job runner with the scan job registered
	scanFactory := job.NewSuggestionScanJobFactory(app.suggestionService, logger)

	registry := job.NewRegistry()
	registry.Register(job.TypeSuggestionScan, scanFactory.HydrateJob)

	app.jobRunner = job.NewRunner(app.jobStore, registry, job.RunnerConfig{
		WorkerCount: cfg.Job.WorkerCount,
		QueueSize:   cfg.Job.QueueSize,
		StuckJobAge: time.Duration(cfg.Job.StuckTaskAgeMins) * time.Minute,
	}, logger)
	if err := app.jobRunner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start job runner: %w", err)
	}

	// Route scan request events onto the runner
	jobEventHandler := job.NewFactoryEventHandler(scanFactory, app.jobRunner, logger)
	if emitter, ok := app.eventEmitter.(*events.InMemoryEventEmitter); ok {
		emitter.RegisterHandler(jobEventHandler)
	} else {
		return nil, fmt.Errorf("unexpected event emitter type, cannot register job handler")
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.jobRunner != nil {
		app.jobRunner.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
