// Package cli provides the command-line interface for hearth.
package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/hearthapp/hearth-api/internal/assistant"
	"github.com/hearthapp/hearth-api/internal/config"
	"github.com/hearthapp/hearth-api/internal/domain"
	"github.com/hearthapp/hearth-api/internal/domain/urgency"
	"github.com/hearthapp/hearth-api/internal/events"
	"github.com/hearthapp/hearth-api/internal/insight"
	"github.com/hearthapp/hearth-api/internal/platform/gemini"
	"github.com/hearthapp/hearth-api/internal/platform/postgres"
	"github.com/hearthapp/hearth-api/internal/recurrence"
	"github.com/hearthapp/hearth-api/internal/service"
	"github.com/hearthapp/hearth-api/internal/store"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
)

// Container carries the CLI's dependencies. Fields left nil are built on
// first use, so commands only pay for what they touch: `priority` runs
// with no configuration at all, `recurrence` needs the assistant but no
// database, and the data commands connect on demand. Tests prefill fields
// to run commands against stubs.
type Container struct {
	Logger *slog.Logger

	Config *config.Config
	DB     *sql.DB

	Urgency urgency.Service
	Asker   assistant.Asker
	Oracle  *recurrence.Oracle

	Users       store.UserStore
	Tasks       service.TaskService
	Suggestions service.SuggestionService
	Insight     insight.Service
}

// NewContainer creates an empty container that logs warnings and errors
// to stderr, keeping stdout for command output.
func NewContainer() *Container {
	return &Container{
		Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelWarn,
		})),
	}
}

// Close releases whatever the executed command ended up opening.
func (c *Container) Close() {
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			c.logger().Error("failed to close database connection", "error", err)
		}
	}
}

func (c *Container) logger() *slog.Logger {
	if c.Logger == nil {
		c.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelWarn,
		}))
	}
	return c.Logger
}

func (c *Container) loadConfig() (*config.Config, error) {
	if c.Config == nil {
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		c.Config = cfg
	}
	return c.Config, nil
}

func (c *Container) database(ctx context.Context) (*sql.DB, error) {
	if c.DB == nil {
		cfg, err := c.loadConfig()
		if err != nil {
			return nil, err
		}

		db, err := sql.Open("pgx", cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		c.DB = db
	}
	return c.DB, nil
}

func (c *Container) asker(ctx context.Context) (assistant.Asker, error) {
	if c.Asker == nil {
		cfg, err := c.loadConfig()
		if err != nil {
			return nil, err
		}

		asker, err := gemini.NewGeminiAsker(ctx, c.logger().With("component", "assistant"), cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize assistant client: %w", err)
		}
		c.Asker = asker
	}
	return c.Asker, nil
}

// UrgencyService returns the deterministic urgency classifier.
func (c *Container) UrgencyService() urgency.Service {
	if c.Urgency == nil {
		c.Urgency = urgency.NewDefaultService()
	}
	return c.Urgency
}

// RecurrenceOracle returns the assistant-backed yes/no recurrence oracle.
func (c *Container) RecurrenceOracle(ctx context.Context) (*recurrence.Oracle, error) {
	if c.Oracle == nil {
		asker, err := c.asker(ctx)
		if err != nil {
			return nil, err
		}
		c.Oracle = recurrence.NewOracle(asker, c.logger())
	}
	return c.Oracle, nil
}

// UserStore returns the account store.
func (c *Container) UserStore(ctx context.Context) (store.UserStore, error) {
	if c.Users == nil {
		db, err := c.database(ctx)
		if err != nil {
			return nil, err
		}
		c.Users = postgres.NewPostgresUserStore(db, c.logger())
	}
	return c.Users, nil
}

// TaskService returns the task service.
func (c *Container) TaskService(ctx context.Context) (service.TaskService, error) {
	if c.Tasks == nil {
		db, err := c.database(ctx)
		if err != nil {
			return nil, err
		}
		taskStore := postgres.NewPostgresTaskStore(db, c.logger())
		c.Tasks = service.NewTaskService(taskStore, db, c.UrgencyService(), c.logger())
	}
	return c.Tasks, nil
}

// SuggestionService returns the suggestion service. The CLI runs scans
// synchronously, so the service gets an emitter nobody listens to.
func (c *Container) SuggestionService(ctx context.Context) (service.SuggestionService, error) {
	if c.Suggestions == nil {
		db, err := c.database(ctx)
		if err != nil {
			return nil, err
		}
		oracle, err := c.RecurrenceOracle(ctx)
		if err != nil {
			return nil, err
		}
		cfg, err := c.loadConfig()
		if err != nil {
			return nil, err
		}

		generator := recurrence.NewGenerator(oracle, cfg.LLM.MaxConcurrent, c.logger())
		c.Suggestions = service.NewSuggestionService(
			postgres.NewPostgresSuggestionStore(db, c.logger()),
			postgres.NewPostgresTaskStore(db, c.logger()),
			generator,
			events.NewInMemoryEventEmitter(c.logger()),
			db,
			c.logger(),
		)
	}
	return c.Suggestions, nil
}

// InsightService returns the assistant-backed advice/stats/summary service.
func (c *Container) InsightService(ctx context.Context) (insight.Service, error) {
	if c.Insight == nil {
		db, err := c.database(ctx)
		if err != nil {
			return nil, err
		}
		asker, err := c.asker(ctx)
		if err != nil {
			return nil, err
		}
		c.Insight = insight.NewService(
			asker,
			c.UrgencyService(),
			postgres.NewPostgresTaskStore(db, c.logger()),
			c.logger(),
		)
	}
	return c.Insight, nil
}

// resolveUser looks up the acting account for a data command.
func (c *Container) resolveUser(ctx context.Context, email string) (*domain.User, error) {
	if email == "" {
		return nil, errors.New(`required flag "user" not set`)
	}

	users, err := c.UserStore(ctx)
	if err != nil {
		return nil, err
	}

	user, err := users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, fmt.Errorf("no account with email %q", email)
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	return user, nil
}
