package job

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hearthapp/hearth-api/internal/events"
)

// ScanJobFactory builds suggestion scan jobs from a user ID.
type ScanJobFactory interface {
	CreateJob(userID uuid.UUID) (Job, error)
}

// Submitter accepts jobs for execution. *Runner satisfies it.
type Submitter interface {
	Submit(ctx context.Context, j Job) error
}

// FactoryEventHandler turns job request events into runnable jobs and
// submits them to the runner. Events of types it does not know are
// ignored so new event types can be added without breaking it.
type FactoryEventHandler struct {
	factory ScanJobFactory
	runner  Submitter
	logger  *slog.Logger
}

var _ events.EventHandler = (*FactoryEventHandler)(nil)

// NewFactoryEventHandler creates an event handler that dispatches
// suggestion scan requests to the given factory and runner.
func NewFactoryEventHandler(factory ScanJobFactory, runner Submitter, logger *slog.Logger) *FactoryEventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &FactoryEventHandler{
		factory: factory,
		runner:  runner,
		logger:  logger.With("component", "job_event_handler"),
	}
}

// HandleEvent implements events.EventHandler.
func (h *FactoryEventHandler) HandleEvent(ctx context.Context, event *events.JobRequestEvent) error {
	if event.Type != TypeSuggestionScan {
		h.logger.Debug("ignoring event of unhandled type",
			"event_id", event.ID,
			"event_type", event.Type)
		return nil
	}

	var payload suggestionScanPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		return fmt.Errorf("failed to decode job request payload: %w", err)
	}
	if payload.UserID == uuid.Nil {
		return ErrEmptyUserID
	}

	j, err := h.factory.CreateJob(payload.UserID)
	if err != nil {
		return fmt.Errorf("failed to create suggestion scan job: %w", err)
	}

	if err := h.runner.Submit(ctx, j); err != nil {
		return fmt.Errorf("failed to submit suggestion scan job: %w", err)
	}

	h.logger.Debug("suggestion scan job submitted",
		"job_id", j.ID(),
		"user_id", payload.UserID)
	return nil
}
