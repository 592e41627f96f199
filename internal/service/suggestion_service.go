package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hearthapp/hearth-api/internal/domain"
	"github.com/hearthapp/hearth-api/internal/events"
	"github.com/hearthapp/hearth-api/internal/job"
	"github.com/hearthapp/hearth-api/internal/store"
)

// DraftGenerator produces next-cycle drafts from a user's tasks. It is
// satisfied by recurrence.Generator.
type DraftGenerator interface {
	// Generate returns drafts for the tasks judged recurring, in input
	// order. It never fails; tasks it cannot judge are skipped.
	Generate(ctx context.Context, tasks []domain.Task) []*domain.Suggestion
}

// SuggestionService manages the recurrence-draft lifecycle: scanning for
// candidates, listing proposals, and resolving them.
type SuggestionService interface {
	// EnqueueScan requests a background scan of the user's tasks. The scan
	// itself runs on the job runner; this returns once the request event
	// is accepted.
	EnqueueScan(ctx context.Context, userID uuid.UUID) error

	// Scan synchronously regenerates the user's proposed drafts: every
	// stored task is considered, and the resulting batch replaces the
	// previous proposals in one transaction.
	Scan(ctx context.Context, userID uuid.UUID) ([]domain.Suggestion, error)

	// ListSuggestions retrieves the user's proposed drafts.
	ListSuggestions(ctx context.Context, userID uuid.UUID) ([]domain.Suggestion, error)

	// AcceptSuggestion turns a proposed draft into a real pending task and
	// marks the draft accepted, atomically. Returns the created task.
	// Returns ErrSuggestionNotProposed if the draft was already resolved.
	AcceptSuggestion(ctx context.Context, userID, suggestionID uuid.UUID) (*domain.Task, error)

	// DismissSuggestion marks a proposed draft dismissed.
	// Returns ErrSuggestionNotProposed if the draft was already resolved.
	DismissSuggestion(ctx context.Context, userID, suggestionID uuid.UUID) error
}

// suggestionServiceImpl implements the SuggestionService interface.
type suggestionServiceImpl struct {
	suggestionStore store.SuggestionStore
	taskStore       store.TaskStore
	generator       DraftGenerator
	eventEmitter    events.EventEmitter
	db              *sql.DB
	logger          *slog.Logger
}

var _ SuggestionService = (*suggestionServiceImpl)(nil)

// NewSuggestionService creates a new SuggestionService.
func NewSuggestionService(
	suggestionStore store.SuggestionStore,
	taskStore store.TaskStore,
	generator DraftGenerator,
	eventEmitter events.EventEmitter,
	db *sql.DB,
	logger *slog.Logger,
) SuggestionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &suggestionServiceImpl{
		suggestionStore: suggestionStore,
		taskStore:       taskStore,
		generator:       generator,
		eventEmitter:    eventEmitter,
		db:              db,
		logger:          logger.With("component", "suggestion_service"),
	}
}

// EnqueueScan emits a job request event carrying the user ID.
func (s *suggestionServiceImpl) EnqueueScan(ctx context.Context, userID uuid.UUID) error {
	payload := struct {
		UserID uuid.UUID `json:"user_id"`
	}{
		UserID: userID,
	}

	event, err := events.NewJobRequestEvent(job.TypeSuggestionScan, payload)
	if err != nil {
		s.logger.Error("failed to create scan request event",
			"error", err,
			"user_id", userID)
		return fmt.Errorf("failed to request suggestion scan: %w", err)
	}

	if err := s.eventEmitter.EmitEvent(ctx, event); err != nil {
		s.logger.Error("failed to emit scan request event",
			"error", err,
			"user_id", userID,
			"event_id", event.ID)
		return fmt.Errorf("failed to request suggestion scan: %w", err)
	}

	s.logger.Info("suggestion scan requested",
		"user_id", userID,
		"event_id", event.ID)

	return nil
}

// Scan lists every stored task, generates drafts for the recurring ones,
// and replaces the user's proposed set with the result. Completed tasks
// are deliberately included: a finished weekly chore is exactly the kind
// of task worth proposing again.
func (s *suggestionServiceImpl) Scan(ctx context.Context, userID uuid.UUID) ([]domain.Suggestion, error) {
	tasks, err := s.taskStore.ListByUser(ctx, userID, store.ListTasksOptions{})
	if err != nil {
		s.logger.Error("failed to list tasks for scan",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to scan for suggestions: %w", err)
	}

	drafts := s.generator.Generate(ctx, tasks)

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.suggestionStore.WithTx(tx).ReplaceProposed(ctx, userID, drafts)
	})
	if err != nil {
		s.logger.Error("failed to store scan results",
			"error", err,
			"user_id", userID,
			"draft_count", len(drafts))
		return nil, fmt.Errorf("failed to store suggestions: %w", err)
	}

	s.logger.Info("suggestion scan completed",
		"user_id", userID,
		"task_count", len(tasks),
		"draft_count", len(drafts))

	out := make([]domain.Suggestion, 0, len(drafts))
	for _, d := range drafts {
		out = append(out, *d)
	}
	return out, nil
}

// ListSuggestions retrieves the user's proposed drafts.
func (s *suggestionServiceImpl) ListSuggestions(ctx context.Context, userID uuid.UUID) ([]domain.Suggestion, error) {
	suggestions, err := s.suggestionStore.ListProposed(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list suggestions",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to list suggestions: %w", err)
	}

	return suggestions, nil
}

// AcceptSuggestion creates the task and resolves the draft in one
// transaction, so an accepted suggestion always has its task.
func (s *suggestionServiceImpl) AcceptSuggestion(
	ctx context.Context,
	userID, suggestionID uuid.UUID,
) (*domain.Task, error) {
	var created *domain.Task

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txSuggestions := s.suggestionStore.WithTx(tx)

		suggestion, err := txSuggestions.GetByID(ctx, userID, suggestionID)
		if err != nil {
			return fmt.Errorf("failed to retrieve suggestion: %w", err)
		}

		if suggestion.Status != domain.SuggestionStatusProposed {
			return ErrSuggestionNotProposed
		}

		task, err := taskFromSuggestion(suggestion)
		if err != nil {
			return fmt.Errorf("failed to build task from suggestion: %w", err)
		}

		if err := s.taskStore.WithTx(tx).Create(ctx, task); err != nil {
			return fmt.Errorf("failed to create task from suggestion: %w", err)
		}

		if err := txSuggestions.UpdateStatus(ctx, userID, suggestionID, domain.SuggestionStatusAccepted); err != nil {
			return fmt.Errorf("failed to mark suggestion accepted: %w", err)
		}

		created = task
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrSuggestionNotFound):
			s.logger.Debug("suggestion not found for accept",
				"suggestion_id", suggestionID,
				"user_id", userID)
		case errors.Is(err, ErrSuggestionNotProposed):
			s.logger.Debug("suggestion already resolved",
				"suggestion_id", suggestionID,
				"user_id", userID)
		default:
			s.logger.Error("failed to accept suggestion",
				"error", err,
				"suggestion_id", suggestionID,
				"user_id", userID)
		}
		return nil, err
	}

	s.logger.Info("suggestion accepted",
		"suggestion_id", suggestionID,
		"task_id", created.ID,
		"user_id", userID)

	return created, nil
}

// DismissSuggestion resolves the draft without creating a task.
func (s *suggestionServiceImpl) DismissSuggestion(ctx context.Context, userID, suggestionID uuid.UUID) error {
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txSuggestions := s.suggestionStore.WithTx(tx)

		suggestion, err := txSuggestions.GetByID(ctx, userID, suggestionID)
		if err != nil {
			return fmt.Errorf("failed to retrieve suggestion: %w", err)
		}

		if suggestion.Status != domain.SuggestionStatusProposed {
			return ErrSuggestionNotProposed
		}

		return txSuggestions.UpdateStatus(ctx, userID, suggestionID, domain.SuggestionStatusDismissed)
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrSuggestionNotFound):
			s.logger.Debug("suggestion not found for dismiss",
				"suggestion_id", suggestionID,
				"user_id", userID)
		case errors.Is(err, ErrSuggestionNotProposed):
			s.logger.Debug("suggestion already resolved",
				"suggestion_id", suggestionID,
				"user_id", userID)
		default:
			s.logger.Error("failed to dismiss suggestion",
				"error", err,
				"suggestion_id", suggestionID,
				"user_id", userID)
		}
		return err
	}

	s.logger.Info("suggestion dismissed",
		"suggestion_id", suggestionID,
		"user_id", userID)

	return nil
}

// taskFromSuggestion copies a draft's fields into a new pending task.
func taskFromSuggestion(s *domain.Suggestion) (*domain.Task, error) {
	task, err := domain.NewTask(s.UserID, s.Title)
	if err != nil {
		return nil, err
	}

	task.Description = s.Description
	task.Category = s.Category
	task.DueDate = s.DueDate
	task.Priority = s.Priority
	task.ReminderDays = s.ReminderDays

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}
