package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hearthapp/hearth-api/internal/domain"
	"github.com/hearthapp/hearth-api/internal/domain/urgency"
	"github.com/hearthapp/hearth-api/internal/store"
)

// AnnotatedTask is a stored task together with its effective priority as
// computed by the urgency rules at read time. The stored priority is left
// untouched; the annotation exists only in responses.
type AnnotatedTask struct {
	domain.Task

	EffectivePriority domain.Priority `json:"effective_priority"`
	UrgencyReason     string          `json:"urgency_reason"`
}

// CreateTaskParams carries the caller-supplied fields for a new task.
// Priority and ReminderDays are optional; when absent the domain defaults
// (Medium, one day) apply.
type CreateTaskParams struct {
	Title         string
	Description   string
	Category      string
	DueDate       string
	DurationHours float64
	Priority      domain.Priority
	ReminderDays  *int
	Tags          string
}

// UpdateTaskParams names the fields an update may change. Nil fields are
// left as they are, so a caller can change one field without resending the
// rest.
type UpdateTaskParams struct {
	Title         *string
	Description   *string
	Category      *string
	DueDate       *string
	DurationHours *float64
	Priority      *domain.Priority
	ReminderDays  *int
	Tags          *string
}

// TaskService provides task CRUD plus the annotated read surfaces.
type TaskService interface {
	// CreateTask creates a pending task owned by the given user.
	CreateTask(ctx context.Context, userID uuid.UUID, params CreateTaskParams) (*domain.Task, error)

	// GetTask retrieves one of the user's tasks by ID.
	GetTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)

	// ListTasks retrieves the user's tasks, each annotated with its
	// effective priority as of now.
	ListTasks(ctx context.Context, userID uuid.UUID, opts store.ListTasksOptions) ([]AnnotatedTask, error)

	// ListReminders retrieves the user's pending tasks whose effective
	// priority is High right now: the set worth surfacing as reminders.
	ListReminders(ctx context.Context, userID uuid.UUID) ([]AnnotatedTask, error)

	// UpdateTask applies the non-nil fields of params to one of the user's
	// tasks and returns the updated task.
	UpdateTask(ctx context.Context, userID, taskID uuid.UUID, params UpdateTaskParams) (*domain.Task, error)

	// CompleteTask marks one of the user's tasks completed. Completing an
	// already-completed task succeeds without change.
	CompleteTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)

	// DeleteTask removes one of the user's tasks.
	DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error
}

// taskServiceImpl implements the TaskService interface.
type taskServiceImpl struct {
	taskStore  store.TaskStore
	classifier urgency.Service
	db         *sql.DB
	logger     *slog.Logger
	timeFunc   func() time.Time // Injectable for testing
}

var _ TaskService = (*taskServiceImpl)(nil)

// NewTaskService creates a new TaskService.
func NewTaskService(
	taskStore store.TaskStore,
	db *sql.DB,
	classifier urgency.Service,
	logger *slog.Logger,
) TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	return &taskServiceImpl{
		taskStore:  taskStore,
		classifier: classifier,
		db:         db,
		logger:     logger.With("component", "task_service"),
		timeFunc:   time.Now,
	}
}

// CreateTask builds and validates the task, then saves it in a transaction.
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	userID uuid.UUID,
	params CreateTaskParams,
) (*domain.Task, error) {
	task, err := domain.NewTask(userID, params.Title)
	if err != nil {
		s.logger.Debug("rejected task creation",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	task.Description = params.Description
	task.Category = params.Category
	task.DueDate = params.DueDate
	task.DurationHours = params.DurationHours
	task.Tags = params.Tags
	if params.Priority != "" {
		task.Priority = params.Priority
	}
	if params.ReminderDays != nil {
		task.ReminderDays = *params.ReminderDays
	}

	if err := task.Validate(); err != nil {
		s.logger.Debug("rejected task creation",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.taskStore.WithTx(tx).Create(ctx, task)
	})
	if err != nil {
		s.logger.Error("failed to save task",
			"error", err,
			"user_id", userID,
			"task_id", task.ID)
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Info("task created",
		"task_id", task.ID,
		"user_id", userID)

	return task, nil
}

// GetTask retrieves one of the user's tasks by ID.
func (s *taskServiceImpl) GetTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.taskStore.GetByID(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			s.logger.Debug("task not found",
				"task_id", taskID,
				"user_id", userID)
		} else {
			s.logger.Error("failed to retrieve task",
				"error", err,
				"task_id", taskID,
				"user_id", userID)
		}
		return nil, fmt.Errorf("failed to retrieve task: %w", err)
	}

	return task, nil
}

// ListTasks retrieves and annotates the user's tasks.
func (s *taskServiceImpl) ListTasks(
	ctx context.Context,
	userID uuid.UUID,
	opts store.ListTasksOptions,
) ([]AnnotatedTask, error) {
	tasks, err := s.taskStore.ListByUser(ctx, userID, opts)
	if err != nil {
		s.logger.Error("failed to list tasks",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return s.annotate(tasks), nil
}

// ListReminders retrieves the pending tasks the urgency rules currently
// rate High.
func (s *taskServiceImpl) ListReminders(ctx context.Context, userID uuid.UUID) ([]AnnotatedTask, error) {
	annotated, err := s.ListTasks(ctx, userID, store.ListTasksOptions{
		Status: domain.TaskStatusPending,
		SortBy: store.TaskSortByDueDate,
	})
	if err != nil {
		return nil, err
	}

	reminders := make([]AnnotatedTask, 0, len(annotated))
	for _, t := range annotated {
		if t.EffectivePriority == domain.PriorityHigh {
			reminders = append(reminders, t)
		}
	}

	return reminders, nil
}

// UpdateTask applies the requested field changes inside a transaction.
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	userID, taskID uuid.UUID,
	params UpdateTaskParams,
) (*domain.Task, error) {
	var updated *domain.Task

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.taskStore.WithTx(tx)

		task, err := txStore.GetByID(ctx, userID, taskID)
		if err != nil {
			return fmt.Errorf("failed to retrieve task for update: %w", err)
		}

		applyTaskUpdates(task, params)
		if err := task.Validate(); err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}

		if err := txStore.Update(ctx, task); err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}

		updated = task
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			s.logger.Debug("task not found for update",
				"task_id", taskID,
				"user_id", userID)
		} else {
			s.logger.Error("failed to update task",
				"error", err,
				"task_id", taskID,
				"user_id", userID)
		}
		return nil, err
	}

	s.logger.Info("task updated",
		"task_id", taskID,
		"user_id", userID)

	return updated, nil
}

// CompleteTask marks the task completed inside a transaction.
func (s *taskServiceImpl) CompleteTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	var completed *domain.Task

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.taskStore.WithTx(tx)

		task, err := txStore.GetByID(ctx, userID, taskID)
		if err != nil {
			return fmt.Errorf("failed to retrieve task for completion: %w", err)
		}

		task.Complete()
		if err := txStore.Update(ctx, task); err != nil {
			return fmt.Errorf("failed to complete task: %w", err)
		}

		completed = task
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			s.logger.Debug("task not found for completion",
				"task_id", taskID,
				"user_id", userID)
		} else {
			s.logger.Error("failed to complete task",
				"error", err,
				"task_id", taskID,
				"user_id", userID)
		}
		return nil, err
	}

	s.logger.Info("task completed",
		"task_id", taskID,
		"user_id", userID)

	return completed, nil
}

// DeleteTask removes the task inside a transaction.
func (s *taskServiceImpl) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.taskStore.WithTx(tx).Delete(ctx, userID, taskID)
	})
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			s.logger.Debug("task not found for deletion",
				"task_id", taskID,
				"user_id", userID)
		} else {
			s.logger.Error("failed to delete task",
				"error", err,
				"task_id", taskID,
				"user_id", userID)
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.logger.Info("task deleted",
		"task_id", taskID,
		"user_id", userID)

	return nil
}

// annotate runs the urgency rules over each task at the current instant.
func (s *taskServiceImpl) annotate(tasks []domain.Task) []AnnotatedTask {
	now := s.timeFunc()

	annotated := make([]AnnotatedTask, 0, len(tasks))
	for _, t := range tasks {
		result := s.classifier.Classify(urgency.InputFromTask(t), now)
		annotated = append(annotated, AnnotatedTask{
			Task:              t,
			EffectivePriority: result.Priority,
			UrgencyReason:     result.Reason(),
		})
	}

	return annotated
}

// applyTaskUpdates copies the non-nil params onto the task.
func applyTaskUpdates(task *domain.Task, params UpdateTaskParams) {
	if params.Title != nil {
		task.Title = *params.Title
	}
	if params.Description != nil {
		task.Description = *params.Description
	}
	if params.Category != nil {
		task.Category = *params.Category
	}
	if params.DueDate != nil {
		task.DueDate = *params.DueDate
	}
	if params.DurationHours != nil {
		task.DurationHours = *params.DurationHours
	}
	if params.Priority != nil {
		task.Priority = *params.Priority
	}
	if params.ReminderDays != nil {
		task.ReminderDays = *params.ReminderDays
	}
	if params.Tags != nil {
		task.Tags = *params.Tags
	}
}
