package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/hearthapp/hearth-api/internal/domain"
)

// TaskSortBy selects the ordering of task listings.
type TaskSortBy string

// Supported orderings. Due-date ordering sorts the raw text ascending with
// empty values last, which matches chronological order for well-formed
// dates; created-at ordering is newest first.
const (
	TaskSortByCreatedAt TaskSortBy = "created_at"
	TaskSortByDueDate   TaskSortBy = "due_date"
)

// ListTasksOptions narrows and orders a task listing. The zero value lists
// every task, newest first.
type ListTasksOptions struct {
	// Status keeps only tasks in the given state when non-empty.
	Status domain.TaskStatus

	// SortBy selects the ordering; empty means TaskSortByCreatedAt.
	SortBy TaskSortBy
}

// UncategorizedLabel is the bucket name tasks without a category fall under
// in the per-category breakdown.
const UncategorizedLabel = "Uncategorized"

// TaskStats summarizes one user's tasks for the stats and summary surfaces.
type TaskStats struct {
	Total      int            `json:"total"`
	Completed  int            `json:"completed"`
	Overdue    int            `json:"overdue"`
	ByCategory map[string]int `json:"by_category"`
}

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns ErrInvalidEntity (wrapping the domain error) if the task
	// fails validation.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID, scoped to the owning
	// user. Returns ErrTaskNotFound if the task does not exist or belongs
	// to someone else.
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Task, error)

	// ListByUser retrieves a user's tasks, filtered and ordered per opts.
	ListByUser(ctx context.Context, userID uuid.UUID, opts ListTasksOptions) ([]domain.Task, error)

	// Update modifies an existing task. The task's UserID scopes the
	// update; Returns ErrTaskNotFound if no matching row exists.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task owned by the given user.
	// Returns ErrTaskNotFound if no matching row exists.
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// CountStats aggregates the user's task counts. today is the caller's
	// calendar date in YYYY-MM-DD form; a pending task counts as overdue
	// when its due date is well-formed and earlier than today. Malformed
	// due dates never count as overdue.
	CountStats(ctx context.Context, userID uuid.UUID, today string) (*TaskStats, error)

	// WithTx returns a new TaskStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller,
	// typically through store.RunInTransaction.
	WithTx(tx *sql.Tx) TaskStore
}
