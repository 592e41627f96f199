package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hearthapp/hearth-api/internal/domain"
	"github.com/hearthapp/hearth-api/internal/platform/logger"
	"github.com/hearthapp/hearth-api/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// Create implements store.TaskStore.Create
// It saves a new task to the database.
// Returns store.ErrInvalidEntity wrapping the domain error if the task data
// is invalid, or if the owning user doesn't exist (foreign key violation).
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO tasks (id, user_id, title, description, category, due_date,
			duration_hours, priority, reminder_days, status, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		task.Category,
		task.DueDate,
		task.DurationHours,
		task.Priority,
		task.ReminderDays,
		task.Status,
		task.Tags,
		task.CreatedAt,
		task.UpdatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during task creation",
				slog.String("error", err.Error()),
				slog.String("task_id", task.ID.String()),
				slog.String("user_id", task.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, task.UserID)
		}

		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()),
			slog.String("user_id", task.UserID.String()))
		return MapError(err)
	}

	log.Info("task created successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", task.UserID.String()))
	return nil
}

// GetByID implements store.TaskStore.GetByID
// It retrieves a task by its unique ID, scoped to the owning user.
// Returns store.ErrTaskNotFound if the task does not exist or belongs to
// another user.
func (s *PostgresTaskStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving task by ID", slog.String("task_id", id.String()))

	query := `
		SELECT id, user_id, title, description, category, due_date,
			duration_hours, priority, reminder_days, status, tags, created_at, updated_at
		FROM tasks
		WHERE id = $1 AND user_id = $2
	`

	var task domain.Task
	var priority, status string

	err := s.db.QueryRowContext(ctx, query, id, userID).Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.Category,
		&task.DueDate,
		&task.DurationHours,
		&priority,
		&task.ReminderDays,
		&status,
		&task.Tags,
		&task.CreatedAt,
		&task.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, MapError(err)
	}

	task.Priority = domain.Priority(priority)
	task.Status = domain.TaskStatus(status)

	return &task, nil
}

// ListByUser implements store.TaskStore.ListByUser
// It retrieves a user's tasks, filtered and ordered per opts.
// Returns an empty slice if no tasks match the criteria.
func (s *PostgresTaskStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	opts store.ListTasksOptions,
) ([]domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, title, description, category, due_date,
			duration_hours, priority, reminder_days, status, tags, created_at, updated_at
		FROM tasks
		WHERE user_id = $1
	`
	args := []interface{}{userID}

	if opts.Status != "" {
		query += ` AND status = $2`
		args = append(args, opts.Status)
	}

	// Due-date ordering sorts the raw text ascending with empty values last,
	// which matches chronological order for well-formed dates.
	switch opts.SortBy {
	case store.TaskSortByDueDate:
		query += ` ORDER BY NULLIF(due_date, '') ASC NULLS LAST, created_at DESC`
	default:
		query += ` ORDER BY created_at DESC`
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var tasks []domain.Task
	for rows.Next() {
		var task domain.Task
		var priority, status string

		err := rows.Scan(
			&task.ID,
			&task.UserID,
			&task.Title,
			&task.Description,
			&task.Category,
			&task.DueDate,
			&task.DurationHours,
			&priority,
			&task.ReminderDays,
			&status,
			&task.Tags,
			&task.CreatedAt,
			&task.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan task row",
				slog.String("error", err.Error()))
			return nil, MapError(err)
		}

		task.Priority = domain.Priority(priority)
		task.Status = domain.TaskStatus(status)
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	if tasks == nil {
		tasks = []domain.Task{}
	}

	log.Debug("listed tasks",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(tasks)))
	return tasks, nil
}

// Update implements store.TaskStore.Update
// It modifies an existing task, scoped by the task's UserID.
// Returns store.ErrTaskNotFound if no matching row exists.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	task.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE tasks
		SET title = $1, description = $2, category = $3, due_date = $4,
			duration_hours = $5, priority = $6, reminder_days = $7, status = $8,
			tags = $9, updated_at = $10
		WHERE id = $11 AND user_id = $12
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		task.Title,
		task.Description,
		task.Category,
		task.DueDate,
		task.DurationHours,
		task.Priority,
		task.ReminderDays,
		task.Status,
		task.Tags,
		task.UpdatedAt,
		task.ID,
		task.UserID,
	)

	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		log.Debug("task not found for update",
			slog.String("task_id", task.ID.String()))
		return err
	}

	log.Info("task updated successfully",
		slog.String("task_id", task.ID.String()))
	return nil
}

// Delete implements store.TaskStore.Delete
// It removes a task owned by the given user.
// Returns store.ErrTaskNotFound if no matching row exists.
func (s *PostgresTaskStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		DELETE FROM tasks
		WHERE id = $1 AND user_id = $2
	`

	result, err := s.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		log.Debug("task not found for delete",
			slog.String("task_id", id.String()))
		return err
	}

	log.Info("task deleted successfully",
		slog.String("task_id", id.String()))
	return nil
}

// CountStats implements store.TaskStore.CountStats
// It aggregates the user's task counts in two queries: one for the overall
// totals and one for the per-category breakdown. A pending task counts as
// overdue only when its due date text is a well-formed calendar date earlier
// than today; malformed or empty due dates never count.
func (s *PostgresTaskStore) CountStats(
	ctx context.Context,
	userID uuid.UUID,
	today string,
) (*store.TaskStats, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Date strings compare lexicographically in chronological order once the
	// format guard has excluded malformed values.
	totalsQuery := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = $2) AS completed,
			COUNT(*) FILTER (WHERE status = $3 AND due_date ~ '^\d{4}-\d{2}-\d{2}$' AND due_date < $4) AS overdue
		FROM tasks
		WHERE user_id = $1
	`

	stats := &store.TaskStats{
		ByCategory: make(map[string]int),
	}

	err := s.db.QueryRowContext(
		ctx,
		totalsQuery,
		userID,
		domain.TaskStatusCompleted,
		domain.TaskStatusPending,
		today,
	).Scan(&stats.Total, &stats.Completed, &stats.Overdue)
	if err != nil {
		log.Error("failed to count task totals",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}

	categoryQuery := `
		SELECT category, COUNT(*)
		FROM tasks
		WHERE user_id = $1
		GROUP BY category
		ORDER BY category
	`

	rows, err := s.db.QueryContext(ctx, categoryQuery, userID)
	if err != nil {
		log.Error("failed to count tasks by category",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			log.Error("failed to scan category row",
				slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		if category == "" {
			category = store.UncategorizedLabel
		}
		stats.ByCategory[category] += count
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return stats, nil
}

// WithTx implements store.TaskStore.WithTx
// It returns a new TaskStore instance that uses the provided transaction.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}
