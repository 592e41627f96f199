package postgres

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/hearthapp/hearth-api/internal/domain"
	"github.com/hearthapp/hearth-api/internal/store"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMockDB creates a sqlmock-backed database and registers cleanup.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})

	return db, mock
}

// quietLogger discards output so store logging doesn't pollute test runs.
func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testTask builds a valid task owned by the given user.
func testTask(t *testing.T, userID uuid.UUID) *domain.Task {
	t.Helper()

	task, err := domain.NewTask(userID, "Pay rent")
	require.NoError(t, err)
	task.Description = "Transfer to landlord"
	task.Category = "finance"
	task.DueDate = "2026-09-01"
	task.DurationHours = 0.5
	task.Tags = "home,money"
	return task
}

func taskColumns() []string {
	return []string{
		"id", "user_id", "title", "description", "category", "due_date",
		"duration_hours", "priority", "reminder_days", "status", "tags",
		"created_at", "updated_at",
	}
}

func taskRow(rows *sqlmock.Rows, task *domain.Task) *sqlmock.Rows {
	return rows.AddRow(
		task.ID, task.UserID, task.Title, task.Description, task.Category,
		task.DueDate, task.DurationHours, string(task.Priority), task.ReminderDays,
		string(task.Status), task.Tags, task.CreatedAt, task.UpdatedAt,
	)
}

func TestTaskStoreCreate(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		db, mock := newMockDB(t)
		taskStore := NewPostgresTaskStore(db, quietLogger())
		task := testTask(t, uuid.New())

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tasks")).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := taskStore.Create(context.Background(), task)
		assert.NoError(t, err)
	})

	t.Run("validation_failure_skips_database", func(t *testing.T) {
		t.Parallel()

		db, _ := newMockDB(t)
		taskStore := NewPostgresTaskStore(db, quietLogger())
		task := testTask(t, uuid.New())
		task.Title = "  "

		err := taskStore.Create(context.Background(), task)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
		assert.ErrorIs(t, err, domain.ErrTaskTitleEmpty)
	})

	t.Run("unknown_user_maps_to_invalid_entity", func(t *testing.T) {
		t.Parallel()

		db, mock := newMockDB(t)
		taskStore := NewPostgresTaskStore(db, quietLogger())
		task := testTask(t, uuid.New())

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tasks")).
			WillReturnError(&pgconn.PgError{Code: foreignKeyViolationCode})

		err := taskStore.Create(context.Background(), task)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
		assert.Contains(t, err.Error(), task.UserID.String())
	})
}

func TestTaskStoreGetByID(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()

		db, mock := newMockDB(t)
		taskStore := NewPostgresTaskStore(db, quietLogger())
		userID := uuid.New()
		task := testTask(t, userID)

		mock.ExpectQuery(regexp.QuoteMeta("FROM tasks")).
			WithArgs(task.ID, userID).
			WillReturnRows(taskRow(sqlmock.NewRows(taskColumns()), task))

		got, err := taskStore.GetByID(context.Background(), userID, task.ID)
		require.NoError(t, err)
		assert.Equal(t, task.ID, got.ID)
		assert.Equal(t, task.Title, got.Title)
		assert.Equal(t, domain.PriorityMedium, got.Priority)
		assert.Equal(t, domain.TaskStatusPending, got.Status)
		assert.Equal(t, "2026-09-01", got.DueDate)
	})

	t.Run("not_found", func(t *testing.T) {
		t.Parallel()

		db, mock := newMockDB(t)
		taskStore := NewPostgresTaskStore(db, quietLogger())

		mock.ExpectQuery(regexp.QuoteMeta("FROM tasks")).
			WillReturnError(sql.ErrNoRows)

		got, err := taskStore.GetByID(context.Background(), uuid.New(), uuid.New())
		assert.Nil(t, got)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
		assert.True(t, store.IsNotFoundError(err))
	})
}

func TestTaskStoreListByUser(t *testing.T) {
	t.Parallel()

	t.Run("returns_tasks", func(t *testing.T) {
		t.Parallel()

		db, mock := newMockDB(t)
		taskStore := NewPostgresTaskStore(db, quietLogger())
		userID := uuid.New()
		first := testTask(t, userID)
		second := testTask(t, userID)
		second.Title = "Book dentist"

		rows := sqlmock.NewRows(taskColumns())
		taskRow(rows, first)
		taskRow(rows, second)

		mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC")).
			WithArgs(userID).
			WillReturnRows(rows)

		got, err := taskStore.ListByUser(context.Background(), userID, store.ListTasksOptions{})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Pay rent", got[0].Title)
		assert.Equal(t, "Book dentist", got[1].Title)
	})

	t.Run("status_filter_is_applied", func(t *testing.T) {
		t.Parallel()

		db, mock := newMockDB(t)
		taskStore := NewPostgresTaskStore(db, quietLogger())
		userID := uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta("AND status = $2")).
			WithArgs(userID, string(domain.TaskStatusPending)).
			WillReturnRows(sqlmock.NewRows(taskColumns()))

		_, err := taskStore.ListByUser(context.Background(), userID, store.ListTasksOptions{
			Status: domain.TaskStatusPending,
		})
		assert.NoError(t, err)
	})

	t.Run("due_date_sort_pushes_blank_dates_last", func(t *testing.T) {
		t.Parallel()

		db, mock := newMockDB(t)
		taskStore := NewPostgresTaskStore(db, quietLogger())
		userID := uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta("NULLS LAST")).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows(taskColumns()))

		_, err := taskStore.ListByUser(context.Background(), userID, store.ListTasksOptions{
			SortBy: store.TaskSortByDueDate,
		})
		assert.NoError(t, err)
	})

	t.Run("no_tasks_returns_empty_slice", func(t *testing.T) {
		t.Parallel()

		db, mock := newMockDB(t)
		taskStore := NewPostgresTaskStore(db, quietLogger())
		userID := uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta("FROM tasks")).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows(taskColumns()))

		got, err := taskStore.ListByUser(context.Background(), userID, store.ListTasksOptions{})
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestTaskStoreUpdate(t *testing.T) {
	t.Parallel()

	t.Run("success_refreshes_updated_at", func(t *testing.T) {
		t.Parallel()

		db, mock := newMockDB(t)
		taskStore := NewPostgresTaskStore(db, quietLogger())
		task := testTask(t, uuid.New())
		before := task.UpdatedAt

		mock.ExpectExec(regexp.QuoteMeta("UPDATE tasks")).
			WillReturnResult(sqlmock.NewResult(0, 1))

		time.Sleep(time.Millisecond)
		err := taskStore.Update(context.Background(), task)
		require.NoError(t, err)
		assert.True(t, task.UpdatedAt.After(before))
	})

	t.Run("missing_row_maps_to_not_found", func(t *testing.T) {
		t.Parallel()

		db, mock := newMockDB(t)
		taskStore := NewPostgresTaskStore(db, quietLogger())
		task := testTask(t, uuid.New())

		mock.ExpectExec(regexp.QuoteMeta("UPDATE tasks")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := taskStore.Update(context.Background(), task)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func TestTaskStoreDelete(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		db, mock := newMockDB(t)
		taskStore := NewPostgresTaskStore(db, quietLogger())
		userID, taskID := uuid.New(), uuid.New()

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tasks")).
			WithArgs(taskID, userID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, taskStore.Delete(context.Background(), userID, taskID))
	})

	t.Run("missing_row_maps_to_not_found", func(t *testing.T) {
		t.Parallel()

		db, mock := newMockDB(t)
		taskStore := NewPostgresTaskStore(db, quietLogger())

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tasks")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := taskStore.Delete(context.Background(), uuid.New(), uuid.New())
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func TestTaskStoreCountStats(t *testing.T) {
	t.Parallel()

	t.Run("aggregates_totals_and_categories", func(t *testing.T) {
		t.Parallel()

		db, mock := newMockDB(t)
		taskStore := NewPostgresTaskStore(db, quietLogger())
		userID := uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta("COUNT(*) AS total")).
			WithArgs(userID, string(domain.TaskStatusCompleted), string(domain.TaskStatusPending), "2026-08-22").
			WillReturnRows(sqlmock.NewRows([]string{"total", "completed", "overdue"}).
				AddRow(7, 3, 2))

		mock.ExpectQuery(regexp.QuoteMeta("GROUP BY category")).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows([]string{"category", "count"}).
				AddRow("", 1).
				AddRow("finance", 4).
				AddRow("health", 2))

		stats, err := taskStore.CountStats(context.Background(), userID, "2026-08-22")
		require.NoError(t, err)
		assert.Equal(t, 7, stats.Total)
		assert.Equal(t, 3, stats.Completed)
		assert.Equal(t, 2, stats.Overdue)
		assert.Equal(t, map[string]int{
			"finance":                4,
			"health":                 2,
			store.UncategorizedLabel: 1,
		}, stats.ByCategory)
	})

	t.Run("overdue_count_guards_against_malformed_dates", func(t *testing.T) {
		t.Parallel()

		db, mock := newMockDB(t)
		taskStore := NewPostgresTaskStore(db, quietLogger())
		userID := uuid.New()

		// The totals query must only count rows whose due date text looks
		// like a calendar date; the regex guard is part of the contract.
		mock.ExpectQuery(regexp.QuoteMeta(`due_date ~ '^\d{4}-\d{2}-\d{2}$'`)).
			WillReturnRows(sqlmock.NewRows([]string{"total", "completed", "overdue"}).
				AddRow(0, 0, 0))
		mock.ExpectQuery(regexp.QuoteMeta("GROUP BY category")).
			WillReturnRows(sqlmock.NewRows([]string{"category", "count"}))

		stats, err := taskStore.CountStats(context.Background(), userID, "2026-08-22")
		require.NoError(t, err)
		assert.Empty(t, stats.ByCategory)
	})
}

func TestTaskStoreWithTx(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	taskStore := NewPostgresTaskStore(db, quietLogger())

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tasks")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
		return taskStore.WithTx(tx).Delete(ctx, uuid.New(), uuid.New())
	})
	assert.NoError(t, err)
}
