package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthapp/hearth-api/internal/domain"
	"github.com/hearthapp/hearth-api/internal/domain/urgency"
	"github.com/hearthapp/hearth-api/internal/store"
)

// testNow pins the clock so classification asserts compute days-left from
// a known date.
var testNow = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

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

func ptr[T any](v T) *T {
	return &v
}

// stubTaskStore is an in-memory store.TaskStore. WithTx returns the stub
// itself; the transaction brackets are asserted against sqlmock.
type stubTaskStore struct {
	tasks   map[uuid.UUID]*domain.Task
	listed  []domain.Task
	gotOpts store.ListTasksOptions
	created []*domain.Task

	createErr error
	listErr   error
	updateErr error
}

func newStubTaskStore() *stubTaskStore {
	return &stubTaskStore{tasks: make(map[uuid.UUID]*domain.Task)}
}

func (s *stubTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if s.createErr != nil {
		return s.createErr
	}
	copied := *task
	s.tasks[task.ID] = &copied
	s.created = append(s.created, &copied)
	return nil
}

func (s *stubTaskStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Task, error) {
	task, ok := s.tasks[id]
	if !ok || task.UserID != userID {
		return nil, store.ErrTaskNotFound
	}
	copied := *task
	return &copied, nil
}

func (s *stubTaskStore) ListByUser(ctx context.Context, userID uuid.UUID, opts store.ListTasksOptions) ([]domain.Task, error) {
	s.gotOpts = opts
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.listed, nil
}

func (s *stubTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	if _, ok := s.tasks[task.ID]; !ok {
		return store.ErrTaskNotFound
	}
	copied := *task
	s.tasks[task.ID] = &copied
	return nil
}

func (s *stubTaskStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	task, ok := s.tasks[id]
	if !ok || task.UserID != userID {
		return store.ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *stubTaskStore) CountStats(ctx context.Context, userID uuid.UUID, today string) (*store.TaskStats, error) {
	return &store.TaskStats{}, nil
}

func (s *stubTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return s
}

func newTestTaskService(t *testing.T, taskStore *stubTaskStore) (*taskServiceImpl, sqlmock.Sqlmock) {
	t.Helper()

	db, mock := newMockDB(t)
	svc := NewTaskService(taskStore, db, urgency.NewDefaultService(), quietLogger()).(*taskServiceImpl)
	svc.timeFunc = func() time.Time { return testNow }
	return svc, mock
}

// seedTask places a pending task directly in the stub store.
func seedTask(t *testing.T, taskStore *stubTaskStore, userID uuid.UUID, title string) *domain.Task {
	t.Helper()

	task, err := domain.NewTask(userID, title)
	require.NoError(t, err)
	taskStore.tasks[task.ID] = task
	return task
}

// listedTask builds a task for the stub store's list results. Titles in
// these fixtures avoid the urgent keywords unless a test wants them.
func listedTask(t *testing.T, userID uuid.UUID, title, dueDate string) domain.Task {
	t.Helper()

	task, err := domain.NewTask(userID, title)
	require.NoError(t, err)
	task.DueDate = dueDate
	return *task
}

func TestTaskServiceCreate(t *testing.T) {
	userID := uuid.New()

	t.Run("applies_domain_defaults", func(t *testing.T) {
		taskStore := newStubTaskStore()
		svc, mock := newTestTaskService(t, taskStore)
		mock.ExpectBegin()
		mock.ExpectCommit()

		task, err := svc.CreateTask(context.Background(), userID, CreateTaskParams{Title: "Water plants"})

		require.NoError(t, err)
		assert.Equal(t, userID, task.UserID)
		assert.Equal(t, domain.PriorityMedium, task.Priority)
		assert.Equal(t, domain.DefaultReminderDays, task.ReminderDays)
		assert.Equal(t, domain.TaskStatusPending, task.Status)
		require.Len(t, taskStore.created, 1)
	})

	t.Run("honors_explicit_fields", func(t *testing.T) {
		taskStore := newStubTaskStore()
		svc, mock := newTestTaskService(t, taskStore)
		mock.ExpectBegin()
		mock.ExpectCommit()

		task, err := svc.CreateTask(context.Background(), userID, CreateTaskParams{
			Title:         "Fold laundry",
			Description:   "Upstairs basket",
			Category:      "chores",
			DueDate:       "2026-03-15",
			DurationHours: 0.5,
			Priority:      domain.PriorityHigh,
			ReminderDays:  ptr(3),
			Tags:          "weekly,home",
		})

		require.NoError(t, err)
		assert.Equal(t, domain.PriorityHigh, task.Priority)
		assert.Equal(t, 3, task.ReminderDays)
		assert.Equal(t, "2026-03-15", task.DueDate)
		assert.Equal(t, "weekly,home", task.Tags)
		require.Len(t, taskStore.created, 1)
		assert.Equal(t, "Fold laundry", taskStore.created[0].Title)
	})

	t.Run("rejects_empty_title", func(t *testing.T) {
		taskStore := newStubTaskStore()
		svc, _ := newTestTaskService(t, taskStore)

		_, err := svc.CreateTask(context.Background(), userID, CreateTaskParams{Title: "   "})

		assert.ErrorIs(t, err, domain.ErrTaskTitleEmpty)
		assert.Empty(t, taskStore.created)
	})

	t.Run("rejects_negative_reminder_days", func(t *testing.T) {
		taskStore := newStubTaskStore()
		svc, _ := newTestTaskService(t, taskStore)

		_, err := svc.CreateTask(context.Background(), userID, CreateTaskParams{
			Title:        "Water plants",
			ReminderDays: ptr(-1),
		})

		assert.ErrorIs(t, err, domain.ErrTaskReminderNegative)
		assert.Empty(t, taskStore.created)
	})

	t.Run("save_failure_rolls_back", func(t *testing.T) {
		taskStore := newStubTaskStore()
		taskStore.createErr = errors.New("insert failed")
		svc, mock := newTestTaskService(t, taskStore)
		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := svc.CreateTask(context.Background(), userID, CreateTaskParams{Title: "Water plants"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create task")
	})
}

func TestTaskServiceGet(t *testing.T) {
	userID := uuid.New()

	t.Run("found", func(t *testing.T) {
		taskStore := newStubTaskStore()
		svc, _ := newTestTaskService(t, taskStore)
		seeded := seedTask(t, taskStore, userID, "Water plants")

		task, err := svc.GetTask(context.Background(), userID, seeded.ID)

		require.NoError(t, err)
		assert.Equal(t, seeded.ID, task.ID)
		assert.Equal(t, "Water plants", task.Title)
	})

	t.Run("not_found", func(t *testing.T) {
		taskStore := newStubTaskStore()
		svc, _ := newTestTaskService(t, taskStore)

		_, err := svc.GetTask(context.Background(), userID, uuid.New())

		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})

	t.Run("scoped_to_owner", func(t *testing.T) {
		taskStore := newStubTaskStore()
		svc, _ := newTestTaskService(t, taskStore)
		seeded := seedTask(t, taskStore, userID, "Water plants")

		_, err := svc.GetTask(context.Background(), uuid.New(), seeded.ID)

		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func TestTaskServiceList(t *testing.T) {
	userID := uuid.New()

	t.Run("annotates_effective_priority", func(t *testing.T) {
		taskStore := newStubTaskStore()
		svc, _ := newTestTaskService(t, taskStore)
		taskStore.listed = []domain.Task{
			listedTask(t, userID, "Water plants", "2026-03-11"),
			listedTask(t, userID, "Fold laundry", "2026-03-16"),
			listedTask(t, userID, "Organize bookshelf", ""),
		}

		got, err := svc.ListTasks(context.Background(), userID, store.ListTasksOptions{})

		require.NoError(t, err)
		require.Len(t, got, 3)

		assert.Equal(t, domain.PriorityHigh, got[0].EffectivePriority)
		assert.Equal(t, "due in 1 days", got[0].UrgencyReason)
		// The stored priority is untouched by annotation.
		assert.Equal(t, domain.PriorityMedium, got[0].Priority)

		assert.Equal(t, domain.PriorityMedium, got[1].EffectivePriority)
		assert.Equal(t, "due in 6 days", got[1].UrgencyReason)

		assert.Equal(t, domain.PriorityLow, got[2].EffectivePriority)
		assert.Equal(t, "no strong signals", got[2].UrgencyReason)
	})

	t.Run("passes_filter_options_through", func(t *testing.T) {
		taskStore := newStubTaskStore()
		svc, _ := newTestTaskService(t, taskStore)

		_, err := svc.ListTasks(context.Background(), userID, store.ListTasksOptions{
			Status: domain.TaskStatusCompleted,
			SortBy: store.TaskSortByDueDate,
		})

		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusCompleted, taskStore.gotOpts.Status)
		assert.Equal(t, store.TaskSortByDueDate, taskStore.gotOpts.SortBy)
	})

	t.Run("store_failure_propagates", func(t *testing.T) {
		taskStore := newStubTaskStore()
		taskStore.listErr = errors.New("connection refused")
		svc, _ := newTestTaskService(t, taskStore)

		_, err := svc.ListTasks(context.Background(), userID, store.ListTasksOptions{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to list tasks")
	})
}

func TestTaskServiceListReminders(t *testing.T) {
	userID := uuid.New()

	taskStore := newStubTaskStore()
	svc, _ := newTestTaskService(t, taskStore)
	taskStore.listed = []domain.Task{
		listedTask(t, userID, "Water plants", "2026-03-11"),
		listedTask(t, userID, "Fold laundry", "2026-03-20"),
		listedTask(t, userID, "Pay rent", ""),
	}

	reminders, err := svc.ListReminders(context.Background(), userID)

	require.NoError(t, err)
	require.Len(t, reminders, 2)
	assert.Equal(t, "Water plants", reminders[0].Title)
	assert.Equal(t, "Pay rent", reminders[1].Title)
	assert.Equal(t, "contains urgent keyword: rent", reminders[1].UrgencyReason)

	// Reminders are pending tasks in due-date order.
	assert.Equal(t, domain.TaskStatusPending, taskStore.gotOpts.Status)
	assert.Equal(t, store.TaskSortByDueDate, taskStore.gotOpts.SortBy)
}

func TestTaskServiceUpdate(t *testing.T) {
	userID := uuid.New()

	t.Run("changes_only_named_fields", func(t *testing.T) {
		taskStore := newStubTaskStore()
		svc, mock := newTestTaskService(t, taskStore)
		seeded := seedTask(t, taskStore, userID, "Water plants")
		seeded.Category = "garden"
		mock.ExpectBegin()
		mock.ExpectCommit()

		updated, err := svc.UpdateTask(context.Background(), userID, seeded.ID, UpdateTaskParams{
			DueDate:  ptr("2026-04-01"),
			Priority: ptr(domain.PriorityHigh),
		})

		require.NoError(t, err)
		assert.Equal(t, "2026-04-01", updated.DueDate)
		assert.Equal(t, domain.PriorityHigh, updated.Priority)
		assert.Equal(t, "Water plants", updated.Title)
		assert.Equal(t, "garden", updated.Category)
		assert.Equal(t, "2026-04-01", taskStore.tasks[seeded.ID].DueDate)
	})

	t.Run("not_found", func(t *testing.T) {
		taskStore := newStubTaskStore()
		svc, mock := newTestTaskService(t, taskStore)
		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := svc.UpdateTask(context.Background(), userID, uuid.New(), UpdateTaskParams{
			Title: ptr("New title"),
		})

		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})

	t.Run("invalid_change_rejected", func(t *testing.T) {
		taskStore := newStubTaskStore()
		svc, mock := newTestTaskService(t, taskStore)
		seeded := seedTask(t, taskStore, userID, "Water plants")
		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := svc.UpdateTask(context.Background(), userID, seeded.ID, UpdateTaskParams{
			Title: ptr(""),
		})

		assert.ErrorIs(t, err, domain.ErrTaskTitleEmpty)
		assert.Equal(t, "Water plants", taskStore.tasks[seeded.ID].Title)
	})
}

func TestTaskServiceComplete(t *testing.T) {
	userID := uuid.New()

	t.Run("marks_completed", func(t *testing.T) {
		taskStore := newStubTaskStore()
		svc, mock := newTestTaskService(t, taskStore)
		seeded := seedTask(t, taskStore, userID, "Water plants")
		mock.ExpectBegin()
		mock.ExpectCommit()

		completed, err := svc.CompleteTask(context.Background(), userID, seeded.ID)

		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusCompleted, completed.Status)
		assert.Equal(t, domain.TaskStatusCompleted, taskStore.tasks[seeded.ID].Status)
	})

	t.Run("completing_twice_is_a_noop", func(t *testing.T) {
		taskStore := newStubTaskStore()
		svc, mock := newTestTaskService(t, taskStore)
		seeded := seedTask(t, taskStore, userID, "Water plants")
		seeded.Status = domain.TaskStatusCompleted
		mock.ExpectBegin()
		mock.ExpectCommit()

		completed, err := svc.CompleteTask(context.Background(), userID, seeded.ID)

		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusCompleted, completed.Status)
	})

	t.Run("not_found", func(t *testing.T) {
		taskStore := newStubTaskStore()
		svc, mock := newTestTaskService(t, taskStore)
		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := svc.CompleteTask(context.Background(), userID, uuid.New())

		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func TestTaskServiceDelete(t *testing.T) {
	userID := uuid.New()

	t.Run("removes_task", func(t *testing.T) {
		taskStore := newStubTaskStore()
		svc, mock := newTestTaskService(t, taskStore)
		seeded := seedTask(t, taskStore, userID, "Water plants")
		mock.ExpectBegin()
		mock.ExpectCommit()

		err := svc.DeleteTask(context.Background(), userID, seeded.ID)

		require.NoError(t, err)
		assert.Empty(t, taskStore.tasks)
	})

	t.Run("not_found", func(t *testing.T) {
		taskStore := newStubTaskStore()
		svc, mock := newTestTaskService(t, taskStore)
		mock.ExpectBegin()
		mock.ExpectRollback()

		err := svc.DeleteTask(context.Background(), userID, uuid.New())

		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}
