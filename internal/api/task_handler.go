package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hearthapp/hearth-api/internal/api/shared"
	"github.com/hearthapp/hearth-api/internal/domain"
	"github.com/hearthapp/hearth-api/internal/platform/logger"
	"github.com/hearthapp/hearth-api/internal/service"
	"github.com/hearthapp/hearth-api/internal/store"
)

// CreateTaskRequest represents the request body for creating a new task
type CreateTaskRequest struct {
	Title         string  `json:"title"          validate:"required,min=1,max=500"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	DueDate       string  `json:"due_date"`
	DurationHours float64 `json:"duration_hours" validate:"gte=0"`
	Priority      string  `json:"priority"       validate:"omitempty,oneof=Low Medium High"`
	ReminderDays  *int    `json:"reminder_days"  validate:"omitempty,gte=0"`
	Tags          string  `json:"tags"`
}

// UpdateTaskRequest represents the request body for updating a task.
// Absent fields are left unchanged.
type UpdateTaskRequest struct {
	Title         *string  `json:"title"          validate:"omitempty,min=1,max=500"`
	Description   *string  `json:"description"`
	Category      *string  `json:"category"`
	DueDate       *string  `json:"due_date"`
	DurationHours *float64 `json:"duration_hours" validate:"omitempty,gte=0"`
	Priority      *string  `json:"priority"       validate:"omitempty,oneof=Low Medium High"`
	ReminderDays  *int     `json:"reminder_days"  validate:"omitempty,gte=0"`
	Tags          *string  `json:"tags"`
}

// TaskResponse represents the response data for a task
type TaskResponse struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Category      string    `json:"category,omitempty"`
	DueDate       string    `json:"due_date,omitempty"`
	DurationHours float64   `json:"duration_hours,omitempty"`
	Priority      string    `json:"priority"`
	ReminderDays  int       `json:"reminder_days"`
	Status        string    `json:"status"`
	Tags          string    `json:"tags,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AnnotatedTaskResponse is a TaskResponse plus the effective priority the
// urgency rules computed for it at read time.
type AnnotatedTaskResponse struct {
	TaskResponse

	EffectivePriority string `json:"effective_priority"`
	UrgencyReason     string `json:"urgency_reason"`
}

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

// CreateTask handles POST /api/tasks requests
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), userID, service.CreateTaskParams{
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		DueDate:       req.DueDate,
		DurationHours: req.DurationHours,
		Priority:      domain.Priority(req.Priority),
		ReminderDays:  req.ReminderDays,
		Tags:          req.Tags,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create task")
		return
	}

	log.Debug("task created",
		slog.String("user_id", userID.String()),
		slog.String("task_id", task.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// ListTasks handles GET /api/tasks requests. Optional query parameters
// `status` and `sort_by` narrow and order the listing.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	opts, err := parseListTasksOptions(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	tasks, err := h.taskService.ListTasks(r.Context(), userID, opts)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, annotatedTasksToResponse(tasks))
}

// ListReminders handles GET /api/tasks/reminders requests. It returns the
// pending tasks whose effective priority is High right now.
func (h *TaskHandler) ListReminders(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	reminders, err := h.taskService.ListReminders(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list reminders")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, annotatedTasksToResponse(reminders))
}

// GetTask handles GET /api/tasks/{id} requests
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// UpdateTask handles PUT /api/tasks/{id} requests
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	params := service.UpdateTaskParams{
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		DueDate:       req.DueDate,
		DurationHours: req.DurationHours,
		ReminderDays:  req.ReminderDays,
		Tags:          req.Tags,
	}
	if req.Priority != nil {
		priority := domain.Priority(*req.Priority)
		params.Priority = &priority
	}

	task, err := h.taskService.UpdateTask(r.Context(), userID, taskID, params)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task")
		return
	}

	log.Debug("task updated",
		slog.String("user_id", userID.String()),
		slog.String("task_id", taskID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// CompleteTask handles POST /api/tasks/{id}/complete requests
func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	task, err := h.taskService.CompleteTask(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to complete task")
		return
	}

	log.Debug("task completed",
		slog.String("user_id", userID.String()),
		slog.String("task_id", taskID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// DeleteTask handles DELETE /api/tasks/{id} requests
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), userID, taskID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete task")
		return
	}

	log.Debug("task deleted",
		slog.String("user_id", userID.String()),
		slog.String("task_id", taskID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// parseListTasksOptions reads the status and sort_by query parameters.
func parseListTasksOptions(r *http.Request) (store.ListTasksOptions, error) {
	opts := store.ListTasksOptions{}

	switch status := r.URL.Query().Get("status"); status {
	case "":
	case string(domain.TaskStatusPending):
		opts.Status = domain.TaskStatusPending
	case string(domain.TaskStatusCompleted):
		opts.Status = domain.TaskStatusCompleted
	default:
		return opts, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}

	switch sortBy := r.URL.Query().Get("sort_by"); sortBy {
	case "":
	case string(store.TaskSortByCreatedAt):
		opts.SortBy = store.TaskSortByCreatedAt
	case string(store.TaskSortByDueDate):
		opts.SortBy = store.TaskSortByDueDate
	default:
		return opts, fmt.Errorf("%w: unknown sort_by %q", domain.ErrValidation, sortBy)
	}

	return opts, nil
}

// taskToResponse converts a domain.Task to a TaskResponse
func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:            task.ID.String(),
		UserID:        task.UserID.String(),
		Title:         task.Title,
		Description:   task.Description,
		Category:      task.Category,
		DueDate:       task.DueDate,
		DurationHours: task.DurationHours,
		Priority:      string(task.Priority),
		ReminderDays:  task.ReminderDays,
		Status:        string(task.Status),
		Tags:          task.Tags,
		CreatedAt:     task.CreatedAt,
		UpdatedAt:     task.UpdatedAt,
	}
}

// annotatedTasksToResponse converts annotated tasks to their response form.
// The result is never nil, so an empty listing serializes as [].
func annotatedTasksToResponse(tasks []service.AnnotatedTask) []AnnotatedTaskResponse {
	out := make([]AnnotatedTaskResponse, 0, len(tasks))
	for _, t := range tasks {
		task := t.Task
		out = append(out, AnnotatedTaskResponse{
			TaskResponse:      taskToResponse(&task),
			EffectivePriority: string(t.EffectivePriority),
			UrgencyReason:     t.UrgencyReason,
		})
	}
	return out
}
