package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Priority is the coarse urgency level attached to a task. A task carries a
// stored priority chosen by its owner; the urgency engine computes a separate
// effective priority at read time and never writes it back.
type Priority string

// Possible priority values, ordered from least to most urgent.
const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
)

// DefaultReminderDays is the reminder window applied when a task is created
// without one: remind starting one day before the due date.
const DefaultReminderDays = 1

// Task-specific validation errors
var (
	ErrTaskIDEmpty          = errors.New("task ID cannot be empty")
	ErrTaskUserIDEmpty      = errors.New("task user ID cannot be empty")
	ErrTaskTitleEmpty       = errors.New("task title cannot be empty")
	ErrTaskPriorityInvalid  = errors.New("invalid task priority")
	ErrTaskStatusInvalid    = errors.New("invalid task status")
	ErrTaskReminderNegative = errors.New("task reminder days cannot be negative")
	ErrTaskDurationNegative = errors.New("task duration cannot be negative")
)

// Task represents a single household calendar entry. DueDate is kept as the
// raw text the user entered: an empty or malformed value is a normal state,
// not an error, and only the date resolver decides whether it names a real
// calendar day.
type Task struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Category      string     `json:"category"`
	DueDate       string     `json:"due_date"`
	DurationHours float64    `json:"duration_hours"`
	Priority      Priority   `json:"priority"`
	ReminderDays  int        `json:"reminder_days"`
	Status        TaskStatus `json:"status"`
	Tags          string     `json:"tags"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// NewTask creates a pending Task owned by the given user with the default
// stored priority and reminder window. Optional fields (description,
// category, due date, duration, tags) are set by the caller afterwards;
// re-validate with Validate once they are in place.
// Returns an error if validation fails.
func NewTask(userID uuid.UUID, title string) (*Task, error) {
	task := &Task{
		ID:           uuid.New(),
		UserID:       userID,
		Title:        title,
		Priority:     PriorityMedium,
		ReminderDays: DefaultReminderDays,
		Status:       TaskStatusPending,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
// The due date text is deliberately not validated here: tolerating malformed
// dates in stored records is part of the product behavior.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTaskIDEmpty
	}

	if t.UserID == uuid.Nil {
		return ErrTaskUserIDEmpty
	}

	if strings.TrimSpace(t.Title) == "" {
		return ErrTaskTitleEmpty
	}

	if !isValidPriority(t.Priority) {
		return ErrTaskPriorityInvalid
	}

	if !isValidTaskStatus(t.Status) {
		return ErrTaskStatusInvalid
	}

	if t.ReminderDays < 0 {
		return ErrTaskReminderNegative
	}

	if t.DurationHours < 0 {
		return ErrTaskDurationNegative
	}

	return nil
}

// Complete marks the task completed and updates the UpdatedAt timestamp.
// Completing an already-completed task is a no-op.
func (t *Task) Complete() {
	if t.Status == TaskStatusCompleted {
		return
	}
	t.Status = TaskStatusCompleted
	t.UpdatedAt = time.Now().UTC()
}

// Touch updates the UpdatedAt timestamp after a field mutation.
func (t *Task) Touch() {
	t.UpdatedAt = time.Now().UTC()
}

// ParsePriority maps free-form text ("high", "HIGH", " High ") onto a
// Priority value. Returns false when the text names no known level.
func ParsePriority(s string) (Priority, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return PriorityLow, true
	case "medium":
		return PriorityMedium, true
	case "high":
		return PriorityHigh, true
	default:
		return "", false
	}
}

// isValidPriority checks if the given value is a valid Priority.
func isValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// isValidTaskStatus checks if the given status is a valid TaskStatus.
func isValidTaskStatus(status TaskStatus) bool {
	switch status {
	case TaskStatusPending, TaskStatusCompleted:
		return true
	default:
		return false
	}
}
