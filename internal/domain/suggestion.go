package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// SuggestionStatus represents the review state of a recurrence draft.
type SuggestionStatus string

// Possible suggestion status values
const (
	SuggestionStatusProposed  SuggestionStatus = "proposed"
	SuggestionStatusAccepted  SuggestionStatus = "accepted"
	SuggestionStatusDismissed SuggestionStatus = "dismissed"
)

// Common validation errors for Suggestion
var (
	ErrSuggestionIDEmpty       = errors.New("suggestion ID cannot be empty")
	ErrSuggestionUserIDEmpty   = errors.New("suggestion user ID cannot be empty")
	ErrSuggestionSourceEmpty   = errors.New("suggestion source task ID cannot be empty")
	ErrSuggestionTitleEmpty    = errors.New("suggestion title cannot be empty")
	ErrSuggestionDueDateEmpty  = errors.New("suggestion due date cannot be empty")
	ErrSuggestionStatusInvalid = errors.New("invalid suggestion status")
)

// Suggestion is a draft task proposed for the next cycle of a recurring
// chore. It copies the source task's fields with the due date moved one
// cycle ahead, and waits in proposed state until the owner accepts or
// dismisses it. Unlike Task.DueDate, a suggestion's due date is always a
// resolved calendar day: drafts are only ever produced from tasks whose
// dates resolved.
type Suggestion struct {
	ID           uuid.UUID        `json:"id"`
	UserID       uuid.UUID        `json:"user_id"`
	SourceTaskID uuid.UUID        `json:"source_task_id"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Category     string           `json:"category"`
	DueDate      string           `json:"due_date"`
	Priority     Priority         `json:"priority"`
	ReminderDays int              `json:"reminder_days"`
	Status       SuggestionStatus `json:"status"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// NewSuggestion creates a proposed Suggestion copied from the given source
// task with the supplied next-cycle due date.
// Returns an error if validation fails.
func NewSuggestion(source Task, dueDate string) (*Suggestion, error) {
	s := &Suggestion{
		ID:           uuid.New(),
		UserID:       source.UserID,
		SourceTaskID: source.ID,
		Title:        source.Title,
		Description:  source.Description,
		Category:     source.Category,
		DueDate:      dueDate,
		Priority:     source.Priority,
		ReminderDays: source.ReminderDays,
		Status:       SuggestionStatusProposed,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// Validate checks if the Suggestion has valid data.
// Returns an error if any field fails validation.
func (s *Suggestion) Validate() error {
	if s.ID == uuid.Nil {
		return ErrSuggestionIDEmpty
	}

	if s.UserID == uuid.Nil {
		return ErrSuggestionUserIDEmpty
	}

	if s.SourceTaskID == uuid.Nil {
		return ErrSuggestionSourceEmpty
	}

	if s.Title == "" {
		return ErrSuggestionTitleEmpty
	}

	if s.DueDate == "" {
		return ErrSuggestionDueDateEmpty
	}

	if !isValidPriority(s.Priority) {
		return ErrTaskPriorityInvalid
	}

	if !isValidSuggestionStatus(s.Status) {
		return ErrSuggestionStatusInvalid
	}

	return nil
}

// UpdateStatus moves the suggestion to a new review state and updates the
// UpdatedAt timestamp. Returns an error if the new status is invalid.
func (s *Suggestion) UpdateStatus(status SuggestionStatus) error {
	if !isValidSuggestionStatus(status) {
		return ErrSuggestionStatusInvalid
	}

	s.Status = status
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// isValidSuggestionStatus checks if the given status is a valid SuggestionStatus.
func isValidSuggestionStatus(status SuggestionStatus) bool {
	switch status {
	case SuggestionStatusProposed, SuggestionStatusAccepted, SuggestionStatusDismissed:
		return true
	default:
		return false
	}
}
