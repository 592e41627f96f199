// Package urgency computes how urgent a task actually is, as opposed to the
// priority its owner typed in. The result is an effective priority with a
// human-readable reason trail; nothing here is ever written back to the
// task. Classification is pure rule evaluation: no I/O, no clock reads, no
// model calls.
package urgency

import (
	"strings"
	"time"

	"github.com/hearthapp/hearth-api/internal/domain"
	"github.com/hearthapp/hearth-api/internal/domain/dates"
)

// Input carries the task fields the urgency rules read. Fields map
// one-to-one onto domain.Task; the indirection keeps the rules usable for
// ad-hoc classification of fields that never became a stored task.
type Input struct {
	Title        string
	Description  string
	Category     string
	DueDate      string
	ReminderDays int
}

// InputFromTask extracts the classified fields from a stored task.
func InputFromTask(t domain.Task) Input {
	return Input{
		Title:        t.Title,
		Description:  t.Description,
		Category:     t.Category,
		DueDate:      t.DueDate,
		ReminderDays: t.ReminderDays,
	}
}

// Result is an effective priority and the ordered reasons behind it.
// Every result carries at least one reason.
type Result struct {
	Priority domain.Priority
	Reasons  []string
}

// Reason joins the reason trail into the single display string shown next
// to the priority.
func (r Result) Reason() string {
	return strings.Join(r.Reasons, ", ")
}

// Service defines the interface for urgency classification.
type Service interface {
	// Classify evaluates the urgency rules for one task's fields at the
	// given instant. Only the instant's calendar date matters.
	Classify(input Input, now time.Time) Result
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates an urgency service with default parameters.
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates an urgency service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// Classify implements the Service interface.
func (s *defaultService) Classify(input Input, now time.Time) Result {
	return classify(input, dates.Today(now), s.params)
}
