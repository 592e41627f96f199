package urgency

import (
	"fmt"
	"strings"
	"time"

	"github.com/hearthapp/hearth-api/internal/domain"
	"github.com/hearthapp/hearth-api/internal/domain/dates"
)

// Fixed reason fragments. The date- and keyword-derived reasons are built
// with fmt.Sprintf because they carry a value.
const (
	reasonInvalidDueDate = "invalid due date format"
	reasonNoSignals      = "no strong signals"
)

// classify runs the urgency rules over one task's fields and produces the
// effective priority with its reason trail.
//
// The rules fire in a fixed order so the reason trail reads the same way
// every time:
//
//  1. A resolvable due date buckets the task by days left: within
//     params.HighWithinDays (including today and overdue) is High, within
//     params.MediumWithinDays is Medium, further out leaves it Low. The
//     bucket always contributes a "due in N days" / "overdue by N days"
//     reason, even when it does not change the priority.
//  2. Still on a resolvable date, the reminder window opens ReminderDays
//     before the due date. Once today reaches it, a task that is not
//     already High is forced High with a "reminder triggered" reason.
//  3. Due-date text that is present but does not resolve contributes an
//     "invalid due date format" reason and nothing else: no bucket, no
//     reminder.
//  4. The urgent-keyword scan runs last and unconditionally. The first
//     keyword found (params order, title before description before
//     category) forces High; it never lowers an already-High result.
//  5. A task that produced no reasons at all is Low with the single
//     "no strong signals" reason, so every result explains itself.
//
// today must already be a calendar date (see dates.Today); classify never
// reads the clock.
func classify(input Input, today time.Time, params *Params) Result {
	priority := domain.PriorityLow
	var reasons []string

	due, ok := dates.Resolve(input.DueDate)
	switch {
	case ok:
		daysLeft := dates.DaysUntil(today, due)
		switch {
		case daysLeft <= params.HighWithinDays:
			priority = domain.PriorityHigh
		case daysLeft <= params.MediumWithinDays:
			priority = domain.PriorityMedium
		}
		reasons = append(reasons, dueReason(daysLeft))

		reminderStart := dates.AddDays(due, -input.ReminderDays)
		if !today.Before(reminderStart) && priority != domain.PriorityHigh {
			priority = domain.PriorityHigh
			reasons = append(reasons, reminderReason(input.ReminderDays))
		}
	case input.DueDate != "":
		reasons = append(reasons, reasonInvalidDueDate)
	}

	if kw, found := firstUrgentKeyword(input, params.UrgentKeywords); found {
		priority = domain.PriorityHigh
		reasons = append(reasons, keywordReason(kw))
	}

	if len(reasons) == 0 {
		reasons = append(reasons, reasonNoSignals)
	}

	return Result{Priority: priority, Reasons: reasons}
}

// firstUrgentKeyword scans the task's text fields for the configured
// keywords and returns the first one found. Keywords are tried in list
// order; for each keyword the title is checked before the description
// before the category, and the scan stops at the first hit anywhere.
func firstUrgentKeyword(input Input, keywords []string) (string, bool) {
	title := strings.ToLower(input.Title)
	description := strings.ToLower(input.Description)
	category := strings.ToLower(input.Category)

	for _, kw := range keywords {
		if strings.Contains(title, kw) ||
			strings.Contains(description, kw) ||
			strings.Contains(category, kw) {
			return kw, true
		}
	}
	return "", false
}

// dueReason renders the days-left figure, stating overdue distances as a
// positive count.
func dueReason(daysLeft int) string {
	if daysLeft < 0 {
		return fmt.Sprintf("overdue by %d days", -daysLeft)
	}
	return fmt.Sprintf("due in %d days", daysLeft)
}

func reminderReason(reminderDays int) string {
	return fmt.Sprintf("reminder triggered (reminder_days=%d)", reminderDays)
}

func keywordReason(keyword string) string {
	return fmt.Sprintf("contains urgent keyword: %s", keyword)
}
