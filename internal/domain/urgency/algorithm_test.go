package urgency

import (
	"reflect"
	"testing"
	"time"

	"github.com/hearthapp/hearth-api/internal/domain"
	"github.com/hearthapp/hearth-api/internal/domain/dates"
)

// All cases run against the same frozen day so due-date fixtures stay
// readable: "today" is 2026-08-22.
var testToday = dates.Today(time.Date(2026, 8, 22, 15, 4, 5, 0, time.UTC))

func TestClassifyDueDateBuckets(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		dueDate     string
		wantLevel   domain.Priority
		wantReasons []string
	}{
		{"due today", "2026-08-22", domain.PriorityHigh, []string{"due in 0 days"}},
		{"due tomorrow", "2026-08-23", domain.PriorityHigh, []string{"due in 1 days"}},
		{"due at high ceiling", "2026-08-24", domain.PriorityHigh, []string{"due in 2 days"}},
		{"due just past high ceiling", "2026-08-25", domain.PriorityMedium, []string{"due in 3 days"}},
		{"due at medium ceiling", "2026-08-29", domain.PriorityMedium, []string{"due in 7 days"}},
		{"due past medium ceiling", "2026-08-30", domain.PriorityLow, []string{"due in 8 days"}},
		{"due far out", "2026-10-01", domain.PriorityLow, []string{"due in 40 days"}},
		{"overdue", "2026-08-19", domain.PriorityHigh, []string{"overdue by 3 days"}},
		{"overdue yesterday", "2026-08-21", domain.PriorityHigh, []string{"overdue by 1 days"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			input := Input{
				Title:   "Water the garden",
				DueDate: tc.dueDate,
				// Keep the reminder window out of the picture for the
				// bucket cases.
				ReminderDays: 0,
			}
			got := classify(input, testToday, NewDefaultParams())

			if got.Priority != tc.wantLevel {
				t.Errorf("priority = %s, want %s", got.Priority, tc.wantLevel)
			}
			if !reflect.DeepEqual(got.Reasons, tc.wantReasons) {
				t.Errorf("reasons = %v, want %v", got.Reasons, tc.wantReasons)
			}
		})
	}
}

func TestClassifyReminderEscalation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name         string
		dueDate      string
		reminderDays int
		wantLevel    domain.Priority
		wantReasons  []string
	}{
		{
			// Window opens exactly today: due in 5, remind 5 days ahead.
			name:         "window opens today",
			dueDate:      "2026-08-27",
			reminderDays: 5,
			wantLevel:    domain.PriorityHigh,
			wantReasons:  []string{"due in 5 days", "reminder triggered (reminder_days=5)"},
		},
		{
			// Window opened two days ago.
			name:         "inside window",
			dueDate:      "2026-08-25",
			reminderDays: 5,
			wantLevel:    domain.PriorityHigh,
			wantReasons:  []string{"due in 3 days", "reminder triggered (reminder_days=5)"},
		},
		{
			// Window opens tomorrow: no escalation yet.
			name:         "window not yet open",
			dueDate:      "2026-08-28",
			reminderDays: 5,
			wantLevel:    domain.PriorityMedium,
			wantReasons:  []string{"due in 6 days"},
		},
		{
			// Already High from the date bucket: the reminder adds nothing.
			name:         "already high",
			dueDate:      "2026-08-23",
			reminderDays: 5,
			wantLevel:    domain.PriorityHigh,
			wantReasons:  []string{"due in 1 days"},
		},
		{
			// Zero-day window only opens on the due date itself, where the
			// bucket is already High anyway.
			name:         "zero window before due",
			dueDate:      "2026-08-29",
			reminderDays: 0,
			wantLevel:    domain.PriorityMedium,
			wantReasons:  []string{"due in 7 days"},
		},
		{
			// A negative window would only open after the due date, by
			// which point the overdue bucket has long since taken over.
			name:         "negative window never fires",
			dueDate:      "2026-08-27",
			reminderDays: -1,
			wantLevel:    domain.PriorityMedium,
			wantReasons:  []string{"due in 5 days"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			input := Input{
				Title:        "Water the garden",
				DueDate:      tc.dueDate,
				ReminderDays: tc.reminderDays,
			}
			got := classify(input, testToday, NewDefaultParams())

			if got.Priority != tc.wantLevel {
				t.Errorf("priority = %s, want %s", got.Priority, tc.wantLevel)
			}
			if !reflect.DeepEqual(got.Reasons, tc.wantReasons) {
				t.Errorf("reasons = %v, want %v", got.Reasons, tc.wantReasons)
			}
		})
	}
}

func TestClassifyUnresolvableDueDate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		input       Input
		wantLevel   domain.Priority
		wantReasons []string
	}{
		{
			name:        "malformed date alone stays low",
			input:       Input{Title: "Water the garden", DueDate: "next friday"},
			wantLevel:   domain.PriorityLow,
			wantReasons: []string{"invalid due date format"},
		},
		{
			name:        "whitespace counts as malformed",
			input:       Input{Title: "Water the garden", DueDate: "   "},
			wantLevel:   domain.PriorityLow,
			wantReasons: []string{"invalid due date format"},
		},
		{
			name:        "malformed date plus keyword",
			input:       Input{Title: "Pay water bill", DueDate: "2026/08/30"},
			wantLevel:   domain.PriorityHigh,
			wantReasons: []string{"invalid due date format", "contains urgent keyword: bill"},
		},
		{
			// Reminder windows need a resolved date; malformed text never
			// triggers one no matter how large the window.
			name:        "malformed date no reminder",
			input:       Input{Title: "Water the garden", DueDate: "soonish", ReminderDays: 365},
			wantLevel:   domain.PriorityLow,
			wantReasons: []string{"invalid due date format"},
		},
		{
			name:        "no signals at all",
			input:       Input{Title: "Water the garden"},
			wantLevel:   domain.PriorityLow,
			wantReasons: []string{"no strong signals"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := classify(tc.input, testToday, NewDefaultParams())

			if got.Priority != tc.wantLevel {
				t.Errorf("priority = %s, want %s", got.Priority, tc.wantLevel)
			}
			if !reflect.DeepEqual(got.Reasons, tc.wantReasons) {
				t.Errorf("reasons = %v, want %v", got.Reasons, tc.wantReasons)
			}
		})
	}
}

func TestClassifyUrgentKeywords(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		input       Input
		wantLevel   domain.Priority
		wantReasons []string
	}{
		{
			name:        "keyword in title",
			input:       Input{Title: "Book doctor visit"},
			wantLevel:   domain.PriorityHigh,
			wantReasons: []string{"contains urgent keyword: doctor"},
		},
		{
			name:        "keyword in description",
			input:       Input{Title: "Call the bank", Description: "ask about the mortgage payment"},
			wantLevel:   domain.PriorityHigh,
			wantReasons: []string{"contains urgent keyword: payment"},
		},
		{
			name:        "keyword in category",
			input:       Input{Title: "Monthly transfer", Category: "Bills"},
			wantLevel:   domain.PriorityHigh,
			wantReasons: []string{"contains urgent keyword: bill"},
		},
		{
			name:        "keyword matching is case-insensitive",
			input:       Input{Title: "RENT is overdue!!"},
			wantLevel:   domain.PriorityHigh,
			wantReasons: []string{"contains urgent keyword: rent"},
		},
		{
			name:        "substring match",
			input:       Input{Title: "Reschedule appointments"},
			wantLevel:   domain.PriorityHigh,
			wantReasons: []string{"contains urgent keyword: appointment"},
		},
		{
			// "doctor" precedes "bill" in the keyword list, so it wins even
			// though "bill" sits in the title and "doctor" only in the
			// description.
			name:        "first keyword in list order wins",
			input:       Input{Title: "Sort the bill folder", Description: "doctor said to call back"},
			wantLevel:   domain.PriorityHigh,
			wantReasons: []string{"contains urgent keyword: doctor"},
		},
		{
			name:        "only the first match is reported",
			input:       Input{Title: "deadline for the project bill payment"},
			wantLevel:   domain.PriorityHigh,
			wantReasons: []string{"contains urgent keyword: deadline"},
		},
		{
			name:        "keyword stacks on a date reason",
			input:       Input{Title: "Pay rent", DueDate: "2026-08-22"},
			wantLevel:   domain.PriorityHigh,
			wantReasons: []string{"due in 0 days", "contains urgent keyword: rent"},
		},
		{
			name:        "keyword overrides a calm due date",
			input:       Input{Title: "Renew gym payment", DueDate: "2026-10-01"},
			wantLevel:   domain.PriorityHigh,
			wantReasons: []string{"due in 40 days", "contains urgent keyword: payment"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := classify(tc.input, testToday, NewDefaultParams())

			if got.Priority != tc.wantLevel {
				t.Errorf("priority = %s, want %s", got.Priority, tc.wantLevel)
			}
			if !reflect.DeepEqual(got.Reasons, tc.wantReasons) {
				t.Errorf("reasons = %v, want %v", got.Reasons, tc.wantReasons)
			}
		})
	}
}

// Urgency must never drop as a due date approaches.
func TestClassifyMonotonicAsDueDateNears(t *testing.T) {
	t.Parallel()
	rank := map[domain.Priority]int{
		domain.PriorityLow:    0,
		domain.PriorityMedium: 1,
		domain.PriorityHigh:   2,
	}

	due, _ := dates.Resolve("2026-09-21")
	prev := -1
	// Walk day by day from 30 days out to 5 days past due.
	for offset := 30; offset >= -5; offset-- {
		today := dates.AddDays(due, -offset)
		got := classify(Input{Title: "Water the garden", DueDate: "2026-09-21"}, today, NewDefaultParams())
		if rank[got.Priority] < prev {
			t.Fatalf("priority dropped to %s with %d days left", got.Priority, offset)
		}
		prev = rank[got.Priority]
	}
}
