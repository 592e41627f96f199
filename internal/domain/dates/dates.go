// Package dates interprets the free-text due dates users type against real
// calendar days. Resolution is deliberately strict: only the exact
// YYYY-MM-DD form names a date, and anything else — empty text, "tomorrow",
// slashed or padded variants — is simply unresolved, a normal state rather
// than an error. All arithmetic here works on whole calendar days; clock
// time and DST offsets never influence the results.
package dates

import (
	"time"
)

// Layout is the only accepted due-date form.
const Layout = time.DateOnly

// Resolve parses due-date text. It reports ok=false for empty, malformed,
// or differently formatted text; callers decide what an unresolved date
// means for them.
func Resolve(text string) (time.Time, bool) {
	if text == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(Layout, text)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Format renders a resolved date back into the canonical YYYY-MM-DD form.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Today reduces an instant to its calendar date in the instant's own
// location. 23:59 local time is still "today".
func Today(now time.Time) time.Time {
	return midnightUTC(now)
}

// DaysUntil returns the whole calendar days from now's date to the due
// date: 0 when due today, negative when overdue. Time of day on either
// side is ignored.
func DaysUntil(now, due time.Time) int {
	diff := midnightUTC(due).Sub(midnightUTC(now))
	return int(diff / (24 * time.Hour))
}

// AddDays moves a date forward (or back, for negative n) by whole days.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// midnightUTC pins a timestamp's calendar date at UTC midnight, so that
// subtracting two pinned values is always an exact multiple of 24 hours
// regardless of the zones or DST transitions the originals carried.
func midnightUTC(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
