package urgency

// Params defines the tunable inputs of the urgency rules.
type Params struct {
	// HighWithinDays is the inclusive days-left ceiling for High urgency.
	// Anything due within this window, today, or already overdue is High.
	HighWithinDays int

	// MediumWithinDays is the inclusive days-left ceiling for Medium
	// urgency. Beyond it a due date on its own never raises urgency.
	MediumWithinDays int

	// UrgentKeywords are matched case-insensitively as substrings against a
	// task's title, description, and category, in this exact order. The
	// first keyword found anywhere forces High. Entries must be lowercase.
	UrgentKeywords []string
}

// NewDefaultParams creates a new Params instance with the product defaults:
// a two-day High window, a seven-day Medium window, and the stock list of
// words that mark a task urgent no matter when it is due.
func NewDefaultParams() *Params {
	return &Params{
		HighWithinDays:   2,
		MediumWithinDays: 7,
		UrgentKeywords: []string{
			"doctor",
			"appointment",
			"exam",
			"surgery",
			"meeting",
			"interview",
			"deadline",
			"project",
			"rent",
			"bill",
			"payment",
		},
	}
}
