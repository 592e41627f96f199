package insight

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"
	"github.com/hearthapp/hearth-api/internal/domain/dates"
	"github.com/hearthapp/hearth-api/internal/store"
)

const summaryPromptTemplate = `You are a warm productivity coach summarizing this user's family tasks.

Stats:
Total: {{.Total}}, Completed: {{.Completed}}, Overdue: {{.Overdue}}.
Categories: {{.Categories}}

Write a friendly, encouraging 3-5 sentence summary that:
- Mentions progress and overdue items
- Highlights strong categories
- Ends with motivation.`

var summaryPrompt = template.Must(template.New("summary").Parse(summaryPromptTemplate))

// summaryPromptData holds the fields interpolated into the summary prompt.
type summaryPromptData struct {
	Total      int
	Completed  int
	Overdue    int
	Categories string
}

// Summary is the narrated view of one user's task stats.
type Summary struct {
	Text   string           `json:"summary"`
	Stats  *store.TaskStats `json:"stats"`
	Source string           `json:"source"`
}

// Stats aggregates the user's task counts as of now's calendar date.
func (s *service) Stats(ctx context.Context, userID uuid.UUID, now time.Time) (*store.TaskStats, error) {
	today := dates.Format(dates.Today(now))

	stats, err := s.tasks.CountStats(ctx, userID, today)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to count task stats",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to count task stats: %w", err)
	}

	return stats, nil
}

// Summarize builds the user's stats and asks the assistant to narrate them.
// When the assistant is unavailable the text degrades to a plain sentence
// built from the same stats, so the summary itself never fails; only the
// stats lookup can return an error.
func (s *service) Summarize(ctx context.Context, userID uuid.UUID, now time.Time) (*Summary, error) {
	stats, err := s.Stats(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	prompt, err := buildSummaryPrompt(stats)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to build summary prompt",
			"error", err,
			"user_id", userID)
		return &Summary{Text: fallbackSummaryText(stats), Stats: stats, Source: SourceRules}, nil
	}

	reply, err := s.asker.Ask(ctx, prompt)
	if err != nil {
		s.logger.DebugContext(ctx, "summary fell back to local text",
			"error", err,
			"user_id", userID)
		return &Summary{Text: fallbackSummaryText(stats), Stats: stats, Source: SourceRules}, nil
	}

	return &Summary{Text: strings.TrimSpace(reply), Stats: stats, Source: SourceAssistant}, nil
}

func buildSummaryPrompt(stats *store.TaskStats) (string, error) {
	var sb strings.Builder
	err := summaryPrompt.Execute(&sb, summaryPromptData{
		Total:      stats.Total,
		Completed:  stats.Completed,
		Overdue:    stats.Overdue,
		Categories: formatCategories(stats.ByCategory),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render summary prompt: %w", err)
	}
	return sb.String(), nil
}

// formatCategories renders the per-category counts in a stable order for
// the prompt, e.g. "errands: 2, finance: 4".
func formatCategories(byCategory map[string]int) string {
	if len(byCategory) == 0 {
		return "none"
	}

	names := make([]string, 0, len(byCategory))
	for name := range byCategory {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %d", name, byCategory[name]))
	}
	return strings.Join(parts, ", ")
}

// fallbackSummaryText is the deterministic stand-in used when the
// assistant cannot narrate the stats.
func fallbackSummaryText(stats *store.TaskStats) string {
	return fmt.Sprintf(
		"You have completed %d of %d tasks with %d overdue, so keep the momentum going.",
		stats.Completed, stats.Total, stats.Overdue,
	)
}
