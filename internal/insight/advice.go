package insight

import (
	"context"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/hearthapp/hearth-api/internal/domain"
	"github.com/hearthapp/hearth-api/internal/domain/dates"
	"github.com/hearthapp/hearth-api/internal/domain/urgency"
)

// advicePromptTemplate restates the house priority rules for the model and
// pins the reply shape that ParseAdvice understands.
const advicePromptTemplate = `You are an assistant that assigns task priorities: High, Medium, or Low.

Today's date: {{.Today}}
Task Title: {{.Title}}
Description: {{.Description}}
Due Date: {{.DueDate}}

Rules:
- If due date is within 2 days → High priority.
- If due date is within 7 days → Medium priority.
- If keywords like doctor, exam, rent, bill, surgery, project, meeting, deadline appear → High priority.
- Otherwise → Low priority.

Respond concisely with:
Priority: <High/Medium/Low>
Reason: <short explanation>`

var advicePrompt = template.Must(template.New("advice").Parse(advicePromptTemplate))

// advicePromptData holds the fields interpolated into the advice prompt.
type advicePromptData struct {
	Today       string
	Title       string
	Description string
	DueDate     string
}

// Advice is a priority recommendation for one task. Response carries the
// full reply text ("Priority: ...\nReason: ..."), Priority the level parsed
// out of it, and Source whether the assistant or the local rules wrote it.
type Advice struct {
	Priority domain.Priority `json:"priority"`
	Response string          `json:"response"`
	Source   string          `json:"source"`
}

// ParseAdvice extracts the priority level from a reply whose first line has
// the form "Priority: <level>". The level must read exactly High, Medium,
// or Low; anything else, including a missing line, falls back to Medium so
// a free-form reply still yields a usable level.
func ParseAdvice(reply string) domain.Priority {
	line, _, _ := strings.Cut(reply, "\n")
	line = strings.TrimSpace(strings.ReplaceAll(line, "Priority:", ""))

	switch line {
	case "High":
		return domain.PriorityHigh
	case "Medium":
		return domain.PriorityMedium
	case "Low":
		return domain.PriorityLow
	default:
		return domain.PriorityMedium
	}
}

// SuggestPriority asks the assistant to rate the task described by input.
// Any failure along the way drops to rules-derived advice, so the returned
// Advice is always populated.
func (s *service) SuggestPriority(ctx context.Context, input urgency.Input, now time.Time) Advice {
	prompt, err := buildAdvicePrompt(input, now)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to build advice prompt",
			"error", err)
		return s.fallbackAdvice(input, now)
	}

	reply, err := s.asker.Ask(ctx, prompt)
	if err != nil {
		s.logger.DebugContext(ctx, "priority advice fell back to local rules",
			"error", err,
			"title_length", len(input.Title))
		return s.fallbackAdvice(input, now)
	}

	reply = strings.TrimSpace(reply)
	return Advice{
		Priority: ParseAdvice(reply),
		Response: reply,
		Source:   SourceAssistant,
	}
}

// fallbackAdvice runs the deterministic urgency rules and renders their
// result in the same reply shape the assistant would have used.
func (s *service) fallbackAdvice(input urgency.Input, now time.Time) Advice {
	result := s.classifier.Classify(input, now)
	return Advice{
		Priority: result.Priority,
		Response: fmt.Sprintf("Priority: %s\nReason: %s (local fallback)", result.Priority, result.Reason()),
		Source:   SourceRules,
	}
}

func buildAdvicePrompt(input urgency.Input, now time.Time) (string, error) {
	var sb strings.Builder
	err := advicePrompt.Execute(&sb, advicePromptData{
		Today:       dates.Format(dates.Today(now)),
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render advice prompt: %w", err)
	}
	return sb.String(), nil
}
