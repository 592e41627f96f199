package recurrence

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"text/template"

	"github.com/hearthapp/hearth-api/internal/assistant"
)

// promptTemplate is the fixed instruction sent to the language model for a
// repetition judgment. The model is told to answer with a bare yes or no;
// interpretation below tolerates decorated replies.
const promptTemplate = `You are an assistant that determines if a task repeats weekly.
If the task seems like a recurring household, work, or school task, reply 'Yes'.
Otherwise reply 'No'.

Task Title: {{.Title}}
Description: {{.Description}}

Answer with only 'Yes' or 'No'.`

var recurrencePrompt = template.Must(template.New("recurrence").Parse(promptTemplate))

// promptData represents the data passed to the prompt template
type promptData struct {
	Title       string
	Description string
}

// Oracle decides whether a task reads as a weekly-repeating obligation by
// consulting a language model. The judgment is advisory: any failure on the
// model side — timeout, transport error, blocked or blank reply — degrades
// to "not recurring" rather than surfacing an error, so an outage can never
// synthesize new recurring obligations or break a caller. Each judgment
// makes at most one model request.
type Oracle struct {
	asker  assistant.Asker
	logger *slog.Logger
}

// NewOracle creates an Oracle over the given model capability.
// If logger is nil, a default logger will be used.
func NewOracle(asker assistant.Asker, logger *slog.Logger) *Oracle {
	if asker == nil {
		panic("asker cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Oracle{
		asker:  asker,
		logger: logger.With(slog.String("component", "recurrence_oracle")),
	}
}

// IsRecurring reports whether the task described by title and description
// repeats weekly. Only the text fields participate; stored priority and due
// date are deliberately not consulted. A reply containing "yes" in any case
// counts as true; everything else, including failures, counts as false.
func (o *Oracle) IsRecurring(ctx context.Context, title, description string) bool {
	prompt, err := buildPrompt(title, description)
	if err != nil {
		o.logger.WarnContext(ctx, "failed to build recurrence prompt",
			slog.String("error", err.Error()))
		return false
	}

	reply, err := o.asker.Ask(ctx, prompt)
	if err != nil {
		o.logger.DebugContext(ctx, "recurrence check fell back to not recurring",
			slog.String("error", err.Error()),
			slog.Int("title_length", len(title)))
		return false
	}

	return strings.Contains(strings.ToLower(reply), "yes")
}

// buildPrompt renders the fixed instruction with the task's text fields.
func buildPrompt(title, description string) (string, error) {
	var buf bytes.Buffer
	err := recurrencePrompt.Execute(&buf, promptData{
		Title:       title,
		Description: description,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
