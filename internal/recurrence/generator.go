package recurrence

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hearthapp/hearth-api/internal/domain"
	"github.com/hearthapp/hearth-api/internal/domain/dates"
)

// daysPerCycle is the fixed weekly repetition period: a draft is always due
// exactly one week after its source task.
const daysPerCycle = 7

// defaultMaxConcurrent bounds oracle fan-out when the generator is built
// with a non-positive limit.
const defaultMaxConcurrent = 4

// Predictor is the repetition judgment the generator consumes. Satisfied by
// *Oracle; tests substitute canned predictors.
type Predictor interface {
	IsRecurring(ctx context.Context, title, description string) bool
}

// Generator scans tasks and drafts next-cycle instances of the ones that
// read as weekly-repeating. Oracle calls for different tasks are independent,
// so they fan out across a bounded set of workers; results are recombined in
// input order regardless of which judgment returns first.
type Generator struct {
	oracle        Predictor
	maxConcurrent int
	logger        *slog.Logger
}

// NewGenerator creates a Generator over the given predictor. maxConcurrent
// caps how many oracle calls run at once; values below one fall back to a
// small default. If logger is nil, a default logger will be used.
func NewGenerator(oracle Predictor, maxConcurrent int, logger *slog.Logger) *Generator {
	if oracle == nil {
		panic("oracle cannot be nil")
	}

	if maxConcurrent < 1 {
		maxConcurrent = defaultMaxConcurrent
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Generator{
		oracle:        oracle,
		maxConcurrent: maxConcurrent,
		logger:        logger.With(slog.String("component", "recurrence_generator")),
	}
}

// Generate walks the given tasks and returns proposed next-cycle drafts.
// Tasks whose due date doesn't resolve are silently excluded — they cannot
// be rescheduled. For each remaining task the oracle is consulted; a
// positive judgment yields a draft copying the task's fields with the due
// date moved one cycle ahead. Output order mirrors input order. Existing
// tasks are not deduplicated against; that is the caller's concern.
func (g *Generator) Generate(ctx context.Context, tasks []domain.Task) []*domain.Suggestion {
	results := make([]*domain.Suggestion, len(tasks))

	type candidate struct {
		idx int
		due time.Time
	}

	var candidates []candidate
	for i := range tasks {
		if due, ok := dates.Resolve(tasks[i].DueDate); ok {
			candidates = append(candidates, candidate{idx: i, due: due})
		}
	}

	if len(candidates) == 0 {
		return []*domain.Suggestion{}
	}

	workers := g.maxConcurrent
	if workers > len(candidates) {
		workers = len(candidates)
	}

	work := make(chan candidate)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range work {
				task := tasks[c.idx]

				if !g.oracle.IsRecurring(ctx, task.Title, task.Description) {
					continue
				}

				nextDue := dates.Format(dates.AddDays(c.due, daysPerCycle))
				draft, err := domain.NewSuggestion(task, nextDue)
				if err != nil {
					// Stored tasks are validated on the way in, so this
					// only fires for hand-built inputs.
					g.logger.WarnContext(ctx, "skipping draft for invalid source task",
						slog.String("error", err.Error()),
						slog.String("task_id", task.ID.String()))
					continue
				}

				results[c.idx] = draft
			}
		}()
	}

	for _, c := range candidates {
		work <- c
	}
	close(work)
	wg.Wait()

	drafts := make([]*domain.Suggestion, 0, len(candidates))
	for _, draft := range results {
		if draft != nil {
			drafts = append(drafts, draft)
		}
	}

	g.logger.DebugContext(ctx, "generated recurrence drafts",
		slog.Int("scanned", len(tasks)),
		slog.Int("candidates", len(candidates)),
		slog.Int("drafts", len(drafts)))
	return drafts
}
