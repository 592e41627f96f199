package insight

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hearthapp/hearth-api/internal/assistant"
	"github.com/hearthapp/hearth-api/internal/domain/urgency"
	"github.com/hearthapp/hearth-api/internal/store"
)

// Source values distinguish replies written by the language model from
// replies synthesized locally after a model failure.
const (
	SourceAssistant = "assistant"
	SourceRules     = "rules"
)

// StatsCounter is the slice of the task store the insight service reads.
type StatsCounter interface {
	// CountStats aggregates one user's task counts as of the given
	// calendar date (YYYY-MM-DD).
	CountStats(ctx context.Context, userID uuid.UUID, today string) (*store.TaskStats, error)
}

// Service provides assistant-backed insight over a user's tasks.
type Service interface {
	// SuggestPriority asks the assistant to rate one task's priority. It
	// never fails: on any assistant problem the deterministic urgency
	// rules produce the advice instead.
	SuggestPriority(ctx context.Context, input urgency.Input, now time.Time) Advice

	// Stats aggregates the user's task counts as of now's calendar date.
	Stats(ctx context.Context, userID uuid.UUID, now time.Time) (*store.TaskStats, error)

	// Summarize builds the stats and narrates them in a short encouraging
	// paragraph. Assistant failures degrade to a plain local sentence;
	// only a stats lookup failure returns an error.
	Summarize(ctx context.Context, userID uuid.UUID, now time.Time) (*Summary, error)
}

// service is the standard implementation of the Service interface.
type service struct {
	asker      assistant.Asker
	classifier urgency.Service
	tasks      StatsCounter
	logger     *slog.Logger
}

// NewService creates an insight service. The asker, classifier, and tasks
// dependencies are required; a nil logger falls back to slog.Default().
func NewService(
	asker assistant.Asker,
	classifier urgency.Service,
	tasks StatsCounter,
	logger *slog.Logger,
) Service {
	if asker == nil {
		panic("asker cannot be nil")
	}
	if classifier == nil {
		panic("classifier cannot be nil")
	}
	if tasks == nil {
		panic("tasks cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &service{
		asker:      asker,
		classifier: classifier,
		tasks:      tasks,
		logger:     logger.With("component", "insight_service"),
	}
}
