package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hearthapp/hearth-api/internal/domain"
)

// Common errors
var (
	ErrNilScanner  = errors.New("scanner cannot be nil")
	ErrEmptyUserID = errors.New("user ID cannot be empty")
)

// SuggestionScanner regenerates the recurrence suggestions for one user.
// The suggestion service satisfies this interface.
type SuggestionScanner interface {
	// Scan inspects the user's tasks and replaces their proposed
	// suggestions with a fresh set of drafts.
	Scan(ctx context.Context, userID uuid.UUID) ([]domain.Suggestion, error)
}

// suggestionScanPayload is the serialized form stored with the job.
type suggestionScanPayload struct {
	UserID uuid.UUID `json:"user_id"`
}

// SuggestionScanJob implements the Job interface for refreshing a user's
// recurrence suggestions.
type SuggestionScanJob struct {
	id      uuid.UUID
	userID  uuid.UUID
	scanner SuggestionScanner
	logger  *slog.Logger
	status  JobStatus
}

// NewSuggestionScanJob creates a suggestion scan job for the given user.
func NewSuggestionScanJob(
	userID uuid.UUID,
	scanner SuggestionScanner,
	logger *slog.Logger,
) (*SuggestionScanJob, error) {
	if scanner == nil {
		return nil, ErrNilScanner
	}
	if userID == uuid.Nil {
		return nil, ErrEmptyUserID
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &SuggestionScanJob{
		id:      uuid.New(),
		userID:  userID,
		scanner: scanner,
		logger:  logger.With("job_type", TypeSuggestionScan, "user_id", userID),
		status:  JobStatusPending,
	}, nil
}

// ID returns the job's unique identifier.
func (j *SuggestionScanJob) ID() uuid.UUID {
	return j.id
}

// Type returns the job type identifier.
func (j *SuggestionScanJob) Type() string {
	return TypeSuggestionScan
}

// UserID returns the user whose tasks the job scans.
func (j *SuggestionScanJob) UserID() uuid.UUID {
	return j.userID
}

// Payload returns the job data as a byte slice.
func (j *SuggestionScanJob) Payload() []byte {
	payload := suggestionScanPayload{
		UserID: j.userID,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		j.logger.Error("failed to marshal job payload", "error", err)
		return []byte{}
	}
	return data
}

// Status returns the current in-memory job status.
func (j *SuggestionScanJob) Status() JobStatus {
	return j.status
}

// Execute runs the scan. The scanner replaces the user's proposed
// suggestions only when it succeeds, so a failed run leaves the previous
// set intact.
func (j *SuggestionScanJob) Execute(ctx context.Context) error {
	j.status = JobStatusProcessing
	j.logger.Info("starting suggestion scan")

	if err := ctx.Err(); err != nil {
		j.status = JobStatusFailed
		j.logger.Error("job cancelled by context", "error", err)
		return fmt.Errorf("job cancelled by context: %w", err)
	}

	drafts, err := j.scanner.Scan(ctx, j.userID)
	if err != nil {
		j.status = JobStatusFailed
		j.logger.Error("suggestion scan failed", "error", err)
		return fmt.Errorf("suggestion scan failed: %w", err)
	}

	j.status = JobStatusCompleted
	j.logger.Info("suggestion scan completed", "draft_count", len(drafts))
	return nil
}
