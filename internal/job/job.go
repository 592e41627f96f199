package job

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the lifecycle state of a background job.
type JobStatus string

const (
	// JobStatusPending indicates the job is saved and waiting to run.
	JobStatusPending JobStatus = "pending"
	// JobStatusProcessing indicates a worker is executing the job.
	JobStatusProcessing JobStatus = "processing"
	// JobStatusCompleted indicates the job finished successfully.
	JobStatusCompleted JobStatus = "completed"
	// JobStatusFailed indicates the job returned an error.
	JobStatusFailed JobStatus = "failed"
)

// TypeSuggestionScan identifies jobs that scan a user's tasks and refresh
// their recurrence suggestions.
const TypeSuggestionScan = "suggestion_scan"

// Job is a runnable unit of background work.
type Job interface {
	// ID returns the unique identifier for the job.
	ID() uuid.UUID

	// Type returns the job type, which selects the factory used to
	// rebuild the job from a persisted record.
	Type() string

	// Payload returns the serialized parameters for the job.
	Payload() []byte

	// Status returns the current in-memory status of the job.
	Status() JobStatus

	// Execute performs the work. It honors ctx for cancellation.
	Execute(ctx context.Context) error
}

// JobRecord is a persisted job row. Records are inert: the Runner turns
// them back into runnable jobs through the Registry.
type JobRecord struct {
	ID        uuid.UUID
	Type      string
	Payload   []byte
	Status    JobStatus
	Error     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// JobStore persists jobs and their status transitions.
type JobStore interface {
	// SaveJob inserts a new job row.
	SaveJob(ctx context.Context, j Job) error

	// UpdateJobStatus sets the status and error message of a job.
	// Updating an unknown ID is a no-op.
	UpdateJobStatus(ctx context.Context, id uuid.UUID, status JobStatus, errMsg string) error

	// GetPendingJobs returns all jobs in the pending state, oldest first.
	GetPendingJobs(ctx context.Context) ([]JobRecord, error)

	// GetProcessingJobs returns jobs that have been in the processing
	// state for longer than olderThan, oldest first.
	GetProcessingJobs(ctx context.Context, olderThan time.Duration) ([]JobRecord, error)

	// WithTx returns a JobStore bound to the given transaction.
	WithTx(tx *sql.Tx) JobStore
}
