package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hearthapp/hearth-api/internal/job"
	"github.com/hearthapp/hearth-api/internal/platform/logger"
	"github.com/hearthapp/hearth-api/internal/store"
)

// PostgresJobStore implements the job.JobStore interface using a
// PostgreSQL database as the storage backend.
type PostgresJobStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresJobStore creates a new PostgreSQL implementation of the JobStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresJobStore(db store.DBTX, logger *slog.Logger) *PostgresJobStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresJobStore{
		db:     db,
		logger: logger.With(slog.String("component", "job_store")),
	}
}

// Ensure PostgresJobStore implements job.JobStore interface
var _ job.JobStore = (*PostgresJobStore)(nil)

// SaveJob implements job.JobStore.SaveJob
// It inserts a new job row in its initial status.
func (s *PostgresJobStore) SaveJob(ctx context.Context, j job.Job) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO jobs (id, type, payload, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	now := time.Now().UTC()
	_, err := s.db.ExecContext(
		ctx,
		query,
		j.ID(),
		j.Type(),
		j.Payload(),
		string(j.Status()),
		now,
		now,
	)
	if err != nil {
		log.Error("failed to save job",
			slog.String("error", err.Error()),
			slog.String("job_id", j.ID().String()),
			slog.String("job_type", j.Type()))
		return MapError(err)
	}

	log.Debug("job saved",
		slog.String("job_id", j.ID().String()),
		slog.String("job_type", j.Type()))
	return nil
}

// UpdateJobStatus implements job.JobStore.UpdateJobStatus
// It records a status transition and any error message. Updating an ID
// with no matching row is logged and treated as a no-op, since status
// updates are fire-and-forget from the runner's point of view.
func (s *PostgresJobStore) UpdateJobStatus(
	ctx context.Context,
	id uuid.UUID,
	status job.JobStatus,
	errMsg string,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE jobs
		SET status = $1, error_message = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := s.db.ExecContext(ctx, query, string(status), errMsg, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to update job status",
			slog.String("error", err.Error()),
			slog.String("job_id", id.String()),
			slog.String("status", string(status)))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("job_id", id.String()))
		return MapError(err)
	}
	if rowsAffected == 0 {
		log.Warn("no job found for status update",
			slog.String("job_id", id.String()),
			slog.String("status", string(status)))
		return nil
	}

	log.Debug("job status updated",
		slog.String("job_id", id.String()),
		slog.String("status", string(status)))
	return nil
}

// GetPendingJobs implements job.JobStore.GetPendingJobs
// It returns all pending job records, oldest first.
func (s *PostgresJobStore) GetPendingJobs(ctx context.Context) ([]job.JobRecord, error) {
	return s.getJobsByStatus(ctx, job.JobStatusPending, 0)
}

// GetProcessingJobs implements job.JobStore.GetProcessingJobs
// It returns job records that have been processing for longer than
// olderThan, oldest first. An olderThan of zero returns every
// processing record.
func (s *PostgresJobStore) GetProcessingJobs(
	ctx context.Context,
	olderThan time.Duration,
) ([]job.JobRecord, error) {
	return s.getJobsByStatus(ctx, job.JobStatusProcessing, olderThan)
}

func (s *PostgresJobStore) getJobsByStatus(
	ctx context.Context,
	status job.JobStatus,
	olderThan time.Duration,
) ([]job.JobRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, type, payload, status, error_message, created_at, updated_at
		FROM jobs
		WHERE status = $1
	`
	args := []interface{}{string(status)}

	if olderThan > 0 {
		query += ` AND updated_at < $2`
		args = append(args, time.Now().UTC().Add(-olderThan))
	}
	query += ` ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query jobs",
			slog.String("error", err.Error()),
			slog.String("status", string(status)))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var records []job.JobRecord
	for rows.Next() {
		var rec job.JobRecord
		var recStatus string

		err := rows.Scan(
			&rec.ID,
			&rec.Type,
			&rec.Payload,
			&recStatus,
			&rec.Error,
			&rec.CreatedAt,
			&rec.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan job row",
				slog.String("error", err.Error()))
			return nil, MapError(err)
		}

		rec.Status = job.JobStatus(recStatus)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	log.Debug("listed jobs by status",
		slog.String("status", string(status)),
		slog.Int("count", len(records)))
	return records, nil
}

// WithTx implements job.JobStore.WithTx
// It returns a new JobStore instance that uses the provided transaction.
func (s *PostgresJobStore) WithTx(tx *sql.Tx) job.JobStore {
	return &PostgresJobStore{
		db:     tx,
		logger: s.logger,
	}
}
