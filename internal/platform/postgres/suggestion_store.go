package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hearthapp/hearth-api/internal/domain"
	"github.com/hearthapp/hearth-api/internal/platform/logger"
	"github.com/hearthapp/hearth-api/internal/store"
)

// PostgresSuggestionStore implements the store.SuggestionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresSuggestionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSuggestionStore creates a new PostgreSQL implementation of the SuggestionStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresSuggestionStore(db store.DBTX, logger *slog.Logger) *PostgresSuggestionStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSuggestionStore{
		db:     db,
		logger: logger.With(slog.String("component", "suggestion_store")),
	}
}

// Ensure PostgresSuggestionStore implements store.SuggestionStore interface
var _ store.SuggestionStore = (*PostgresSuggestionStore)(nil)

// ReplaceProposed implements store.SuggestionStore.ReplaceProposed
// It deletes the user's existing proposed drafts and inserts the given batch,
// so a completed scan fully defines the current proposal set. Accepted and
// dismissed drafts are never touched. Callers run this inside a transaction
// via WithTx so a failed insert can't leave the proposal set half-replaced.
func (s *PostgresSuggestionStore) ReplaceProposed(
	ctx context.Context,
	userID uuid.UUID,
	suggestions []*domain.Suggestion,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deleteQuery := `
		DELETE FROM suggestions
		WHERE user_id = $1 AND status = $2
	`
	if _, err := s.db.ExecContext(ctx, deleteQuery, userID, domain.SuggestionStatusProposed); err != nil {
		log.Error("failed to clear proposed suggestions",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return MapError(err)
	}

	insertQuery := `
		INSERT INTO suggestions (id, user_id, source_task_id, title, description,
			category, due_date, priority, reminder_days, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	for _, sg := range suggestions {
		if err := sg.Validate(); err != nil {
			log.Warn("suggestion validation failed during replace",
				slog.String("error", err.Error()),
				slog.String("suggestion_id", sg.ID.String()))
			return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
		}

		_, err := s.db.ExecContext(
			ctx,
			insertQuery,
			sg.ID,
			sg.UserID,
			sg.SourceTaskID,
			sg.Title,
			sg.Description,
			sg.Category,
			sg.DueDate,
			sg.Priority,
			sg.ReminderDays,
			sg.Status,
			sg.CreatedAt,
			sg.UpdatedAt,
		)
		if err != nil {
			if IsForeignKeyViolation(err) {
				log.Warn("foreign key violation during suggestion insert",
					slog.String("error", err.Error()),
					slog.String("suggestion_id", sg.ID.String()),
					slog.String("source_task_id", sg.SourceTaskID.String()))
				return fmt.Errorf("%w: source task with ID %s not found",
					store.ErrInvalidEntity, sg.SourceTaskID)
			}

			log.Error("failed to insert suggestion",
				slog.String("error", err.Error()),
				slog.String("suggestion_id", sg.ID.String()))
			return MapError(err)
		}
	}

	log.Info("replaced proposed suggestions",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(suggestions)))
	return nil
}

// ListProposed implements store.SuggestionStore.ListProposed
// It retrieves the user's proposed drafts, oldest first.
// Returns an empty slice if the user has no proposed drafts.
func (s *PostgresSuggestionStore) ListProposed(
	ctx context.Context,
	userID uuid.UUID,
) ([]domain.Suggestion, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, source_task_id, title, description, category,
			due_date, priority, reminder_days, status, created_at, updated_at
		FROM suggestions
		WHERE user_id = $1 AND status = $2
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID, domain.SuggestionStatusProposed)
	if err != nil {
		log.Error("failed to query proposed suggestions",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var suggestions []domain.Suggestion
	for rows.Next() {
		var sg domain.Suggestion
		var priority, status string

		err := rows.Scan(
			&sg.ID,
			&sg.UserID,
			&sg.SourceTaskID,
			&sg.Title,
			&sg.Description,
			&sg.Category,
			&sg.DueDate,
			&priority,
			&sg.ReminderDays,
			&status,
			&sg.CreatedAt,
			&sg.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan suggestion row",
				slog.String("error", err.Error()))
			return nil, MapError(err)
		}

		sg.Priority = domain.Priority(priority)
		sg.Status = domain.SuggestionStatus(status)
		suggestions = append(suggestions, sg)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	if suggestions == nil {
		suggestions = []domain.Suggestion{}
	}

	log.Debug("listed proposed suggestions",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(suggestions)))
	return suggestions, nil
}

// GetByID implements store.SuggestionStore.GetByID
// It retrieves a suggestion by ID, scoped to the owning user.
// Returns store.ErrSuggestionNotFound if no matching row exists.
func (s *PostgresSuggestionStore) GetByID(
	ctx context.Context,
	userID, id uuid.UUID,
) (*domain.Suggestion, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, source_task_id, title, description, category,
			due_date, priority, reminder_days, status, created_at, updated_at
		FROM suggestions
		WHERE id = $1 AND user_id = $2
	`

	var sg domain.Suggestion
	var priority, status string

	err := s.db.QueryRowContext(ctx, query, id, userID).Scan(
		&sg.ID,
		&sg.UserID,
		&sg.SourceTaskID,
		&sg.Title,
		&sg.Description,
		&sg.Category,
		&sg.DueDate,
		&priority,
		&sg.ReminderDays,
		&status,
		&sg.CreatedAt,
		&sg.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("suggestion not found", slog.String("suggestion_id", id.String()))
			return nil, store.ErrSuggestionNotFound
		}
		log.Error("failed to get suggestion by ID",
			slog.String("error", err.Error()),
			slog.String("suggestion_id", id.String()))
		return nil, MapError(err)
	}

	sg.Priority = domain.Priority(priority)
	sg.Status = domain.SuggestionStatus(status)

	return &sg, nil
}

// UpdateStatus implements store.SuggestionStore.UpdateStatus
// It moves a suggestion into a new review state, scoped to the owning user.
// Returns store.ErrSuggestionNotFound if no matching row exists, or a
// validation error if the status is invalid.
func (s *PostgresSuggestionStore) UpdateStatus(
	ctx context.Context,
	userID, id uuid.UUID,
	status domain.SuggestionStatus,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Validate the target status on a scratch value before touching the row.
	var scratch domain.Suggestion
	if err := scratch.UpdateStatus(status); err != nil {
		log.Warn("invalid suggestion status",
			slog.String("suggestion_id", id.String()),
			slog.String("status", string(status)))
		return err
	}

	query := `
		UPDATE suggestions
		SET status = $1, updated_at = $2
		WHERE id = $3 AND user_id = $4
	`

	result, err := s.db.ExecContext(ctx, query, status, time.Now().UTC(), id, userID)
	if err != nil {
		log.Error("failed to update suggestion status",
			slog.String("error", err.Error()),
			slog.String("suggestion_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrSuggestionNotFound); err != nil {
		log.Debug("suggestion not found for status update",
			slog.String("suggestion_id", id.String()))
		return err
	}

	log.Info("suggestion status updated",
		slog.String("suggestion_id", id.String()),
		slog.String("status", string(status)))
	return nil
}

// WithTx implements store.SuggestionStore.WithTx
// It returns a new SuggestionStore instance that uses the provided transaction.
func (s *PostgresSuggestionStore) WithTx(tx *sql.Tx) store.SuggestionStore {
	return &PostgresSuggestionStore{
		db:     tx,
		logger: s.logger,
	}
}
