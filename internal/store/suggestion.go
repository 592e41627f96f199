package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/hearthapp/hearth-api/internal/domain"
)

// SuggestionStore defines the interface for recurrence-draft persistence.
type SuggestionStore interface {
	// ReplaceProposed deletes the user's existing proposed drafts and
	// inserts the given batch in order, so a completed scan fully defines
	// the current proposal set. Accepted and dismissed drafts are never
	// touched.
	//
	// IMPORTANT: This method performs multiple statements and MUST be run
	// within a transaction. Use WithTx together with store.RunInTransaction:
	//
	//   err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
	//       return suggestionStore.WithTx(tx).ReplaceProposed(ctx, userID, drafts)
	//   })
	ReplaceProposed(ctx context.Context, userID uuid.UUID, suggestions []*domain.Suggestion) error

	// ListProposed retrieves the user's proposed drafts in insertion order.
	ListProposed(ctx context.Context, userID uuid.UUID) ([]domain.Suggestion, error)

	// GetByID retrieves a suggestion by ID, scoped to the owning user.
	// Returns ErrSuggestionNotFound if no matching row exists.
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Suggestion, error)

	// UpdateStatus moves a suggestion into a new review state, scoped to
	// the owning user. Returns ErrSuggestionNotFound if no matching row
	// exists.
	UpdateStatus(ctx context.Context, userID, id uuid.UUID, status domain.SuggestionStatus) error

	// WithTx returns a new SuggestionStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) SuggestionStore
}
