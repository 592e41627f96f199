package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/hearthapp/hearth-api/internal/store"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockResult implements sql.Result for testing
type mockResult struct {
	rowsAffected int64
	err          error
}

func (m mockResult) LastInsertId() (int64, error) {
	return 0, nil
}

func (m mockResult) RowsAffected() (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.rowsAffected, nil
}

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{
			name:     "nil_error",
			err:      nil,
			sentinel: nil,
		},
		{
			name:     "sql_no_rows",
			err:      sql.ErrNoRows,
			sentinel: store.ErrNotFound,
		},
		{
			name: "unique_violation",
			err: &pgconn.PgError{
				Code:           uniqueViolationCode,
				ConstraintName: "users_email_key",
			},
			sentinel: store.ErrDuplicate,
		},
		{
			name: "foreign_key_violation",
			err: &pgconn.PgError{
				Code:           foreignKeyViolationCode,
				ConstraintName: "tasks_user_id_fkey",
			},
			sentinel: store.ErrInvalidEntity,
		},
		{
			name: "check_constraint_violation",
			err: &pgconn.PgError{
				Code: checkViolationCode,
			},
			sentinel: store.ErrInvalidEntity,
		},
		{
			name: "not_null_violation",
			err: &pgconn.PgError{
				Code:       notNullViolationCode,
				ColumnName: "title",
			},
			sentinel: store.ErrInvalidEntity,
		},
		{
			name: "wrapped_pg_error",
			err: fmt.Errorf("exec failed: %w", &pgconn.PgError{
				Code: uniqueViolationCode,
			}),
			sentinel: store.ErrDuplicate,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := MapError(tt.err)

			if tt.err == nil {
				assert.NoError(t, result)
				return
			}

			require.Error(t, result)
			if tt.sentinel != nil {
				assert.ErrorIs(t, result, tt.sentinel)
			}
		})
	}
}

func TestMapErrorPassesThroughUnknownErrors(t *testing.T) {
	t.Parallel()

	unknown := errors.New("connection reset by peer")
	assert.Equal(t, unknown, MapError(unknown))

	pgErr := &pgconn.PgError{Code: "57014", Message: "query canceled"}
	assert.Equal(t, error(pgErr), MapError(pgErr))
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "nil_error",
			err:      nil,
			expected: false,
		},
		{
			name:     "unique_violation",
			err:      &pgconn.PgError{Code: uniqueViolationCode},
			expected: true,
		},
		{
			name:     "other_violation",
			err:      &pgconn.PgError{Code: foreignKeyViolationCode},
			expected: false,
		},
		{
			name:     "non_pg_error",
			err:      errors.New("some error"),
			expected: false,
		},
		{
			name: "wrapped_unique_violation",
			err: fmt.Errorf("context: %w", &pgconn.PgError{
				Code: uniqueViolationCode,
			}),
			expected: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, IsUniqueViolation(tt.err))
		})
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "nil_error",
			err:      nil,
			expected: false,
		},
		{
			name:     "foreign_key_violation",
			err:      &pgconn.PgError{Code: foreignKeyViolationCode},
			expected: true,
		},
		{
			name:     "other_violation",
			err:      &pgconn.PgError{Code: uniqueViolationCode},
			expected: false,
		},
		{
			name: "wrapped_foreign_key_violation",
			err: fmt.Errorf("context: %w", &pgconn.PgError{
				Code: foreignKeyViolationCode,
			}),
			expected: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, IsForeignKeyViolation(tt.err))
		})
	}
}

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	t.Run("nil_result", func(t *testing.T) {
		t.Parallel()
		err := CheckRowsAffected(nil, store.ErrTaskNotFound)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nil result")
	})

	t.Run("zero_rows_returns_sentinel", func(t *testing.T) {
		t.Parallel()
		err := CheckRowsAffected(mockResult{rowsAffected: 0}, store.ErrTaskNotFound)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("zero_rows_nil_sentinel_falls_back", func(t *testing.T) {
		t.Parallel()
		err := CheckRowsAffected(mockResult{rowsAffected: 0}, nil)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("one_row_affected", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, CheckRowsAffected(mockResult{rowsAffected: 1}, store.ErrTaskNotFound))
	})

	t.Run("rows_affected_error", func(t *testing.T) {
		t.Parallel()
		err := CheckRowsAffected(mockResult{err: errors.New("db error")}, store.ErrTaskNotFound)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rows affected")
		assert.NotErrorIs(t, err, store.ErrNotFound)
	})
}

func TestMapUniqueViolation(t *testing.T) {
	t.Parallel()

	uniqueErr := &pgconn.PgError{
		Code:           uniqueViolationCode,
		ConstraintName: "users_email_key",
	}

	t.Run("unique_violation_with_specific_error", func(t *testing.T) {
		t.Parallel()
		err := MapUniqueViolation(uniqueErr, store.ErrEmailExists)
		assert.ErrorIs(t, err, store.ErrEmailExists)
		assert.ErrorIs(t, err, store.ErrDuplicate)
	})

	t.Run("unique_violation_without_specific_error", func(t *testing.T) {
		t.Parallel()
		err := MapUniqueViolation(uniqueErr, nil)
		assert.ErrorIs(t, err, store.ErrDuplicate)
		assert.NotErrorIs(t, err, store.ErrEmailExists)
	})

	t.Run("non_unique_violation_falls_back_to_map_error", func(t *testing.T) {
		t.Parallel()
		fkErr := &pgconn.PgError{Code: foreignKeyViolationCode}
		err := MapUniqueViolation(fkErr, store.ErrEmailExists)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
		assert.NotErrorIs(t, err, store.ErrEmailExists)
	})

	t.Run("nil_error", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, MapUniqueViolation(nil, store.ErrEmailExists))
	})
}
