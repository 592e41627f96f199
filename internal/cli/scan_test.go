package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/hearthapp/hearth-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanCommand(t *testing.T) {
	t.Parallel()

	t.Run("prints_generated_drafts", func(t *testing.T) {
		t.Parallel()

		user := fixtureUser(t)
		source, err := domain.NewTask(user.ID, "Water the plants")
		require.NoError(t, err)
		draft, err := domain.NewSuggestion(*source, "2026-08-29")
		require.NoError(t, err)

		var gotUserID uuid.UUID
		c := newTestContainer(t, func(c *Container) {
			c.Users = userStoreWithUser(t, user)
			c.Suggestions = &stubSuggestionService{
				scanFunc: func(_ context.Context, userID uuid.UUID) ([]domain.Suggestion, error) {
					gotUserID = userID
					return []domain.Suggestion{*draft}, nil
				},
			}
		})

		out, err := executeCommand(newScanCommand(c), "--user", "pat@example.com")

		require.NoError(t, err)
		assert.Equal(t, user.ID, gotUserID)
		assert.Contains(t, out, "Generated 1 suggestion(s)")
		assert.Contains(t, out, "Water the plants")
		assert.Contains(t, out, "2026-08-29")
	})

	t.Run("reports_empty_scans_without_a_table", func(t *testing.T) {
		t.Parallel()

		c := newTestContainer(t, func(c *Container) {
			c.Users = userStoreWithUser(t, fixtureUser(t))
			c.Suggestions = &stubSuggestionService{
				scanFunc: func(context.Context, uuid.UUID) ([]domain.Suggestion, error) {
					return []domain.Suggestion{}, nil
				},
			}
		})

		out, err := executeCommand(newScanCommand(c), "--user", "pat@example.com")

		require.NoError(t, err)
		assert.Contains(t, out, "Generated 0 suggestion(s)")
		assert.NotContains(t, out, "TITLE")
	})

	t.Run("propagates_scan_failures", func(t *testing.T) {
		t.Parallel()

		scanErr := errors.New("failed to replace proposals")
		c := newTestContainer(t, func(c *Container) {
			c.Users = userStoreWithUser(t, fixtureUser(t))
			c.Suggestions = &stubSuggestionService{
				scanFunc: func(context.Context, uuid.UUID) ([]domain.Suggestion, error) {
					return nil, scanErr
				},
			}
		})

		_, err := executeCommand(newScanCommand(c), "--user", "pat@example.com")

		assert.ErrorIs(t, err, scanErr)
	})

	t.Run("requires_the_user_flag", func(t *testing.T) {
		t.Parallel()

		c := newTestContainer(t, nil)

		_, err := executeCommand(newScanCommand(c))

		require.Error(t, err)
		assert.Contains(t, err.Error(), `required flag "user" not set`)
	})
}
