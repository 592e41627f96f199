package cli

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hearthapp/hearth-api/internal/insight"
	"github.com/hearthapp/hearth-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryCommand(t *testing.T) {
	t.Parallel()

	t.Run("prints_narration_and_stats", func(t *testing.T) {
		t.Parallel()

		user := fixtureUser(t)
		var gotUserID uuid.UUID
		c := newTestContainer(t, func(c *Container) {
			c.Users = userStoreWithUser(t, user)
			c.Insight = &stubInsightService{
				summarizeFunc: func(_ context.Context, userID uuid.UUID, _ time.Time) (*insight.Summary, error) {
					gotUserID = userID
					return &insight.Summary{
						Text: "You completed 2 of 7 tasks this week. Keep at it!",
						Stats: &store.TaskStats{
							Total:     7,
							Completed: 2,
							Overdue:   1,
							ByCategory: map[string]int{
								"Household":     3,
								"Garden":        1,
								"Uncategorized": 3,
							},
						},
						Source: "assistant",
					}, nil
				},
			}
		})

		out, err := executeCommand(newSummaryCommand(c), "--user", "pat@example.com")

		require.NoError(t, err)
		assert.Equal(t, user.ID, gotUserID)
		assert.Contains(t, out, "You completed 2 of 7 tasks this week.")
		assert.Contains(t, out, "Total: 7   Completed: 2   Overdue: 1")

		gardenIdx := strings.Index(out, "Garden")
		householdIdx := strings.Index(out, "Household")
		require.GreaterOrEqual(t, gardenIdx, 0)
		require.GreaterOrEqual(t, householdIdx, 0)
		assert.Less(t, gardenIdx, householdIdx, "categories print in sorted order")
	})

	t.Run("propagates_stats_failures", func(t *testing.T) {
		t.Parallel()

		statsErr := errors.New("failed to count tasks")
		c := newTestContainer(t, func(c *Container) {
			c.Users = userStoreWithUser(t, fixtureUser(t))
			c.Insight = &stubInsightService{
				summarizeFunc: func(context.Context, uuid.UUID, time.Time) (*insight.Summary, error) {
					return nil, statsErr
				},
			}
		})

		_, err := executeCommand(newSummaryCommand(c), "--user", "pat@example.com")

		assert.ErrorIs(t, err, statsErr)
	})

	t.Run("requires_the_user_flag", func(t *testing.T) {
		t.Parallel()

		c := newTestContainer(t, nil)

		_, err := executeCommand(newSummaryCommand(c))

		require.Error(t, err)
		assert.Contains(t, err.Error(), `required flag "user" not set`)
	})
}
