package cli

import (
	"fmt"
	"time"

	"github.com/hearthapp/hearth-api/internal/domain/urgency"
	"github.com/spf13/cobra"
)

// newPriorityCommand creates the priority command.
func newPriorityCommand(c *Container) *cobra.Command {
	var opts struct {
		Title        string
		Description  string
		Category     string
		DueDate      string
		ReminderDays int
	}

	cmd := &cobra.Command{
		Use:   "priority",
		Short: "Classify a task's urgency",
		Long: `Run the urgency rules over task fields given as flags.

Nothing is stored and no account is involved; this evaluates the same
rules the server applies when listing tasks.

Examples:
  # Due the day after tomorrow at the latest -> High
  hearth priority --title "Renew passport" --due 2026-08-24

  # Keyword match forces High regardless of the due date
  hearth priority --title "Book the doctor"

  # Reminder window escalation
  hearth priority --title "Water the plants" --due 2026-08-27 --reminder-days 5`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result := c.UrgencyService().Classify(urgency.Input{
				Title:        opts.Title,
				Description:  opts.Description,
				Category:     opts.Category,
				DueDate:      opts.DueDate,
				ReminderDays: opts.ReminderDays,
			}, time.Now())

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Priority: %s\n", result.Priority)
			_, _ = fmt.Fprintf(w, "Reason: %s\n", result.Reason())
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "Task title")
	_ = cmd.MarkFlagRequired("title")
	cmd.Flags().StringVar(&opts.Description, "body", "", "Task description")
	cmd.Flags().StringVar(&opts.Category, "category", "", "Task category")
	cmd.Flags().StringVar(&opts.DueDate, "due", "", "Due date (YYYY-MM-DD, free text allowed)")
	cmd.Flags().IntVar(&opts.ReminderDays, "reminder-days", 0, "Days before the due date to start reminding")

	return cmd
}

// newRecurrenceCommand creates the recurrence command.
func newRecurrenceCommand(c *Container) *cobra.Command {
	var opts struct {
		Title       string
		Description string
	}

	cmd := &cobra.Command{
		Use:   "recurrence",
		Short: "Ask whether a task recurs weekly",
		Long: `Ask the assistant whether the described task reads as a
weekly-recurring obligation.

The answer is yes or no. Assistant problems (missing key, timeouts,
unparseable replies) come back as no, same as on the server.

Examples:
  hearth recurrence --title "Water the plants"
  hearth recurrence --title "Bins" --body "Take the bins out every Tuesday"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			oracle, err := c.RecurrenceOracle(cmd.Context())
			if err != nil {
				return err
			}

			answer := "no"
			if oracle.IsRecurring(cmd.Context(), opts.Title, opts.Description) {
				answer = "yes"
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Recurring: %s\n", answer)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "Task title")
	_ = cmd.MarkFlagRequired("title")
	cmd.Flags().StringVar(&opts.Description, "body", "", "Task description")

	return cmd
}
