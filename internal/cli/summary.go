package cli

import (
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

// newSummaryCommand creates the summary command.
func newSummaryCommand(c *Container) *cobra.Command {
	var userEmail string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print an account's task summary",
		Long: `Build an account's task statistics and narrate them.

The narration comes from the assistant when it is reachable and from a
plain local sentence otherwise; the statistics are computed either way.

Examples:
  hearth summary --user pat@example.com`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := c.resolveUser(cmd.Context(), userEmail)
			if err != nil {
				return err
			}

			svc, err := c.InsightService(cmd.Context())
			if err != nil {
				return err
			}

			summary, err := svc.Summarize(cmd.Context(), user.ID, time.Now())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(w, summary.Text)
			_, _ = fmt.Fprintln(w)
			_, _ = fmt.Fprintf(w, "Total: %d   Completed: %d   Overdue: %d\n",
				summary.Stats.Total, summary.Stats.Completed, summary.Stats.Overdue)

			if len(summary.Stats.ByCategory) == 0 {
				return nil
			}

			categories := make([]string, 0, len(summary.Stats.ByCategory))
			for category := range summary.Stats.ByCategory {
				categories = append(categories, category)
			}
			sort.Strings(categories)

			_, _ = fmt.Fprintln(w)
			tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
			defer func() { _ = tw.Flush() }()
			for _, category := range categories {
				_, _ = fmt.Fprintf(tw, "%s\t%d\n", category, summary.Stats.ByCategory[category])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&userEmail, "user", "", "Acting account email")

	return cmd
}
