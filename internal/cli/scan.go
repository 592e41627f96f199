package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// newScanCommand creates the scan command.
func newScanCommand(c *Container) *cobra.Command {
	var userEmail string

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Regenerate recurrence suggestions",
		Long: `Scan an account's tasks for weekly-recurring obligations and
regenerate its proposed suggestions.

The scan runs synchronously and replaces the account's previous
proposals, exactly as the server's background job does. Tasks the
assistant cannot judge, or whose due dates do not parse, produce no
draft and no error.

Examples:
  hearth scan --user pat@example.com`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := c.resolveUser(cmd.Context(), userEmail)
			if err != nil {
				return err
			}

			svc, err := c.SuggestionService(cmd.Context())
			if err != nil {
				return err
			}

			drafts, err := svc.Scan(cmd.Context(), user.ID)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Generated %d suggestion(s)\n", len(drafts))
			if len(drafts) == 0 {
				return nil
			}

			tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
			defer func() { _ = tw.Flush() }()

			_, _ = fmt.Fprintln(tw, "ID\tDUE\tTITLE")
			for _, draft := range drafts {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", draft.ID, draft.DueDate, draft.Title)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&userEmail, "user", "", "Acting account email")

	return cmd
}
