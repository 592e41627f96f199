package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command for hearth.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *Container, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "hearth",
		Short: "Household task management CLI",
		Long: `hearth is an operator tool for the Hearth task service.

It talks straight to the configured database and assistant, with no HTTP
server in between, so authentication is not enforced here: commands that
touch stored data act as the account selected with --user.

Classification commands (priority) run entirely locally. Assistant
commands (recurrence, scan, summary) need the model configuration and
degrade the same way the server does when the assistant misbehaves.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
	}

	root.AddCommand(
		newTaskCommand(c),
		newPriorityCommand(c),
		newRecurrenceCommand(c),
		newScanCommand(c),
		newSummaryCommand(c),
	)

	return root
}
