package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/hearthapp/hearth-api/internal/domain"
	"github.com/hearthapp/hearth-api/internal/service"
	"github.com/hearthapp/hearth-api/internal/store"
	"github.com/spf13/cobra"
)

// newTaskCommand creates the task command group.
func newTaskCommand(c *Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage an account's tasks",
	}

	cmd.AddCommand(
		newTaskAddCommand(c),
		newTaskListCommand(c),
		newTaskCompleteCommand(c),
		newTaskDeleteCommand(c),
	)

	return cmd
}

// newTaskAddCommand creates the task add command.
func newTaskAddCommand(c *Container) *cobra.Command {
	var opts struct {
		User          string
		Title         string
		Description   string
		Category      string
		DueDate       string
		DurationHours float64
		Priority      string
		ReminderDays  int
		Tags          string
	}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task",
		Long: `Create a pending task for an account.

The due date is stored as entered. Values in YYYY-MM-DD form are treated
as calendar dates by the urgency rules; anything else stays informational.

Examples:
  # Minimal task
  hearth task add --user pat@example.com --title "Water the plants"

  # Task with a due date and an early reminder
  hearth task add --user pat@example.com --title "Renew library card" \
    --due 2026-09-01 --reminder-days 5`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := c.resolveUser(cmd.Context(), opts.User)
			if err != nil {
				return err
			}

			params := service.CreateTaskParams{
				Title:         opts.Title,
				Description:   opts.Description,
				Category:      opts.Category,
				DueDate:       opts.DueDate,
				DurationHours: opts.DurationHours,
				Tags:          opts.Tags,
			}
			if cmd.Flags().Changed("priority") {
				priority, ok := domain.ParsePriority(opts.Priority)
				if !ok {
					return fmt.Errorf("unknown priority %q (expected Low, Medium or High)", opts.Priority)
				}
				params.Priority = priority
			}
			if cmd.Flags().Changed("reminder-days") {
				params.ReminderDays = &opts.ReminderDays
			}

			svc, err := c.TaskService(cmd.Context())
			if err != nil {
				return err
			}

			task, err := svc.CreateTask(cmd.Context(), user.ID, params)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created task %s\n", task.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.User, "user", "", "Acting account email")
	cmd.Flags().StringVar(&opts.Title, "title", "", "Task title")
	_ = cmd.MarkFlagRequired("title")
	cmd.Flags().StringVar(&opts.Description, "body", "", "Task description")
	cmd.Flags().StringVar(&opts.Category, "category", "", "Task category")
	cmd.Flags().StringVar(&opts.DueDate, "due", "", "Due date (YYYY-MM-DD, free text allowed)")
	cmd.Flags().Float64Var(&opts.DurationHours, "duration", 0, "Estimated duration in hours")
	cmd.Flags().StringVar(&opts.Priority, "priority", "", "Stored priority (Low, Medium, High)")
	cmd.Flags().IntVar(&opts.ReminderDays, "reminder-days", 0, "Days before the due date to start reminding")
	cmd.Flags().StringVar(&opts.Tags, "tags", "", "Comma-separated tags")

	return cmd
}

// newTaskListCommand creates the task list command.
func newTaskListCommand(c *Container) *cobra.Command {
	var opts struct {
		User      string
		Status    string
		SortBy    string
		Reminders bool
	}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long: `List an account's tasks with their effective priority.

The PRIORITY column is the urgency classification as of now, not the
stored priority; REASON explains it.

Examples:
  # All tasks, newest first
  hearth task list --user pat@example.com

  # Pending tasks ordered by due date
  hearth task list --user pat@example.com --status pending --sort due_date

  # Only the tasks worth reminding about right now
  hearth task list --user pat@example.com --reminders`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := c.resolveUser(cmd.Context(), opts.User)
			if err != nil {
				return err
			}

			listOpts, err := parseListOptions(opts.Status, opts.SortBy)
			if err != nil {
				return err
			}

			svc, err := c.TaskService(cmd.Context())
			if err != nil {
				return err
			}

			var tasks []service.AnnotatedTask
			if opts.Reminders {
				tasks, err = svc.ListReminders(cmd.Context(), user.ID)
			} else {
				tasks, err = svc.ListTasks(cmd.Context(), user.ID, listOpts)
			}
			if err != nil {
				return err
			}

			printTaskList(cmd.OutOrStdout(), tasks)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.User, "user", "", "Acting account email")
	cmd.Flags().StringVar(&opts.Status, "status", "", "Filter by status (pending, completed)")
	cmd.Flags().StringVar(&opts.SortBy, "sort", "", "Sort order (created_at, due_date)")
	cmd.Flags().BoolVar(&opts.Reminders, "reminders", false, "Show only tasks whose reminder is due")

	return cmd
}

// parseListOptions maps the status and sort flags onto listing options.
func parseListOptions(status, sortBy string) (store.ListTasksOptions, error) {
	opts := store.ListTasksOptions{}

	switch status {
	case "":
	case string(domain.TaskStatusPending):
		opts.Status = domain.TaskStatusPending
	case string(domain.TaskStatusCompleted):
		opts.Status = domain.TaskStatusCompleted
	default:
		return opts, fmt.Errorf("unknown status %q (expected pending or completed)", status)
	}

	switch sortBy {
	case "":
	case string(store.TaskSortByCreatedAt):
		opts.SortBy = store.TaskSortByCreatedAt
	case string(store.TaskSortByDueDate):
		opts.SortBy = store.TaskSortByDueDate
	default:
		return opts, fmt.Errorf("unknown sort %q (expected created_at or due_date)", sortBy)
	}

	return opts, nil
}

// printTaskList prints annotated tasks in TSV format.
func printTaskList(w io.Writer, tasks []service.AnnotatedTask) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	_, _ = fmt.Fprintln(tw, "ID\tSTATUS\tPRIORITY\tDUE\tTITLE\tREASON")

	for _, task := range tasks {
		due := task.DueDate
		if due == "" {
			due = "-"
		}

		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			task.ID,
			task.Status,
			task.EffectivePriority,
			due,
			task.Title,
			task.UrgencyReason,
		)
	}
}

// newTaskCompleteCommand creates the task complete command.
func newTaskCompleteCommand(c *Container) *cobra.Command {
	var userEmail string

	cmd := &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark a task completed",
		Long: `Mark one of the account's tasks completed.

Completing an already-completed task succeeds without change.

Examples:
  hearth task complete 5e9cbb1d-901c-47c5-8fa2-72898d37c6a2 --user pat@example.com`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := c.resolveUser(cmd.Context(), userEmail)
			if err != nil {
				return err
			}

			taskID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid task ID %q", args[0])
			}

			svc, err := c.TaskService(cmd.Context())
			if err != nil {
				return err
			}

			task, err := svc.CompleteTask(cmd.Context(), user.ID, taskID)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Completed task %s\n", task.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&userEmail, "user", "", "Acting account email")

	return cmd
}

// newTaskDeleteCommand creates the task delete command.
func newTaskDeleteCommand(c *Container) *cobra.Command {
	var userEmail string

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Long: `Delete one of the account's tasks.

Suggestions derived from the task are removed with it.

Examples:
  hearth task delete 5e9cbb1d-901c-47c5-8fa2-72898d37c6a2 --user pat@example.com`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := c.resolveUser(cmd.Context(), userEmail)
			if err != nil {
				return err
			}

			taskID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid task ID %q", args[0])
			}

			svc, err := c.TaskService(cmd.Context())
			if err != nil {
				return err
			}

			if err := svc.DeleteTask(cmd.Context(), user.ID, taskID); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", taskID)
			return nil
		},
	}

	cmd.Flags().StringVar(&userEmail, "user", "", "Acting account email")

	return cmd
}
