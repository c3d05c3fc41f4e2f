package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/taller/internal/dateutil"
	"github.com/javiermolinar/taller/internal/task"
)

func (a *App) addCmd() *cobra.Command {
	var (
		due        string
		notes      string
		priority   string
		instrument int64
		client     int64
	)

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a new maintenance task",
		Long: `Add a new maintenance task to the calendar.

The due date accepts absolute dates (YYYY-MM-DD) and relative forms like
"tomorrow", "friday" or "next-week". Omit --due to create an unscheduled
task.`,
		Example: `  taller add "Replace bridge" --due=2025-03-10 --priority=high
  taller add "Restring cello" --due=next-monday --instrument=4`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			prio, err := task.ParsePriority(priority)
			if err != nil {
				return err
			}

			var date time.Time
			if due != "" {
				date, err = dateutil.ParseRelativeDate(due, time.Now())
				if err != nil {
					return err
				}
			}

			t, err := task.New(args[0], notes, prio, date)
			if err != nil {
				return err
			}
			if instrument > 0 {
				t.InstrumentID = &instrument
			}
			if client > 0 {
				t.ClientID = &client
			}

			if err := a.repo.CreateTask(context.Background(), t); err != nil {
				return fmt.Errorf("creating task: %w", err)
			}

			if date, ok := t.CalendarDate(); ok {
				fmt.Printf("Created task #%d: %s due %s [%s]\n",
					t.ID, t.Title, dateutil.FormatDate(date), t.Priority)
			} else {
				fmt.Printf("Created task #%d: %s (unscheduled) [%s]\n",
					t.ID, t.Title, t.Priority)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD or relative, default: unscheduled)")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")
	cmd.Flags().StringVar(&priority, "priority", "medium", "Priority: low, medium or high")
	cmd.Flags().Int64Var(&instrument, "instrument", 0, "Instrument ID this task works on")
	cmd.Flags().Int64Var(&client, "client", 0, "Client ID this task belongs to")

	return cmd
}
