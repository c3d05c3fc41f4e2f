package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/taller/internal/dateutil"
	"github.com/javiermolinar/taller/internal/mutation"
)

func (a *App) moveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move [task-id] [date]",
		Short: "Move a task to a new date",
		Long: `Move a maintenance task to a new calendar date.

The task's driving date field (due date, personal due date or scheduled
date, in that priority order) is the only field changed. If the update
fails, the previous date is restored.`,
		Example: `  taller move 12 2025-02-01`,
		Args:    cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			date, err := dateutil.ParseDate(args[1])
			if err != nil {
				return err
			}

			ctx := context.Background()
			t, err := a.repo.GetTask(ctx, id)
			if err != nil {
				return err
			}
			if _, ok := t.CalendarField(); !ok {
				return fmt.Errorf("task #%d has no schedule date to move", id)
			}

			var opErr error
			coord := mutation.New(mutation.Config{
				UpdateDate: a.repo.UpdateTaskDate,
				OnError:    func(err error) { opErr = err },
				OnSuccess:  func(msg string) { fmt.Println(msg) },
			})
			coord.HandleDrop(ctx, t, date)

			return opErr
		},
	}

	return cmd
}
