package ui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/taller/internal/task"
)

func (a *App) doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "done [task-id]",
		Short:   "Mark a task as completed",
		Example: `  taller done 12`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.repo.UpdateTaskStatus(context.Background(), id, task.StatusCompleted); err != nil {
				return fmt.Errorf("completing task: %w", err)
			}
			fmt.Printf("Task #%d marked completed\n", id)
			return nil
		},
	}
}

func (a *App) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm [task-id]",
		Short:   "Delete a task",
		Example: `  taller rm 12`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.repo.DeleteTask(context.Background(), id); err != nil {
				return fmt.Errorf("deleting task: %w", err)
			}
			fmt.Printf("Task #%d deleted\n", id)
			return nil
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
