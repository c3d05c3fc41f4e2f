package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/taller/internal/dateutil"
	"github.com/javiermolinar/taller/internal/task"
)

func (a *App) agendaCmd() *cobra.Command {
	var (
		fromDate string
		toDate   string
	)

	cmd := &cobra.Command{
		Use:   "agenda",
		Short: "List tasks in a date range",
		Long: `List all maintenance tasks placed within a date range.

If no dates are specified, lists today's tasks.
If only --from is specified, lists tasks for that single day.
If both --from and --to are specified, lists tasks in that range (inclusive).`,
		Example: `  taller agenda
  taller agenda --from=2025-01-15
  taller agenda --from=2025-01-15 --to=2025-01-20`,
		RunE: func(_ *cobra.Command, _ []string) error {
			dateRange, err := dateutil.NewDateRange(fromDate, toDate)
			if err != nil {
				return err
			}

			tasks, err := a.repo.ListTasksByDateRange(context.Background(), dateRange.Start, dateRange.End)
			if err != nil {
				return fmt.Errorf("listing tasks: %w", err)
			}

			if len(tasks) == 0 {
				fmt.Println("No tasks found in the specified date range.")
				return nil
			}

			agenda := task.NewAgenda(dateRange.Start, dateRange.End, tasks)
			for _, day := range agenda.Days() {
				colorHeader.Printf("=== %s %s ===\n", day.Weekday().String()[:3], dateutil.FormatDate(day))
				for _, t := range agenda.On(day) {
					printTaskLine(t)
				}
				fmt.Println()
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&fromDate, "from", "", "Start date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVar(&toDate, "to", "", "End date (YYYY-MM-DD, defaults to start date)")

	return cmd
}

func printTaskLine(t *task.Task) {
	symbol := statusSymbol(t.Status)
	line := fmt.Sprintf("  %s #%d %s", symbol, t.ID, truncateTitle(t.Title))

	switch {
	case t.Status == task.StatusCompleted:
		colorDone.Println(line)
	case t.IsOverdue(time.Now()):
		colorOverdue.Println(line)
	case t.Priority == task.PriorityHigh:
		colorHigh.Println(line)
	case t.Priority == task.PriorityLow:
		colorLow.Println(line)
	default:
		colorMedium.Println(line)
	}

	if t.Notes != "" {
		colorMuted.Printf("      %s\n", t.Notes)
	}
}

// truncateTitle keeps task lines within the terminal width.
func truncateTitle(s string) string {
	max := termWidth() - 12
	if max < 20 {
		max = 20
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

func statusSymbol(s task.Status) string {
	switch s {
	case task.StatusPending:
		return "○"
	case task.StatusInProgress:
		return "◐"
	case task.StatusCompleted:
		return "●"
	case task.StatusCancelled:
		return "✗"
	default:
		return "?"
	}
}
