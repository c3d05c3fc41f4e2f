// Package ui provides the cobra command-line interface for taller.
package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/taller/internal/config"
	"github.com/javiermolinar/taller/internal/task"
	"github.com/javiermolinar/taller/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	repo   task.Repository
	config *config.Config
	root   *cobra.Command
}

// NewApp creates a new CLI application with the given repository and config.
func NewApp(repo task.Repository, cfg *config.Config) *App {
	a := &App{repo: repo, config: cfg}

	a.root = &cobra.Command{
		Use:   "taller",
		Short: "Workshop inventory and maintenance scheduling",
		Long: `Taller manages a workshop: instruments held for maintenance, the
clients who own them, and maintenance tasks on a calendar.

Run without arguments to open the interactive calendar.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return tui.Run(a.repo, a.config)
		},
	}

	var noColor bool
	a.root.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	a.root.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		if noColor {
			DisableColor()
		}
	}

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.agendaCmd())
	a.root.AddCommand(a.moveCmd())
	a.root.AddCommand(a.doneCmd())
	a.root.AddCommand(a.rmCmd())
	a.root.AddCommand(a.instrumentCmd())
	a.root.AddCommand(a.clientCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("taller %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the repository.
func (a *App) Close() error {
	if a.repo == nil {
		return nil
	}
	return a.repo.Close()
}
