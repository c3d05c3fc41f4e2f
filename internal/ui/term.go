package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color definitions for consistent styling across the CLI output.
var (
	// High priority: red to demand attention
	colorHigh = color.New(color.FgRed, color.Bold)

	// Medium priority: yellow
	colorMedium = color.New(color.FgYellow)

	// Low priority: dim/grey
	colorLow = color.New(color.FgWhite, color.Faint)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Overdue: red background marker
	colorOverdue = color.New(color.FgRed)

	// Done: green for completed work
	colorDone = color.New(color.FgGreen)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}
