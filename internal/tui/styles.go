package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/taller/internal/task"
	"github.com/javiermolinar/taller/internal/tui/theme"
)

// Styles holds precomputed lipgloss styles for the TUI.
type Styles struct {
	Title      lipgloss.Style
	Header     lipgloss.Style
	DayName    lipgloss.Style
	Cell       lipgloss.Style
	CellMuted  lipgloss.Style
	CellToday  lipgloss.Style
	CellCursor lipgloss.Style
	TaskHigh   lipgloss.Style
	TaskMedium lipgloss.Style
	TaskLow    lipgloss.Style
	TaskDone   lipgloss.Style
	Overdue    lipgloss.Style
	Moving     lipgloss.Style
	Status     lipgloss.Style
	StatusErr  lipgloss.Style
	Help       lipgloss.Style
}

// NewStyles derives the style set from a palette.
func NewStyles(p theme.Palette) Styles {
	return Styles{
		Title:      lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		Header:     lipgloss.NewStyle().Foreground(p.Fg).Bold(true),
		DayName:    lipgloss.NewStyle().Foreground(p.FgMuted).Bold(true),
		Cell:       lipgloss.NewStyle().Foreground(p.Fg),
		CellMuted:  lipgloss.NewStyle().Foreground(p.FgMuted),
		CellToday:  lipgloss.NewStyle().Foreground(p.Today).Bold(true),
		CellCursor: lipgloss.NewStyle().Background(p.BgSelection).Foreground(p.Fg).Bold(true),
		TaskHigh:   lipgloss.NewStyle().Foreground(p.High),
		TaskMedium: lipgloss.NewStyle().Foreground(p.Medium),
		TaskLow:    lipgloss.NewStyle().Foreground(p.Low),
		TaskDone:   lipgloss.NewStyle().Foreground(p.FgMuted).Strikethrough(true),
		Overdue:    lipgloss.NewStyle().Foreground(p.Warning).Bold(true),
		Moving:     lipgloss.NewStyle().Foreground(p.Warning).Bold(true),
		Status:     lipgloss.NewStyle().Foreground(p.Low),
		StatusErr:  lipgloss.NewStyle().Foreground(p.High).Bold(true),
		Help:       lipgloss.NewStyle().Foreground(p.FgMuted),
	}
}

// taskStyle picks the render style for a task line.
func (s Styles) taskStyle(t *task.Task) lipgloss.Style {
	if t.IsDone() {
		return s.TaskDone
	}
	switch t.Priority {
	case task.PriorityHigh:
		return s.TaskHigh
	case task.PriorityLow:
		return s.TaskLow
	default:
		return s.TaskMedium
	}
}
