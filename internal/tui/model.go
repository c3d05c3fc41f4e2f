// Package tui provides the terminal user interface for taller.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/taller/internal/config"
	"github.com/javiermolinar/taller/internal/dateutil"
	"github.com/javiermolinar/taller/internal/mutation"
	"github.com/javiermolinar/taller/internal/navigator"
	"github.com/javiermolinar/taller/internal/task"
	"github.com/javiermolinar/taller/internal/tui/commands"
	"github.com/javiermolinar/taller/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeMove        // A task is picked up and follows the cursor
	ModeForm        // New task creation form
	ModeConfirm     // Delete confirmation
)

// statusDuration is how long status messages stay visible.
const statusDuration = 4 * time.Second

// Model is the main TUI model.
type Model struct {
	// Dependencies
	repo  task.Repository
	cfg   *config.Config
	nav   *navigator.Navigator
	coord *mutation.Coordinator
	fb    *commands.Feedback

	// Theme and styles
	palette theme.Palette
	styles  Styles

	// Window contents (render-only; the navigator owns fetching)
	tasks   []*task.Task
	agenda  *task.Agenda
	loading bool

	// Cursor
	cursor  time.Time // highlighted day
	taskIdx int       // selection within the cursor day

	// Interaction state
	mode     Mode
	moveTask *task.Task // task picked up in move mode
	confirm  *task.Task // task pending delete confirmation

	// New task form
	titleInput textinput.Model
	dateInput  textinput.Model
	formFocus  int

	// Messages
	statusMsg  string
	statusTime time.Time

	// Terminal dimensions
	width  int
	height int

	now func() time.Time
}

// New creates a TUI model wired to the repository.
func New(repo task.Repository, cfg *config.Config) Model {
	fb := commands.NewFeedback()

	nav := navigator.New(
		repo.ListTasksByDateRange,
		fb.Tasks,
		fb.Error,
		navigator.WithMode(cfg.DefaultView()),
	)

	coord := mutation.New(mutation.Config{
		UpdateDate:   repo.UpdateTaskDate,
		UpdateStatus: repo.UpdateTaskStatus,
		Create:       repo.CreateTask,
		Delete:       repo.DeleteTask,
		Refresh: func(ctx context.Context) {
			nav.Invalidate()
			nav.Refetch(ctx, true)
		},
		OnError:   fb.Error,
		OnSuccess: fb.Success,
	})

	th, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		th, _ = theme.Load("mocha")
	}
	palette := theme.NewPalette(th)

	title := textinput.New()
	title.Placeholder = "Task title"
	title.CharLimit = 120
	date := textinput.New()
	date.Placeholder = dateutil.Layout
	date.CharLimit = 10

	today := dateutil.TruncateToDay(time.Now())
	nav.Select(today)

	return Model{
		repo:       repo,
		cfg:        cfg,
		nav:        nav,
		coord:      coord,
		fb:         fb,
		palette:    palette,
		styles:     NewStyles(palette),
		cursor:     today,
		loading:    true,
		titleInput: title,
		dateInput:  date,
		now:        time.Now,
	}
}

// Init triggers the initial window fetch.
func (m Model) Init() tea.Cmd {
	return commands.Refetch(m.nav, m.fb, false)
}

// selectedTask returns the task under the cursor, or nil.
func (m *Model) selectedTask() *task.Task {
	if m.agenda == nil {
		return nil
	}
	day := m.agenda.On(m.cursor)
	if len(day) == 0 {
		return nil
	}
	if m.taskIdx >= len(day) {
		m.taskIdx = len(day) - 1
	}
	return day[m.taskIdx]
}

// rebuildAgenda regroups the fetched tasks by day for the current window.
func (m *Model) rebuildAgenda() {
	start, end := m.nav.Window()
	m.agenda = task.NewAgenda(start, end, m.tasks)
	if m.taskIdx >= len(m.agenda.On(m.cursor)) {
		m.taskIdx = 0
	}
}

// moveCursor shifts the highlighted day, re-anchoring the window when the
// cursor walks out of it. Returns a refetch command when the window moved.
func (m *Model) moveCursor(days int) tea.Cmd {
	m.cursor = m.cursor.AddDate(0, 0, days)
	m.taskIdx = 0

	start, end := m.nav.Window()
	if m.cursor.Before(start) || m.cursor.After(end) {
		if m.nav.SetAnchor(m.cursor) {
			m.loading = true
			m.nav.Select(m.cursor)
			return commands.Refetch(m.nav, m.fb, false)
		}
	}
	m.nav.Select(m.cursor)
	return nil
}

// Run starts the TUI program.
func Run(repo task.Repository, cfg *config.Config) error {
	p := tea.NewProgram(New(repo, cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
