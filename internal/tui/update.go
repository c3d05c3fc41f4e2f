package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/taller/internal/calendar"
	"github.com/javiermolinar/taller/internal/dateutil"
	"github.com/javiermolinar/taller/internal/navigator"
	"github.com/javiermolinar/taller/internal/task"
	"github.com/javiermolinar/taller/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case commands.BatchMsg:
		// One synchronous operation can produce several messages
		// (notification plus window reload). Apply them in order.
		var (
			model tea.Model = m
			cmds  []tea.Cmd
		)
		for _, inner := range msg.Msgs {
			var cmd tea.Cmd
			model, cmd = model.Update(inner)
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
		return model, tea.Batch(cmds...)

	case commands.TasksLoadedMsg:
		m.tasks = msg.Tasks
		m.loading = false
		m.rebuildAgenda()
		return m, nil

	case commands.ErrMsg:
		m.loading = false
		m.statusMsg = "Error: " + msg.Err.Error()
		m.statusTime = time.Now().Add(statusDuration)
		return m, commands.ClearStatusAfter(statusDuration)

	case commands.StatusMsg:
		m.statusMsg = msg.Msg
		m.statusTime = time.Now().Add(statusDuration)
		return m, commands.ClearStatusAfter(statusDuration)

	case commands.ClearStatusMsg:
		if time.Now().After(m.statusTime) {
			m.statusMsg = ""
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case ModeForm:
		return m.handleFormKey(msg)
	case ModeConfirm:
		return m.handleConfirmKey(msg)
	case ModeMove:
		return m.handleMoveKey(msg)
	default:
		return m.handleNormalKey(msg)
	}
}

func (m Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "h":
		if m.nav.Previous() {
			m.loading = true
			m.cursor = clampToWindow(m.nav, m.cursor)
			return m, commands.Refetch(m.nav, m.fb, false)
		}
		return m, nil

	case "l":
		if m.nav.Next() {
			m.loading = true
			m.cursor = clampToWindow(m.nav, m.cursor)
			return m, commands.Refetch(m.nav, m.fb, false)
		}
		return m, nil

	case "t":
		changed := m.nav.GoToToday()
		m.cursor = dateutil.TruncateToDay(m.now())
		m.taskIdx = 0
		if changed {
			m.loading = true
			return m, commands.Refetch(m.nav, m.fb, false)
		}
		return m, nil

	case "v":
		if m.nav.SetMode(nextViewMode(m.nav.Mode())) {
			m.loading = true
			m.cursor = clampToWindow(m.nav, m.cursor)
			return m, commands.Refetch(m.nav, m.fb, false)
		}
		return m, nil

	case "left":
		return m, m.moveCursor(-1)
	case "right":
		return m, m.moveCursor(+1)
	case "up":
		return m, m.moveCursor(-cursorRowStep(m.nav.Mode()))
	case "down":
		return m, m.moveCursor(+cursorRowStep(m.nav.Mode()))

	case "j":
		if day := m.agendaOn(m.cursor); len(day) > 0 {
			m.taskIdx = (m.taskIdx + 1) % len(day)
		}
		return m, nil
	case "k":
		if day := m.agendaOn(m.cursor); len(day) > 0 {
			m.taskIdx = (m.taskIdx - 1 + len(day)) % len(day)
		}
		return m, nil

	case "n":
		m.mode = ModeForm
		m.formFocus = 0
		m.titleInput.SetValue("")
		m.dateInput.SetValue(dateutil.FormatDate(m.cursor))
		m.titleInput.Focus()
		m.dateInput.Blur()
		return m, nil

	case "m":
		if t := m.selectedTask(); t != nil {
			if _, ok := t.CalendarField(); ok {
				m.mode = ModeMove
				m.moveTask = t
			}
		}
		return m, nil

	case ">":
		if t := m.selectedTask(); t != nil {
			if date, ok := t.CalendarDate(); ok {
				m.loading = true
				return m, commands.Resize(m.coord, m.fb, t, date.AddDate(0, 0, 1))
			}
		}
		return m, nil
	case "<":
		if t := m.selectedTask(); t != nil {
			if date, ok := t.CalendarDate(); ok {
				m.loading = true
				return m, commands.Resize(m.coord, m.fb, t, date.AddDate(0, 0, -1))
			}
		}
		return m, nil

	case "c":
		if t := m.selectedTask(); t != nil && t.IsOpen() {
			m.loading = true
			return m, commands.SetStatus(m.coord, m.fb, t.ID, task.StatusCompleted)
		}
		return m, nil

	case "d":
		if t := m.selectedTask(); t != nil {
			m.mode = ModeConfirm
			m.confirm = t
		}
		return m, nil

	case "y":
		return m.yankAgenda()
	}

	return m, nil
}

func (m Model) handleMoveKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeNormal
		m.moveTask = nil
		return m, nil

	case "enter":
		t := m.moveTask
		m.mode = ModeNormal
		m.moveTask = nil
		if t == nil {
			return m, nil
		}
		m.loading = true
		return m, commands.Drop(m.coord, m.fb, t, m.cursor)

	case "left":
		return m, m.moveCursor(-1)
	case "right":
		return m, m.moveCursor(+1)
	case "up":
		return m, m.moveCursor(-cursorRowStep(m.nav.Mode()))
	case "down":
		return m, m.moveCursor(+cursorRowStep(m.nav.Mode()))

	case "h":
		if m.nav.Previous() {
			m.loading = true
			m.cursor = clampToWindow(m.nav, m.cursor)
			return m, commands.Refetch(m.nav, m.fb, false)
		}
		return m, nil
	case "l":
		if m.nav.Next() {
			m.loading = true
			m.cursor = clampToWindow(m.nav, m.cursor)
			return m, commands.Refetch(m.nav, m.fb, false)
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		t := m.confirm
		m.mode = ModeNormal
		m.confirm = nil
		if t == nil {
			return m, nil
		}
		m.loading = true
		return m, commands.DeleteTask(m.coord, m.fb, t.ID)

	case "n", "esc":
		m.mode = ModeNormal
		m.confirm = nil
		return m, nil
	}

	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeNormal
		m.titleInput.Blur()
		m.dateInput.Blur()
		return m, nil

	case "tab", "shift+tab":
		m.formFocus = 1 - m.formFocus
		if m.formFocus == 0 {
			m.titleInput.Focus()
			m.dateInput.Blur()
		} else {
			m.titleInput.Blur()
			m.dateInput.Focus()
		}
		return m, nil

	case "enter":
		title := strings.TrimSpace(m.titleInput.Value())
		date, err := dateutil.ParseDate(strings.TrimSpace(m.dateInput.Value()))
		if err != nil {
			m.statusMsg = "Error: " + err.Error()
			m.statusTime = time.Now().Add(statusDuration)
			return m, commands.ClearStatusAfter(statusDuration)
		}
		t, err := task.New(title, "", task.PriorityMedium, date)
		if err != nil {
			m.statusMsg = "Error: " + err.Error()
			m.statusTime = time.Now().Add(statusDuration)
			return m, commands.ClearStatusAfter(statusDuration)
		}
		m.mode = ModeNormal
		m.titleInput.Blur()
		m.dateInput.Blur()
		m.loading = true
		return m, commands.CreateTask(m.coord, m.fb, t)
	}

	var cmd tea.Cmd
	if m.formFocus == 0 {
		m.titleInput, cmd = m.titleInput.Update(msg)
	} else {
		m.dateInput, cmd = m.dateInput.Update(msg)
	}
	return m, cmd
}

// yankAgenda copies the visible window's agenda to the clipboard.
func (m Model) yankAgenda() (tea.Model, tea.Cmd) {
	if m.agenda == nil || m.agenda.Count() == 0 {
		return m, nil
	}

	var b strings.Builder
	for _, day := range m.agenda.Days() {
		fmt.Fprintf(&b, "%s\n", dateutil.FormatDate(day))
		for _, t := range m.agenda.On(day) {
			fmt.Fprintf(&b, "  - [%s] %s\n", t.Priority, t.Title)
		}
	}

	if err := clipboard.WriteAll(b.String()); err != nil {
		m.statusMsg = "Error: " + err.Error()
	} else {
		m.statusMsg = "Agenda copied to clipboard"
	}
	m.statusTime = time.Now().Add(statusDuration)
	return m, commands.ClearStatusAfter(statusDuration)
}

func (m *Model) agendaOn(date time.Time) []*task.Task {
	if m.agenda == nil {
		return nil
	}
	return m.agenda.On(date)
}

// nextViewMode cycles through the view modes in order.
func nextViewMode(mode calendar.ViewMode) calendar.ViewMode {
	for i, known := range calendar.Modes {
		if known == mode {
			return calendar.Modes[(i+1)%len(calendar.Modes)]
		}
	}
	return calendar.ViewMonth
}

// cursorRowStep is how many days a vertical cursor move covers per mode.
func cursorRowStep(mode calendar.ViewMode) int {
	switch mode {
	case calendar.ViewMonth, calendar.ViewList:
		return 7
	default:
		return 1
	}
}

// clampToWindow pulls the cursor back inside the navigator's window after
// an explicit window step.
func clampToWindow(nav *navigator.Navigator, cursor time.Time) time.Time {
	start, end := nav.Window()
	if cursor.Before(start) {
		cursor = start
	}
	if cursor.After(end) {
		cursor = end
	}
	nav.Select(cursor)
	return cursor
}
