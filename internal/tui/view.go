package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/taller/internal/calendar"
	"github.com/javiermolinar/taller/internal/dateutil"
)

var dayNames = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// cellTaskLines is how many task lines a month cell shows.
const cellTaskLines = 2

// View renders the TUI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch m.nav.Mode() {
	case calendar.ViewDay:
		b.WriteString(m.renderDay())
	case calendar.ViewWeek:
		b.WriteString(m.renderWeek())
	case calendar.ViewList:
		b.WriteString(m.renderList())
	case calendar.ViewYear, calendar.ViewTimeline:
		b.WriteString(m.renderYear())
	default:
		b.WriteString(m.renderMonth())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	start, end := m.nav.Window()
	title := m.styles.Title.Render("taller")
	window := fmt.Sprintf("%s  %s — %s", m.nav.Mode(), dateutil.FormatDate(start), dateutil.FormatDate(end))

	suffix := ""
	if m.loading {
		suffix = m.styles.Help.Render("  loading…")
	}
	if m.mode == ModeMove && m.moveTask != nil {
		suffix = m.styles.Moving.Render(fmt.Sprintf("  moving: %s → %s (enter to drop, esc to cancel)",
			m.moveTask.Title, dateutil.FormatDate(m.cursor)))
	}

	return title + "  " + m.styles.Header.Render(window) + suffix
}

func (m Model) renderFooter() string {
	switch m.mode {
	case ModeForm:
		return m.renderForm()
	case ModeConfirm:
		if m.confirm != nil {
			return m.styles.Overdue.Render(fmt.Sprintf("Delete %q? (y/n)", m.confirm.Title))
		}
	}

	if m.statusMsg != "" {
		style := m.styles.Status
		if strings.HasPrefix(m.statusMsg, "Error") {
			style = m.styles.StatusErr
		}
		return style.Render(m.statusMsg)
	}

	return m.styles.Help.Render(
		"h/l window  arrows cursor  j/k task  v view  t today  n new  m move  </> nudge  c done  d delete  y yank  q quit")
}

func (m Model) renderForm() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Header.Render("New task (tab to switch, enter to save, esc to cancel)"),
		"  Title: "+m.titleInput.View(),
		"  Date:  "+m.dateInput.View(),
	)
}

// renderMonth draws a 7-column month grid padded to full weeks.
func (m Model) renderMonth() string {
	start, end := m.nav.Window()
	gridStart, _ := dateutil.WeekRange(start)
	_, gridEnd := dateutil.WeekRange(end)

	cellWidth := m.cellWidth()

	var rows []string
	rows = append(rows, m.renderDayNames(cellWidth))

	for weekStart := gridStart; !weekStart.After(gridEnd); weekStart = weekStart.AddDate(0, 0, 7) {
		var cells []string
		for i := 0; i < 7; i++ {
			day := weekStart.AddDate(0, 0, i)
			cells = append(cells, m.renderMonthCell(day, start, end, cellWidth))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	return strings.Join(rows, "\n")
}

func (m Model) renderMonthCell(day, windowStart, windowEnd time.Time, width int) string {
	inWindow := !day.Before(windowStart) && !day.After(windowEnd)
	today := dateutil.SameDay(day, m.now())
	selected := dateutil.SameDay(day, m.cursor)

	numStyle := m.styles.Cell
	if !inWindow {
		numStyle = m.styles.CellMuted
	}
	if today {
		numStyle = m.styles.CellToday
	}
	if selected {
		numStyle = m.styles.CellCursor
	}

	lines := []string{numStyle.Render(pad(fmt.Sprintf("%2d", day.Day()), width))}

	tasks := m.agendaOn(day)
	for i := 0; i < cellTaskLines; i++ {
		switch {
		case i < len(tasks):
			t := tasks[i]
			marker := " "
			if selected && i == m.taskIdx {
				marker = ">"
			}
			if m.mode == ModeMove && m.moveTask != nil && m.moveTask.ID == t.ID {
				marker = "*"
			}
			style := m.styles.taskStyle(t)
			if t.IsOverdue(m.now()) {
				style = m.styles.Overdue
			}
			lines = append(lines, style.Render(pad(marker+truncate(t.Title, width-1), width)))
		case i == cellTaskLines-1 && len(tasks) > cellTaskLines:
			lines = append(lines, m.styles.CellMuted.Render(pad(fmt.Sprintf("+%d more", len(tasks)-cellTaskLines+1), width)))
		default:
			lines = append(lines, pad("", width))
		}
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderDayNames(width int) string {
	var cells []string
	for _, name := range dayNames {
		cells = append(cells, m.styles.DayName.Render(pad(name, width)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

// renderWeek lists each weekday with its tasks.
func (m Model) renderWeek() string {
	start, _ := m.nav.Window()

	var b strings.Builder
	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i)
		b.WriteString(m.renderDayHeading(day))
		b.WriteString("\n")
		b.WriteString(m.renderDayTasks(day, "  "))
	}
	return b.String()
}

// renderDay shows the cursor day's tasks in detail.
func (m Model) renderDay() string {
	day, _ := m.nav.Window()

	var b strings.Builder
	b.WriteString(m.renderDayHeading(day))
	b.WriteString("\n")

	tasks := m.agendaOn(day)
	if len(tasks) == 0 {
		b.WriteString(m.styles.CellMuted.Render("  no tasks"))
		b.WriteString("\n")
		return b.String()
	}

	for i, t := range tasks {
		marker := "  "
		if i == m.taskIdx {
			marker = "> "
		}
		style := m.styles.taskStyle(t)
		if t.IsOverdue(m.now()) {
			style = m.styles.Overdue
		}
		field, _ := t.CalendarField()
		b.WriteString(style.Render(fmt.Sprintf("%s#%d %s [%s, %s, %s]", marker, t.ID, t.Title, t.Priority, t.Status, field)))
		b.WriteString("\n")
		if t.Notes != "" {
			b.WriteString(m.styles.CellMuted.Render("      " + t.Notes))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderList is a flat agenda of the window's days that have tasks.
func (m Model) renderList() string {
	if m.agenda == nil || m.agenda.Count() == 0 {
		return m.styles.CellMuted.Render("  no tasks in this window")
	}

	var b strings.Builder
	for _, day := range m.agenda.Days() {
		b.WriteString(m.renderDayHeading(day))
		b.WriteString("\n")
		b.WriteString(m.renderDayTasks(day, "  "))
	}
	return b.String()
}

// renderYear shows per-month task counts for the anchor year.
func (m Model) renderYear() string {
	start, _ := m.nav.Window()

	var b strings.Builder
	for month := 1; month <= 12; month++ {
		first := time.Date(start.Year(), time.Month(month), 1, 0, 0, 0, 0, start.Location())
		last := first.AddDate(0, 1, -1)

		count := 0
		if m.agenda != nil {
			for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
				count += len(m.agenda.On(d))
			}
		}

		style := m.styles.Cell
		if m.now().Year() == start.Year() && m.now().Month() == first.Month() {
			style = m.styles.CellToday
		}
		if first.Month() == m.cursor.Month() && first.Year() == m.cursor.Year() {
			style = m.styles.CellCursor
		}

		line := fmt.Sprintf("  %-10s %3d task(s)", first.Month(), count)
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderDayHeading(day time.Time) string {
	heading := fmt.Sprintf("%s %s", day.Weekday().String()[:3], dateutil.FormatDate(day))
	style := m.styles.Header
	if dateutil.SameDay(day, m.now()) {
		style = m.styles.CellToday
	}
	if dateutil.SameDay(day, m.cursor) {
		style = m.styles.CellCursor
	}
	return style.Render(heading)
}

func (m Model) renderDayTasks(day time.Time, indent string) string {
	tasks := m.agendaOn(day)
	if len(tasks) == 0 {
		return ""
	}

	selected := dateutil.SameDay(day, m.cursor)

	var b strings.Builder
	for i, t := range tasks {
		marker := " "
		if selected && i == m.taskIdx {
			marker = ">"
		}
		style := m.styles.taskStyle(t)
		if t.IsOverdue(m.now()) {
			style = m.styles.Overdue
		}
		b.WriteString(style.Render(fmt.Sprintf("%s%s #%d %s [%s]", indent, marker, t.ID, t.Title, t.Priority)))
		b.WriteString("\n")
	}
	return b.String()
}

// cellWidth divides the terminal width across the 7 grid columns.
func (m Model) cellWidth() int {
	if m.width <= 0 {
		return 12
	}
	w := m.width / 7
	if w < 8 {
		return 8
	}
	if w > 24 {
		return 24
	}
	return w
}

func pad(s string, width int) string {
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return string(r[:1])
	}
	return string(r[:width-1]) + "…"
}
