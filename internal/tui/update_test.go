package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/taller/internal/calendar"
	"github.com/javiermolinar/taller/internal/config"
	"github.com/javiermolinar/taller/internal/task"
	"github.com/javiermolinar/taller/internal/tui/commands"
)

// stubRepo satisfies task.Repository with canned window contents.
type stubRepo struct {
	tasks []*task.Task
}

func (r *stubRepo) CreateTask(context.Context, *task.Task) error  { return nil }
func (r *stubRepo) GetTask(context.Context, int64) (*task.Task, error) {
	return nil, task.ErrTaskNotFound
}
func (r *stubRepo) DeleteTask(context.Context, int64) error { return nil }
func (r *stubRepo) UpdateTaskDate(context.Context, int64, task.ScheduleField, time.Time) error {
	return nil
}
func (r *stubRepo) UpdateTaskStatus(context.Context, int64, task.Status) error { return nil }
func (r *stubRepo) UpdateTaskDetails(context.Context, int64, string, string, task.Priority) error {
	return nil
}
func (r *stubRepo) ListTasksByDateRange(context.Context, time.Time, time.Time) ([]*task.Task, error) {
	return r.tasks, nil
}
func (r *stubRepo) ListUnscheduledTasks(context.Context) ([]*task.Task, error) { return nil, nil }
func (r *stubRepo) CreateInstrument(context.Context, *task.Instrument) error   { return nil }
func (r *stubRepo) GetInstrument(context.Context, int64) (*task.Instrument, error) {
	return nil, task.ErrInstrumentNotFound
}
func (r *stubRepo) ListInstruments(context.Context) ([]*task.Instrument, error) { return nil, nil }
func (r *stubRepo) UpdateInstrumentStatus(context.Context, int64, task.InstrumentStatus) error {
	return nil
}
func (r *stubRepo) CreateClient(context.Context, *task.Client) error { return nil }
func (r *stubRepo) GetClient(context.Context, int64) (*task.Client, error) {
	return nil, task.ErrClientNotFound
}
func (r *stubRepo) ListClients(context.Context) ([]*task.Client, error) { return nil, nil }
func (r *stubRepo) Close() error                                        { return nil }

func testModel(t *testing.T, repo *stubRepo) Model {
	t.Helper()
	cfg := config.Default()
	cfg.Storage.DBPath = "unused"
	return New(repo, cfg)
}

func TestUpdateTasksLoaded(t *testing.T) {
	today := time.Date(time.Now().Year(), time.Now().Month(), time.Now().Day(), 0, 0, 0, 0, time.Local)
	tasks := []*task.Task{
		{ID: 1, Title: "Restring", Priority: task.PriorityMedium, Status: task.StatusPending, DueDate: &today},
	}

	m := testModel(t, &stubRepo{tasks: tasks})
	updated, cmd := m.Update(commands.TasksLoadedMsg{Tasks: tasks})
	got := updated.(Model)

	if cmd != nil {
		t.Error("loading tasks should not produce a follow-up command")
	}
	if got.loading {
		t.Error("loading flag still set")
	}
	if got.agenda == nil || got.agenda.Count() != 1 {
		t.Fatalf("agenda not rebuilt from loaded tasks")
	}
	if sel := got.selectedTask(); sel == nil || sel.ID != 1 {
		t.Errorf("cursor day task not selectable")
	}
}

func TestUpdateStatusMessages(t *testing.T) {
	m := testModel(t, &stubRepo{})

	updated, cmd := m.Update(commands.StatusMsg{Msg: "Task rescheduled to 2024-01-20"})
	got := updated.(Model)
	if got.statusMsg != "Task rescheduled to 2024-01-20" {
		t.Errorf("status = %q", got.statusMsg)
	}
	if cmd == nil {
		t.Error("status message should schedule its own clearing")
	}

	// The clear fires only after the display window elapsed.
	got.statusTime = time.Now().Add(-time.Second)
	updated, _ = got.Update(commands.ClearStatusMsg{})
	if updated.(Model).statusMsg != "" {
		t.Error("expired status message not cleared")
	}
}

func TestUpdateErrMsg(t *testing.T) {
	m := testModel(t, &stubRepo{})
	m.loading = true

	updated, _ := m.Update(commands.ErrMsg{Err: context.DeadlineExceeded})
	got := updated.(Model)
	if got.loading {
		t.Error("loading flag still set after an error")
	}
	if got.statusMsg == "" {
		t.Error("error not surfaced in the status line")
	}
}

func TestUpdateBatchMsg(t *testing.T) {
	m := testModel(t, &stubRepo{})
	m.loading = true

	batch := commands.BatchMsg{Msgs: []tea.Msg{
		commands.StatusMsg{Msg: "Task deleted"},
		commands.TasksLoadedMsg{Tasks: nil},
	}}

	updated, _ := m.Update(batch)
	got := updated.(Model)
	if got.statusMsg != "Task deleted" {
		t.Errorf("status = %q, want notification from the batch", got.statusMsg)
	}
	if got.loading {
		t.Error("window reload in the batch not applied")
	}
}

func TestNextViewMode(t *testing.T) {
	order := []calendar.ViewMode{
		calendar.ViewDay, calendar.ViewWeek, calendar.ViewMonth,
		calendar.ViewYear, calendar.ViewList, calendar.ViewTimeline,
	}
	for i, mode := range order {
		want := order[(i+1)%len(order)]
		if got := nextViewMode(mode); got != want {
			t.Errorf("nextViewMode(%s) = %s, want %s", mode, got, want)
		}
	}
	if got := nextViewMode(calendar.ViewMode("bogus")); got != calendar.ViewMonth {
		t.Errorf("unknown mode cycles to %s, want month", got)
	}
}

func TestCursorRowStep(t *testing.T) {
	if got := cursorRowStep(calendar.ViewMonth); got != 7 {
		t.Errorf("month row step = %d, want 7", got)
	}
	if got := cursorRowStep(calendar.ViewList); got != 7 {
		t.Errorf("list row step = %d, want 7", got)
	}
	if got := cursorRowStep(calendar.ViewWeek); got != 1 {
		t.Errorf("week row step = %d, want 1", got)
	}
}

func TestPadAndTruncate(t *testing.T) {
	if got := pad("ab", 4); got != "ab  " {
		t.Errorf("pad = %q", got)
	}
	if got := pad("abcdef", 4); got != "abcd" {
		t.Errorf("pad overflow = %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("a long title", 6); got != "a lon…" {
		t.Errorf("truncate = %q", got)
	}
	// Multi-byte runes count as single columns.
	if got := pad("ñandú", 7); got != "ñandú  " {
		t.Errorf("pad multibyte = %q", got)
	}
	if got := truncate("día de prueba", 4); got != "día…" {
		t.Errorf("truncate multibyte = %q", got)
	}
}
