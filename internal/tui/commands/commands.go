// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/taller/internal/mutation"
	"github.com/javiermolinar/taller/internal/navigator"
	"github.com/javiermolinar/taller/internal/task"
)

// TasksLoadedMsg is sent when the viewing window's tasks are loaded.
type TasksLoadedMsg struct {
	Tasks []*task.Task
}

// ErrMsg is sent when an operation fails.
type ErrMsg struct {
	Err error
}

// StatusMsg is sent for temporary status messages.
type StatusMsg struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// BatchMsg bundles the messages one synchronous operation produced
// (e.g. a mutation emits both a notification and a window reload).
type BatchMsg struct {
	Msgs []tea.Msg
}

// Feedback is the sink the navigator and coordinator deliver into. Each
// command drains whatever its synchronous call produced and hands it to
// the update loop. Results of superseded fetches never reach the sink, so
// a stale command simply yields no message.
type Feedback struct {
	ch chan tea.Msg
}

// NewFeedback creates a Feedback sink.
func NewFeedback() *Feedback {
	return &Feedback{ch: make(chan tea.Msg, 16)}
}

// Tasks delivers a loaded window. Wire to navigator's OnTasks.
func (f *Feedback) Tasks(tasks []*task.Task) {
	f.ch <- TasksLoadedMsg{Tasks: tasks}
}

// Error delivers a failure. Wire to navigator's and coordinator's OnError.
func (f *Feedback) Error(err error) {
	f.ch <- ErrMsg{Err: err}
}

// Success delivers a success notification. Wire to coordinator's OnSuccess.
func (f *Feedback) Success(msg string) {
	f.ch <- StatusMsg{Msg: msg}
}

// drain collects everything currently in the sink. Returns nil when the
// operation produced nothing (deduplicated or superseded).
func (f *Feedback) drain() tea.Msg {
	var msgs []tea.Msg
	for {
		select {
		case m := <-f.ch:
			msgs = append(msgs, m)
		default:
			switch len(msgs) {
			case 0:
				return nil
			case 1:
				return msgs[0]
			default:
				return BatchMsg{Msgs: msgs}
			}
		}
	}
}

// Refetch fetches the current window through the navigator. Pass force
// after mutations that changed the window's contents without changing the
// window itself.
func Refetch(nav *navigator.Navigator, fb *Feedback, force bool) tea.Cmd {
	return func() tea.Msg {
		nav.Refetch(context.Background(), force)
		return fb.drain()
	}
}

// Drop reschedules a task to the target date with rollback-on-failure.
func Drop(coord *mutation.Coordinator, fb *Feedback, t *task.Task, date time.Time) tea.Cmd {
	return func() tea.Msg {
		coord.HandleDrop(context.Background(), t, date)
		return fb.drain()
	}
}

// Resize shifts a task's calendar date after a resize interaction.
func Resize(coord *mutation.Coordinator, fb *Feedback, t *task.Task, date time.Time) tea.Cmd {
	return func() tea.Msg {
		coord.HandleResize(context.Background(), t, date)
		return fb.drain()
	}
}

// CreateTask persists a new task and reloads the window.
func CreateTask(coord *mutation.Coordinator, fb *Feedback, t *task.Task) tea.Cmd {
	return func() tea.Msg {
		coord.Create(context.Background(), t)
		return fb.drain()
	}
}

// DeleteTask removes a task and reloads the window.
func DeleteTask(coord *mutation.Coordinator, fb *Feedback, id int64) tea.Cmd {
	return func() tea.Msg {
		coord.Delete(context.Background(), id)
		return fb.drain()
	}
}

// SetStatus transitions a task's status and reloads the window.
func SetStatus(coord *mutation.Coordinator, fb *Feedback, id int64, status task.Status) tea.Cmd {
	return func() tea.Msg {
		coord.SetStatus(context.Background(), id, status)
		return fb.drain()
	}
}

// ClearStatusAfter schedules clearing of the status line.
func ClearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
