// Package mutation wraps task-mutating operations with success/failure
// notifications and, for calendar drops, an optimistic-update rollback
// path: a failed reschedule attempts to restore the previous date, and a
// failure of that restore is logged rather than surfaced a second time.
package mutation

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/javiermolinar/taller/internal/dateutil"
	"github.com/javiermolinar/taller/internal/task"
)

// Collaborator functions. Errors propagate as return values; none of the
// callbacks may panic across this boundary.
type (
	// UpdateDateFunc mutates exactly one schedule field of a task.
	UpdateDateFunc func(ctx context.Context, id int64, field task.ScheduleField, date time.Time) error
	// UpdateStatusFunc transitions a task's status.
	UpdateStatusFunc func(ctx context.Context, id int64, status task.Status) error
	// CreateFunc persists a new task.
	CreateFunc func(ctx context.Context, t *task.Task) error
	// DeleteFunc removes a task.
	DeleteFunc func(ctx context.Context, id int64) error
	// RefreshFunc resynchronizes the displayed window after its contents
	// changed. Wired to the navigator's Invalidate-then-Refetch.
	RefreshFunc func(ctx context.Context)
)

// OpState is the per-task operation state. A task re-enters Updating only
// from Idle; concurrent drops or resizes on the same task are rejected.
type OpState int

const (
	StateIdle OpState = iota
	StateUpdating
	StateRollingBack
)

// String returns the state name for logs.
func (s OpState) String() string {
	switch s {
	case StateUpdating:
		return "updating"
	case StateRollingBack:
		return "rolling_back"
	default:
		return "idle"
	}
}

// rollbackBackup captures the single schedule field a drop is about to
// change. It lives for exactly one operation and is never shared.
type rollbackBackup struct {
	taskID   int64
	field    task.ScheduleField
	original time.Time
}

// Coordinator performs optimistic task mutations with user feedback.
// Exactly one notification fires per user-initiated action, even when a
// failed action internally triggers a compensating rollback write.
type Coordinator struct {
	updateDate   UpdateDateFunc
	updateStatus UpdateStatusFunc
	create       CreateFunc
	remove       DeleteFunc
	refresh      RefreshFunc

	onError   func(error)
	onSuccess func(string)
	logf      func(format string, args ...any)

	mu     sync.Mutex
	states map[int64]OpState
}

// Config wires a Coordinator's collaborators.
type Config struct {
	UpdateDate   UpdateDateFunc
	UpdateStatus UpdateStatusFunc
	Create       CreateFunc
	Delete       DeleteFunc
	Refresh      RefreshFunc
	OnError      func(error)
	OnSuccess    func(string)
	// Logf receives rollback failures, which are logged but never
	// surfaced as a second user-facing notification. Defaults to
	// log.Printf.
	Logf func(format string, args ...any)
}

// New creates a Coordinator. Nil notification callbacks are allowed and
// treated as no-ops.
func New(cfg Config) *Coordinator {
	c := &Coordinator{
		updateDate:   cfg.UpdateDate,
		updateStatus: cfg.UpdateStatus,
		create:       cfg.Create,
		remove:       cfg.Delete,
		refresh:      cfg.Refresh,
		onError:      cfg.OnError,
		onSuccess:    cfg.OnSuccess,
		logf:         cfg.Logf,
		states:       make(map[int64]OpState),
	}
	if c.logf == nil {
		c.logf = log.Printf
	}
	return c
}

// State returns the current operation state for a task. The UI uses this
// as the "currently dragging" marker.
func (c *Coordinator) State(taskID int64) OpState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.states[taskID]
}

// begin transitions a task from Idle to Updating. It returns false when an
// operation is already in flight for the task.
func (c *Coordinator) begin(taskID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.states[taskID] != StateIdle {
		return false
	}
	c.states[taskID] = StateUpdating
	return true
}

func (c *Coordinator) setState(taskID int64, s OpState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.states[taskID] = s
}

// finish returns a task to Idle and clears its dragging marker. It runs
// deferred so the marker is cleared on every outcome.
func (c *Coordinator) finish(taskID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.states, taskID)
}

// HandleDrop reschedules a dropped task to newDate, optimistically.
//
// The task's highest-priority non-nil schedule field is the only field
// touched; a task with no schedule field set is not droppable and the call
// is a silent no-op. newDate is truncated to the day: dropping never
// changes time-of-day.
//
// On update failure a single compensating write restores the previous
// value. The original failure is always reported through OnError exactly
// once; a failure of the rollback itself is logged and swallowed, leaving
// the store possibly inconsistent with the UI until the next refetch.
func (c *Coordinator) HandleDrop(ctx context.Context, t *task.Task, newDate time.Time) {
	field, ok := t.CalendarField()
	if !ok {
		return
	}
	if !c.begin(t.ID) {
		return
	}
	defer c.finish(t.ID)

	backup := rollbackBackup{
		taskID:   t.ID,
		field:    field,
		original: *t.DateValue(field),
	}
	target := dateutil.TruncateToDay(newDate)

	if err := c.updateDate(ctx, t.ID, field, target); err != nil {
		c.setState(t.ID, StateRollingBack)
		if rbErr := c.updateDate(ctx, backup.taskID, backup.field, backup.original); rbErr != nil {
			c.logf("rollback of %s for task %d to %s failed: %v",
				backup.field, backup.taskID, dateutil.FormatDate(backup.original), rbErr)
		}
		c.fail(err)
		return
	}

	if c.refresh != nil {
		c.refresh(ctx)
	}
	c.succeed("Task rescheduled to " + dateutil.FormatDate(target))
}

// HandleResize adjusts a task's calendar date after a resize interaction.
// Field resolution and day truncation match HandleDrop, but a failure is
// reported directly with no compensating write: only the drop path carries
// rollback. The asymmetry mirrors the behavior this replaces and is kept
// on purpose.
func (c *Coordinator) HandleResize(ctx context.Context, t *task.Task, newStart time.Time) {
	field, ok := t.CalendarField()
	if !ok {
		return
	}
	if !c.begin(t.ID) {
		return
	}
	defer c.finish(t.ID)

	target := dateutil.TruncateToDay(newStart)

	if err := c.updateDate(ctx, t.ID, field, target); err != nil {
		c.fail(err)
		return
	}

	if c.refresh != nil {
		c.refresh(ctx)
	}
	c.succeed("Task dates updated")
}

// Create persists a new task and resynchronizes the window.
func (c *Coordinator) Create(ctx context.Context, t *task.Task) {
	if err := c.create(ctx, t); err != nil {
		c.fail(err)
		return
	}
	if c.refresh != nil {
		c.refresh(ctx)
	}
	c.succeed("Task created")
}

// Delete removes a task and resynchronizes the window.
func (c *Coordinator) Delete(ctx context.Context, id int64) {
	if err := c.remove(ctx, id); err != nil {
		c.fail(err)
		return
	}
	if c.refresh != nil {
		c.refresh(ctx)
	}
	c.succeed("Task deleted")
}

// SetStatus transitions a task's status and resynchronizes the window.
func (c *Coordinator) SetStatus(ctx context.Context, id int64, status task.Status) {
	if err := c.updateStatus(ctx, id, status); err != nil {
		c.fail(err)
		return
	}
	if c.refresh != nil {
		c.refresh(ctx)
	}
	c.succeed("Task marked " + string(status))
}

func (c *Coordinator) fail(err error) {
	if c.onError != nil {
		c.onError(err)
	}
}

func (c *Coordinator) succeed(msg string) {
	if c.onSuccess != nil {
		c.onSuccess(msg)
	}
}
