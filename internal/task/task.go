// Package task defines the core domain types for taller.
package task

import (
	"errors"
	"strings"
	"time"

	"github.com/javiermolinar/taller/internal/dateutil"
)

// Validation errors.
var (
	ErrEmptyTitle      = errors.New("title cannot be empty")
	ErrInvalidStatus   = errors.New("status must be 'pending', 'in_progress', 'completed' or 'cancelled'")
	ErrInvalidPriority = errors.New("priority must be 'low', 'medium' or 'high'")
)

// Domain errors.
var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrInstrumentNotFound = errors.New("instrument not found")
	ErrClientNotFound     = errors.New("client not found")
	ErrNotSchedulable     = errors.New("task has no schedule date set")
)

// Status represents the state of a maintenance task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// ParseStatus validates and normalizes a status string.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, nil
	case StatusInProgress:
		return StatusInProgress, nil
	case StatusCompleted:
		return StatusCompleted, nil
	case StatusCancelled:
		return StatusCancelled, nil
	default:
		return "", ErrInvalidStatus
	}
}

// Priority represents the urgency of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority validates and normalizes a priority string.
func ParsePriority(s string) (Priority, error) {
	switch Priority(strings.ToLower(strings.TrimSpace(s))) {
	case PriorityLow:
		return PriorityLow, nil
	case PriorityMedium:
		return PriorityMedium, nil
	case PriorityHigh:
		return PriorityHigh, nil
	default:
		return "", ErrInvalidPriority
	}
}

// ScheduleField identifies which of a task's date fields drives its
// calendar placement. Fields are checked in a fixed priority order:
// due date, then personal due date, then scheduled date.
type ScheduleField string

const (
	FieldDueDate         ScheduleField = "due_date"
	FieldPersonalDueDate ScheduleField = "personal_due_date"
	FieldScheduledDate   ScheduleField = "scheduled_date"
)

// Task represents a maintenance job on the workshop calendar.
type Task struct {
	ID       int64
	Title    string
	Notes    string
	Status   Status
	Priority Priority

	InstrumentID *int64
	ClientID     *int64

	// Schedule fields, highest priority first. The first non-nil one is
	// the task's calendar date; reschedule operations touch only that field.
	DueDate         *time.Time
	PersonalDueDate *time.Time
	ScheduledDate   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// New creates a Task with validation. date may be zero, in which case the
// task starts unscheduled (no calendar placement).
func New(title, notes string, priority Priority, date time.Time) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if priority == "" {
		priority = PriorityMedium
	}
	if _, err := ParsePriority(string(priority)); err != nil {
		return nil, err
	}

	t := &Task{
		Title:     title,
		Notes:     notes,
		Status:    StatusPending,
		Priority:  priority,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if !date.IsZero() {
		d := dateutil.TruncateToDay(date)
		t.DueDate = &d
	}
	return t, nil
}

// CalendarField returns the schedule field driving this task's calendar
// placement, resolved by priority. ok is false when no field is set, in
// which case the task is neither placeable nor reschedulable.
func (t *Task) CalendarField() (field ScheduleField, ok bool) {
	switch {
	case t.DueDate != nil:
		return FieldDueDate, true
	case t.PersonalDueDate != nil:
		return FieldPersonalDueDate, true
	case t.ScheduledDate != nil:
		return FieldScheduledDate, true
	default:
		return "", false
	}
}

// CalendarDate returns the date driving this task's calendar placement.
// ok is false when the task is unscheduled.
func (t *Task) CalendarDate() (date time.Time, ok bool) {
	field, ok := t.CalendarField()
	if !ok {
		return time.Time{}, false
	}
	return *t.dateFor(field), true
}

// DateValue returns the current value of the given schedule field, or nil.
func (t *Task) DateValue(field ScheduleField) *time.Time {
	return t.dateFor(field)
}

// SetDateValue sets the given schedule field, truncating to the day.
func (t *Task) SetDateValue(field ScheduleField, date time.Time) {
	d := dateutil.TruncateToDay(date)
	switch field {
	case FieldDueDate:
		t.DueDate = &d
	case FieldPersonalDueDate:
		t.PersonalDueDate = &d
	case FieldScheduledDate:
		t.ScheduledDate = &d
	}
}

func (t *Task) dateFor(field ScheduleField) *time.Time {
	switch field {
	case FieldDueDate:
		return t.DueDate
	case FieldPersonalDueDate:
		return t.PersonalDueDate
	case FieldScheduledDate:
		return t.ScheduledDate
	default:
		return nil
	}
}

// IsOpen returns true if the task is still actionable.
func (t *Task) IsOpen() bool {
	return t.Status == StatusPending || t.Status == StatusInProgress
}

// IsDone returns true if the task reached a terminal status.
func (t *Task) IsDone() bool {
	return t.Status == StatusCompleted || t.Status == StatusCancelled
}

// IsOverdue returns true if the task is open and its calendar date is
// before today.
func (t *Task) IsOverdue(now time.Time) bool {
	date, ok := t.CalendarDate()
	if !ok || !t.IsOpen() {
		return false
	}
	return date.Before(dateutil.TruncateToDay(now))
}
