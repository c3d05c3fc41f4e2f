package task

import (
	"context"
	"time"
)

// Repository defines the storage interface for tasks and inventory.
type Repository interface {
	// CreateTask adds a new task to the repository.
	CreateTask(ctx context.Context, task *Task) error

	// GetTask retrieves a task by ID. Returns ErrTaskNotFound if missing.
	GetTask(ctx context.Context, id int64) (*Task, error)

	// DeleteTask removes a task permanently.
	DeleteTask(ctx context.Context, id int64) error

	// UpdateTaskDate updates exactly one schedule field of a task.
	// This is the only mutation the reschedule path is allowed to make.
	UpdateTaskDate(ctx context.Context, id int64, field ScheduleField, date time.Time) error

	// UpdateTaskStatus transitions a task's status.
	UpdateTaskStatus(ctx context.Context, id int64, status Status) error

	// UpdateTaskDetails updates title, notes and priority in place.
	UpdateTaskDetails(ctx context.Context, id int64, title, notes string, priority Priority) error

	// ListTasksByDateRange returns all tasks whose calendar date falls
	// within the range (inclusive), ordered by calendar date.
	ListTasksByDateRange(ctx context.Context, start, end time.Time) ([]*Task, error)

	// ListUnscheduledTasks returns open tasks with no schedule field set.
	ListUnscheduledTasks(ctx context.Context) ([]*Task, error)

	// CreateInstrument adds an instrument to the inventory.
	CreateInstrument(ctx context.Context, inst *Instrument) error

	// GetInstrument retrieves an instrument by ID.
	GetInstrument(ctx context.Context, id int64) (*Instrument, error)

	// ListInstruments returns all instruments, newest first.
	ListInstruments(ctx context.Context) ([]*Instrument, error)

	// UpdateInstrumentStatus transitions an instrument's workshop status.
	UpdateInstrumentStatus(ctx context.Context, id int64, status InstrumentStatus) error

	// CreateClient adds a client.
	CreateClient(ctx context.Context, c *Client) error

	// GetClient retrieves a client by ID.
	GetClient(ctx context.Context, id int64) (*Client, error)

	// ListClients returns all clients ordered by name.
	ListClients(ctx context.Context) ([]*Client, error)

	// Close releases any resources held by the repository.
	Close() error
}
