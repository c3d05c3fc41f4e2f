// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/taller/internal/dateutil"
	"github.com/javiermolinar/taller/internal/task"
)

// calendarExpr resolves a row's calendar date by field priority.
const calendarExpr = "COALESCE(due_date, personal_due_date, scheduled_date)"

// SQLite implements task.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

func (s *SQLite) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS clients (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			name       TEXT NOT NULL,
			email      TEXT NOT NULL DEFAULT '',
			phone      TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS instruments (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			name       TEXT NOT NULL,
			serial     TEXT NOT NULL DEFAULT '',
			status     TEXT NOT NULL,
			client_id  INTEGER REFERENCES clients(id),
			notes      TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS tasks (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			title             TEXT NOT NULL,
			notes             TEXT NOT NULL DEFAULT '',
			status            TEXT NOT NULL,
			priority          TEXT NOT NULL,
			instrument_id     INTEGER REFERENCES instruments(id),
			client_id         INTEGER REFERENCES clients(id),
			due_date          TEXT,
			personal_due_date TEXT,
			scheduled_date    TEXT,
			created_at        TEXT NOT NULL,
			updated_at        TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_tasks_calendar
			ON tasks (` + calendarExpr + `);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// dateColumns maps schedule fields to their columns. Guards against any
// field value reaching SQL as a raw identifier.
var dateColumns = map[task.ScheduleField]string{
	task.FieldDueDate:         "due_date",
	task.FieldPersonalDueDate: "personal_due_date",
	task.FieldScheduledDate:   "scheduled_date",
}

const taskColumns = `id, title, notes, status, priority, instrument_id, client_id,
	       due_date, personal_due_date, scheduled_date, created_at, updated_at`

// CreateTask adds a new task to the repository and assigns its ID.
func (s *SQLite) CreateTask(ctx context.Context, t *task.Task) error {
	query := `
		INSERT INTO tasks (
			title, notes, status, priority, instrument_id, client_id,
			due_date, personal_due_date, scheduled_date, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		t.Title,
		t.Notes,
		t.Status,
		t.Priority,
		t.InstrumentID,
		t.ClientID,
		nullableDate(t.DueDate),
		nullableDate(t.PersonalDueDate),
		nullableDate(t.ScheduledDate),
		t.CreatedAt.Format(time.RFC3339),
		t.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	t.ID = id

	return nil
}

// GetTask retrieves a task by ID.
func (s *SQLite) GetTask(ctx context.Context, id int64) (*task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`

	t, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("task %d: %w", id, task.ErrTaskNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying task: %w", err)
	}
	return t, nil
}

// DeleteTask removes a task permanently.
func (s *SQLite) DeleteTask(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("task %d: %w", id, task.ErrTaskNotFound)
	}
	return nil
}

// UpdateTaskDate updates exactly one schedule field of a task.
func (s *SQLite) UpdateTaskDate(ctx context.Context, id int64, field task.ScheduleField, date time.Time) error {
	column, ok := dateColumns[field]
	if !ok {
		return fmt.Errorf("unknown schedule field %q", field)
	}

	query := `UPDATE tasks SET ` + column + ` = ?, updated_at = ? WHERE id = ?`
	result, err := s.db.ExecContext(ctx, query,
		dateutil.FormatDate(date),
		time.Now().Format(time.RFC3339),
		id,
	)
	if err != nil {
		return fmt.Errorf("updating task %s: %w", column, err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("task %d: %w", id, task.ErrTaskNotFound)
	}
	return nil
}

// UpdateTaskStatus transitions a task's status.
func (s *SQLite) UpdateTaskStatus(ctx context.Context, id int64, status task.Status) error {
	query := `UPDATE tasks SET status = ?, updated_at = ? WHERE id = ?`
	result, err := s.db.ExecContext(ctx, query, status, time.Now().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("updating task status: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("task %d: %w", id, task.ErrTaskNotFound)
	}
	return nil
}

// UpdateTaskDetails updates title, notes and priority in place.
func (s *SQLite) UpdateTaskDetails(ctx context.Context, id int64, title, notes string, priority task.Priority) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return task.ErrEmptyTitle
	}

	query := `UPDATE tasks SET title = ?, notes = ?, priority = ?, updated_at = ? WHERE id = ?`
	result, err := s.db.ExecContext(ctx, query, title, notes, priority, time.Now().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("updating task details: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("task %d: %w", id, task.ErrTaskNotFound)
	}
	return nil
}

// ListTasksByDateRange returns all tasks whose calendar date falls within
// the range (inclusive), ordered by calendar date.
func (s *SQLite) ListTasksByDateRange(ctx context.Context, start, end time.Time) ([]*task.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE ` + calendarExpr + ` >= ? AND ` + calendarExpr + ` <= ?
		ORDER BY ` + calendarExpr + `, id
	`

	rows, err := s.db.QueryContext(ctx, query, dateutil.FormatDate(start), dateutil.FormatDate(end))
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}

	return tasks, nil
}

// ListUnscheduledTasks returns open tasks with no schedule field set.
func (s *SQLite) ListUnscheduledTasks(ctx context.Context) ([]*task.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE ` + calendarExpr + ` IS NULL
		  AND status IN (?, ?)
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query, task.StatusPending, task.StatusInProgress)
	if err != nil {
		return nil, fmt.Errorf("querying unscheduled tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}

	return tasks, nil
}

// CreateInstrument adds an instrument to the inventory.
func (s *SQLite) CreateInstrument(ctx context.Context, inst *task.Instrument) error {
	query := `
		INSERT INTO instruments (name, serial, status, client_id, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	result, err := s.db.ExecContext(ctx, query,
		inst.Name,
		inst.Serial,
		inst.Status,
		inst.ClientID,
		inst.Notes,
		inst.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting instrument: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	inst.ID = id
	return nil
}

// GetInstrument retrieves an instrument by ID.
func (s *SQLite) GetInstrument(ctx context.Context, id int64) (*task.Instrument, error) {
	query := `SELECT id, name, serial, status, client_id, notes, created_at FROM instruments WHERE id = ?`

	var (
		inst      task.Instrument
		clientID  sql.NullInt64
		createdAt string
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&inst.ID, &inst.Name, &inst.Serial, &inst.Status, &clientID, &inst.Notes, &createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("instrument %d: %w", id, task.ErrInstrumentNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying instrument: %w", err)
	}

	if clientID.Valid {
		inst.ClientID = &clientID.Int64
	}
	inst.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}
	return &inst, nil
}

// ListInstruments returns all instruments, newest first.
func (s *SQLite) ListInstruments(ctx context.Context) ([]*task.Instrument, error) {
	query := `SELECT id, name, serial, status, client_id, notes, created_at FROM instruments ORDER BY id DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying instruments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var instruments []*task.Instrument
	for rows.Next() {
		var (
			inst      task.Instrument
			clientID  sql.NullInt64
			createdAt string
		)
		if err := rows.Scan(&inst.ID, &inst.Name, &inst.Serial, &inst.Status, &clientID, &inst.Notes, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning instrument: %w", err)
		}
		if clientID.Valid {
			inst.ClientID = &clientID.Int64
		}
		inst.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created at: %w", err)
		}
		instruments = append(instruments, &inst)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating instruments: %w", err)
	}
	return instruments, nil
}

// UpdateInstrumentStatus transitions an instrument's workshop status.
func (s *SQLite) UpdateInstrumentStatus(ctx context.Context, id int64, status task.InstrumentStatus) error {
	result, err := s.db.ExecContext(ctx, `UPDATE instruments SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("updating instrument status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("instrument %d: %w", id, task.ErrInstrumentNotFound)
	}
	return nil
}

// CreateClient adds a client.
func (s *SQLite) CreateClient(ctx context.Context, c *task.Client) error {
	query := `INSERT INTO clients (name, email, phone, created_at) VALUES (?, ?, ?, ?)`
	result, err := s.db.ExecContext(ctx, query, c.Name, c.Email, c.Phone, c.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting client: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	c.ID = id
	return nil
}

// GetClient retrieves a client by ID.
func (s *SQLite) GetClient(ctx context.Context, id int64) (*task.Client, error) {
	query := `SELECT id, name, email, phone, created_at FROM clients WHERE id = ?`

	var (
		c         task.Client
		createdAt string
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("client %d: %w", id, task.ErrClientNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying client: %w", err)
	}

	c.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}
	return &c, nil
}

// ListClients returns all clients ordered by name.
func (s *SQLite) ListClients(ctx context.Context) ([]*task.Client, error) {
	query := `SELECT id, name, email, phone, created_at FROM clients ORDER BY name, id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying clients: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var clients []*task.Client
	for rows.Next() {
		var (
			c         task.Client
			createdAt string
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning client: %w", err)
		}
		c.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created at: %w", err)
		}
		clients = append(clients, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating clients: %w", err)
	}
	return clients, nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// scanner abstracts *sql.Row and *sql.Rows for shared task scanning.
type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*task.Task, error) {
	var (
		t            task.Task
		instrumentID sql.NullInt64
		clientID     sql.NullInt64
		due          sql.NullString
		personal     sql.NullString
		scheduled    sql.NullString
		createdAt    string
		updatedAt    string
	)

	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Notes,
		&t.Status,
		&t.Priority,
		&instrumentID,
		&clientID,
		&due,
		&personal,
		&scheduled,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if instrumentID.Valid {
		t.InstrumentID = &instrumentID.Int64
	}
	if clientID.Valid {
		t.ClientID = &clientID.Int64
	}

	if t.DueDate, err = parseNullDate(due); err != nil {
		return nil, fmt.Errorf("parsing due date: %w", err)
	}
	if t.PersonalDueDate, err = parseNullDate(personal); err != nil {
		return nil, fmt.Errorf("parsing personal due date: %w", err)
	}
	if t.ScheduledDate, err = parseNullDate(scheduled); err != nil {
		return nil, fmt.Errorf("parsing scheduled date: %w", err)
	}

	if t.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}
	if t.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated at: %w", err)
	}

	return &t, nil
}

// parseNullDate parses a nullable date column.
// Date-only values are parsed in local timezone to match time.Now() behavior.
func parseNullDate(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateutil.Layout, v.String, time.Local)
	if err != nil {
		return nil, fmt.Errorf("unrecognized date format: %s", v.String)
	}
	return &t, nil
}

// nullableDate renders an optional date for storage.
func nullableDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return dateutil.FormatDate(*t)
}
