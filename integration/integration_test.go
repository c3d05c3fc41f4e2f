package integration

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/javiermolinar/taller/internal/db"
	"github.com/javiermolinar/taller/internal/dateutil"
	"github.com/javiermolinar/taller/internal/mutation"
	"github.com/javiermolinar/taller/internal/navigator"
	"github.com/javiermolinar/taller/internal/task"
)

// openRepo creates a fresh file-backed repository for each test with
// automatic cleanup.
func openRepo(t *testing.T) *db.SQLite {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	repo, err := db.New(dbPath)
	if err != nil {
		t.Fatalf("failed to open repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

// mustParseDate parses a date string or fails the test.
func mustParseDate(t *testing.T, s string) time.Time {
	t.Helper()
	date, err := dateutil.ParseDate(s)
	if err != nil {
		t.Fatalf("failed to parse date %q: %v", s, err)
	}
	return date
}

// createTask is a helper to create and insert a scheduled task.
func createTask(t *testing.T, repo *db.SQLite, title, date string) *task.Task {
	t.Helper()
	tsk, err := task.New(title, "", task.PriorityMedium, mustParseDate(t, date))
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}
	if err := repo.CreateTask(context.Background(), tsk); err != nil {
		t.Fatalf("failed to insert task: %v", err)
	}
	return tsk
}

func TestNavigatorAgainstRepository(t *testing.T) {
	repo := openRepo(t)

	createTask(t, repo, "June job", "2025-06-10")
	createTask(t, repo, "July job", "2025-07-05")

	var windows [][]*task.Task
	nav := navigator.New(
		repo.ListTasksByDateRange,
		func(ts []*task.Task) { windows = append(windows, ts) },
		func(err error) { t.Errorf("unexpected fetch error: %v", err) },
		navigator.WithNow(func() time.Time { return mustParseDate(t, "2025-06-15") }),
	)

	nav.Refetch(context.Background(), false)
	if len(windows) != 1 || len(windows[0]) != 1 || windows[0][0].Title != "June job" {
		t.Fatalf("june window: got %d deliveries", len(windows))
	}

	// A duplicate refetch of the same window must not hit the database.
	nav.Refetch(context.Background(), false)
	if len(windows) != 1 {
		t.Fatalf("deduplicated refetch delivered a second result")
	}

	if !nav.Next() {
		t.Fatal("Next should change the window")
	}
	nav.Refetch(context.Background(), false)
	if len(windows) != 2 || len(windows[1]) != 1 || windows[1][0].Title != "July job" {
		t.Fatalf("july window not delivered after navigation")
	}
}

func TestDropPersistsAndRefreshesWindow(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	tsk := createTask(t, repo, "Fret dress", "2025-06-10")

	var windows [][]*task.Task
	nav := navigator.New(
		repo.ListTasksByDateRange,
		func(ts []*task.Task) { windows = append(windows, ts) },
		func(err error) { t.Errorf("unexpected fetch error: %v", err) },
		navigator.WithNow(func() time.Time { return mustParseDate(t, "2025-06-15") }),
	)
	nav.Refetch(ctx, false)

	var notices []string
	coord := mutation.New(mutation.Config{
		UpdateDate:   repo.UpdateTaskDate,
		UpdateStatus: repo.UpdateTaskStatus,
		Create:       repo.CreateTask,
		Delete:       repo.DeleteTask,
		Refresh: func(ctx context.Context) {
			nav.Invalidate()
			nav.Refetch(ctx, true)
		},
		OnError:   func(err error) { t.Errorf("unexpected drop error: %v", err) },
		OnSuccess: func(msg string) { notices = append(notices, msg) },
	})

	coord.HandleDrop(ctx, tsk, mustParseDate(t, "2025-06-20"))

	got, err := repo.GetTask(ctx, tsk.ID)
	if err != nil {
		t.Fatalf("failed to get task: %v", err)
	}
	if got.DueDate == nil || dateutil.FormatDate(*got.DueDate) != "2025-06-20" {
		t.Errorf("due date after drop: %v, want 2025-06-20", got.DueDate)
	}
	if got.PersonalDueDate != nil || got.ScheduledDate != nil {
		t.Error("drop touched more than one schedule field")
	}

	if len(notices) != 1 || notices[0] != "Task rescheduled to 2025-06-20" {
		t.Errorf("notifications = %q, want one reschedule notice", notices)
	}

	// The refresh must have re-delivered the window with the moved task.
	if len(windows) != 2 {
		t.Fatalf("window delivered %d times, want 2 (initial + post-drop refresh)", len(windows))
	}
	moved := windows[1]
	if len(moved) != 1 {
		t.Fatalf("refreshed window has %d tasks, want 1", len(moved))
	}
	if date, _ := moved[0].CalendarDate(); dateutil.FormatDate(date) != "2025-06-20" {
		t.Errorf("refreshed window shows %s, want 2025-06-20", dateutil.FormatDate(date))
	}
}

func TestDropOnMissingTaskReportsOnce(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	var errs []error
	var notices []string
	var logged []string
	coord := mutation.New(mutation.Config{
		UpdateDate:   repo.UpdateTaskDate,
		UpdateStatus: repo.UpdateTaskStatus,
		Create:       repo.CreateTask,
		Delete:       repo.DeleteTask,
		OnError:      func(err error) { errs = append(errs, err) },
		OnSuccess:    func(msg string) { notices = append(notices, msg) },
		Logf: func(format string, args ...any) {
			logged = append(logged, format)
		},
	})

	// A task that was deleted out from under the UI: the update fails, and
	// so does the compensating write. The user still sees exactly one error.
	ghost := &task.Task{ID: 99999, Title: "gone", DueDate: func() *time.Time {
		d := mustParseDate(t, "2025-06-10")
		return &d
	}()}

	coord.HandleDrop(ctx, ghost, mustParseDate(t, "2025-06-20"))

	if len(errs) != 1 {
		t.Fatalf("error notifications = %d, want exactly 1", len(errs))
	}
	if !errors.Is(errs[0], task.ErrTaskNotFound) {
		t.Errorf("got error %v, want %v", errs[0], task.ErrTaskNotFound)
	}
	if len(notices) != 0 {
		t.Errorf("unexpected success notifications: %q", notices)
	}
	if len(logged) != 1 {
		t.Errorf("rollback failures logged %d times, want 1", len(logged))
	}
}

func TestFullWorkflow(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	// 1. Register a client and their instrument.
	client, err := task.NewClient("Ana Reyes", "ana@example.com", "")
	if err != nil {
		t.Fatalf("failed to build client: %v", err)
	}
	if err := repo.CreateClient(ctx, client); err != nil {
		t.Fatalf("failed to insert client: %v", err)
	}
	inst, err := task.NewInstrument("Telecaster", "SN42", "", &client.ID)
	if err != nil {
		t.Fatalf("failed to build instrument: %v", err)
	}
	if err := repo.CreateInstrument(ctx, inst); err != nil {
		t.Fatalf("failed to insert instrument: %v", err)
	}

	// 2. Schedule maintenance work against the instrument.
	setup := createTask(t, repo, "Full setup", "2025-05-01")
	wiring := createTask(t, repo, "Rewire pickups", "2025-05-03")

	// 3. List the week.
	tasks, err := repo.ListTasksByDateRange(ctx,
		mustParseDate(t, "2025-04-28"), mustParseDate(t, "2025-05-04"))
	if err != nil {
		t.Fatalf("failed to list tasks: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}

	// 4. Complete the setup and hand the instrument back.
	if err := repo.UpdateTaskStatus(ctx, setup.ID, task.StatusCompleted); err != nil {
		t.Fatalf("failed to complete task: %v", err)
	}
	if err := repo.UpdateInstrumentStatus(ctx, inst.ID, task.InstrumentReady); err != nil {
		t.Fatalf("failed to update instrument: %v", err)
	}

	// 5. Push the remaining work out a week.
	if err := repo.UpdateTaskDate(ctx, wiring.ID, task.FieldDueDate, mustParseDate(t, "2025-05-10")); err != nil {
		t.Fatalf("failed to reschedule task: %v", err)
	}

	// 6. The original window now only holds the completed setup.
	remaining, err := repo.ListTasksByDateRange(ctx,
		mustParseDate(t, "2025-04-28"), mustParseDate(t, "2025-05-04"))
	if err != nil {
		t.Fatalf("failed to list tasks: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != setup.ID {
		t.Fatalf("original window: got %d tasks", len(remaining))
	}
	if remaining[0].Status != task.StatusCompleted {
		t.Errorf("setup status: got %q, want completed", remaining[0].Status)
	}

	// 7. The moved task shows up on its new date.
	moved, err := repo.ListTasksByDateRange(ctx,
		mustParseDate(t, "2025-05-10"), mustParseDate(t, "2025-05-10"))
	if err != nil {
		t.Fatalf("failed to list tasks: %v", err)
	}
	if len(moved) != 1 || moved[0].ID != wiring.ID {
		t.Fatalf("new date window: got %d tasks", len(moved))
	}
}
