package mutation

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/javiermolinar/taller/internal/task"
)

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.Local)
	return &t
}

// dateCall records one UpdateDateFunc invocation.
type dateCall struct {
	id    int64
	field task.ScheduleField
	date  time.Time
}

// harness wires a Coordinator to recording fakes.
type harness struct {
	coord *Coordinator

	dateCalls   []dateCall
	dateErrs    []error // popped per call; nil entries mean success
	refreshed   int
	errs        []error
	successes   []string
	logEntries  []string
	statusCalls []task.Status
}

func newHarness() *harness {
	h := &harness{}
	h.coord = New(Config{
		UpdateDate: func(_ context.Context, id int64, field task.ScheduleField, date time.Time) error {
			h.dateCalls = append(h.dateCalls, dateCall{id: id, field: field, date: date})
			if len(h.dateErrs) > 0 {
				err := h.dateErrs[0]
				h.dateErrs = h.dateErrs[1:]
				return err
			}
			return nil
		},
		UpdateStatus: func(_ context.Context, _ int64, status task.Status) error {
			h.statusCalls = append(h.statusCalls, status)
			return nil
		},
		Create:    func(_ context.Context, _ *task.Task) error { return nil },
		Delete:    func(_ context.Context, _ int64) error { return nil },
		Refresh:   func(_ context.Context) { h.refreshed++ },
		OnError:   func(err error) { h.errs = append(h.errs, err) },
		OnSuccess: func(msg string) { h.successes = append(h.successes, msg) },
		Logf: func(format string, args ...any) {
			h.logEntries = append(h.logEntries, fmt.Sprintf(format, args...))
		},
	})
	return h
}

func TestHandleDropFieldPriority(t *testing.T) {
	tests := []struct {
		name string
		task *task.Task
		want task.ScheduleField
	}{
		{
			name: "due date wins over everything",
			task: &task.Task{
				ID:              1,
				DueDate:         datePtr(2024, 1, 15),
				PersonalDueDate: datePtr(2024, 1, 10),
				ScheduledDate:   datePtr(2024, 1, 5),
			},
			want: task.FieldDueDate,
		},
		{
			name: "personal due date wins over scheduled",
			task: &task.Task{
				ID:              2,
				PersonalDueDate: datePtr(2024, 1, 10),
				ScheduledDate:   datePtr(2024, 1, 5),
			},
			want: task.FieldPersonalDueDate,
		},
		{
			name: "scheduled date as fallback",
			task: &task.Task{
				ID:            3,
				ScheduledDate: datePtr(2024, 1, 5),
			},
			want: task.FieldScheduledDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			h.coord.HandleDrop(context.Background(), tt.task, time.Date(2024, 1, 20, 0, 0, 0, 0, time.Local))

			if len(h.dateCalls) != 1 {
				t.Fatalf("updateDate called %d times, want 1", len(h.dateCalls))
			}
			if h.dateCalls[0].field != tt.want {
				t.Errorf("updated field %s, want %s", h.dateCalls[0].field, tt.want)
			}
		})
	}
}

func TestHandleDropUnscheduledTaskIsNoOp(t *testing.T) {
	h := newHarness()
	h.coord.HandleDrop(context.Background(), &task.Task{ID: 9, Title: "no dates"},
		time.Date(2024, 1, 20, 0, 0, 0, 0, time.Local))

	if len(h.dateCalls) != 0 {
		t.Errorf("updateDate called %d times, want 0", len(h.dateCalls))
	}
	if len(h.errs) != 0 || len(h.successes) != 0 {
		t.Errorf("notifications fired for a no-op drop: errs=%d successes=%d",
			len(h.errs), len(h.successes))
	}
}

func TestHandleDropTruncatesToDay(t *testing.T) {
	h := newHarness()
	tsk := &task.Task{ID: 1, DueDate: datePtr(2024, 1, 15)}

	h.coord.HandleDrop(context.Background(), tsk,
		time.Date(2024, 1, 20, 15, 42, 7, 0, time.Local))

	if len(h.dateCalls) != 1 {
		t.Fatalf("updateDate called %d times, want 1", len(h.dateCalls))
	}
	want := time.Date(2024, 1, 20, 0, 0, 0, 0, time.Local)
	if !h.dateCalls[0].date.Equal(want) {
		t.Errorf("stored date %v, want midnight %v", h.dateCalls[0].date, want)
	}
}

func TestHandleDropSuccess(t *testing.T) {
	h := newHarness()
	tsk := &task.Task{ID: 1, DueDate: datePtr(2024, 1, 15)}

	h.coord.HandleDrop(context.Background(), tsk,
		time.Date(2024, 1, 20, 0, 0, 0, 0, time.Local))

	if h.refreshed != 1 {
		t.Errorf("refresh called %d times, want 1", h.refreshed)
	}
	if len(h.successes) != 1 || h.successes[0] != "Task rescheduled to 2024-01-20" {
		t.Errorf("success notifications = %q, want one 'Task rescheduled to 2024-01-20'", h.successes)
	}
	if len(h.errs) != 0 {
		t.Errorf("unexpected error notifications: %v", h.errs)
	}
}

func TestHandleDropRollsBackOnFailure(t *testing.T) {
	h := newHarness()
	h.dateErrs = []error{errors.New("write failed"), nil}
	tsk := &task.Task{ID: 7, DueDate: datePtr(2024, 1, 15), PersonalDueDate: datePtr(2024, 1, 10)}

	h.coord.HandleDrop(context.Background(), tsk,
		time.Date(2024, 1, 20, 0, 0, 0, 0, time.Local))

	if len(h.dateCalls) != 2 {
		t.Fatalf("updateDate called %d times, want 2 (update then rollback)", len(h.dateCalls))
	}
	rollback := h.dateCalls[1]
	if rollback.field != task.FieldDueDate {
		t.Errorf("rollback touched field %s, want %s", rollback.field, task.FieldDueDate)
	}
	wantOriginal := time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local)
	if !rollback.date.Equal(wantOriginal) {
		t.Errorf("rollback restored %v, want original %v", rollback.date, wantOriginal)
	}

	if len(h.errs) != 1 {
		t.Errorf("error notifications = %d, want exactly 1", len(h.errs))
	}
	if len(h.successes) != 0 {
		t.Errorf("unexpected success notifications: %v", h.successes)
	}
	if h.refreshed != 0 {
		t.Errorf("refresh called %d times after failure, want 0", h.refreshed)
	}
	if len(h.logEntries) != 0 {
		t.Errorf("unexpected log entries for a successful rollback: %v", h.logEntries)
	}
}

func TestHandleDropRollbackFailureIsLoggedOnce(t *testing.T) {
	h := newHarness()
	h.dateErrs = []error{errors.New("write failed"), errors.New("rollback failed too")}
	tsk := &task.Task{ID: 7, DueDate: datePtr(2024, 1, 15)}

	h.coord.HandleDrop(context.Background(), tsk,
		time.Date(2024, 1, 20, 0, 0, 0, 0, time.Local))

	// The user still sees exactly one notification: the original failure.
	if len(h.errs) != 1 {
		t.Errorf("error notifications = %d, want exactly 1", len(h.errs))
	}
	if len(h.successes) != 0 {
		t.Errorf("unexpected success notifications: %v", h.successes)
	}
	if len(h.logEntries) != 1 {
		t.Fatalf("log entries = %d, want 1", len(h.logEntries))
	}
}

func TestHandleResizeDoesNotRollBack(t *testing.T) {
	h := newHarness()
	h.dateErrs = []error{errors.New("write failed")}
	tsk := &task.Task{ID: 4, ScheduledDate: datePtr(2024, 3, 1)}

	h.coord.HandleResize(context.Background(), tsk,
		time.Date(2024, 3, 5, 0, 0, 0, 0, time.Local))

	if len(h.dateCalls) != 1 {
		t.Fatalf("updateDate called %d times, want 1 (no compensating write)", len(h.dateCalls))
	}
	if len(h.errs) != 1 {
		t.Errorf("error notifications = %d, want 1", len(h.errs))
	}
	if h.refreshed != 0 {
		t.Errorf("refresh called %d times after failure, want 0", h.refreshed)
	}
}

func TestHandleResizeSuccessMessage(t *testing.T) {
	h := newHarness()
	tsk := &task.Task{ID: 4, ScheduledDate: datePtr(2024, 3, 1)}

	h.coord.HandleResize(context.Background(), tsk,
		time.Date(2024, 3, 5, 13, 0, 0, 0, time.Local))

	if len(h.successes) != 1 || h.successes[0] != "Task dates updated" {
		t.Errorf("success notifications = %q, want one 'Task dates updated'", h.successes)
	}
	want := time.Date(2024, 3, 5, 0, 0, 0, 0, time.Local)
	if len(h.dateCalls) != 1 || !h.dateCalls[0].date.Equal(want) {
		t.Errorf("stored date %v, want midnight %v", h.dateCalls[0].date, want)
	}
	if h.refreshed != 1 {
		t.Errorf("refresh called %d times, want 1", h.refreshed)
	}
}

func TestReentryGuardRejectsConcurrentOperation(t *testing.T) {
	tsk := &task.Task{ID: 1, DueDate: datePtr(2024, 1, 15)}
	var innerCalls int

	h := newHarness()
	// Re-enter from inside the in-flight update; the nested drop must
	// observe the Updating state and bail out without touching the store.
	h.coord.updateDate = func(_ context.Context, _ int64, _ task.ScheduleField, _ time.Time) error {
		innerCalls++
		if innerCalls == 1 {
			h.coord.HandleDrop(context.Background(), tsk,
				time.Date(2024, 1, 25, 0, 0, 0, 0, time.Local))
		}
		return nil
	}

	h.coord.HandleDrop(context.Background(), tsk,
		time.Date(2024, 1, 20, 0, 0, 0, 0, time.Local))

	if innerCalls != 1 {
		t.Errorf("updateDate called %d times, want 1 (nested drop rejected)", innerCalls)
	}
	if len(h.successes) != 1 {
		t.Errorf("success notifications = %d, want 1", len(h.successes))
	}
	if h.coord.State(tsk.ID) != StateIdle {
		t.Errorf("state after completion = %s, want idle", h.coord.State(tsk.ID))
	}
}

func TestStateIsObservableDuringOperation(t *testing.T) {
	tsk := &task.Task{ID: 3, DueDate: datePtr(2024, 1, 15)}
	var observed OpState

	h := newHarness()
	h.coord.updateDate = func(_ context.Context, _ int64, _ task.ScheduleField, _ time.Time) error {
		observed = h.coord.State(tsk.ID)
		return nil
	}

	h.coord.HandleDrop(context.Background(), tsk,
		time.Date(2024, 1, 20, 0, 0, 0, 0, time.Local))

	if observed != StateUpdating {
		t.Errorf("state during update = %s, want updating", observed)
	}
	if h.coord.State(tsk.ID) != StateIdle {
		t.Errorf("state after completion = %s, want idle", h.coord.State(tsk.ID))
	}
}

func TestCreateDeleteSetStatusNotifications(t *testing.T) {
	h := newHarness()

	h.coord.Create(context.Background(), &task.Task{Title: "fret level"})
	h.coord.Delete(context.Background(), 3)
	h.coord.SetStatus(context.Background(), 4, task.StatusCompleted)

	want := []string{"Task created", "Task deleted", "Task marked completed"}
	if len(h.successes) != len(want) {
		t.Fatalf("success notifications = %q, want %q", h.successes, want)
	}
	for i := range want {
		if h.successes[i] != want[i] {
			t.Errorf("notification %d = %q, want %q", i, h.successes[i], want[i])
		}
	}
	if h.refreshed != 3 {
		t.Errorf("refresh called %d times, want 3", h.refreshed)
	}
}
