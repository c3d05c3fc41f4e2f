// Package navigator owns the current viewing window over the task calendar
// and coordinates fetching for it: one fetch per window change, duplicate
// suppression for an unchanged window, and silent discarding of results
// from superseded in-flight fetches.
package navigator

import (
	"context"
	"sync"
	"time"

	"github.com/javiermolinar/taller/internal/calendar"
	"github.com/javiermolinar/taller/internal/dateutil"
	"github.com/javiermolinar/taller/internal/task"
)

// FetchFunc loads the tasks whose calendar date falls within the inclusive
// range. Errors propagate as the return value; honoring ctx cancellation is
// optional (the navigator discards superseded results regardless).
type FetchFunc func(ctx context.Context, start, end time.Time) ([]*task.Task, error)

// Navigator translates a view mode plus anchor date into deduplicated,
// cancellation-aware fetches. It stores no tasks itself; results and
// failures are delivered through the injected collaborators.
//
// All methods are safe for concurrent use. A Navigator is built per
// screen/session and discarded with it; its request bookkeeping is never
// shared between instances.
type Navigator struct {
	mu       sync.Mutex
	mode     calendar.ViewMode
	anchor   time.Time
	selected *time.Time

	lastKey   string             // dedup key of the most recently initiated fetch
	requestID uint64             // bumped on every fetch attempt; latest wins
	cancel    context.CancelFunc // cancels the in-flight fetch, if any

	fetch   FetchFunc
	onTasks func([]*task.Task)
	onError func(error)

	now func() time.Time
}

// Option configures optional Navigator behavior.
type Option func(*Navigator)

// WithNow overrides the clock, for tests.
func WithNow(now func() time.Time) Option {
	return func(n *Navigator) { n.now = now }
}

// WithMode sets the initial view mode (default month).
func WithMode(mode calendar.ViewMode) Option {
	return func(n *Navigator) { n.mode = mode }
}

// New creates a Navigator anchored on today in month view.
// onTasks and onError may be nil; they can be rebound later with Bind.
func New(fetch FetchFunc, onTasks func([]*task.Task), onError func(error), opts ...Option) *Navigator {
	n := &Navigator{
		mode:    calendar.ViewMonth,
		fetch:   fetch,
		onTasks: onTasks,
		onError: onError,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	n.anchor = dateutil.TruncateToDay(n.now())
	return n
}

// Bind replaces the result and error collaborators. The navigator always
// invokes the currently bound callbacks, not the ones captured when a fetch
// started, so rebinding takes effect for in-flight requests too.
func (n *Navigator) Bind(onTasks func([]*task.Task), onError func(error)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.onTasks = onTasks
	n.onError = onError
}

// Mode returns the current view mode.
func (n *Navigator) Mode() calendar.ViewMode {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.mode
}

// Anchor returns the current anchor date.
func (n *Navigator) Anchor() time.Time {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.anchor
}

// Selected returns the highlighted date, or ok=false when none is set.
func (n *Navigator) Selected() (time.Time, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.selected == nil {
		return time.Time{}, false
	}
	return *n.selected, true
}

// Select highlights a date. The selection is UI state only; it is not part
// of the fetch key and never triggers a fetch.
func (n *Navigator) Select(date time.Time) {
	n.mu.Lock()
	defer n.mu.Unlock()
	d := dateutil.TruncateToDay(date)
	n.selected = &d
}

// Window returns the inclusive date range derived from the current mode
// and anchor.
func (n *Navigator) Window() (start, end time.Time) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return calendar.Range(n.mode, n.anchor)
}

// Previous steps the window backward. It clears the selected date and
// reports whether the derived range changed; when it did, the caller must
// follow up with exactly one non-forced Refetch.
func (n *Navigator) Previous() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.setWindow(n.mode, calendar.Step(n.mode, n.anchor, -1), nil)
}

// Next steps the window forward. Same contract as Previous.
func (n *Navigator) Next() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.setWindow(n.mode, calendar.Step(n.mode, n.anchor, +1), nil)
}

// GoToToday re-anchors the window on today and, unlike the other
// navigation actions, selects today instead of clearing the selection.
func (n *Navigator) GoToToday() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	today := dateutil.TruncateToDay(n.now())
	return n.setWindow(n.mode, today, &today)
}

// SetMode switches the view mode, clearing the selected date.
func (n *Navigator) SetMode(mode calendar.ViewMode) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.setWindow(mode, n.anchor, nil)
}

// SetAnchor moves the anchor to an explicit date, clearing the selection.
func (n *Navigator) SetAnchor(date time.Time) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.setWindow(n.mode, dateutil.TruncateToDay(date), nil)
}

// setWindow applies a window mutation and reports whether the derived
// range changed. Caller must hold n.mu.
func (n *Navigator) setWindow(mode calendar.ViewMode, anchor time.Time, selected *time.Time) bool {
	oldStart, oldEnd := calendar.Range(n.mode, n.anchor)
	oldKey := calendar.RequestKey(n.mode, oldStart, oldEnd)

	n.mode = mode
	n.anchor = anchor
	n.selected = selected

	newStart, newEnd := calendar.Range(n.mode, n.anchor)
	return calendar.RequestKey(n.mode, newStart, newEnd) != oldKey
}

// Invalidate clears the dedup key so the next Refetch call is treated as
// novel even for an unchanged window. Used after the window's underlying
// data changed without the window itself changing (create/update/delete).
func (n *Navigator) Invalidate() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.lastKey = ""
}

// Refetch fetches the tasks for the current window and delivers them via
// the bound callbacks. It blocks until its own fetch settles (or until the
// attempt is coalesced away), and never returns an error itself:
//
//   - If force is false and the window's request key matches the most
//     recently initiated fetch, the call returns immediately without a
//     network call.
//   - Otherwise the previous in-flight fetch (if any) is cancelled and
//     superseded: among overlapping calls, only the latest-initiated one
//     ever delivers a result or an error. Results arriving for superseded
//     requests are discarded silently, whether or not the underlying fetch
//     honored the cancellation.
func (n *Navigator) Refetch(ctx context.Context, force bool) {
	n.mu.Lock()

	start, end := calendar.Range(n.mode, n.anchor)
	key := calendar.RequestKey(n.mode, start, end)
	if !force && key == n.lastKey {
		n.mu.Unlock()
		return
	}

	n.requestID++
	id := n.requestID
	n.lastKey = key

	if n.cancel != nil {
		n.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	n.cancel = cancel
	fetch := n.fetch

	n.mu.Unlock()

	tasks, err := fetch(fetchCtx, start, end)
	cancel()

	n.mu.Lock()
	if id != n.requestID {
		// A newer request was initiated while this one was in flight.
		// Its outcome, success or failure, is stale: drop it.
		n.mu.Unlock()
		return
	}
	if n.cancel != nil {
		n.cancel = nil
	}
	onTasks, onError := n.onTasks, n.onError
	n.mu.Unlock()

	if err != nil {
		if onError != nil {
			onError(err)
		}
		return
	}
	if onTasks != nil {
		onTasks(tasks)
	}
}
