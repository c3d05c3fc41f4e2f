// Package calendar provides pure view-window math: mapping a view mode and
// anchor date to a concrete inclusive date range, and stepping the anchor.
package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/taller/internal/dateutil"
)

// ErrInvalidViewMode is returned when parsing an unknown view mode name.
var ErrInvalidViewMode = errors.New("invalid view mode")

// ViewMode determines how an anchor date maps to a start/end range.
type ViewMode string

const (
	ViewDay      ViewMode = "day"
	ViewWeek     ViewMode = "week"
	ViewMonth    ViewMode = "month"
	ViewYear     ViewMode = "year"
	ViewList     ViewMode = "list"     // month-length agenda listing
	ViewTimeline ViewMode = "timeline" // full-year overview
)

// Modes lists all view modes in cycle order.
var Modes = []ViewMode{ViewDay, ViewWeek, ViewMonth, ViewYear, ViewList, ViewTimeline}

// ParseViewMode validates and normalizes a view mode name.
func ParseViewMode(s string) (ViewMode, error) {
	m := ViewMode(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Modes {
		if m == known {
			return known, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidViewMode, s)
}

// Range maps a view mode and anchor date to an inclusive date range.
// It is deterministic and side-effect-free: the same inputs always yield
// the same range. Weeks start on Monday.
func Range(mode ViewMode, anchor time.Time) (start, end time.Time) {
	anchor = dateutil.TruncateToDay(anchor)
	switch mode {
	case ViewDay:
		return anchor, anchor
	case ViewWeek:
		return dateutil.WeekRange(anchor)
	case ViewYear, ViewTimeline:
		return dateutil.YearRange(anchor)
	default: // month and list share the month window
		return dateutil.MonthRange(anchor)
	}
}

// Step moves the anchor one window in the given direction (+1 or -1),
// following the mode's navigation semantics.
func Step(mode ViewMode, anchor time.Time, direction int) time.Time {
	anchor = dateutil.TruncateToDay(anchor)
	switch mode {
	case ViewDay:
		return anchor.AddDate(0, 0, direction)
	case ViewWeek:
		return anchor.AddDate(0, 0, 7*direction)
	case ViewYear, ViewTimeline:
		return anchor.AddDate(direction, 0, 0)
	default:
		// Anchor to the first of the month before stepping so that
		// e.g. Jan 31 + 1 month lands in February, not March.
		first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
		return first.AddDate(0, direction, 0)
	}
}

// RequestKey builds the dedup key identifying a fetch for the given window.
func RequestKey(mode ViewMode, start, end time.Time) string {
	return string(mode) + "|" + dateutil.FormatDate(start) + "|" + dateutil.FormatDate(end)
}
