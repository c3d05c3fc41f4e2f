package task

import (
	"sort"
	"time"

	"github.com/javiermolinar/taller/internal/dateutil"
)

// Agenda groups fetched tasks by calendar day over an inclusive range.
// It is a rendering convenience; it owns no fetching or mutation logic.
type Agenda struct {
	Start time.Time
	End   time.Time
	days  map[string][]*Task
}

// NewAgenda builds an Agenda from a task slice. Tasks without a calendar
// date or outside the range are ignored.
func NewAgenda(start, end time.Time, tasks []*Task) *Agenda {
	a := &Agenda{
		Start: dateutil.TruncateToDay(start),
		End:   dateutil.TruncateToDay(end),
		days:  make(map[string][]*Task),
	}
	for _, t := range tasks {
		date, ok := t.CalendarDate()
		if !ok {
			continue
		}
		if date.Before(a.Start) || date.After(a.End) {
			continue
		}
		key := dateutil.FormatDate(date)
		a.days[key] = append(a.days[key], t)
	}
	for _, day := range a.days {
		sort.SliceStable(day, func(i, j int) bool {
			if day[i].Priority != day[j].Priority {
				return priorityRank(day[i].Priority) < priorityRank(day[j].Priority)
			}
			return day[i].ID < day[j].ID
		})
	}
	return a
}

// On returns the tasks placed on the given day, sorted by priority then ID.
func (a *Agenda) On(date time.Time) []*Task {
	return a.days[dateutil.FormatDate(date)]
}

// Count returns the total number of placed tasks.
func (a *Agenda) Count() int {
	n := 0
	for _, day := range a.days {
		n += len(day)
	}
	return n
}

// Days returns the days in the range that have at least one task, in order.
func (a *Agenda) Days() []time.Time {
	var out []time.Time
	for d := a.Start; !d.After(a.End); d = d.AddDate(0, 0, 1) {
		if len(a.days[dateutil.FormatDate(d)]) > 0 {
			out = append(out, d)
		}
	}
	return out
}

func priorityRank(p Priority) int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}
