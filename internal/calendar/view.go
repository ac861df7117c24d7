package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/taskcal/internal/date"
)

// ViewMode selects the calendar grid.
type ViewMode int

const (
	// ViewWeek shows seven day columns.
	ViewWeek ViewMode = iota
	// ViewDay shows a single day.
	ViewDay
	// ViewMonth shows the weeks covering one month.
	ViewMonth
)

const daysPerWeek = 7

// String returns the config name of the mode.
func (m ViewMode) String() string {
	switch m {
	case ViewDay:
		return "day"
	case ViewMonth:
		return "month"
	default:
		return "week"
	}
}

// ParseViewMode parses "week", "day" or "month".
func ParseViewMode(s string) (ViewMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "week", "":
		return ViewWeek, nil
	case "day":
		return ViewDay, nil
	case "month":
		return ViewMonth, nil
	}
	return ViewWeek, fmt.Errorf("invalid view %q (expected week, day or month)", s)
}

// Mode returns the current view mode.
func (a *Adapter) Mode() ViewMode { return a.mode }

// SetMode switches the view mode, keeping the anchor date.
func (a *Adapter) SetMode(m ViewMode) { a.mode = m }

// Anchor returns the date the visible range is built around.
func (a *Adapter) Anchor() date.Date { return a.anchor }

// SetAnchor moves the visible range to contain d.
func (a *Adapter) SetAnchor(d date.Date) { a.anchor = d }

// FirstWeekday returns the weekday that starts a week row.
func (a *Adapter) FirstWeekday() time.Weekday { return a.firstWeekday }

// SetFirstWeekday changes the weekday that starts a week row.
func (a *Adapter) SetFirstWeekday(d time.Weekday) { a.firstWeekday = d }

// Today moves the visible range to the current date.
func (a *Adapter) Today() { a.anchor = date.Of(a.now()) }

// Next advances the visible range by one period.
func (a *Adapter) Next() { a.shift(1) }

// Prev moves the visible range back by one period.
func (a *Adapter) Prev() { a.shift(-1) }

func (a *Adapter) shift(n int) {
	switch a.mode {
	case ViewDay:
		a.anchor = a.anchor.AddDays(n)
	case ViewMonth:
		y, m, _ := a.anchor.Date()
		first := date.Date{Time: time.Date(y, m, 1, 0, 0, 0, 0, a.anchor.Location())}
		a.anchor = date.Date{Time: first.AddDate(0, n, 0)}
	default:
		a.anchor = a.anchor.AddDays(n * daysPerWeek)
	}
}

// weekStart returns the first day of the week row containing d.
func (a *Adapter) weekStart(d date.Date) date.Date {
	offset := (int(d.Weekday()) - int(a.firstWeekday) + daysPerWeek) % daysPerWeek
	return d.AddDays(-offset)
}

// Range returns the visible days in order. Week and month ranges are whole
// week rows, so their length is a multiple of seven.
func (a *Adapter) Range() []date.Date {
	var start date.Date
	var n int
	switch a.mode {
	case ViewDay:
		return []date.Date{a.anchor}
	case ViewMonth:
		y, m, _ := a.anchor.Date()
		first := date.Date{Time: time.Date(y, m, 1, 0, 0, 0, 0, a.anchor.Location())}
		last := date.Date{Time: first.AddDate(0, 1, -1)}
		start = a.weekStart(first)
		end := a.weekStart(last).AddDays(daysPerWeek)
		n = int(end.Sub(start.Time).Hours()+12) / 24 //nolint:mnd // round across DST shifts
	default:
		start = a.weekStart(a.anchor)
		n = daysPerWeek
	}
	days := make([]date.Date, n)
	for i := range days {
		days[i] = start.AddDays(i)
	}
	return days
}

// Title describes the visible range, e.g. "June 2024" or "Jun 3 - 9, 2024".
func (a *Adapter) Title() string {
	switch a.mode {
	case ViewDay:
		return a.anchor.Format("Monday, January 2, 2006")
	case ViewMonth:
		return a.anchor.Format("January 2006")
	}
	days := a.Range()
	first, last := days[0], days[len(days)-1]
	switch {
	case first.Year() != last.Year():
		return first.Format("Jan 2, 2006") + " - " + last.Format("Jan 2, 2006")
	case first.Month() != last.Month():
		return first.Format("Jan 2") + " - " + last.Format("Jan 2, 2006")
	default:
		return first.Format("Jan 2") + " - " + last.Format("2, 2006")
	}
}
