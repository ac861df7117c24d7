// Package calendar adapts the backend task list to a calendar view: it maps
// task records to events, keeps the current snapshot, and reports entry
// activations to whoever owns the task popup.
package calendar

import (
	"time"

	"github.com/twiced-technology-gmbh/taskcal/internal/task"
)

// Props carries the task fields that ride along with an event.
type Props struct {
	Priority int
	Duration float64
	Details  string
}

// Event is one calendar entry, a projection of a persisted task.
type Event struct {
	ID    task.ID
	Title string
	Start *time.Time
	End   *time.Time
	Props Props
}

// FromTask maps a backend record to its calendar event.
func FromTask(t task.Task) Event {
	ev := Event{
		ID:    t.ID,
		Title: t.Title,
		Props: Props{
			Priority: t.Props.Priority,
			Duration: t.Props.Duration,
			Details:  t.Props.Details,
		},
	}
	if t.Start != nil {
		s := t.Start.Time
		ev.Start = &s
	}
	if t.End != nil {
		e := t.End.Time
		ev.End = &e
	}
	return ev
}

// When returns the time the event is placed at: its start, or its end when
// it has no start. ok is false for events with neither.
func (e Event) When() (t time.Time, ok bool) {
	switch {
	case e.Start != nil:
		return *e.Start, true
	case e.End != nil:
		return *e.End, true
	default:
		return time.Time{}, false
	}
}
