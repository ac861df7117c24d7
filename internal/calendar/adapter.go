package calendar

import (
	"cmp"
	"context"
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/twiced-technology-gmbh/taskcal/internal/activity"
	"github.com/twiced-technology-gmbh/taskcal/internal/date"
	"github.com/twiced-technology-gmbh/taskcal/internal/task"
)

// Source lists the persisted tasks.
type Source interface {
	ListTasks(ctx context.Context) ([]task.Task, error)
}

// Recorder receives load failures.
type Recorder interface {
	Record(action, taskID, detail string)
}

// Adapter holds the calendar's event snapshot and visible range.
// It is not safe for concurrent use; the owning event loop serializes access.
type Adapter struct {
	src Source
	rec Recorder

	events []Event
	err    error

	activated []func(Event)
	refreshed []func()

	mode         ViewMode
	anchor       date.Date
	firstWeekday time.Weekday
	now          func() time.Time
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithRecorder logs load failures to rec.
func WithRecorder(rec Recorder) Option {
	return func(a *Adapter) { a.rec = rec }
}

// WithView sets the initial view mode.
func WithView(m ViewMode) Option {
	return func(a *Adapter) { a.mode = m }
}

// WithFirstWeekday sets the weekday that starts a week row.
func WithFirstWeekday(d time.Weekday) Option {
	return func(a *Adapter) { a.firstWeekday = d }
}

// WithClock overrides time.Now (for testing).
func WithClock(now func() time.Time) Option {
	return func(a *Adapter) { a.now = now }
}

// New creates an Adapter reading from src. The visible range starts at today.
func New(src Source, opts ...Option) *Adapter {
	a := &Adapter{
		src:          src,
		mode:         ViewWeek,
		firstWeekday: time.Monday,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.anchor = date.Of(a.now())
	return a
}

// Fetch requests the full task list and maps it to events. It does not
// touch the adapter's state and may run off the event loop.
func (a *Adapter) Fetch(ctx context.Context) ([]Event, error) {
	tasks, err := a.src.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	events := make([]Event, 0, len(tasks))
	for _, t := range tasks {
		events = append(events, FromTask(t))
	}
	return events, nil
}

// Apply installs the result of a Fetch. A failed fetch empties the
// snapshot and keeps the error for display.
func (a *Adapter) Apply(events []Event, err error) {
	if err != nil {
		a.events = nil
		a.err = err
		if a.rec != nil {
			a.rec.Record(activity.ActionLoadError, "", err.Error())
		}
		return
	}
	a.events = events
	a.err = nil
}

// Load fetches and applies the task list.
func (a *Adapter) Load(ctx context.Context) error {
	events, err := a.Fetch(ctx)
	a.Apply(events, err)
	return err
}

// Refresh reloads the full task list and notifies refresh listeners.
func (a *Adapter) Refresh(ctx context.Context) error {
	err := a.Load(ctx)
	a.notifyRefresh()
	return err
}

// ApplyRefresh is Apply followed by the refresh notification, for callers
// that ran Fetch themselves.
func (a *Adapter) ApplyRefresh(events []Event, err error) {
	a.Apply(events, err)
	a.notifyRefresh()
}

func (a *Adapter) notifyRefresh() {
	for _, fn := range a.refreshed {
		fn()
	}
}

// Events returns the current snapshot in backend order. The sequence
// restarts from the first event on every iteration.
func (a *Adapter) Events() iter.Seq[Event] {
	events := a.events
	return func(yield func(Event) bool) {
		for _, ev := range events {
			if !yield(ev) {
				return
			}
		}
	}
}

// Len returns the number of events in the snapshot.
func (a *Adapter) Len() int { return len(a.events) }

// Err returns the error of the last load, if it failed.
func (a *Adapter) Err() error { return a.err }

// Lookup returns the event with the given id.
func (a *Adapter) Lookup(id task.ID) (Event, bool) {
	for _, ev := range a.events {
		if ev.ID == id {
			return ev, true
		}
	}
	return Event{}, false
}

// OnEntryActivated registers a callback invoked with the full event
// whenever an entry is activated.
func (a *Adapter) OnEntryActivated(handler func(Event)) {
	a.activated = append(a.activated, handler)
}

// OnRefresh registers a callback invoked after every Refresh.
func (a *Adapter) OnRefresh(handler func()) {
	a.refreshed = append(a.refreshed, handler)
}

// Activate reports the entry with the given id to the activation handlers.
// It returns false when no such entry is rendered.
func (a *Adapter) Activate(id task.ID) bool {
	ev, ok := a.Lookup(id)
	if !ok {
		return false
	}
	for _, fn := range a.activated {
		fn(ev)
	}
	return true
}

// EventsOn returns the events placed on day, ordered by time then title.
func (a *Adapter) EventsOn(day date.Date) []Event {
	var out []Event
	for _, ev := range a.events {
		if t, ok := ev.When(); ok && day.Contains(t) {
			out = append(out, ev)
		}
	}
	slices.SortStableFunc(out, func(x, y Event) int {
		tx, _ := x.When()
		ty, _ := y.When()
		if c := tx.Compare(ty); c != 0 {
			return c
		}
		return cmp.Compare(x.Title, y.Title)
	})
	return out
}

// Unscheduled returns the events with neither start nor end.
func (a *Adapter) Unscheduled() []Event {
	var out []Event
	for _, ev := range a.events {
		if _, ok := ev.When(); !ok {
			out = append(out, ev)
		}
	}
	return out
}
