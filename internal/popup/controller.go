// Package popup implements the modal task form: which task it edits, what
// its fields hold, and the create, update and delete requests it issues.
package popup

import (
	"context"
	"errors"
	"strconv"

	"github.com/twiced-technology-gmbh/taskcal/internal/activity"
	"github.com/twiced-technology-gmbh/taskcal/internal/api"
	"github.com/twiced-technology-gmbh/taskcal/internal/calendar"
	"github.com/twiced-technology-gmbh/taskcal/internal/date"
	"github.com/twiced-technology-gmbh/taskcal/internal/task"
)

// State is the popup's visibility and mode.
type State int

const (
	// Closed: no form is shown.
	Closed State = iota
	// Creating: the form adds a new task.
	Creating
	// Editing: the form edits the selected task.
	Editing
)

// String returns a readable state name.
func (s State) String() string {
	switch s {
	case Creating:
		return "creating"
	case Editing:
		return "editing"
	default:
		return "closed"
	}
}

// Headings and fallback messages shown by the form.
const (
	HeadingAdd  = "Add Task"
	HeadingEdit = "Edit Task"

	FallbackSave   = "Failed to save task"
	FallbackDelete = "Failed to delete task"
)

// Sentinel errors returned by Submit and SubmitRemove.
var (
	ErrClosed  = errors.New("popup is closed")
	ErrPending = errors.New("a request is already in flight")
)

// Backend performs task mutations.
type Backend interface {
	CreateTask(ctx context.Context, d task.Draft) (*task.Task, error)
	UpdateTask(ctx context.Context, id task.ID, d task.Draft) (*task.Task, error)
	DeleteTask(ctx context.Context, id task.ID) error
}

// Refresher reloads the calendar after a mutation.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Recorder receives successful mutations.
type Recorder interface {
	Record(action, taskID, detail string)
}

// Op is the request a submission issues.
type Op int

const (
	OpCreate Op = iota
	OpUpdate
	OpDelete
)

// Submission is a request ready to be executed: the operation, its target
// and, for create and update, the validated draft.
type Submission struct {
	Op    Op
	ID    task.ID
	Draft task.Draft
}

// Controller owns the popup state. Use one per calendar view. It is not
// safe for concurrent use; Execute is the only method that may run off the
// owning event loop.
type Controller struct {
	backend   Backend
	refresher Refresher
	rec       Recorder

	state    State
	selected task.ID
	form     task.Form
	message  string
	pending  bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithRecorder logs successful mutations to rec.
func WithRecorder(rec Recorder) Option {
	return func(c *Controller) { c.rec = rec }
}

// New creates a closed Controller.
func New(backend Backend, refresher Refresher, opts ...Option) *Controller {
	c := &Controller{backend: backend, refresher: refresher}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// IsOpen reports whether the form is shown.
func (c *Controller) IsOpen() bool { return c.state != Closed }

// Pending reports whether a request is in flight.
func (c *Controller) Pending() bool { return c.pending }

// SelectedID returns the id being edited, or "" when adding or closed.
func (c *Controller) SelectedID() task.ID { return c.selected }

// Form returns the current field values.
func (c *Controller) Form() task.Form { return c.form }

// SetForm replaces the field values, typically right before Submit.
func (c *Controller) SetForm(f task.Form) { c.form = f }

// Message returns the inline error text, or "".
func (c *Controller) Message() string { return c.message }

// Heading returns the form title for the current state.
func (c *Controller) Heading() string {
	if c.state == Editing {
		return HeadingEdit
	}
	return HeadingAdd
}

// DeleteVisible reports whether the delete control is shown.
func (c *Controller) DeleteVisible() bool { return c.state == Editing }

// OpenAdd shows an empty form for a new task.
func (c *Controller) OpenAdd() {
	if c.pending {
		return
	}
	c.state = Creating
	c.selected = ""
	c.form = task.Form{}
	c.message = ""
}

// OpenEntry shows the form filled from ev, the entry's current projection.
// An entry without an id cannot be addressed on the backend; its form opens
// in Creating state so a save posts it as a new task.
func (c *Controller) OpenEntry(ev calendar.Event) {
	if c.pending {
		return
	}
	c.state = Editing
	if ev.ID.IsZero() {
		c.state = Creating
	}
	c.selected = ev.ID
	c.form = FormFromEvent(ev)
	c.message = ""
}

// FormFromEvent fills form fields from a calendar event. The deadline field
// takes the event start, or its end when it has no start.
func FormFromEvent(ev calendar.Event) task.Form {
	f := task.Form{
		Name:     ev.Title,
		Priority: strconv.Itoa(ev.Props.Priority),
		Duration: strconv.FormatFloat(ev.Props.Duration, 'f', -1, 64),
		Details:  ev.Props.Details,
	}
	if t, ok := ev.When(); ok {
		f.Deadline = date.FormatInput(t)
	}
	return f
}

// Dismiss closes the form without contacting the backend.
func (c *Controller) Dismiss() {
	if c.pending {
		return
	}
	c.close()
}

// ClickBackdrop handles a click on the dimmed overlay. Only clicks outside
// the form close it.
func (c *Controller) ClickBackdrop(insideForm bool) {
	if insideForm || !c.IsOpen() {
		return
	}
	c.Dismiss()
}

func (c *Controller) close() {
	c.state = Closed
	c.selected = ""
	c.form = task.Form{}
	c.message = ""
}

// Submit validates the form and returns the create or update request to
// issue. A validation failure is stored as the inline message and
// returned; no request must be sent then.
func (c *Controller) Submit() (Submission, error) {
	if !c.IsOpen() {
		return Submission{}, ErrClosed
	}
	if c.pending {
		return Submission{}, ErrPending
	}
	d, err := task.ParseDraft(c.form)
	if err != nil {
		c.message = err.Error()
		return Submission{}, err
	}
	sub := Submission{Op: OpCreate, Draft: d}
	if c.state == Editing {
		sub = Submission{Op: OpUpdate, ID: c.selected, Draft: d}
	}
	c.pending = true
	c.message = ""
	return sub, nil
}

// SubmitRemove returns the delete request for the selected task. ok is
// false when no task is selected.
func (c *Controller) SubmitRemove() (sub Submission, ok bool) {
	if c.state != Editing || c.selected.IsZero() || c.pending {
		return Submission{}, false
	}
	c.pending = true
	c.message = ""
	return Submission{Op: OpDelete, ID: c.selected, Draft: task.Draft{Name: c.form.Name}}, true
}

// Execute sends sub to the backend. It reads no controller state and may
// run on another goroutine.
func (c *Controller) Execute(ctx context.Context, sub Submission) error {
	var err error
	switch sub.Op {
	case OpCreate:
		_, err = c.backend.CreateTask(ctx, sub.Draft)
	case OpUpdate:
		_, err = c.backend.UpdateTask(ctx, sub.ID, sub.Draft)
	case OpDelete:
		err = c.backend.DeleteTask(ctx, sub.ID)
	}
	return err
}

// Settle applies the outcome of an executed submission. On success the form
// closes and Settle returns true: the caller must refresh the calendar
// exactly once. On failure the form stays open with the error message.
func (c *Controller) Settle(sub Submission, err error) (refresh bool) {
	c.pending = false
	if err != nil {
		fallback := FallbackSave
		if sub.Op == OpDelete {
			fallback = FallbackDelete
		}
		c.message = api.Message(err, fallback)
		return false
	}
	if c.rec != nil {
		c.rec.Record(opAction(sub.Op), sub.ID.String(), sub.Draft.Name)
	}
	c.close()
	return true
}

func opAction(op Op) string {
	switch op {
	case OpUpdate:
		return activity.ActionUpdate
	case OpDelete:
		return activity.ActionDelete
	default:
		return activity.ActionCreate
	}
}

// Save submits the form, waits for the backend and, on success, refreshes
// the calendar and closes. The returned error is the validation or request
// failure; the popup stays open in both cases.
func (c *Controller) Save(ctx context.Context) error {
	sub, err := c.Submit()
	if err != nil {
		return err
	}
	return c.run(ctx, sub)
}

// Remove deletes the selected task, then refreshes and closes. It is a
// no-op when no task is selected.
func (c *Controller) Remove(ctx context.Context) error {
	sub, ok := c.SubmitRemove()
	if !ok {
		return nil
	}
	return c.run(ctx, sub)
}

func (c *Controller) run(ctx context.Context, sub Submission) error {
	err := c.Execute(ctx, sub)
	if !c.Settle(sub, err) {
		return err
	}
	if c.refresher != nil {
		// A failed reload is kept by the calendar for display; the
		// mutation itself succeeded.
		_ = c.refresher.Refresh(ctx)
	}
	return nil
}
