// Package tui implements the terminal calendar for taskcal: a week, day or
// month grid of tasks with a modal form for adding, editing and deleting.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/twiced-technology-gmbh/taskcal/internal/calendar"
	"github.com/twiced-technology-gmbh/taskcal/internal/config"
	"github.com/twiced-technology-gmbh/taskcal/internal/date"
	"github.com/twiced-technology-gmbh/taskcal/internal/popup"
	"github.com/twiced-technology-gmbh/taskcal/internal/task"
)

const tickInterval = time.Minute // keeps the today marker current

// Calendar is the top-level bubbletea model.
type Calendar struct {
	cal   *calendar.Adapter
	popup *popup.Controller

	keys   keyMap
	help   help.Model
	inputs []textinput.Model
	focus  int

	width  int
	height int
	entry  int // selected entry within the anchor day

	fetchSeq        int
	loading         bool
	maxMonthEntries int
	reload          func() (*config.Config, error)
	now             func() time.Time
}

// Option configures a Calendar.
type Option func(*Calendar)

// WithMaxMonthEntries caps the entries listed per month cell.
func WithMaxMonthEntries(n int) Option {
	return func(c *Calendar) { c.maxMonthEntries = n }
}

// WithReload sets how a ReloadMsg re-reads the configuration.
func WithReload(fn func() (*config.Config, error)) Option {
	return func(c *Calendar) { c.reload = fn }
}

// WithClock overrides time.Now for the today marker (for testing).
func WithClock(now func() time.Time) Option {
	return func(c *Calendar) { c.now = now }
}

// New creates the calendar model. Activating an entry opens it in ctrl.
func New(cal *calendar.Adapter, ctrl *popup.Controller, opts ...Option) *Calendar {
	c := &Calendar{
		cal:             cal,
		popup:           ctrl,
		keys:            defaultKeyMap(),
		help:            help.New(),
		inputs:          newInputs(),
		maxMonthEntries: config.DefaultMaxMonthEntries,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	cal.OnEntryActivated(ctrl.OpenEntry)
	return c
}

// ReloadMsg is sent by the config watcher to re-read settings and refresh.
type ReloadMsg struct{}

// TickMsg is sent periodically to redraw the today marker.
type TickMsg struct{}

type eventsMsg struct {
	seq    int
	events []calendar.Event
	err    error
}

type settledMsg struct {
	sub popup.Submission
	err error
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg { return TickMsg{} })
}

// Init implements tea.Model.
func (c *Calendar) Init() tea.Cmd {
	return tea.Batch(c.fetch(), tickCmd())
}

// Update implements tea.Model.
func (c *Calendar) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return c.handleKey(msg)
	case tea.MouseMsg:
		return c.handleMouse(msg)
	case tea.WindowSizeMsg:
		c.width = msg.Width
		c.height = msg.Height
		c.help.Width = msg.Width
		return c, nil
	case eventsMsg:
		if msg.seq != c.fetchSeq {
			return c, nil // superseded by a newer fetch
		}
		c.loading = false
		c.cal.ApplyRefresh(msg.events, msg.err)
		c.clampEntry()
		return c, nil
	case settledMsg:
		if c.popup.Settle(msg.sub, msg.err) {
			c.blurInputs()
			return c, c.fetch()
		}
		return c, nil
	case ReloadMsg:
		c.applyReload()
		return c, c.fetch()
	case TickMsg:
		return c, tickCmd()
	}

	if c.popup.IsOpen() {
		return c, c.updateFocused(msg)
	}
	return c, nil
}

// fetch loads the task list off the event loop. Only the newest fetch's
// result is applied.
func (c *Calendar) fetch() tea.Cmd {
	c.fetchSeq++
	c.loading = true
	seq, cal := c.fetchSeq, c.cal
	return func() tea.Msg {
		events, err := cal.Fetch(context.Background())
		return eventsMsg{seq: seq, events: events, err: err}
	}
}

// execute sends a submission off the event loop.
func (c *Calendar) execute(sub popup.Submission) tea.Cmd {
	ctrl := c.popup
	return func() tea.Msg {
		return settledMsg{sub: sub, err: ctrl.Execute(context.Background(), sub)}
	}
}

func (c *Calendar) applyReload() {
	if c.reload == nil {
		return
	}
	cfg, err := c.reload()
	if err != nil {
		return // keep the running settings; the next save will retrigger
	}
	c.maxMonthEntries = cfg.MaxMonthEntries()
	c.cal.SetFirstWeekday(cfg.FirstWeekday())
}

func (c *Calendar) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, c.keys.Force) {
		return c, tea.Quit
	}
	if c.popup.IsOpen() {
		return c, c.handleFormKey(msg)
	}
	return c, c.handleGridKey(msg)
}

func (c *Calendar) handleGridKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, c.keys.Quit):
		return tea.Quit
	case key.Matches(msg, c.keys.Add):
		c.popup.OpenAdd()
		return c.openForm()
	case key.Matches(msg, c.keys.Open):
		return c.openSelected()
	case key.Matches(msg, c.keys.Refresh):
		return c.fetch()
	case key.Matches(msg, c.keys.Prev):
		c.cal.Prev()
		c.entry = 0
	case key.Matches(msg, c.keys.Next):
		c.cal.Next()
		c.entry = 0
	case key.Matches(msg, c.keys.Today):
		c.cal.Today()
		c.entry = 0
	case key.Matches(msg, c.keys.Month):
		c.cal.SetMode(calendar.ViewMonth)
	case key.Matches(msg, c.keys.Week):
		c.cal.SetMode(calendar.ViewWeek)
	case key.Matches(msg, c.keys.Day):
		c.cal.SetMode(calendar.ViewDay)
	case key.Matches(msg, c.keys.Left):
		c.moveDays(-1)
	case key.Matches(msg, c.keys.Right):
		c.moveDays(1)
	case key.Matches(msg, c.keys.WeekUp):
		c.moveDays(-daysPerWeek)
	case key.Matches(msg, c.keys.WeekDown):
		c.moveDays(daysPerWeek)
	case key.Matches(msg, c.keys.Up):
		if c.entry > 0 {
			c.entry--
		}
	case key.Matches(msg, c.keys.Down):
		if c.entry < len(c.cal.EventsOn(c.cal.Anchor()))-1 {
			c.entry++
		}
	}
	return nil
}

func (c *Calendar) moveDays(n int) {
	c.cal.SetAnchor(c.cal.Anchor().AddDays(n))
	c.entry = 0
}

func (c *Calendar) clampEntry() {
	n := len(c.cal.EventsOn(c.cal.Anchor()))
	c.entry = max(0, min(c.entry, n-1))
}

// openSelected activates the selected entry of the anchor day.
func (c *Calendar) openSelected() tea.Cmd {
	evs := c.cal.EventsOn(c.cal.Anchor())
	if c.entry >= len(evs) {
		return nil
	}
	return c.activate(evs[c.entry].ID)
}

func (c *Calendar) activate(id task.ID) tea.Cmd {
	if !c.cal.Activate(id) || !c.popup.IsOpen() {
		return nil
	}
	return c.openForm()
}

// selectDay moves the anchor to day and selects its index-th entry.
func (c *Calendar) selectDay(day date.Date, index int) {
	c.cal.SetAnchor(day)
	c.entry = max(0, index)
}

func (c *Calendar) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	if c.popup.Pending() {
		return nil
	}
	switch {
	case key.Matches(msg, c.keys.Dismiss):
		c.popup.Dismiss()
		c.blurInputs()
		return nil
	case key.Matches(msg, c.keys.Save):
		return c.save()
	case key.Matches(msg, c.keys.Delete):
		return c.remove()
	case key.Matches(msg, c.keys.NextField):
		return c.focusField(c.focus + 1)
	case key.Matches(msg, c.keys.PrevField):
		return c.focusField(c.focus - 1)
	case key.Matches(msg, c.keys.Submit):
		if c.focus == len(c.inputs)-1 {
			return c.save()
		}
		return c.focusField(c.focus + 1)
	}
	return c.updateFocused(msg)
}

// save submits the form. Validation errors stay in the popup as its inline
// message and send nothing.
func (c *Calendar) save() tea.Cmd {
	c.popup.SetForm(c.formValues())
	sub, err := c.popup.Submit()
	if err != nil {
		return nil
	}
	return c.execute(sub)
}

func (c *Calendar) remove() tea.Cmd {
	sub, ok := c.popup.SubmitRemove()
	if !ok {
		return nil
	}
	return c.execute(sub)
}
