package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/taskcal/internal/api"
	"github.com/twiced-technology-gmbh/taskcal/internal/calendar"
	"github.com/twiced-technology-gmbh/taskcal/internal/config"
	"github.com/twiced-technology-gmbh/taskcal/internal/date"
	"github.com/twiced-technology-gmbh/taskcal/internal/popup"
	"github.com/twiced-technology-gmbh/taskcal/internal/task"
)

type fakeSource struct {
	tasks []task.Task
	err   error
	calls int
}

func (f *fakeSource) ListTasks(context.Context) ([]task.Task, error) {
	f.calls++
	return f.tasks, f.err
}

type fakeBackend struct {
	ops []string
	err error
}

func (f *fakeBackend) CreateTask(_ context.Context, d task.Draft) (*task.Task, error) {
	f.ops = append(f.ops, "create "+d.Name)
	return nil, f.err
}

func (f *fakeBackend) UpdateTask(_ context.Context, id task.ID, d task.Draft) (*task.Task, error) {
	f.ops = append(f.ops, "update "+id.String()+" "+d.Name)
	return nil, f.err
}

func (f *fakeBackend) DeleteTask(_ context.Context, id task.ID) error {
	f.ops = append(f.ops, "delete "+id.String())
	return f.err
}

func ts(t *testing.T, s string) *date.Timestamp {
	t.Helper()
	v, err := date.ParseTimestamp(s)
	require.NoError(t, err)
	return &v
}

// saturday is 2024-06-01 at noon.
func saturday() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local) }

func newModel(t *testing.T, opts ...Option) (*Calendar, *fakeSource, *fakeBackend) {
	t.Helper()
	src := &fakeSource{tasks: []task.Task{
		{ID: "42", Title: "Write report", Start: ts(t, "2024-06-01T07:00:00"), End: ts(t, "2024-06-01T09:00:00"),
			Props: task.Props{Priority: 1, Duration: 2, Details: "quarterly"}},
		{ID: "43", Title: "Review", Start: ts(t, "2024-06-01T10:00:00")},
		{ID: "44", Title: "Someday"},
	}}
	backend := &fakeBackend{}
	cal := calendar.New(src, calendar.WithClock(saturday))
	ctrl := popup.New(backend, cal)
	opts = append([]Option{WithClock(saturday)}, opts...)
	c := New(cal, ctrl, opts...)

	c.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	c.Update(c.fetch()())
	return c, src, backend
}

func press(c *Calendar, k string) tea.Cmd {
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+s":
		msg = tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+d":
		msg = tea.KeyMsg{Type: tea.KeyCtrlD}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	_, cmd := c.Update(msg)
	return cmd
}

func click(c *Calendar, x, y int) tea.Cmd {
	_, cmd := c.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	return cmd
}

// settle runs an execute command and then the refresh it triggers.
func settle(t *testing.T, c *Calendar, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, settledMsg{}, msg)
	_, next := c.Update(msg)
	if next != nil {
		c.Update(next())
	}
}

func fill(c *Calendar, f task.Form) {
	values := [fieldCount]string{f.Name, f.Deadline, f.Priority, f.Duration, f.Details}
	for i, v := range values {
		c.inputs[i].SetValue(v)
	}
}

func TestViewShowsWeek(t *testing.T) {
	c, _, _ := newModel(t)

	view := c.View()
	assert.Contains(t, view, "May 27 - Jun 2, 2024")
	assert.Contains(t, view, "07:00 Write report")
	assert.Contains(t, view, "10:00 Review")
	assert.Contains(t, view, "3 tasks | 1 unscheduled")
}

func TestViewModes(t *testing.T) {
	c, _, _ := newModel(t)

	press(c, "d")
	assert.Equal(t, calendar.ViewDay, c.cal.Mode())
	assert.Contains(t, c.View(), "07:00-09:00  Write report  [p1 · 2h]")

	press(c, "m")
	assert.Equal(t, calendar.ViewMonth, c.cal.Mode())
	assert.Contains(t, c.View(), "June 2024")

	press(c, "]")
	assert.Contains(t, c.View(), "July 2024")
	press(c, "t")
	assert.Contains(t, c.View(), "June 2024")

	press(c, "w")
	assert.Equal(t, calendar.ViewWeek, c.cal.Mode())
}

func TestNavigation(t *testing.T) {
	c, _, _ := newModel(t)

	press(c, "j")
	assert.Equal(t, 1, c.entry)
	press(c, "j")
	assert.Equal(t, 1, c.entry, "clamped to the last entry")
	press(c, "k")
	assert.Equal(t, 0, c.entry)

	press(c, "l")
	assert.Equal(t, date.New(2024, 6, 2), c.cal.Anchor())
	press(c, "J")
	assert.Equal(t, date.New(2024, 6, 9), c.cal.Anchor())
	press(c, "h")
	assert.Equal(t, date.New(2024, 6, 8), c.cal.Anchor())
}

func TestAddFlow(t *testing.T) {
	c, src, backend := newModel(t)

	press(c, "a")
	require.Equal(t, popup.Creating, c.popup.State())
	assert.Contains(t, c.View(), "Add Task")
	assert.NotContains(t, c.View(), "[ Delete ]")
	for i := range c.inputs {
		assert.Empty(t, c.inputs[i].Value())
	}

	fill(c, task.Form{Name: "Plan sprint", Deadline: "2024-06-03T09:00", Priority: "2", Duration: "1"})
	settle(t, c, press(c, "ctrl+s"))

	assert.Equal(t, []string{"create Plan sprint"}, backend.ops)
	assert.Equal(t, popup.Closed, c.popup.State())
	assert.Equal(t, 2, src.calls, "one refresh after the mutation")
}

func TestEnterOnLastFieldSaves(t *testing.T) {
	c, _, backend := newModel(t)

	press(c, "a")
	fill(c, task.Form{Name: "Plan", Deadline: "2024-06-03T09:00", Priority: "2", Duration: "1"})
	for range fieldCount - 1 {
		press(c, "tab")
	}
	assert.Equal(t, fieldDetails, c.focus)
	settle(t, c, press(c, "enter"))
	assert.Equal(t, []string{"create Plan"}, backend.ops)
}

func TestValidationStaysInline(t *testing.T) {
	c, src, backend := newModel(t)

	press(c, "a")
	fill(c, task.Form{Name: "Plan sprint"})
	assert.Nil(t, press(c, "ctrl+s"))

	assert.Empty(t, backend.ops)
	assert.Equal(t, 1, src.calls)
	assert.Equal(t, popup.Creating, c.popup.State())
	assert.Contains(t, c.View(), "Please fill in all required fields")
}

func TestEditAndDelete(t *testing.T) {
	c, src, backend := newModel(t)

	press(c, "enter")
	require.Equal(t, popup.Editing, c.popup.State())
	assert.Equal(t, "Write report", c.inputs[fieldName].Value())
	assert.Equal(t, "2024-06-01T07:00", c.inputs[fieldDeadline].Value())
	assert.Equal(t, "quarterly", c.inputs[fieldDetails].Value())
	assert.Contains(t, c.View(), "[ Delete ]")

	c.inputs[fieldName].SetValue("Write final report")
	settle(t, c, press(c, "ctrl+s"))
	assert.Equal(t, 2, src.calls, "one refresh after the update")

	press(c, "j")
	press(c, "enter")
	require.Equal(t, task.ID("43"), c.popup.SelectedID())
	settle(t, c, press(c, "ctrl+d"))
	assert.Equal(t, 3, src.calls, "one refresh after the delete")

	assert.Equal(t, []string{"update 42 Write final report", "delete 43"}, backend.ops)
	assert.Equal(t, popup.Closed, c.popup.State())
}

func TestBackendErrorKeepsFormOpen(t *testing.T) {
	c, _, backend := newModel(t)
	backend.err = &api.StatusError{StatusCode: 400, Message: "Invalid isoformat string"}

	press(c, "enter")
	settle(t, c, press(c, "ctrl+s"))

	assert.Equal(t, popup.Editing, c.popup.State())
	assert.Contains(t, c.View(), "Invalid isoformat string")
}

func TestInputIgnoredWhilePending(t *testing.T) {
	c, _, _ := newModel(t)

	press(c, "enter")
	cmd := press(c, "ctrl+s")
	require.NotNil(t, cmd)
	require.True(t, c.popup.Pending())
	assert.Contains(t, c.View(), "Saving...")

	press(c, "esc")
	assert.True(t, c.popup.IsOpen())
	assert.Nil(t, press(c, "ctrl+s"))
	click(c, 0, 0)
	assert.True(t, c.popup.IsOpen())

	settle(t, c, cmd)
	assert.False(t, c.popup.IsOpen())
}

func TestDismiss(t *testing.T) {
	c, src, backend := newModel(t)

	press(c, "enter")
	press(c, "esc")
	assert.Equal(t, popup.Closed, c.popup.State())
	assert.Empty(t, backend.ops)
	assert.Equal(t, 1, src.calls)
}

func TestClickEntryOpensPopup(t *testing.T) {
	c, _, _ := newModel(t)

	_, hits := c.render()
	var target *hit
	for i := range hits {
		if hits[i].kind == hitEntry && hits[i].id == "43" {
			target = &hits[i]
		}
	}
	require.NotNil(t, target)

	click(c, target.x0+1, target.y)
	assert.Equal(t, popup.Editing, c.popup.State())
	assert.Equal(t, task.ID("43"), c.popup.SelectedID())
	assert.Equal(t, 1, c.entry)
}

func TestClickToolbar(t *testing.T) {
	c, _, _ := newModel(t)

	_, hits := c.render()
	for _, h := range hits {
		if h.kind == hitMode && h.mode == calendar.ViewMonth {
			click(c, h.x0, h.y)
		}
	}
	assert.Equal(t, calendar.ViewMonth, c.cal.Mode())
}

func TestBackdropClick(t *testing.T) {
	c, _, _ := newModel(t)

	press(c, "enter")
	dialog, hits := c.renderDialog()
	bx, by := c.dialogOrigin(dialog)

	// A click on a field focuses it and keeps the form open.
	for _, h := range hits {
		if h.kind == hitField && h.index == fieldPriority {
			click(c, bx+borderSize+dialogPadX+h.x0, by+borderSize+dialogPadY+h.y)
		}
	}
	assert.True(t, c.popup.IsOpen())
	assert.Equal(t, fieldPriority, c.focus)

	click(c, 0, 0)
	assert.False(t, c.popup.IsOpen())
}

func TestCancelButton(t *testing.T) {
	c, _, backend := newModel(t)

	press(c, "a")
	dialog, hits := c.renderDialog()
	bx, by := c.dialogOrigin(dialog)
	for _, h := range hits {
		if h.kind == hitCancel {
			click(c, bx+borderSize+dialogPadX+h.x0, by+borderSize+dialogPadY+h.y)
		}
	}
	assert.False(t, c.popup.IsOpen())
	assert.Empty(t, backend.ops)
}

func TestLoadErrorShown(t *testing.T) {
	c, src, _ := newModel(t)
	src.err = &api.TransportError{Op: "GET /api/tasks", Err: errors.New("connection refused")}

	c.Update(c.fetch()())
	assert.Zero(t, c.cal.Len())
	assert.Contains(t, c.View(), "connection refused")
}

func TestStaleFetchIgnored(t *testing.T) {
	c, src, _ := newModel(t)

	stale := c.fetch()
	fresh := c.fetch()
	c.Update(fresh())

	src.tasks = nil
	c.Update(stale())
	assert.Equal(t, 3, c.cal.Len())
}

func TestReload(t *testing.T) {
	cfg := config.NewDefault()
	cfg.Calendar.FirstWeekday = "sunday"
	cfg.TUI.MaxMonthEntries = 5
	c, _, _ := newModel(t, WithReload(func() (*config.Config, error) { return cfg, nil }))

	_, cmd := c.Update(ReloadMsg{})
	require.NotNil(t, cmd)
	assert.Equal(t, time.Sunday, c.cal.FirstWeekday())
	assert.Equal(t, 5, c.maxMonthEntries)
	assert.True(t, strings.Contains(c.View(), "May 26 - Jun 1, 2024"))
}

func TestMonthOverflow(t *testing.T) {
	c, src, _ := newModel(t, WithMaxMonthEntries(2))
	src.tasks = append(src.tasks, task.Task{ID: "45", Title: "Third", Start: ts(t, "2024-06-01T15:00:00")})
	c.Update(c.fetch()())

	press(c, "m")
	assert.Contains(t, c.View(), "+2 more")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 10))
	assert.Equal(t, "hel...", truncate("hello world", 6))
	assert.Equal(t, "he", truncate("hello", 2))
	assert.Equal(t, "", truncate("hello", 0))
	assert.Equal(t, "ab   ", fit("ab", 5))
}
