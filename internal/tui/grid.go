package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/taskcal/internal/calendar"
	"github.com/twiced-technology-gmbh/taskcal/internal/date"
	"github.com/twiced-technology-gmbh/taskcal/internal/task"
)

const (
	daysPerWeek  = 7
	minColWidth  = 8
	toolbarLines = 1
	headerLines  = 1
)

type hitKind int

const (
	hitEntry hitKind = iota
	hitDay
	hitPrev
	hitNext
	hitToday
	hitMode
	hitField
	hitSave
	hitDelete
	hitCancel
)

// hit is a clickable span on one screen line.
type hit struct {
	kind  hitKind
	x0    int
	x1    int
	y     int
	day   date.Date
	id    task.ID
	index int
	mode  calendar.ViewMode
}

func (h hit) contains(x, y int) bool {
	return y == h.y && x >= h.x0 && x < h.x1
}

// item is one rendered line inside a day cell.
type item struct {
	text     string
	style    lipgloss.Style
	id       task.ID
	index    int
	clickOut bool // "+N more" lines select the day instead of an entry
}

// View implements tea.Model.
func (c *Calendar) View() string {
	if c.width == 0 {
		return "Loading..."
	}
	if c.popup.IsOpen() {
		return c.viewDialog()
	}
	view, _ := c.render()
	return view
}

// render draws the calendar screen and returns the clickable spans.
func (c *Calendar) render() (string, []hit) {
	var hits []hit
	lines := []string{c.renderToolbar(&hits)}

	status := c.renderStatus()
	gridHeight := max(headerLines+1, c.height-toolbarLines-len(status))

	var grid []string
	switch c.cal.Mode() {
	case calendar.ViewDay:
		grid = c.renderDay(toolbarLines, gridHeight, &hits)
	case calendar.ViewMonth:
		grid = c.renderMonth(toolbarLines, gridHeight, &hits)
	default:
		grid = c.renderWeek(toolbarLines, gridHeight, &hits)
	}
	for len(grid) < gridHeight {
		grid = append(grid, "")
	}
	lines = append(lines, grid[:gridHeight]...)
	lines = append(lines, status...)

	visible := hits[:0]
	for _, h := range hits {
		if h.y < toolbarLines+gridHeight {
			visible = append(visible, h)
		}
	}
	return strings.Join(lines, "\n"), visible
}

func (c *Calendar) renderToolbar(hits *[]hit) string {
	var l lineBuilder
	x0, x1 := l.add(" ‹ ", toolbarStyle)
	*hits = append(*hits, hit{kind: hitPrev, x0: x0, x1: x1})
	x0, x1 = l.add(" › ", toolbarStyle)
	*hits = append(*hits, hit{kind: hitNext, x0: x0, x1: x1})
	x0, x1 = l.add(" today ", toolbarStyle)
	*hits = append(*hits, hit{kind: hitToday, x0: x0, x1: x1})
	l.add("  "+c.cal.Title()+"  ", titleStyle)

	for _, m := range []calendar.ViewMode{calendar.ViewMonth, calendar.ViewWeek, calendar.ViewDay} {
		st := toolbarStyle
		if m == c.cal.Mode() {
			st = toolbarActiveStyle
		}
		x0, x1 = l.add(" "+m.String()+" ", st)
		*hits = append(*hits, hit{kind: hitMode, x0: x0, x1: x1, mode: m})
	}
	if rest := c.width - l.x; rest > 0 {
		l.add(strings.Repeat(" ", rest), toolbarStyle)
	}
	return l.String()
}

func (c *Calendar) renderStatus() []string {
	var lines []string
	if err := c.cal.Err(); err != nil {
		lines = append(lines, errorStyle.Render(truncate("Error: "+err.Error(), c.width)))
	}

	state := fmt.Sprintf(" %d tasks", c.cal.Len())
	if n := len(c.cal.Unscheduled()); n > 0 {
		state += fmt.Sprintf(" | %d unscheduled", n)
	}
	if c.loading {
		state += " | loading..."
	}
	state += " | "
	help := c.help.ShortHelpView(c.keys.ShortHelp())
	line := statusBarStyle.Render(state) + help
	if lipgloss.Width(line) > c.width {
		line = statusBarStyle.Render(truncate(state, c.width))
	}
	return append(lines, line)
}

func (c *Calendar) isAnchor(d date.Date) bool {
	return d.Equal(c.cal.Anchor().Time)
}

func (c *Calendar) isToday(d date.Date) bool {
	return d.Contains(c.now())
}

func (c *Calendar) headerStyle(d date.Date) lipgloss.Style {
	switch {
	case c.isAnchor(d):
		return activeDayHeaderStyle
	case c.isToday(d):
		return todayHeaderStyle
	default:
		return dayHeaderStyle
	}
}

// dayItems lists up to rows lines for day. When the events do not fit, the
// last line reports how many are hidden, and the selected entry of the
// anchor day is scrolled into view.
func (c *Calendar) dayItems(day date.Date, rows int, label func(calendar.Event) string) []item {
	if rows < 1 {
		return nil
	}
	evs := c.cal.EventsOn(day)
	capacity := rows
	if len(evs) > rows {
		capacity = rows - 1
	}
	selected := c.isAnchor(day)
	off := 0
	if selected && capacity > 0 && c.entry >= capacity {
		off = c.entry - capacity + 1
	}

	items := make([]item, 0, rows)
	for i := off; i < len(evs) && i < off+capacity; i++ {
		ev := evs[i]
		items = append(items, item{
			text:  label(ev),
			style: entryStyleFor(ev.Props.Priority, selected && i == c.entry),
			id:    ev.ID,
			index: i,
		})
	}
	if hidden := len(evs) - len(items); hidden > 0 {
		items = append(items, item{text: "+" + strconv.Itoa(hidden) + " more", style: dimStyle, clickOut: true})
	}
	return items
}

func shortLabel(ev calendar.Event) string {
	if t, ok := ev.When(); ok {
		return t.Format("15:04") + " " + ev.Title
	}
	return ev.Title
}

func longLabel(ev calendar.Event) string {
	when := "--:--"
	switch {
	case ev.Start != nil && ev.End != nil:
		when = ev.Start.Format("15:04") + "-" + ev.End.Format("15:04")
	case ev.Start != nil:
		when = ev.Start.Format("15:04")
	case ev.End != nil:
		when = "until " + ev.End.Format("15:04")
	}
	meta := "p" + strconv.Itoa(ev.Props.Priority)
	if ev.Props.Duration > 0 {
		meta += " · " + strconv.FormatFloat(ev.Props.Duration, 'f', -1, 64) + "h"
	}
	return when + "  " + ev.Title + "  [" + meta + "]"
}

func (c *Calendar) columnWidth(cols int) int {
	return max(minColWidth, c.width/cols)
}

// cellLines renders items into rows lines of one column, recording hits.
func cellLines(day date.Date, items []item, top, x0, width, rows int, hits *[]hit) []string {
	out := make([]string, rows)
	for r := range rows {
		if r >= len(items) {
			out[r] = strings.Repeat(" ", width)
			continue
		}
		it := items[r]
		out[r] = it.style.Render(fit(" "+it.text, width))
		h := hit{kind: hitEntry, x0: x0, x1: x0 + width, y: top + r, day: day, id: it.id, index: it.index}
		if it.clickOut {
			h.kind = hitDay
		}
		*hits = append(*hits, h)
	}
	return out
}

func (c *Calendar) renderWeek(top, height int, hits *[]hit) []string {
	days := c.cal.Range()
	colW := c.columnWidth(len(days))

	var hdr lineBuilder
	for _, d := range days {
		x0, x1 := hdr.add(fit(" "+d.Format("Mon 2"), colW), c.headerStyle(d))
		*hits = append(*hits, hit{kind: hitDay, x0: x0, x1: x1, y: top, day: d})
	}
	lines := []string{hdr.String()}

	rows := height - headerLines
	cols := make([][]string, len(days))
	for i, d := range days {
		items := c.dayItems(d, rows, shortLabel)
		cols[i] = cellLines(d, items, top+headerLines, i*colW, colW, rows, hits)
	}
	for r := range rows {
		var b strings.Builder
		for i := range cols {
			b.WriteString(cols[i][r])
		}
		lines = append(lines, b.String())
	}
	return lines
}

func (c *Calendar) renderDay(top, height int, hits *[]hit) []string {
	day := c.cal.Anchor()
	width := max(minColWidth, c.width)

	var hdr lineBuilder
	x0, x1 := hdr.add(fit(" "+day.Format("Monday, January 2"), width), c.headerStyle(day))
	*hits = append(*hits, hit{kind: hitDay, x0: x0, x1: x1, y: top, day: day})

	rows := height - headerLines
	items := c.dayItems(day, rows, longLabel)
	if len(items) == 0 && rows > 0 {
		return []string{hdr.String(), dimStyle.Render(" No tasks on this day. Press a to add one.")}
	}
	return append([]string{hdr.String()}, cellLines(day, items, top+headerLines, 0, width, rows, hits)...)
}

func (c *Calendar) renderMonth(top, height int, hits *[]hit) []string {
	days := c.cal.Range()
	colW := c.columnWidth(daysPerWeek)
	_, month, _ := c.cal.Anchor().Date()

	var names lineBuilder
	for _, d := range days[:daysPerWeek] {
		names.add(fit(" "+d.Format("Mon"), colW), dayHeaderStyle)
	}
	lines := []string{names.String()}

	weeks := len(days) / daysPerWeek
	cellH := max(2, (height-headerLines)/weeks) //nolint:mnd // day number plus one entry
	entryRows := min(c.maxMonthEntries, cellH-1)

	for w := range weeks {
		y := top + headerLines + w*cellH
		week := days[w*daysPerWeek : (w+1)*daysPerWeek]

		var num lineBuilder
		cols := make([][]string, len(week))
		for i, d := range week {
			st := c.headerStyle(d)
			if d.Month() != month && !c.isAnchor(d) {
				st = outsideMonthStyle
			}
			x0, x1 := num.add(fit(" "+strconv.Itoa(d.Day()), colW), st)
			*hits = append(*hits, hit{kind: hitDay, x0: x0, x1: x1, y: y, day: d})

			items := c.dayItems(d, entryRows, shortLabel)
			cols[i] = cellLines(d, items, y+1, i*colW, colW, cellH-1, hits)
		}
		lines = append(lines, num.String())
		for r := range cellH - 1 {
			var b strings.Builder
			for i := range cols {
				b.WriteString(cols[i][r])
			}
			lines = append(lines, b.String())
		}
	}
	return lines
}

// handleMouse handles clicks on the grid and the popup, and wheel paging.
func (c *Calendar) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if c.popup.IsOpen() {
		return c, c.handleDialogMouse(msg)
	}
	if msg.Action != tea.MouseActionPress {
		return c, nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		c.cal.Prev()
		c.entry = 0
		return c, nil
	case tea.MouseButtonWheelDown:
		c.cal.Next()
		c.entry = 0
		return c, nil
	case tea.MouseButtonLeft:
	default:
		return c, nil
	}

	_, hits := c.render()
	for _, h := range hits {
		if h.contains(msg.X, msg.Y) {
			return c, c.clickHit(h)
		}
	}
	return c, nil
}

func (c *Calendar) clickHit(h hit) tea.Cmd {
	switch h.kind {
	case hitEntry:
		c.selectDay(h.day, h.index)
		return c.activate(h.id)
	case hitDay:
		c.selectDay(h.day, 0)
	case hitPrev:
		c.cal.Prev()
		c.entry = 0
	case hitNext:
		c.cal.Next()
		c.entry = 0
	case hitToday:
		c.cal.Today()
		c.entry = 0
	case hitMode:
		c.cal.SetMode(h.mode)
	}
	return nil
}
