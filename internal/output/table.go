package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/twiced-technology-gmbh/taskcal/internal/activity"
	"github.com/twiced-technology-gmbh/taskcal/internal/date"
	"github.com/twiced-technology-gmbh/taskcal/internal/task"
)

const (
	timeLayout    = "2006-01-02 15:04"
	maxTitleWidth = 48
	markdownWrap  = 80
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	titleStyle  = lipgloss.NewStyle().Bold(true)

	// Priority colors matching the TUI entry palette; 1 is most urgent.
	priorityStyles = map[int]lipgloss.Style{
		1: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		2: lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		3: lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
	}

	actionStyles = map[string]lipgloss.Style{
		activity.ActionCreate:    lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		activity.ActionUpdate:    lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		activity.ActionDelete:    lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		activity.ActionLoadError: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}

	markdownStyle = ""
)

// DisableColor strips all styling from table output and renders markdown
// without escape sequences.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	titleStyle = lipgloss.NewStyle()
	priorityStyles = map[int]lipgloss.Style{}
	actionStyles = map[string]lipgloss.Style{}
	markdownStyle = "notty"
}

// TaskTable renders a list of tasks as a formatted table.
func TaskTable(w io.Writer, tasks []task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	const pad = 2
	idW, prioW, titleW, whenW, durW := 4, 10, 5, 18, 10
	for _, t := range tasks {
		idW = max(idW, len(t.ID.String())+pad)
		titleW = max(titleW, min(len(t.Title)+pad, maxTitleWidth+pad))
	}

	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %-*s",
		idW, "ID", prioW, "PRIORITY", titleW, "TITLE", whenW, "START", durW, "DURATION")
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(header, " ")))

	for _, t := range tasks {
		title := t.Title
		if len(title) > maxTitleWidth {
			title = title[:maxTitleWidth-3] + "..."
		}
		when := dimStyle.Render("--")
		if t.Start != nil {
			when = formatTime(t.Start)
		}
		dur := dimStyle.Render("--")
		if t.Props.Duration > 0 {
			dur = FormatHours(t.Props.Duration)
		}

		row := fmt.Sprintf("%-*s %s %s %s %s",
			idW, t.ID.String(),
			padRight(priorityLabel(t.Props.Priority), prioW),
			padRight(title, titleW),
			padRight(when, whenW),
			dur)
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// TaskDetail renders a single task with full detail. Details are rendered
// as markdown.
func TaskDetail(w io.Writer, t *task.Task) {
	titleLine := fmt.Sprintf("Task #%s: %s", t.ID, t.Title)
	fmt.Fprintln(w, titleStyle.Render(titleLine))
	fmt.Fprintln(w, strings.Repeat("─", lipgloss.Width(titleLine)))

	printField(w, "Priority", priorityLabel(t.Props.Priority))
	printField(w, "Start", timeOrDash(t.Start))
	printField(w, "End", timeOrDash(t.End))
	if t.Props.Duration > 0 {
		printField(w, "Duration", FormatHours(t.Props.Duration))
	} else {
		printField(w, "Duration", dimStyle.Render("--"))
	}

	if t.Props.Details != "" {
		fmt.Fprintln(w)
		fmt.Fprint(w, RenderMarkdown(t.Props.Details, markdownWrap))
	}
}

// RenderMarkdown renders s for the terminal, falling back to the raw text
// when rendering fails.
func RenderMarkdown(s string, width int) string {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if markdownStyle != "" {
		opts = append(opts, glamour.WithStandardStyle(markdownStyle), glamour.WithColorProfile(termenv.Ascii))
	} else {
		opts = append(opts, glamour.WithAutoStyle())
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return s + "\n"
	}
	out, err := r.Render(s)
	if err != nil {
		return s + "\n"
	}
	return out
}

// ActivityTable renders activity entries, oldest first.
func ActivityTable(w io.Writer, entries []activity.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "No activity recorded.")
		return
	}

	const timeW, actionW, idW = 20, 12, 8
	header := fmt.Sprintf("%-*s %-*s %-*s %s", timeW, "TIME", actionW, "ACTION", idW, "TASK", "DETAIL")
	fmt.Fprintln(w, headerStyle.Render(header))

	for _, e := range entries {
		id := e.TaskID
		if id == "" {
			id = dimStyle.Render("--")
		}
		action := e.Action
		if st, ok := actionStyles[action]; ok {
			action = st.Render(action)
		}
		row := fmt.Sprintf("%-*s %s %s %s",
			timeW, e.Timestamp.Local().Format(timeLayout),
			padRight(action, actionW),
			padRight(id, idW),
			e.Detail)
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// GroupedTable renders grouped tasks with a per-group effort total.
func GroupedTable(w io.Writer, gs task.GroupedSummary) {
	if len(gs.Groups) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	for i, g := range gs.Groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		label := g.Key
		if gs.Field == task.FieldPriority {
			label = "priority " + g.Key
		}
		title := fmt.Sprintf("%s (%d tasks, %s)", label, g.Total, FormatHours(g.Duration))
		fmt.Fprintln(w, titleStyle.Render(title))

		for j := range g.Tasks {
			fmt.Fprintln(w, "  "+formatTaskLine(&g.Tasks[j]))
		}
	}
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}

// FormatHours renders an effort in hours, e.g. "2h" or "1.5h".
func FormatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64) + "h"
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-12s %s\n", label+":", value)
}

func priorityLabel(p int) string {
	s := strconv.Itoa(p)
	if st, ok := priorityStyles[p]; ok {
		return st.Render(s)
	}
	return s
}

func formatTime(ts *date.Timestamp) string {
	return ts.Time.Format(timeLayout)
}

func timeOrDash(ts *date.Timestamp) string {
	if ts == nil {
		return dimStyle.Render("--")
	}
	return formatTime(ts)
}

// padRight pads s with spaces to the given visible width, accounting for ANSI
// escape codes that are invisible but consume bytes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}
