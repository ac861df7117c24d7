package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/twiced-technology-gmbh/taskcal/internal/activity"
	"github.com/twiced-technology-gmbh/taskcal/internal/task"
)

// TaskCompact renders a list of tasks in one-line-per-record compact format.
func TaskCompact(w io.Writer, tasks []task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	for i := range tasks {
		fmt.Fprintln(w, formatTaskLine(&tasks[i]))
	}
}

// TaskDetailCompact renders a single task with detail in compact format.
func TaskDetailCompact(w io.Writer, t *task.Task) {
	fmt.Fprintln(w, formatTaskLine(t))

	if t.End != nil {
		fmt.Fprintln(w, "  end:"+formatTime(t.End))
	}
	if t.Props.Details != "" {
		for _, line := range strings.Split(t.Props.Details, "\n") {
			fmt.Fprintln(w, "  "+line)
		}
	}
}

// ActivityCompact renders activity entries one per line.
func ActivityCompact(w io.Writer, entries []activity.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "No activity recorded.")
		return
	}
	for _, e := range entries {
		line := e.Timestamp.Format("2006-01-02T15:04:05") + " " + e.Action
		if e.TaskID != "" {
			line += " #" + e.TaskID
		}
		if e.Detail != "" {
			line += " " + e.Detail
		}
		fmt.Fprintln(w, line)
	}
}

// GroupedCompact renders one summary line per group.
func GroupedCompact(w io.Writer, gs task.GroupedSummary) {
	if len(gs.Groups) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}
	for _, g := range gs.Groups {
		fmt.Fprintf(w, "%s: %d tasks, %s\n", g.Key, g.Total, FormatHours(g.Duration))
	}
}

// formatTaskLine builds the one-line representation of a task.
func formatTaskLine(t *task.Task) string {
	line := "#" + t.ID.String() + " [p" + strconv.Itoa(t.Props.Priority) + "] " + t.Title
	if t.Start != nil {
		line += " at:" + formatTime(t.Start)
	}
	if t.Props.Duration > 0 {
		line += " est:" + FormatHours(t.Props.Duration)
	}
	return line
}
