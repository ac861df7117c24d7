package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/taskcal/internal/activity"
	"github.com/twiced-technology-gmbh/taskcal/internal/date"
	"github.com/twiced-technology-gmbh/taskcal/internal/task"
)

func init() {
	DisableColor()
}

func sample() []task.Task {
	start, _ := date.ParseTimestamp("2024-06-01T07:00:00")
	end, _ := date.ParseTimestamp("2024-06-01T09:00:00")
	return []task.Task{
		{
			ID: "42", Title: "Write report", Start: &start, End: &end,
			Props: task.Props{Priority: 1, Duration: 2.5, Details: "quarterly **numbers**"},
		},
		{ID: "7", Title: "Unscheduled"},
	}
}

func TestDetect(t *testing.T) {
	t.Setenv(EnvOutput, "")
	assert.Equal(t, FormatJSON, Detect(true, true, true))
	assert.Equal(t, FormatCompact, Detect(false, true, true))
	assert.Equal(t, FormatTable, Detect(false, true, false))
	assert.Equal(t, FormatTable, Detect(false, false, false))

	t.Setenv(EnvOutput, "json")
	assert.Equal(t, FormatJSON, Detect(false, false, false))
	t.Setenv(EnvOutput, "oneline")
	assert.Equal(t, FormatCompact, Detect(false, false, false))
	t.Setenv(EnvOutput, " JSON ")
	assert.Equal(t, FormatJSON, Detect(false, false, false))
	assert.Equal(t, FormatTable, Detect(false, true, false))
	t.Setenv(EnvOutput, "yaml")
	assert.Equal(t, FormatTable, Detect(false, false, false))
}

func TestParseFormat(t *testing.T) {
	for name, want := range map[string]Format{
		"table": FormatTable, "json": FormatJSON, "compact": FormatCompact, "OneLine": FormatCompact,
	} {
		got, ok := ParseFormat(name)
		require.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
	_, ok := ParseFormat("csv")
	assert.False(t, ok)
	assert.Equal(t, "compact", FormatCompact.String())
	assert.Equal(t, "table", FormatTable.String())
}

func TestTaskTable(t *testing.T) {
	var buf bytes.Buffer
	TaskTable(&buf, sample())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "Write report")
	assert.Contains(t, lines[1], "2024-06-01 07:00")
	assert.Contains(t, lines[1], "2.5h")
	assert.Contains(t, lines[2], "--")
}

func TestTaskCompact(t *testing.T) {
	var buf bytes.Buffer
	TaskCompact(&buf, sample())
	assert.Equal(t,
		"#42 [p1] Write report at:2024-06-01 07:00 est:2.5h\n#7 [p0] Unscheduled\n",
		buf.String())
}

func TestTaskDetail(t *testing.T) {
	tasks := sample()
	var buf bytes.Buffer
	TaskDetail(&buf, &tasks[0])

	out := buf.String()
	assert.Contains(t, out, "Task #42: Write report")
	assert.Contains(t, out, "2024-06-01 09:00")
	assert.Contains(t, out, "quarterly")
	assert.NotContains(t, out, "\x1b[")
}

func TestActivity(t *testing.T) {
	entries := []activity.Entry{
		{Timestamp: time.Date(2024, 6, 1, 9, 0, 0, 0, time.Local), Action: activity.ActionCreate, TaskID: "42", Detail: "Write report"},
		{Timestamp: time.Date(2024, 6, 1, 9, 5, 0, 0, time.Local), Action: activity.ActionLoadError, Detail: "connection refused"},
	}

	var buf bytes.Buffer
	ActivityCompact(&buf, entries)
	assert.Equal(t,
		"2024-06-01T09:00:00 create #42 Write report\n2024-06-01T09:05:00 load-error connection refused\n",
		buf.String())

	buf.Reset()
	ActivityTable(&buf, entries)
	assert.Contains(t, buf.String(), "load-error")
}

func TestJSONError(t *testing.T) {
	var buf bytes.Buffer
	JSONError(&buf, "TASK_NOT_FOUND", "task not found", map[string]any{"id": "9"})
	assert.JSONEq(t, `{"error":"task not found","code":"TASK_NOT_FOUND","details":{"id":"9"}}`, buf.String())
}

func TestFormatHours(t *testing.T) {
	assert.Equal(t, "2h", FormatHours(2))
	assert.Equal(t, "0.25h", FormatHours(0.25))
}

func TestGrouped(t *testing.T) {
	gs := task.GroupBy(sample(), task.FieldDay)

	var buf bytes.Buffer
	GroupedCompact(&buf, gs)
	assert.Equal(t, "2024-06-01: 1 tasks, 2.5h\n(unscheduled): 1 tasks, 0h\n", buf.String())

	buf.Reset()
	GroupedTable(&buf, gs)
	assert.Contains(t, buf.String(), "2024-06-01 (1 tasks, 2.5h)")
	assert.Contains(t, buf.String(), "  #42 [p1] Write report")
}
