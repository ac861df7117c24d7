package task

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/taskcal/internal/clierr"
	"github.com/twiced-technology-gmbh/taskcal/internal/date"
)

func stamp(t *testing.T, s string) *date.Timestamp {
	t.Helper()
	ts, err := date.ParseTimestamp(s)
	require.NoError(t, err)
	return &ts
}

func fixture(t *testing.T) []Task {
	return []Task{
		{ID: "10", Title: "Deploy", Start: stamp(t, "2024-06-03T09:00:00"), Props: Props{Priority: 2, Duration: 1}},
		{ID: "9", Title: "backlog grooming", Props: Props{Priority: 3, Duration: 0.5}},
		{ID: "2", Title: "Write report", Start: stamp(t, "2024-06-01T07:00:00"),
			Props: Props{Priority: 1, Duration: 2, Details: "Quarterly numbers"}},
		{ID: "3", Title: "Review", End: stamp(t, "2024-06-01T10:00:00"), Props: Props{Priority: 2, Duration: 1.5}},
	}
}

func ids(tasks []Task) []ID {
	out := make([]ID, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestQuerySort(t *testing.T) {
	tests := []struct {
		sortBy  string
		reverse bool
		want    []ID
	}{
		{"", false, []ID{"2", "3", "10", "9"}},
		{FieldID, false, []ID{"2", "3", "9", "10"}},
		{FieldTitle, false, []ID{"9", "10", "3", "2"}},
		{FieldPriority, false, []ID{"2", "10", "3", "9"}},
		{FieldDuration, true, []ID{"2", "3", "10", "9"}},
	}
	for _, tt := range tests {
		t.Run(tt.sortBy, func(t *testing.T) {
			got, err := Query(fixture(t), ListOptions{SortBy: tt.sortBy, Reverse: tt.reverse})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestQueryInvalidSort(t *testing.T) {
	_, err := Query(fixture(t), ListOptions{SortBy: "status"})
	var cliErr *clierr.Error
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, clierr.InvalidInput, cliErr.Code)
}

func TestQueryFilter(t *testing.T) {
	from := date.New(2024, 6, 1)
	to := date.New(2024, 6, 2)

	got, err := Query(fixture(t), ListOptions{Filter: FilterOptions{From: &from, To: &to}})
	require.NoError(t, err)
	assert.Equal(t, []ID{"2", "3"}, ids(got), "end-only tasks are placed at their end")

	got, _ = Query(fixture(t), ListOptions{Filter: FilterOptions{Search: "quarterly"}})
	assert.Equal(t, []ID{"2"}, ids(got))

	got, _ = Query(fixture(t), ListOptions{Filter: FilterOptions{Priorities: []int{2}}})
	assert.Equal(t, []ID{"3", "10"}, ids(got))

	got, _ = Query(fixture(t), ListOptions{Filter: FilterOptions{Unscheduled: true}})
	assert.Equal(t, []ID{"9"}, ids(got))

	got, _ = Query(fixture(t), ListOptions{Limit: 2})
	assert.Len(t, got, 2)
}

func TestGroupBy(t *testing.T) {
	byDay := GroupBy(fixture(t), FieldDay)
	require.Len(t, byDay.Groups, 3)
	assert.Equal(t, "2024-06-01", byDay.Groups[0].Key)
	assert.Equal(t, 2, byDay.Groups[0].Total)
	assert.InDelta(t, 3.5, byDay.Groups[0].Duration, 0.001)
	assert.Equal(t, "2024-06-03", byDay.Groups[1].Key)
	assert.Equal(t, "(unscheduled)", byDay.Groups[2].Key)

	byPriority := GroupBy(fixture(t), FieldPriority)
	require.Len(t, byPriority.Groups, 3)
	assert.Equal(t, []string{"1", "2", "3"}, []string{
		byPriority.Groups[0].Key, byPriority.Groups[1].Key, byPriority.Groups[2].Key,
	})
	assert.Equal(t, 2, byPriority.Groups[1].Total)
}

func TestFind(t *testing.T) {
	got, err := Find(fixture(t), "3")
	require.NoError(t, err)
	assert.Equal(t, "Review", got.Title)

	_, err = Find(fixture(t), "404")
	var cliErr *clierr.Error
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, clierr.TaskNotFound, cliErr.Code)
}
