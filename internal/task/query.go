package task

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/taskcal/internal/clierr"
	"github.com/twiced-technology-gmbh/taskcal/internal/date"
)

// Sort and group fields accepted by list.
const (
	FieldStart    = "start"
	FieldID       = "id"
	FieldTitle    = "title"
	FieldPriority = "priority"
	FieldDuration = "duration"
	FieldDay      = "day"

	unscheduledKey = "(unscheduled)"
)

// FilterOptions defines which tasks to include.
type FilterOptions struct {
	From        *date.Date // first day included, by start or else end
	To          *date.Date // last day included
	Priorities  []int
	Search      string // case-insensitive substring of title or details
	Unscheduled bool   // only tasks with neither start nor end
}

// ListOptions controls how tasks are listed.
type ListOptions struct {
	Filter  FilterOptions
	SortBy  string
	Reverse bool
	Limit   int
}

// When returns the time a task is placed at: its start, or its end when it
// has no start.
func (t Task) When() (time.Time, bool) {
	switch {
	case t.Start != nil:
		return t.Start.Time, true
	case t.End != nil:
		return t.End.Time, true
	default:
		return time.Time{}, false
	}
}

// Query filters, sorts and limits tasks. The input slice is not modified.
func Query(tasks []Task, opts ListOptions) ([]Task, error) {
	field := opts.SortBy
	if field == "" {
		field = FieldStart
	}
	if !slices.Contains(ValidSortFields(), field) {
		return nil, clierr.Newf(clierr.InvalidInput, "invalid sort field %q; valid: %s",
			field, strings.Join(ValidSortFields(), ", "))
	}

	out := Filter(tasks, opts.Filter)
	Sort(out, field, opts.Reverse)
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

// Filter returns tasks matching all specified criteria (AND logic).
func Filter(tasks []Task, opts FilterOptions) []Task {
	result := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if matchesFilter(t, opts) {
			result = append(result, t)
		}
	}
	return result
}

func matchesFilter(t Task, opts FilterOptions) bool {
	when, scheduled := t.When()
	if opts.Unscheduled && scheduled {
		return false
	}
	if opts.From != nil || opts.To != nil {
		if !scheduled {
			return false
		}
		day := date.Of(when)
		if opts.From != nil && day.Before(opts.From.Time) {
			return false
		}
		if opts.To != nil && day.After(opts.To.Time) {
			return false
		}
	}
	if len(opts.Priorities) > 0 && !slices.Contains(opts.Priorities, t.Props.Priority) {
		return false
	}
	if opts.Search != "" && !matchesSearch(t, opts.Search) {
		return false
	}
	return true
}

// matchesSearch performs case-insensitive substring matching across title and details.
func matchesSearch(t Task, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(t.Title), q) ||
		strings.Contains(strings.ToLower(t.Props.Details), q)
}

// Sort sorts tasks by the given field. Unscheduled tasks sort last by start.
func Sort(tasks []Task, field string, reverse bool) {
	slices.SortStableFunc(tasks, func(a, b Task) int {
		c := compareTasks(a, b, field)
		if reverse {
			return -c
		}
		return c
	})
}

func compareTasks(a, b Task, field string) int {
	switch field {
	case FieldTitle:
		return cmp.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	case FieldPriority:
		return cmp.Compare(a.Props.Priority, b.Props.Priority)
	case FieldDuration:
		return cmp.Compare(a.Props.Duration, b.Props.Duration)
	case FieldStart:
		if c := compareWhen(a, b); c != 0 {
			return c
		}
		return compareIDs(a.ID, b.ID)
	default:
		return compareIDs(a.ID, b.ID)
	}
}

func compareWhen(a, b Task) int {
	ta, okA := a.When()
	tb, okB := b.When()
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return 1 // unscheduled sorts last
	case !okB:
		return -1
	}
	return ta.Compare(tb)
}

// compareIDs orders numeric IDs numerically and everything else as text.
func compareIDs(a, b ID) int {
	na, errA := strconv.ParseInt(a.String(), 10, 64)
	nb, errB := strconv.ParseInt(b.String(), 10, 64)
	if errA == nil && errB == nil {
		return cmp.Compare(na, nb)
	}
	return cmp.Compare(a.String(), b.String())
}

// ValidSortFields returns the list of valid --sort field names.
func ValidSortFields() []string {
	return []string{FieldStart, FieldID, FieldTitle, FieldPriority, FieldDuration}
}

// ValidGroupByFields returns the list of valid --group-by field names.
func ValidGroupByFields() []string {
	return []string{FieldDay, FieldPriority}
}

// GroupedSummary holds tasks grouped by a field.
type GroupedSummary struct {
	Field  string  `json:"field"`
	Groups []Group `json:"groups"`
}

// Group is one group within a grouped view.
type Group struct {
	Key      string  `json:"key"`
	Total    int     `json:"total"`
	Duration float64 `json:"duration"`
	Tasks    []Task  `json:"tasks"`
}

// GroupBy groups tasks by day or priority. Days sort chronologically with
// unscheduled tasks last; priorities sort ascending.
func GroupBy(tasks []Task, field string) GroupedSummary {
	groups := make(map[string]*Group)
	order := make(map[string]int64)
	for _, t := range tasks {
		key, rank := groupKey(t, field)
		g, ok := groups[key]
		if !ok {
			g = &Group{Key: key}
			groups[key] = g
			order[key] = rank
		}
		g.Tasks = append(g.Tasks, t)
		g.Total++
		g.Duration += t.Props.Duration
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		if c := cmp.Compare(order[a], order[b]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	result := GroupedSummary{Field: field, Groups: make([]Group, 0, len(keys))}
	for _, k := range keys {
		result.Groups = append(result.Groups, *groups[k])
	}
	return result
}

func groupKey(t Task, field string) (string, int64) {
	if field == FieldPriority {
		return strconv.Itoa(t.Props.Priority), int64(t.Props.Priority)
	}
	when, ok := t.When()
	if !ok {
		return unscheduledKey, 1<<62 //nolint:mnd // after every real day
	}
	day := date.Of(when)
	return day.String(), day.Unix()
}

// Find returns the task with the given id.
func Find(tasks []Task, id ID) (*Task, error) {
	for i := range tasks {
		if tasks[i].ID == id {
			return &tasks[i], nil
		}
	}
	return nil, NotFound(id)
}
