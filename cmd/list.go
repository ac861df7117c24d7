package cmd

import (
	"context"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskcal/internal/clierr"
	"github.com/twiced-technology-gmbh/taskcal/internal/date"
	"github.com/twiced-technology-gmbh/taskcal/internal/output"
	"github.com/twiced-technology-gmbh/taskcal/internal/task"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long:    `Lists the backend's tasks with optional filtering, sorting, and output format control.`,
	Args:    cobra.NoArgs,
	RunE:    runList,
}

func init() {
	listCmd.Flags().String("from", "", "first day to include (YYYY-MM-DD)")
	listCmd.Flags().String("to", "", "last day to include (YYYY-MM-DD)")
	listCmd.Flags().IntSlice("priority", nil, "filter by priority (comma-separated)")
	listCmd.Flags().StringP("search", "s", "", "search tasks by title or details (case-insensitive)")
	listCmd.Flags().Bool("unscheduled", false, "show only tasks without start or end")
	listCmd.Flags().String("sort", task.FieldStart, "sort field ("+strings.Join(task.ValidSortFields(), ", ")+")")
	listCmd.Flags().BoolP("reverse", "r", false, "reverse sort order")
	listCmd.Flags().IntP("limit", "n", 0, "limit number of results")
	listCmd.Flags().String("group-by", "", "group results by field ("+strings.Join(task.ValidGroupByFields(), ", ")+")")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	from, err := dateFlag(cmd, "from")
	if err != nil {
		return err
	}
	to, err := dateFlag(cmd, "to")
	if err != nil {
		return err
	}
	priorities, _ := cmd.Flags().GetIntSlice("priority")
	search, _ := cmd.Flags().GetString("search")
	unscheduled, _ := cmd.Flags().GetBool("unscheduled")
	sortBy, _ := cmd.Flags().GetString("sort")
	reverse, _ := cmd.Flags().GetBool("reverse")
	limit, _ := cmd.Flags().GetInt("limit")
	groupBy, _ := cmd.Flags().GetString("group-by")

	if groupBy != "" && !slices.Contains(task.ValidGroupByFields(), groupBy) {
		return clierr.Newf(clierr.InvalidInput, "invalid --group-by field %q; valid: %s",
			groupBy, strings.Join(task.ValidGroupByFields(), ", "))
	}
	if unscheduled && (from != nil || to != nil) {
		return clierr.New(clierr.InvalidInput, "--unscheduled cannot be combined with --from or --to")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	all, err := client.ListTasks(context.Background())
	if err != nil {
		return apiError(err, "Failed to load tasks")
	}

	tasks, err := task.Query(all, task.ListOptions{
		Filter: task.FilterOptions{
			From:        from,
			To:          to,
			Priorities:  priorities,
			Search:      search,
			Unscheduled: unscheduled,
		},
		SortBy:  sortBy,
		Reverse: reverse,
		Limit:   limit,
	})
	if err != nil {
		return err
	}

	if groupBy != "" {
		return outputGroupedList(tasks, groupBy)
	}
	return outputTaskList(tasks)
}

// dateFlag parses a YYYY-MM-DD flag. Unset flags yield nil.
func dateFlag(cmd *cobra.Command, name string) (*date.Date, error) {
	raw, _ := cmd.Flags().GetString(name)
	if raw == "" {
		return nil, nil //nolint:nilnil // unset flag
	}
	d, err := date.Parse(raw)
	if err != nil {
		return nil, task.ValidateDate(name, raw, err)
	}
	return &d, nil
}

func outputGroupedList(tasks []task.Task, groupBy string) error {
	grouped := task.GroupBy(tasks, groupBy)
	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, grouped)
	case output.FormatCompact:
		output.GroupedCompact(os.Stdout, grouped)
		return nil
	default:
		output.GroupedTable(os.Stdout, grouped)
		return nil
	}
}

func outputTaskList(tasks []task.Task) error {
	format := outputFormat()
	if format == output.FormatJSON {
		if tasks == nil {
			tasks = []task.Task{}
		}
		return output.JSON(os.Stdout, tasks)
	}
	if format == output.FormatCompact {
		output.TaskCompact(os.Stdout, tasks)
		return nil
	}

	output.TaskTable(os.Stdout, tasks)
	return nil
}
