package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/twiced-technology-gmbh/taskcal/internal/api"
	"github.com/twiced-technology-gmbh/taskcal/internal/calendar"
	"github.com/twiced-technology-gmbh/taskcal/internal/clierr"
	"github.com/twiced-technology-gmbh/taskcal/internal/config"
	"github.com/twiced-technology-gmbh/taskcal/internal/output"
	"github.com/twiced-technology-gmbh/taskcal/internal/popup"
	"github.com/twiced-technology-gmbh/taskcal/internal/task"
)

// addFormFlags registers the task form fields as flags on cmd.
func addFormFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "task name")
	cmd.Flags().String("deadline", "", "deadline (YYYY-MM-DDTHH:MM)")
	cmd.Flags().String("priority", "", "priority (1 is most urgent)")
	cmd.Flags().String("duration", "", "effort in hours")
	cmd.Flags().String("details", "", "free-form details (markdown)")
	cmd.Flags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		switch name {
		case "title":
			name = "name"
		case "due":
			name = "deadline"
		case "description":
			name = "details"
		case "estimate":
			name = "duration"
		}
		return pflag.NormalizedName(name)
	})
}

// applyFormFlags copies every changed form flag into f and reports whether
// any flag was given.
func applyFormFlags(cmd *cobra.Command, f *task.Form) bool {
	fields := []struct {
		flag string
		dst  *string
	}{
		{"name", &f.Name},
		{"deadline", &f.Deadline},
		{"priority", &f.Priority},
		{"duration", &f.Duration},
		{"details", &f.Details},
	}
	changed := false
	for _, fl := range fields {
		if !cmd.Flags().Changed(fl.flag) {
			continue
		}
		*fl.dst, _ = cmd.Flags().GetString(fl.flag)
		changed = true
	}
	return changed
}

// mutationEnv bundles what create, edit and delete need.
type mutationEnv struct {
	cfg    *config.Config
	client *api.Client
	cal    *calendar.Adapter
	ctrl   *popup.Controller
	loaded bool
}

// newMutationEnv loads the config and builds a popup controller. The
// controller has no refresher: the CLI exits right after the mutation.
func newMutationEnv() (*mutationEnv, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	client, err := newClient(cfg)
	if err != nil {
		return nil, err
	}
	rec := activityLog(cfg)
	return &mutationEnv{
		cfg:    cfg,
		client: client,
		cal:    calendar.New(client, calendar.WithRecorder(rec)),
		ctrl:   popup.New(client, nil, popup.WithRecorder(rec)),
	}, nil
}

// lookup loads the task list once and returns the entry for id.
func (e *mutationEnv) lookup(ctx context.Context, id task.ID) (calendar.Event, error) {
	if !e.loaded {
		if err := e.cal.Load(ctx); err != nil {
			return calendar.Event{}, apiError(err, "Failed to load tasks")
		}
		e.loaded = true
	}
	ev, ok := e.cal.Lookup(id)
	if !ok {
		return calendar.Event{}, task.NotFound(id)
	}
	return ev, nil
}

// parseIDs splits a comma-separated ID string into deduplicated IDs.
func parseIDs(arg string) ([]task.ID, error) {
	parts := strings.Split(arg, ",")
	seen := make(map[task.ID]bool, len(parts))
	ids := make([]task.ID, 0, len(parts))
	for _, p := range parts {
		id, err := task.ParseID(p)
		if err != nil {
			return nil, err
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}

// runBatch executes fn for each ID and collects results. Returns a SilentError
// with exit code 1 if any operation failed (after outputting results).
func runBatch(action string, ids []task.ID, fn func(task.ID) error) error {
	results := make([]output.MutationResult, 0, len(ids))
	anyFailed := false

	for _, id := range ids {
		r := output.MutationResult{Action: action, ID: id.String(), OK: true}
		if err := fn(id); err != nil {
			anyFailed = true
			r.OK = false
			r.Error = err.Error()
			var cliErr *clierr.Error
			if errors.As(err, &cliErr) {
				r.Code = cliErr.Code
			}
		}
		results = append(results, r)
	}

	if outputFormat() == output.FormatJSON {
		if err := output.JSON(os.Stdout, results); err != nil {
			return err
		}
	} else {
		var succeeded int
		for _, r := range results {
			if r.OK {
				succeeded++
			} else {
				fmt.Fprintf(os.Stderr, "Error: task #%s: %s\n", r.ID, r.Error)
			}
		}
		output.Messagef(os.Stdout, "Completed %d/%d operations", succeeded, len(ids))
	}

	if anyFailed {
		return &clierr.SilentError{Code: 1}
	}
	return nil
}

// printMutation reports a single successful create, edit or delete.
func printMutation(r output.MutationResult, format string, args ...any) error {
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, r)
	}
	output.Messagef(os.Stdout, format, args...)
	return nil
}
