package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskcal/internal/activity"
	"github.com/twiced-technology-gmbh/taskcal/internal/clierr"
	"github.com/twiced-technology-gmbh/taskcal/internal/output"
	"github.com/twiced-technology-gmbh/taskcal/internal/popup"
	"github.com/twiced-technology-gmbh/taskcal/internal/task"
)

var editCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Edit a task",
	Long: `Modifies fields of an existing task. The form starts from the task's
current values; only the flags given are changed. The whole task is sent back.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	addFormFlags(editCmd)
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	id, err := task.ParseID(args[0])
	if err != nil {
		return err
	}

	env, err := newMutationEnv()
	if err != nil {
		return err
	}

	ctx := context.Background()
	ev, err := env.lookup(ctx, id)
	if err != nil {
		return err
	}

	env.ctrl.OpenEntry(ev)
	f := env.ctrl.Form()
	if !applyFormFlags(cmd, &f) {
		return clierr.New(clierr.NoChanges, "no changes specified")
	}
	env.ctrl.SetForm(f)

	if err := env.ctrl.Save(ctx); err != nil {
		return apiError(err, popup.FallbackSave)
	}

	return printMutation(output.MutationResult{Action: activity.ActionUpdate, ID: id.String(), Name: f.Name, OK: true},
		"Updated task #%s: %s", id, f.Name)
}
