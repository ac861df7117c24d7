package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskcal/internal/activity"
	"github.com/twiced-technology-gmbh/taskcal/internal/clierr"
	"github.com/twiced-technology-gmbh/taskcal/internal/output"
	"github.com/twiced-technology-gmbh/taskcal/internal/popup"
)

var createCmd = &cobra.Command{
	Use:     "create [NAME]",
	Aliases: []string{"add"},
	Short:   "Create a new task",
	Long: `Creates a task on the backend. Name, deadline, priority and duration are required.

Name can be provided as a positional argument or via --name flag.
Details can be provided via --details or --description flag.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCreate,
}

func init() {
	addFormFlags(createCmd)
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	env, err := newMutationEnv()
	if err != nil {
		return err
	}

	env.ctrl.OpenAdd()
	f := env.ctrl.Form()
	applyFormFlags(cmd, &f)
	if len(args) > 0 {
		if cmd.Flags().Changed("name") && f.Name != args[0] {
			return clierr.New(clierr.InvalidInput, "name given both as argument and --name")
		}
		f.Name = args[0]
	}
	env.ctrl.SetForm(f)

	if err := env.ctrl.Save(context.Background()); err != nil {
		return apiError(err, popup.FallbackSave)
	}

	return printMutation(output.MutationResult{Action: activity.ActionCreate, Name: f.Name, OK: true},
		"Created task: %s", f.Name)
}
