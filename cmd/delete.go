package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/twiced-technology-gmbh/taskcal/internal/activity"
	"github.com/twiced-technology-gmbh/taskcal/internal/clierr"
	"github.com/twiced-technology-gmbh/taskcal/internal/output"
	"github.com/twiced-technology-gmbh/taskcal/internal/popup"
	"github.com/twiced-technology-gmbh/taskcal/internal/task"
)

var deleteCmd = &cobra.Command{
	Use:     "delete ID[,ID,...]",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Long: `Deletes a task on the backend. Prompts for confirmation in interactive mode.
Multiple IDs can be provided as a comma-separated list (requires --yes).`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args[0])
	if err != nil {
		return err
	}

	yes, _ := cmd.Flags().GetBool("yes")

	// Batch mode requires --yes.
	if len(ids) > 1 && !yes {
		return clierr.New(clierr.ConfirmationReq,
			"batch delete requires --yes")
	}

	env, err := newMutationEnv()
	if err != nil {
		return err
	}

	if len(ids) == 1 {
		return deleteSingleTask(env, ids[0], yes)
	}

	return runBatch(activity.ActionDelete, ids, func(id task.ID) error {
		_, err := executeDelete(env, id)
		return err
	})
}

// deleteSingleTask handles a single task delete with confirmation and output.
func deleteSingleTask(env *mutationEnv, id task.ID, yes bool) error {
	ev, err := env.lookup(context.Background(), id)
	if err != nil {
		return err
	}

	// Require confirmation in TTY mode unless --yes.
	if !yes {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return clierr.New(clierr.ConfirmationReq,
				"cannot prompt for confirmation (not a terminal); use --yes")
		}
		fmt.Fprintf(os.Stderr, "Delete task #%s %q? [y/N] ", ev.ID, ev.Title)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(os.Stderr, "Canceled.")
			return nil
		}
	}

	name, err := executeDelete(env, id)
	if err != nil {
		return err
	}

	return printMutation(output.MutationResult{Action: activity.ActionDelete, ID: id.String(), Name: name, OK: true},
		"Deleted task #%s: %s", id, name)
}

// executeDelete opens the task in the popup controller and removes it.
// Returns the deleted task's name.
func executeDelete(env *mutationEnv, id task.ID) (string, error) {
	ctx := context.Background()
	ev, err := env.lookup(ctx, id)
	if err != nil {
		return "", err
	}
	env.ctrl.OpenEntry(ev)
	if err := env.ctrl.Remove(ctx); err != nil {
		env.ctrl.Dismiss()
		return "", apiError(err, popup.FallbackDelete)
	}
	return ev.Title, nil
}
