// Package cmd implements the taskcal CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskcal/internal/activity"
	"github.com/twiced-technology-gmbh/taskcal/internal/api"
	"github.com/twiced-technology-gmbh/taskcal/internal/clierr"
	"github.com/twiced-technology-gmbh/taskcal/internal/config"
	"github.com/twiced-technology-gmbh/taskcal/internal/output"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flags.
var (
	flagJSON    bool
	flagTable   bool
	flagCompact bool
	flagDir     string
	flagNoColor bool
	flagAPIURL  string
)

var rootCmd = &cobra.Command{
	Use:   "taskcal",
	Short: "Terminal calendar for your task backend",
	Long: `taskcal shows the tasks of a task backend as a week, day or month calendar.
Just run taskcal to open the TUI. Subcommands list and change tasks from scripts.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runTUI,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagNoColor || os.Getenv("NO_COLOR") != "" {
			output.DisableColor()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagTable, "table", false, "output as table")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "compact", false, "compact one-line-per-record output")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "oneline", false, "alias for --compact")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "path to the taskcal config directory")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable color output")
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "task backend root URL for this run")
}

// Execute runs the root command.
func Execute() {
	_, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}

	var silent *clierr.SilentError
	if errors.As(err, &silent) {
		os.Exit(silent.Code)
	}

	if outputFormat() == output.FormatJSON {
		var cliErr *clierr.Error
		if errors.As(err, &cliErr) {
			output.JSONError(os.Stdout, cliErr.Code, cliErr.Message, cliErr.Details)
			os.Exit(cliErr.ExitCode())
		}
		// Unknown error, wrap as INTERNAL_ERROR.
		output.JSONError(os.Stdout, clierr.InternalError, err.Error(), nil)
		os.Exit(2) //nolint:mnd // exit code 2 for internal errors
	}

	fmt.Fprintln(os.Stderr, err)
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		os.Exit(cliErr.ExitCode())
	}
	os.Exit(1)
}

// resolveDir returns the config directory: --dir, $TASKCAL_HOME or
// ~/.config/taskcal.
func resolveDir() (string, error) {
	if flagDir != "" {
		return flagDir, nil
	}
	return config.DefaultDir()
}

// loadConfig loads the config and applies the environment and --api-url
// overrides. The default directory is auto-created on first use; a
// missing config in an explicit --dir is an error.
func loadConfig() (*config.Config, error) {
	dir, err := resolveDir()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(dir)
	if errors.Is(err, config.ErrNotFound) {
		if flagDir != "" {
			return nil, clierr.New(clierr.ConfigNotFound, err.Error()).
				WithDetails(map[string]any{"dir": dir})
		}
		cfg, err = config.Init(dir, "")
	}
	if err != nil {
		if errors.Is(err, config.ErrInvalid) {
			return nil, clierr.New(clierr.InvalidInput, err.Error()).
				WithDetails(map[string]any{"dir": dir})
		}
		return nil, err
	}

	cfg.LoadEnv()
	if flagAPIURL != "" {
		if err := cfg.OverrideBaseURL(flagAPIURL); err != nil {
			return nil, clierr.New(clierr.InvalidInput, err.Error())
		}
	}
	return cfg, nil
}

// newClient returns a backend client for cfg.
func newClient(cfg *config.Config) (*api.Client, error) {
	client, err := api.NewClient(cfg.BaseURL(), api.WithTimeout(cfg.TimeoutDuration()))
	if err != nil {
		return nil, clierr.New(clierr.InvalidInput, err.Error())
	}
	return client, nil
}

// activityLog returns the activity log of cfg's directory.
func activityLog(cfg *config.Config) *activity.Log {
	return activity.New(cfg.Dir())
}

// apiError converts backend and transport failures into CLI errors.
// Other errors pass through unchanged.
func apiError(err error, fallback string) error {
	if err == nil {
		return nil
	}
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		return cliErr
	}
	var statusErr *api.StatusError
	if errors.As(err, &statusErr) {
		details := map[string]any{"status": statusErr.StatusCode}
		if statusErr.RequestID != "" {
			details["request_id"] = statusErr.RequestID
		}
		return clierr.New(clierr.BackendError, api.Message(err, fallback)).WithDetails(details)
	}
	var transportErr *api.TransportError
	if errors.As(err, &transportErr) {
		return clierr.New(clierr.TransportError, transportErr.Error()).
			WithDetails(map[string]any{"op": transportErr.Op})
	}
	return err
}

// outputFormat returns the detected output format from flags/env.
func outputFormat() output.Format {
	return output.Detect(flagJSON, flagTable, flagCompact)
}
