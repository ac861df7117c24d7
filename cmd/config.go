package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskcal/internal/clierr"
	"github.com/twiced-technology-gmbh/taskcal/internal/config"
	"github.com/twiced-technology-gmbh/taskcal/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify taskcal configuration",
	Long:  `View the full configuration, get a specific key, or set a writable value.`,
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2), //nolint:mnd // key and value
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// configAccessor describes how to get and set a config key.
type configAccessor struct {
	get      func(*config.Config) any
	set      func(*config.Config, string) error
	writable bool
}

func setString(dst func(*config.Config) *string) func(*config.Config, string) error {
	return func(c *config.Config, v string) error {
		*dst(c) = v
		return nil // validation handles the value
	}
}

func configAccessors() map[string]configAccessor {
	return map[string]configAccessor{
		"version": {
			get: func(c *config.Config) any { return c.Version },
		},
		"api.base_url": {
			get:      func(c *config.Config) any { return c.API.BaseURL },
			set:      setString(func(c *config.Config) *string { return &c.API.BaseURL }),
			writable: true,
		},
		"api.effective_url": {
			get: func(c *config.Config) any { return c.BaseURL() },
		},
		"api.timeout": {
			get:      func(c *config.Config) any { return c.API.Timeout },
			set:      setString(func(c *config.Config) *string { return &c.API.Timeout }),
			writable: true,
		},
		"calendar.initial_view": {
			get:      func(c *config.Config) any { return c.Calendar.InitialView },
			set:      setString(func(c *config.Config) *string { return &c.Calendar.InitialView }),
			writable: true,
		},
		"calendar.first_weekday": {
			get:      func(c *config.Config) any { return c.Calendar.FirstWeekday },
			set:      setString(func(c *config.Config) *string { return &c.Calendar.FirstWeekday }),
			writable: true,
		},
		"tui.max_month_entries": {
			get: func(c *config.Config) any { return c.MaxMonthEntries() },
			set: func(c *config.Config, v string) error {
				n, err := strconv.Atoi(v)
				if err != nil {
					return clierr.Newf(clierr.InvalidInput,
						"invalid tui.max_month_entries %q: must be an integer", v)
				}
				c.TUI.MaxMonthEntries = n
				return nil // validation handles range check
			},
			writable: true,
		},
	}
}

// allConfigKeys returns config keys in display order.
func allConfigKeys() []string {
	return []string{
		"version",
		"api.base_url",
		"api.effective_url",
		"api.timeout",
		"calendar.initial_view",
		"calendar.first_weekday",
		"tui.max_month_entries",
	}
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	accessors := configAccessors()

	if outputFormat() == output.FormatJSON {
		m := make(map[string]any, len(accessors))
		for _, key := range allConfigKeys() {
			m[key] = accessors[key].get(cfg)
		}
		return output.JSON(os.Stdout, m)
	}

	// Table mode: key-value pairs.
	for _, key := range allConfigKeys() {
		fmt.Fprintf(os.Stdout, "%-24s %v\n", key, accessors[key].get(cfg))
	}
	return nil
}

func runConfigGet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	key := args[0]
	acc, ok := configAccessors()[key]
	if !ok {
		return clierr.Newf(clierr.InvalidInput, "unknown config key %q", key)
	}

	val := acc.get(cfg)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, val)
	}

	fmt.Fprintln(os.Stdout, val)
	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	acc, ok := configAccessors()[key]
	if !ok {
		return clierr.Newf(clierr.InvalidInput, "unknown config key %q", key)
	}
	if !acc.writable {
		return clierr.Newf(clierr.InvalidInput, "config key %q is read-only", key)
	}

	if err := acc.set(cfg, value); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrInvalid) {
			return clierr.New(clierr.InvalidInput, err.Error()).
				WithDetails(map[string]any{"key": key, "value": value})
		}
		return err
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"key": key, "value": acc.get(cfg)})
	}

	output.Messagef(os.Stdout, "Set %s = %v", key, acc.get(cfg))
	return nil
}
