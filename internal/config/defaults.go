// Package config handles taskcal configuration.
package config

const (
	// DefaultDirName is the config directory name under the user config root.
	DefaultDirName = "taskcal"

	// DefaultBaseURL is the task backend root used when none is configured.
	DefaultBaseURL = "http://localhost:5000"
	// DefaultTimeout is the per-request timeout as a duration string.
	DefaultTimeout = "15s"
	// DefaultInitialView is the calendar view shown on start.
	DefaultInitialView = "week"
	// DefaultFirstWeekday starts week rows.
	DefaultFirstWeekday = "monday"
	// DefaultMaxMonthEntries caps the entries listed in a month cell.
	DefaultMaxMonthEntries = 3

	// ConfigFileName is the name of the config file within the config directory.
	ConfigFileName = "config.yml"

	// CurrentVersion is the current config schema version.
	CurrentVersion = 2

	// Environment overrides, also read from a .env file.
	EnvHome    = "TASKCAL_HOME"
	EnvAPIURL  = "TASKCAL_API_URL"
	EnvTimeout = "TASKCAL_TIMEOUT"
)
