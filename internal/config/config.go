package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.yaml.in/yaml/v3"

	"github.com/twiced-technology-gmbh/taskcal/internal/calendar"
	"github.com/twiced-technology-gmbh/taskcal/internal/filelock"
)

const (
	fileMode = 0o600
	dirMode  = 0o750

	lockFileName = ".lock"
	envFileName  = ".env"
)

// Sentinel errors.
var (
	ErrNotFound = errors.New("no taskcal config found (run 'taskcal init' to create one)")
	ErrInvalid  = errors.New("invalid config")
)

// Config represents the taskcal configuration.
type Config struct {
	Version  int            `yaml:"version"`
	API      APIConfig      `yaml:"api"`
	Calendar CalendarConfig `yaml:"calendar"`
	TUI      TUIConfig      `yaml:"tui,omitempty"`

	// dir is the absolute path to the config directory (not serialized).
	dir string `yaml:"-"`
	// env holds overrides from the environment (not serialized).
	env envOverrides `yaml:"-"`
}

// APIConfig locates the task backend.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout,omitempty"`
}

// CalendarConfig holds calendar display settings.
type CalendarConfig struct {
	InitialView  string `yaml:"initial_view"`
	FirstWeekday string `yaml:"first_weekday"`
}

// TUIConfig holds TUI-specific display settings.
type TUIConfig struct {
	MaxMonthEntries int `yaml:"max_month_entries,omitempty"`
}

type envOverrides struct {
	baseURL string
	timeout string
}

// Dir returns the absolute path to the config directory.
func (c *Config) Dir() string {
	return c.dir
}

// SetDir sets the config directory path.
func (c *Config) SetDir(dir string) {
	c.dir = dir
}

// ConfigPath returns the absolute path to the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.dir, ConfigFileName)
}

// NewDefault creates a Config with default values.
func NewDefault() *Config {
	return &Config{
		Version: CurrentVersion,
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Timeout: DefaultTimeout,
		},
		Calendar: CalendarConfig{
			InitialView:  DefaultInitialView,
			FirstWeekday: DefaultFirstWeekday,
		},
		TUI: TUIConfig{MaxMonthEntries: DefaultMaxMonthEntries},
	}
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	if err := validateBaseURL(c.API.BaseURL); err != nil {
		return err
	}
	if c.API.Timeout != "" {
		if d, err := time.ParseDuration(c.API.Timeout); err != nil || d <= 0 {
			return fmt.Errorf("%w: invalid api.timeout %q", ErrInvalid, c.API.Timeout)
		}
	}
	if _, err := calendar.ParseViewMode(c.Calendar.InitialView); err != nil {
		return fmt.Errorf("%w: calendar.initial_view: %w", ErrInvalid, err)
	}
	if _, err := parseWeekday(c.Calendar.FirstWeekday); err != nil {
		return fmt.Errorf("%w: calendar.first_weekday: %w", ErrInvalid, err)
	}
	const maxMonthEntries = 10
	if c.TUI.MaxMonthEntries < 0 || c.TUI.MaxMonthEntries > maxMonthEntries {
		return fmt.Errorf("%w: tui.max_month_entries must be between 0 and %d", ErrInvalid, maxMonthEntries)
	}
	return nil
}

func validateBaseURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("%w: api.base_url is required", ErrInvalid)
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: api.base_url %q must be an http(s) URL", ErrInvalid, raw)
	}
	return nil
}

// BaseURL returns the backend root, preferring the environment override.
func (c *Config) BaseURL() string {
	if c.env.baseURL != "" {
		return c.env.baseURL
	}
	return c.API.BaseURL
}

// TimeoutDuration returns the request timeout, preferring the environment
// override. Unset or unparseable values yield the default.
func (c *Config) TimeoutDuration() time.Duration {
	for _, s := range []string{c.env.timeout, c.API.Timeout, DefaultTimeout} {
		if s == "" {
			continue
		}
		if d, err := time.ParseDuration(s); err == nil && d > 0 {
			return d
		}
	}
	return 0
}

// InitialView returns the configured start view.
func (c *Config) InitialView() calendar.ViewMode {
	m, _ := calendar.ParseViewMode(c.Calendar.InitialView)
	return m
}

// FirstWeekday returns the configured first day of the week.
func (c *Config) FirstWeekday() time.Weekday {
	d, _ := parseWeekday(c.Calendar.FirstWeekday)
	return d
}

// MaxMonthEntries returns how many entries a month cell lists.
// Returns DefaultMaxMonthEntries if the value is unset (zero).
func (c *Config) MaxMonthEntries() int {
	if c.TUI.MaxMonthEntries == 0 {
		return DefaultMaxMonthEntries
	}
	return c.TUI.MaxMonthEntries
}

func parseWeekday(s string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "monday", "":
		return time.Monday, nil
	case "sunday":
		return time.Sunday, nil
	case "saturday":
		return time.Saturday, nil
	}
	return time.Monday, fmt.Errorf("unsupported weekday %q (expected monday, sunday or saturday)", s)
}

// LoadEnv reads .env files from the working directory and the config
// directory, then captures the TASKCAL_* overrides. Variables already set
// in the environment win over .env values.
func (c *Config) LoadEnv() {
	for _, path := range []string{envFileName, filepath.Join(c.dir, envFileName)} {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
		}
	}
	c.env = envOverrides{
		baseURL: os.Getenv(EnvAPIURL),
		timeout: os.Getenv(EnvTimeout),
	}
}

// OverrideBaseURL sets the backend root for this process only.
func (c *Config) OverrideBaseURL(raw string) error {
	if err := validateBaseURL(raw); err != nil {
		return err
	}
	c.env.baseURL = raw
	return nil
}

// Init writes a default config into dir, pointing at baseURL.
func Init(dir, baseURL string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg := NewDefault()
	cfg.SetDir(absDir)
	if baseURL != "" {
		cfg.API.BaseURL = baseURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(absDir, dirMode); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	if err := cfg.Save(); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to its config file under an exclusive lock.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return filelock.With(filepath.Join(c.dir, lockFileName), func() error {
		return os.WriteFile(c.ConfigPath(), data, fileMode)
	})
}

// Load reads and validates the config in dir.
func Load(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	path := filepath.Join(absDir, ConfigFileName)
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.dir = absDir

	// Migrate old config versions forward before validating.
	oldVersion := cfg.Version
	if err := migrate(&cfg); err != nil {
		return nil, err
	}

	// Persist migrated config so future loads skip re-migration.
	if cfg.Version != oldVersion {
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("saving migrated config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// DefaultDir returns $TASKCAL_HOME, or ~/.config/taskcal.
func DefaultDir() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", DefaultDirName), nil
}
