package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/taskcal/internal/calendar"
)

func TestInitAndLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "taskcal")

	cfg, err := Init(dir, "http://tasks.example:8080")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ConfigFileName), cfg.ConfigPath())

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, loaded.Version)
	assert.Equal(t, "http://tasks.example:8080", loaded.BaseURL())
	assert.Equal(t, 15*time.Second, loaded.TimeoutDuration())
	assert.Equal(t, calendar.ViewWeek, loaded.InitialView())
	assert.Equal(t, time.Monday, loaded.FirstWeekday())
	assert.Equal(t, DefaultMaxMonthEntries, loaded.MaxMonthEntries())
}

func TestInitRejectsBadURL(t *testing.T) {
	_, err := Init(t.TempDir(), "ftp://tasks")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadMigratesV1(t *testing.T) {
	dir := t.TempDir()
	v1 := "version: 1\napi:\n  base_url: http://localhost:5000\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(v1), 0o600))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, cfg.Version)
	assert.Equal(t, DefaultTimeout, cfg.API.Timeout)
	assert.Equal(t, DefaultInitialView, cfg.Calendar.InitialView)

	// The migrated file is persisted.
	data, err := os.ReadFile(filepath.Join(dir, ConfigFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "version: 2")
	assert.Contains(t, string(data), "first_weekday: monday")
}

func TestLoadRejectsNewerVersion(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("version: 9\n"), 0o600))

	_, err := Load(dir)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty url", func(c *Config) { c.API.BaseURL = "" }},
		{"url without host", func(c *Config) { c.API.BaseURL = "http://" }},
		{"bad timeout", func(c *Config) { c.API.Timeout = "soon" }},
		{"negative timeout", func(c *Config) { c.API.Timeout = "-1s" }},
		{"bad view", func(c *Config) { c.Calendar.InitialView = "year" }},
		{"bad weekday", func(c *Config) { c.Calendar.FirstWeekday = "friday" }},
		{"too many month entries", func(c *Config) { c.TUI.MaxMonthEntries = 11 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefault()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
	require.NoError(t, NewDefault().Validate())
}

func TestAccessors(t *testing.T) {
	cfg := NewDefault()
	cfg.Calendar.InitialView = "month"
	cfg.Calendar.FirstWeekday = "Sunday"
	cfg.TUI.MaxMonthEntries = 0
	cfg.API.Timeout = ""

	assert.Equal(t, calendar.ViewMonth, cfg.InitialView())
	assert.Equal(t, time.Sunday, cfg.FirstWeekday())
	assert.Equal(t, DefaultMaxMonthEntries, cfg.MaxMonthEntries())
	assert.Equal(t, 15*time.Second, cfg.TimeoutDuration())
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	cfg := NewDefault()
	cfg.SetDir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("TASKCAL_API_URL=http://from-dotenv:5000\nTASKCAL_TIMEOUT=3s\n"), 0o600))

	// Process environment wins over the .env file.
	t.Setenv(EnvTimeout, "7s")
	t.Setenv(EnvAPIURL, "")
	require.NoError(t, os.Unsetenv(EnvAPIURL))

	cfg.LoadEnv()
	assert.Equal(t, "http://from-dotenv:5000", cfg.BaseURL())
	assert.Equal(t, 7*time.Second, cfg.TimeoutDuration())
	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
}

func TestOverrideBaseURL(t *testing.T) {
	cfg := NewDefault()
	require.ErrorIs(t, cfg.OverrideBaseURL("localhost:5000"), ErrInvalid)
	require.NoError(t, cfg.OverrideBaseURL("https://tasks.example"))
	assert.Equal(t, "https://tasks.example", cfg.BaseURL())
}

func TestDefaultDir(t *testing.T) {
	t.Setenv(EnvHome, "/tmp/taskcal-home")
	dir, err := DefaultDir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/taskcal-home", dir)
}
