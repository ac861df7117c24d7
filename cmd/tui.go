package cmd

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskcal/internal/calendar"
	"github.com/twiced-technology-gmbh/taskcal/internal/config"
	"github.com/twiced-technology-gmbh/taskcal/internal/popup"
	"github.com/twiced-technology-gmbh/taskcal/internal/tui"
	"github.com/twiced-technology-gmbh/taskcal/internal/watcher"
)

// reloadFiles are the files in the config directory whose changes reload
// display settings in a running TUI. The .env overrides only affect the
// backend connection, which is fixed for the life of the program.
var reloadFiles = []string{config.ConfigFileName}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the calendar (same as running taskcal without arguments)",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	rec := activityLog(cfg)
	cal := calendar.New(client,
		calendar.WithRecorder(rec),
		calendar.WithView(cfg.InitialView()),
		calendar.WithFirstWeekday(cfg.FirstWeekday()),
	)
	ctrl := popup.New(client, cal, popup.WithRecorder(rec))

	dir := cfg.Dir()
	model := tui.New(cal, ctrl,
		tui.WithMaxMonthEntries(cfg.MaxMonthEntries()),
		tui.WithReload(func() (*config.Config, error) { return config.Load(dir) }),
	)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go startTUIWatcher(ctx, dir, p)

	_, err = p.Run()
	return err
}

func startTUIWatcher(ctx context.Context, dir string, p *tea.Program) {
	w, err := watcher.New(dir, reloadFiles, func() {
		p.Send(tui.ReloadMsg{})
	})
	if err != nil {
		return // non-fatal: TUI works without live reload
	}
	defer w.Close()
	w.Run(ctx, nil)
}
