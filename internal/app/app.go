package app

import (
	"context"
	"fmt"
	"time"

	"github.com/n3xus47/grafiksp4600/internal/api"
	"github.com/n3xus47/grafiksp4600/internal/config"
	"github.com/n3xus47/grafiksp4600/internal/prefs"
	"github.com/n3xus47/grafiksp4600/internal/state"
	"github.com/n3xus47/grafiksp4600/internal/ui"
)

// Options configure the application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/grafik/prefs.toml
	PollEvery  int    // seconds; zero uses the configured interval
	Year       int    // initial schedule month; zero uses the current one
	Month      int
}

// Run boots the TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	userPrefs := prefs.Load(opts.PrefsPath)

	client, err := api.NewClient(cfg.Server, cfg.SessionCookie, cfg.CSRFToken)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	store := &state.Store{}

	interval := time.Duration(cfg.PollSeconds) * time.Second
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	StartPoller(ctx, store, client, interval)

	// Initial refresh so the UI has a roster to lay the grid out with.
	refresh(ctx, store, client)

	year, month := opts.Year, time.Month(opts.Month)
	if year == 0 || opts.Month == 0 {
		now := time.Now()
		year, month = now.Year(), now.Month()
	}

	uiOpts := ui.Options{
		Context:     ctx,
		Client:      client,
		Store:       store,
		Config:      cfg,
		PollTick:    interval,
		ThemeName:   userPrefs.Theme,
		PrefsPath:   opts.PrefsPath,
		Year:        year,
		Month:       month,
		CurrentUser: cfg.User,
	}
	return ui.Run(uiOpts)
}
