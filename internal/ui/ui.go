// Package ui renders the schedule grid and its companion views as a
// terminal UI. Cell state is single-threaded: only the Update loop
// touches the grid store, the edit session and the draft overlay, so
// none of them need locking. Background data arrives through the shared
// state store and is folded in on the UI tick.
package ui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/n3xus47/grafiksp4600/internal/api"
	"github.com/n3xus47/grafiksp4600/internal/config"
	"github.com/n3xus47/grafiksp4600/internal/state"
)

// Options configure the UI.
type Options struct {
	Context context.Context
	Client  *api.Client
	Store   *state.Store
	Config  config.Config

	PollTick  time.Duration
	ThemeName string
	PrefsPath string

	Year        int
	Month       time.Month
	CurrentUser string
}

// Run blocks until the UI exits or the context is cancelled.
func Run(opts Options) error {
	if opts.Client == nil || opts.Store == nil {
		return fmt.Errorf("ui requires a client and a state store")
	}

	program := tea.NewProgram(
		newModel(opts),
		tea.WithAltScreen(),
		tea.WithContext(opts.Context),
	)
	_, err := program.Run()
	if err == tea.ErrProgramKilled && opts.Context.Err() != nil {
		return nil
	}
	return err
}
