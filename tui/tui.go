// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"github.com/cue-cli/cue/repository"
	tea "github.com/charmbracelet/bubbletea"
)

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	// Continue opens straight into the continue-watching list.
	Continue bool
}

// Run initializes and executes the primary Bubble Tea application loop.
func Run(repo *repository.Repository, options *Options) error {
	bubble := newBubble(repo, options)

	_, err := tea.NewProgram(bubble, tea.WithAltScreen()).Run()
	return err
}
