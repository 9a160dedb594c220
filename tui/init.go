// Package tui provides the primary terminal user interface implementation.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Init initializes the terminal user interface, triggering the initial library load.
func (b *statefulBubble) Init() tea.Cmd {
	// The library is scanned once at startup; later rescans are explicit.
	return tea.Batch(b.startLoading(), b.loadLibrary(true), b.waitForItemsLoaded())
}
