// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"fmt"
	"strings"

	"github.com/cue-cli/cue/icon"
	"github.com/cue-cli/cue/key"
	"github.com/cue-cli/cue/repository"
	"github.com/cue-cli/cue/style"
	"github.com/cue-cli/cue/util"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"
)

// listItem implements the list.Item interface, wrapping various domain models for terminal display.
type listItem struct {
	internal interface{}
}

// Title retrieves the primary display text for the list item.
func (t *listItem) Title() (title string) {
	switch e := t.internal.(type) {
	case *repository.Item:
		var sb = strings.Builder{}

		switch {
		case e.Playback.Finished && !e.Folder:
			sb.WriteString(icon.Get(icon.Watched))
		case e.Folder:
			sb.WriteString(icon.Get(icon.Folder))
		default:
			sb.WriteString(icon.Get(icon.Movie))
		}
		sb.WriteString(" ")
		sb.WriteString(e.Title)

		if e.Year > 0 {
			sb.WriteString(" ")
			sb.WriteString(style.Faint(fmt.Sprintf("(%d)", e.Year)))
		}

		title = sb.String()
	case string:
		title = e
	default:
		title = t.FilterValue()
	}

	return
}

// Description retrieves the multi-line secondary metadata for the list item.
func (t *listItem) Description() (description string) {
	switch e := t.internal.(type) {
	case *repository.Item:
		var parts []string

		state := e.Playback
		switch {
		case state.Finished:
			parts = append(parts, lipgloss.NewStyle().Foreground(style.Green).Render("Watched"))
		case state.Position > 0:
			progress := fmt.Sprintf("%s / %s", util.FormatOffset(state.Position), util.FormatOffset(state.Duration))
			if state.Duration > 0 {
				progress += fmt.Sprintf(" (%.0f%%)", state.Completion()*100)
			}
			parts = append(parts, lipgloss.NewStyle().Foreground(style.Yellow).Render(progress))
		default:
			parts = append(parts, lipgloss.NewStyle().Foreground(style.Subtext).Render("Unwatched"))
		}

		if e.VoteAverage > 0 {
			parts = append(parts, lipgloss.NewStyle().Foreground(style.AccentColor).Render(fmt.Sprintf("★ %.1f", e.VoteAverage)))
		}

		if len(e.Genres) > 0 {
			parts = append(parts, lipgloss.NewStyle().Foreground(style.FaintColor).Render(strings.Join(e.Genres, ", ")))
		}

		if viper.GetBool(key.TUIShowPaths) {
			parts = append(parts, lipgloss.NewStyle().Foreground(style.FaintColor).Render(e.Path))
		}

		description = strings.Join(parts, " • ")
	case string:
		description = ""
	}

	return
}

// FilterValue returns the string used for real-time list filtering and searching.
func (t *listItem) FilterValue() string {
	switch e := t.internal.(type) {
	case *repository.Item:
		return e.Title
	case string:
		return e
	default:
		return ""
	}
}
