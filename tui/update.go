// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"github.com/cue-cli/cue/metadata"
	"github.com/cue-cli/cue/query"
	"github.com/cue-cli/cue/repository"
	"github.com/cue-cli/cue/stats"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// Process ephemeral UI notifications (captures `string` and `ui.ClearNotificationMsg`)
	if uiCmd := b.notifier.Update(msg); uiCmd != nil {
		cmd = tea.Batch(cmd, uiCmd)
	}

	switch msg := msg.(type) {
	case error:
		b.stopLoading()
		b.raiseError(msg)
	case []*repository.Item:
		b.stopLoading()
		cmd = tea.Batch(cmd, b.setItems(msg))

		if b.state == loadingState {
			b.newState(lo.Ternary(b.options.Continue, historyState, libraryState))
		}
		return b, cmd
	case *stats.Summary:
		b.stopLoading()
		b.summary = msg
		b.newState(statsState)
		return b, cmd
	case playbackFinishedMsg:
		b.stopLoading()
		b.selectedItem = msg.item
		b.setState(postPlayState)

		cmds := []tea.Cmd{cmd, b.loadLibrary(false), b.waitForItemsLoaded()}
		if metadata.Enabled() && !msg.item.Fetched {
			cmds = append(cmds, b.fetchMetadataFor(msg.item))
		}
		return b, tea.Batch(cmds...)
	case metadataAppliedMsg:
		// The item was mutated in place; re-rendering the lists picks it up.
		return b, tea.Batch(cmd, b.setItems(b.items))
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case spinner.TickMsg:
		if b.loading {
			b.spinnerC, cmd = b.spinnerC.Update(msg)
			return b, cmd
		}
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.forceQuit):
			return b, tea.Quit
		}

		// Input guard: ignore non-priority keys during asynchronous operations.
		if b.busy && b.state != playState && b.state != errorState {
			return b, nil
		}

		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			onListBack := func(l *list.Model) tea.Cmd {
				l.ResetSelected()
				l.ResetFilter()
				return tea.Batch(cmd, l.NewStatusMessage(""))
			}

			switch b.state {
			case searchState:
				b.inputC.SetValue("")
				b.searchSuggestion = mo.None[string]()
			case libraryState:
				if b.libraryC.FilterState() != list.Unfiltered {
					b.libraryC, cmd = b.libraryC.Update(msg)
					return b, cmd
				}
				cmd = tea.Batch(onListBack(&b.libraryC), b.setItems(b.items))
			case historyState:
				if b.historyC.FilterState() != list.Unfiltered {
					b.historyC, cmd = b.historyC.Update(msg)
					return b, cmd
				}
				cmd = onListBack(&b.historyC)
			}

			b.previousState()
			b.stopLoading()
			return b, cmd
		}
	}

	switch b.state {
	case loadingState:
		return b.updateLoading(msg)
	case historyState:
		return b.updateHistory(msg)
	case libraryState:
		return b.updateLibrary(msg)
	case searchState:
		return b.updateSearch(msg)
	case statsState:
		return b.updateStats(msg)
	case playState:
		return b.updatePlay(msg)
	case postPlayState:
		return b.updatePostPlay(msg)
	case errorState:
		return b.updateError(msg)
	}

	return b, cmd
}

func (b *statefulBubble) updateLoading(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	b.spinnerC, cmd = b.spinnerC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updateLibrary(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		item := b.selectedLibraryItem(&b.libraryC)

		switch {
		case bubblesKey.Matches(msg, b.keymap.play) && item != nil:
			b.selectedItem = item
			b.setState(playState)
			return b, tea.Batch(b.startLoading(), b.playItem(item, false), b.waitForPlaybackDone())
		case bubblesKey.Matches(msg, b.keymap.restart) && item != nil:
			b.selectedItem = item
			b.setState(playState)
			return b, tea.Batch(b.startLoading(), b.playItem(item, true), b.waitForPlaybackDone())
		case bubblesKey.Matches(msg, b.keymap.search):
			b.newState(searchState)
			b.inputC.Focus()
			return b, textinput.Blink
		case bubblesKey.Matches(msg, b.keymap.stats):
			return b, tea.Batch(b.startLoading(), b.loadStats(), b.waitForStats())
		case bubblesKey.Matches(msg, b.keymap.rescan):
			return b, tea.Batch(b.startLoading(), b.loadLibrary(true), b.waitForItemsLoaded())
		case bubblesKey.Matches(msg, b.keymap.openFolder) && item != nil:
			return b, b.openFolderFor(item)
		case bubblesKey.Matches(msg, b.keymap.clearResume) && item != nil:
			return b, tea.Batch(b.clearResumeFor(item), b.setItems(b.items))
		case bubblesKey.Matches(msg, b.keymap.fetchMetadata) && item != nil:
			return b, b.fetchMetadataFor(item)
		}
	}

	b.libraryC, cmd = b.libraryC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		item := b.selectedLibraryItem(&b.historyC)

		switch {
		case bubblesKey.Matches(msg, b.keymap.play) && item != nil:
			b.selectedItem = item
			b.setState(playState)
			return b, tea.Batch(b.startLoading(), b.playItem(item, false), b.waitForPlaybackDone())
		case bubblesKey.Matches(msg, b.keymap.clearResume) && item != nil:
			return b, tea.Batch(b.clearResumeFor(item), b.loadLibrary(false), b.waitForItemsLoaded())
		}
	}

	b.historyC, cmd = b.historyC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.confirm):
			q := b.inputC.Value()
			if q != "" {
				_ = query.Remember(q, 1)
			}

			b.previousState()
			return b, b.filterLibrary(q)
		case bubblesKey.Matches(msg, b.keymap.acceptSearchSuggestion):
			if suggestion, ok := b.searchSuggestion.Get(); ok {
				b.inputC.SetValue(suggestion)
				b.inputC.CursorEnd()
			}
			return b, nil
		}
	}

	b.inputC, cmd = b.inputC.Update(msg)

	if value := b.inputC.Value(); value != "" {
		b.searchSuggestion = query.Suggest(value)
	} else {
		b.searchSuggestion = mo.None[string]()
	}

	return b, cmd
}

func (b *statefulBubble) updateStats(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if bubblesKey.Matches(msg, b.keymap.quit) {
			return b, tea.Quit
		}
	}
	return b, nil
}

func (b *statefulBubble) updatePlay(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	b.spinnerC, cmd = b.spinnerC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updatePostPlay(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		selected, ok := b.postPlayC.SelectedItem().(*listItem)
		if bubblesKey.Matches(msg, b.keymap.confirm) && ok {
			option, _ := selected.internal.(string)

			switch option {
			case "Continue":
				b.setState(playState)
				return b, tea.Batch(b.startLoading(), b.playItem(b.selectedItem, false), b.waitForPlaybackDone())
			case "Replay":
				b.setState(playState)
				return b, tea.Batch(b.startLoading(), b.replayItem(b.selectedItem), b.waitForPlaybackDone())
			case "Stats":
				return b, tea.Batch(b.startLoading(), b.loadStats(), b.waitForStats())
			default: // Back to Library
				b.setState(libraryState)
				return b, nil
			}
		}
	}

	b.postPlayC, cmd = b.postPlayC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updateError(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if bubblesKey.Matches(msg, b.keymap.quit) {
			return b, tea.Quit
		}
	}
	return b, nil
}
