// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"

	"github.com/cue-cli/cue/color"
	"github.com/cue-cli/cue/key"
	"github.com/cue-cli/cue/library"
	"github.com/cue-cli/cue/log"
	"github.com/cue-cli/cue/metadata"
	"github.com/cue-cli/cue/open"
	"github.com/cue-cli/cue/playback"
	"github.com/cue-cli/cue/player"
	"github.com/cue-cli/cue/repository"
	"github.com/cue-cli/cue/stats"
	"github.com/cue-cli/cue/style"
	"github.com/cue-cli/cue/util"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// playbackFinishedMsg signals that a playback session ended and state was persisted.
type playbackFinishedMsg struct {
	item *repository.Item
}

// metadataAppliedMsg signals that TMDB metadata was applied to an item.
type metadataAppliedMsg struct {
	item *repository.Item
}

// loadLibrary scans the configured library folders and loads every known item.
func (b *statefulBubble) loadLibrary(rescan bool) tea.Cmd {
	return func() tea.Msg {
		if rescan {
			for _, dir := range viper.GetStringSlice(key.LibraryPaths) {
				b.progressStatus = fmt.Sprintf("Scanning %s", dir)
				if _, err := library.Scan(b.repo, dir); err != nil {
					log.Error(err)
					b.errorChannel <- err
					return nil
				}
			}
		}

		all, err := b.repo.Items()
		if err != nil {
			log.Error(err)
			b.errorChannel <- err
			return nil
		}

		// Archived items stay in the store but off the dashboard.
		items := lo.Filter(all, func(item *repository.Item, _ int) bool {
			return !item.Archived
		})

		sort.Slice(items, func(i, j int) bool {
			return strings.Compare(items[i].Title, items[j].Title) < 0
		})

		log.Infof("loaded %s", util.Quantify(len(items), "library item", "library items"))
		b.itemsLoadedChannel <- items
		return nil
	}
}

func (b *statefulBubble) waitForItemsLoaded() tea.Cmd {
	return func() tea.Msg {
		select {
		case items := <-b.itemsLoadedChannel:
			return items
		case err := <-b.errorChannel:
			b.lastError = err
			return err
		}
	}
}

// setItems refreshes both item lists from a loaded snapshot. The history list
// shows only started items, most recent first.
func (b *statefulBubble) setItems(items []*repository.Item) tea.Cmd {
	b.items = items

	libraryItems := make([]list.Item, len(items))
	for i, item := range items {
		libraryItems[i] = &listItem{internal: item}
	}

	watched := make([]*repository.Item, 0, len(items))
	for _, item := range items {
		if !item.Playback.Timestamp.IsZero() {
			watched = append(watched, item)
		}
	}
	sort.Slice(watched, func(i, j int) bool {
		return watched[i].Playback.Timestamp.After(watched[j].Playback.Timestamp)
	})

	historyItems := make([]list.Item, len(watched))
	for i, item := range watched {
		historyItems[i] = &listItem{internal: item}
	}

	return tea.Batch(b.libraryC.SetItems(libraryItems), b.historyC.SetItems(historyItems))
}

// filterLibrary narrows the library list to fuzzy matches of the query.
func (b *statefulBubble) filterLibrary(query string) tea.Cmd {
	if query == "" {
		return b.setItems(b.items)
	}

	var matched []list.Item
	for _, item := range b.items {
		if fuzzy.MatchFold(query, item.Title) {
			matched = append(matched, &listItem{internal: item})
		}
	}

	return b.libraryC.SetItems(matched)
}

// playItem runs a full playback session for the item in the background.
// With restart set the stored resume point is ignored.
func (b *statefulBubble) playItem(item *repository.Item, restart bool) tea.Cmd {
	return func() tea.Msg {
		b.progressStatus = fmt.Sprintf("Launching %s", style.Fg(color.Purple)(item.Title))

		files, err := library.Files(item.Path)
		if err != nil {
			b.errorChannel <- err
			return nil
		}

		var (
			index  int
			offset float64
		)
		if !restart {
			index, offset, err = playback.ResumePoint(item, files)
			if errors.Is(err, playback.ErrNothingToResume) {
				// Everything watched; starting over is the only sensible move.
				index, offset = 0, 0
			} else if err != nil {
				b.errorChannel <- err
				return nil
			}
		}

		kind, err := player.Select(runtime.GOOS, viper.GetString(key.Player))
		if err != nil {
			b.errorChannel <- err
			return nil
		}

		executable, err := player.Executable()
		if err != nil {
			b.errorChannel <- err
			return nil
		}

		b.progressStatus = fmt.Sprintf("Playing %s", style.Fg(color.Purple)(item.Title))

		session := &playback.Session{
			Repo:   b.repo,
			Item:   item,
			Files:  files,
			Driver: player.New(kind, executable),
		}

		if err := session.Run(index, offset); err != nil {
			log.Errorf("playback session failed: %v", err)
			b.errorChannel <- err
			return nil
		}

		b.playbackDoneChannel <- item
		return nil
	}
}

// replayItem restarts the most recently played file of the item from the top.
func (b *statefulBubble) replayItem(item *repository.Item) tea.Cmd {
	return func() tea.Msg {
		files, err := library.Files(item.Path)
		if err != nil {
			b.errorChannel <- err
			return nil
		}

		index := item.Playback.LastIndex
		if index < 0 || index >= len(files) {
			index = 0
		}

		kind, err := player.Select(runtime.GOOS, viper.GetString(key.Player))
		if err != nil {
			b.errorChannel <- err
			return nil
		}

		executable, err := player.Executable()
		if err != nil {
			b.errorChannel <- err
			return nil
		}

		b.progressStatus = fmt.Sprintf("Replaying %s", style.Fg(color.Purple)(item.Title))

		session := &playback.Session{
			Repo:   b.repo,
			Item:   item,
			Files:  files,
			Driver: player.New(kind, executable),
		}

		if err := session.Run(index, 0); err != nil {
			b.errorChannel <- err
			return nil
		}

		b.playbackDoneChannel <- item
		return nil
	}
}

func (b *statefulBubble) waitForPlaybackDone() tea.Cmd {
	return func() tea.Msg {
		select {
		case item := <-b.playbackDoneChannel:
			return playbackFinishedMsg{item: item}
		case err := <-b.errorChannel:
			b.lastError = err
			return err
		}
	}
}

// loadStats gathers the dashboard summary in the background.
func (b *statefulBubble) loadStats() tea.Cmd {
	return func() tea.Msg {
		b.progressStatus = "Crunching numbers"

		summary, err := stats.Gather(b.repo)
		if err != nil {
			log.Error(err)
			b.errorChannel <- err
			return nil
		}

		b.statsLoadedChannel <- summary
		return nil
	}
}

func (b *statefulBubble) waitForStats() tea.Cmd {
	return func() tea.Msg {
		select {
		case summary := <-b.statsLoadedChannel:
			return summary
		case err := <-b.errorChannel:
			b.lastError = err
			return err
		}
	}
}

// fetchMetadataFor resolves TMDB metadata for one item in the background.
func (b *statefulBubble) fetchMetadataFor(item *repository.Item) tea.Cmd {
	return func() tea.Msg {
		if !metadata.Enabled() {
			return "Metadata fetching is not configured"
		}

		if err := metadata.Fetch(b.repo, item); err != nil {
			log.Warnf("metadata for %s: %v", item.Title, err)
			return fmt.Sprintf("Metadata fetch failed: %v", err)
		}

		return metadataAppliedMsg{item: item}
	}
}

// clearResumeFor wipes an item's resume point and watch flag.
func (b *statefulBubble) clearResumeFor(item *repository.Item) tea.Cmd {
	return func() tea.Msg {
		item.Playback = repository.PlaybackState{}
		if err := b.repo.SaveItem(item); err != nil {
			return fmt.Sprintf("Failed to clear: %v", err)
		}
		return fmt.Sprintf("Cleared resume point of %s", item.Title)
	}
}

// openFolderFor reveals the item's location in the system file manager.
func (b *statefulBubble) openFolderFor(item *repository.Item) tea.Cmd {
	return func() tea.Msg {
		if err := open.Start(item.Path); err != nil {
			return fmt.Sprintf("Failed to open: %v", err)
		}
		return nil
	}
}

// selectedLibraryItem returns the highlighted item of the focused list.
func (b *statefulBubble) selectedLibraryItem(l *list.Model) *repository.Item {
	selected, ok := l.SelectedItem().(*listItem)
	if !ok {
		return nil
	}

	item, ok := selected.internal.(*repository.Item)
	if !ok {
		return nil
	}
	return item
}
