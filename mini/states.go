package mini

import (
	"errors"
	"fmt"
	"runtime"
	"sort"

	"github.com/cue-cli/cue/icon"
	"github.com/cue-cli/cue/key"
	"github.com/cue-cli/cue/library"
	"github.com/cue-cli/cue/metadata"
	"github.com/cue-cli/cue/playback"
	"github.com/cue-cli/cue/player"
	"github.com/cue-cli/cue/repository"
	"github.com/cue-cli/cue/style"
	"github.com/cue-cli/cue/util"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/spf13/viper"
)

type state int

const (
	searchState state = iota + 1
	itemSelectState
	playState
	afterPlayState
	historySelectState
	quitState
)

func (m *mini) handleSearchState() error {
	title("Search Library")

	in, err := input("Title", func(s string) bool {
		return s != ""
	})
	if err != nil {
		return err
	}

	erase := progress("Searching..")
	items, err := m.repo.Items()
	if err != nil {
		return err
	}

	var matched []*repository.Item
	for _, item := range items {
		if fuzzy.MatchFold(in, item.Title) {
			matched = append(matched, item)
		}
	}

	limit := util.Min(len(matched), viper.GetInt(key.MiniSelectLimit))
	m.cachedResults[in] = matched[:limit]
	erase()

	if len(m.cachedResults[in]) == 0 {
		fail("No results found")
		return nil // stay in search state
	}

	m.query = in
	m.newState(itemSelectState)
	return nil
}

func (m *mini) handleItemSelectState() error {
	title("Results >>")

	items := m.cachedResults[m.query]
	index, back, quit, err := menu("Play", itemLabels(items), true)
	if err != nil {
		return err
	}

	switch {
	case quit:
		m.newState(quitState)
	case back:
		m.previousState()
	default:
		m.selected = items[index]
		m.newState(playState)
	}
	return nil
}

func (m *mini) handleHistorySelectState() error {
	items, err := m.repo.Items()
	if err != nil {
		return err
	}

	var watched []*repository.Item
	for _, item := range items {
		if !item.Playback.Timestamp.IsZero() {
			watched = append(watched, item)
		}
	}

	sort.Slice(watched, func(i, j int) bool {
		return watched[i].Playback.Timestamp.After(watched[j].Playback.Timestamp)
	})

	limit := util.Min(len(watched), viper.GetInt(key.MiniSelectLimit))
	watched = watched[:limit]

	if len(watched) == 0 {
		fail("Nothing watched yet")
		m.newState(searchState)
		return nil
	}

	title("Continue Watching >>")
	index, _, quit, err := menu("Resume", itemLabels(watched), false)
	if err != nil {
		return err
	}

	if quit {
		m.newState(quitState)
		return nil
	}

	m.selected = watched[index]
	m.newState(playState)
	return nil
}

func (m *mini) handlePlayState() error {
	files, err := library.Files(m.selected.Path)
	if err != nil {
		return err
	}

	index, offset, err := playback.ResumePoint(m.selected, files)
	if errors.Is(err, playback.ErrNothingToResume) {
		restart, cerr := confirm("Everything watched. Start over?")
		if cerr != nil {
			return cerr
		}
		if !restart {
			m.previousState()
			return nil
		}
		index, offset = 0, 0
	} else if err != nil {
		return err
	}

	kind, err := player.Select(runtime.GOOS, viper.GetString(key.Player))
	if err != nil {
		return err
	}

	executable, err := player.Executable()
	if err != nil {
		return err
	}

	util.ClearScreen()
	fmt.Printf("%s Playing %s\n", icon.Get(icon.Play), style.Bold(m.selected.Title))

	session := &playback.Session{
		Repo:   m.repo,
		Item:   m.selected,
		Files:  files,
		Driver: player.New(kind, executable),
	}

	if err := session.Run(index, offset); err != nil {
		return err
	}

	if metadata.Enabled() && !m.selected.Fetched {
		if err := metadata.Fetch(m.repo, m.selected); err != nil {
			fail("Metadata fetch failed: " + err.Error())
		}
	}

	m.newState(afterPlayState)
	return nil
}

func (m *mini) handleAfterPlayState() error {
	title(fmt.Sprintf("Stopped at %s", util.FormatOffset(m.selected.Playback.Position)))

	options := []string{"Play again", "Search"}
	index, _, quit, err := menu("Next", options, false)
	if err != nil {
		return err
	}

	switch {
	case quit:
		m.newState(quitState)
	case index == 0:
		m.setState(playState)
	default:
		m.statesHistory.Clear()
		m.setState(searchState)
	}
	return nil
}

// itemLabels renders selectable lines: state icon, title and resume position.
func itemLabels(items []*repository.Item) []string {
	labels := make([]string, len(items))
	for i, item := range items {
		var glyph string
		switch {
		case item.Playback.Finished:
			glyph = icon.Get(icon.Watched)
		case item.Folder:
			glyph = icon.Get(icon.Folder)
		default:
			glyph = icon.Get(icon.Movie)
		}

		label := fmt.Sprintf("%s %s", glyph, item.Title)
		if item.Playback.Position > 0 {
			label += style.Faint(" @ " + util.FormatOffset(item.Playback.Position))
		}

		if len(label) > truncateAt {
			label = label[:truncateAt]
		}
		labels[i] = label
	}
	return labels
}
