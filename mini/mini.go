// Package mini implements a lightweight, minimalist prompt interface for library search and playback.
package mini

import (
	"os"

	"github.com/cue-cli/cue/repository"
	"github.com/cue-cli/cue/util"
	"github.com/samber/lo"
)

var truncateAt = 100

type Options struct {
	// Continue opens the recently-watched picker instead of the search prompt.
	Continue bool
}

type mini struct {
	width, height int

	state         state
	statesHistory util.Stack[state]

	repo *repository.Repository

	query         string
	cachedResults map[string][]*repository.Item
	selected      *repository.Item
}

func newMini(repo *repository.Repository) *mini {
	return &mini{
		repo:          repo,
		statesHistory: util.Stack[state]{},
		cachedResults: make(map[string][]*repository.Item),
	}
}

func (m *mini) previousState() {
	if m.statesHistory.Len() > 0 {
		m.setState(m.statesHistory.Pop())
	}
}

func (m *mini) setState(s state) {
	m.state = s
}

func (m *mini) newState(s state) {
	if m.state == s {
		return
	}

	if !lo.Contains([]state{playState}, m.state) {
		m.statesHistory.Push(m.state)
	}

	m.setState(s)
}

func Run(repo *repository.Repository, options *Options) error {
	m := newMini(repo)
	m.state = searchState
	if options.Continue {
		m.state = historySelectState
	}

	if w, h, err := util.TerminalSize(); err == nil {
		m.width, m.height = w, h
		truncateAt = w
	}

	for {
		if err := m.handleState(); err != nil {
			return err
		}
	}
}

func (m *mini) handleState() error {
	switch m.state {
	case historySelectState:
		return m.handleHistorySelectState()
	case searchState:
		return m.handleSearchState()
	case itemSelectState:
		return m.handleItemSelectState()
	case playState:
		return m.handlePlayState()
	case afterPlayState:
		return m.handleAfterPlayState()
	case quitState:
		os.Exit(0)
	}

	return nil
}
