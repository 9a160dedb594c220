// Package playback runs tracked playback sessions: it launches a player
// driver, polls it for progress, and persists resume points and watch events
// when the session ends.
package playback

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/cue-cli/cue/key"
	"github.com/cue-cli/cue/log"
	"github.com/cue-cli/cue/player"
	"github.com/cue-cli/cue/repository"
	"github.com/cue-cli/cue/util"
	"github.com/spf13/viper"
)

// finishedTailSeconds marks a file finished when playback stopped within
// this many seconds of the end, regardless of the completion threshold.
const finishedTailSeconds = 10

// Session tracks one playback run of a single library item.
type Session struct {
	Repo   *repository.Repository
	Item   *repository.Item
	Files  []string
	Driver player.Driver

	// segment state for watch event accounting
	segmentStart time.Time
	segmentPos   float64
	segmentIndex int

	last      player.Status
	lastIndex int
	observed  bool
}

// Run launches the driver for the given start point and blocks until the
// player exits, persisting progress on the way out. Driver status failures
// are transient by contract: the last good observation is kept and the
// session continues.
func (s *Session) Run(startIndex int, startAt float64) error {
	if startIndex < 0 || startIndex >= len(s.Files) {
		return fmt.Errorf("start index %d out of range for %d files", startIndex, len(s.Files))
	}

	spec := player.LaunchSpec{
		Playlist:   s.Files,
		StartIndex: startIndex,
		StartAt:    startAt,
		Title:      s.Item.Title,
	}

	if err := s.Driver.Launch(spec); err != nil {
		return err
	}
	defer s.Driver.Close()

	s.lastIndex = startIndex
	s.segmentIndex = startIndex
	s.segmentStart = time.Now()
	s.segmentPos = startAt

	interval := time.Duration(viper.GetInt(key.PlayerPollInterval)) * time.Second
	if interval <= 0 {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.Driver.Wait():
			s.finish()
			return nil
		case <-ticker.C:
			s.observe()
		}
	}
}

// observe polls the driver once and folds the result into session state.
func (s *Session) observe() {
	status, err := s.Driver.Status()
	if err != nil {
		// Keep the last good observation; the player may be between
		// files or the socket momentarily unresponsive.
		log.Debugf("status poll: %v", err)
		return
	}

	// Offsets never exceed the known duration.
	if status.Duration > 0 {
		status.Position = util.Clamp(status.Position, 0, status.Duration)
	}

	if index, ok := s.indexOf(status.Path); ok && index != s.lastIndex {
		s.flushSegment(time.Now())
		s.segmentIndex = index
		s.segmentStart = time.Now()
		s.segmentPos = 0
		s.lastIndex = index
	}

	s.last = status
	s.observed = true
}

// indexOf maps a player-reported path back to a playlist index. Players may
// report absolute or differently-normalized paths, so matching falls back to
// the basename.
func (s *Session) indexOf(path string) (int, bool) {
	if path == "" {
		return 0, false
	}
	for i, f := range s.Files {
		if f == path {
			return i, true
		}
	}
	base := filepath.Base(path)
	for i, f := range s.Files {
		if filepath.Base(f) == base {
			return i, true
		}
	}
	return 0, false
}

// finish persists the resume point and flushes the final watch event.
func (s *Session) finish() {
	now := time.Now()
	s.flushSegment(now)

	if !s.observed {
		// Nothing was ever observed; leave the stored state untouched so a
		// crash at startup cannot wipe an existing resume point.
		log.Warnf("session for %s ended without any progress observation", s.Item.Title)
		return
	}

	state := &s.Item.Playback
	state.LastIndex = s.lastIndex
	state.LastFile = s.Files[s.lastIndex]
	state.Position = s.last.Position
	if s.last.Duration > 0 {
		state.Duration = s.last.Duration
	}
	state.Finished = fileFinished(s.last.Position, state.Duration)
	state.Timestamp = now

	if state.Finished {
		state.Position = 0
	}

	if err := s.Repo.SaveItem(s.Item); err != nil {
		log.Errorf("save resume point for %s: %v", s.Item.Title, err)
	}
}

// flushSegment records the current watch segment as an event if it lasted
// long enough to count and history saving is enabled.
func (s *Session) flushSegment(end time.Time) {
	if !viper.GetBool(key.HistorySaveOnWatch) {
		return
	}

	minSession := time.Duration(viper.GetInt(key.PlayerMinSessionSeconds)) * time.Second
	if end.Sub(s.segmentStart) < minSession {
		return
	}

	event := &repository.WatchEvent{
		ItemID:        s.Item.ID,
		StartedAt:     s.segmentStart,
		EndedAt:       end,
		PositionStart: s.segmentPos,
		PositionEnd:   s.last.Position,
		EpisodeIndex:  s.segmentIndex,
	}

	if err := s.Repo.RecordWatchEvent(event); err != nil {
		log.Errorf("record watch event: %v", err)
	}
}

// fileFinished reports whether a stopping point counts as having finished
// the file: close enough to the end, or past the completion threshold.
func fileFinished(position, duration float64) bool {
	if duration <= 0 {
		return false
	}
	if duration-position < finishedTailSeconds {
		return true
	}

	// The configured value is a percentage (1-100), the comparison a ratio.
	threshold := viper.GetFloat64(key.PlayerCompletionPercentage) / 100
	if threshold <= 0 {
		threshold = 0.95
	}
	return position/duration > threshold
}
