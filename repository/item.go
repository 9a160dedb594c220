// Package repository implements the SQLite-backed store for media items, playback state and watch events.
package repository

import (
	"time"

	"github.com/google/uuid"
)

// Item represents a single library entry: a standalone media file or a folder of episodes.
// Items are created on first scan or first playback and are never deleted automatically.
type Item struct {
	ID     uuid.UUID `json:"id"`
	Path   string    `json:"path"`
	Folder bool      `json:"folder"`

	// Title is the display title, either guessed from the filename or fetched from TMDB.
	Title string `json:"title"`
	// Season extracted from the filename; zero when absent.
	Season int `json:"season,omitempty"`
	// TitleLocked prevents automatic title overwrites once the user has renamed the item.
	TitleLocked bool `json:"title_locked,omitempty"`

	Genres         []string `json:"genres,omitempty"`
	Description    string   `json:"description,omitempty"`
	PosterURL      string   `json:"poster_url,omitempty"`
	BackdropURL    string   `json:"backdrop_url,omitempty"`
	Year           int      `json:"year,omitempty"`
	TMDBID         int      `json:"tmdb_id,omitempty"`
	VoteAverage    float64  `json:"vote_average,omitempty"`
	VoteCount      int      `json:"vote_count,omitempty"`
	RuntimeMinutes int      `json:"runtime_minutes,omitempty"`
	Fetched        bool     `json:"fetched"`

	Archived bool `json:"archived,omitempty"`

	Playback PlaybackState `json:"playback"`
}

// PlaybackState captures the resume point of an item.
// For folder items LastIndex points into the sorted member file list.
type PlaybackState struct {
	LastFile  string    `json:"last_file"`
	LastIndex int       `json:"last_index"`
	Position  float64   `json:"position"`
	Duration  float64   `json:"duration"`
	Finished  bool      `json:"finished"`
	Timestamp time.Time `json:"timestamp"`
}

// Completion returns the watched fraction of the current file, in [0, 1].
func (p PlaybackState) Completion() float64 {
	if p.Duration <= 0 {
		return 0
	}
	c := p.Position / p.Duration
	if c > 1 {
		return 1
	}
	return c
}

// WatchEvent records a single viewing session for statistics tracking.
type WatchEvent struct {
	ID            int64     `json:"id"`
	ItemID        uuid.UUID `json:"item_id"`
	StartedAt     time.Time `json:"started_at"`
	EndedAt       time.Time `json:"ended_at"`
	PositionStart float64   `json:"position_start"`
	PositionEnd   float64   `json:"position_end"`
	EpisodeIndex  int       `json:"episode_index"`
}

// Wallclock returns the real-world duration of the session.
func (w WatchEvent) Wallclock() time.Duration {
	return w.EndedAt.Sub(w.StartedAt)
}
