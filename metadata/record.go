// Package metadata provides a client for the TMDB (The Movie Database) API.
package metadata

import (
	"fmt"
	"strings"
)

const (
	// Kind discriminates the two TMDB catalogues a record can come from.
	KindMovie = "movie"
	KindTV    = "tv"

	imageBaseURL = "https://image.tmdb.org/t/p/w500"
)

// Record is a TMDB catalogue entry, either a movie or a TV series.
// Movie and TV payloads name their fields differently (title/name,
// release_date/first_air_date); both sets are declared and the accessors
// pick whichever is populated.
type Record struct {
	// ID is the unique identifier of the record on TMDB.
	ID int `json:"id" jsonschema:"description=ID of the record on TMDB."`
	// Kind is either movie or tv. Not part of the TMDB payload; set by the client.
	Kind string `json:"kind" jsonschema:"enum=movie,enum=tv"`

	// Title is the movie title; empty for TV records.
	Title string `json:"title,omitempty" jsonschema:"description=Title of a movie record."`
	// SeriesName is the TV series name; empty for movie records.
	SeriesName string `json:"name,omitempty" jsonschema:"description=Name of a TV record."`
	// Overview is the plot summary.
	Overview string `json:"overview" jsonschema:"description=Plot summary of the record."`

	// PosterPath is the TMDB-relative poster image path.
	PosterPath string `json:"poster_path" jsonschema:"description=Relative poster image path."`
	// BackdropPath is the TMDB-relative backdrop image path.
	BackdropPath string `json:"backdrop_path" jsonschema:"description=Relative backdrop image path."`

	// ReleaseDate is the movie release date in ISO format; empty for TV records.
	ReleaseDate string `json:"release_date,omitempty" jsonschema:"description=Release date of a movie record."`
	// FirstAirDate is the TV first air date in ISO format; empty for movie records.
	FirstAirDate string `json:"first_air_date,omitempty" jsonschema:"description=First air date of a TV record."`

	// VoteAverage is the community score from 0 to 10.
	VoteAverage float64 `json:"vote_average" jsonschema:"description=Community score from 0 to 10."`
	// VoteCount is the number of community votes.
	VoteCount int `json:"vote_count" jsonschema:"description=Number of community votes."`

	// Runtime is the movie runtime in minutes; only present on detail lookups.
	Runtime int `json:"runtime,omitempty" jsonschema:"description=Runtime in minutes."`
	// EpisodeRunTime lists typical episode lengths in minutes; only on TV detail lookups.
	EpisodeRunTime []int `json:"episode_run_time,omitempty" jsonschema:"description=Typical episode lengths in minutes."`

	// Genres carries full genre objects; only present on detail lookups.
	Genres []struct {
		ID   int    `json:"id"`
		Name string `json:"name" jsonschema:"description=Name of the genre."`
	} `json:"genres,omitempty"`
}

// Name returns the display name, whichever catalogue the record came from.
func (r *Record) Name() string {
	if r.Title != "" {
		return r.Title
	}
	return r.SeriesName
}

// Year returns the release year, or zero when unknown.
func (r *Record) Year() int {
	date := r.ReleaseDate
	if date == "" {
		date = r.FirstAirDate
	}
	if len(date) < 4 {
		return 0
	}

	var year int
	if _, err := fmt.Sscanf(date[:4], "%d", &year); err != nil {
		return 0
	}
	return year
}

// GenreNames returns the genre names of a detail record.
func (r *Record) GenreNames() []string {
	names := make([]string, 0, len(r.Genres))
	for _, g := range r.Genres {
		names = append(names, g.Name)
	}
	return names
}

// RuntimeMinutes returns the best known runtime: the movie runtime, or the
// first typical episode length for TV records.
func (r *Record) RuntimeMinutes() int {
	if r.Runtime > 0 {
		return r.Runtime
	}
	if len(r.EpisodeRunTime) > 0 {
		return r.EpisodeRunTime[0]
	}
	return 0
}

// PosterURL returns the absolute poster image URL, or empty when none exists.
func (r *Record) PosterURL() string {
	if r.PosterPath == "" {
		return ""
	}
	return imageBaseURL + r.PosterPath
}

// BackdropURL returns the absolute backdrop image URL, or empty when none exists.
func (r *Record) BackdropURL() string {
	if r.BackdropPath == "" {
		return ""
	}
	return imageBaseURL + r.BackdropPath
}

// Ref returns the cache reference of the record in "kind:id" form.
func (r *Record) Ref() string {
	return recordRef(r.Kind, r.ID)
}

func recordRef(kind string, id int) string {
	return fmt.Sprintf("%s:%d", kind, id)
}

// parseRef splits a "kind:id" reference back into its parts.
func parseRef(ref string) (kind string, id int, ok bool) {
	i := strings.IndexByte(ref, ':')
	if i < 0 {
		return "", 0, false
	}
	if _, err := fmt.Sscanf(ref[i+1:], "%d", &id); err != nil {
		return "", 0, false
	}
	return ref[:i], id, true
}

// normalizedName returns a lowercased, trimmed string for consistent comparison.
func normalizedName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
