package metadata

import (
	"errors"

	"github.com/cue-cli/cue/key"
	"github.com/cue-cli/cue/log"
	"github.com/cue-cli/cue/repository"
	"github.com/spf13/viper"
)

// Enabled reports whether metadata fetching is switched on and configured.
func Enabled() bool {
	if !viper.GetBool(key.MetadataFetchTMDB) {
		return false
	}
	_, err := apiKey()
	return err == nil
}

// Fetch resolves and applies TMDB metadata to a library item in place,
// persisting the result. Fetch failures are non-fatal: the item stays
// usable with its guessed title, and the error is returned for reporting.
func Fetch(repo *repository.Repository, item *repository.Item) error {
	if !viper.GetBool(key.MetadataFetchTMDB) {
		return nil
	}
	if item.Fetched {
		return nil
	}

	closest, err := FindClosest(item.Title, item.Year)
	if err != nil {
		return err
	}

	// The search payload lacks genres and runtime; pull the full record.
	detail, err := GetByRef(closest.Ref())
	if err != nil {
		log.Warnf("detail lookup for %s failed, using search payload: %v", closest.Ref(), err)
		detail = closest
	}

	apply(item, detail)

	return repo.SaveItem(item)
}

// FetchAll fetches metadata for every unfetched item, returning the count of
// successes. Individual failures are logged and skipped; a missing API key
// aborts the whole run.
func FetchAll(repo *repository.Repository, items []*repository.Item) (int, error) {
	fetched := 0
	for _, item := range items {
		if item.Fetched {
			continue
		}

		if err := Fetch(repo, item); err != nil {
			if errors.Is(err, ErrNotConfigured) {
				return fetched, err
			}
			log.Warnf("metadata for %s: %v", item.Title, err)
			continue
		}
		fetched++
	}
	return fetched, nil
}

// apply copies record fields onto the item, respecting user locks.
func apply(item *repository.Item, record *Record) {
	if !item.TitleLocked && record.Name() != "" {
		item.Title = record.Name()
	}

	item.TMDBID = record.ID
	item.Description = record.Overview
	item.Genres = record.GenreNames()
	item.PosterURL = record.PosterURL()
	item.BackdropURL = record.BackdropURL()
	item.VoteAverage = record.VoteAverage
	item.VoteCount = record.VoteCount

	if year := record.Year(); year > 0 {
		item.Year = year
	}
	if runtime := record.RuntimeMinutes(); runtime > 0 {
		item.RuntimeMinutes = runtime
	}

	item.Fetched = true
}
