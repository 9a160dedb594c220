package metadata

import (
	"fmt"
	"strings"

	"github.com/cue-cli/cue/log"
	"github.com/cue-cli/cue/util"
	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
)

// notFoundRef marks a title that was searched and yielded nothing, so
// repeated lookups fail fast instead of hammering the API.
const notFoundRef = "-"

// SetRelation persists a mapping between a title and a TMDB record.
func SetRelation(name string, to *Record) error {
	err := relationCacher.Set(name, to.Ref())
	if err != nil {
		return err
	}

	if cached := idCacher.Get(to.Ref()); cached.IsAbsent() {
		return idCacher.Set(to.Ref(), to)
	}

	return nil
}

// FindClosest returns the catalogue record closest to the given title.
// It levenshtein-compares the title against all search results, retrying with
// progressively shortened queries when nothing matches.
func FindClosest(name string, year int) (*Record, error) {
	name = normalizedName(name)
	return findClosest(name, name, year, 0, 3)
}

func findClosest(name, originalName string, year, try, limit int) (*Record, error) {
	if try >= limit {
		err := fmt.Errorf("no results found on TMDB for %s", name)
		log.Error(err)
		_ = relationCacher.Set(originalName, notFoundRef)
		return nil, err
	}

	ref := relationCacher.Get(name)
	if ref.IsPresent() {
		if ref.MustGet() == notFoundRef {
			return nil, fmt.Errorf("no results found on TMDB for %s", name)
		}

		if record, ok := idCacher.Get(ref.MustGet()).Get(); ok {
			if try > 0 {
				_ = relationCacher.Set(originalName, record.Ref())
			}
			return record, nil
		}
	}

	records, err := SearchByName(name, year)
	if err != nil {
		log.Error(err)
		return nil, err
	}

	if ref.IsPresent() {
		found, ok := lo.Find(records, func(item *Record) bool {
			return item.Ref() == ref.MustGet()
		})

		if ok {
			return found, nil
		}

		// The relation exists but the record cache lost its entry and the
		// search no longer returns it; drop the stale reference.
		_ = relationCacher.Delete(name)
		log.Infof("Record %s no longer resolvable on TMDB", ref.MustGet())
	}

	if len(records) == 0 {
		// Retry with reduced query specificity by dropping the trailing word.
		words := strings.Split(name, " ")
		if len(words) <= 2 {
			return findClosest(name, originalName, year, limit, limit)
		}

		alternateName := strings.Join(words[:util.Max(len(words)-1, 1)], " ")
		log.Infof(`No results found on TMDB for "%s", trying "%s"`, name, alternateName)
		return findClosest(alternateName, originalName, year, try+1, limit)
	}

	closest := lo.MinBy(records, func(a, b *Record) bool {
		return levenshtein.Distance(
			name,
			normalizedName(a.Name()),
		) < levenshtein.Distance(
			name,
			normalizedName(b.Name()),
		)
	})

	log.Info("Found closest match: " + closest.Name())

	save := func(n string) {
		if ref := relationCacher.Get(n); ref.IsAbsent() {
			_ = relationCacher.Set(n, closest.Ref())
		}
	}

	save(name)
	save(originalName)

	_ = idCacher.Set(closest.Ref(), closest)
	return closest, nil
}

// GetCachedRelation returns the record bound to a title if one is cached.
// It returns nil when no relation exists or the title is cached as not found.
func GetCachedRelation(name string) *Record {
	name = normalizedName(name)
	ref := relationCacher.Get(name)
	if ref.IsPresent() {
		if val := ref.MustGet(); val == notFoundRef {
			return nil
		}
		if record, ok := idCacher.Get(ref.MustGet()).Get(); ok {
			return record
		}
	}
	return nil
}
