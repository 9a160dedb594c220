// Package inline provides the implementation for the application's non-interactive, programmable execution mode.
package inline

import (
	"fmt"
	"os"
	"sort"

	"github.com/cue-cli/cue/key"
	"github.com/cue-cli/cue/metadata"
	"github.com/cue-cli/cue/query"
	"github.com/cue-cli/cue/repository"
	"github.com/cue-cli/cue/util"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/spf13/viper"
)

// Run executes a single non-interactive library lookup and writes the result
// to the configured output.
func Run(repo *repository.Repository, options *Options) error {
	if options.Out == nil {
		options.Out = os.Stdout
	}

	items, err := repo.Items()
	if err != nil {
		return err
	}

	matched := match(items, options.Query)

	var selected []*repository.Item
	if options.ItemPicker.IsPresent() {
		picker := options.ItemPicker.MustGet()
		if choice := picker(matched); choice != nil {
			selected = []*repository.Item{choice}
		}
	} else {
		selected = matched
	}

	if len(selected) == 0 {
		if options.Json {
			return writeJson(options, []*Entry{})
		}
		return nil // Nothing found
	}

	entries := make([]*Entry, len(selected))
	for i, item := range selected {
		entry := &Entry{Item: item}

		if options.IncludeRecord {
			entry.Record = metadata.GetCachedRelation(item.Title)
		}
		if options.IncludeEvents {
			events, err := repo.EventsForItem(item.ID, viper.GetInt(key.StatsHistoryLimit))
			if err != nil {
				return err
			}
			entry.Events = events
		}

		entries[i] = entry
	}

	if options.Json {
		return writeJson(options, entries)
	}

	// Plain text: one line per item with its resume offset.
	for _, entry := range entries {
		state := entry.Item.Playback
		fmt.Fprintf(options.Out, "%s\t%s\n", entry.Item.Path, util.FormatOffset(state.Position))
	}

	return nil
}

// match filters items by fuzzy title match and remembers the query for
// future suggestions. An empty query returns everything.
func match(items []*repository.Item, q string) []*repository.Item {
	if q == "" {
		return items
	}

	_ = query.Remember(q, 1)

	var matched []*repository.Item
	for _, item := range items {
		if fuzzy.MatchFold(q, item.Title) {
			matched = append(matched, item)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return fuzzy.RankMatchFold(q, matched[i].Title) < fuzzy.RankMatchFold(q, matched[j].Title)
	})
	return matched
}

func writeJson(options *Options, entries []*Entry) error {
	data, err := asJson(entries, options.Query)
	if err != nil {
		return err
	}
	_, err = options.Out.Write(data)
	return err
}
