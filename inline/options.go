// Package inline provides the implementation for the application's non-interactive, programmable execution mode.
package inline

import (
	"fmt"
	"io"
	"strconv"

	"github.com/cue-cli/cue/repository"
	"github.com/cue-cli/cue/util"
	"github.com/samber/mo"
)

// ItemPicker selects a single item from matched search results.
type ItemPicker func([]*repository.Item) *repository.Item

type Options struct {
	Out io.Writer
	// Query filters the library by title; empty matches everything.
	Query string
	// Json switches the output from plain paths to the structured document.
	Json bool
	// IncludeRecord attaches the bound TMDB record to each result.
	IncludeRecord bool
	// IncludeEvents attaches recent watch events to each result.
	IncludeEvents bool
	// ItemPicker narrows the matches to a single item when present.
	ItemPicker mo.Option[ItemPicker]
}

// ParseItemPicker builds an item picker from its CLI description.
// Supported kinds: first, last, exact, or a numeric index.
func ParseItemPicker(description, query string) (ItemPicker, error) {
	switch description {
	case "first":
		return func(items []*repository.Item) *repository.Item {
			if len(items) == 0 {
				return nil
			}
			return items[0]
		}, nil
	case "last":
		return func(items []*repository.Item) *repository.Item {
			if len(items) == 0 {
				return nil
			}
			return items[len(items)-1]
		}, nil
	case "exact":
		return func(items []*repository.Item) *repository.Item {
			for _, item := range items {
				if item.Title == query {
					return item
				}
			}
			return nil
		}, nil
	default:
		idx, err := strconv.ParseUint(description, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("unknown picker type: %s", description)
		}
		return func(items []*repository.Item) *repository.Item {
			if len(items) == 0 {
				return nil
			}
			i := util.Min(idx, uint64(len(items)-1))
			return items[i]
		}, nil
	}
}
