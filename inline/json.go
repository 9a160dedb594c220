// Package inline provides the implementation for the application's non-interactive, programmable execution mode.
package inline

import (
	"encoding/json"

	"github.com/cue-cli/cue/metadata"
	"github.com/cue-cli/cue/repository"
)

type Entry struct {
	// Item is the library item with its playback state.
	Item *repository.Item `json:"item"`
	// Record is the bound TMDB entry (optional).
	Record *metadata.Record `json:"record,omitempty"`
	// Events are the item's recent watch events (optional).
	Events []*repository.WatchEvent `json:"events,omitempty"`
}

type Output struct {
	Query  string   `json:"query"`
	Result []*Entry `json:"result"`
}

func asJson(entries []*Entry, query string) ([]byte, error) {
	return json.Marshal(&Output{
		Query:  query,
		Result: entries,
	})
}
