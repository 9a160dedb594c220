package metadata

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/cue-cli/cue/auth"
	"github.com/cue-cli/cue/key"
	"github.com/cue-cli/cue/log"
	"github.com/cue-cli/cue/network"
	"github.com/cue-cli/cue/query"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

const apiBaseURL = "https://api.themoviedb.org/3"

// ErrNotConfigured means no TMDB API key could be found in config, environment
// or the system keyring. Metadata fetching is optional; callers treat this as
// "skip fetching", not as a failure.
var ErrNotConfigured = errors.New("tmdb api key not configured")

// apiKey resolves the TMDB API key: config (which includes the environment
// through viper's env binding) first, system keyring second.
func apiKey() (string, error) {
	if k := viper.GetString(key.MetadataTMDBKey); k != "" {
		return k, nil
	}

	if k, err := auth.GetTMDBKey(); err == nil && k != "" {
		return k, nil
	}

	return "", ErrNotConfigured
}

// apiGet performs a GET against a TMDB endpoint and decodes the JSON response.
func apiGet(path string, params url.Values, out interface{}) error {
	k, err := apiKey()
	if err != nil {
		return err
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", k)
	if lang := viper.GetString(key.MetadataLanguage); lang != "" {
		params.Set("language", lang)
	}

	req, err := http.NewRequest(http.MethodGet, apiBaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		log.Error(err)
		return err
	}

	resp, err := network.Client.Do(req)
	if err != nil {
		log.Error(err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: key rejected by TMDB", ErrNotConfigured)
	}
	if resp.StatusCode != http.StatusOK {
		log.Error("TMDB returned status code " + strconv.Itoa(resp.StatusCode))
		return fmt.Errorf("invalid response code %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Error(err)
		return err
	}
	return nil
}

// searchResponse defines the anticipated JSON response structure for catalogue searches.
type searchResponse struct {
	Results []*Record `json:"results"`
}

// GetByRef returns the full detail record for a "kind:id" reference.
// If the record is not found, it returns nil.
func GetByRef(ref string) (*Record, error) {
	if record := idCacher.Get(ref); record.IsPresent() {
		return record.MustGet(), nil
	}

	kind, id, ok := parseRef(ref)
	if !ok {
		return nil, fmt.Errorf("malformed record reference %q", ref)
	}

	log.Infof("Fetching TMDB details for %s", ref)

	var record Record
	if err := apiGet(fmt.Sprintf("/%s/%d", kind, id), nil, &record); err != nil {
		return nil, err
	}
	record.Kind = kind

	_ = idCacher.Set(ref, &record)
	return &record, nil
}

// SearchByName returns catalogue records matching the given name, movies and
// TV series merged. A year narrows the movie search when known.
func SearchByName(name string, year int) ([]*Record, error) {
	name = normalizedName(name)
	_ = query.Remember(name, 1)

	if _, failed := failCacher.Get(name).Get(); failed {
		return nil, fmt.Errorf("failed to search for %s", name)
	}

	if refs, ok := searchCacher.Get(name).Get(); ok {
		records := lo.FilterMap(refs, func(ref string, _ int) (*Record, bool) {
			return idCacher.Get(ref).Get()
		})

		if len(records) == 0 {
			_ = searchCacher.Delete(name)
			return SearchByName(name, year)
		}

		return records, nil
	}

	log.Infof("Searching TMDB for %s", name)

	var records []*Record
	for _, kind := range []string{KindMovie, KindTV} {
		params := url.Values{"query": {name}}
		if kind == KindMovie && year > 0 {
			params.Set("year", strconv.Itoa(year))
		}

		var response searchResponse
		if err := apiGet("/search/"+kind, params, &response); err != nil {
			if errors.Is(err, ErrNotConfigured) {
				return nil, err
			}
			_ = failCacher.Set(name, true)
			return nil, err
		}

		for _, record := range response.Results {
			record.Kind = kind
		}
		records = append(records, response.Results...)
	}

	log.Infof("Got response from TMDB, found %d results", len(records))

	refs := make([]string, len(records))
	for i, record := range records {
		refs[i] = record.Ref()
		_ = idCacher.Set(record.Ref(), record)
	}
	_ = searchCacher.Set(name, refs)
	return records, nil
}
