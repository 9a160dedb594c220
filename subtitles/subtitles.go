// Package subtitles finds and downloads subtitles for library files through
// the OpenSubtitles API. Search matches by movie hash first and falls back to
// the file name; downloads land in a .subs directory next to the media file,
// where the player picks them up automatically.
package subtitles

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cue-cli/cue/auth"
	"github.com/cue-cli/cue/filesystem"
	"github.com/cue-cli/cue/key"
	"github.com/cue-cli/cue/log"
	"github.com/cue-cli/cue/network"
	"github.com/spf13/viper"
)

const (
	apiBaseURL = "https://api.opensubtitles.com/api/v1"
	userAgent  = "cue-cli v1"

	// subsDirName is the directory next to the media file where downloaded
	// subtitles are stored.
	subsDirName = ".subs"
)

// ErrNotConfigured means no OpenSubtitles API key could be found in config,
// environment or the system keyring. Subtitles are optional; callers treat
// this as "skip", not as a failure.
var ErrNotConfigured = errors.New("opensubtitles api key not configured")

// ErrNoResults means the search came back empty for both hash and name.
var ErrNoResults = errors.New("no subtitles found")

// Subtitle is one search result of the catalogue.
type Subtitle struct {
	// FileID identifies the subtitle file for the download endpoint.
	FileID int `json:"file_id"`
	// Language is the ISO 639-1 language code.
	Language string `json:"language"`
	// Format is the subtitle file format, almost always srt.
	Format string `json:"format"`
	// Downloads counts how often the catalogue served this file.
	Downloads int `json:"downloads"`
	// FileName is the release name of the subtitle file.
	FileName string `json:"file_name"`
	// HashMatch is set when the result matched the movie hash, which makes
	// it a near-certain fit for the exact release on disk.
	HashMatch bool `json:"hash_match"`
}

// Enabled reports whether an API key is available from any source.
func Enabled() bool {
	_, err := apiKey()
	return err == nil
}

// apiKey resolves the OpenSubtitles API key: config (which includes the
// environment through viper's env binding) first, system keyring second.
func apiKey() (string, error) {
	if k := viper.GetString(key.SubtitlesAPIKey); k != "" {
		return k, nil
	}

	if k, err := auth.GetOpenSubtitlesKey(); err == nil && k != "" {
		return k, nil
	}

	return "", ErrNotConfigured
}

// apiRequest performs an authenticated call against an OpenSubtitles endpoint
// and decodes the JSON response.
func apiRequest(method, path string, params url.Values, payload, out interface{}) error {
	k, err := apiKey()
	if err != nil {
		return err
	}

	endpoint := apiBaseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, endpoint, body)
	if err != nil {
		log.Error(err)
		return err
	}
	req.Header.Set("Api-Key", k)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/json")

	resp, err := network.Client.Do(req)
	if err != nil {
		log.Error(err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%w: key rejected by OpenSubtitles", ErrNotConfigured)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("invalid response code %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Error(err)
		return err
	}
	return nil
}

// searchResponse mirrors the catalogue's search envelope.
type searchResponse struct {
	Data []struct {
		Attributes struct {
			Language      string `json:"language"`
			Format        string `json:"format"`
			DownloadCount int    `json:"download_count"`
			HashMatch     bool   `json:"moviehash_match"`
			Files         []struct {
				FileID   int    `json:"file_id"`
				FileName string `json:"file_name"`
			} `json:"files"`
		} `json:"attributes"`
	} `json:"data"`
}

// Search queries the catalogue for subtitles matching the given media file,
// best matches first: hash matches before name matches, more downloaded
// before less.
func Search(path string) ([]*Subtitle, error) {
	params := url.Values{
		"languages": {viper.GetString(key.SubtitlesLanguage)},
		"query":     {filepath.Base(path)},
	}

	hash, err := MovieHash(path)
	if err == nil {
		params.Set("moviehash", hash)
	} else if !errors.Is(err, ErrFileTooSmall) {
		log.Warnf("movie hash for %s: %v", path, err)
	}

	log.Infof("Searching subtitles for %s", filepath.Base(path))

	var response searchResponse
	if err := apiRequest(http.MethodGet, "/subtitles", params, nil, &response); err != nil {
		return nil, err
	}

	var results []*Subtitle
	for _, entry := range response.Data {
		attrs := entry.Attributes
		if len(attrs.Files) == 0 {
			continue
		}

		results = append(results, &Subtitle{
			FileID:    attrs.Files[0].FileID,
			Language:  attrs.Language,
			Format:    attrs.Format,
			Downloads: attrs.DownloadCount,
			FileName:  attrs.Files[0].FileName,
			HashMatch: attrs.HashMatch,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].HashMatch != results[j].HashMatch {
			return results[i].HashMatch
		}
		return results[i].Downloads > results[j].Downloads
	})

	return results, nil
}

// downloadResponse mirrors the download endpoint's envelope.
type downloadResponse struct {
	Link string `json:"link"`
}

// TargetPath returns where the subtitle for a media file is stored:
// .subs/<stem>.srt next to the file.
func TargetPath(mediaPath string) string {
	stem := strings.TrimSuffix(filepath.Base(mediaPath), filepath.Ext(mediaPath))
	return filepath.Join(filepath.Dir(mediaPath), subsDirName, stem+".srt")
}

// Download fetches the given subtitle and stores it at the media file's
// target path, returning that path.
func Download(sub *Subtitle, mediaPath string) (string, error) {
	var response downloadResponse
	if err := apiRequest(http.MethodPost, "/download", nil, map[string]int{"file_id": sub.FileID}, &response); err != nil {
		return "", err
	}
	if response.Link == "" {
		return "", errors.New("catalogue returned no download link")
	}

	req, err := http.NewRequest(http.MethodGet, response.Link, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := network.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download failed with code %d", resp.StatusCode)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	target := TargetPath(mediaPath)
	if err := filesystem.API().MkdirAll(filepath.Dir(target), os.ModePerm); err != nil {
		return "", err
	}
	if err := filesystem.API().WriteFile(target, content, os.ModePerm); err != nil {
		return "", err
	}

	log.Infof("Downloaded subtitle to %s", target)
	return target, nil
}

// DownloadBest searches and downloads the top result for a media file.
func DownloadBest(mediaPath string) (string, error) {
	results, err := Search(mediaPath)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", ErrNoResults
	}
	return Download(results[0], mediaPath)
}
