// Package auth provides a high-level API for persisting and retrieving API credentials from the system keyring.
package auth

import (
	"github.com/zalando/go-keyring"
)

const (
	service           = "cue-cli"
	tmdbUser          = "tmdb-api-key"
	openSubtitlesUser = "opensubtitles-api-key"
)

// SetTMDBKey persists the TMDB API key to the system keyring.
func SetTMDBKey(apiKey string) error {
	return keyring.Set(service, tmdbUser, apiKey)
}

// GetTMDBKey retrieves the TMDB API key from the system keyring.
func GetTMDBKey() (string, error) {
	return keyring.Get(service, tmdbUser)
}

// DeleteTMDBKey removes the TMDB API key from the system keyring.
func DeleteTMDBKey() error {
	return keyring.Delete(service, tmdbUser)
}

// SetOpenSubtitlesKey persists the OpenSubtitles API key to the system keyring.
func SetOpenSubtitlesKey(apiKey string) error {
	return keyring.Set(service, openSubtitlesUser, apiKey)
}

// GetOpenSubtitlesKey retrieves the OpenSubtitles API key from the system keyring.
func GetOpenSubtitlesKey() (string, error) {
	return keyring.Get(service, openSubtitlesUser)
}

// DeleteOpenSubtitlesKey removes the OpenSubtitles API key from the system keyring.
func DeleteOpenSubtitlesKey() error {
	return keyring.Delete(service, openSubtitlesUser)
}
