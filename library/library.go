// Package library discovers local media on disk and registers it in the repository.
package library

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cue-cli/cue/filesystem"
	"github.com/cue-cli/cue/key"
	"github.com/cue-cli/cue/log"
	"github.com/cue-cli/cue/repository"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// mediaExtensions lists the file suffixes treated as playable media.
var mediaExtensions = []string{".mkv", ".mp4", ".avi", ".mov", ".webm"}

// IsMediaFile reports whether the path carries a recognized media extension.
func IsMediaFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return lo.Contains(mediaExtensions, ext)
}

// Files returns the sorted member media files of a folder.
// For a file path it returns a single-element list, so callers can treat
// files and folders uniformly as playlists.
func Files(path string) ([]string, error) {
	fs := filesystem.API()

	stat, err := fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	if !stat.IsDir() {
		if !IsMediaFile(path) {
			return nil, fmt.Errorf("%s is not a media file", path)
		}
		return []string{path}, nil
	}

	files, err := walkMedia(path)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no media files in %s", path)
	}

	sort.Strings(files)
	return files, nil
}

func walkMedia(root string) ([]string, error) {
	var files []string
	showHidden := viper.GetBool(key.LibraryShowHidden)

	entries, err := filesystem.API().ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", root, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if !showHidden && strings.HasPrefix(name, ".") {
			continue
		}

		full := filepath.Join(root, name)
		if entry.IsDir() {
			nested, err := walkMedia(full)
			if err != nil {
				return nil, err
			}
			files = append(files, nested...)
			continue
		}

		if IsMediaFile(full) {
			files = append(files, full)
		}
	}

	return files, nil
}

// Entry describes a discovered library candidate before registration.
type Entry struct {
	Path   string
	Folder bool
	Title  string
	Season int
	Year   int
}

// Discover lists the immediate children of a library folder that qualify as
// items: subfolders containing media, and loose media files.
func Discover(dir string) ([]Entry, error) {
	fs := filesystem.API()
	showHidden := viper.GetBool(key.LibraryShowHidden)

	infos, err := fs.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read library dir %s: %w", dir, err)
	}

	var entries []Entry
	for _, info := range infos {
		name := info.Name()
		if !showHidden && strings.HasPrefix(name, ".") {
			continue
		}

		full := filepath.Join(dir, name)
		if info.IsDir() {
			members, err := walkMedia(full)
			if err != nil || len(members) == 0 {
				continue
			}
			guess := GuessTitle(name)
			entries = append(entries, Entry{
				Path:   full,
				Folder: true,
				Title:  guess.Title,
				Season: guess.Season,
				Year:   guess.Year,
			})
			continue
		}

		if IsMediaFile(full) {
			guess := GuessTitle(name)
			entries = append(entries, Entry{
				Path:  full,
				Title: guess.Title,
				Year:  guess.Year,
			})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})
	return entries, nil
}

// Scan registers every discovered entry of a library folder in the repository.
// Existing items keep their playback state and any user-locked titles.
func Scan(repo *repository.Repository, dir string) ([]*repository.Item, error) {
	entries, err := Discover(dir)
	if err != nil {
		return nil, err
	}

	probe := viper.GetBool(key.LibraryProbeOnScan)

	var items []*repository.Item
	for _, entry := range entries {
		item, err := repo.GetOrCreate(entry.Path, entry.Folder, entry.Title)
		if err != nil {
			return nil, err
		}

		changed := false
		if !item.TitleLocked && item.Title == "" {
			item.Title = entry.Title
			changed = true
		}
		if item.Season == 0 && entry.Season != 0 {
			item.Season = entry.Season
			changed = true
		}
		if item.Year == 0 && entry.Year != 0 {
			item.Year = entry.Year
			changed = true
		}

		// Probing fills the duration before any playback has reported one, so
		// the offset <= duration invariant holds from the first session on.
		if probe && !entry.Folder && item.Playback.Duration == 0 {
			if d, err := ProbeDuration(entry.Path); err == nil && d > 0 {
				item.Playback.Duration = d
				changed = true
			} else if err != nil {
				log.Debugf("probe %s: %v", entry.Path, err)
			}
		}

		if changed {
			if err := repo.SaveItem(item); err != nil {
				return nil, err
			}
		}
		items = append(items, item)
	}

	return items, nil
}
