package playback

import (
	"errors"
	"path/filepath"

	"github.com/cue-cli/cue/repository"
)

// ErrNothingToResume means every member of the item has been watched to
// completion; resuming would fall off the end of the playlist.
var ErrNothingToResume = errors.New("nothing left to resume")

// ResumePoint selects where playback of an item should continue: the playlist
// index and the offset in seconds within that file.
//
// A fresh item starts at the beginning. A finished file advances to the next
// playlist member; when none remains, ErrNothingToResume is returned and the
// caller decides whether to restart from scratch.
func ResumePoint(item *repository.Item, files []string) (int, float64, error) {
	state := item.Playback

	if state.LastFile == "" {
		return 0, 0, nil
	}

	index, found := revalidate(state, files)
	if !found {
		// The remembered file vanished from the playlist; the stored offset
		// is meaningless for whatever file now sits at that position.
		return 0, 0, nil
	}

	if state.Finished {
		next := index + 1
		if next >= len(files) {
			return 0, 0, ErrNothingToResume
		}
		return next, 0, nil
	}

	return index, state.Position, nil
}

// revalidate maps a stored resume pointer onto the current playlist. Files
// get renamed and directories reorganized between sessions, so the stored
// index is only trusted when it still names the same file; otherwise the
// playlist is searched by full path, then by basename.
func revalidate(state repository.PlaybackState, files []string) (int, bool) {
	if state.LastIndex >= 0 && state.LastIndex < len(files) && files[state.LastIndex] == state.LastFile {
		return state.LastIndex, true
	}

	for i, f := range files {
		if f == state.LastFile {
			return i, true
		}
	}

	base := filepath.Base(state.LastFile)
	for i, f := range files {
		if filepath.Base(f) == base {
			return i, true
		}
	}

	return 0, false
}
