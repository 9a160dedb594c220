package library

import (
	"fmt"

	mediainfo "github.com/lbryio/go_mediainfo"
)

// ProbeDuration reads the container duration of a media file in seconds
// using libmediainfo. Probing goes through the OS filesystem directly, it
// cannot be virtualized.
func ProbeDuration(path string) (float64, error) {
	info, err := mediainfo.GetMediaInfo(path)
	if err != nil {
		return 0, fmt.Errorf("mediainfo %s: %w", path, err)
	}

	if info.General.Duration <= 0 {
		return 0, fmt.Errorf("no duration reported for %s", path)
	}

	// libmediainfo reports milliseconds.
	return float64(info.General.Duration) / 1000.0, nil
}
