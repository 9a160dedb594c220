package subtitles

import (
	"fmt"
	"os/exec"

	"github.com/cue-cli/cue/filesystem"
)

// syncTool aligns subtitle timings against the media file's audio track.
const syncTool = "ffsubsync"

// Sync runs ffsubsync on the media file's downloaded subtitle, rewriting it
// in place. The subtitle must already exist at the target path.
func Sync(mediaPath string) error {
	binary, err := exec.LookPath(syncTool)
	if err != nil {
		return fmt.Errorf("%s not found in PATH", syncTool)
	}

	target := TargetPath(mediaPath)
	exists, err := filesystem.API().Exists(target)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("no subtitle at %s to sync", target)
	}

	cmd := exec.Command(binary, mediaPath, "-i", target, "-o", target)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %v: %s", syncTool, err, output)
	}
	return nil
}
