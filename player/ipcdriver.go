package player

import (
	"crypto/rand"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/cue-cli/cue/log"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond

	startupTimeout = 15 * time.Second
	startupPoll    = 250 * time.Millisecond
)

// IPCDriver drives Celluloid (GTK mpv frontend) through mpv's JSON-IPC
// protocol. Celluloid loads playlists asynchronously, so launching goes
// through a staged startup sequence before the initial seek can be applied.
type IPCDriver struct {
	executable string
	client     *ipcClient
	cmd        *exec.Cmd
	exited     chan struct{} // closed when the player process exits
}

// NewIPCDriver creates an IPC driver bound to the given player binary.
// It does not start playback.
func NewIPCDriver(executable string) *IPCDriver {
	return &IPCDriver{
		executable: executable,
		exited:     make(chan struct{}),
	}
}

// Launch starts the player and applies the requested start index and offset.
// Celluloid ignores mpv's --playlist-start and --start flags, so both are
// enforced over IPC once the playlist has loaded.
func (d *IPCDriver) Launch(spec LaunchSpec) error {
	if len(spec.Playlist) == 0 {
		return fmt.Errorf("%w: empty playlist", ErrPlayerLaunch)
	}

	socketPath, err := newSocketPath()
	if err != nil {
		return err
	}
	d.client = &ipcClient{socketPath: socketPath}

	args := []string{
		"--new-window",
		fmt.Sprintf("--mpv-options=%s", celluloidMpvOptions(socketPath, spec.Title)),
	}
	args = append(args, spec.Playlist...)

	d.cmd = exec.Command(d.executable, args...)
	d.cmd.SysProcAttr = sysProcAttr()
	d.cmd.Stdout = nil
	d.cmd.Stderr = nil
	d.cmd.Stdin = nil

	if err := d.cmd.Start(); err != nil {
		return fmt.Errorf("%w: start %s: %v", ErrPlayerLaunch, d.executable, err)
	}

	d.exited = make(chan struct{})
	go func() {
		_ = d.cmd.Wait()
		close(d.exited)
	}()

	if err := d.waitForSocket(); err != nil {
		d.killOrphan()
		return fmt.Errorf("%w: ipc socket not ready: %v", ErrPlayerLaunch, err)
	}

	if err := d.startup(spec); err != nil {
		// The player window is up and usable even when the startup seek
		// fails; surface the error but leave playback to the user.
		log.Warnf("startup sequence incomplete: %v", err)
		_ = d.client.setProperty("pause", false)
	}

	return nil
}

// startup walks the player into the requested position. Each phase polls
// until its condition holds, bounded by a shared deadline:
//
//  1. wait for the full playlist to load
//  2. force the playlist index
//  3. wait for the indexed file's duration to become known
//  4. seek to the offset and unpause
func (d *IPCDriver) startup(spec LaunchSpec) error {
	deadline := time.Now().Add(startupTimeout)

	err := d.poll(deadline, "playlist load", func() (bool, error) {
		count, err := d.client.floatProperty("playlist-count")
		if err != nil {
			return false, nil // socket settling, keep polling
		}
		return int(count) >= len(spec.Playlist), nil
	})
	if err != nil {
		return err
	}

	if spec.StartIndex > 0 {
		if err := d.client.setProperty("playlist-pos", spec.StartIndex); err != nil {
			return fmt.Errorf("force playlist index: %w", err)
		}
	}

	err = d.poll(deadline, "file load", func() (bool, error) {
		dur, err := d.client.floatProperty("duration")
		return err == nil && dur > 0, nil
	})
	if err != nil {
		return err
	}

	if spec.StartAt > 0 {
		if _, err := d.client.send([]interface{}{"seek", spec.StartAt, "absolute"}); err != nil {
			return fmt.Errorf("initial seek: %w", err)
		}
	}

	return d.client.setProperty("pause", false)
}

// poll repeatedly evaluates cond until it holds, the deadline passes, or the
// player exits.
func (d *IPCDriver) poll(deadline time.Time, phase string, cond func() (bool, error)) error {
	for {
		select {
		case <-d.exited:
			return fmt.Errorf("player exited during %s", phase)
		default:
		}

		ok, err := cond()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("timed out waiting for %s", phase)
		}
		time.Sleep(startupPoll)
	}
}

// Status reads the current playback observation over IPC.
func (d *IPCDriver) Status() (Status, error) {
	pos, err := d.client.floatProperty("time-pos")
	if err != nil {
		return Status{}, err
	}

	var status Status
	status.Position = pos

	// Duration and path are best-effort; a position without them is still
	// a usable observation.
	if dur, err := d.client.floatProperty("duration"); err == nil {
		status.Duration = dur
	}
	if path, err := d.client.stringProperty("path"); err == nil {
		status.Path = path
	}

	return status, nil
}

// IsRunning reports whether the player is alive and answering IPC.
func (d *IPCDriver) IsRunning() bool {
	select {
	case <-d.exited:
		return false
	default:
	}
	return d.client != nil && d.client.alive()
}

// Wait returns a channel that is closed when the player process exits.
func (d *IPCDriver) Wait() <-chan struct{} {
	return d.exited
}

// Close shuts the player down and removes the socket file.
func (d *IPCDriver) Close() error {
	if d.client == nil {
		return nil
	}

	_, _ = d.client.send([]interface{}{"quit"})

	select {
	case <-d.exited:
	case <-time.After(3 * time.Second):
		_ = killProcess(d.cmd)
	}

	_ = os.Remove(d.client.socketPath)
	return nil
}

// waitForSocket polls until the IPC socket accepts connections.
func (d *IPCDriver) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-d.exited:
			return fmt.Errorf("player exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", d.client.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", d.client.socketPath, socketWaitRetries)
}

func (d *IPCDriver) killOrphan() {
	if d.cmd == nil || d.cmd.Process == nil {
		return
	}
	select {
	case <-d.exited:
	default:
		log.Warnf("killing %s: socket never became ready", filepath.Base(d.executable))
		_ = killProcess(d.cmd)
	}
}

// newSocketPath generates a random socket path under the OS temp dir
// (macOS $TMPDIR is /var/folders/..., not /tmp/).
func newSocketPath() (string, error) {
	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("generate socket name: %w", err)
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("cue-%x.sock", randomBytes)), nil
}

// celluloidMpvOptions renders the space-joined option string handed to mpv
// through Celluloid's --mpv-options flag. Celluloid word-splits the string, so
// the title value must be quoted; sanitizeTitle guarantees no double quote
// survives inside it.
func celluloidMpvOptions(socketPath, title string) string {
	options := []string{
		fmt.Sprintf("--input-ipc-server=%s", socketPath),
		"--pause",
		// Downloaded subtitles live in .subs next to the media file.
		"--sub-file-paths=.subs",
	}
	if title != "" {
		options = append(options, fmt.Sprintf(`--force-media-title="%s"`, sanitizeTitle(title)))
	}
	return strings.Join(options, " ")
}

// sanitizeTitle strips characters that break option passing to the player.
func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "", `"`, "'").Replace(title)
	return strings.TrimSpace(t)
}
