// Package player defines a unified abstraction layer for external media playback engines.
//
// Two backends exist as a closed set: a stdout-scraping driver for mpv run in
// CLI mode, and a JSON-IPC socket driver for Celluloid (mpv wrapped in a GTK
// window). Driver selection is a pure function of the host OS and the
// configured player; there is no plugin mechanism.
package player

import (
	"errors"
	"fmt"
	"os/exec"

	"github.com/cue-cli/cue/key"
	"github.com/spf13/viper"
)

// Failure taxonomy for playback. IPC failures degrade to "treat as stopped,
// keep last known offset" at the session layer; they never crash a session.
var (
	ErrConfiguration = errors.New("player configuration error")
	ErrPlayerLaunch  = errors.New("player failed to launch")
	ErrIPC           = errors.New("player ipc communication error")
)

// Kind enumerates the supported driver variants.
type Kind int

const (
	// KindStdout launches the player in CLI mode and scrapes playback
	// positions from its terminal status output.
	KindStdout Kind = iota
	// KindIPC launches the player with a JSON-IPC socket and queries
	// playback properties over it.
	KindIPC
)

func (k Kind) String() string {
	switch k {
	case KindStdout:
		return "stdout"
	case KindIPC:
		return "ipc"
	default:
		return "unknown"
	}
}

// selection is the closed dispatch table from (GOOS, player) to driver kind.
var selection = map[[2]string]Kind{
	{"windows", "mpv"}:     KindStdout,
	{"linux", "mpv"}:       KindStdout,
	{"linux", "celluloid"}: KindIPC,
}

// Select resolves the driver kind for an operating system and player pair.
// It is a pure function; unknown pairs fail with ErrConfiguration.
func Select(goos, player string) (Kind, error) {
	kind, ok := selection[[2]string{goos, player}]
	if !ok {
		return 0, fmt.Errorf("%w: no driver for player %q on %s", ErrConfiguration, player, goos)
	}
	return kind, nil
}

// Executable resolves the player binary for the configured player name,
// honoring the player.executable override. A binary missing from PATH is a
// configuration error surfaced at startup, not at poll time.
func Executable() (string, error) {
	name := viper.GetString(key.PlayerExecutable)
	if name == "" {
		name = viper.GetString(key.Player)
	}

	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: binary %q not found in PATH", ErrConfiguration, name)
	}
	return path, nil
}

// LaunchSpec describes a single playback session request.
type LaunchSpec struct {
	// Playlist is the ordered member file list; single files use a one-element playlist.
	Playlist []string
	// StartIndex selects the playlist entry to begin with.
	StartIndex int
	// StartAt is the initial seek offset in seconds within the starting entry.
	StartAt float64
	// Title is the window/media title shown by the player.
	Title string
}

// Status is a point-in-time playback observation.
type Status struct {
	// Position is the current absolute playback offset in seconds.
	Position float64
	// Duration is the total length of the active file in seconds; zero when unknown.
	Duration float64
	// Path is the file currently loaded, as reported by the player.
	Path string
}

// Driver encapsulates the required capabilities for a media playback backend.
type Driver interface {
	// Launch starts the external player process for the given spec.
	// It returns once the player is observable (process started and, for the
	// IPC variant, the startup seek sequence completed or timed out).
	Launch(spec LaunchSpec) error

	// Status retrieves the current playback observation. Errors are transient
	// by contract: callers keep the last good observation.
	Status() (Status, error)

	// IsRunning validates the liveness of the underlying playback process.
	IsRunning() bool

	// Wait returns a channel that is closed when the playback session terminates.
	Wait() <-chan struct{}

	// Close terminates the playback engine and releases all associated resources.
	Close() error
}

// New constructs the driver for the given kind and resolved executable.
func New(kind Kind, executable string) Driver {
	switch kind {
	case KindIPC:
		return NewIPCDriver(executable)
	default:
		return NewStdoutDriver(executable)
	}
}
