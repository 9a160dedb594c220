package player

import (
	"bufio"
	"bytes"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/cue-cli/cue/log"
)

// statusPrefix tags the status lines we ask mpv to print, so playback
// observations are distinguishable from mpv's own terminal output.
const statusPrefix = "cue-status:"

// statusTemplate is an mpv property-expansion string; mpv substitutes the
// ${=...} placeholders with raw property values on every status redraw.
const statusTemplate = statusPrefix + "${=time-pos}|${=duration}|${path}"

// StdoutDriver drives mpv in CLI mode and scrapes playback positions from
// its terminal status line. Used where no IPC socket is practical, notably
// mpv on Windows where Unix domain sockets are unavailable to us.
type StdoutDriver struct {
	executable string
	cmd        *exec.Cmd
	exited     chan struct{}

	mu     sync.RWMutex
	last   Status
	seen   bool // at least one status line parsed
	closed bool
}

// NewStdoutDriver creates a stdout-scraping driver bound to the given player
// binary. It does not start playback.
func NewStdoutDriver(executable string) *StdoutDriver {
	return &StdoutDriver{
		executable: executable,
		exited:     make(chan struct{}),
	}
}

// Launch starts mpv with the requested playlist, start index and offset.
// Unlike the IPC variant the start position is passed on the command line,
// so no startup sequencing is needed.
func (d *StdoutDriver) Launch(spec LaunchSpec) error {
	if len(spec.Playlist) == 0 {
		return fmt.Errorf("%w: empty playlist", ErrPlayerLaunch)
	}

	args := []string{
		"--no-input-terminal",
		"--msg-level=all=error,statusline=status",
		fmt.Sprintf("--term-status-msg=%s", statusTemplate),
		fmt.Sprintf("--playlist-start=%d", spec.StartIndex),
		// Downloaded subtitles live in .subs next to the media file.
		"--sub-file-paths=.subs",
	}
	if spec.StartAt > 0 {
		args = append(args, fmt.Sprintf("--start=+%s", strconv.FormatFloat(spec.StartAt, 'f', 3, 64)))
	}
	if spec.Title != "" {
		args = append(args, fmt.Sprintf("--force-media-title=%s", sanitizeTitle(spec.Title)))
	}
	args = append(args, spec.Playlist...)

	d.cmd = exec.Command(d.executable, args...)
	d.cmd.SysProcAttr = sysProcAttr()
	d.cmd.Stdin = nil

	stdout, err := d.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("%w: stdout pipe: %v", ErrPlayerLaunch, err)
	}
	// Status lines go to stderr on some mpv builds depending on msg-module
	// settings, so both streams are scraped.
	stderr, err := d.cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("%w: stderr pipe: %v", ErrPlayerLaunch, err)
	}

	if err := d.cmd.Start(); err != nil {
		return fmt.Errorf("%w: start %s: %v", ErrPlayerLaunch, d.executable, err)
	}

	d.exited = make(chan struct{})

	var scrapers sync.WaitGroup
	scrapers.Add(2)
	go func() { defer scrapers.Done(); d.scrape(bufio.NewScanner(stdout)) }()
	go func() { defer scrapers.Done(); d.scrape(bufio.NewScanner(stderr)) }()

	go func() {
		scrapers.Wait()
		_ = d.cmd.Wait()
		close(d.exited)
	}()

	return nil
}

// scrape consumes player output and keeps the last parsed status.
// mpv redraws its status line with carriage returns, so the scanner splits
// on both \r and \n.
func (d *StdoutDriver) scrape(scanner *bufio.Scanner) {
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	scanner.Split(scanStatusLines)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, statusPrefix) {
			continue
		}

		status, err := parseStatusLine(line)
		if err != nil {
			log.Debugf("unparseable status line %q: %v", line, err)
			continue
		}

		d.mu.Lock()
		d.last = status
		d.seen = true
		d.mu.Unlock()
	}
}

// parseStatusLine decodes a "cue-status:<pos>|<dur>|<path>" line.
// Position or duration may be empty while a file is still loading.
func parseStatusLine(line string) (Status, error) {
	fields := strings.SplitN(strings.TrimPrefix(line, statusPrefix), "|", 3)
	if len(fields) != 3 {
		return Status{}, fmt.Errorf("expected 3 fields, got %d", len(fields))
	}

	var status Status

	if fields[0] != "" {
		pos, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return Status{}, fmt.Errorf("position: %w", err)
		}
		status.Position = pos
	}
	if fields[1] != "" {
		dur, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return Status{}, fmt.Errorf("duration: %w", err)
		}
		status.Duration = dur
	}
	status.Path = fields[2]

	return status, nil
}

// scanStatusLines is a bufio.SplitFunc treating both \r and \n as line
// terminators.
func scanStatusLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// Status returns the last scraped playback observation.
func (d *StdoutDriver) Status() (Status, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.seen {
		return Status{}, fmt.Errorf("%w: no status observed yet", ErrIPC)
	}
	return d.last, nil
}

// IsRunning reports whether the player process is still alive.
func (d *StdoutDriver) IsRunning() bool {
	select {
	case <-d.exited:
		return false
	default:
		return d.cmd != nil && d.cmd.Process != nil
	}
}

// Wait returns a channel that is closed when the player process exits.
func (d *StdoutDriver) Wait() <-chan struct{} {
	return d.exited
}

// Close terminates the player process.
func (d *StdoutDriver) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.mu.Unlock()

	select {
	case <-d.exited:
		return nil
	default:
	}

	return killProcess(d.cmd)
}
