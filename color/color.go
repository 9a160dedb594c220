// Package color provides the ANSI palette the CLI output draws from.
// The TUI's richer hex palette lives in the style package; this one covers
// plain command output, where sticking to the terminal scheme matters.
package color

import "github.com/charmbracelet/lipgloss"

// New initializes a lipgloss.Color from an ANSI index or hex string.
func New(value string) lipgloss.Color {
	return lipgloss.Color(value)
}

// Standard ANSI colors used across prompts, lists and status output.
var (
	Red    = New("1")
	Green  = New("2")
	Yellow = New("3")
	Blue   = New("4")
	Purple = New("5")
	Cyan   = New("6")
)

// High-intensity accents for the root command banner.
var (
	HiRed    = New("9")
	HiPurple = New("13")
)

// Orange highlights interactive key hints.
var Orange = New("#ffb703")
