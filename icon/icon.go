// Package icon provides a multi-variant rendering engine for UI symbols and feedback indicators.
//
// Icons can be displayed as emoji, nerd-font glyphs or plain ASCII depending on user preference.
package icon

import (
	"github.com/cue-cli/cue/key"
	"github.com/spf13/viper"
)

// Visual Variant Constants - these define the supported aesthetic styles for icon rendering.
const (
	emoji = "emoji"
	nerd  = "nerd"
	plain = "plain"
)

// AvailableVariants returns a slice of all registered icon style identifiers.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain}
}

// Icon identifies a UI symbol in the global registry.
type Icon int

const (
	Success Icon = iota
	Fail
	Progress
	Play
	Pause
	Watched
	Folder
	Movie
	Star
	Clock
	Fire
)

// iconDef encapsulates the visual representations of a single UI symbol across all supported variants.
type iconDef struct {
	emoji string
	nerd  string
	plain string
}

var icons = map[Icon]iconDef{
	Success:  {emoji: "✅", nerd: "", plain: "[ok]"},
	Fail:     {emoji: "❌", nerd: "", plain: "[x]"},
	Progress: {emoji: "⏳", nerd: "", plain: "..."},
	Play:     {emoji: "▶️", nerd: "", plain: ">"},
	Pause:    {emoji: "⏸️", nerd: "", plain: "||"},
	Watched:  {emoji: "👁️", nerd: "", plain: "*"},
	Folder:   {emoji: "📁", nerd: "", plain: "[d]"},
	Movie:    {emoji: "🎬", nerd: "", plain: "[f]"},
	Star:     {emoji: "⭐", nerd: "", plain: "+"},
	Clock:    {emoji: "🕒", nerd: "", plain: "(t)"},
	Fire:     {emoji: "🔥", nerd: "", plain: "#"},
}

// Get retrieves the visual representation for the specified icon based on the global icons variant configuration.
func (d *iconDef) Get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	default:
		return d.plain
	}
}

// Get returns the rendered string for a specified Icon identifier from the global registry.
func Get(i Icon) string {
	def := icons[i]
	return def.Get()
}
