// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/cue-cli/cue/color"
	"github.com/cue-cli/cue/constant"
	"github.com/cue-cli/cue/key"
	"github.com/cue-cli/cue/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Cue + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

// typeName returns the string representation of the field's underlying value type.
func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	case []int:
		return "[]int"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	// register validates and adds a new configuration field to the global registry.
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		f := Field{Key: k, Value: v, Description: desc}
		Default[k] = f
		EnvExposed = append(EnvExposed, k)
	}

	register(key.LibraryPaths, []string{}, "Folders scanned for media items.\nEach immediate child (folder or media file) becomes a library item")
	register(key.LibraryProbeOnScan, true, "Probe duration and codecs with libmediainfo when scanning.\nDisable if scanning large libraries over slow storage")
	register(key.LibraryShowHidden, false, "Include dotfiles and hidden folders when scanning")

	register(key.Player, "mpv", "Media player backend to use.\nAvailable options are: mpv (stdout driver), celluloid (ipc driver)")
	register(key.PlayerExecutable, "", "Override the player binary path.\nEmpty means resolve the default binary for the selected player from PATH")
	register(key.PlayerPollInterval, 1, "Seconds between playback position polls while a player is running")
	register(key.PlayerCompletionPercentage, 95, "Percentage required to mark an episode as finished (1-100)")
	register(key.PlayerMinSessionSeconds, 5, "Sessions shorter than this are treated as accidental opens and not recorded")

	register(key.MetadataFetchTMDB, true, "Fetch metadata from TMDB\nIt will also cache the results to not spam the API")
	register(key.MetadataTMDBKey, "", "TMDB API key.\nMay also be supplied via the TMDB_API_KEY environment variable, a .env file or the system keyring")
	register(key.MetadataLanguage, "en-US", "Preferred language for TMDB metadata")

	register(key.SubtitlesLanguage, "en", "Preferred subtitle language (ISO 639-1 code)")
	register(key.SubtitlesAPIKey, "", "OpenSubtitles API key.\nMay also be stored in the system keyring via the auth command")

	register(key.HistorySaveOnWatch, true, "Persist playback progress and watch events after each session")
	register(key.HistoryMergeWindow, 5, "Sessions of the same item within this many minutes are merged into one watch event")

	register(key.StatsStreakDays, 365, "Number of days covered by the streak calendar")
	register(key.StatsMostWatched, 10, "Number of items to show in the most watched list")
	register(key.StatsHistoryLimit, 50, "Number of entries to show in the watch history timeline")
	register(key.StatsRecapDays, 7, "Days since last watch before the UI suggests a recap instead of a plain resume")

	register(key.SearchShowQuerySuggestions, true, "Show query suggestions when searching the library")

	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, plain, nerd (nerd-font required)")

	register(key.TUIItemSpacing, 1, "Spacing between items in the TUI")
	register(key.TUIPlayOnEnter, true, "Launch playback on enter from the library list")
	register(key.TUISearchPromptString, "> ", "Search prompt string to use")
	register(key.TUIShowPaths, true, "Show filesystem paths under list items")

	register(key.MiniSelectLimit, 20, "Limit of library entries to show in mini mode")

	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")

	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliVersionCheck, true, "Enable automatic version check")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
