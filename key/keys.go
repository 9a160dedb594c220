// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Library Management - these keys govern the discovery and registration of local media.
const (
	LibraryPaths       = "library.paths"
	LibraryProbeOnScan = "library.probe_on_scan"
	LibraryShowHidden  = "library.show_hidden"
)

// Media Playback - these keys maintain the state and configuration for external video players.
const (
	Player                     = "player.default"
	PlayerExecutable           = "player.executable"
	PlayerPollInterval         = "player.poll_interval"
	PlayerCompletionPercentage = "player.completion_percentage"
	PlayerMinSessionSeconds    = "player.min_session_seconds"
)

// Metadata Configuration - these keys govern the retrieval and processing of media metadata.
const (
	MetadataFetchTMDB = "metadata.fetch_tmdb"
	MetadataTMDBKey   = "metadata.tmdb_api_key"
	MetadataLanguage  = "metadata.language"
)

// Subtitles - these keys configure subtitle search and download.
const (
	SubtitlesLanguage = "subtitles.language"
	SubtitlesAPIKey   = "subtitles.opensubtitles_api_key"
)

// History Tracking - these keys configure the persistence of media consumption state.
const (
	HistorySaveOnWatch = "history.save_on_watch"
	HistoryMergeWindow = "history.merge_window_minutes"
)

// Statistics - these keys shape the derived watch-time dashboard.
const (
	StatsStreakDays   = "stats.streak_days"
	StatsMostWatched  = "stats.most_watched_limit"
	StatsHistoryLimit = "stats.history_limit"
	StatsRecapDays    = "stats.recap_days"
)

// Search Interaction - these keys define the UI/UX parameters for library discovery.
const (
	SearchShowQuerySuggestions = "search.show_query_suggestions"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Terminal User Interface (TUI) - these keys define the primary interactive environment's styling and logic.
const (
	TUIItemSpacing        = "tui.item_spacing"
	TUIPlayOnEnter        = "tui.play_on_enter"
	TUISearchPromptString = "tui.search_prompt"
	TUIShowPaths          = "tui.show_paths"
)

// Minimalist (Mini) Mode - these keys configure the specialized lightweight prompt interface.
const (
	MiniSelectLimit = "mini.select_limit"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
