// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Cue is the canonical application identifier used for filesystem paths and CLI branding.
	Cue = "cue"

	// Version is the current application semantic version string.
	Version = "0.1.0"

	// UserAgent is the default HTTP User-Agent string used for network requests to external services.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Build metadata, injected at link time via -ldflags.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)

// AsciiArtLogo is the application's ASCII art banner.
const AsciiArtLogo = `
   ______  __  ____
  / ____/ / / / / _ \
 / /     / / / /  __/
/ /___  / /_/ / /___
\____/  \____/\____/
`
