// Package filesystem provides a virtualized abstraction layer for all filesystem operations.
//
// Everything that touches disk — library scanning, subtitle downloads, the
// query history, cache maintenance — goes through the afero backend exposed
// here, so tests swap in an in-memory filesystem with a single call.
package filesystem

import "github.com/spf13/afero"

var backend = afero.Afero{Fs: afero.NewOsFs()}

// API returns the active afero.Afero instance for filesystem interaction.
func API() afero.Afero {
	return backend
}

// SetOsFs restores the filesystem backend to the native operating system implementation.
func SetOsFs() {
	backend = afero.Afero{Fs: afero.NewOsFs()}
}

// SetMemMapFs switches to a volatile in-memory backend. Test packages call
// this from init so scanning and download code never touches the real disk.
func SetMemMapFs() {
	backend = afero.Afero{Fs: afero.NewMemMapFs()}
}
