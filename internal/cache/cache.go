// Package cache provides maintenance for the localized filesystem cache directories.
package cache

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cue-cli/cue/filesystem"
	"github.com/cue-cli/cue/log"
	"github.com/cue-cli/cue/where"
)

// TTL is the maximum age of an untouched cache file before it is swept.
const TTL = 30 * 24 * time.Hour

// CollectGarbage removes cache files that have not been touched within the TTL.
// Bound caches (search results, id lookups) carry their own lifetimes; this
// sweep only reclaims files abandoned by older versions or aborted runs.
func CollectGarbage() {
	fs := filesystem.API()

	entries, err := fs.ReadDir(where.Cache())
	if err != nil {
		return
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		// The query suggestion registry has no lifetime of its own.
		if entry.Name() == filepath.Base(where.Queries()) {
			continue
		}

		if time.Since(entry.ModTime()) <= TTL {
			continue
		}

		path := filepath.Join(where.Cache(), entry.Name())
		if err := fs.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Warnf("cache sweep: %v", err)
		}
	}
}
