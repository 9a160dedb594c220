package metadata

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/cue-cli/cue/filesystem"
	"github.com/cue-cli/cue/where"
	"github.com/metafates/gache"
	"github.com/samber/mo"
)

// cacheData defines the structured format for persisting cached TMDB records to disk.
type cacheData[K comparable, T any] struct {
	Records map[K]T `json:"records"`
}

// cacher provides a generic, thread-safe wrapper for high-level caching operations.
type cacher[K comparable, T any] struct {
	internal   *gache.Cache[*cacheData[K, T]]
	keyWrapper func(K) K
	mu         sync.RWMutex
}

// Get retrieves a value from the cache associated with the specified key.
func (c *cacher[K, T]) Get(key K) mo.Option[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, expired, err := c.internal.Get()
	if err != nil || expired || data == nil {
		return mo.None[T]()
	}

	record, ok := data.Records[c.keyWrapper(key)]
	if ok {
		return mo.Some(record)
	}

	return mo.None[T]()
}

// Set persists a key-value pair to the cache.
func (c *cacher[K, T]) Set(key K, t T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, expired, err := c.internal.Get()
	if err != nil {
		return err
	}

	if !expired && data != nil {
		data.Records[c.keyWrapper(key)] = t
		return c.internal.Set(data)
	}

	internal := &cacheData[K, T]{Records: make(map[K]T)}
	internal.Records[c.keyWrapper(key)] = t
	return c.internal.Set(internal)
}

// Delete removes the entry associated with the specified key from the cache.
func (c *cacher[K, T]) Delete(key K) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, expired, err := c.internal.Get()
	if err != nil {
		return err
	}

	if !expired && data != nil {
		delete(data.Records, c.keyWrapper(key))
		return c.internal.Set(data)
	}

	return nil
}

// relationCacher persists title-to-record-reference mappings. A reference is
// the "kind:id" form produced by recordRef, since movie and TV ids share a
// number space on TMDB. It has no lifetime: a confirmed relation stays until
// the user clears it.
var relationCacher = &cacher[string, string]{
	internal: gache.New[*cacheData[string, string]](
		&gache.Options{
			Path:       where.TMDBBinds(),
			FileSystem: &filesystem.GacheFs{},
		},
	),
	keyWrapper: normalizedName,
}

// searchCacher persists search result pages for optimized lookup.
var searchCacher = &cacher[string, []string]{
	internal: gache.New[*cacheData[string, []string]](
		&gache.Options{
			Path:       filepath.Join(where.Cache(), "tmdb_search_cache.json"),
			Lifetime:   time.Hour * 24 * 10,
			FileSystem: &filesystem.GacheFs{},
		},
	),
	keyWrapper: normalizedName,
}

// idCacher provides local persistence for full TMDB record lookups, keyed by
// record reference.
var idCacher = &cacher[string, *Record]{
	internal: gache.New[*cacheData[string, *Record]](
		&gache.Options{
			Path:       filepath.Join(where.Cache(), "tmdb_id_cache.json"),
			Lifetime:   time.Hour * 24 * 2,
			FileSystem: &filesystem.GacheFs{},
		},
	),
	keyWrapper: func(ref string) string { return ref },
}

// failCacher serves as short-term persistence for failed search queries to mitigate redundant API pressure.
var failCacher = &cacher[string, bool]{
	internal: gache.New[*cacheData[string, bool]](
		&gache.Options{
			Path:       filepath.Join(where.Cache(), "tmdb_fail_cache.json"),
			Lifetime:   time.Minute,
			FileSystem: &filesystem.GacheFs{},
		},
	),
	keyWrapper: normalizedName,
}
