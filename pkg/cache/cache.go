// Package cache stores fetched datasets, classification results and rendered
// legends behind a small byte-oriented interface.
//
// Three backends are provided: [FileCache] for the CLI, [RedisCache] for the
// API server and [NullCache] when caching is disabled. [Open] selects one
// from a URL-like string.
//
// Keys are built by a [Keyer] so that every entry type hashes its inputs the
// same way across backends:
//
//	k := cache.NewDefaultKeyer()
//	key := k.DatasetKey("eurostat", "demo_r_d3dens", map[string]string{"nutsLvl": "2"})
//	data, hit, err := c.Get(ctx, key)
package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/matzehuels/statmap/pkg/errors"
)

// Cache is a key/value store for serialized pipeline data.
type Cache interface {
	// Get returns the stored bytes and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default time-to-live per entry type.
const (
	DatasetTTL  = 24 * time.Hour
	ResultTTL   = 7 * 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
)

// DefaultDir returns the per-user cache directory, falling back to the
// temp directory when no home is configured.
func DefaultDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "statmap")
	}
	return filepath.Join(os.TempDir(), "statmap-cache")
}

// Open returns the backend named by spec:
//
//	""              file cache in DefaultDir
//	"none"          NullCache
//	"file:///path"  file cache rooted at /path (a bare path works too)
//	"redis://..."   RedisCache
func Open(spec string) (Cache, error) {
	switch {
	case spec == "":
		return NewFileCache(DefaultDir())
	case spec == "none" || spec == "off":
		return NewNullCache(), nil
	case strings.HasPrefix(spec, "redis://"), strings.HasPrefix(spec, "rediss://"):
		return NewRedisCache(spec)
	case strings.HasPrefix(spec, "file://"):
		return NewFileCache(strings.TrimPrefix(spec, "file://"))
	case strings.Contains(spec, "://"):
		return nil, errors.New(errors.ErrCodeInvalidInput, "unsupported cache backend %q", spec)
	default:
		return NewFileCache(spec)
	}
}
