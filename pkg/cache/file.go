package cache

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileCache keeps one JSON file per entry under a root directory. Entries are
// spread over 256 subdirectories by the first byte of the key hash.
type FileCache struct {
	dir string
}

// NewFileCache creates dir if needed and returns a cache rooted there.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

type fileEntry struct {
	Key       string    `json:"key"`
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

func (e fileEntry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// Dir returns the cache root.
func (c *FileCache) Dir() string { return c.dir }

func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var e fileEntry
	if err := json.Unmarshal(raw, &e); err != nil || e.expired(time.Now()) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return e.Data, true, nil
}

func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	e := fileEntry{Key: key, Data: data}
	if ttl > 0 {
		e.ExpiresAt = time.Now().Add(ttl)
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (c *FileCache) Close() error { return nil }

// Stats summarizes the entries on disk.
type Stats struct {
	Entries int
	Expired int
	Bytes   int64
	ByType  map[string]int
}

// Stats walks the cache directory. Unreadable entries count as expired.
func (c *FileCache) Stats() (Stats, error) {
	s := Stats{ByType: map[string]int{}}
	now := time.Now()
	err := c.walk(func(path string, info fs.FileInfo) error {
		s.Entries++
		s.Bytes += info.Size()
		e, ok := readEntry(path)
		if !ok || e.expired(now) {
			s.Expired++
			return nil
		}
		s.ByType[KeyType(e.Key)]++
		return nil
	})
	return s, err
}

// Prune removes expired and unreadable entries and returns how many it
// removed.
func (c *FileCache) Prune() (int, error) {
	n := 0
	now := time.Now()
	err := c.walk(func(path string, _ fs.FileInfo) error {
		if e, ok := readEntry(path); ok && !e.expired(now) {
			return nil
		}
		if err := os.Remove(path); err != nil {
			return err
		}
		n++
		return nil
	})
	return n, err
}

// Clear removes every entry and recreates the empty root.
func (c *FileCache) Clear() error {
	if err := os.RemoveAll(c.dir); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

func (c *FileCache) walk(fn func(path string, info fs.FileInfo) error) error {
	return filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		return fn(path, info)
	})
}

func readEntry(path string) (fileEntry, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fileEntry{}, false
	}
	var e fileEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return fileEntry{}, false
	}
	return e, true
}

func (c *FileCache) path(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(c.dir, h[:2], h[2:]+".json")
}

var _ Cache = (*FileCache)(nil)
