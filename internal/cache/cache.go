// Package cache stores per-file results on disk, keyed by path and
// validated against a hash of the file's contents.
package cache

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/zeebo/blake3"
)

// Cache is a directory of JSON entries. A disabled cache misses on every
// lookup and ignores writes.
type Cache struct {
	dir     string
	enabled bool
}

// Entry is the on-disk form of a cached result.
type Entry struct {
	Key       string    `json:"key"`
	Hash      string    `json:"hash"`
	Timestamp time.Time `json:"timestamp"`
	Data      []byte    `json:"data"`
}

// New creates a cache in dir. An empty dir disables the cache.
func New(dir string) (*Cache, error) {
	if dir == "" {
		return &Cache{}, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir, enabled: true}, nil
}

// Enabled reports whether lookups can hit.
func (c *Cache) Enabled() bool {
	return c != nil && c.enabled
}

// HashBytes computes a BLAKE3 hash of data as a hex string.
func HashBytes(data []byte) string {
	hash := blake3.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Get returns the data stored for key when it was stored with the same
// content hash.
func (c *Cache) Get(key, hash string) ([]byte, bool) {
	if !c.Enabled() {
		return nil, false
	}

	data, err := os.ReadFile(c.keyPath(key))
	if err != nil {
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}
	if entry.Key != key || entry.Hash != hash {
		return nil, false
	}
	return entry.Data, true
}

// Set stores data for key under the given content hash.
func (c *Cache) Set(key, hash string, data []byte) error {
	if !c.Enabled() {
		return nil
	}

	entryData, err := json.Marshal(Entry{
		Key:       key,
		Hash:      hash,
		Timestamp: time.Now(),
		Data:      data,
	})
	if err != nil {
		return err
	}

	// Entries are replaced through a rename so concurrent readers never see
	// a partial file.
	tmp, err := os.CreateTemp(c.dir, ".entry-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(entryData); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), c.keyPath(key))
}

// Invalidate removes the entry for key.
func (c *Cache) Invalidate(key string) error {
	if !c.Enabled() {
		return nil
	}
	err := os.Remove(c.keyPath(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Clear removes all cache entries.
func (c *Cache) Clear() error {
	if !c.Enabled() {
		return nil
	}
	return os.RemoveAll(c.dir)
}

// keyPath converts a key to a filesystem path.
func (c *Cache) keyPath(key string) string {
	return filepath.Join(c.dir, HashBytes([]byte(key))+".json")
}
