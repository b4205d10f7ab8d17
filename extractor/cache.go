package extractor

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/zeebo/xxh3"
)

// cacheEntry is one gob-encoded cache record with the metadata used for
// invalidation.
type cacheEntry struct {
	Extraction *Extraction
	Timestamp  time.Time
	FileSize   int64
	ModTime    time.Time
}

// Cache stores extraction results per source file, invalidated when the
// file's size or modification time changes.
type Cache struct {
	dir   string
	mutex sync.RWMutex

	statsMutex sync.Mutex
	hits       int64
	misses     int64
}

// NewCache creates the cache directory if needed. An empty dir defaults to
// ".index-cache" under the current working directory.
func NewCache(dir string) (*Cache, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current working directory: %w", err)
		}
		dir = filepath.Join(cwd, ".index-cache")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{dir: dir}, nil
}

// cacheKey derives a stable cache file name for a source path.
func (c *Cache) cacheKey(filePath string) string {
	return fmt.Sprintf("%016x.cache", xxh3.HashString(filePath))
}

func (c *Cache) cachePath(key string) string {
	return filepath.Join(c.dir, key)
}

// Get returns the cached extraction for a file if it is still valid.
func (c *Cache) Get(filePath string) (*Extraction, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	cachePath := c.cachePath(c.cacheKey(filePath))
	data, err := os.ReadFile(cachePath)
	if err != nil {
		c.recordMiss()
		return nil, false
	}

	var entry cacheEntry
	decoder := gob.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&entry); err != nil {
		os.Remove(cachePath)
		c.recordMiss()
		return nil, false
	}

	fileInfo, err := os.Stat(filePath)
	if err != nil || !fileInfo.ModTime().Equal(entry.ModTime) || fileInfo.Size() != entry.FileSize {
		os.Remove(cachePath)
		c.recordMiss()
		return nil, false
	}

	c.recordHit()
	return entry.Extraction, true
}

// Set stores an extraction result along with the source file's metadata.
func (c *Cache) Set(filePath string, extraction *Extraction) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("failed to get file info: %w", err)
	}

	entry := cacheEntry{
		Extraction: extraction,
		Timestamp:  time.Now(),
		FileSize:   fileInfo.Size(),
		ModTime:    fileInfo.ModTime(),
	}

	var buffer bytes.Buffer
	if err := gob.NewEncoder(&buffer).Encode(entry); err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	cachePath := c.cachePath(c.cacheKey(filePath))
	if err := os.WriteFile(cachePath, buffer.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}

// Clear removes every cache entry.
func (c *Cache) Clear() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("failed to read cache directory: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			os.Remove(filepath.Join(c.dir, entry.Name()))
		}
	}
	return nil
}

// Stats returns hit and miss counters for this process.
func (c *Cache) Stats() (hits, misses int64) {
	c.statsMutex.Lock()
	defer c.statsMutex.Unlock()
	return c.hits, c.misses
}

func (c *Cache) recordHit() {
	c.statsMutex.Lock()
	c.hits++
	c.statsMutex.Unlock()
}

func (c *Cache) recordMiss() {
	c.statsMutex.Lock()
	c.misses++
	c.statsMutex.Unlock()
}
