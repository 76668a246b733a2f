package mediacache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

const lockFileName = ".cache.lock"

// Cache is a content-addressed on-disk store for prefetched media. Entries
// are keyed by the digest of their source URL, so repeated prefetches of the
// same asset are free.
type Cache struct {
	dir  string
	lock *flock.Flock
}

// Open prepares the cache directory and its advisory lock.
func Open(dir string) (*Cache, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("cache directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory %q: %w", dir, err)
	}
	return &Cache{
		dir:  dir,
		lock: flock.New(filepath.Join(dir, lockFileName)),
	}, nil
}

// Dir returns the cache root.
func (c *Cache) Dir() string {
	return c.dir
}

// Path returns the on-disk location an entry for sourceURL would occupy,
// whether or not it exists yet. The original extension is preserved so media
// players can sniff the container format.
func (c *Cache) Path(sourceURL string) string {
	digest := sha256.Sum256([]byte(sourceURL))
	name := hex.EncodeToString(digest[:])
	if ext := urlExtension(sourceURL); ext != "" {
		name += ext
	}
	return filepath.Join(c.dir, name)
}

// Has reports whether sourceURL is already warm in the cache.
func (c *Cache) Has(sourceURL string) bool {
	info, err := os.Stat(c.Path(sourceURL))
	return err == nil && !info.IsDir() && info.Size() > 0
}

// Store writes an entry atomically: the payload lands in a temp file and is
// renamed into place, so a partially-written asset is never visible at the
// final path. Writes across processes are serialized by the cache lock.
func (c *Cache) Store(sourceURL string, payload io.Reader) (int64, error) {
	if err := c.lock.Lock(); err != nil {
		return 0, fmt.Errorf("acquire cache lock: %w", err)
	}
	defer c.lock.Unlock()

	tmp, err := os.CreateTemp(c.dir, ".partial-*")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	written, err := io.Copy(tmp, payload)
	closeErr := tmp.Close()
	if err != nil {
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("write cache entry: %w", err)
	}
	if closeErr != nil {
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("close cache entry: %w", closeErr)
	}

	if err := os.Rename(tmpPath, c.Path(sourceURL)); err != nil {
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("finalize cache entry: %w", err)
	}
	return written, nil
}

// Stats describes cache occupancy.
type Stats struct {
	Entries    int
	TotalBytes int64
}

// Stats walks the cache directory and sums entry sizes.
func (c *Cache) Stats() (Stats, error) {
	entries, err := c.entries()
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{Entries: len(entries)}
	for _, entry := range entries {
		stats.TotalBytes += entry.size
	}
	return stats, nil
}

// Prune removes the oldest entries until total size fits under maxBytes.
func (c *Cache) Prune(maxBytes int64) (int, int64, error) {
	if err := c.lock.Lock(); err != nil {
		return 0, 0, fmt.Errorf("acquire cache lock: %w", err)
	}
	defer c.lock.Unlock()

	entries, err := c.entries()
	if err != nil {
		return 0, 0, err
	}
	var total int64
	for _, entry := range entries {
		total += entry.size
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].modTime.Before(entries[j].modTime) })

	var removed int
	var freed int64
	for _, entry := range entries {
		if total <= maxBytes {
			break
		}
		if err := os.Remove(entry.path); err != nil {
			return removed, freed, fmt.Errorf("remove cache entry: %w", err)
		}
		total -= entry.size
		freed += entry.size
		removed++
	}
	return removed, freed, nil
}

// Clear removes every entry.
func (c *Cache) Clear() (int, error) {
	if err := c.lock.Lock(); err != nil {
		return 0, fmt.Errorf("acquire cache lock: %w", err)
	}
	defer c.lock.Unlock()

	entries, err := c.entries()
	if err != nil {
		return 0, err
	}
	for _, entry := range entries {
		if err := os.Remove(entry.path); err != nil {
			return 0, fmt.Errorf("remove cache entry: %w", err)
		}
	}
	return len(entries), nil
}

type cacheEntry struct {
	path    string
	size    int64
	modTime time.Time
}

func (c *Cache) entries() ([]cacheEntry, error) {
	dirEntries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("read cache directory: %w", err)
	}
	entries := make([]cacheEntry, 0, len(dirEntries))
	for _, dirEntry := range dirEntries {
		name := dirEntry.Name()
		if dirEntry.IsDir() || name == lockFileName || strings.HasPrefix(name, ".partial-") {
			continue
		}
		info, err := dirEntry.Info()
		if err != nil {
			continue
		}
		entries = append(entries, cacheEntry{
			path:    filepath.Join(c.dir, name),
			size:    info.Size(),
			modTime: info.ModTime(),
		})
	}
	return entries, nil
}

func urlExtension(sourceURL string) string {
	parsed, err := url.Parse(sourceURL)
	if err != nil {
		return ""
	}
	ext := filepath.Ext(parsed.Path)
	if len(ext) > 8 {
		return ""
	}
	return ext
}
