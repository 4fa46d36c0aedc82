package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/okarpov/turncoat/internal/model"
)

// cacheFileName is the on-disk blob holding every entry
const cacheFileName = "results.json"

type cacheFile struct {
	SchemaVersion string            `json:"schema_version"`
	Entries       map[string]Record `json:"entries"`
}

// ResultCache persists completed analyses keyed by (subject, content
// fingerprint). A memory layer fronts the disk blob so repeated lookups in
// one process skip deserialization. Safe for concurrent use.
type ResultCache struct {
	mu         sync.Mutex
	memory     *gocache.Cache
	dir        string
	ttl        time.Duration
	maxEntries int
	entries    map[string]Record
	hits       int
	misses     int
}

// NewResultCache creates a result cache rooted at dir, loading any
// persisted entries. A schema mismatch discards the entire store.
func NewResultCache(dir string, ttl time.Duration, maxEntries int) (*ResultCache, error) {
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	if maxEntries <= 0 {
		maxEntries = 200
	}

	c := &ResultCache{
		memory:     gocache.New(ttl, 10*time.Minute),
		dir:        dir,
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]Record),
	}
	if err := c.load(); err != nil {
		return nil, err
	}
	return c, nil
}

// Get returns the cached report for (subject, fingerprint), purging stale
// or schema-mismatched entries as a side effect
func (c *ResultCache) Get(subject, fingerprint string) (*model.Report, bool) {
	key := Key(subject, fingerprint)

	if val, found := c.memory.Get(key); found {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
		return val.(*model.Report), true
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	if rec.SchemaVersion != SchemaVersion || time.Now().After(rec.ExpiresAt) {
		delete(c.entries, key)
		c.persistLocked()
		c.misses++
		return nil, false
	}

	c.hits++
	c.memory.Set(key, rec.Payload, gocache.DefaultExpiration)
	return rec.Payload, true
}

// Set stores a completed report, evicting oldest entries past the cap
func (c *ResultCache) Set(subject, fingerprint string, report *model.Report) error {
	key := Key(subject, fingerprint)
	now := time.Now().UTC()
	rec := Record{
		Key:           key,
		Payload:       report,
		CreatedAt:     now,
		ExpiresAt:     now.Add(c.ttl),
		SchemaVersion: SchemaVersion,
	}

	c.memory.Set(key, report, gocache.DefaultExpiration)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = rec
	c.evictLocked()
	return c.persistLocked()
}

// Delete removes every entry for a subject regardless of fingerprint
func (c *ResultCache) Delete(subject string) error {
	prefix := Key(subject, "")

	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(c.entries, key)
			c.memory.Delete(key)
		}
	}
	return c.persistLocked()
}

// Clear removes all entries
func (c *ResultCache) Clear() error {
	c.memory.Flush()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]Record)
	return c.persistLocked()
}

// Stats returns entry counts and the session hit rate
func (c *ResultCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	rate := 0.0
	if total > 0 {
		rate = float64(c.hits) / float64(total)
	}
	return Stats{
		Entries: len(c.entries),
		Hits:    c.hits,
		Misses:  c.misses,
		HitRate: rate,
	}
}

// evictLocked drops oldest-first entries until the count fits the cap
func (c *ResultCache) evictLocked() {
	if len(c.entries) <= c.maxEntries {
		return
	}

	type aged struct {
		key     string
		created time.Time
	}
	all := make([]aged, 0, len(c.entries))
	for key, rec := range c.entries {
		all = append(all, aged{key: key, created: rec.CreatedAt})
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].created.Before(all[j].created)
	})

	for _, a := range all[:len(c.entries)-c.maxEntries] {
		delete(c.entries, a.key)
		c.memory.Delete(a.key)
	}
}

func (c *ResultCache) path() string {
	return filepath.Join(c.dir, cacheFileName)
}

// persistLocked writes the whole store as one versioned JSON blob. Cache
// loss is a performance problem, not a correctness one, so callers may
// ignore the error.
func (c *ResultCache) persistLocked() error {
	if c.dir == "" {
		return nil
	}

	blob := cacheFile{
		SchemaVersion: SchemaVersion,
		Entries:       c.entries,
	}
	data, err := json.Marshal(blob)
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	if err := os.WriteFile(c.path(), data, 0644); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	return nil
}

func (c *ResultCache) load() error {
	if c.dir == "" {
		return nil
	}

	data, err := os.ReadFile(c.path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read cache: %w", err)
	}

	var blob cacheFile
	if err := json.Unmarshal(data, &blob); err != nil {
		// Corrupt store: discard rather than fail the run
		_ = os.Remove(c.path())
		return nil
	}
	if blob.SchemaVersion != SchemaVersion {
		_ = os.Remove(c.path())
		return nil
	}

	now := time.Now()
	for key, rec := range blob.Entries {
		if now.After(rec.ExpiresAt) {
			continue
		}
		c.entries[key] = rec
	}
	return nil
}
