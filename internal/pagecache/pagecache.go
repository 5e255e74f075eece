// Package pagecache keeps rendered pages and regenerates them once they
// are older than the revalidation interval.
package pagecache

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	// DefaultTTL is the revalidation interval.
	DefaultTTL = time.Hour
	// DefaultGenerateTimeout bounds one page generation.
	DefaultGenerateTimeout = 30 * time.Second
)

// Entry is a rendered page.
type Entry struct {
	Body        []byte
	ContentType string
	Status      int
	GeneratedAt time.Time
}

// GenerateFunc renders the page for a key.
type GenerateFunc func(ctx context.Context) (Entry, error)

type Cache struct {
	ttl     time.Duration
	timeout time.Duration
	logger  *log.Logger
	now    func() time.Time

	mu      sync.RWMutex
	entries map[string]Entry
	group   singleflight.Group
}

func New(ttl time.Duration, logger *log.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		ttl:     ttl,
		timeout: DefaultGenerateTimeout,
		logger:  logger,
		now:     time.Now,
		entries: make(map[string]Entry),
	}
}

// SetGenerateTimeout bounds each generation. Non-positive values keep the
// current timeout.
func (c *Cache) SetGenerateTimeout(d time.Duration) {
	if d > 0 {
		c.timeout = d
	}
}

// Get returns the cached page for key. A missing page is generated before
// returning. A stale page is regenerated by this caller. If that fails, the
// stale copy is returned and the error is only logged. Concurrent callers
// share one generation. The generation outlives the caller that started
// it, so a disconnecting client does not fail the others waiting on it.
func (c *Cache) Get(ctx context.Context, key string, generate GenerateFunc) (Entry, error) {
	c.mu.RLock()
	cached, ok := c.entries[key]
	c.mu.RUnlock()

	if ok && c.now().Sub(cached.GeneratedAt) < c.ttl {
		return cached, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// Another caller may have finished between our read and Do.
		c.mu.RLock()
		latest, found := c.entries[key]
		c.mu.RUnlock()
		if found && c.now().Sub(latest.GeneratedAt) < c.ttl {
			return latest, nil
		}

		genCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		entry, err := generate(genCtx)
		if err != nil {
			return nil, err
		}
		entry.GeneratedAt = c.now()
		c.mu.Lock()
		c.entries[key] = entry
		c.mu.Unlock()
		return entry, nil
	})
	if err != nil {
		if ok {
			c.logger.Printf("Revalidation of %s failed, serving page from %s: %v", key, cached.GeneratedAt.Format(time.RFC3339), err)
			return cached, nil
		}
		return Entry{}, err
	}
	return v.(Entry), nil
}

// Put stores an entry directly.
func (c *Cache) Put(key string, entry Entry) {
	if entry.GeneratedAt.IsZero() {
		entry.GeneratedAt = c.now()
	}
	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
}

// Purge drops the given keys so the next request regenerates them.
func (c *Cache) Purge(keys ...string) {
	c.mu.Lock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	c.mu.Unlock()
}

func (c *Cache) PurgeAll() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.entries)
	c.entries = make(map[string]Entry)
	return n
}

// Keys lists cached keys in sorted order.
func (c *Cache) Keys() []string {
	c.mu.RLock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	c.mu.RUnlock()
	sort.Strings(keys)
	return keys
}
