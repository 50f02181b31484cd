package engine

import (
	"hash/fnv"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// ============================================================================
// AGGREGATION CACHE — Memoized KPI Values
// ============================================================================
// The cache is the engine's only mutable state. The key carries, besides
// operator and column, a content fingerprint of the row set: two filtered
// subsets of equal length but different content must never share an entry.
//
// Locking discipline: every map access goes through mu. Entries live until
// Clear(), which an external owner (Janitor ticker, session teardown)
// invokes — the cache never schedules its own eviction.
// ============================================================================

// cacheKey identifies one memoized aggregation.
type cacheKey struct {
	Calculation Calculation
	Column      string
	RowCount    int
	Fingerprint uint64
}

// cacheEntry holds the memoized value. Name and format are caller-supplied
// presentation fields and deliberately not part of the entry: two KPIs may
// legitimately share a cached value under different names and formats, so
// display strings are re-rendered per call.
type cacheEntry struct {
	Value       float64
	Calculation Calculation
	Column      string
}

// Cache is a concurrency-safe memo for aggregation results.
type Cache struct {
	mu      sync.RWMutex
	entries map[cacheKey]cacheEntry
}

// NewCache creates an empty aggregation cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[cacheKey]cacheEntry)}
}

func (c *Cache) get(key cacheKey) (cacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e, ok
}

func (c *Cache) put(key cacheKey, e cacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = e
}

// Clear drops every entry. Full invalidation only — there is no per-entry
// eviction.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]cacheEntry)
}

// Len returns the number of memoized entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// fingerprintSample bounds fingerprint cost on large row sets.
const fingerprintSample = 64

// fingerprint hashes the row count plus up to fingerprintSample evenly
// spaced cell values of the aggregated column. FNV-1a over stringified
// cells — cheap, deterministic, and sensitive to content, which is what
// keys equal-length subsets apart.
func fingerprint(rows Dataset, column string) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	n := len(rows)
	putUint64(&buf, uint64(n))
	h.Write(buf[:])

	stride := 1
	if n > fingerprintSample {
		stride = n / fingerprintSample
	}
	for i := 0; i < n; i += stride {
		if column == CountAllColumn {
			// Row identity for count(*): hash the index only
			putUint64(&buf, uint64(i))
			h.Write(buf[:])
			continue
		}
		h.Write([]byte(StringValue(rows[i][column])))
		h.Write([]byte{0})
	}
	return h.Sum64()
}

func putUint64(buf *[8]byte, v uint64) {
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
}

// ============================================================================
// JANITOR — Periodic Cache Sweep
// ============================================================================
// Ownership boundary: the pure aggregation functions never own a timer.
// Whoever runs the process (server, CLI) starts a Janitor and stops it on
// shutdown.
// ============================================================================

// Janitor periodically clears an aggregation cache.
type Janitor struct {
	cache    *Cache
	interval time.Duration
	done     chan struct{}
	once     sync.Once
}

// NewJanitor creates a stopped janitor sweeping cache every interval.
func NewJanitor(cache *Cache, interval time.Duration) *Janitor {
	return &Janitor{
		cache:    cache,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop. Call Stop to end it.
func (j *Janitor) Start() {
	go func() {
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				n := j.cache.Len()
				j.cache.Clear()
				log.Debugf("cache sweep: dropped %d entries", n)
			case <-j.done:
				return
			}
		}
	}()
}

// Stop ends the sweep loop. Safe to call more than once.
func (j *Janitor) Stop() {
	j.once.Do(func() { close(j.done) })
}
