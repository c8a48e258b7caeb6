// Package store provides the track detail cache: an expiring LRU of
// resolved details plus a Bloom-filtered set of song IDs known to be
// missing from the catalog.
package store

import (
	"strconv"
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
	lru "github.com/hashicorp/golang-lru/v2"

	"cloudjuke/internal/core"
)

// missingFalsePositiveRate is the Bloom filter error rate for the
// known-missing set. False positives never fabricate a miss because the
// exact map is consulted after the filter.
const missingFalsePositiveRate = 0.01

type cachedDetail struct {
	detail    core.SongDetail
	fetchedAt time.Time
}

// Cache is a thread-safe track detail cache.
type Cache struct {
	details      *lru.Cache[int64, cachedDetail]
	missing      map[int64]struct{}
	missingBloom *bloom.BloomFilter
	missingLRU   *lru.Cache[int64, struct{}]
	mutex        sync.RWMutex
	maxEntries   int
	ttl          time.Duration
	now          func() time.Time
}

// NewCache creates a cache holding up to maxEntries details and as many
// known-missing IDs. Entries older than ttl are dropped on read; a ttl of
// zero disables expiry.
func NewCache(maxEntries int, ttl time.Duration) *Cache {
	if maxEntries < 1 {
		maxEntries = 1
	}

	detailCache, _ := lru.New[int64, cachedDetail](maxEntries)
	missingCache, _ := lru.New[int64, struct{}](maxEntries)

	return &Cache{
		details:      detailCache,
		missing:      make(map[int64]struct{}),
		missingBloom: bloom.NewWithEstimates(uint(maxEntries), missingFalsePositiveRate),
		missingLRU:   missingCache,
		maxEntries:   maxEntries,
		ttl:          ttl,
		now:          time.Now,
	}
}

// Get returns a copy of the cached detail for a song ID.
func (c *Cache) Get(songID int64) (*core.SongDetail, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, ok := c.details.Get(songID)
	if !ok {
		return nil, false
	}

	if c.ttl > 0 && c.now().Sub(entry.fetchedAt) > c.ttl {
		c.details.Remove(songID)
		return nil, false
	}

	detail := entry.detail
	return &detail, true
}

// Put stores a resolved detail and clears any missing mark for the ID.
func (c *Cache) Put(songID int64, detail *core.SongDetail) {
	if detail == nil {
		return
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.details.Add(songID, cachedDetail{detail: *detail, fetchedAt: c.now()})

	if _, exists := c.missing[songID]; exists {
		delete(c.missing, songID)
		c.missingLRU.Remove(songID)
		// The bloom filter cannot forget the ID; the map stays authoritative.
	}
}

// MarkMissing records that the catalog has no song with this ID.
func (c *Cache) MarkMissing(songID int64) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.details.Remove(songID)

	if _, exists := c.missing[songID]; exists {
		return
	}

	c.missing[songID] = struct{}{}
	c.missingBloom.AddString(missingKey(songID))
	c.missingLRU.Add(songID, struct{}{})

	if len(c.missing) > c.maxEntries {
		c.evictOldestMissing()
	}
}

// IsMissing checks whether the ID was previously marked missing.
func (c *Cache) IsMissing(songID int64) bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if !c.missingBloom.TestString(missingKey(songID)) {
		return false
	}

	_, exists := c.missing[songID]
	return exists
}

// Len returns the number of cached details.
func (c *Cache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.details.Len()
}

// Purge drops all cached details and missing marks.
func (c *Cache) Purge() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.details.Purge()
	c.missing = make(map[int64]struct{})
	c.missingBloom = bloom.NewWithEstimates(uint(c.maxEntries), missingFalsePositiveRate)
	c.missingLRU.Purge()
}

func (c *Cache) evictOldestMissing() {
	oldestID, _, ok := c.missingLRU.GetOldest()
	if !ok {
		return
	}

	delete(c.missing, oldestID)
	c.missingLRU.Remove(oldestID)
}

func missingKey(songID int64) string {
	return strconv.FormatInt(songID, 10)
}
