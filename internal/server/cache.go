package server

import (
	"net/http"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/sells-group/bloominghealth/internal/intensity"
)

// cacheKey identifies one rendered view. The query is re-encoded in sorted
// order so requests that differ only in parameter order share an entry.
type cacheKey struct {
	route string
	query string
}

func keyFor(r *http.Request) cacheKey {
	return cacheKey{route: r.URL.Path, query: r.URL.Query().Encode()}
}

// cachedView is an encoded response and the tiers classified to build it.
type cachedView struct {
	body  []byte
	tiers []intensity.Tier
}

// ResponseCache holds encoded views, evicting the least recently used entry
// once full. Zone data never changes after load, so entries do not expire.
type ResponseCache struct {
	views      *lru.Cache[cacheKey, cachedView]
	maxEntries int
	hits       atomic.Int64
	misses     atomic.Int64
}

// CacheStats contains cache performance statistics.
type CacheStats struct {
	Entries    int     `json:"entries"`
	MaxEntries int     `json:"max_entries"`
	Hits       int64   `json:"hits"`
	Misses     int64   `json:"misses"`
	HitRate    float64 `json:"hit_rate"`
}

// NewResponseCache creates a cache holding up to maxEntries views. A
// non-positive size returns nil, which disables caching.
func NewResponseCache(maxEntries int) *ResponseCache {
	if maxEntries <= 0 {
		return nil
	}
	views, err := lru.New[cacheKey, cachedView](maxEntries)
	if err != nil {
		return nil
	}
	return &ResponseCache{views: views, maxEntries: maxEntries}
}

// Get returns the cached view for key.
func (c *ResponseCache) Get(key cacheKey) (cachedView, bool) {
	v, ok := c.views.Get(key)
	if !ok {
		c.misses.Add(1)
		return cachedView{}, false
	}
	c.hits.Add(1)
	return v, true
}

// Put stores a view, replacing any entry under the same key.
func (c *ResponseCache) Put(key cacheKey, v cachedView) {
	c.views.Add(key, v)
}

// Stats returns cache performance statistics.
func (c *ResponseCache) Stats() CacheStats {
	hits := c.hits.Load()
	misses := c.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return CacheStats{
		Entries:    c.views.Len(),
		MaxEntries: c.maxEntries,
		Hits:       hits,
		Misses:     misses,
		HitRate:    hitRate,
	}
}
