package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/bloominghealth/internal/intensity"
)

func key(route, query string) cacheKey {
	return cacheKey{route: route, query: query}
}

func TestResponseCache_GetPut(t *testing.T) {
	cache := NewResponseCache(10)
	require.NotNil(t, cache)

	_, ok := cache.Get(key("/api/zones", "year=2024"))
	assert.False(t, ok)

	cache.Put(key("/api/zones", "year=2024"), cachedView{body: []byte(`[]`), tiers: []intensity.Tier{intensity.High}})
	got, ok := cache.Get(key("/api/zones", "year=2024"))
	require.True(t, ok)
	assert.Equal(t, []byte(`[]`), got.body)
	assert.Equal(t, []intensity.Tier{intensity.High}, got.tiers)

	_, ok = cache.Get(key("/api/zones", "year=2023"))
	assert.False(t, ok)

	cache.Put(key("/api/zones", "year=2024"), cachedView{body: []byte(`[1]`)})
	got, _ = cache.Get(key("/api/zones", "year=2024"))
	assert.Equal(t, []byte(`[1]`), got.body)
	assert.Equal(t, 1, cache.Stats().Entries)
}

func TestKeyFor_NormalizesQueryOrder(t *testing.T) {
	a := keyFor(httptest.NewRequest(http.MethodGet, "/api/map/radial?step=90&selected=south", nil))
	b := keyFor(httptest.NewRequest(http.MethodGet, "/api/map/radial?selected=south&step=90", nil))
	assert.Equal(t, a, b)

	c := keyFor(httptest.NewRequest(http.MethodGet, "/api/map/anchors?selected=south&step=90", nil))
	assert.NotEqual(t, a, c)
}

func TestResponseCache_LRUEviction(t *testing.T) {
	cache := NewResponseCache(3)

	for _, k := range []string{"a", "b", "c"} {
		cache.Put(key(k, ""), cachedView{body: []byte(k)})
	}

	// "a" becomes the most recently used, so "b" is evicted next.
	cache.Get(key("a", ""))
	cache.Put(key("d", ""), cachedView{body: []byte("d")})

	for k, want := range map[string]bool{"a": true, "b": false, "c": true, "d": true} {
		_, ok := cache.Get(key(k, ""))
		assert.Equal(t, want, ok, k)
	}
}

func TestResponseCache_Stats(t *testing.T) {
	cache := NewResponseCache(5)

	cache.Put(key("a", ""), cachedView{body: []byte("1")})
	cache.Get(key("a", ""))
	cache.Get(key("a", ""))
	cache.Get(key("missing", ""))

	stats := cache.Stats()
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, 5, stats.MaxEntries)
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.InDelta(t, 2.0/3.0, stats.HitRate, 1e-9)
}

func TestResponseCache_Disabled(t *testing.T) {
	assert.Nil(t, NewResponseCache(0))
	assert.Nil(t, NewResponseCache(-1))
}

func TestResponseCache_ConcurrentAccess(t *testing.T) {
	cache := NewResponseCache(50)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 100 {
				k := key(fmt.Sprintf("k%d", (i*100+j)%80), "")
				cache.Put(k, cachedView{body: []byte(k.route)})
				cache.Get(k)
			}
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, cache.Stats().Entries, 50)
}
