package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageCache(t *testing.T) {
	cache := NewPageCache(16)

	t.Run("SetGet", func(t *testing.T) {
		cache.Set("k", "v", time.Minute)
		assert.Equal(t, "v", cache.Get("k"))
	})

	t.Run("MissingKey", func(t *testing.T) {
		assert.Nil(t, cache.Get("nope"))
	})

	t.Run("Expiry", func(t *testing.T) {
		cache.Set("short", "v", 10*time.Millisecond)
		time.Sleep(20 * time.Millisecond)
		assert.Nil(t, cache.Get("short"))
	})

	t.Run("Delete", func(t *testing.T) {
		cache.Set("gone", "v", time.Minute)
		cache.Delete("gone")
		assert.Nil(t, cache.Get("gone"))
	})

	t.Run("Clear", func(t *testing.T) {
		cache.Set("a", 1, time.Minute)
		cache.Set("b", 2, time.Minute)
		cache.Clear()
		assert.Nil(t, cache.Get("a"))
		assert.Nil(t, cache.Get("b"))
	})
}

// TestPageCacheStaleness pins the home-feed tradeoff: within the TTL a
// reader keeps seeing the cached payload even after the underlying data
// changed; an explicit clear forces the next read to recompute.
func TestPageCacheStaleness(t *testing.T) {
	cache := NewPageCache(16)

	data := []string{"first post"}
	readPage := func() []string {
		if cached := cache.Get("index:1"); cached != nil {
			return cached.([]string)
		}
		page := append([]string(nil), data...)
		cache.Set("index:1", page, time.Minute)
		return page
	}

	before := readPage()
	require.Equal(t, []string{"first post"}, before)

	// A new post lands while the page is cached.
	data = append([]string{"second post"}, data...)

	stale := readPage()
	assert.Equal(t, before, stale, "pre-clear read must be identical to the cached page")

	cache.Clear()

	fresh := readPage()
	assert.Equal(t, "second post", fresh[0])
}
