package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type cachedUser struct {
	ID   int
	Name string
}

func TestCacheSetGet(t *testing.T) {
	cache := NewCache[*cachedUser](time.Minute, time.Minute)

	cache.Set(CacheKeyUserByID(1), &cachedUser{ID: 1, Name: "Ada"})

	u, ok := cache.Get("user:1")
	assert.True(t, ok)
	assert.Equal(t, "Ada", u.Name)

	u, ok = cache.Get("user:2")
	assert.False(t, ok)
	assert.Nil(t, u)
}

func TestCacheExpiration(t *testing.T) {
	cache := NewCache[string](0, 0)

	cache.Set("key", "value", time.Millisecond)
	time.Sleep(10 * time.Millisecond)

	_, ok := cache.Get("key")
	assert.False(t, ok)
}

func TestCacheDeleteAndFlush(t *testing.T) {
	cache := NewCache[string](0, 0)

	cache.Set("a", "1")
	cache.Set("b", "2")
	assert.Equal(t, 2, cache.Len())

	cache.Delete("a")
	_, ok := cache.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, cache.Len())

	cache.Flush()
	assert.Equal(t, 0, cache.Len())
}
