package common

import (
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
)

// Cache is an in-process, expiring cache of values of type V.
type Cache[V any] struct {
	c *cache.Cache
}

func NewCache[V any](expirationTime, cleanupTime time.Duration) *Cache[V] {
	return &Cache[V]{c: cache.New(expirationTime, cleanupTime)}
}

// Set stores value under key with the default expiration, or with the given one.
func (c *Cache[V]) Set(key string, value V, expiration ...time.Duration) {
	if len(expiration) > 0 {
		c.c.Set(key, value, expiration[0])
		return
	}
	c.c.Set(key, value, cache.DefaultExpiration)
}

func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V

	v, ok := c.c.Get(key)
	if !ok {
		return zero, false
	}

	value, ok := v.(V)
	if !ok {
		return zero, false
	}

	return value, true
}

func (c *Cache[V]) Delete(key string) {
	c.c.Delete(key)
}

func (c *Cache[V]) Flush() {
	c.c.Flush()
}

func (c *Cache[V]) Len() int {
	return c.c.ItemCount()
}

func CacheKeyUserByID(id int) string {
	return "user:" + strconv.Itoa(id)
}
