// Package cache provides a two-tier read cache: an in-process LRU in front
// of an optional shared redis tier.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache struct {
	l1    *LRUCache
	l2    *redis.Client
	l2TTL time.Duration
}

// New builds a cache. l2 may be nil, in which case only the in-process
// tier is used.
func New(l1Capacity int, l2 *redis.Client, l2TTL time.Duration) *Cache {
	return &Cache{
		l1:    NewLRUCache(l1Capacity),
		l2:    l2,
		l2TTL: l2TTL,
	}
}

func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	if val, found := c.l1.Get(key); found {
		return val.(string), true
	}

	if c.l2 != nil {
		val, err := c.l2.Get(ctx, key).Result()
		if err == nil {
			c.l1.Set(key, val)
			return val, true
		}
	}

	return "", false
}

func (c *Cache) Set(ctx context.Context, key string, value string) error {
	c.l1.Set(key, value)
	if c.l2 == nil {
		return nil
	}
	return c.l2.Set(ctx, key, value, c.l2TTL).Err()
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	c.l1.Delete(key)
	if c.l2 == nil {
		return nil
	}
	return c.l2.Del(ctx, key).Err()
}

func (c *Cache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	val, found := c.Get(ctx, key)
	if !found {
		return false, nil
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}

	return true, nil
}

func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.Set(ctx, key, string(data))
}
