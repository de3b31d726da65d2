package alliance

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const membershipCachePrefix = "aic:membership:"

// RedisCache shares the membership fast path across instances. Entries are
// the wrapped tuples only; a Redis operator learns nothing a database
// operator would not. Failures degrade to a cache miss — the membership
// store remains authoritative.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func cacheKey(identityID, universe string) string {
	return membershipCachePrefix + memberKey(identityID, universe)
}

func (c *RedisCache) Get(ctx context.Context, identityID, universe string) (CachedMembership, bool) {
	raw, err := c.client.Get(ctx, cacheKey(identityID, universe)).Result()
	if err != nil {
		return CachedMembership{}, false
	}
	var m CachedMembership
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return CachedMembership{}, false
	}
	return m, true
}

func (c *RedisCache) Put(ctx context.Context, identityID, universe string, m CachedMembership) {
	raw, err := json.Marshal(m)
	if err != nil {
		return
	}
	c.client.Set(ctx, cacheKey(identityID, universe), raw, c.ttl)
}
