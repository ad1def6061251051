package cache

import (
	"context"
	"encoding/json"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"mathsolve/internal/logger"
)

// Cache wraps redis with a JSON envelope carrying its own absolute expiry.
// Redis TTL is set as well, but the envelope is re-checked on every read so a
// stale entry behaves as a miss even if the server-side TTL lagged; stale
// entries found this way are deleted best-effort.
//
// Every operation swallows backend failures: an unreachable redis degrades the
// cache to pass-through misses and must never abort the caller's workflow.
type Cache struct {
	client *redisv9.Client
	log    *logger.Logger
}

type envelope struct {
	Data        json.RawMessage `json:"data"`
	ExpiresAtMs int64           `json:"expires_at_ms"`
}

func New(client *redisv9.Client, log *logger.Logger) *Cache {
	return &Cache{client: client, log: log}
}

// Get loads key into dest. Returns false on miss, expiry, or any backend failure.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) bool {
	raw, err := c.client.Get(ctx, key).Result()
	if err == redisv9.Nil {
		return false
	}
	if err != nil {
		c.log.Warn("cache get failed", "key", key, "error", err)
		return false
	}

	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		c.log.Warn("cache entry corrupt", "key", key, "error", err)
		c.Delete(ctx, key)
		return false
	}
	if time.Now().UnixMilli() > env.ExpiresAtMs {
		c.Delete(ctx, key)
		return false
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		c.log.Warn("cache value decode failed", "key", key, "error", err)
		return false
	}
	return true
}

func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) bool {
	data, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("cache value encode failed", "key", key, "error", err)
		return false
	}
	payload, err := json.Marshal(envelope{
		Data:        data,
		ExpiresAtMs: time.Now().Add(ttl).UnixMilli(),
	})
	if err != nil {
		c.log.Warn("cache envelope encode failed", "key", key, "error", err)
		return false
	}
	if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		c.log.Warn("cache set failed", "key", key, "error", err)
		return false
	}
	return true
}

func (c *Cache) Delete(ctx context.Context, key string) bool {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.log.Warn("cache delete failed", "key", key, "error", err)
		return false
	}
	return true
}

func (c *Cache) Exists(ctx context.Context, key string) bool {
	count, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		c.log.Warn("cache exists failed", "key", key, "error", err)
		return false
	}
	return count > 0
}

// MGet returns the subset of keys that are present and unexpired, decoded as
// raw JSON. Expired entries encountered are deleted best-effort.
func (c *Cache) MGet(ctx context.Context, keys ...string) map[string]json.RawMessage {
	result := make(map[string]json.RawMessage, len(keys))
	if len(keys) == 0 {
		return result
	}

	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		c.log.Warn("cache mget failed", "error", err)
		return result
	}

	now := time.Now().UnixMilli()
	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue
		}
		var env envelope
		if err := json.Unmarshal([]byte(raw), &env); err != nil {
			continue
		}
		if now > env.ExpiresAtMs {
			c.Delete(ctx, keys[i])
			continue
		}
		result[keys[i]] = env.Data
	}
	return result
}

func (c *Cache) MSet(ctx context.Context, entries map[string]interface{}, ttl time.Duration) bool {
	ok := true
	for key, value := range entries {
		if !c.Set(ctx, key, value, ttl) {
			ok = false
		}
	}
	return ok
}

func (c *Cache) FlushAll(ctx context.Context) bool {
	if err := c.client.FlushAll(ctx).Err(); err != nil {
		c.log.Warn("cache flush failed", "error", err)
		return false
	}
	return true
}
