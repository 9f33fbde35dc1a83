package cache

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key is a structured composite cache key: an entity kind plus the
// parameters that partition it. Rendering escapes each part so parameter
// values containing the separator cannot collide with other keys.
type Key struct {
	Kind  string
	Parts []string
}

// NewKey builds a Key for kind with the given parameter parts.
func NewKey(kind string, parts ...string) Key {
	return Key{Kind: kind, Parts: parts}
}

func (k Key) String() string {
	if len(k.Parts) == 0 {
		return k.Kind
	}
	escaped := make([]string, len(k.Parts))
	for i, p := range k.Parts {
		escaped[i] = url.QueryEscape(p)
	}
	return k.Kind + ":" + strings.Join(escaped, ":")
}

// Cache stores JSON-encoded query results under structured keys and
// supports invalidating every entry of one kind.
type Cache interface {
	// GetJSON loads the entry for key into dest. The bool reports a hit.
	GetJSON(ctx context.Context, key Key, dest any) (bool, error)
	// SetJSON stores v under key with the cache's TTL.
	SetJSON(ctx context.Context, key Key, v any) error
	// Invalidate removes every entry whose key has the given kind.
	Invalidate(ctx context.Context, kind string) error
}

// RedisCache is the redis-backed Cache used in production.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) GetJSON(ctx context.Context, key Key, dest any) (bool, error) {
	data, err := c.client.Get(ctx, key.String()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *RedisCache) SetJSON(ctx context.Context, key Key, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key.String(), payload, c.ttl).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context, kind string) error {
	// Parameterless keys are stored under the bare kind.
	if err := c.client.Del(ctx, kind).Err(); err != nil {
		return err
	}
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, kind+":*", 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
