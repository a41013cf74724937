// README: Redis-backed geocode cache with a fixed 24h TTL.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"lastmile/internal/maps"
	"lastmile/internal/types"
)

const (
	reverseKeyPrefix = "geo:rev:"
	forwardKeyPrefix = "geo:fwd:"
	// cacheTTL is how long a resolved lookup stays valid. Entries are never
	// explicitly invalidated, they simply expire.
	cacheTTL = 24 * time.Hour
)

// RedisCache implements Cache on top of Redis.
type RedisCache struct {
	redis *redis.Client
}

func NewRedisCache(r *redis.Client) *RedisCache {
	return &RedisCache{redis: r}
}

func (c *RedisCache) GetAddress(ctx context.Context, key string) (maps.Address, bool, error) {
	var a maps.Address
	val, err := c.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		return a, false, nil
	}
	if err != nil {
		return a, false, err
	}
	if err := json.Unmarshal([]byte(val), &a); err != nil {
		return a, false, err
	}
	return a, true, nil
}

func (c *RedisCache) SetAddress(ctx context.Context, key string, a maps.Address) error {
	raw, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return c.redis.Set(ctx, key, raw, cacheTTL).Err()
}

func (c *RedisCache) GetAddresses(ctx context.Context, key string) ([]maps.Address, bool, error) {
	val, err := c.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var as []maps.Address
	if err := json.Unmarshal([]byte(val), &as); err != nil {
		return nil, false, err
	}
	return as, true, nil
}

func (c *RedisCache) SetAddresses(ctx context.Context, key string, as []maps.Address) error {
	raw, err := json.Marshal(as)
	if err != nil {
		return err
	}
	return c.redis.Set(ctx, key, raw, cacheTTL).Err()
}

// reverseKey rounds coordinates to 5 decimal places (~1m) so nearby lookups
// share a cache entry.
func reverseKey(p types.Point) string {
	return fmt.Sprintf("%s%.5f,%.5f", reverseKeyPrefix, p.Lat, p.Lng)
}

func forwardKey(query string) string {
	return forwardKeyPrefix + strings.ToLower(strings.Join(strings.Fields(query), " "))
}
