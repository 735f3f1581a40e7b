package market

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// SnapshotCache stores rendered snapshots keyed by ticker and period.
type SnapshotCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
}

type MemoryCache struct {
	cache *cache.Cache
}

func NewMemoryCache(defaultTTL time.Duration) *MemoryCache {
	return &MemoryCache{
		cache: cache.New(defaultTTL, 2*defaultTTL),
	}
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	if x, found := m.cache.Get(key); found {
		return x.(string), true
	}
	return "", false
}

func (m *MemoryCache) Set(_ context.Context, key, value string, ttl time.Duration) {
	m.cache.Set(key, value, ttl)
}

// RedisCache shares snapshots across instances. Any redis error, redis.Nil included, is a miss.
type RedisCache struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisCache(rdb *redis.Client) *RedisCache {
	return &RedisCache{rdb: rdb, prefix: "market:snapshot:"}
}

func (r *RedisCache) Get(ctx context.Context, key string) (string, bool) {
	val, err := r.rdb.Get(ctx, r.prefix+key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (r *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) {
	r.rdb.Set(ctx, r.prefix+key, value, ttl)
}

type noopCache struct{}

func (noopCache) Get(context.Context, string) (string, bool) {
	return "", false
}

func (noopCache) Set(context.Context, string, string, time.Duration) {}
