package backgrounds

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ListCache holds the result of List between mutations.
//
// Entries are tagged with a generation. Get reports the generation current
// at read time and Set only publishes under that generation, so a list read
// before a mutation's Invalidate is never served after it.
type ListCache interface {
	// Get reports ok=false on a miss. gen is valid whenever err is nil.
	Get(ctx context.Context) (list []Background, gen int64, ok bool, err error)
	Set(ctx context.Context, gen int64, list []Background) error
	Invalidate(ctx context.Context) error
}

const (
	defaultCacheKey = "focus:backgrounds:list"
	defaultCacheTTL = time.Minute
)

// redisCmds is the subset of goredis.Cmdable the cache uses.
type redisCmds interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
	Incr(ctx context.Context, key string) *goredis.IntCmd
}

// RedisCache stores the list as a JSON blob under a key derived from the
// generation counter. Invalidate bumps the counter; entries for older
// generations are unreachable and expire after the TTL.
type RedisCache struct {
	rdb redisCmds
	key string
	ttl time.Duration
}

// NewRedisCache builds a cache on rdb. A zero ttl falls back to one minute.
func NewRedisCache(rdb *goredis.Client, ttl time.Duration) *RedisCache {
	return newRedisCache(rdb, ttl)
}

func newRedisCache(rdb redisCmds, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &RedisCache{rdb: rdb, key: defaultCacheKey, ttl: ttl}
}

func (c *RedisCache) genKey() string { return c.key + ":gen" }

func (c *RedisCache) listKey(gen int64) string {
	return c.key + ":" + strconv.FormatInt(gen, 10)
}

func (c *RedisCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, c.genKey()).Int64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *RedisCache) Get(ctx context.Context) ([]Background, int64, bool, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return nil, 0, false, err
	}
	raw, err := c.rdb.Get(ctx, c.listKey(gen)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, gen, false, nil
	}
	if err != nil {
		return nil, 0, false, err
	}
	var entries []BackgroundResponse
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, 0, false, err
	}
	out := make([]Background, 0, len(entries))
	for _, e := range entries {
		out = append(out, fromResponse(e))
	}
	return out, gen, true, nil
}

func (c *RedisCache) Set(ctx context.Context, gen int64, list []Background) error {
	raw, err := json.Marshal(toResponses(list))
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.listKey(gen), raw, c.ttl).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	return c.rdb.Incr(ctx, c.genKey()).Err()
}

var _ ListCache = (*RedisCache)(nil)
