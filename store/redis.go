package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// redisPrefix namespaces the shop keys in a shared Redis.
const redisPrefix = "tienda:"

// Redis stores blobs as Redis strings.
type Redis struct {
	rdb *redis.Client
}

// OpenRedis connects to the Redis server at url and checks connectivity.
func OpenRedis(ctx context.Context, url string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url %q: %w", redact(url), err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Redis{rdb: rdb}, nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	blob, err := r.rdb.Get(ctx, redisPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("could not read %q: %w", key, err)
	}
	log.Debug().Str("key", key).Int("bytes", len(blob)).Msg("read blob from redis")
	return blob, nil
}

func (r *Redis) Put(ctx context.Context, key string, blob []byte) error {
	if err := r.rdb.Set(ctx, redisPrefix+key, blob, 0).Err(); err != nil {
		return fmt.Errorf("could not write %q: %w", key, err)
	}
	log.Debug().Str("key", key).Int("bytes", len(blob)).Msg("wrote blob to redis")
	return nil
}

func (r *Redis) Close() error { return r.rdb.Close() }
