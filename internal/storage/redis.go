package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jislas1039-svg/higher-self/internal/logger"
)

const defaultRedisHash = "higher-self:state"

// RedisBackend keeps every slot as a field of one redis hash.
type RedisBackend struct {
	log   *logger.Logger
	rdb   *goredis.Client
	hash  string
	quota int64
}

func NewRedisBackend(log *logger.Logger, addr string, quotaBytes int64) (*RedisBackend, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisBackend{
		log:   log.With("service", "RedisBackend"),
		rdb:   rdb,
		hash:  defaultRedisHash,
		quota: quotaBytes,
	}, nil
}

func (r *RedisBackend) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.rdb.HGet(ctx, r.hash, key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis hget %s: %w", key, err)
	}
	return v, true, nil
}

func (r *RedisBackend) Set(ctx context.Context, key, value string) error {
	if r.quota > 0 {
		all, err := r.rdb.HGetAll(ctx, r.hash).Result()
		if err != nil {
			return fmt.Errorf("redis hgetall: %w", err)
		}
		var used int64
		for k, v := range all {
			if k != key {
				used += slotSize(k, v)
			}
		}
		if !fits(r.quota, used, slotSize(key, value)) {
			return ErrCapacityExceeded
		}
	}

	if err := r.rdb.HSet(ctx, r.hash, key, value).Err(); err != nil {
		if isOOM(err) {
			r.log.Warn("redis refused write", "key", key, "error", err)
			return ErrCapacityExceeded
		}
		return fmt.Errorf("redis hset %s: %w", key, err)
	}
	return nil
}

func (r *RedisBackend) Remove(ctx context.Context, key string) error {
	if err := r.rdb.HDel(ctx, r.hash, key).Err(); err != nil {
		return fmt.Errorf("redis hdel %s: %w", key, err)
	}
	return nil
}

func (r *RedisBackend) Close() error {
	return r.rdb.Close()
}

// isOOM matches the error redis returns once maxmemory is reached.
func isOOM(err error) bool {
	return strings.HasPrefix(err.Error(), "OOM ")
}
