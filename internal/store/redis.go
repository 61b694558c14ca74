package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis implements KV on top of a redis server.
type Redis struct {
	client *redis.Client
	log    *zap.Logger
}

// NewRedis connects to the redis server at addr. A failed ping is logged
// but not fatal: the service keeps running and individual operations
// report ErrUnavailable until the backend comes back.
func NewRedis(addr, password string, db int, log *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Warn("redis connect failed", zap.String("addr", addr), zap.Error(err))
	} else {
		log.Info("redis connect success", zap.String("addr", addr))
	}

	return &Redis{client: client, log: log}
}

// Close releases the underlying connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return r.fail("set", key, err)
	}
	return nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, r.fail("get", key, err)
	}
	return value, nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return r.fail("delete", key, err)
	}
	return nil
}

func (r *Redis) PushFront(ctx context.Context, key, value string) error {
	if err := r.client.LPush(ctx, key, value).Err(); err != nil {
		return r.fail("lpush", key, err)
	}
	return nil
}

func (r *Redis) Range(ctx context.Context, key string, start, stop int64) ([]string, error) {
	values, err := r.client.LRange(ctx, key, start, stop).Result()
	if err != nil {
		return nil, r.fail("lrange", key, err)
	}
	return values, nil
}

func (r *Redis) RemoveValue(ctx context.Context, key, value string) error {
	if err := r.client.LRem(ctx, key, 0, value).Err(); err != nil {
		return r.fail("lrem", key, err)
	}
	return nil
}

func (r *Redis) fail(op, key string, err error) error {
	r.log.Error("redis operation failed",
		zap.String("op", op), zap.String("key", key), zap.Error(err))
	return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, op, key, err)
}
