package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/mrkecom/mrkecom-backend/internal/platform/logger"
)

// ErrMiss is returned when a key is absent; callers fall through to the store.
var ErrMiss = errors.New("cache miss")

type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, val interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

type cache struct {
	log *logger.Logger
	rdb *goredis.Client
}

func New(log *logger.Logger, addr string) (Cache, error) {
	if addr == "" {
		return nil, fmt.Errorf("missing redis addr")
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

	return &cache{log: log.With("platform", "RedisCache"), rdb: rdb}, nil
}

func (c *cache) GetJSON(ctx context.Context, key string, dest interface{}) error {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return ErrMiss
		}
		return err
	}
	return json.Unmarshal(raw, dest)
}

func (c *cache) SetJSON(ctx context.Context, key string, val interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, raw, ttl).Err()
}

func (c *cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

func (c *cache) Close() error {
	return c.rdb.Close()
}
