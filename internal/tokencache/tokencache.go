package tokencache

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/openmicroshop/commerce-backend/internal/platform/logger"
)

// Cache is the revocation set consulted on token verification. Logout puts
// the token id in; entries expire on their own when the token would have.
type Cache interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	Close() error
}

type redisCache struct {
	log *logger.Logger
	rdb *goredis.Client
}

func NewRedis(addr string, log *logger.Logger) (Cache, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
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

	return &redisCache{log: log.With("service", "TokenCache"), rdb: rdb}, nil
}

func key(jti string) string { return "revoked_token:" + jti }

func (c *redisCache) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return c.rdb.Set(ctx, key(jti), "1", ttl).Err()
}

func (c *redisCache) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, key(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *redisCache) Close() error { return c.rdb.Close() }

// noop keeps the auth service usable without redis: verification falls back
// to signature and expiry alone, and logout revocation is best effort.
type noop struct{}

func NewNoop() Cache { return noop{} }

func (noop) Revoke(ctx context.Context, jti string, ttl time.Duration) error { return nil }
func (noop) IsRevoked(ctx context.Context, jti string) (bool, error)         { return false, nil }
func (noop) Close() error                                                    { return nil }
