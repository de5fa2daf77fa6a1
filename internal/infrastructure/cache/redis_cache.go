package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"roottrack-api/internal/domain/dashboard"
)

type RedisCache struct {
	client redis.UniversalClient
	log    zerolog.Logger
}

var _ dashboard.Cache = (*RedisCache)(nil)

// NewRedisCache connects to one or more comma separated redis URLs or addresses.
func NewRedisCache(ctx context.Context, redisURL string, log zerolog.Logger) (*RedisCache, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, fmt.Errorf("redis URL must be provided")
	}

	opts, err := buildUniversalOptions(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if len(opts.Addrs) > 1 && opts.DB != 0 {
		log.Warn().Msg("ignoring non-zero DB when using redis cluster configuration")
		opts.DB = 0
	}

	client := redis.NewUniversalClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info().Strs("addrs", opts.Addrs).Msg("connected to redis dashboard cache")
	return NewRedisCacheFromClient(client, log), nil
}

func NewRedisCacheFromClient(client redis.UniversalClient, log zerolog.Logger) *RedisCache {
	return &RedisCache{
		client: client,
		log:    log.With().Str("component", "redis-cache").Logger(),
	}
}

func buildUniversalOptions(raw string) (*redis.UniversalOptions, error) {
	opts := &redis.UniversalOptions{}

	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !strings.Contains(part, "://") {
			opts.Addrs = append(opts.Addrs, part)
			continue
		}

		parsed, err := redis.ParseURL(part)
		if err != nil {
			return nil, err
		}
		opts.Addrs = append(opts.Addrs, parsed.Addr)
		if opts.Username == "" {
			opts.Username = parsed.Username
		}
		if opts.Password == "" {
			opts.Password = parsed.Password
		}
		if opts.DB == 0 {
			opts.DB = parsed.DB
		}
		if opts.TLSConfig == nil {
			opts.TLSConfig = parsed.TLSConfig
		}
		if opts.DialTimeout == 0 {
			opts.DialTimeout = parsed.DialTimeout
		}
		if opts.ReadTimeout == 0 {
			opts.ReadTimeout = parsed.ReadTimeout
		}
		if opts.WriteTimeout == 0 {
			opts.WriteTimeout = parsed.WriteTimeout
		}
	}

	if len(opts.Addrs) == 0 {
		return nil, fmt.Errorf("no redis addresses provided")
	}
	return opts, nil
}

// Get reports a miss as ok=false with a nil error.
func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get value from cache: %w", err)
	}
	return val, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.client.Unlink(ctx, keys...).Err()
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
