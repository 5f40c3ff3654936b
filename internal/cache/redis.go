package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
)

// RedisOptions configures NewRedisBackend.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int

	// Breaker settings; zero values use the defaults below.
	BreakerTimeout     time.Duration
	BreakerMaxFailures uint32
}

const (
	defaultBreakerTimeout     = 5 * time.Second
	defaultBreakerMaxFailures = 3
)

// RedisBackend stores entries in Redis. Every command runs through a
// circuit breaker so an unavailable server fails fast instead of adding its
// timeout to every request.
type RedisBackend struct {
	client  redis.UniversalClient
	breaker *gobreaker.CircuitBreaker
}

var _ Backend = (*RedisBackend)(nil)

// NewRedisBackend creates a client for opts.Addr. It does not connect
// eagerly; use Ping to verify connectivity.
func NewRedisBackend(opts RedisOptions, logger *slog.Logger) *RedisBackend {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return NewRedisBackendWithClient(client, opts, logger)
}

// NewRedisBackendWithClient wraps an existing client.
func NewRedisBackendWithClient(client redis.UniversalClient, opts RedisOptions, logger *slog.Logger) *RedisBackend {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "redis_cache")

	timeout := opts.BreakerTimeout
	if timeout <= 0 {
		timeout = defaultBreakerTimeout
	}
	maxFailures := opts.BreakerMaxFailures
	if maxFailures == 0 {
		maxFailures = defaultBreakerMaxFailures
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "redis-cache",
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String())
		},
	})

	return &RedisBackend{client: client, breaker: breaker}
}

// Ping checks connectivity without going through the breaker.
func (r *RedisBackend) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (r *RedisBackend) Close() error {
	return r.client.Close()
}

// Get implements Backend.
func (r *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	res, err := r.breaker.Execute(func() (interface{}, error) {
		b, err := r.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			// A miss is a healthy answer; keep it out of the breaker's failure count.
			return nil, nil
		}
		return b, err
	})
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	if res == nil {
		return nil, ErrMiss
	}
	return res.([]byte), nil
}

// MGet implements Backend.
func (r *RedisBackend) MGet(ctx context.Context, keys []string) ([][]byte, error) {
	if len(keys) == 0 {
		return [][]byte{}, nil
	}

	res, err := r.breaker.Execute(func() (interface{}, error) {
		return r.client.MGet(ctx, keys...).Result()
	})
	if err != nil {
		return nil, fmt.Errorf("redis mget: %w", err)
	}

	vals := res.([]interface{})
	out := make([][]byte, len(keys))
	for i, v := range vals {
		if s, ok := v.(string); ok {
			out[i] = []byte(s)
		}
	}
	return out, nil
}

// Set implements Backend.
func (r *RedisBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := r.breaker.Execute(func() (interface{}, error) {
		return nil, r.client.Set(ctx, key, value, ttl).Err()
	})
	if err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Del implements Backend.
func (r *RedisBackend) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := r.breaker.Execute(func() (interface{}, error) {
		return nil, r.client.Del(ctx, keys...).Err()
	})
	if err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
