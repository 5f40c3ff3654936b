package cache

import (
	"context"
	"errors"
	"time"
)

// DefaultTTL bounds how long an entry is trusted without revalidation.
const DefaultTTL = 24 * time.Hour

// ErrMiss is returned by Backend.Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Backend is a byte-oriented key-value store with per-key expiry.
type Backend interface {
	// Get returns the value for key or ErrMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// MGet returns one slot per key; absent keys yield a nil slot.
	MGet(ctx context.Context, keys []string) ([][]byte, error)

	// Set stores value under key for ttl, replacing any previous value and
	// expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Del removes the given keys. Missing keys are ignored.
	Del(ctx context.Context, keys ...string) error
}
