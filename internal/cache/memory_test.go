package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestMemoryBackend() (*MemoryBackend, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := NewMemoryBackend()
	m.now = clock.Now
	return m, clock
}

func TestMemoryBackend_GetSetDel(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMemoryBackend()

	_, err := m.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, m.Set(ctx, "k", []byte("v1"), time.Hour))
	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)

	got[0] = 'X'
	again, _ := m.Get(ctx, "k")
	assert.Equal(t, []byte("v1"), again, "callers cannot mutate stored bytes")

	require.NoError(t, m.Del(ctx, "k", "not-there"))
	_, err = m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryBackend_Expiry(t *testing.T) {
	ctx := context.Background()
	m, clock := newTestMemoryBackend()

	require.NoError(t, m.Set(ctx, "k", []byte("v"), time.Minute))
	clock.Advance(59 * time.Second)
	_, err := m.Get(ctx, "k")
	assert.NoError(t, err)

	clock.Advance(time.Second)
	_, err = m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
	assert.Equal(t, 0, m.Len(), "expired entry is dropped on read")
}

func TestMemoryBackend_SetRefreshesTTL(t *testing.T) {
	ctx := context.Background()
	m, clock := newTestMemoryBackend()

	require.NoError(t, m.Set(ctx, "k", []byte("v"), time.Minute))
	clock.Advance(50 * time.Second)
	require.NoError(t, m.Set(ctx, "k", []byte("v"), time.Minute))
	clock.Advance(50 * time.Second)

	_, err := m.Get(ctx, "k")
	assert.NoError(t, err)
}

func TestMemoryBackend_MGetAndSweep(t *testing.T) {
	ctx := context.Background()
	m, clock := newTestMemoryBackend()

	require.NoError(t, m.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, m.Set(ctx, "b", []byte("2"), time.Hour))

	vals, err := m.MGet(ctx, []string{"a", "missing", "b"})
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("1"), nil, []byte("2")}, vals)

	clock.Advance(2 * time.Minute)
	vals, _ = m.MGet(ctx, []string{"a", "b"})
	assert.Nil(t, vals[0])
	assert.Equal(t, []byte("2"), vals[1])

	assert.Equal(t, 1, m.Sweep())
	assert.Equal(t, 1, m.Len())
}

func TestMemoryBackend_Concurrent(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryBackend()

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", i%10)
				_ = m.Set(ctx, key, []byte{byte(w)}, time.Minute)
				_, _ = m.Get(ctx, key)
				_, _ = m.MGet(ctx, []string{key, "k0"})
				if i%7 == 0 {
					_ = m.Del(ctx, key)
				}
			}
		}(w)
	}
	wg.Wait()
	assert.LessOrEqual(t, m.Len(), 10)
}
