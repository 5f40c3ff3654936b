package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/phrazzld/workforce-api/internal/metrics"
)

// codec converts between an entity and its cached bytes.
type codec[T any] struct {
	encode func(T) ([]byte, error)
	decode func([]byte) (T, error)
	id     func(T) int64
}

// EntityCache is a typed cache for one entity kind. Entries live under
// "{entity}:{id}" and the membership of the full listing under
// "{entity}:ids".
//
// Every invalidation advances a generation counter. Values read from the
// store are written back with PutIf and PutAllIf against the generation
// taken before the read, so a concurrent delete cannot be undone by a slow
// reader. The counter is per process; across replicas sharing Redis the
// window is bounded by the TTL.
type EntityCache[T any] struct {
	backend Backend
	entity  string
	ttl     time.Duration
	codec   codec[T]
	logger  *slog.Logger
	gen     atomic.Uint64
}

func newEntityCache[T any](backend Backend, entity string, ttl time.Duration, c codec[T], logger *slog.Logger) *EntityCache[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EntityCache[T]{
		backend: backend,
		entity:  entity,
		ttl:     ttl,
		codec:   c,
		logger:  logger.With("component", "cache", "entity", entity),
	}
}

func (c *EntityCache[T]) key(id int64) string {
	return c.entity + ":" + strconv.FormatInt(id, 10)
}

func (c *EntityCache[T]) idsKey() string {
	return c.entity + ":ids"
}

// Get returns the cached entity for id. ok is false on a miss or any
// backend failure.
func (c *EntityCache[T]) Get(ctx context.Context, id int64) (value T, ok bool) {
	raw, err := c.backend.Get(ctx, c.key(id))
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			c.fail(ctx, "get", err)
		}
		metrics.RecordCacheMiss(c.entity)
		return value, false
	}

	value, err = c.codec.decode(raw)
	if err != nil {
		c.fail(ctx, "decode", err)
		c.drop(ctx, c.key(id))
		metrics.RecordCacheMiss(c.entity)
		return value, false
	}

	metrics.RecordCacheHit(c.entity)
	return value, true
}

// GetAll returns the full cached listing. The listing is a miss when the id
// set is absent or any member entry is missing or unreadable; callers then
// load from the store and call PutAll.
func (c *EntityCache[T]) GetAll(ctx context.Context) ([]T, bool) {
	raw, err := c.backend.Get(ctx, c.idsKey())
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			c.fail(ctx, "get_ids", err)
		}
		metrics.RecordCacheMiss(c.entity)
		return nil, false
	}

	var ids []int64
	if err := json.Unmarshal(raw, &ids); err != nil {
		c.fail(ctx, "decode_ids", err)
		c.drop(ctx, c.idsKey())
		metrics.RecordCacheMiss(c.entity)
		return nil, false
	}

	if len(ids) == 0 {
		metrics.RecordCacheHit(c.entity)
		return []T{}, true
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = c.key(id)
	}

	raws, err := c.backend.MGet(ctx, keys)
	if err != nil {
		c.fail(ctx, "mget", err)
		metrics.RecordCacheMiss(c.entity)
		return nil, false
	}

	items := make([]T, 0, len(raws))
	for i, r := range raws {
		if r == nil {
			c.logger.DebugContext(ctx, "listing member evicted", "key", keys[i])
			metrics.RecordCacheMiss(c.entity)
			return nil, false
		}
		item, err := c.codec.decode(r)
		if err != nil {
			c.fail(ctx, "decode", err)
			c.drop(ctx, keys[i])
			metrics.RecordCacheMiss(c.entity)
			return nil, false
		}
		items = append(items, item)
	}

	metrics.RecordCacheHit(c.entity)
	return items, true
}

// Generation returns the current invalidation generation. Take it before
// reading from the store and pass it to PutIf or PutAllIf.
func (c *EntityCache[T]) Generation() uint64 {
	return c.gen.Load()
}

// Put stores a freshly written value and refreshes its TTL. It advances the
// generation so reads still in flight cannot overwrite it.
func (c *EntityCache[T]) Put(ctx context.Context, value T) {
	c.gen.Add(1)
	c.set(ctx, value)
}

// PutIf stores value unless an invalidation happened since gen. It reports
// whether the entry was kept.
func (c *EntityCache[T]) PutIf(ctx context.Context, gen uint64, value T) bool {
	if c.gen.Load() != gen {
		return false
	}
	if !c.set(ctx, value) {
		return false
	}
	if c.gen.Load() != gen {
		c.drop(ctx, c.key(c.codec.id(value)))
		return false
	}
	return true
}

// PutAll stores every value and then the listing membership.
func (c *EntityCache[T]) PutAll(ctx context.Context, values []T) {
	c.PutAllIf(ctx, c.gen.Load(), values)
}

// PutAllIf stores every value and then the listing membership, unless an
// invalidation happened since gen. If any entry cannot be written the
// listing key is not written, so a later GetAll misses instead of returning
// a partial listing. An invalidation that lands while writing removes
// everything written here. It reports whether the listing was kept.
func (c *EntityCache[T]) PutAllIf(ctx context.Context, gen uint64, values []T) bool {
	if c.gen.Load() != gen {
		c.logger.DebugContext(ctx, "skipping stale listing write")
		return false
	}

	ids := make([]int64, 0, len(values))
	keys := make([]string, 0, len(values)+1)
	for _, v := range values {
		if !c.set(ctx, v) {
			return false
		}
		id := c.codec.id(v)
		ids = append(ids, id)
		keys = append(keys, c.key(id))
	}

	raw, err := json.Marshal(ids)
	if err != nil {
		c.fail(ctx, "encode_ids", err)
		return false
	}
	if err := c.backend.Set(ctx, c.idsKey(), raw, c.ttl); err != nil {
		c.fail(ctx, "set_ids", err)
		return false
	}

	if c.gen.Load() != gen {
		c.logger.DebugContext(ctx, "listing invalidated while writing")
		c.drop(ctx, append(keys, c.idsKey())...)
		return false
	}
	return true
}

func (c *EntityCache[T]) set(ctx context.Context, value T) bool {
	raw, err := c.codec.encode(value)
	if err != nil {
		c.fail(ctx, "encode", err)
		return false
	}
	if err := c.backend.Set(ctx, c.key(c.codec.id(value)), raw, c.ttl); err != nil {
		c.fail(ctx, "set", err)
		return false
	}
	return true
}

// Invalidate removes the entry for each id.
func (c *EntityCache[T]) Invalidate(ctx context.Context, ids ...int64) {
	if len(ids) == 0 {
		return
	}
	c.gen.Add(1)
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = c.key(id)
	}
	c.drop(ctx, keys...)
}

// InvalidateAll removes the listing membership. Individual entries stay
// until they are invalidated or expire.
func (c *EntityCache[T]) InvalidateAll(ctx context.Context) {
	c.gen.Add(1)
	c.drop(ctx, c.idsKey())
}

func (c *EntityCache[T]) drop(ctx context.Context, keys ...string) {
	if err := c.backend.Del(ctx, keys...); err != nil {
		c.fail(ctx, "del", err)
	}
}

func (c *EntityCache[T]) fail(ctx context.Context, op string, err error) {
	metrics.RecordCacheError(c.entity, op)
	c.logger.WarnContext(ctx, "cache operation failed",
		"operation", op,
		"error", err)
}

// jsonCodec builds a codec that encodes through an explicit record type R.
func jsonCodec[T any, R any](toRecord func(T) R, fromRecord func(R) T, id func(T) int64) codec[T] {
	return codec[T]{
		encode: func(v T) ([]byte, error) {
			return json.Marshal(toRecord(v))
		},
		decode: func(b []byte) (T, error) {
			var r R
			if err := json.Unmarshal(b, &r); err != nil {
				var zero T
				return zero, fmt.Errorf("decode cached record: %w", err)
			}
			return fromRecord(r), nil
		},
		id: id,
	}
}
