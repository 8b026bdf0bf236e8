package repositorycache

import (
	"context"
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"

	goerrors "github.com/goliatone/go-errors"

	"github.com/siga-vet/go-clinic-repository/cache"
	"github.com/siga-vet/go-clinic-repository/model"
	"github.com/siga-vet/go-clinic-repository/repository"
)

const lockStripes = 64

// Config customizes a CachedRepository.
type Config[T any] struct {
	// Entity names the record kind in logs, errors and metric labels.
	// Defaults to the snake_case type name.
	Entity string
	// Check runs after the record's own Validate and before any write. It
	// holds rules that need domain knowledge, such as clinical ranges.
	Check   func(T) error
	Logger  *slog.Logger
	Metrics *Metrics
}

// CachedRepository puts an identity cache in front of a Store.
//
// Reads consult the cache first and fill it only from a confirmed storage
// hit. Writes touch the cache only after storage confirms them: Save caches
// the inserted record, Update replaces the entry with the stored row when at
// least one row changed, Delete evicts when at least one row was removed.
// Absent rows are never cached.
//
// Records exposing Clone() T are cloned on the way into and out of the
// cache, so callers never share pointer fields with a cached entry.
type CachedRepository[T any, P repository.Record[T]] struct {
	store   repository.Store[T]
	cache   cache.IdentityCache[int64, T]
	entity  string
	check   func(T) error
	logger  *slog.Logger
	metrics *Metrics

	// Striped per-id locks keep a miss fill from racing an update or a
	// delete of the same id.
	locks [lockStripes]sync.Mutex
	// deletes counts confirmed deletes. Save compares it across the insert
	// to detect a delete that may have removed the new row.
	deletes atomic.Uint64
}

// New wraps store with the identity cache ids.
func New[T any, P repository.Record[T]](store repository.Store[T], ids cache.IdentityCache[int64, T], cfg Config[T]) *CachedRepository[T, P] {
	entity := cfg.Entity
	if entity == "" {
		entity = toSnake(reflect.TypeOf((*T)(nil)).Elem().Name())
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedRepository[T, P]{
		store:   store,
		cache:   ids,
		entity:  entity,
		check:   cfg.Check,
		logger:  logger.With("entity", entity),
		metrics: cfg.Metrics,
	}
}

// Entity returns the record kind name.
func (c *CachedRepository[T, P]) Entity() string { return c.entity }

// Save validates entity, inserts it and caches the stored value.
func (c *CachedRepository[T, P]) Save(ctx context.Context, entity T) (T, error) {
	var zero T
	if err := c.validate(entity); err != nil {
		return zero, err
	}
	if P(&entity).GetID() != 0 {
		return zero, model.Invalid(c.entity, "id", "id must be empty for a new record", P(&entity).GetID())
	}

	deletes := c.deletes.Load()
	if err := c.store.Insert(ctx, &entity); err != nil {
		c.logFailure("save", err)
		return zero, err
	}

	id := P(&entity).GetID()
	mu := c.lock(id)
	mu.Lock()
	defer mu.Unlock()

	if c.deletes.Load() != deletes {
		ok, err := c.store.Exists(ctx, id)
		if err != nil || !ok {
			// The row is saved but may be gone already; leave it to the next read.
			return entity, nil
		}
	}
	c.cache.Put(id, c.clone(entity))
	return entity, nil
}

// FindByID serves from the cache, falling back to storage on a miss.
func (c *CachedRepository[T, P]) FindByID(ctx context.Context, id int64) (T, bool, error) {
	if v, ok := c.cache.Get(id); ok {
		c.metrics.hit(c.entity)
		c.logger.DebugContext(ctx, "cache hit", "id", id)
		return c.clone(v), true, nil
	}

	mu := c.lock(id)
	mu.Lock()
	defer mu.Unlock()

	// Another caller may have filled the entry while we waited.
	if v, ok := c.cache.Get(id); ok {
		c.metrics.hit(c.entity)
		return c.clone(v), true, nil
	}

	c.metrics.miss(c.entity)
	c.logger.DebugContext(ctx, "cache miss", "id", id)

	v, found, err := c.store.Get(ctx, id)
	if err != nil {
		c.logFailure("find_by_id", err)
		var zero T
		return zero, false, err
	}
	if !found {
		var zero T
		return zero, false, nil
	}

	c.cache.Put(id, c.clone(v))
	return v, true, nil
}

// FindAll always reads storage and leaves the cache untouched.
func (c *CachedRepository[T, P]) FindAll(ctx context.Context) ([]T, error) {
	records, err := c.store.List(ctx)
	if err != nil {
		c.logFailure("find_all", err)
		return nil, err
	}
	return records, nil
}

// Update rewrites the row and, only when a row was affected, caches the row
// as storage now holds it. Columns the store does not rewrite, such as
// created_at or activo, therefore come from storage and not from entity.
func (c *CachedRepository[T, P]) Update(ctx context.Context, entity T) error {
	if err := c.validate(entity); err != nil {
		return err
	}
	id := P(&entity).GetID()
	if id == 0 {
		return model.Invalid(c.entity, "id", "id is required for update", id)
	}

	mu := c.lock(id)
	mu.Lock()
	defer mu.Unlock()

	n, err := c.store.Update(ctx, &entity)
	if err != nil {
		c.logFailure("update", err)
		return err
	}
	if n == 0 {
		return nil
	}

	stored, found, err := c.store.Get(ctx, id)
	if err != nil || !found {
		if err != nil {
			c.logFailure("update_reload", err)
		}
		c.cache.Remove(id)
		return nil
	}
	c.cache.Put(id, stored)
	return nil
}

// Delete removes the row and evicts the cached entry only when a row was
// affected.
func (c *CachedRepository[T, P]) Delete(ctx context.Context, id int64) error {
	mu := c.lock(id)
	mu.Lock()
	defer mu.Unlock()

	n, err := c.store.Delete(ctx, id)
	if err != nil {
		c.logFailure("delete", err)
		return err
	}
	if n == 0 {
		return nil
	}
	c.deletes.Add(1)
	if c.cache.Remove(id) {
		c.metrics.evict(c.entity)
	}
	return nil
}

// Exists treats a cached entry as proof of existence.
func (c *CachedRepository[T, P]) Exists(ctx context.Context, id int64) (bool, error) {
	if _, ok := c.cache.Get(id); ok {
		c.metrics.hit(c.entity)
		return true, nil
	}
	ok, err := c.store.Exists(ctx, id)
	if err != nil {
		c.logFailure("exists", err)
		return false, err
	}
	return ok, nil
}

// Invalidate drops the cached entry for id, if any.
func (c *CachedRepository[T, P]) Invalidate(id int64) {
	mu := c.lock(id)
	mu.Lock()
	defer mu.Unlock()
	c.cache.Remove(id)
}

// Purge empties the cache.
func (c *CachedRepository[T, P]) Purge() {
	c.cache.Clear()
}

// CacheLen reports the number of cached entries.
func (c *CachedRepository[T, P]) CacheLen() int {
	return c.cache.Len()
}

func (c *CachedRepository[T, P]) validate(entity T) error {
	if err := P(&entity).Validate(); err != nil {
		return err
	}
	if c.check != nil {
		return c.check(entity)
	}
	return nil
}

func (c *CachedRepository[T, P]) clone(v T) T {
	if cl, ok := any(v).(interface{ Clone() T }); ok {
		return cl.Clone()
	}
	return v
}

func (c *CachedRepository[T, P]) lock(id int64) *sync.Mutex {
	return &c.locks[uint64(id)%lockStripes]
}

func (c *CachedRepository[T, P]) logFailure(op string, err error) {
	args := []any{"op", op, "error", err.Error()}
	for _, attr := range goerrors.ToSlogAttributes(err) {
		args = append(args, attr)
	}
	c.logger.Error("repository operation failed", args...)
}
