package clinic

import (
	"context"
	"errors"
	"slices"

	"github.com/uptrace/bun"

	"github.com/siga-vet/go-clinic-repository/cache"
	"github.com/siga-vet/go-clinic-repository/model"
	"github.com/siga-vet/go-clinic-repository/repository"
	"github.com/siga-vet/go-clinic-repository/repositorycache"
)

// errCatalogMiss keeps absent rows out of the read-through cache.
var errCatalogMiss = errors.New("catalog: record not found")

// Catalog serves small, rarely written tables through the bounded
// read-through cache. Every write drops all cached keys of the entity.
type Catalog[T any, P repository.Record[T]] struct {
	records *Records[T, P]
	table   *repository.Table[T, P]
	cache   cache.CacheService
	keys    cache.KeySerializer
	entity  string
	prefix  string
	metrics *repositorycache.Metrics
}

func newCatalog[T any, P repository.Record[T]](db bun.IDB, svc cache.CacheService, keys cache.KeySerializer, entity string, opts Options) *Catalog[T, P] {
	table := repository.NewTable[T, P](db, opts.table(entity))
	return &Catalog[T, P]{
		records: newRecords[T, P](table, entity, opts.logger()),
		table:   table,
		cache:   svc,
		keys:    keys,
		entity:  entity,
		prefix:  entity + ".",
		metrics: opts.Metrics,
	}
}

// Save inserts entity and drops the cached entries of the entity.
func (c *Catalog[T, P]) Save(ctx context.Context, entity T) (T, error) {
	saved, err := c.records.Save(ctx, entity)
	if err != nil {
		return saved, err
	}
	return saved, c.invalidate(ctx)
}

// FindByID reads through the cache. Absent rows are not cached.
func (c *Catalog[T, P]) FindByID(ctx context.Context, id int64) (T, bool, error) {
	key := c.keys.SerializeKey(c.prefix+"FindByID", id)
	v, err := cache.GetOrFetch[T](ctx, c.cache, key, func(ctx context.Context) (T, error) {
		c.metrics.Fetched(c.entity)
		v, ok, err := c.table.Get(ctx, id)
		if err == nil && !ok {
			err = errCatalogMiss
		}
		return v, err
	})
	if errors.Is(err, errCatalogMiss) {
		var zero T
		return zero, false, nil
	}
	if err != nil {
		var zero T
		return zero, false, err
	}
	return v, true, nil
}

// FindAll reads the whole table through the cache.
func (c *Catalog[T, P]) FindAll(ctx context.Context) ([]T, error) {
	return c.cachedList(ctx, c.keys.SerializeKey(c.prefix+"FindAll"), c.table.List)
}

// Delete removes the row and drops the cached entries of the entity.
func (c *Catalog[T, P]) Delete(ctx context.Context, id int64) error {
	if err := c.records.Delete(ctx, id); err != nil {
		return err
	}
	return c.invalidate(ctx)
}

// Exists reports whether FindByID would find the row.
func (c *Catalog[T, P]) Exists(ctx context.Context, id int64) (bool, error) {
	_, ok, err := c.FindByID(ctx, id)
	return ok, err
}

// Update rewrites the row and drops the cached entries of the entity.
func (c *Catalog[T, P]) Update(ctx context.Context, entity T) error {
	if err := c.records.Update(ctx, entity); err != nil {
		return err
	}
	return c.invalidate(ctx)
}

func (c *Catalog[T, P]) cachedList(ctx context.Context, key string, fetch cache.FetchFn[[]T]) ([]T, error) {
	list, err := cache.GetOrFetch(ctx, c.cache, key, func(ctx context.Context) ([]T, error) {
		c.metrics.Fetched(c.entity)
		return fetch(ctx)
	})
	if err != nil {
		return nil, err
	}
	// Callers get their own copy of the cached slice.
	return slices.Clone(list), nil
}

func (c *Catalog[T, P]) invalidate(ctx context.Context) error {
	return c.cache.DeleteByPrefix(ctx, c.prefix)
}

// SpeciesRepository is the species catalog.
type SpeciesRepository struct {
	*Catalog[model.Species, *model.Species]
}

// NewSpeciesRepository builds a SpeciesRepository over db and svc.
func NewSpeciesRepository(db bun.IDB, svc cache.CacheService, keys cache.KeySerializer, opts Options) *SpeciesRepository {
	return &SpeciesRepository{newCatalog[model.Species, *model.Species](db, svc, keys, "species", opts)}
}

// BreedRepository is the breed catalog.
type BreedRepository struct {
	*Catalog[model.Breed, *model.Breed]
}

// NewBreedRepository builds a BreedRepository over db and svc.
func NewBreedRepository(db bun.IDB, svc cache.CacheService, keys cache.KeySerializer, opts Options) *BreedRepository {
	return &BreedRepository{newCatalog[model.Breed, *model.Breed](db, svc, keys, "breed", opts)}
}

// FindBySpecies lists the breeds of a species, through the cache.
func (r *BreedRepository) FindBySpecies(ctx context.Context, speciesID int64) ([]model.Breed, error) {
	key := r.keys.SerializeKey(r.prefix+"FindBySpecies", speciesID)
	return r.cachedList(ctx, key, func(ctx context.Context) ([]model.Breed, error) {
		var breeds []model.Breed
		err := r.table.DB().NewSelect().
			Model(&breeds).
			Where("?TableAlias.especie_id = ?", speciesID).
			OrderExpr("?TableAlias.nombre ASC").
			Scan(ctx)
		if err != nil {
			return nil, repository.Storage(err, "breed", "find_by_species")
		}
		return breeds, nil
	})
}
