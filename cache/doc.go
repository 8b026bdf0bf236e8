// Package cache provides the caching contracts used by the clinic repositories.
//
// # Overview
//
// Two kinds of cache are exposed:
//
//   - IdentityCache: an unbounded, concurrency-safe map from record identifier
//     to the last value confirmed by storage. The cache-aside repositories in
//     package repositorycache hold one per entity kind. Entries never expire;
//     they are replaced after a confirmed update and removed after a confirmed
//     delete.
//   - CacheService: a bounded read-through cache with TTL, backed by sturdyc.
//     It serves catalog lookups (species, breeds) that are read constantly and
//     written rarely.
//
// # Basic Usage
//
//	ids := cache.NewIdentityCache[int64, model.Hemogram]()
//	ids.Put(h.ID, h)
//
//	svc, err := cache.NewCacheService(cache.DefaultConfig())
//	breeds, err := cache.GetOrFetch(ctx, svc, key, func(ctx context.Context) ([]model.Breed, error) {
//		return store.BySpecies(ctx, speciesID)
//	})
//
// # Key Serialization
//
// NewDefaultKeySerializer joins a method name and its arguments with
// KeySeparator. Keys built for the same method share a prefix, so a write can
// invalidate every cached variant with CacheService.DeleteByPrefix.
//
// # Unbounded identity caches
//
// The identity cache assumes the dataset of one clinic fits in memory. If that
// stops being true the cache needs an eviction policy; until then none is
// applied.
package cache
