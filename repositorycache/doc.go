// Package repositorycache provides the cache-aside repository shared by the
// clinic's read-heavy records: referrals, returns and the three lab panels.
//
// # Overview
//
// CachedRepository wraps a repository.Store with an identifier-keyed
// cache.IdentityCache and implements repository.Repository[T, int64]. One
// generic type serves every entity kind; per-kind rules are injected through
// Config.Check.
//
// # Basic Usage
//
//	table := repository.NewTable[model.Hemogram](db, repository.TableConfig{Entity: "hemogram"})
//	repo := repositorycache.New[model.Hemogram](table, cache.NewIdentityCache[int64, model.Hemogram](),
//		repositorycache.Config[model.Hemogram]{Check: checkHemogramRanges})
//
//	saved, err := repo.Save(ctx, h)          // cached after the insert succeeds
//	h, ok, err := repo.FindByID(ctx, saved.ID) // served from cache
//
// # Caching Behavior
//
// Reads:
//
//  1. FindByID checks the cache and returns a hit without touching storage.
//  2. On a miss it takes the id's stripe lock, re-checks, then reads storage.
//  3. A found row is cached; an absent row is not, so repeated lookups of a
//     missing id query storage every time.
//
// Writes:
//
//   - Save: validate, insert, then cache the record with its new id.
//   - Update: validate, update, then replace the entry if a row was affected.
//   - Delete: delete, then evict the entry if a row was affected.
//
// FindAll and the range and aggregate queries of package clinic go straight
// to storage; they are set-based and never fill the cache.
//
// # Concurrency
//
// The identity cache is concurrency-safe on its own. The stripe locks add
// per-id ordering between a miss fill and a concurrent update or delete so a
// stale read can never overwrite a newer entry.
//
// # Errors
//
// Validation failures from the record or from Config.Check are returned
// before storage is called. Storage failures are logged with their go-errors
// attributes and returned unchanged.
package repositorycache
