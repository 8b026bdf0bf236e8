package cache

import "context"

// IdentityCache maps record identifiers to the last known record value.
// Implementations must be safe for concurrent use and never expire entries
// on their own.
type IdentityCache[K comparable, V any] interface {
	Get(key K) (V, bool)
	Put(key K, value V)
	// Remove reports whether an entry was present.
	Remove(key K) bool
	Len() int
	Clear()
}

// KeySerializer builds a cache key from a method name + arbitrary args.
// It is responsible for producing stable keys across calls.
type KeySerializer interface {
	SerializeKey(method string, args ...any) string
}

// FetchFn is the function signature CacheService expects when fetching from the source of truth.
type FetchFn[T any] func(ctx context.Context) (T, error)

// CacheService exposes the bounded read-through cache used for catalog data.
type CacheService interface {
	// GetOrFetch returns the value cached under key or stores the result of
	// fetch. Errors returned by fetch are never cached.
	GetOrFetch(ctx context.Context, key string, fetch func(ctx context.Context) (any, error)) (any, error)
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
	Len() int
}

// GetOrFetch is a type-safe wrapper function that provides generic support for CacheService.
func GetOrFetch[T any](ctx context.Context, service CacheService, key string, fetchFn FetchFn[T]) (T, error) {
	result, err := service.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		return fetchFn(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	if result == nil {
		var zero T
		return zero, nil
	}
	value, ok := result.(T)
	if !ok {
		var zero T
		return zero, &TypeError{Key: key, Got: result}
	}
	return value, nil
}

// TypeError is returned when a cached value does not have the requested type,
// which happens when two callers share a key for different record types.
type TypeError struct {
	Key string
	Got any
}

func (e *TypeError) Error() string {
	return "cache: unexpected value type for key " + e.Key
}
