package cacheinfra

import "github.com/puzpuzpuz/xsync/v3"

// IdentityMap is an unbounded concurrent map backed by xsync.MapOf. Readers
// never block writers and a stored value is always seen whole.
type IdentityMap[K comparable, V any] struct {
	entries *xsync.MapOf[K, V]
}

// NewIdentityMap returns an empty map.
func NewIdentityMap[K comparable, V any]() *IdentityMap[K, V] {
	return &IdentityMap[K, V]{entries: xsync.NewMapOf[K, V]()}
}

func (m *IdentityMap[K, V]) Get(key K) (V, bool) {
	return m.entries.Load(key)
}

func (m *IdentityMap[K, V]) Put(key K, value V) {
	m.entries.Store(key, value)
}

func (m *IdentityMap[K, V]) Remove(key K) bool {
	_, ok := m.entries.LoadAndDelete(key)
	return ok
}

func (m *IdentityMap[K, V]) Len() int {
	return m.entries.Size()
}

func (m *IdentityMap[K, V]) Clear() {
	m.entries.Clear()
}
