// Package threadsafe provides small concurrency-safe containers.
package threadsafe

import "sync"

// Map is a mutex-guarded map that remembers insertion order. Range visits
// entries in the order they were first set, which keeps teardown passes
// deterministic.
type Map[K comparable, V any] struct {
	mu    sync.RWMutex
	m     map[K]V
	order []K
}

// NewMap creates a new thread-safe map.
func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{
		m: make(map[K]V),
	}
}

// Set adds or updates a key-value pair in the map.
func (m *Map[K, V]) Set(key K, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.m[key]; !exists {
		m.order = append(m.order, key)
	}
	m.m[key] = value
}

// Get retrieves a value by key from the map.
func (m *Map[K, V]) Get(key K) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	val, ok := m.m[key]
	return val, ok
}

// Delete removes a key from the map if present.
func (m *Map[K, V]) Delete(key K) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.m[key]; !exists {
		return
	}

	delete(m.m, key)
	for i, k := range m.order {
		if k == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of entries in the map.
func (m *Map[K, V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.m)
}

// Range iterates over all key-value pairs in insertion order.
// The iteration stops if the provided function returns false.
func (m *Map[K, V]) Range(fn func(K, V) bool) {
	m.mu.RLock()
	keys := make([]K, len(m.order))
	copy(keys, m.order)
	m.mu.RUnlock()

	for _, k := range keys {
		m.mu.RLock()
		v, ok := m.m[k]
		m.mu.RUnlock()

		if !ok {
			continue
		}
		if !fn(k, v) {
			break
		}
	}
}
