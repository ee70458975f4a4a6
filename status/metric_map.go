package status

import (
	"slices"
	"strings"
	"sync"
)

// MetricMap holds one T per dotted metric key, e.g. "audio.music.db"
// Keys are kept sorted on insert so the overlay can render every frame without sorting.
// Writers resolve a pointer once and update it without touching the map again
type MetricMap[T any] struct {
	mu      sync.RWMutex
	metrics map[string]*T
	keys    []string
}

func NewMetricMap[T any]() *MetricMap[T] {
	return &MetricMap[T]{metrics: make(map[string]*T)}
}

// Get returns the metric for key, creating it on first use
func (m *MetricMap[T]) Get(key string) *T {
	if v, ok := m.Lookup(key); ok {
		return v
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.metrics[key]; ok {
		return v
	}
	v := new(T)
	m.metrics[key] = v
	i, _ := slices.BinarySearch(m.keys, key)
	m.keys = slices.Insert(m.keys, i, key)
	return v
}

// Lookup returns the metric for key without creating it
func (m *MetricMap[T]) Lookup(key string) (*T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.metrics[key]
	return v, ok
}

// Range visits metrics whose key starts with prefix, in key order
// An empty prefix visits all of them
func (m *MetricMap[T]) Range(prefix string, fn func(key string, v *T)) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	start, _ := slices.BinarySearch(m.keys, prefix)
	for _, k := range m.keys[start:] {
		if !strings.HasPrefix(k, prefix) {
			break
		}
		fn(k, m.metrics[k])
	}
}

func (m *MetricMap[T]) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.keys)
}
