package collection

import "sync"

// SyncMap is a generic map guarded by a RW mutex
type SyncMap[K comparable, V any] struct {
	m   map[K]V
	mux sync.RWMutex
}

func (m *SyncMap[K, V]) Get(k K) (V, bool) {
	m.mux.RLock()
	defer m.mux.RUnlock()
	v, ok := m.m[k]
	return v, ok
}

func (m *SyncMap[K, V]) Put(k K, v V) {
	m.mux.Lock()
	defer m.mux.Unlock()
	m.m[k] = v
}

// PutIfAbsent stores v under k unless k is already present; it returns the held value and whether v was stored
func (m *SyncMap[K, V]) PutIfAbsent(k K, v V) (V, bool) {
	m.mux.Lock()
	defer m.mux.Unlock()
	if prev, ok := m.m[k]; ok {
		return prev, false
	}
	m.m[k] = v
	return v, true
}

func (m *SyncMap[K, V]) Delete(k K) {
	m.mux.Lock()
	defer m.mux.Unlock()
	delete(m.m, k)
}

// Take removes and returns the value held under k
func (m *SyncMap[K, V]) Take(k K) (V, bool) {
	m.mux.Lock()
	defer m.mux.Unlock()
	v, ok := m.m[k]
	if ok {
		delete(m.m, k)
	}
	return v, ok
}

func (m *SyncMap[K, V]) Len() int {
	m.mux.RLock()
	defer m.mux.RUnlock()
	return len(m.m)
}

// Range iterates over a snapshot, so f may modify the map
func (m *SyncMap[K, V]) Range(f func(key K, value V) bool) {
	m.mux.RLock()
	snapshot := make(map[K]V, len(m.m))
	for k, v := range m.m {
		snapshot[k] = v
	}
	m.mux.RUnlock()
	for k, v := range snapshot {
		if !f(k, v) {
			return
		}
	}
}

func NewSyncMap[K comparable, V any]() *SyncMap[K, V] {
	return &SyncMap[K, V]{m: make(map[K]V)}
}
