package collection

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyncMap_PutIfAbsent(t *testing.T) {
	m := NewSyncMap[string, int]()
	v, stored := m.PutIfAbsent("a", 1)
	assert.True(t, stored)
	assert.Equal(t, 1, v)

	v, stored = m.PutIfAbsent("a", 2)
	assert.False(t, stored)
	assert.Equal(t, 1, v)
	assert.Equal(t, 1, m.Len())
}

func TestSyncMap_PutIfAbsent_Concurrent(t *testing.T) {
	m := NewSyncMap[string, int]()
	var wg sync.WaitGroup
	var mux sync.Mutex
	stores := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, ok := m.PutIfAbsent("key", i); ok {
				mux.Lock()
				stores++
				mux.Unlock()
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, stores)
}

func TestSyncMap_TakeAndRange(t *testing.T) {
	m := NewSyncMap[string, int]()
	m.Put("a", 1)
	m.Put("b", 2)

	v, ok := m.Take("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	_, ok = m.Take("a")
	assert.False(t, ok)

	visited := map[string]int{}
	m.Range(func(k string, v int) bool {
		visited[k] = v
		m.Delete(k)
		return true
	})
	assert.Equal(t, map[string]int{"b": 2}, visited)
	assert.Equal(t, 0, m.Len())
}
