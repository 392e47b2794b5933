package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is an in-process Cache. Expired entries are dropped when read.
type MemoryCache struct {
	mutex      sync.RWMutex
	entries    map[string]entry
	generation int64
	now        func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mutex.RLock()
	e, ok := m.entries[key]
	m.mutex.RUnlock()
	if !ok {
		return nil, false, nil
	}

	if !m.now().Before(e.expiresAt) {
		m.mutex.Lock()
		if cur, ok := m.entries[key]; ok && cur.expiresAt.Equal(e.expiresAt) {
			delete(m.entries, key)
		}
		m.mutex.Unlock()
		return nil, false, nil
	}

	return e.value, true, nil
}

func (m *MemoryCache) Generation(_ context.Context) (int64, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.generation, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration, gen int64) (bool, error) {
	if ttl <= 0 {
		return false, nil
	}
	cp := make([]byte, len(value))
	copy(cp, value)

	m.mutex.Lock()
	defer m.mutex.Unlock()
	if gen != m.generation {
		return false, nil
	}
	m.entries[key] = entry{value: cp, expiresAt: m.now().Add(ttl)}
	return true, nil
}

func (m *MemoryCache) Clear(_ context.Context) error {
	m.mutex.Lock()
	m.entries = make(map[string]entry)
	m.generation++
	m.mutex.Unlock()
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (m *MemoryCache) Len() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.entries)
}
