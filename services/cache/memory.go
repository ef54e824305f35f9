package cache

import (
	"sync"
	"time"
)

type memoryItem struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is an in-process CacheService used when no memcache server is configured
type MemoryCache struct {
	mu    sync.RWMutex
	items map[string]memoryItem
	now   func() time.Time
}

// NewMemoryCache creates an empty in-memory cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		items: make(map[string]memoryItem),
		now:   time.Now,
	}
}

// Get retrieves a value if present and not expired
func (m *MemoryCache) Get(key string) ([]byte, error) {
	m.mu.RLock()
	item, ok := m.items[key]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrCacheMiss
	}
	if m.expired(item) {
		m.mu.Lock()
		// A Set may have replaced the entry since the read lock was released
		if current, ok := m.items[key]; ok && m.expired(current) {
			delete(m.items, key)
		}
		m.mu.Unlock()
		return nil, ErrCacheMiss
	}
	return item.value, nil
}

func (m *MemoryCache) expired(item memoryItem) bool {
	return !item.expiresAt.IsZero() && !m.now().Before(item.expiresAt)
}

// Set stores a value; a non-positive expiration never expires
func (m *MemoryCache) Set(key string, value []byte, expiration time.Duration) error {
	item := memoryItem{value: append([]byte(nil), value...)}
	if expiration > 0 {
		item.expiresAt = m.now().Add(expiration)
	}

	m.mu.Lock()
	m.items[key] = item
	m.mu.Unlock()
	return nil
}

// Delete removes a value
func (m *MemoryCache) Delete(key string) error {
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()
	return nil
}
