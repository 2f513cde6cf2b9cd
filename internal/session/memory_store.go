package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryStore is the single-instance fallback used when no redis is configured.
// Values are stored JSON-encoded so callers never share memory with the store.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryStore(sessionTTL time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     sessionTTL,
		now:     time.Now,
	}
}

func (m *MemoryStore) load(key string, out any) (bool, error) {
	m.mu.Lock()
	entry, ok := m.entries[key]
	if ok && entry.expired(m.now()) {
		delete(m.entries, key)
		ok = false
	}
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(entry.value, out); err != nil {
		return false, fmt.Errorf("failed to decode value for %s: %w", key, err)
	}
	return true, nil
}

func (m *MemoryStore) store(key string, value any, ttl time.Duration, keepExpiry bool) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value for %s: %w", key, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := memoryEntry{value: raw}
	if old, ok := m.entries[key]; keepExpiry && ok && !old.expired(m.now()) {
		entry.expiresAt = old.expiresAt
	} else if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}
	m.entries[key] = entry
	return nil
}

func (m *MemoryStore) remove(key string) {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	var sess Session
	ok, err := m.load(sessionPrefix+id, &sess)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return &sess, nil
}

func (m *MemoryStore) Save(ctx context.Context, sess *Session) error {
	return m.store(sessionPrefix+sess.ID, sess, m.ttl, true)
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.remove(sessionPrefix + id)
	return nil
}

func (m *MemoryStore) Cache() Cache {
	return memoryCache{m}
}

type memoryCache struct {
	m *MemoryStore
}

func (c memoryCache) Get(ctx context.Context, key string, out any) (bool, error) {
	return c.m.load(cachePrefix+key, out)
}

func (c memoryCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return c.m.store(cachePrefix+key, value, ttl, false)
}

func (c memoryCache) Delete(ctx context.Context, key string) error {
	c.m.remove(cachePrefix + key)
	return nil
}
