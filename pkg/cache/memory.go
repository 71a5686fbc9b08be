package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type memoryEntry struct {
	data    []byte
	expires time.Time // zero means no expiry
}

// Memory is an in-process Cacher. Values are stored JSON-encoded so reads
// never alias the caller's data.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemory creates an empty in-process cache
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *Memory) Get(_ context.Context, key string, dest any) error {
	m.mu.Lock()
	entry, ok := m.entries[key]
	if ok && !entry.expires.IsZero() && !m.now().Before(entry.expires) {
		delete(m.entries, key)
		ok = false
	}
	m.mu.Unlock()

	if !ok {
		return ErrMiss
	}
	return json.Unmarshal(entry.data, dest)
}

func (m *Memory) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	entry := memoryEntry{data: data}
	if ttl > 0 {
		entry.expires = m.now().Add(ttl)
	}

	m.mu.Lock()
	m.entries[key] = entry
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	m.mu.Unlock()
	return nil
}

var _ Cacher = (*Memory)(nil)
