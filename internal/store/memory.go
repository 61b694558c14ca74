package store

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process KV used by tests and single-node dev mode.
// TTLs are honored lazily: an expired entry is dropped on the next read.
type Memory struct {
	mu     sync.RWMutex
	values map[string]memoryEntry
	lists  map[string][]string
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		values: make(map[string]memoryEntry),
		lists:  make(map[string][]string),
	}
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	m.values[key] = entry
	return nil
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		delete(m.values, key)
		return nil, ErrNotFound
	}
	return append([]byte(nil), entry.value...), nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *Memory) PushFront(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists[key] = append([]string{value}, m.lists[key]...)
	return nil
}

func (m *Memory) Range(_ context.Context, key string, start, stop int64) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := m.lists[key]
	n := int64(len(list))
	if stop < 0 {
		stop = n + stop
	}
	if start < 0 {
		start = n + start
	}
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if n == 0 || start > stop {
		return nil, nil
	}
	return append([]string(nil), list[start:stop+1]...), nil
}

func (m *Memory) RemoveValue(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.lists[key]
	kept := list[:0]
	for _, v := range list {
		if v != value {
			kept = append(kept, v)
		}
	}
	m.lists[key] = kept
	return nil
}
