package db

import (
	"context"
	"sync"
)

// Mem is an in-memory KV. It is safe for concurrent use.
type Mem struct {
	mu   sync.RWMutex
	vals map[string]string
}

func NewMem() *Mem {
	return &Mem{vals: make(map[string]string)}
}

func (m *Mem) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.vals[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Mem) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vals[key] = value
	return nil
}

func (m *Mem) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.vals, key)
	return nil
}

// Has reports whether key is present.
func (m *Mem) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.vals[key]
	return ok
}

func (m *Mem) Close() error { return nil }
