package kv

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// DefaultQuota mirrors the usual per-origin local storage allowance.
const DefaultQuota = 5 << 20

// Memory is an in-process Backend. A positive quota caps the summed size of
// keys and values within each QuotaScope.
type Memory struct {
	mu    sync.RWMutex
	data  map[string][]byte
	used  map[string]int64
	quota int64
}

// NewMemory returns an empty Memory backend; quota <= 0 disables the cap.
func NewMemory(quota int64) *Memory {
	return &Memory{data: make(map[string][]byte), used: make(map[string]int64), quota: quota}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotExist
	}
	return append([]byte(nil), v...), nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	scope := QuotaScope(key)
	used := m.used[scope] + int64(len(key)+len(value))
	if old, ok := m.data[key]; ok {
		used -= int64(len(key) + len(old))
	}
	if m.quota > 0 && used > m.quota {
		return ErrQuotaExceeded
	}
	m.data[key] = append([]byte(nil), value...)
	m.used[scope] = used
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.data[key]; ok {
		scope := QuotaScope(key)
		m.used[scope] -= int64(len(key) + len(old))
		if m.used[scope] == 0 {
			delete(m.used, scope)
		}
		delete(m.data, key)
	}
	return nil
}

func (m *Memory) Keys(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var keys []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Used returns the bytes charged to scope (see QuotaScope).
func (m *Memory) Used(scope string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.used[scope]
}

var _ Backend = (*Memory)(nil)
