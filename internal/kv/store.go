// Package kv is the portal's key-value store adapter. Values are JSON
// documents stored under string keys; a Store is scoped to a namespace the
// way one browser profile scopes its local storage.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
)

var (
	// ErrNotExist is returned by backends for a missing key.
	ErrNotExist = errors.New("kv: key does not exist")
	// ErrQuotaExceeded is returned when a write would exceed the backend quota.
	ErrQuotaExceeded = errors.New("kv: storage quota exceeded")
)

// Backend is a flat byte-oriented key space.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// Store serializes values to JSON over a Backend, within a key prefix.
type Store struct {
	backend Backend
	prefix  string
	locks   *keyLocks
}

// New returns the root Store over b.
func New(b Backend) *Store {
	return &Store{backend: b, locks: &keyLocks{m: make(map[string]*keyLock)}}
}

// Namespace returns a Store whose keys live under parts joined by "/".
// Namespaces share the backend and the write locks of their parent.
func (s *Store) Namespace(parts ...string) *Store {
	return &Store{
		backend: s.backend,
		prefix:  s.prefix + strings.Join(parts, "/") + "/",
		locks:   s.locks,
	}
}

// Ping checks the backend when it can report its health.
func (s *Store) Ping(ctx context.Context) error {
	if p, ok := s.backend.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Prefix is the namespace prefix applied to every key.
func (s *Store) Prefix() string { return s.prefix }

func (s *Store) full(key string) string { return s.prefix + key }

// Load decodes the value at key into v. It reports false when the key is
// missing or empty. An entry that no longer parses is deleted and treated as
// missing.
func (s *Store) Load(ctx context.Context, key string, v any) (bool, error) {
	raw, err := s.backend.Get(ctx, s.full(key))
	if errors.Is(err, ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("kv: load %s: %w", key, err)
	}
	if len(raw) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		log.Printf("Warning: kv: discarding corrupted entry %q: %v", s.full(key), err)
		if derr := s.backend.Delete(ctx, s.full(key)); derr != nil {
			log.Printf("Warning: kv: delete corrupted entry %q: %v", s.full(key), derr)
		}
		return false, nil
	}
	return true, nil
}

// Save encodes v as JSON and writes it at key.
func (s *Store) Save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("kv: encode %s: %w", key, err)
	}
	if err := s.backend.Set(ctx, s.full(key), raw); err != nil {
		return fmt.Errorf("kv: save %s: %w", key, err)
	}
	return nil
}

// SaveRaw writes raw bytes without encoding them.
func (s *Store) SaveRaw(ctx context.Context, key string, raw []byte) error {
	if err := s.backend.Set(ctx, s.full(key), raw); err != nil {
		return fmt.Errorf("kv: save %s: %w", key, err)
	}
	return nil
}

// Has reports whether key holds a non-empty value.
func (s *Store) Has(ctx context.Context, key string) (bool, error) {
	raw, err := s.backend.Get(ctx, s.full(key))
	if errors.Is(err, ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("kv: read %s: %w", key, err)
	}
	return len(raw) > 0, nil
}

// Remove deletes every given key. Missing keys are skipped.
func (s *Store) Remove(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		if err := s.backend.Delete(ctx, s.full(k)); err != nil {
			return fmt.Errorf("kv: remove %s: %w", k, err)
		}
	}
	return nil
}

// Keys lists the keys of this namespace, without the prefix.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	full, err := s.backend.Keys(ctx, s.prefix)
	if err != nil {
		return nil, fmt.Errorf("kv: list %q: %w", s.prefix, err)
	}
	keys := make([]string, 0, len(full))
	for _, k := range full {
		keys = append(keys, strings.TrimPrefix(k, s.prefix))
	}
	return keys, nil
}

// Update runs a read-modify-write of key while holding the key's lock.
// fn receives the current value (zero when missing or corrupted) and
// reports whether it changed; unchanged values are not written back.
func Update[T any](ctx context.Context, s *Store, key string, fn func(v *T) (bool, error)) error {
	unlock := s.locks.lock(s.full(key))
	defer unlock()

	var v T
	if _, err := s.Load(ctx, key, &v); err != nil {
		return err
	}
	changed, err := fn(&v)
	if err != nil || !changed {
		return err
	}
	return s.Save(ctx, key, v)
}

// keyLocks hands out one mutex per key. Entries are refcounted and dropped
// once nobody holds or waits for them.
type keyLocks struct {
	mu sync.Mutex
	m  map[string]*keyLock
}

type keyLock struct {
	sync.Mutex
	refs int
}

func (l *keyLocks) lock(key string) func() {
	l.mu.Lock()
	k, ok := l.m[key]
	if !ok {
		k = &keyLock{}
		l.m[key] = k
	}
	k.refs++
	l.mu.Unlock()

	k.Lock()
	return func() {
		k.Unlock()
		l.mu.Lock()
		k.refs--
		if k.refs == 0 {
			delete(l.m, key)
		}
		l.mu.Unlock()
	}
}

// held reports how many keys currently have a lock entry.
func (l *keyLocks) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.m)
}
