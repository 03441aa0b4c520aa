// Package memstore is the in-process KV backend: a mutex-guarded map with
// lazy expiry. Suited to tests and single-instance runs; nothing survives
// the process.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/on-the-ground/react_ive_go/store"
)

type entry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Store implements store.KV in memory.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
}

var _ store.KV = (*Store)(nil)

func New() *Store {
	return &Store{entries: make(map[string]entry)}
}

func (s *Store) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
	return nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	e, ok := s.lookup(key)
	if !ok {
		return nil, nil
	}
	return e.value, nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

func (s *Store) Exists(_ context.Context, key string) (bool, error) {
	_, ok := s.lookup(key)
	return ok, nil
}

// lookup returns the live entry for key, reaping it if it has expired.
func (s *Store) lookup(key string) (entry, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return entry{}, false
	}
	if e.expired(time.Now()) {
		s.mu.Lock()
		// re-check: a concurrent Set may have replaced the entry
		if cur, ok := s.entries[key]; ok && cur.expired(time.Now()) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return entry{}, false
	}
	return e, true
}
