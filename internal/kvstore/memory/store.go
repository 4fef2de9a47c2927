package memory

import (
	"context"
	"sync"

	"go-storefront-proxy/internal/interfaces"
	"go-storefront-proxy/internal/kvstore"
)

// Ensure Store implements interfaces.KVStore
var _ interfaces.KVStore = (*Store)(nil)

// Store keeps values in process memory. It backs tests and ephemeral runs.
type Store struct {
	mu     sync.RWMutex
	data   map[string][]byte
	used   int64
	quota  int64
	closed bool
}

// New creates an empty store; quota of zero means unlimited
func New(quota int64) *Store {
	return &Store{
		data:  make(map[string][]byte),
		quota: quota,
	}
}

// Get returns a copy of the value stored under key
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, false, kvstore.ErrClosed
	}

	value, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

// Set stores a copy of value under key
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return kvstore.ErrClosed
	}

	old, exists := s.data[key]
	if !kvstore.FitsQuota(s.quota, s.used, key, exists, len(old), len(value)) {
		return kvstore.ErrQuotaExceeded
	}

	if !exists {
		s.used += int64(len(key))
	}
	s.used += int64(len(value) - len(old))
	s.data[key] = append([]byte(nil), value...)
	return nil
}

// Delete removes key; deleting an absent key is not an error
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return kvstore.ErrClosed
	}

	if old, ok := s.data[key]; ok {
		s.used -= int64(len(key) + len(old))
		delete(s.data, key)
	}
	return nil
}

// Close marks the store closed
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
