package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/go-redis/redis/v8"

	"go-storefront-proxy/internal/interfaces"
)

// Ensure Store implements interfaces.KVStore
var _ interfaces.KVStore = (*Store)(nil)

// Store keeps client state in Redis/KeyDB under prefix:kv:<key>, so several
// proxies can share one cart. Quotas are left to the server's maxmemory policy.
type Store struct {
	client interfaces.KeyDbClient
	prefix string
}

// New creates a store on top of an existing KeyDB client
func New(client interfaces.KeyDbClient, prefix string) *Store {
	if prefix == "" {
		prefix = "storefront"
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) key(key string) string {
	return s.prefix + ":kv:" + key
}

// Get fetches the value stored under key
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key without expiration
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Delete removes key
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Close closes the client connection
func (s *Store) Close() error {
	return s.client.Close()
}
