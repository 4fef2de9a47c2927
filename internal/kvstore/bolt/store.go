package bolt

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"go-storefront-proxy/internal/interfaces"
	"go-storefront-proxy/internal/kvstore"
)

const stateBucket = "storefront"

// Ensure Store implements interfaces.KVStore
var _ interfaces.KVStore = (*Store)(nil)

// Store provides a BoltDB-backed key-value store.
type Store struct {
	db    *bbolt.DB
	quota int64
}

// Open opens a BoltDB-backed store at the provided path.
func Open(path string, quota int64) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	db, err := bbolt.Open(cleanPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	store := &Store{db: db, quota: quota}
	if err := store.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get fetches the value stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if s == nil || s.db == nil {
		return nil, false, fmt.Errorf("storage is not configured")
	}

	var (
		value []byte
		found bool
	)
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(stateBucket))
		if bucket == nil {
			return fmt.Errorf("state bucket is missing")
		}
		// Seek distinguishes an empty value from a missing key
		k, v := bucket.Cursor().Seek([]byte(key))
		if k != nil && bytes.Equal(k, []byte(key)) {
			// Bolt memory is only valid inside the transaction
			value = append([]byte{}, v...)
			found = true
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return value, found, nil
}

// Set persists value under key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	if key == "" {
		return fmt.Errorf("key is required")
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(stateBucket))
		if bucket == nil {
			return fmt.Errorf("state bucket is missing")
		}

		if s.quota > 0 {
			k, old := bucket.Cursor().Seek([]byte(key))
			exists := k != nil && bytes.Equal(k, []byte(key))
			if !exists {
				old = nil
			}
			if !kvstore.FitsQuota(s.quota, usedBytes(bucket), key, exists, len(old), len(value)) {
				return kvstore.ErrQuotaExceeded
			}
		}

		if value == nil {
			value = []byte{}
		}
		return bucket.Put([]byte(key), value)
	})
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(stateBucket))
		if bucket == nil {
			return fmt.Errorf("state bucket is missing")
		}
		return bucket.Delete([]byte(key))
	})
}

func usedBytes(bucket *bbolt.Bucket) int64 {
	var used int64
	_ = bucket.ForEach(func(k, v []byte) error {
		used += int64(len(k) + len(v))
		return nil
	})
	return used
}

func (s *Store) ensureBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(stateBucket)); err != nil {
			return fmt.Errorf("create state bucket: %w", err)
		}
		return nil
	})
}
