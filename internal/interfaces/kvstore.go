package interfaces

import "context"

//go:generate mockgen -package=mock -source=kvstore.go -destination=mock/kvstore.go

// KVStore is durable storage keyed by string, shared by every component of one client
type KVStore interface {
	// Get returns the stored value and whether the key exists
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
