package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go-storefront-proxy/internal/interfaces"
	"go-storefront-proxy/internal/kvstore"
)

// ErrCorrupt is returned by Load when the stored record cannot be decoded
var ErrCorrupt = errors.New("corrupt cart record")

// Ensure KVStore implements Store
var _ Store = (*KVStore)(nil)

// KVStore keeps the ledger as a JSON array under the cartItems key
type KVStore struct {
	kv interfaces.KVStore
}

// NewKVStore creates a ledger store over a key-value store
func NewKVStore(kv interfaces.KVStore) *KVStore {
	return &KVStore{kv: kv}
}

// Load reads the ledger; an absent record is an empty cart
func (s *KVStore) Load(ctx context.Context) ([]LineItem, error) {
	raw, found, err := s.kv.Get(ctx, kvstore.KeyCartItems)
	if err != nil {
		return nil, err
	}
	if !found || len(raw) == 0 {
		return nil, nil
	}

	var items []LineItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return items, nil
}

// Save overwrites the ledger
func (s *KVStore) Save(ctx context.Context, items []LineItem) error {
	if items == nil {
		items = []LineItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	return s.kv.Set(ctx, kvstore.KeyCartItems, raw)
}
