// Package order turns the cart into an immutable order snapshot and renders it
// as a receipt or as the message sent to the shop.
package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-storefront-proxy/internal/cart"
	"go-storefront-proxy/internal/config"
	"go-storefront-proxy/internal/interfaces"
	"go-storefront-proxy/internal/kvstore"
)

// ErrEmptyCart is returned when checking out an empty cart
var ErrEmptyCart = errors.New("cannot check out an empty cart")

// Snapshot is the last order placed. Only one is retained.
type Snapshot struct {
	ID          string          `json:"id,omitempty"`
	Date        time.Time       `json:"date"`
	Delivery    bool            `json:"delivery"`
	DeliveryFee *int64          `json:"delivery_fee,omitempty"` // nil for pickup and for orders that predate the field
	Items       []cart.LineItem `json:"items"`
	Total       int64           `json:"total"`
}

// Service checks out the ledger into the key-value store
type Service struct {
	ledger      *cart.Ledger
	kv          interfaces.KVStore
	deliveryFee int64
	now         func() time.Time
	logger      *zap.Logger
}

// NewService creates an order service
func NewService(ledger *cart.Ledger, kv interfaces.KVStore, cfg *config.CheckoutConfig, logger *zap.Logger) *Service {
	return &Service{
		ledger:      ledger,
		kv:          kv,
		deliveryFee: cfg.DeliveryFee,
		now:         time.Now,
		logger:      logger,
	}
}

// DeliveryFee returns the surcharge applied when delivery is selected
func (s *Service) DeliveryFee() int64 {
	return s.deliveryFee
}

// Checkout writes the snapshot, then clears the cart. A failed write leaves the
// cart intact; a failed clear puts the previous snapshot back.
func (s *Service) Checkout(ctx context.Context, delivery bool) (*Snapshot, error) {
	var (
		snapshot    *Snapshot
		previous    []byte
		hadPrevious bool
		written     bool
	)

	err := s.ledger.ClearAfter(ctx, func(items []cart.LineItem, total int64) error {
		snapshot = &Snapshot{
			ID:       uuid.NewString(),
			Date:     s.now().UTC(),
			Delivery: delivery,
			Items:    items,
			Total:    total,
		}
		if delivery {
			fee := s.deliveryFee
			snapshot.DeliveryFee = &fee
			snapshot.Total += fee
		}

		var err error
		previous, hadPrevious, err = s.kv.Get(ctx, kvstore.KeyLastOrder)
		if err != nil {
			return fmt.Errorf("failed to read previous order: %w", err)
		}

		raw, err := json.Marshal(snapshot)
		if err != nil {
			return fmt.Errorf("failed to encode order: %w", err)
		}
		if err := s.kv.Set(ctx, kvstore.KeyLastOrder, raw); err != nil {
			return fmt.Errorf("failed to write order: %w", err)
		}
		written = true
		return nil
	})

	if err != nil {
		if errors.Is(err, cart.ErrEmpty) {
			return nil, ErrEmptyCart
		}
		if written {
			s.restore(ctx, previous, hadPrevious)
		}
		return nil, err
	}

	s.logger.Info("Order placed",
		zap.String("order_id", snapshot.ID),
		zap.Int("lines", len(snapshot.Items)),
		zap.Int64("total", snapshot.Total),
		zap.Bool("delivery", delivery))
	return snapshot, nil
}

func (s *Service) restore(ctx context.Context, previous []byte, hadPrevious bool) {
	var err error
	if hadPrevious {
		err = s.kv.Set(ctx, kvstore.KeyLastOrder, previous)
	} else {
		err = s.kv.Delete(ctx, kvstore.KeyLastOrder)
	}
	if err != nil {
		s.logger.Error("Failed to restore previous order", zap.Error(err))
	}
}

// LastOrder returns the retained snapshot, or an empty one dated now
func (s *Service) LastOrder(ctx context.Context) (*Snapshot, error) {
	raw, found, err := s.kv.Get(ctx, kvstore.KeyLastOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to read order: %w", err)
	}
	if !found {
		return s.empty(), nil
	}

	var snapshot Snapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		s.logger.Warn("Discarding corrupt order record", zap.Error(err))
		return s.empty(), nil
	}
	if snapshot.Items == nil {
		snapshot.Items = []cart.LineItem{}
	}
	return &snapshot, nil
}

func (s *Service) empty() *Snapshot {
	return &Snapshot{Date: s.now().UTC(), Items: []cart.LineItem{}}
}
