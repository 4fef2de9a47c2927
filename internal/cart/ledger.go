// Package cart keeps the shopping cart ledger: one line per product, quantities
// of at least one, persisted in full after every mutation.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"go-storefront-proxy/internal/metrics"
)

var (
	// ErrEmpty is returned by ClearAfter when there is nothing to check out
	ErrEmpty = errors.New("cart is empty")
	// ErrNotInCart is returned by Remove for an unknown product
	ErrNotInCart = errors.New("product not in cart")
	// ErrInvalidProduct is returned when a product has no id
	ErrInvalidProduct = errors.New("product id is required")
)

// LineItem is one cart line. JSON keys match the records written by the storefront pages.
type LineItem struct {
	ProductID   string `json:"_id"`
	DisplayName string `json:"product_name"`
	UnitPrice   int64  `json:"price"`
	Quantity    int    `json:"quantity"`
}

// Subtotal returns quantity times unit price
func (i LineItem) Subtotal() int64 {
	return int64(i.Quantity) * i.UnitPrice
}

// Product is what gets added to the cart
type Product struct {
	ID        string
	Name      string
	UnitPrice int64
}

// Store persists the whole ledger
type Store interface {
	Load(ctx context.Context) ([]LineItem, error)
	Save(ctx context.Context, items []LineItem) error
}

// Ledger is the in-process cart. All mutations are serialized by a mutex and
// written through to the Store before they become visible.
type Ledger struct {
	mu     sync.Mutex
	store  Store
	items  []LineItem
	logger *zap.Logger
}

// NewLedger loads the persisted cart. A corrupt record yields an empty cart.
func NewLedger(ctx context.Context, store Store, logger *zap.Logger) (*Ledger, error) {
	l := &Ledger{store: store, logger: logger}

	items, err := store.Load(ctx)
	switch {
	case errors.Is(err, ErrCorrupt):
		logger.Warn("Discarding corrupt cart record", zap.Error(err))
		items = nil
	case err != nil:
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	l.items = normalize(items)
	logger.Debug("Cart loaded", zap.Int("lines", len(l.items)))
	return l, nil
}

// Add puts one unit of product in the cart
func (l *Ledger) Add(ctx context.Context, product Product) error {
	return l.AddWithQuantity(ctx, product, 1)
}

// AddWithQuantity adds qty units of product; quantities below one count as one
func (l *Ledger) AddWithQuantity(ctx context.Context, product Product, qty int) error {
	if product.ID == "" {
		return ErrInvalidProduct
	}
	if qty < 1 {
		qty = 1
	}

	return l.mutate(ctx, "add", func(items []LineItem) ([]LineItem, error) {
		for i := range items {
			if items[i].ProductID == product.ID {
				items[i].Quantity += qty
				return items, nil
			}
		}
		return append(items, LineItem{
			ProductID:   product.ID,
			DisplayName: product.Name,
			UnitPrice:   product.UnitPrice,
			Quantity:    qty,
		}), nil
	})
}

// Remove deletes the whole line of productID
func (l *Ledger) Remove(ctx context.Context, productID string) error {
	return l.mutate(ctx, "remove", func(items []LineItem) ([]LineItem, error) {
		for i := range items {
			if items[i].ProductID == productID {
				return append(items[:i], items[i+1:]...), nil
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrNotInCart, productID)
	})
}

// Clear empties the cart
func (l *Ledger) Clear(ctx context.Context) error {
	return l.mutate(ctx, "clear", func([]LineItem) ([]LineItem, error) {
		return []LineItem{}, nil
	})
}

// ClearAfter runs fn with the current lines and total, then clears the cart.
// The cart is left untouched when fn fails; no mutation can slip in between.
func (l *Ledger) ClearAfter(ctx context.Context, fn func(items []LineItem, total int64) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.items) == 0 {
		return ErrEmpty
	}
	if err := fn(cloneItems(l.items), total(l.items)); err != nil {
		return err
	}

	return l.mutateLocked(ctx, "checkout", func([]LineItem) ([]LineItem, error) {
		return []LineItem{}, nil
	})
}

// Items returns a copy of the cart lines in insertion order
func (l *Ledger) Items() []LineItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	return cloneItems(l.items)
}

// Count returns the number of units in the cart
func (l *Ledger) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	count := 0
	for _, item := range l.items {
		count += item.Quantity
	}
	return count
}

// Total returns the cart value before delivery
func (l *Ledger) Total() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return total(l.items)
}

func (l *Ledger) mutate(ctx context.Context, op string, fn func([]LineItem) ([]LineItem, error)) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.mutateLocked(ctx, op, fn)
}

// mutateLocked applies fn to a copy and only keeps it once saved
func (l *Ledger) mutateLocked(ctx context.Context, op string, fn func([]LineItem) ([]LineItem, error)) error {
	next, err := fn(cloneItems(l.items))
	if err != nil {
		metrics.RecordCartMutation(op, "error")
		return err
	}

	if err := l.store.Save(ctx, next); err != nil {
		metrics.RecordCartMutation(op, "error")
		l.logger.Error("Failed to save cart", zap.String("operation", op), zap.Error(err))
		return fmt.Errorf("failed to save cart: %w", err)
	}

	l.items = next
	metrics.RecordCartMutation(op, "ok")
	return nil
}

func total(items []LineItem) int64 {
	var sum int64
	for _, item := range items {
		sum += item.Subtotal()
	}
	return sum
}

func cloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}

// normalize drops lines without id or quantity and merges duplicate ids
func normalize(items []LineItem) []LineItem {
	out := make([]LineItem, 0, len(items))
	index := make(map[string]int, len(items))

	for _, item := range items {
		if item.ProductID == "" || item.Quantity < 1 {
			continue
		}
		if i, ok := index[item.ProductID]; ok {
			out[i].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(out)
		out = append(out, item)
	}
	return out
}
