package cart

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-storefront-proxy/internal/kvstore"
	"go-storefront-proxy/internal/kvstore/memory"
)

// flakyStore fails Save while failSave is set
type flakyStore struct {
	mu       sync.Mutex
	saved    []LineItem
	saves    int
	failSave bool
	loadErr  error
	loaded   []LineItem
}

func (s *flakyStore) Load(context.Context) ([]LineItem, error) {
	return s.loaded, s.loadErr
}

func (s *flakyStore) Save(_ context.Context, items []LineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSave {
		return errors.New("disk full")
	}
	s.saves++
	s.saved = cloneItems(items)
	return nil
}

var (
	filter = Product{ID: "p1", Name: "Filtre à huile", UnitPrice: 25000}
	pump   = Product{ID: "p2", Name: "Pompe à eau", UnitPrice: 120000}
)

func newTestLedger(t *testing.T, store Store) *Ledger {
	t.Helper()
	ledger, err := NewLedger(context.Background(), store, zap.NewNop())
	require.NoError(t, err)
	return ledger
}

func TestLedger_AddTwiceIncrementsQuantity(t *testing.T) {
	ctx := context.Background()
	ledger := newTestLedger(t, &flakyStore{})

	require.NoError(t, ledger.Add(ctx, filter))
	require.NoError(t, ledger.Add(ctx, filter))

	items := ledger.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "Filtre à huile", items[0].DisplayName)
}

func TestLedger_AddWithQuantity(t *testing.T) {
	tests := []struct {
		name     string
		qty      int
		expected int
	}{
		{"positive", 3, 3},
		{"zero becomes one", 0, 1},
		{"negative becomes one", -4, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := newTestLedger(t, &flakyStore{})
			require.NoError(t, ledger.AddWithQuantity(context.Background(), pump, tt.qty))
			assert.Equal(t, tt.expected, ledger.Count())
		})
	}
}

func TestLedger_AddRejectsMissingID(t *testing.T) {
	ledger := newTestLedger(t, &flakyStore{})
	assert.ErrorIs(t, ledger.Add(context.Background(), Product{Name: "?"}), ErrInvalidProduct)
}

func TestLedger_CountAndTotal(t *testing.T) {
	ctx := context.Background()
	ledger := newTestLedger(t, &flakyStore{})

	require.NoError(t, ledger.AddWithQuantity(ctx, filter, 2))
	require.NoError(t, ledger.Add(ctx, pump))

	assert.Equal(t, 3, ledger.Count())
	assert.Equal(t, int64(2*25000+120000), ledger.Total())
}

func TestLedger_Remove(t *testing.T) {
	ctx := context.Background()
	ledger := newTestLedger(t, &flakyStore{})

	require.NoError(t, ledger.Add(ctx, filter))
	require.NoError(t, ledger.Add(ctx, pump))
	require.NoError(t, ledger.Remove(ctx, filter.ID))

	items := ledger.Items()
	require.Len(t, items, 1)
	assert.Equal(t, pump.ID, items[0].ProductID)

	assert.ErrorIs(t, ledger.Remove(ctx, "missing"), ErrNotInCart)
}

func TestLedger_Clear(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{}
	ledger := newTestLedger(t, store)

	require.NoError(t, ledger.Add(ctx, filter))
	require.NoError(t, ledger.Clear(ctx))

	assert.Zero(t, ledger.Count())
	assert.Empty(t, store.saved)
}

func TestLedger_FailedSaveRollsBack(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{}
	ledger := newTestLedger(t, store)
	require.NoError(t, ledger.Add(ctx, filter))

	store.failSave = true
	assert.Error(t, ledger.Add(ctx, filter))
	assert.Error(t, ledger.Clear(ctx))

	assert.Equal(t, 1, ledger.Count())
}

func TestLedger_PersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := memory.New(0)

	first := newTestLedger(t, NewKVStore(kv))
	require.NoError(t, first.AddWithQuantity(ctx, filter, 2))
	require.NoError(t, first.Add(ctx, pump))

	second := newTestLedger(t, NewKVStore(kv))
	assert.Equal(t, first.Items(), second.Items())
	assert.Equal(t, first.Total(), second.Total())
}

func TestLedger_StorefrontRecordShape(t *testing.T) {
	ctx := context.Background()
	kv := memory.New(0)
	require.NoError(t, kv.Set(ctx, kvstore.KeyCartItems,
		[]byte(`[{"_id":"p9","product_name":"Courroie","price":15000,"quantity":2}]`)))

	ledger := newTestLedger(t, NewKVStore(kv))

	assert.Equal(t, []LineItem{{ProductID: "p9", DisplayName: "Courroie", UnitPrice: 15000, Quantity: 2}}, ledger.Items())
}

func TestLedger_CorruptRecordIsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := memory.New(0)
	require.NoError(t, kv.Set(ctx, kvstore.KeyCartItems, []byte(`{not json`)))

	ledger := newTestLedger(t, NewKVStore(kv))

	assert.Empty(t, ledger.Items())
	require.NoError(t, ledger.Add(ctx, filter))
	assert.Equal(t, 1, ledger.Count())
}

func TestLedger_LoadErrorIsReturned(t *testing.T) {
	_, err := NewLedger(context.Background(), &flakyStore{loadErr: errors.New("io error")}, zap.NewNop())
	assert.Error(t, err)
}

func TestLedger_NormalizesForeignRecords(t *testing.T) {
	ledger := newTestLedger(t, &flakyStore{loaded: []LineItem{
		{ProductID: "p1", UnitPrice: 10, Quantity: 1},
		{ProductID: "", UnitPrice: 10, Quantity: 3},
		{ProductID: "p2", UnitPrice: 10, Quantity: 0},
		{ProductID: "p1", UnitPrice: 10, Quantity: 2},
	}})

	items := ledger.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestLedger_ClearAfter(t *testing.T) {
	ctx := context.Background()

	t.Run("empty cart", func(t *testing.T) {
		ledger := newTestLedger(t, &flakyStore{})
		called := false
		err := ledger.ClearAfter(ctx, func([]LineItem, int64) error {
			called = true
			return nil
		})
		assert.ErrorIs(t, err, ErrEmpty)
		assert.False(t, called)
	})

	t.Run("callback failure keeps cart", func(t *testing.T) {
		ledger := newTestLedger(t, &flakyStore{})
		require.NoError(t, ledger.Add(ctx, filter))

		err := ledger.ClearAfter(ctx, func([]LineItem, int64) error { return errors.New("write failed") })
		assert.Error(t, err)
		assert.Equal(t, 1, ledger.Count())
	})

	t.Run("success clears once", func(t *testing.T) {
		store := &flakyStore{}
		ledger := newTestLedger(t, store)
		require.NoError(t, ledger.AddWithQuantity(ctx, pump, 2))
		savesBefore := store.saves

		var gotTotal int64
		err := ledger.ClearAfter(ctx, func(items []LineItem, total int64) error {
			gotTotal = total
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, int64(240000), gotTotal)
		assert.Zero(t, ledger.Count())
		assert.Equal(t, savesBefore+1, store.saves)
	})
}

func TestLedger_ConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	ledger := newTestLedger(t, NewKVStore(memory.New(0)))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = ledger.Add(ctx, filter)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, ledger.Count())
}
