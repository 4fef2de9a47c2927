package bolt

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-storefront-proxy/internal/kvstore"
)

func openTempStore(t *testing.T, quota int64) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "storefront.db")
	store, err := Open(path, quota)
	require.NoError(t, err)
	return store, path
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open("  ", 0)
	assert.Error(t, err)
}

func TestStore_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	store, _ := openTempStore(t, 0)
	defer store.Close()

	_, found, err := store.Get(ctx, kvstore.KeyLastOrder)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, kvstore.KeyLastOrder, []byte(`{"id":"o-1"}`)))

	value, found, err := store.Get(ctx, kvstore.KeyLastOrder)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte(`{"id":"o-1"}`), value)

	require.NoError(t, store.Delete(ctx, kvstore.KeyLastOrder))
	_, found, err = store.Get(ctx, kvstore.KeyLastOrder)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_EmptyValueIsPresent(t *testing.T) {
	ctx := context.Background()
	store, _ := openTempStore(t, 0)
	defer store.Close()

	require.NoError(t, store.Set(ctx, kvstore.KeyPWADismissed, nil))

	value, found, err := store.Get(ctx, kvstore.KeyPWADismissed)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, value)
}

func TestStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	store, path := openTempStore(t, 0)

	require.NoError(t, store.Set(ctx, kvstore.KeyCartItems, []byte(`[{"_id":"p1","quantity":2}]`)))
	require.NoError(t, store.Close())

	reopened, err := Open(path, 0)
	require.NoError(t, err)
	defer reopened.Close()

	value, found, err := reopened.Get(ctx, kvstore.KeyCartItems)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte(`[{"_id":"p1","quantity":2}]`), value)
}

func TestStore_Quota(t *testing.T) {
	ctx := context.Background()
	store, _ := openTempStore(t, 32)
	defer store.Close()

	require.NoError(t, store.Set(ctx, "cartItems", []byte("0123456789")))

	err := store.Set(ctx, "lastOrder", []byte("01234567890123456789"))
	assert.ErrorIs(t, err, kvstore.ErrQuotaExceeded)

	_, found, err := store.Get(ctx, "lastOrder")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_CancelledContext(t *testing.T) {
	store, _ := openTempStore(t, 0)
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.Set(ctx, "k", []byte("v")), context.Canceled)
}
