package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-storefront-proxy/internal/kvstore"
)

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New(0)

	_, found, err := s.Get(ctx, kvstore.KeyCartItems)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set(ctx, kvstore.KeyCartItems, []byte(`[]`)))

	value, found, err := s.Get(ctx, kvstore.KeyCartItems)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte(`[]`), value)

	value[0] = 'x'
	again, _, _ := s.Get(ctx, kvstore.KeyCartItems)
	assert.Equal(t, []byte(`[]`), again, "callers must not alias stored bytes")

	require.NoError(t, s.Delete(ctx, kvstore.KeyCartItems))
	_, found, err = s.Get(ctx, kvstore.KeyCartItems)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_Quota(t *testing.T) {
	ctx := context.Background()
	s := New(20)

	require.NoError(t, s.Set(ctx, "k", []byte("0123456789")))
	assert.ErrorIs(t, s.Set(ctx, "other", []byte("0123456789")), kvstore.ErrQuotaExceeded)

	require.NoError(t, s.Set(ctx, "k", []byte("0123456789012345678")))
	require.NoError(t, s.Delete(ctx, "k"))
	require.NoError(t, s.Set(ctx, "other", []byte("0123456789")))
}

func TestStore_Closed(t *testing.T) {
	ctx := context.Background()
	s := New(0)
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.Set(ctx, "k", nil), kvstore.ErrClosed)
	_, _, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, kvstore.ErrClosed)
}

func TestStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, New(0).Set(ctx, "k", nil), context.Canceled)
}
