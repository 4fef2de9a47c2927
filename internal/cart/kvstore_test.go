package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go-storefront-proxy/internal/interfaces/mock"
	"go-storefront-proxy/internal/kvstore"
)

func TestKVStore_Load(t *testing.T) {
	tests := []struct {
		name      string
		raw       []byte
		found     bool
		getErr    error
		expected  []LineItem
		expectErr error
	}{
		{name: "absent", found: false},
		{name: "empty value", raw: []byte{}, found: true},
		{
			name:     "items",
			raw:      []byte(`[{"_id":"p1","product_name":"Filtre","price":100,"quantity":2}]`),
			found:    true,
			expected: []LineItem{{ProductID: "p1", DisplayName: "Filtre", UnitPrice: 100, Quantity: 2}},
		},
		{name: "corrupt", raw: []byte(`[{`), found: true, expectErr: ErrCorrupt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			kv := mock.NewMockKVStore(ctrl)
			kv.EXPECT().Get(gomock.Any(), kvstore.KeyCartItems).Return(tt.raw, tt.found, tt.getErr)

			items, err := NewKVStore(kv).Load(context.Background())
			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, items)
		})
	}
}

func TestKVStore_LoadError(t *testing.T) {
	ctrl := gomock.NewController(t)
	kv := mock.NewMockKVStore(ctrl)
	kv.EXPECT().Get(gomock.Any(), kvstore.KeyCartItems).Return(nil, false, errors.New("locked"))

	_, err := NewKVStore(kv).Load(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCorrupt)
}

func TestKVStore_SaveEmptyWritesArray(t *testing.T) {
	ctrl := gomock.NewController(t)
	kv := mock.NewMockKVStore(ctrl)
	kv.EXPECT().Set(gomock.Any(), kvstore.KeyCartItems, []byte(`[]`)).Return(nil)

	require.NoError(t, NewKVStore(kv).Save(context.Background(), nil))
}
