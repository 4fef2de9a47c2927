package multi

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"go-storefront-proxy/internal/cache"
	"go-storefront-proxy/internal/interfaces"
	"go-storefront-proxy/internal/interfaces/mock"
	"go-storefront-proxy/internal/models"
)

func okEntry(body string) *models.CacheEntry {
	return &models.CacheEntry{Status: http.StatusOK, Body: []byte(body)}
}

func TestNewMultiCache(t *testing.T) {
	logger := zap.NewNop()
	ctrl := gomock.NewController(t)

	cache1 := mock.NewMockCache(ctrl)
	cache2 := mock.NewMockCache(ctrl)
	caches := []interfaces.Cache{cache1, cache2}

	multiCache := NewMultiCache(caches, logger, true)

	assert.NotNil(t, multiCache)
	mc := multiCache.(*MultiCache)
	assert.Equal(t, 2, mc.GetCacheCount())
	assert.Equal(t, cache1, mc.caches[0])
	assert.Equal(t, cache2, mc.caches[1])
	assert.True(t, mc.enablePropagation)
}

func TestMultiCache_GetWithLevel_FirstCacheHit(t *testing.T) {
	ctrl := gomock.NewController(t)

	cache1 := mock.NewMockCache(ctrl)
	cache2 := mock.NewMockCache(ctrl)
	multiCache := NewMultiCache([]interfaces.Cache{cache1, cache2}, zap.NewNop(), true)

	expected := okEntry("shell")
	cache1.EXPECT().Get("app-shell-v3", "GET /").Return(expected, true).Times(1)
	// cache2.Get should not be called since cache1 has the value

	result := multiCache.GetWithLevel("app-shell-v3", "GET /")

	assert.True(t, result.Found)
	assert.Equal(t, models.CacheLevelL1, result.Level)
	assert.Equal(t, expected, result.Entry)
}

func TestMultiCache_GetWithLevel_SecondCacheHitPropagates(t *testing.T) {
	ctrl := gomock.NewController(t)

	cache1 := mock.NewMockCache(ctrl)
	cache2 := mock.NewMockCache(ctrl)
	multiCache := NewMultiCache([]interfaces.Cache{cache1, cache2}, zap.NewNop(), true)

	expected := okEntry("products")
	cache1.EXPECT().Get("api-v3", "GET /api/products").Return(nil, false)
	cache2.EXPECT().Get("api-v3", "GET /api/products").Return(expected, true)
	cache1.EXPECT().Set("api-v3", "GET /api/products", expected).Return(nil)

	result := multiCache.GetWithLevel("api-v3", "GET /api/products")

	assert.True(t, result.Found)
	assert.Equal(t, models.CacheLevelL2, result.Level)
	assert.Equal(t, expected, result.Entry)
}

func TestMultiCache_Get_SecondCacheHitWithoutPropagation(t *testing.T) {
	ctrl := gomock.NewController(t)

	cache1 := mock.NewMockCache(ctrl)
	cache2 := mock.NewMockCache(ctrl)
	multiCache := NewMultiCache([]interfaces.Cache{cache1, cache2}, zap.NewNop(), false)

	expected := okEntry("products")
	cache1.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, false)
	cache2.EXPECT().Get(gomock.Any(), gomock.Any()).Return(expected, true)
	cache1.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	entry, found := multiCache.Get("api-v3", "GET /api/products")

	assert.True(t, found)
	assert.Equal(t, expected, entry)
}

func TestMultiCache_Get_AllCachesMiss(t *testing.T) {
	ctrl := gomock.NewController(t)

	cache1 := mock.NewMockCache(ctrl)
	cache2 := mock.NewMockCache(ctrl)
	multiCache := NewMultiCache([]interfaces.Cache{cache1, cache2}, zap.NewNop(), true)

	cache1.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, false)
	cache2.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, false)

	result := multiCache.GetWithLevel("images-v3", "GET /images/a.png")

	assert.False(t, result.Found)
	assert.Nil(t, result.Entry)
	assert.Equal(t, models.CacheLevelMiss, result.Level)
}

func TestMultiCache_Get_NoCaches(t *testing.T) {
	multiCache := NewMultiCache([]interfaces.Cache{}, zap.NewNop(), true)

	entry, found := multiCache.Get("images-v3", "GET /images/a.png")

	assert.False(t, found)
	assert.Nil(t, entry)
}

func TestMultiCache_Set_AllCaches(t *testing.T) {
	ctrl := gomock.NewController(t)

	cache1 := mock.NewMockCache(ctrl)
	cache2 := mock.NewMockCache(ctrl)
	multiCache := NewMultiCache([]interfaces.Cache{cache1, cache2}, zap.NewNop(), true)

	entry := okEntry("png")
	cache1.EXPECT().Set("images-v3", "GET /images/a.png", entry).Return(nil)
	cache2.EXPECT().Set("images-v3", "GET /images/a.png", entry).Return(nil)

	assert.NoError(t, multiCache.Set("images-v3", "GET /images/a.png", entry))
}

func TestMultiCache_Set_ReportsTierFailure(t *testing.T) {
	ctrl := gomock.NewController(t)

	cache1 := mock.NewMockCache(ctrl)
	cache2 := mock.NewMockCache(ctrl)
	multiCache := NewMultiCache([]interfaces.Cache{cache1, cache2}, zap.NewNop(), true)

	writeErr := errors.New("keydb down")
	cache1.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	cache2.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any()).Return(writeErr)

	err := multiCache.Set("images-v3", "GET /images/a.png", okEntry("png"))

	assert.ErrorIs(t, err, writeErr)
}

func TestMultiCache_Set_NonSuccessNeverReachesTiers(t *testing.T) {
	ctrl := gomock.NewController(t)

	cache1 := mock.NewMockCache(ctrl)
	multiCache := NewMultiCache([]interfaces.Cache{cache1}, zap.NewNop(), true)

	cache1.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	err := multiCache.Set("api-v3", "GET /api/products", &models.CacheEntry{Status: http.StatusBadGateway})

	assert.ErrorIs(t, err, cache.ErrNotCacheable)
}

func TestMultiCache_Delete_AllCaches(t *testing.T) {
	ctrl := gomock.NewController(t)

	cache1 := mock.NewMockCache(ctrl)
	cache2 := mock.NewMockCache(ctrl)
	multiCache := NewMultiCache([]interfaces.Cache{cache1, cache2}, zap.NewNop(), true)

	cache1.EXPECT().Delete("api-v3", "GET /api/products").Times(1)
	cache2.EXPECT().Delete("api-v3", "GET /api/products").Times(1)

	multiCache.Delete("api-v3", "GET /api/products")
}

func TestMultiCache_Buckets_Union(t *testing.T) {
	ctrl := gomock.NewController(t)

	cache1 := mock.NewMockCache(ctrl)
	cache2 := mock.NewMockCache(ctrl)
	multiCache := NewMultiCache([]interfaces.Cache{cache1, cache2}, zap.NewNop(), true)

	cache1.EXPECT().Buckets().Return([]string{"app-shell-v3"}, nil)
	cache2.EXPECT().Buckets().Return([]string{"app-shell-v3", "images-v2"}, nil)

	names, err := multiCache.Buckets()

	require.NoError(t, err)
	assert.Equal(t, []string{"app-shell-v3", "images-v2"}, names)
}

func TestMultiCache_Buckets_Error(t *testing.T) {
	ctrl := gomock.NewController(t)

	cache1 := mock.NewMockCache(ctrl)
	cache2 := mock.NewMockCache(ctrl)
	multiCache := NewMultiCache([]interfaces.Cache{cache1, cache2}, zap.NewNop(), true)

	cache1.EXPECT().Buckets().Return([]string{"app-shell-v3"}, nil)
	cache2.EXPECT().Buckets().Return(nil, errors.New("timeout"))

	_, err := multiCache.Buckets()

	assert.Error(t, err)
}

func TestMultiCache_DeleteBucket_AllCaches(t *testing.T) {
	ctrl := gomock.NewController(t)

	cache1 := mock.NewMockCache(ctrl)
	cache2 := mock.NewMockCache(ctrl)
	multiCache := NewMultiCache([]interfaces.Cache{cache1, cache2}, zap.NewNop(), true)

	cache1.EXPECT().DeleteBucket("images-v2").Return(nil)
	cache2.EXPECT().DeleteBucket("images-v2").Return(nil)

	assert.NoError(t, multiCache.DeleteBucket("images-v2"))
}
