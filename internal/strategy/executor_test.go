package strategy

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"go-storefront-proxy/internal/cache/l1"
	"go-storefront-proxy/internal/cache/noop"
	"go-storefront-proxy/internal/cache/service"
	"go-storefront-proxy/internal/config"
	"go-storefront-proxy/internal/generations"
	"go-storefront-proxy/internal/interfaces/mock"
	"go-storefront-proxy/internal/models"
)

const origin = "https://shop.example.com"

var (
	imageDecision = models.Decision{Intercept: true, Strategy: models.StrategyNetworkFirstBackgroundFill, Role: models.RoleImages}
	apiDecision   = models.Decision{Intercept: true, Strategy: models.StrategyNetworkFirstOfflineFallback, Role: models.RoleAPI}
	shellDecision = models.Decision{Intercept: true, Strategy: models.StrategyCacheFirst, Role: models.RoleAppShell}
)

func newManager(t *testing.T) *generations.Manager {
	t.Helper()
	return newManagerWith(t, &config.BigCacheConfig{Size: 10, Shards: 16})
}

func newManagerWith(t *testing.T, cfg *config.BigCacheConfig) *generations.Manager {
	t.Helper()
	l1Cache, err := l1.NewBigCache(cfg, zap.NewNop())
	require.NoError(t, err)
	store := service.NewCacheService(l1Cache, noop.NewNoOpCache(), false, zap.NewNop())
	t.Cleanup(func() { _ = store.Close() })
	return generations.NewManager("v3", origin, []string{"/"}, store, nil, zap.NewNop())
}

func response(status int, contentType string, body []byte) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{contentType}},
		Body:       io.NopCloser(strings.NewReader(string(body))),
	}
}

func get(path string) *http.Request {
	return httptest.NewRequest(http.MethodGet, origin+path, nil)
}

func TestExecutor_Images_StoredBodyEqualsLiveBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mock.NewMockFetcher(ctrl)
	manager := newManager(t)
	executor := NewExecutor(fetcher, manager, zap.NewNop())

	png := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0xff}
	fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(response(http.StatusOK, "image/png", png), nil)

	result, err := executor.Execute(context.Background(), imageDecision, get("/images/pad.png"))
	require.NoError(t, err)
	executor.Wait()

	assert.Equal(t, SourceNetwork, result.Source)
	assert.Equal(t, []State{StateFetching, StateDone}, result.Transitions)
	assert.Equal(t, png, result.Response.Body)

	stored, found := manager.Bucket(models.RoleImages).Match(get("/images/pad.png"))
	require.True(t, found)
	assert.Equal(t, result.Response.Body, stored.Body)
	assert.Equal(t, "image/png", stored.Header.Get("Content-Type"))
}

func TestExecutor_Images_LargeImageStoredWithDefaultSizing(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	fetcher := mock.NewMockFetcher(ctrl)
	manager := newManagerWith(t, &cfg.BigCache)
	executor := NewExecutor(fetcher, manager, zap.NewNop())

	photo := make([]byte, 200*1024)
	for i := range photo {
		photo[i] = byte(i * 31)
	}
	fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(response(http.StatusOK, "image/jpeg", photo), nil)

	result, err := executor.Execute(context.Background(), imageDecision, get("/images/brake-disc.jpg"))
	require.NoError(t, err)
	executor.Wait()

	assert.Equal(t, SourceNetwork, result.Source)
	assert.Len(t, result.Response.Body, len(photo))

	stored, found := manager.Bucket(models.RoleImages).Match(get("/images/brake-disc.jpg"))
	require.True(t, found)
	assert.Equal(t, photo, stored.Body)
}

func TestExecutor_Images_FallbackToCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mock.NewMockFetcher(ctrl)
	manager := newManager(t)
	executor := NewExecutor(fetcher, manager, zap.NewNop())

	stored := &models.CacheEntry{Status: http.StatusOK, Body: []byte("cached-png")}
	require.NoError(t, manager.Bucket(models.RoleImages).Put(get("/images/pad.png"), stored))

	fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(response(http.StatusBadGateway, "text/html", []byte("bad gateway")), nil)

	result, err := executor.Execute(context.Background(), imageDecision, get("/images/pad.png"))
	require.NoError(t, err)

	assert.Equal(t, SourceCache, result.Source)
	assert.Equal(t, []State{StateFetching, StateFallbackLookup, StateDone}, result.Transitions)
	assert.Equal(t, []byte("cached-png"), result.Response.Body)
}

func TestExecutor_Images_Placeholder(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mock.NewMockFetcher(ctrl)
	manager := newManager(t)
	executor := NewExecutor(fetcher, manager, zap.NewNop())

	fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(nil, errors.New("network unreachable"))

	result, err := executor.Execute(context.Background(), imageDecision, get("/images/pad.png"))
	require.NoError(t, err)
	executor.Wait()

	assert.Equal(t, SourceSynthesized, result.Source)
	assert.Equal(t, []State{StateFetching, StateFallbackLookup, StateSynthesizing, StateDone}, result.Transitions)
	assert.Equal(t, "image/svg+xml", result.Response.Header.Get("Content-Type"))
	assert.Equal(t, "no-store", result.Response.Header.Get("Cache-Control"))
	assert.Contains(t, string(result.Response.Body), "Image indisponible")

	_, found := manager.Bucket(models.RoleImages).Match(get("/images/pad.png"))
	assert.False(t, found, "the placeholder must never be stored")
}

func TestExecutor_API_StaleCacheOnNetworkFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mock.NewMockFetcher(ctrl)
	manager := newManager(t)
	executor := NewExecutor(fetcher, manager, zap.NewNop())

	body := []byte(`{"success":true,"data":[{"_id":"p1","product_name":"Filtre","price":25000}]}`)
	gomock.InOrder(
		fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(response(http.StatusOK, "application/json", body), nil),
		fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(nil, errors.New("offline")),
	)

	first, err := executor.Execute(context.Background(), apiDecision, get("/api/products?page=1"))
	require.NoError(t, err)
	executor.Wait()
	assert.Equal(t, SourceNetwork, first.Source)

	second, err := executor.Execute(context.Background(), apiDecision, get("/api/products?page=1"))
	require.NoError(t, err)

	assert.Equal(t, SourceCache, second.Source)
	assert.Equal(t, http.StatusOK, second.Response.Status)
	assert.Equal(t, body, second.Response.Body)
	assert.Equal(t, []State{StateFetching, StateFallbackLookup, StateDone}, second.Transitions)
}

func TestExecutor_API_OfflinePayload(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mock.NewMockFetcher(ctrl)
	executor := NewExecutor(fetcher, newManager(t), zap.NewNop())

	fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(nil, errors.New("offline"))

	result, err := executor.Execute(context.Background(), apiDecision, get("/api/products/42"))
	require.NoError(t, err)

	assert.Equal(t, SourceSynthesized, result.Source)
	assert.Equal(t, http.StatusServiceUnavailable, result.Response.Status)
	assert.Equal(t, `{"success":false,"offline":true,"message":"API indisponible (offline)"}`, string(result.Response.Body))
	assert.Equal(t, "application/json", result.Response.Header.Get("Content-Type"))
	assert.Equal(t, "no-store", result.Response.Header.Get("Cache-Control"))
}

func TestExecutor_API_NonSuccessReturnedAndNotStored(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mock.NewMockFetcher(ctrl)
	manager := newManager(t)
	executor := NewExecutor(fetcher, manager, zap.NewNop())

	fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).
		Return(response(http.StatusNotFound, "application/json", []byte(`{"success":false,"message":"Produit introuvable"}`)), nil)

	result, err := executor.Execute(context.Background(), apiDecision, get("/api/products/missing"))
	require.NoError(t, err)
	executor.Wait()

	assert.Equal(t, SourceNetwork, result.Source)
	assert.Equal(t, http.StatusNotFound, result.Response.Status)

	_, found := manager.Bucket(models.RoleAPI).Match(get("/api/products/missing"))
	assert.False(t, found)
}

func TestExecutor_CacheFirst(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mock.NewMockFetcher(ctrl)
	manager := newManager(t)
	executor := NewExecutor(fetcher, manager, zap.NewNop())

	shell := &models.CacheEntry{Status: http.StatusOK, Body: []byte("<html>shell</html>")}
	require.NoError(t, manager.Bucket(models.RoleAppShell).Put(get("/index.html"), shell))

	t.Run("hit skips the network", func(t *testing.T) {
		result, err := executor.Execute(context.Background(), shellDecision, get("/index.html"))
		require.NoError(t, err)

		assert.Equal(t, SourceCache, result.Source)
		assert.Equal(t, []State{StateCacheLookup, StateDone}, result.Transitions)
		assert.Equal(t, shell.Body, result.Response.Body)
	})

	t.Run("miss fetches and does not store", func(t *testing.T) {
		fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(response(http.StatusOK, "text/html", []byte("<html>cart</html>")), nil)

		result, err := executor.Execute(context.Background(), shellDecision, get("/cart"))
		require.NoError(t, err)
		executor.Wait()

		assert.Equal(t, SourceNetwork, result.Source)
		assert.Equal(t, []State{StateCacheLookup, StateFetching, StateDone}, result.Transitions)

		_, found := manager.Bucket(models.RoleAppShell).Match(get("/cart"))
		assert.False(t, found)
	})

	t.Run("miss while offline", func(t *testing.T) {
		fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(nil, errors.New("offline"))

		result, err := executor.Execute(context.Background(), shellDecision, get("/profile"))
		require.NoError(t, err)

		assert.Equal(t, SourceSynthesized, result.Source)
		assert.Equal(t, http.StatusServiceUnavailable, result.Response.Status)
		assert.Equal(t, "no-store", result.Response.Header.Get("Cache-Control"))
	})
}

func TestExecutor_CacheWriteFailureIsSwallowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mock.NewMockFetcher(ctrl)
	buckets := mock.NewMockBucketResolver(ctrl)
	bucket := mock.NewMockBucket(ctrl)
	executor := NewExecutor(fetcher, buckets, zap.NewNop())

	buckets.EXPECT().Bucket(models.RoleImages).Return(bucket)
	bucket.EXPECT().Name().Return("images-v3").AnyTimes()
	bucket.EXPECT().Put(gomock.Any(), gomock.Any()).Return(errors.New("quota exceeded"))
	fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(response(http.StatusOK, "image/png", []byte("png")), nil)

	result, err := executor.Execute(context.Background(), imageDecision, get("/images/pad.png"))
	require.NoError(t, err)
	executor.Wait()

	assert.Equal(t, SourceNetwork, result.Source)
	assert.Equal(t, http.StatusOK, result.Response.Status)
	assert.Equal(t, []byte("png"), result.Response.Body)
}

func TestExecutor_ResponseDoesNotWaitForCacheWrite(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mock.NewMockFetcher(ctrl)
	buckets := mock.NewMockBucketResolver(ctrl)
	bucket := mock.NewMockBucket(ctrl)
	executor := NewExecutor(fetcher, buckets, zap.NewNop())

	release := make(chan struct{})
	written := make(chan []byte, 1)

	buckets.EXPECT().Bucket(models.RoleAPI).Return(bucket)
	bucket.EXPECT().Put(gomock.Any(), gomock.Any()).DoAndReturn(func(_ *http.Request, entry *models.CacheEntry) error {
		<-release
		written <- entry.Body
		return nil
	})
	fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(response(http.StatusOK, "application/json", []byte(`{"success":true}`)), nil)

	ctx, cancel := context.WithCancel(context.Background())
	req := get("/api/products").WithContext(ctx)

	done := make(chan *Result, 1)
	go func() {
		result, _ := executor.Execute(ctx, apiDecision, req)
		done <- result
	}()

	var result *Result
	select {
	case result = <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("response waited for the cache write")
	}
	assert.Equal(t, `{"success":true}`, string(result.Response.Body))

	// The page going away does not abort the write
	cancel()
	close(release)
	executor.Wait()

	assert.Equal(t, []byte(`{"success":true}`), <-written)
}

func TestExecutor_HeadIsNotStored(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mock.NewMockFetcher(ctrl)
	manager := newManager(t)
	executor := NewExecutor(fetcher, manager, zap.NewNop())

	fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(response(http.StatusOK, "image/png", nil), nil)

	head := httptest.NewRequest(http.MethodHead, origin+"/images/pad.png", nil)
	_, err := executor.Execute(context.Background(), imageDecision, head)
	require.NoError(t, err)
	executor.Wait()

	_, found := manager.Bucket(models.RoleImages).Match(get("/images/pad.png"))
	assert.False(t, found)
}

func TestExecutor_PassThroughHasNoHandler(t *testing.T) {
	executor := NewExecutor(nil, newManager(t), zap.NewNop())

	_, err := executor.Execute(context.Background(), models.Decision{Strategy: models.StrategyPassThrough}, get("/"))

	assert.ErrorIs(t, err, ErrNoHandler)
}
