package catalog

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"go-storefront-proxy/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(&config.CatalogConfig{BaseURL: server.URL}, zaptest.NewLogger(t))
	require.NoError(t, err)
	return client
}

func TestClient_Products(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/pieces", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))

		_, _ = w.Write([]byte(`{"success":true,"data":[{"_id":"p1","product_name":"Filtre","prix_unitaire_GNF":25000}],
			"pagination":{"page":2,"limit":10,"total":11,"totalPages":2,"hasMore":false}}`))
	})

	page, err := client.Products(context.Background(), 2, 10)
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, Product{ID: "p1", Name: "Filtre", UnitPrice: 25000}, page.Products[0])
	assert.Equal(t, 2, page.Pagination.TotalPages)
}

func TestClient_Products_DefaultPagination(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "15", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"success":true,"data":[]}`))
	})

	page, err := client.Products(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Empty(t, page.Products)
	assert.Equal(t, 1, page.Pagination.TotalPages)
}

func TestClient_Product(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/pieces/p42", r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true,"data":{"_id":"p42","product_name":"Pompe","prix_unitaire_GNF":120000}}`))
	})

	product, err := client.Product(context.Background(), "p42")
	require.NoError(t, err)
	assert.Equal(t, "Pompe", product.Name)
	assert.Equal(t, int64(120000), product.UnitPrice)
}

func TestClient_OfflinePayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"success":false,"offline":true,"message":"API indisponible (offline)"}`))
	})

	_, err := client.Product(context.Background(), "p1")
	assert.ErrorIs(t, err, ErrOffline)
}

func TestClient_APIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"message":"Pièce introuvable"}`))
	})

	_, err := client.Product(context.Background(), "nope")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Pièce introuvable", apiErr.Message)
}

func TestClient_NonJSONError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	_, err := client.Products(context.Background(), 1, 10)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}

func TestClient_Analyze(t *testing.T) {
	image := []byte{0xff, 0xd8, 0xff, 0xe0}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/image/analyze", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		assert.Equal(t, base64.StdEncoding.EncodeToString(image), body["image"])

		_, _ = w.Write([]byte(`{"success":true,"analysis":{"partNameFr":"Alternateur","brandDetected":"Bosch"},
			"matchedProducts":[{"_id":"p7","product_name":"Alternateur 24V","prix_unitaire_GNF":900000}]}`))
	})

	result, err := client.Analyze(context.Background(), image)
	require.NoError(t, err)
	assert.Equal(t, "Alternateur", result.Analysis.PartNameFr)
	assert.Equal(t, "Bosch", result.Analysis.BrandDetected)
	require.Len(t, result.MatchedProducts, 1)
	assert.Equal(t, "p7", result.MatchedProducts[0].ID)
}

func TestClient_Analyze_Empty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := client.Analyze(context.Background(), nil)
	assert.Error(t, err)
}

func TestClient_NetworkError(t *testing.T) {
	client, err := NewClient(&config.CatalogConfig{BaseURL: "http://127.0.0.1:1"}, zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = client.Products(context.Background(), 1, 10)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrOffline)
}
