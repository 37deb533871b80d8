package inventory_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nikolayk812/cartstore-demo/internal/inventory"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

type fakeBackend struct {
	mu       sync.Mutex
	products map[int64]map[string]any
	stock    map[int64]int
	patches  []int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		products: map[int64]map[string]any{
			1: {"id": 1, "title": "Tênis de Caminhada Leve Confortável", "price": 179.9, "image": "https://example.com/1.jpg"},
			2: {"id": 2, "title": "Tênis VR Caminhada Confortável", "price": 139.9, "image": "https://example.com/2.jpg"},
		},
		stock: map[int64]int{1: 3, 2: 5},
	}
}

func (b *fakeBackend) router() http.Handler {
	r := chi.NewRouter()

	r.Get("/products", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()

		list := make([]map[string]any, 0, len(b.products))
		for id := int64(1); id <= int64(len(b.products)); id++ {
			list = append(list, b.products[id])
		}
		writeJSON(w, http.StatusOK, list)
	})

	r.Get("/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()

		product, ok := b.products[pathID(r)]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{})
			return
		}
		writeJSON(w, http.StatusOK, product)
	})

	r.Get("/stock/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()

		id := pathID(r)
		amount, ok := b.stock[id]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": id, "amount": amount})
	})

	r.Patch("/stock/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()

		var body struct {
			Amount int `json:"amount"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{})
			return
		}

		id := pathID(r)
		b.stock[id] = body.Amount
		b.patches = append(b.patches, body.Amount)
		writeJSON(w, http.StatusOK, map[string]any{"id": id, "amount": body.Amount})
	})

	return r
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func setupClient(t *testing.T, handler http.Handler, opts inventory.Options) *inventory.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	opts.BaseURL = srv.URL
	opts.HTTPClient = srv.Client()

	client, err := inventory.New(opts)
	require.NoError(t, err)

	return client
}

func TestNew_EmptyBaseURL(t *testing.T) {
	_, err := inventory.New(inventory.Options{})
	require.EqualError(t, err, "base URL is empty")
}

func TestClient_ListProducts(t *testing.T) {
	client := setupClient(t, newFakeBackend().router(), inventory.Options{Currency: currency.BRL})

	products, err := client.ListProducts(t.Context())
	require.NoError(t, err)

	require.Len(t, products, 2)
	assert.Equal(t, int64(1), products[0].ID)
	assert.Equal(t, "Tênis de Caminhada Leve Confortável", products[0].Title)
	assert.True(t, decimal.RequireFromString("179.9").Equal(products[0].Price.Amount))
	assert.Equal(t, currency.BRL, products[0].Price.Currency)
}

func TestClient_GetProduct(t *testing.T) {
	client := setupClient(t, newFakeBackend().router(), inventory.Options{Currency: currency.USD})

	tests := []struct {
		name         string
		productID    int64
		wantNotFound bool
	}{
		{
			name:      "existing product: ok",
			productID: 2,
		},
		{
			name:         "unknown product: not found",
			productID:    42,
			wantNotFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product, err := client.GetProduct(t.Context(), tt.productID)
			if tt.wantNotFound {
				require.ErrorIs(t, err, inventory.ErrNotFound)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, tt.productID, product.ID)
			assert.Equal(t, currency.USD, product.Price.Currency)
		})
	}
}

func TestClient_GetProduct_EmptyObject(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{})
	})
	client := setupClient(t, r, inventory.Options{})

	_, err := client.GetProduct(t.Context(), 7)
	require.ErrorIs(t, err, inventory.ErrNotFound)
}

func TestClient_GetStock(t *testing.T) {
	client := setupClient(t, newFakeBackend().router(), inventory.Options{})

	stock, err := client.GetStock(t.Context(), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stock.ProductID)
	assert.Equal(t, 5, stock.Amount)

	_, err = client.GetStock(t.Context(), 99)
	require.ErrorIs(t, err, inventory.ErrNotFound)
}

func TestClient_UpdateStock(t *testing.T) {
	backend := newFakeBackend()
	client := setupClient(t, backend.router(), inventory.Options{})

	stock, err := client.UpdateStock(t.Context(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, stock.Amount)

	backend.mu.Lock()
	defer backend.mu.Unlock()
	assert.Equal(t, []int{2}, backend.patches)
	assert.Equal(t, 2, backend.stock[1])
}

func TestClient_UnexpectedStatus(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/stock/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	client := setupClient(t, r, inventory.Options{})

	_, err := client.GetStock(t.Context(), 1)
	require.ErrorContains(t, err, "unexpected status 500")
}

func TestClient_BreakerOpens(t *testing.T) {
	var hits atomic.Int32

	r := chi.NewRouter()
	r.Get("/stock/{id}", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})
	client := setupClient(t, r, inventory.Options{
		BreakerFailures: 2,
		BreakerCooldown: time.Minute,
	})

	for range 2 {
		_, err := client.GetStock(t.Context(), 1)
		require.Error(t, err)
	}

	_, err := client.GetStock(t.Context(), 1)
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(2), hits.Load())
}

func TestClient_NotFoundDoesNotTripBreaker(t *testing.T) {
	client := setupClient(t, newFakeBackend().router(), inventory.Options{BreakerFailures: 1})

	for range 3 {
		_, err := client.GetStock(t.Context(), 99)
		require.ErrorIs(t, err, inventory.ErrNotFound)
	}

	_, err := client.GetStock(t.Context(), 1)
	require.NoError(t, err)
}
