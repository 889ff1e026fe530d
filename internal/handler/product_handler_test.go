package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mtljason322/freshcart/internal/domain"
	"github.com/mtljason322/freshcart/internal/events"
	"github.com/mtljason322/freshcart/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var today = domain.NewDate(2025, time.March, 10)

type stubHistory struct {
	events []events.InventoryEvent
	err    error
}

func (s *stubHistory) History(ctx context.Context, sku string) ([]events.InventoryEvent, error) {
	return s.events, s.err
}

func newTestRouter(opts ...service.Option) *gin.Engine {
	gin.SetMode(gin.TestMode)
	opts = append([]service.Option{service.WithClock(domain.FixedClock(today))}, opts...)
	svc := service.NewProductService(zap.NewNop(), opts...)
	return NewRouter(NewProductHandler(svc, zap.NewNop()), zap.NewNop())
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestHealth(t *testing.T) {
	r := newTestRouter()

	w := do(t, r, http.MethodGet, "/api/v1/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHealth_Root(t *testing.T) {
	r := newTestRouter()

	w := do(t, r, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestCreateAndListRegularProduct(t *testing.T) {
	r := newTestRouter()

	w := do(t, r, http.MethodPost, "/api/v1/products", gin.H{
		"sku": "P1", "name": "Coffee", "initial_price": 8.0, "type": "regular",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	created := decode[map[string]any](t, w)
	assert.Equal(t, "P1", created["sku"])
	assert.Equal(t, "regular", created["type"])
	assert.Equal(t, 8.0, created["final_price"])
	assert.NotContains(t, created, "expiry_date")

	w = do(t, r, http.MethodGet, "/api/v1/products", nil)
	require.Equal(t, http.StatusOK, w.Code)

	items := decode[[]domain.ProductResponse](t, w)
	require.Len(t, items, 1)
	assert.Equal(t, "P1", items[0].SKU)
}

func TestCreateProduct_DefaultsToRegular(t *testing.T) {
	r := newTestRouter()

	w := do(t, r, http.MethodPost, "/api/v1/products", gin.H{"sku": "P1", "name": "Sugar", "initial_price": 0})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, domain.KindRegular, decode[domain.ProductResponse](t, w).Type)
}

func TestCreateProduct_PerishableRequiresExpiry(t *testing.T) {
	r := newTestRouter()

	w := do(t, r, http.MethodPost, "/api/v1/products", gin.H{
		"sku": "X1", "name": "Milk", "initial_price": 4.0, "type": "perishable",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCreateProduct_PerishableDiscount(t *testing.T) {
	r := newTestRouter()

	w := do(t, r, http.MethodPost, "/api/v1/products", gin.H{
		"sku": "X2", "name": "Yogurt", "initial_price": 3.0, "type": "perishable",
		"expiry_date": today.AddDays(2).String(),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	resp := decode[domain.ProductResponse](t, w)
	assert.Equal(t, 1.5, resp.FinalPrice)
	assert.Equal(t, 3.0, resp.Price)
	require.NotNil(t, resp.ExpiryDate)
	assert.Equal(t, "2025-03-12", resp.ExpiryDate.String())
}

func TestCreateProduct_InvalidPayloads(t *testing.T) {
	r := newTestRouter()

	cases := map[string]gin.H{
		"negative price": {"sku": "N1", "name": "x", "initial_price": -1},
		"missing price":  {"sku": "N2", "name": "x"},
		"missing sku":    {"name": "x", "initial_price": 1},
		"unknown type":   {"sku": "N3", "name": "x", "initial_price": 1, "type": "frozen"},
		"bad date": {
			"sku": "N4", "name": "x", "initial_price": 1, "type": "perishable", "expiry_date": "03/12/2025",
		},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			w := do(t, r, http.MethodPost, "/api/v1/products", body)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		})
	}

	w := do(t, r, http.MethodGet, "/api/v1/products", nil)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestCreateProduct_DuplicateSKU(t *testing.T) {
	r := newTestRouter()
	body := gin.H{"sku": "DUP", "name": "Sugar", "initial_price": 2.0}

	assert.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/api/v1/products", body).Code)

	w := do(t, r, http.MethodPost, "/api/v1/products", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"SKU already exists"}`, w.Body.String())
}

func TestInventoryValueAndExpired(t *testing.T) {
	r := newTestRouter()
	for _, body := range []gin.H{
		{"sku": "A1", "name": "Coffee", "initial_price": 8.0},
		{"sku": "A2", "name": "Sugar", "initial_price": 2.0},
		{"sku": "P0", "name": "Yogurt", "initial_price": 3.0, "type": "perishable", "expiry_date": today.AddDays(-1).String()},
		{"sku": "P2", "name": "Milk", "initial_price": 4.0, "type": "perishable", "expiry_date": today.AddDays(2).String()},
	} {
		require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/api/v1/products", body).Code)
	}

	w := do(t, r, http.MethodGet, "/api/v1/inventory/value", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total_value":12}`, w.Body.String())

	w = do(t, r, http.MethodGet, "/api/v1/products/expired", nil)
	require.Equal(t, http.StatusOK, w.Code)
	expired := decode[[]domain.ProductResponse](t, w)
	require.Len(t, expired, 1)
	assert.Equal(t, "P0", expired[0].SKU)
	assert.Equal(t, 0.0, expired[0].FinalPrice)

	w = do(t, r, http.MethodGet, "/api/v1/products", nil)
	var skus []string
	for _, p := range decode[[]domain.ProductResponse](t, w) {
		skus = append(skus, p.SKU)
	}
	assert.Equal(t, []string{"A2", "P0", "P2", "A1"}, skus)
}

func TestGetAndRemoveProduct(t *testing.T) {
	r := newTestRouter()
	require.Equal(t, http.StatusCreated,
		do(t, r, http.MethodPost, "/api/v1/products", gin.H{"sku": "S1", "name": "Tea", "initial_price": 5.5}).Code)

	w := do(t, r, http.MethodGet, "/api/v1/products/S1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5.5, decode[domain.ProductResponse](t, w).FinalPrice)

	assert.Equal(t, http.StatusNoContent, do(t, r, http.MethodDelete, "/api/v1/products/S1", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/api/v1/products/S1", nil).Code)

	w = do(t, r, http.MethodDelete, "/api/v1/products/UNKNOWN", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Product not found"}`, w.Body.String())
}

func TestProductHistory(t *testing.T) {
	r := newTestRouter()
	assert.Equal(t, http.StatusServiceUnavailable, do(t, r, http.MethodGet, "/api/v1/products/A1/history", nil).Code)

	hist := &stubHistory{events: []events.InventoryEvent{{EventID: "e1", Type: events.ProductAdded, SKU: "A1"}}}
	r = newTestRouter(service.WithHistory(hist))

	w := do(t, r, http.MethodGet, "/api/v1/products/A1/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[[]events.InventoryEvent](t, w)
	require.Len(t, got, 1)
	assert.Equal(t, "e1", got[0].EventID)

	hist.err = errors.New("dynamodb unavailable")
	assert.Equal(t, http.StatusInternalServerError, do(t, r, http.MethodGet, "/api/v1/products/A1/history", nil).Code)
}
