package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/storefront/internal/api/middleware"
	"github.com/example/storefront/internal/auth"
	"github.com/example/storefront/internal/command"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/fixtures"
	"github.com/example/storefront/internal/infrastructure/store/mocks"
	"github.com/example/storefront/internal/query"
	"github.com/example/storefront/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testClient struct {
	t      *testing.T
	router *gin.Engine
	token  string
}

func newTestClient(t *testing.T) (*testClient, *mocks.MockStorage) {
	t.Helper()
	products, err := fixtures.LoadCatalog("")
	require.NoError(t, err)
	reviews, err := fixtures.LoadReviews("")
	require.NoError(t, err)

	storage := mocks.NewMockStorage()
	registry := session.NewRegistry(storage, reviews)
	cmdHandler := command.NewHandler(products, registry, order.NewService(order.WithDelay(0)))
	queryHandler := query.NewHandler(products, registry)

	router := NewRouter(NewHandlers(cmdHandler, queryHandler), RouterOptions{
		JWT: auth.NewJWTService("test-secret-key-test-secret-key!", time.Hour),
	})
	return &testClient{t: t, router: router}, storage
}

// do sends a request and keeps the session token issued on the first call.
func (c *testClient) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)
	if token := rec.Header().Get(middleware.TokenHeader); token != "" {
		c.token = token
	}
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

type cartResponse struct {
	Items []struct {
		ID                 string `json:"id"`
		Quantity           int    `json:"quantity"`
		LineTotalFormatted string `json:"lineTotalFormatted"`
	} `json:"items"`
	ItemCount int `json:"itemCount"`
	Formatted struct {
		Subtotal string `json:"subtotal"`
		Shipping string `json:"shipping"`
		Tax      string `json:"tax"`
		Total    string `json:"total"`
	} `json:"formatted"`
}

// ============================================
// Product Endpoint Tests
// ============================================

func TestAPI_Health(t *testing.T) {
	client, _ := newTestClient(t)

	rec := client.do(http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Empty(t, rec.Header().Get(middleware.TokenHeader))
}

func TestAPI_ListProducts(t *testing.T) {
	client, _ := newTestClient(t)

	rec := client.do(http.MethodGet, "/products?category=Shirts&sort=price-desc&unknown=1", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		Products []struct {
			ID             string `json:"id"`
			PriceFormatted string `json:"priceFormatted"`
		} `json:"products"`
		Total         int    `json:"total"`
		ActiveFilters int    `json:"activeFilters"`
		Sort          string `json:"sort"`
	}](t, rec)
	assert.Equal(t, 2, body.Total)
	assert.Equal(t, 1, body.ActiveFilters)
	assert.Equal(t, "price-desc", body.Sort)
	assert.Equal(t, "p007", body.Products[0].ID)
	assert.Equal(t, "$74.50", body.Products[0].PriceFormatted)
}

func TestAPI_ListProducts_BadRequest(t *testing.T) {
	client, _ := newTestClient(t)

	for _, path := range []string{"/products?sort=stock-asc", "/products?minPrice=cheap"} {
		rec := client.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "error")
	}
}

func TestAPI_GetProduct(t *testing.T) {
	client, _ := newTestClient(t)

	rec := client.do(http.MethodGet, "/products/relaxed-chino", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		ID      string `json:"id"`
		Reviews []any  `json:"reviews"`
	}](t, rec)
	assert.Equal(t, "p003", body.ID)
	assert.Len(t, body.Reviews, 2)

	rec = client.do(http.MethodGet, "/products/no-such-thing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_FeaturedAndFacets(t *testing.T) {
	client, _ := newTestClient(t)

	rec := client.do(http.MethodGet, "/products/featured", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[struct {
		Products []any `json:"products"`
	}](t, rec).Products, 3)

	rec = client.do(http.MethodGet, "/products/facets", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[struct {
		Categories []string `json:"categories"`
	}](t, rec).Categories, 6)
}

// ============================================
// Review Endpoint Tests
// ============================================

func TestAPI_Reviews(t *testing.T) {
	client, _ := newTestClient(t)

	rec := client.do(http.MethodGet, "/products/essential-crew-tee/reviews?rating=5&verified=true&sort=oldest", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[struct {
		Reviews []struct {
			ID string `json:"id"`
		} `json:"reviews"`
	}](t, rec)
	require.Len(t, list.Reviews, 2)
	assert.Equal(t, "r002", list.Reviews[0].ID)

	rec = client.do(http.MethodPost, "/products/essential-crew-tee/reviews", map[string]any{
		"rating": 3,
		"author": "Jo",
		"email":  "jo@example.com",
		"body":   "Shrank a little.",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[struct {
		ID         string `json:"id"`
		IsVerified bool   `json:"isVerified"`
	}](t, rec)
	assert.False(t, created.IsVerified)

	rec = client.do(http.MethodGet, "/products/essential-crew-tee/reviews", nil)
	list = decode[struct {
		Reviews []struct {
			ID string `json:"id"`
		} `json:"reviews"`
	}](t, rec)
	require.Len(t, list.Reviews, 4)
	assert.Equal(t, created.ID, list.Reviews[0].ID)
}

func TestAPI_Reviews_Errors(t *testing.T) {
	client, _ := newTestClient(t)

	rec := client.do(http.MethodPost, "/products/essential-crew-tee/reviews", map[string]any{"rating": 9})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = client.do(http.MethodPost, "/products/essential-crew-tee/reviews", map[string]any{
		"rating": 4, "author": "Jo", "email": "jo at example", "body": "Fine.",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = client.do(http.MethodGet, "/products/essential-crew-tee/reviews?rating=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = client.do(http.MethodPost, "/reviews/r404/helpful", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = client.do(http.MethodPost, "/reviews/r001/helpful", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 13, decode[struct {
		HelpfulCount int `json:"helpfulCount"`
	}](t, rec).HelpfulCount)
}

// ============================================
// Cart and Checkout Endpoint Tests
// ============================================

func TestAPI_CartFlow(t *testing.T) {
	client, storage := newTestClient(t)

	rec := client.do(http.MethodPost, "/cart/items", map[string]any{
		"productId": "p001", "color": "Navy", "size": "L", "quantity": 2,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	c := decode[cartResponse](t, rec)
	require.Len(t, c.Items, 1)
	assert.Equal(t, "p001-Navy-L", c.Items[0].ID)
	assert.Equal(t, "$56.00", c.Formatted.Subtotal)
	assert.NotEmpty(t, storage.SetCalls)

	rec = client.do(http.MethodPatch, "/cart/items/p001-Navy-L", map[string]any{"quantity": 3})
	require.Equal(t, http.StatusOK, rec.Code)
	c = decode[cartResponse](t, rec)
	assert.Equal(t, 3, c.ItemCount)
	assert.Equal(t, "$84.00", c.Formatted.Subtotal)
	assert.Equal(t, "$0.00", c.Formatted.Shipping)
	assert.Equal(t, "$7.14", c.Formatted.Tax)
	assert.Equal(t, "$91.14", c.Formatted.Total)

	rec = client.do(http.MethodGet, "/cart", nil)
	assert.Equal(t, 3, decode[cartResponse](t, rec).ItemCount)

	rec = client.do(http.MethodDelete, "/cart/items/p001-Navy-L", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, decode[cartResponse](t, rec).ItemCount)
}

func TestAPI_AddToCart_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"unknown product", map[string]any{"productId": "p999", "color": "Black", "size": "M", "quantity": 1}, http.StatusNotFound},
		{"bad variant", map[string]any{"productId": "p001", "color": "Gold", "size": "M", "quantity": 1}, http.StatusBadRequest},
		{"zero quantity", map[string]any{"productId": "p001", "color": "Black", "size": "M", "quantity": 0}, http.StatusBadRequest},
		{"negative quantity", map[string]any{"productId": "p001", "color": "Black", "size": "M", "quantity": -2}, http.StatusBadRequest},
		{"missing product", map[string]any{"color": "Black", "size": "M", "quantity": 1}, http.StatusBadRequest},
		{"out of stock", map[string]any{"productId": "p006", "color": "Tan", "size": "M", "quantity": 1}, http.StatusConflict},
		{"malformed", "not an object", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t)
			rec := client.do(http.MethodPost, "/cart/items", tt.body)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestAPI_AddToCart_DefaultsQuantity(t *testing.T) {
	client, _ := newTestClient(t)

	rec := client.do(http.MethodPost, "/cart/items", map[string]any{
		"productId": "p001", "color": "Black", "size": "M",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	c := decode[cartResponse](t, rec)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 1, c.Items[0].Quantity)
	assert.Equal(t, 1, c.ItemCount)
}

func TestAPI_SessionsAreIsolated(t *testing.T) {
	client, _ := newTestClient(t)
	client.do(http.MethodPost, "/cart/items", map[string]any{
		"productId": "p008", "color": "Black", "size": "One Size", "quantity": 1,
	})

	other := &testClient{t: t, router: client.router}
	rec := other.do(http.MethodGet, "/cart", nil)

	assert.Zero(t, decode[cartResponse](t, rec).ItemCount)
	assert.NotEqual(t, client.token, other.token)
}

func TestAPI_Checkout(t *testing.T) {
	client, _ := newTestClient(t)

	rec := client.do(http.MethodPost, "/checkout", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = client.do(http.MethodGet, "/checkout/summary", nil)
	assert.False(t, decode[struct {
		CanCheckout bool `json:"canCheckout"`
	}](t, rec).CanCheckout)

	client.do(http.MethodPost, "/cart/items", map[string]any{
		"productId": "p002", "color": "White", "size": "M", "quantity": 1,
	})

	rec = client.do(http.MethodPost, "/checkout", map[string]any{
		"contact": map[string]any{"firstName": "Sam", "email": "Sam <sam@example.com>"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = client.do(http.MethodPost, "/checkout", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	conf := decode[struct {
		OrderID   string `json:"orderId"`
		Demo      bool   `json:"demo"`
		Formatted struct {
			Total string `json:"total"`
		} `json:"formatted"`
	}](t, rec)
	assert.NotEmpty(t, conf.OrderID)
	assert.True(t, conf.Demo)
	assert.Equal(t, "$83.77", conf.Formatted.Total)

	rec = client.do(http.MethodDelete, "/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, decode[cartResponse](t, rec).ItemCount)
}
