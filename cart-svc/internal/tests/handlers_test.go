package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpapi "delivery-platform/cart-svc/internal/api/http"
	"delivery-platform/cart-svc/internal/domain"
	"delivery-platform/cart-svc/internal/mocks"
	"delivery-platform/cart-svc/internal/service"
	"delivery-platform/cart-svc/internal/storage"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEnv struct {
	router   *mux.Router
	redis    *miniredis.Miniredis
	checkout *mocks.CheckoutServiceInterface
	catalog  *mocks.CatalogServiceInterface
}

func setupTestRouter(t *testing.T) *testEnv {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	sessions := service.NewSessions(storage.NewRedisStateStore(rdb, time.Hour), service.DefaultPricing, "cart", zap.NewNop())
	env := &testEnv{
		redis:    mr,
		checkout: mocks.NewCheckoutServiceInterface(t),
		catalog:  mocks.NewCatalogServiceInterface(t),
	}

	handler := httpapi.NewHandler(sessions, env.checkout, env.catalog, zap.NewNop())
	env.router = mux.NewRouter()
	handler.RegisterRoutes(env.router)
	return env
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	recorder := httptest.NewRecorder()
	e.router.ServeHTTP(recorder, req)
	return recorder
}

func decodeView(t *testing.T, recorder *httptest.ResponseRecorder) domain.CartView {
	t.Helper()
	var view domain.CartView
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&view))
	return view
}

const (
	burgerV1 = `{"id":"1","name":"Burger","price":12.99,"quantity":1,"vendor_id":"v1","vendor_name":"Burger Barn","section":"restaurant"}`
	soapV2   = `{"id":"2","name":"Soap","price":5.00,"quantity":1,"vendor_id":"v2","vendor_name":"Glow","section":"health-beauty"}`
)

func TestHandler_healthCheck(t *testing.T) {
	env := setupTestRouter(t)

	recorder := env.do(http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, recorder.Code)
	var body map[string]interface{}
	json.NewDecoder(recorder.Body).Decode(&body)
	assert.Equal(t, "cart-svc", body["service"])
}

func TestHandler_createSession(t *testing.T) {
	env := setupTestRouter(t)

	recorder := env.do(http.MethodPost, "/api/sessions", "")

	assert.Equal(t, http.StatusCreated, recorder.Code)
	var body map[string]string
	json.NewDecoder(recorder.Body).Decode(&body)
	assert.Len(t, body["session_id"], 36)
}

func TestHandler_addItem(t *testing.T) {
	tests := []struct {
		name         string
		payload      string
		expectedCode int
		expectedBody string
	}{
		{name: "success", payload: burgerV1, expectedCode: http.StatusOK, expectedBody: `"item_count":1`},
		{name: "invalid_json", payload: `bad json`, expectedCode: http.StatusBadRequest},
		{
			name:         "zero_quantity",
			payload:      `{"id":"1","price":1,"quantity":0,"vendor_id":"v1","section":"restaurant"}`,
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "unknown_section",
			payload:      `{"id":"1","price":1,"quantity":1,"vendor_id":"v1","section":"hardware"}`,
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "quantity_above_max",
			payload:      `{"id":"1","price":1,"quantity":1000,"vendor_id":"v1","section":"restaurant"}`,
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "numeric_ids",
			payload:      `{"id":1,"name":"Pizza","price":12.99,"quantity":1,"vendor_id":7,"vendor_name":"Pizza Place","section":"restaurant"}`,
			expectedCode: http.StatusOK,
			expectedBody: `"vendor_id":"7"`,
		},
		{
			name:         "object_id",
			payload:      `{"id":{"n":1},"price":1,"quantity":1,"vendor_id":"v1","section":"restaurant"}`,
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			env := setupTestRouter(t)

			recorder := env.do(http.MethodPost, "/api/cart/s1/items", testCase.payload)

			assert.Equal(t, testCase.expectedCode, recorder.Code)
			if testCase.expectedBody != "" {
				assert.Contains(t, recorder.Body.String(), testCase.expectedBody)
			}
		})
	}
}

func TestHandler_vendorConflictFlow(t *testing.T) {
	env := setupTestRouter(t)

	recorder := env.do(http.MethodPost, "/api/cart/s1/items", burgerV1)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = env.do(http.MethodPost, "/api/cart/s1/items", soapV2)
	assert.Equal(t, http.StatusConflict, recorder.Code)
	var conflict struct {
		CurrentVendor  domain.VendorRef `json:"current_vendor"`
		IncomingVendor domain.VendorRef `json:"incoming_vendor"`
		Cart           domain.CartView  `json:"cart"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&conflict))
	assert.Equal(t, "v1", conflict.CurrentVendor.ID)
	assert.Equal(t, "v2", conflict.IncomingVendor.ID)
	assert.Equal(t, 1, conflict.Cart.ItemCount)

	view := decodeView(t, env.do(http.MethodGet, "/api/cart/s1", ""))
	assert.Equal(t, 1, view.ItemCount)
	assert.Equal(t, "v1", view.CurrentVendor.ID)

	recorder = env.do(http.MethodPost, "/api/cart/s1/items/switch-vendor", soapV2)
	assert.Equal(t, http.StatusOK, recorder.Code)
	view = decodeView(t, recorder)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "2", view.Items[0].ID)
	assert.Equal(t, "v2", view.CurrentVendor.ID)
	assert.Equal(t, "s1", view.SessionID)
}

func TestHandler_updateAndRemove(t *testing.T) {
	env := setupTestRouter(t)
	env.do(http.MethodPost, "/api/cart/s1/items", burgerV1)

	recorder := env.do(http.MethodPatch, "/api/cart/s1/items/1", `{"quantity":3}`)
	assert.Equal(t, http.StatusOK, recorder.Code)
	view := decodeView(t, recorder)
	assert.Equal(t, 3, view.ItemCount)
	assert.InDelta(t, 38.97, view.Subtotal, 0.001)

	recorder = env.do(http.MethodPatch, "/api/cart/s1/items/1", `{}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = env.do(http.MethodPatch, "/api/cart/s1/items/1", `{"quantity":1000}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, 3, decodeView(t, env.do(http.MethodGet, "/api/cart/s1", "")).ItemCount)

	recorder = env.do(http.MethodPatch, "/api/cart/s1/items/1", `{"quantity":0}`)
	assert.Equal(t, http.StatusOK, recorder.Code)
	view = decodeView(t, recorder)
	assert.Empty(t, view.Items)
	assert.Nil(t, view.CurrentVendor)
	assert.Equal(t, 0.0, view.Total)

	env.do(http.MethodPost, "/api/cart/s1/items", burgerV1)
	recorder = env.do(http.MethodDelete, "/api/cart/s1/items/1", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Empty(t, decodeView(t, recorder).Items)

	recorder = env.do(http.MethodDelete, "/api/cart/s1/items/unknown", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestHandler_clearCart(t *testing.T) {
	env := setupTestRouter(t)
	env.do(http.MethodPost, "/api/cart/s1/items", burgerV1)

	recorder := env.do(http.MethodDelete, "/api/cart/s1", "")
	assert.Equal(t, http.StatusNoContent, recorder.Code)

	view := decodeView(t, env.do(http.MethodGet, "/api/cart/s1", ""))
	assert.Empty(t, view.Items)
	assert.True(t, env.redis.Exists("cart:s1"))
}

func TestHandler_corruptStateIsDiscarded(t *testing.T) {
	env := setupTestRouter(t)
	require.NoError(t, env.redis.Set("cart:s1", "{not json"))

	recorder := env.do(http.MethodGet, "/api/cart/s1", "")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Empty(t, decodeView(t, recorder).Items)
	assert.False(t, env.redis.Exists("cart:s1"))
}

func TestHandler_stateUnavailable(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{name: "get_cart", method: http.MethodGet, path: "/api/cart/s1"},
		{name: "add_other_vendor", method: http.MethodPost, path: "/api/cart/s1/items", body: soapV2},
		{name: "switch_vendor", method: http.MethodPost, path: "/api/cart/s1/items/switch-vendor", body: soapV2},
		{name: "update_quantity", method: http.MethodPatch, path: "/api/cart/s1/items/1", body: `{"quantity":0}`},
		{name: "remove_item", method: http.MethodDelete, path: "/api/cart/s1/items/1"},
		{name: "clear_cart", method: http.MethodDelete, path: "/api/cart/s1"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			env := setupTestRouter(t)
			require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/cart/s1/items", burgerV1).Code)

			env.redis.SetError("ERR backend unavailable")
			recorder := env.do(testCase.method, testCase.path, testCase.body)
			env.redis.SetError("")

			assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
			view := decodeView(t, env.do(http.MethodGet, "/api/cart/s1", ""))
			require.Len(t, view.Items, 1)
			assert.Equal(t, "1", view.Items[0].ID)
			assert.Equal(t, "v1", view.CurrentVendor.ID)

			recorder = env.do(http.MethodPost, "/api/cart/s1/items", soapV2)
			assert.Equal(t, http.StatusConflict, recorder.Code)
		})
	}
}

func TestHandler_addCatalogItem(t *testing.T) {
	env := setupTestRouter(t)
	selection := service.CatalogSelection{VendorID: "v1", ItemID: "fries", Quantity: 2}
	env.catalog.On("LineItem", mock.Anything, selection).Return(domain.LineItem{
		ID: "fries", Name: "Fries", Price: 3.00, Quantity: 2,
		VendorID: "v1", VendorName: "Burger Barn", Section: domain.SectionRestaurant,
	}, nil).Once()
	env.catalog.On("LineItem", mock.Anything, mock.Anything).Return(domain.LineItem{}, service.ErrCatalogItemNotFound).Once()

	recorder := env.do(http.MethodPost, "/api/cart/s1/catalog-items", `{"vendor_id":"v1","item_id":"fries","quantity":2}`)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, 2, decodeView(t, recorder).ItemCount)

	recorder = env.do(http.MethodPost, "/api/cart/s1/catalog-items", `{"vendor_id":"v1","item_id":"ghost","quantity":1}`)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestHandler_checkout(t *testing.T) {
	env := setupTestRouter(t)
	env.do(http.MethodPost, "/api/cart/s1/items", burgerV1)

	env.checkout.On("PlaceOrder", mock.Anything, "s1", mock.AnythingOfType("*service.CartStore")).
		Return(func(ctx context.Context, sessionID string, cart *service.CartStore) (*domain.Order, error) {
			cart.ClearCart(ctx)
			return &domain.Order{ID: 5, SessionID: sessionID, VendorID: "v1"}, nil
		}).Once()
	env.checkout.On("PlaceOrder", mock.Anything, "s2", mock.Anything).Return(nil, service.ErrEmptyCart).Once()

	recorder := env.do(http.MethodPost, "/api/checkout/s1", "")
	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"id":5`)
	assert.Empty(t, decodeView(t, env.do(http.MethodGet, "/api/cart/s1", "")).Items)

	recorder = env.do(http.MethodPost, "/api/checkout/s2", "")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHandler_orders(t *testing.T) {
	env := setupTestRouter(t)
	env.checkout.On("GetOrder", mock.Anything, 5).Return(&domain.Order{ID: 5, VendorID: "v1"}, nil).Once()
	env.checkout.On("GetOrder", mock.Anything, 6).Return(nil, service.ErrOrderNotFound).Once()
	env.checkout.On("GetQRCode", mock.Anything, 5).Return([]byte("\x89PNG"), nil).Once()

	recorder := env.do(http.MethodGet, "/api/orders/5", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"vendor_id":"v1"`)

	recorder = env.do(http.MethodGet, "/api/orders/6", "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	recorder = env.do(http.MethodGet, "/api/orders/abc", "")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = env.do(http.MethodGet, "/api/orders/5/qrcode", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "image/png", recorder.Header().Get("Content-Type"))
}

func TestHandler_getCatalogItems(t *testing.T) {
	env := setupTestRouter(t)
	env.catalog.On("ListItems", mock.Anything, "v1").Return([]domain.CatalogItem{
		{ID: "fries", VendorID: "v1", Name: "Fries", Price: 3.00},
		{ID: "shake", VendorID: "v1", Name: "Shake", Price: 4.50},
	}, nil).Once()

	recorder := env.do(http.MethodGet, "/api/catalog/vendors/v1/items", "")

	assert.Equal(t, http.StatusOK, recorder.Code)
	var items []domain.CatalogItem
	json.NewDecoder(recorder.Body).Decode(&items)
	assert.Len(t, items, 2)
}
