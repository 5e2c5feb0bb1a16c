package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/boutique/internal/auth"
	"github.com/example/boutique/internal/catalog"
	"github.com/example/boutique/internal/checkout"
	"github.com/example/boutique/internal/order"
	"github.com/example/boutique/internal/settings"
	"github.com/example/boutique/internal/storage"
	"github.com/example/boutique/internal/visit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAdminEmail    = "admin@maboutique.com"
	testAdminPassword = "correct-horse-battery"
	testJWTSecret     = "test-secret-key-that-is-long-enough-32"
)

type testServer struct {
	router     http.Handler
	orders     *order.MemoryStore
	visits     *visit.MemoryStore
	jwtService *auth.JWTService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	orders := order.NewMemoryStore()
	visits := visit.NewMemoryStore()
	jwtService := auth.NewJWTService(testJWTSecret, 15*time.Minute)
	checkoutSvc := checkout.NewService(orders, nil)

	handlers := NewHandlers(
		catalog.NewSampleStore(),
		orders,
		settings.NewMemoryStore(),
		visits,
		storage.NewMemoryKV(),
		checkoutSvc,
	)

	hash, err := auth.HashPassword(testAdminPassword)
	require.NoError(t, err)

	// Metrics register on the process-wide registry, so the router runs
	// without them here.
	router := NewRouter(RouterConfig{
		Handlers:     handlers,
		AuthHandlers: NewAuthHandlers(jwtService, testAdminEmail, hash),
		JWTService:   jwtService,
	})

	return &testServer{router: router, orders: orders, visits: visits, jwtService: jwtService}
}

func (s *testServer) do(t *testing.T, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	r := httptest.NewRequest(method, path, reader)
	r.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		r.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, r)
	return w
}

func (s *testServer) adminToken(t *testing.T) string {
	t.Helper()
	token, _, err := s.jwtService.GenerateAccessToken(testAdminEmail, "admin")
	require.NoError(t, err)
	return token
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

// ============================================
// Product Endpoint Tests
// ============================================

func TestListProducts(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/products", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	products := decodeJSON[[]catalog.Product](t, w)
	require.Len(t, products, 3)
	assert.Equal(t, "Baskets Sport", products[0].Name)
}

func TestGetProduct(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/products/1", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	p := decodeJSON[catalog.Product](t, w)
	assert.Equal(t, "T-Shirt Premium", p.Name)
	assert.Equal(t, 150.0, p.Price)
}

func TestGetProduct_NotFound(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/products/missing", "", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateProduct_RequiresAuth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/products", `{"name":"X","price":10,"stock":1}`, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateProduct(t *testing.T) {
	s := newTestServer(t)
	headers := map[string]string{"Authorization": "Bearer " + s.adminToken(t)}

	w := s.do(t, http.MethodPost, "/api/products",
		`{"name":"Bougie","price":85,"stock":30,"is_active":true}`, headers)

	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeJSON[map[string]string](t, w)
	require.NotEmpty(t, created["id"])

	w = s.do(t, http.MethodGet, "/api/products/"+created["id"], "", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestCreateProduct_InvalidPrice(t *testing.T) {
	s := newTestServer(t)
	headers := map[string]string{"Authorization": "Bearer " + s.adminToken(t)}

	w := s.do(t, http.MethodPost, "/api/products", `{"name":"X","price":-5,"stock":1}`, headers)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ============================================
// Cart Endpoint Tests
// ============================================

func TestCartFlow(t *testing.T) {
	s := newTestServer(t)
	headers := map[string]string{"X-Session-ID": "session-1"}

	// Empty cart
	w := s.do(t, http.MethodGet, "/api/cart", "", headers)
	require.Equal(t, http.StatusOK, w.Code)
	view := decodeJSON[cartView](t, w)
	assert.Empty(t, view.Items)
	assert.Equal(t, "", view.Message)

	// Add two products
	w = s.do(t, http.MethodPost, "/api/cart/items", `{"product_id":"1","quantity":2}`, headers)
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodPost, "/api/cart/items", `{"product_id":"2"}`, headers)
	require.Equal(t, http.StatusOK, w.Code)

	view = decodeJSON[cartView](t, w)
	require.Len(t, view.Items, 2)
	// Quantity defaults to 1 when omitted.
	assert.Equal(t, 1, view.Items[1].Quantity)
	assert.Equal(t, 780.0, view.TotalPrice)
	assert.Equal(t, 3, view.TotalItems)
	assert.Contains(t, view.Message, "- 2x T-Shirt Premium – 300 MAD")

	// Change quantity
	w = s.do(t, http.MethodPatch, "/api/cart/items/1", `{"quantity":1}`, headers)
	require.Equal(t, http.StatusOK, w.Code)
	view = decodeJSON[cartView](t, w)
	assert.Equal(t, 630.0, view.TotalPrice)

	// Remove a line
	w = s.do(t, http.MethodDelete, "/api/cart/items/2", "", headers)
	require.Equal(t, http.StatusOK, w.Code)
	view = decodeJSON[cartView](t, w)
	require.Len(t, view.Items, 1)

	// Clear
	w = s.do(t, http.MethodDelete, "/api/cart", "", headers)
	require.Equal(t, http.StatusOK, w.Code)
	view = decodeJSON[cartView](t, w)
	assert.Empty(t, view.Items)
}

func TestCart_UnknownProduct(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/cart/items", `{"product_id":"missing"}`, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCart_SessionIsolation(t *testing.T) {
	s := newTestServer(t)
	alice := map[string]string{"X-Session-ID": "alice"}
	bob := map[string]string{"X-Session-ID": "bob"}

	w := s.do(t, http.MethodPost, "/api/cart/items", `{"product_id":"1","quantity":2}`, alice)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/cart", "", bob)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeJSON[cartView](t, w).Items)

	w = s.do(t, http.MethodGet, "/api/cart", "", alice)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeJSON[cartView](t, w).Items, 1)
}

func TestCart_PersistsAcrossRequests(t *testing.T) {
	s := newTestServer(t)
	headers := map[string]string{"X-Session-ID": "session-1"}

	w := s.do(t, http.MethodPost, "/api/cart/items", `{"product_id":"3","quantity":2}`, headers)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/cart", "", headers)
	require.Equal(t, http.StatusOK, w.Code)
	view := decodeJSON[cartView](t, w)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "Baskets Sport", view.Items[0].Product.Name)
	assert.Equal(t, 640.0, view.TotalPrice)
}

// ============================================
// Checkout Endpoint Tests
// ============================================

func TestCheckoutEndpoint(t *testing.T) {
	s := newTestServer(t)
	headers := map[string]string{"X-Session-ID": "session-1"}

	w := s.do(t, http.MethodPost, "/api/cart/items", `{"product_id":"1","quantity":2}`, headers)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/api/cart/checkout", `{"source":"whatsapp"}`, headers)
	require.Equal(t, http.StatusOK, w.Code)

	result := decodeJSON[checkout.Result](t, w)
	assert.NotEmpty(t, result.OrderID)
	assert.Contains(t, result.Message, "Total: 300 MAD")
	// Default settings number, plus stripped.
	assert.True(t, strings.HasPrefix(result.WhatsAppURL, "https://wa.me/212600000000?text="))

	// The cart survives the checkout; the client clears it separately.
	w = s.do(t, http.MethodGet, "/api/cart", "", headers)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeJSON[cartView](t, w).Items, 1)

	saved, err := s.orders.List(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "whatsapp", saved[0].Source)
}

func TestCheckoutEndpoint_EmptyCart(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/cart/checkout", `{}`, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ============================================
// Settings and Visit Endpoint Tests
// ============================================

func TestGetSettings_Defaults(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/settings", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	got := decodeJSON[settings.StoreSettings](t, w)
	assert.Equal(t, "Ma Boutique", got.Name)
	assert.Equal(t, "+212600000000", got.WhatsAppNumber)
}

func TestUpdateSettings(t *testing.T) {
	s := newTestServer(t)
	headers := map[string]string{"Authorization": "Bearer " + s.adminToken(t)}

	w := s.do(t, http.MethodPut, "/api/settings",
		`{"name":"Nouvelle Boutique","whatsapp_number":"+212611111111"}`, headers)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/settings", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeJSON[settings.StoreSettings](t, w)
	assert.Equal(t, "Nouvelle Boutique", got.Name)
	assert.Equal(t, "+212611111111", got.WhatsAppNumber)
}

func TestUpdateSettings_RequiresAuth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPut, "/api/settings", `{"name":"X"}`, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRecordVisit(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/visits", `{"page":"/","source":"instagram"}`, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	visits, err := s.visits.List(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, visits, 1)
	assert.Equal(t, "/", visits[0].Page)
	assert.Equal(t, "instagram", visits[0].Source)
}

func TestListVisits(t *testing.T) {
	s := newTestServer(t)
	headers := map[string]string{"Authorization": "Bearer " + s.adminToken(t)}

	w := s.do(t, http.MethodPost, "/api/visits", `{"page":"/products/1","source":"facebook"}`, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodGet, "/api/visits", "", headers)
	require.Equal(t, http.StatusOK, w.Code)
	visits := decodeJSON[[]visit.Visit](t, w)
	require.Len(t, visits, 1)
	assert.Equal(t, "facebook", visits[0].Source)

	// Admin only.
	w = s.do(t, http.MethodGet, "/api/visits", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListOrders(t *testing.T) {
	s := newTestServer(t)
	headers := map[string]string{"Authorization": "Bearer " + s.adminToken(t)}

	base := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := s.orders.Create(context.Background(), order.Record{Total: float64(i + 1), CreatedAt: base.AddDate(0, 0, i)})
		require.NoError(t, err)
	}

	w := s.do(t, http.MethodGet, "/api/orders", "", headers)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeJSON[[]order.Record](t, w), 3)

	w = s.do(t, http.MethodGet, "/api/orders?from=2024-03-11T00:00:00Z", "", headers)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeJSON[[]order.Record](t, w), 2)
}

// ============================================
// Analytics Endpoint Tests
// ============================================

func TestGetAnalytics_RequiresAuth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/analytics", "", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetAnalytics(t *testing.T) {
	s := newTestServer(t)
	headers := map[string]string{"Authorization": "Bearer " + s.adminToken(t)}

	_, err := s.orders.Create(context.Background(), order.Record{Total: 300, CreatedAt: time.Now()})
	require.NoError(t, err)
	_, err = s.orders.Create(context.Background(), order.Record{Total: 500, CreatedAt: time.Now()})
	require.NoError(t, err)

	w := s.do(t, http.MethodGet, "/api/analytics", "", headers)

	require.Equal(t, http.StatusOK, w.Code)
	snapshot := decodeJSON[map[string]any](t, w)
	assert.Equal(t, 800.0, snapshot["total_sales"])
	assert.Equal(t, 2.0, snapshot["total_orders"])
	assert.Equal(t, 400.0, snapshot["average_order_value"])
}

func TestGetAnalytics_StoreFailureServesSample(t *testing.T) {
	s := newTestServer(t)
	s.orders.ListErr = assert.AnError
	headers := map[string]string{"Authorization": "Bearer " + s.adminToken(t)}

	w := s.do(t, http.MethodGet, "/api/analytics", "", headers)

	require.Equal(t, http.StatusOK, w.Code)
	snapshot := decodeJSON[map[string]any](t, w)
	assert.Equal(t, 15750.0, snapshot["total_sales"])
	assert.Equal(t, 42.0, snapshot["total_orders"])
}

// ============================================
// Login Endpoint Tests
// ============================================

func TestLogin(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/auth/login",
		`{"email":"admin@maboutique.com","password":"correct-horse-battery"}`, nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeJSON[map[string]any](t, w)
	token, _ := body["access_token"].(string)
	require.NotEmpty(t, token)

	claims, err := s.jwtService.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "access_token" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"wrong password", `{"email":"admin@maboutique.com","password":"wrong-password"}`},
		{"wrong email", `{"email":"other@maboutique.com","password":"correct-horse-battery"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/api/auth/login", tt.body, nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

// ============================================
// Health Endpoint Test
// ============================================

func TestHealthz(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/healthz", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSessionID_CookieFallback(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "session_id", Value: "cookie-session"})
	assert.Equal(t, "cookie-session", sessionID(r))

	r.Header.Set("X-Session-ID", "header-session")
	assert.Equal(t, "header-session", sessionID(r))

	assert.Equal(t, "", sessionID(httptest.NewRequest(http.MethodGet, "/", nil)))
}
