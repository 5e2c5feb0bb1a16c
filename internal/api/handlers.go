package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/example/boutique/internal/analytics"
	"github.com/example/boutique/internal/cart"
	"github.com/example/boutique/internal/catalog"
	"github.com/example/boutique/internal/checkout"
	"github.com/example/boutique/internal/order"
	"github.com/example/boutique/internal/settings"
	"github.com/example/boutique/internal/storage"
	"github.com/example/boutique/internal/visit"
)

// Handlers serves the storefront and back-office endpoints.
type Handlers struct {
	products catalog.Store
	orders   order.Store
	settings settings.Store
	visits   visit.Store
	kv       storage.KV
	checkout *checkout.Service

	// now anchors the analytics aggregation, overridable in tests.
	now func() time.Time
}

func NewHandlers(
	products catalog.Store,
	orders order.Store,
	settingsStore settings.Store,
	visits visit.Store,
	kv storage.KV,
	checkoutSvc *checkout.Service,
) *Handlers {
	return &Handlers{
		products: products,
		orders:   orders,
		settings: settingsStore,
		visits:   visits,
		kv:       kv,
		checkout: checkoutSvc,
		now:      time.Now,
	}
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// sessionID identifies the visitor's cart. The storefront sends it in a
// header; an absent id maps to the shared default cart key.
func sessionID(r *http.Request) string {
	if id := r.Header.Get("X-Session-ID"); id != "" {
		return id
	}
	if cookie, err := r.Cookie("session_id"); err == nil {
		return cookie.Value
	}
	return ""
}

func (h *Handlers) engine(r *http.Request) *cart.Engine {
	key := cart.StorageKey(sessionID(r))
	return cart.NewEngine(r.Context(), h.kv, key)
}

// cartView is the JSON shape of a session cart.
type cartView struct {
	Items      []cart.Line `json:"items"`
	TotalPrice float64     `json:"total_price"`
	TotalItems int         `json:"total_items"`
	Message    string      `json:"message"`
}

func viewOf(e *cart.Engine) cartView {
	return cartView{
		Items:      e.Lines(),
		TotalPrice: e.TotalPrice(),
		TotalItems: e.TotalItems(),
		Message:    e.Message(),
	}
}

// Product handlers

func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		log.Printf("[API] Error listing products: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to list products")
		return
	}
	if products == nil {
		products = []catalog.Product{}
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.Get(r.Context(), chi.URLParam(r, "id"))
	if err == catalog.ErrProductNotFound {
		respondError(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to get product")
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *Handlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var p catalog.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.products.Create(r.Context(), &p)
	if err == catalog.ErrInvalidPrice || err == catalog.ErrInvalidStock {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create product")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *Handlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var p catalog.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	err := h.products.Update(r.Context(), chi.URLParam(r, "id"), &p)
	switch err {
	case nil:
		respondJSON(w, http.StatusOK, map[string]string{"message": "product updated"})
	case catalog.ErrProductNotFound:
		respondError(w, http.StatusNotFound, "product not found")
	case catalog.ErrInvalidPrice, catalog.ErrInvalidStock:
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "failed to update product")
	}
}

func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	err := h.products.Delete(r.Context(), chi.URLParam(r, "id"))
	if err == catalog.ErrProductNotFound {
		respondError(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

func (h *Handlers) IncrementProductViews(w http.ResponseWriter, r *http.Request) {
	if err := h.products.IncrementViews(r.Context(), chi.URLParam(r, "id")); err != nil {
		// View counting is best effort.
		log.Printf("[API] Error incrementing views: %v", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// Cart handlers

func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, viewOf(h.engine(r)))
}

func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	p, err := h.products.Get(r.Context(), req.ProductID)
	if err == catalog.ErrProductNotFound {
		respondError(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	e := h.engine(r)
	e.Add(r.Context(), *p, req.Quantity)
	respondJSON(w, http.StatusOK, viewOf(e))
}

func (h *Handlers) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	e := h.engine(r)
	e.SetQuantity(r.Context(), chi.URLParam(r, "id"), req.Quantity)
	respondJSON(w, http.StatusOK, viewOf(e))
}

func (h *Handlers) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	e := h.engine(r)
	e.Remove(r.Context(), chi.URLParam(r, "id"))
	respondJSON(w, http.StatusOK, viewOf(e))
}

func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request) {
	e := h.engine(r)
	e.Clear(r.Context())
	respondJSON(w, http.StatusOK, viewOf(e))
}

// Checkout opens the external messenger handoff. The cart is cleared by a
// separate call once the composer opened on the client.
func (h *Handlers) Checkout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Source string `json:"source"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	s, err := h.settings.Get(r.Context())
	if err != nil {
		log.Printf("[API] Error loading settings for checkout: %v", err)
		defaults := settings.Defaults()
		s = &defaults
	}

	result, err := h.checkout.Checkout(r.Context(), h.engine(r), s.WhatsAppNumber, req.Source)
	if err == checkout.ErrEmptyCart {
		respondError(w, http.StatusBadRequest, "cart is empty")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "checkout failed")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Settings handlers

func (h *Handlers) GetSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.settings.Get(r.Context())
	if err != nil {
		log.Printf("[API] Error loading settings: %v", err)
		defaults := settings.Defaults()
		s = &defaults
	}
	respondJSON(w, http.StatusOK, s)
}

func (h *Handlers) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var s settings.StoreSettings
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.settings.Put(r.Context(), s); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save settings")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "settings saved"})
}

// Visit handler

func (h *Handlers) RecordVisit(w http.ResponseWriter, r *http.Request) {
	var v visit.Visit
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	v.UserAgent = r.UserAgent()
	if v.Referrer == "" {
		v.Referrer = r.Referer()
	}
	h.visits.Record(r.Context(), v)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListVisits(w http.ResponseWriter, r *http.Request) {
	from, to := parseDateRange(r)
	visits, err := h.visits.List(r.Context(), from, to)
	if err != nil {
		log.Printf("[API] Error listing visits: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to list visits")
		return
	}
	if visits == nil {
		visits = []visit.Visit{}
	}
	respondJSON(w, http.StatusOK, visits)
}

// Order and analytics handlers

func (h *Handlers) ListOrders(w http.ResponseWriter, r *http.Request) {
	from, to := parseDateRange(r)
	orders, err := h.orders.List(r.Context(), from, to)
	if err != nil {
		log.Printf("[API] Error listing orders: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}
	if orders == nil {
		orders = []order.Record{}
	}
	respondJSON(w, http.StatusOK, orders)
}

// GetAnalytics aggregates all order records on demand. An unreachable order
// store degrades to the sample snapshot instead of blocking the back office.
func (h *Handlers) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	orders, err := h.orders.List(r.Context(), time.Time{}, time.Time{})
	if err != nil {
		log.Printf("[API] Error loading orders for analytics, serving sample data: %v", err)
		respondJSON(w, http.StatusOK, analytics.Sample(now))
		return
	}
	respondJSON(w, http.StatusOK, analytics.Aggregate(orders, now))
}

func parseDateRange(r *http.Request) (from, to time.Time) {
	if v := r.URL.Query().Get("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			from = t
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			to = t
		}
	}
	return from, to
}
