package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pasalko/storefront/internal/inflight"
	"github.com/pasalko/storefront/internal/session"
	"github.com/pasalko/storefront/internal/upstream"
)

// cartBackend serves the cart surface of the marketplace API and counts
// mutating calls so tests can assert which requests were actually sent.
type cartBackend struct {
	t *testing.T

	getCalls    atomic.Int64
	putCalls    atomic.Int64
	deleteCalls atomic.Int64

	failGet bool
	stock   int
	qty     int
}

func (b *cartBackend) cartPayload() map[string]any {
	return map[string]any{
		"success": true,
		"cart": map[string]any{
			"id": "cart-1",
			"items": []map[string]any{
				{
					"product":  map[string]any{"id": "p1", "name": "kettle", "price": 100.0, "stock": b.stock},
					"quantity": b.qty,
				},
			},
			"total_items": b.qty,
		},
	}
}

func (b *cartBackend) serve(t *testing.T) string {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/cart", func(w http.ResponseWriter, r *http.Request) {
		b.getCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if b.failGet {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "cart service down"})
			return
		}
		json.NewEncoder(w).Encode(b.cartPayload())
	})
	mux.HandleFunc("PUT /api/cart/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.putCalls.Add(1)
		var body struct {
			Quantity int `json:"quantity"`
		}
		require.NoError(b.t, json.NewDecoder(r.Body).Decode(&body))
		b.qty = body.Quantity
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(b.cartPayload())
	})
	mux.HandleFunc("DELETE /api/cart/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.deleteCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"success": true, "cart": map[string]any{"id": "cart-1", "items": []any{}}})
	})
	mux.HandleFunc("POST /api/cart/items", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(b.cartPayload())
	})
	mux.HandleFunc("DELETE /api/cart", func(w http.ResponseWriter, r *http.Request) {
		b.deleteCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"success": true, "cart": map[string]any{"id": "cart-1", "items": []any{}}})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv.URL
}

func newCartHTTP(t *testing.T, backend *cartBackend) *CartHTTP {
	t.Helper()
	return &CartHTTP{
		API:   upstream.NewClient(backend.serve(t)),
		Guard: inflight.NewGuard(),
	}
}

func TestGetCart_FailureIs200WithNullCart(t *testing.T) {
	t.Parallel()

	backend := &cartBackend{t: t, failGet: true}
	h := newCartHTTP(t, backend)

	c, rec := newContext(t, http.MethodGet, "/cart", "", customerSession())
	require.NoError(t, h.GetCart(c))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success        bool            `json:"success"`
		Message        string          `json:"message"`
		Cart           json.RawMessage `json:"cart"`
		DismissAfterMs int             `json:"dismissAfterMs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "cart service down", body.Message)
	assert.Equal(t, "null", string(body.Cart))
	assert.Equal(t, 3000, body.DismissAfterMs)
}

func TestGetCart_Unauthenticated(t *testing.T) {
	t.Parallel()

	h := newCartHTTP(t, &cartBackend{t: t})

	c, rec := newContext(t, http.MethodGet, "/cart", "", nil)
	err := h.GetCart(c)
	assert.Equal(t, http.StatusUnauthorized, httpStatus(err, rec))
}

func TestUpdateCartItem_InRangeSubmits(t *testing.T) {
	t.Parallel()

	backend := &cartBackend{t: t, stock: 5, qty: 2}
	h := newCartHTTP(t, backend)

	c, rec := newContext(t, http.MethodPut, "/cart/items/p1", `{"quantity":4}`, customerSession())
	c.SetParamNames("productId")
	c.SetParamValues("p1")

	require.NoError(t, h.UpdateCartItem(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, backend.putCalls.Load())
	assert.Equal(t, 4, backend.qty)
}

func TestUpdateCartItem_OutOfRangeIsNoOp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "above stock", body: `{"quantity":6}`},
		{name: "zero", body: `{"quantity":0}`},
		{name: "negative", body: `{"quantity":-3}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			backend := &cartBackend{t: t, stock: 5, qty: 2}
			h := newCartHTTP(t, backend)

			c, rec := newContext(t, http.MethodPut, "/cart/items/p1", tt.body, customerSession())
			c.SetParamNames("productId")
			c.SetParamValues("p1")

			require.NoError(t, h.UpdateCartItem(c))
			assert.Equal(t, http.StatusOK, rec.Code)

			// No mutation was submitted; the response is the current cart.
			assert.EqualValues(t, 0, backend.putCalls.Load())
			assert.Equal(t, 2, backend.qty)

			var body struct {
				Success bool          `json:"success"`
				Cart    upstream.Cart `json:"cart"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.True(t, body.Success)
			require.Len(t, body.Cart.Items, 1)
			assert.Equal(t, 2, body.Cart.Items[0].Quantity)
		})
	}
}

func TestUpdateCartItem_NotInCart(t *testing.T) {
	t.Parallel()

	backend := &cartBackend{t: t, stock: 5, qty: 2}
	h := newCartHTTP(t, backend)

	c, rec := newContext(t, http.MethodPut, "/cart/items/ghost", `{"quantity":1}`, customerSession())
	c.SetParamNames("productId")
	c.SetParamValues("ghost")

	err := h.UpdateCartItem(c)
	assert.Equal(t, http.StatusNotFound, httpStatus(err, rec))
	assert.EqualValues(t, 0, backend.putCalls.Load())
}

func TestUpdateCartItem_ConflictWhileInFlight(t *testing.T) {
	t.Parallel()

	backend := &cartBackend{t: t, stock: 5, qty: 2}
	h := newCartHTTP(t, backend)

	// Same user, same product: the first mutation is still pending.
	release, err := h.Guard.Acquire(mutationKey("u1", "p1"))
	require.NoError(t, err)
	defer release()

	c, rec := newContext(t, http.MethodPut, "/cart/items/p1", `{"quantity":3}`, customerSession())
	c.SetParamNames("productId")
	c.SetParamValues("p1")

	uerr := h.UpdateCartItem(c)
	assert.Equal(t, http.StatusConflict, httpStatus(uerr, rec))
	assert.EqualValues(t, 0, backend.putCalls.Load())
}

func TestUpdateCartItem_GuardScopedPerUser(t *testing.T) {
	t.Parallel()

	backend := &cartBackend{t: t, stock: 5, qty: 2}
	h := newCartHTTP(t, backend)

	// One customer's pending mutation on p1 must not block another
	// customer's update of the same product in their own cart.
	release, err := h.Guard.Acquire(mutationKey("u1", "p1"))
	require.NoError(t, err)
	defer release()

	other := &session.Session{
		Token: "tok-def",
		User:  &session.User{ID: "u2", Name: "Hari", Email: "hari@example.com", Role: "user"},
	}
	c, rec := newContext(t, http.MethodPut, "/cart/items/p1", `{"quantity":3}`, other)
	c.SetParamNames("productId")
	c.SetParamValues("p1")

	require.NoError(t, h.UpdateCartItem(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, backend.putCalls.Load())
	assert.Equal(t, 3, backend.qty)
}

func TestAddToCart_Validation(t *testing.T) {
	t.Parallel()

	h := newCartHTTP(t, &cartBackend{t: t, stock: 5})

	c, rec := newContext(t, http.MethodPost, "/cart/items", `{"product_id":"","quantity":1}`, customerSession())
	err := h.AddToCart(c)
	assert.Equal(t, http.StatusBadRequest, httpStatus(err, rec))

	c, rec = newContext(t, http.MethodPost, "/cart/items", `{"product_id":"p1","quantity":0}`, customerSession())
	err = h.AddToCart(c)
	assert.Equal(t, http.StatusBadRequest, httpStatus(err, rec))
}

func TestItemBusy(t *testing.T) {
	t.Parallel()

	h := newCartHTTP(t, &cartBackend{t: t})

	release, err := h.Guard.Acquire(mutationKey("u1", "p1"))
	require.NoError(t, err)

	c, rec := newContext(t, http.MethodGet, "/cart/items/p1/updating", "", customerSession())
	c.SetParamNames("productId")
	c.SetParamValues("p1")
	require.NoError(t, h.ItemBusy(c))

	var body struct {
		Updating bool `json:"updating"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Updating)

	release()

	c, rec = newContext(t, http.MethodGet, "/cart/items/p1/updating", "", customerSession())
	c.SetParamNames("productId")
	c.SetParamValues("p1")
	require.NoError(t, h.ItemBusy(c))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Updating)
}
