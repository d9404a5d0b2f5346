package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pasalko/storefront/internal/checkout"
	"github.com/pasalko/storefront/internal/session"
	"github.com/pasalko/storefront/internal/upstream"
)

// checkoutBackend covers the slice of the marketplace API the wizard
// touches: the live cart, order creation and khalti initiation.
type checkoutBackend struct {
	t              *testing.T
	initiateStatus int
}

func (b *checkoutBackend) serve(t *testing.T) string {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/cart", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"cart": map[string]any{
				"id": "cart-1",
				"items": []map[string]any{
					{"product": map[string]any{"id": "p1", "price": 100.0, "stock": 5}, "quantity": 2},
					{"product": map[string]any{"id": "p2", "price": 200.0, "discount": 10.0, "stock": 3}, "quantity": 1},
				},
			},
		})
	})
	mux.HandleFunc("POST /api/orders", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"order":   map[string]any{"id": "ord-42", "total": 429.4},
		})
	})
	mux.HandleFunc("POST /api/payments/khalti/initiate", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if b.initiateStatus != 0 && b.initiateStatus != http.StatusOK {
			w.WriteHeader(b.initiateStatus)
			json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "khalti rejected the request"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"payment": map[string]any{"pidx": "px-1", "payment_url": "https://pay.khalti.com/?pidx=px-1"},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv.URL
}

func newCheckoutHTTP(t *testing.T, backend *checkoutBackend, sessions *fakeSessions) *CheckoutHTTP {
	t.Helper()
	api := upstream.NewClient(backend.serve(t))
	return &CheckoutHTTP{
		API:      api,
		Sessions: sessions,
		Flow:     &checkout.Orchestrator{API: api, ReturnURL: "/auth/payment/verify"},
	}
}

// reviewSession returns a customer session whose wizard already sits at
// the review step with one address and the given payment method.
func reviewSession(t *testing.T, method string) *session.Session {
	t.Helper()

	w := checkout.NewWizard()
	w.AddAddress(upstream.Address{FullName: "Sita Rai", Phone: "98", AddressLine1: "Baneshwor", City: "Kathmandu"})
	require.NoError(t, w.SelectPayment(method))
	require.NoError(t, w.Continue())
	require.NoError(t, w.Continue())
	require.Equal(t, checkout.StepReview, w.Step)

	data, err := json.Marshal(w)
	require.NoError(t, err)

	s := customerSession()
	s.Checkout = data
	return s
}

func TestPlaceOrder_CODRedirectsToOrderPage(t *testing.T) {
	t.Parallel()

	sessions := &fakeSessions{}
	h := newCheckoutHTTP(t, &checkoutBackend{t: t}, sessions)

	s := reviewSession(t, upstream.PaymentCOD)
	c, rec := newContext(t, http.MethodPost, "/checkout/place-order", "", s)

	require.NoError(t, h.PlaceOrder(c))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth/orders/ord-42", rec.Header().Get(echo.HeaderLocation))

	// The wizard state was dropped on success.
	require.NotNil(t, sessions.current)
	assert.Empty(t, sessions.current.Checkout)
}

func TestPlaceOrder_KhaltiRedirectsExternally(t *testing.T) {
	t.Parallel()

	sessions := &fakeSessions{}
	h := newCheckoutHTTP(t, &checkoutBackend{t: t}, sessions)

	s := reviewSession(t, upstream.PaymentKhalti)
	c, rec := newContext(t, http.MethodPost, "/checkout/place-order", "", s)

	require.NoError(t, h.PlaceOrder(c))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "https://pay.khalti.com/?pidx=px-1", rec.Header().Get(echo.HeaderLocation))
}

func TestPlaceOrder_KhaltiUnauthorizedSendsToLogin(t *testing.T) {
	t.Parallel()

	sessions := &fakeSessions{}
	h := newCheckoutHTTP(t, &checkoutBackend{t: t, initiateStatus: http.StatusUnauthorized}, sessions)

	s := reviewSession(t, upstream.PaymentKhalti)
	c, rec := newContext(t, http.MethodPost, "/checkout/place-order", "", s)

	require.NoError(t, h.PlaceOrder(c))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth/login?redirect=checkout", rec.Header().Get(echo.HeaderLocation))
}

func TestPlaceOrder_KhaltiInitiateFailureStaysOnReview(t *testing.T) {
	t.Parallel()

	sessions := &fakeSessions{}
	h := newCheckoutHTTP(t, &checkoutBackend{t: t, initiateStatus: http.StatusInternalServerError}, sessions)

	s := reviewSession(t, upstream.PaymentKhalti)
	c, rec := newContext(t, http.MethodPost, "/checkout/place-order", "", s)

	require.NoError(t, h.PlaceOrder(c))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/checkout", rec.Header().Get(echo.HeaderLocation))

	// The failure message rides back as a flash; the wizard survives.
	require.NotNil(t, sessions.current)
	require.Len(t, sessions.current.Flashes, 1)
	assert.Equal(t, "error", sessions.current.Flashes[0].Kind)
	assert.Equal(t, "khalti rejected the request", sessions.current.Flashes[0].Message)
	assert.NotEmpty(t, sessions.current.Checkout)
}

func TestPlaceOrder_RequiresReviewStep(t *testing.T) {
	t.Parallel()

	h := newCheckoutHTTP(t, &checkoutBackend{t: t}, &fakeSessions{})

	c, rec := newContext(t, http.MethodPost, "/checkout/place-order", "", customerSession())
	err := h.PlaceOrder(c)
	assert.Equal(t, http.StatusBadRequest, httpStatus(err, rec))
}

func TestPlaceOrder_RequiresAuth(t *testing.T) {
	t.Parallel()

	h := newCheckoutHTTP(t, &checkoutBackend{t: t}, &fakeSessions{})

	c, rec := newContext(t, http.MethodPost, "/checkout/place-order", "", nil)
	err := h.PlaceOrder(c)
	assert.Equal(t, http.StatusUnauthorized, httpStatus(err, rec))
}

func TestCheckoutState_IncludesTotalsAndWizard(t *testing.T) {
	t.Parallel()

	sessions := &fakeSessions{}
	h := newCheckoutHTTP(t, &checkoutBackend{t: t}, sessions)

	c, rec := newContext(t, http.MethodGet, "/checkout", "", customerSession())
	require.NoError(t, h.State(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool            `json:"success"`
		Wizard  checkout.Wizard `json:"wizard"`
		Totals  checkout.Totals `json:"totals"`
		Display struct {
			Subtotal string `json:"subtotal"`
			Total    string `json:"total"`
		} `json:"display"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, checkout.StepAddress, body.Wizard.Step)
	assert.InDelta(t, 429.4, body.Totals.Total, 1e-9)
	assert.Equal(t, "Rs. 380.00", body.Display.Subtotal)
	assert.Equal(t, "Rs. 429.40", body.Display.Total)
}

func TestCheckoutAddAddress_Validates(t *testing.T) {
	t.Parallel()

	sessions := &fakeSessions{}
	h := newCheckoutHTTP(t, &checkoutBackend{t: t}, sessions)

	c, rec := newContext(t, http.MethodPost, "/checkout/address", `{"full_name":"Sita Rai"}`, customerSession())
	err := h.AddAddress(c)
	assert.Equal(t, http.StatusBadRequest, httpStatus(err, rec))

	body := `{"full_name":"Sita Rai","phone":"98","address_line1":"Baneshwor","city":"Kathmandu"}`
	c, rec = newContext(t, http.MethodPost, "/checkout/address", body, customerSession())
	require.NoError(t, h.AddAddress(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, sessions.current)
	assert.NotEmpty(t, sessions.current.Checkout)
}
