package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pasalko/storefront/internal/checkout"
	"github.com/pasalko/storefront/internal/format"
	"github.com/pasalko/storefront/internal/logging"
	mw "github.com/pasalko/storefront/internal/middleware"
	"github.com/pasalko/storefront/internal/session"
	"github.com/pasalko/storefront/internal/upstream"
)

type CheckoutHTTP struct {
	API      *upstream.Client
	Sessions session.Provider
	Flow     *checkout.Orchestrator
}

func (h *CheckoutHTTP) sessionOr401(c echo.Context) (*session.Session, error) {
	s := mw.CurrentSession(c)
	if !s.Authenticated() {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return s, nil
}

func loadWizard(s *session.Session) *checkout.Wizard {
	if len(s.Checkout) > 0 {
		var w checkout.Wizard
		if err := json.Unmarshal(s.Checkout, &w); err == nil && w.Step >= checkout.StepAddress {
			return &w
		}
	}
	return checkout.NewWizard()
}

func (h *CheckoutHTTP) saveWizard(c echo.Context, s *session.Session, w *checkout.Wizard) error {
	if w == nil {
		s.Checkout = nil
	} else {
		data, err := json.Marshal(w)
		if err != nil {
			return err
		}
		s.Checkout = data
	}
	return h.Sessions.Set(c, s)
}

// State renders the wizard plus the advisory totals derived from the
// live cart.
func (h *CheckoutHTTP) State(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.state")

	s, err := h.sessionOr401(c)
	if err != nil {
		return err
	}
	w := loadWizard(s)

	cart, err := h.API.GetCart(ctx, s.Token)
	if err != nil {
		l.Warn("checkout_cart_fetch_failed", "error", err)
		cart = nil
	}

	totals := checkout.Calculate(cart)
	body := map[string]any{
		"success": true,
		"wizard":  w,
		"cart":    cart,
		"totals":  totals,
		"display": map[string]any{
			"subtotal": format.Currency(totals.Subtotal),
			"shipping": format.Currency(totals.Shipping),
			"tax":      format.Currency(totals.Tax),
			"total":    format.Currency(totals.Total),
		},
	}
	if ns := notices(s); len(ns) > 0 {
		body["notices"] = ns
		if err := h.Sessions.Set(c, s); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "session error")
		}
	}
	return c.JSON(http.StatusOK, body)
}

func (h *CheckoutHTTP) AddAddress(c echo.Context) error {
	s, err := h.sessionOr401(c)
	if err != nil {
		return err
	}

	var addr upstream.Address
	if err := c.Bind(&addr); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if addr.FullName == "" || addr.Phone == "" || addr.AddressLine1 == "" || addr.City == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "full_name, phone, address_line1 and city required")
	}

	w := loadWizard(s)
	w.AddAddress(addr)
	if err := h.saveWizard(c, s, w); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "session error")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "wizard": w})
}

func (h *CheckoutHTTP) SelectAddress(c echo.Context) error {
	s, err := h.sessionOr401(c)
	if err != nil {
		return err
	}

	var req struct {
		Index int `json:"index"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	w := loadWizard(s)
	if err := w.SelectAddress(req.Index); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.saveWizard(c, s, w); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "session error")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "wizard": w})
}

func (h *CheckoutHTTP) SelectPayment(c echo.Context) error {
	s, err := h.sessionOr401(c)
	if err != nil {
		return err
	}

	var req struct {
		Method string `json:"method"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	w := loadWizard(s)
	if err := w.SelectPayment(req.Method); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.saveWizard(c, s, w); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "session error")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "wizard": w})
}

func (h *CheckoutHTTP) Continue(c echo.Context) error {
	s, err := h.sessionOr401(c)
	if err != nil {
		return err
	}

	w := loadWizard(s)
	if err := w.Continue(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.saveWizard(c, s, w); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "session error")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "wizard": w})
}

func (h *CheckoutHTTP) Back(c echo.Context) error {
	s, err := h.sessionOr401(c)
	if err != nil {
		return err
	}

	w := loadWizard(s)
	w.Back()
	if err := h.saveWizard(c, s, w); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "session error")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "wizard": w})
}

// PlaceOrder is the terminal action from the review step. COD lands on
// the order page; khalti leaves the app for the provider's URL.
func (h *CheckoutHTTP) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.place_order")

	s, err := h.sessionOr401(c)
	if err != nil {
		return err
	}

	w := loadWizard(s)
	if w.Step != checkout.StepReview {
		return echo.NewHTTPError(http.StatusBadRequest, "not at review step")
	}
	addr, err := w.Address()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "no address selected")
	}

	cart, err := h.API.GetCart(ctx, s.Token)
	if err != nil {
		l.Warn("place_order_cart_failed", "error", err)
		return h.stayOnReview(c, s, err)
	}

	userID := ""
	if s.User != nil {
		userID = s.User.ID
	}

	res, err := h.Flow.PlaceOrder(ctx, s.Token, userID, cart, addr, w.PaymentMethod)
	if err != nil {
		if errors.Is(err, checkout.ErrLoginRequired) {
			return c.Redirect(http.StatusSeeOther, "/auth/login?redirect=checkout")
		}
		// On any other failure the user stays on review; an order
		// created before a failed initiation stays unpaid upstream.
		l.Warn("place_order_failed", "error", err)
		return h.stayOnReview(c, s, err)
	}

	// The wizard is done; drop its state before leaving.
	if err := h.saveWizard(c, s, nil); err != nil {
		l.Error("session_save_failed", "error", err)
	}

	return c.Redirect(http.StatusSeeOther, res.RedirectURL)
}

func (h *CheckoutHTTP) stayOnReview(c echo.Context, s *session.Session, err error) error {
	s.AddFlash("error", upstream.Message(err))
	if serr := h.Sessions.Set(c, s); serr != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "session error")
	}
	return c.Redirect(http.StatusSeeOther, "/checkout")
}

// VerifyPayment handles the provider's return redirect.
func (h *CheckoutHTTP) VerifyPayment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.verify_payment")

	s, err := h.sessionOr401(c)
	if err != nil {
		return err
	}

	pidx := c.QueryParam("pidx")
	if pidx == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "pidx required")
	}

	userID := ""
	if s.User != nil {
		userID = s.User.ID
	}

	payment, err := h.Flow.Verify(ctx, s.Token, userID, pidx)
	if err != nil {
		l.Warn("verify_payment_failed", "pidx", pidx, "error", err)
		return respondError(c, err)
	}

	l.Info("payment_verified", "order_id", payment.OrderID, "status", payment.Status)
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"payment": payment,
		"order":   "/auth/orders/" + payment.OrderID,
	})
}
