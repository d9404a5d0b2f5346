package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pasalko/storefront/internal/events"
	"github.com/pasalko/storefront/internal/inflight"
	"github.com/pasalko/storefront/internal/logging"
	mw "github.com/pasalko/storefront/internal/middleware"
	"github.com/pasalko/storefront/internal/session"
	"github.com/pasalko/storefront/internal/upstream"
)

type CartHTTP struct {
	API    *upstream.Client
	Events *events.Publisher
	Guard  *inflight.Guard
}

func (h *CartHTTP) token(c echo.Context) (string, string, error) {
	s := mw.CurrentSession(c)
	if !s.Authenticated() {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	userID := ""
	if s.User != nil {
		userID = s.User.ID
	}
	return s.Token, userID, nil
}

// cartJSON always returns exactly the cart the upstream handed back;
// the view never merges or recomputes it.
func cartJSON(c echo.Context, cart *upstream.Cart) error {
	return c.JSON(http.StatusOK, map[string]any{"success": true, "cart": cart})
}

// mutationKey scopes the in-flight guard to one user's cart row. The
// guard exists to absorb duplicate clicks from a single browser, not to
// serialize different customers touching the same product.
func mutationKey(userID, productID string) string {
	return userID + ":" + productID
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	token, _, err := h.token(c)
	if err != nil {
		return err
	}

	cart, err := h.API.GetCart(ctx, token)
	if err != nil {
		// The page treats the cart as absent and shows the message.
		l.Warn("get_cart_failed", "error", err)
		return c.JSON(http.StatusOK, map[string]any{
			"success":        false,
			"message":        upstream.Message(err),
			"cart":           nil,
			"dismissAfterMs": session.DismissAfterMs,
		})
	}

	return cartJSON(c, cart)
}

type addToCartRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	token, userID, err := h.token(c)
	if err != nil {
		return err
	}

	var req addToCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.ProductID == "" || req.Quantity < 1 {
		l.Warn("add_to_cart_error", "status", 400)
		return echo.NewHTTPError(http.StatusBadRequest, "product_id and quantity>=1 required")
	}

	release, err := h.Guard.Acquire(mutationKey(userID, req.ProductID))
	if err != nil {
		return echo.NewHTTPError(http.StatusConflict, "another update for this item is in flight")
	}
	defer release()

	cart, err := h.API.AddToCart(ctx, token, req.ProductID, req.Quantity)
	if err != nil {
		l.Error("add_to_cart_failed", "product_id", req.ProductID, "error", err)
		return respondError(c, err)
	}

	l.Info("cart_item_added", "product_id", req.ProductID)
	return cartJSON(c, cart)
}

type updateCartRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateCartItem pre-clamps the quantity to [1, stock]. Out-of-range
// values are a no-op: the mutation is never submitted and the current
// cart is returned unchanged. The backend stays the authority either
// way.
func (h *CartHTTP) UpdateCartItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update")

	token, userID, err := h.token(c)
	if err != nil {
		return err
	}

	productID := c.Param("productId")
	var req updateCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_cart_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	release, err := h.Guard.Acquire(mutationKey(userID, productID))
	if err != nil {
		return echo.NewHTTPError(http.StatusConflict, "another update for this item is in flight")
	}
	defer release()

	current, err := h.API.GetCart(ctx, token)
	if err != nil {
		l.Warn("update_cart_fetch_failed", "error", err)
		return respondError(c, err)
	}

	var stock int
	found := false
	for _, it := range current.Items {
		if it.Product.ID == productID {
			stock = it.Product.Stock
			found = true
			break
		}
	}
	if !found {
		return echo.NewHTTPError(http.StatusNotFound, "item not in cart")
	}

	if req.Quantity < 1 || req.Quantity > stock {
		l.Info("update_cart_clamped", "product_id", productID, "quantity", req.Quantity, "stock", stock)
		return cartJSON(c, current)
	}

	cart, err := h.API.UpdateCartItem(ctx, token, productID, req.Quantity)
	if err != nil {
		l.Error("update_cart_failed", "product_id", productID, "error", err)
		return respondError(c, err)
	}

	return cartJSON(c, cart)
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	token, userID, err := h.token(c)
	if err != nil {
		return err
	}

	productID := c.Param("productId")
	if productID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "product id required")
	}

	release, err := h.Guard.Acquire(mutationKey(userID, productID))
	if err != nil {
		return echo.NewHTTPError(http.StatusConflict, "another update for this item is in flight")
	}
	defer release()

	cart, err := h.API.RemoveFromCart(ctx, token, productID)
	if err != nil {
		l.Error("remove_from_cart_failed", "product_id", productID, "error", err)
		return respondError(c, err)
	}

	l.Info("cart_item_removed", "product_id", productID)
	return cartJSON(c, cart)
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	token, userID, err := h.token(c)
	if err != nil {
		return err
	}

	cart, err := h.API.ClearCart(ctx, token)
	if err != nil {
		l.Error("clear_cart_failed", "error", err)
		return respondError(c, err)
	}

	if err := h.Events.Publish(ctx, events.TypeCartCleared, userID, nil); err != nil {
		l.Warn("event_publish_failed", "error", err)
	}

	l.Info("cart_cleared")
	return cartJSON(c, cart)
}

// ItemBusy reports the per-row in-flight marker so only the affected
// row disables its controls. Scoped to the caller's own cart.
func (h *CartHTTP) ItemBusy(c echo.Context) error {
	_, userID, err := h.token(c)
	if err != nil {
		return err
	}
	productID := c.Param("productId")
	return c.JSON(http.StatusOK, map[string]any{"product_id": productID, "updating": h.Guard.Busy(mutationKey(userID, productID))})
}
