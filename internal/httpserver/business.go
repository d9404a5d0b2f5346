package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pasalko/storefront/internal/logging"
	mw "github.com/pasalko/storefront/internal/middleware"
	"github.com/pasalko/storefront/internal/upstream"
	"github.com/pasalko/storefront/internal/util"
)

type BusinessHTTP struct {
	API *upstream.Client
}

func (h *BusinessHTTP) token(c echo.Context) (string, error) {
	s := mw.CurrentSession(c)
	if !s.Authenticated() || s.Role() != "business" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return s.Token, nil
}

func (h *BusinessHTTP) Profile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "business.profile")

	token, err := h.token(c)
	if err != nil {
		return err
	}

	biz, err := h.API.BusinessProfile(ctx, token)
	if err != nil {
		l.Warn("business_profile_failed", "error", err)
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "business": biz})
}

func (h *BusinessHTTP) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "business.update_profile")

	token, err := h.token(c)
	if err != nil {
		return err
	}

	var req upstream.BusinessProfileUpdate
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	biz, err := h.API.UpdateBusinessProfile(ctx, token, req)
	if err != nil {
		l.Warn("business_profile_update_failed", "error", err)
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "business": biz})
}

// UploadDocument uses the short-lived temp token from registration, not
// the normal bearer.
func (h *BusinessHTTP) UploadDocument(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "business.upload_document")

	s := mw.CurrentSession(c)
	tempToken := s.ValidTempToken(time.Now())
	if tempToken == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "upload token missing or expired")
	}

	var req struct {
		DocumentURL string `json:"document_url"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.API.UploadDocument(ctx, tempToken, req.DocumentURL); err != nil {
		l.Warn("document_upload_failed", "error", err)
		return respondError(c, err)
	}

	l.Info("document_uploaded")
	return c.JSON(http.StatusOK, map[string]any{"success": true, "message": "document submitted for review"})
}

func (h *BusinessHTTP) Products(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "business.products")

	token, err := h.token(c)
	if err != nil {
		return err
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	res, err := h.API.BusinessProducts(ctx, token, page, size)
	if err != nil {
		l.Error("business_products_failed", "error", err)
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "products": res.Products, "meta": res.Meta})
}

func (h *BusinessHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "business.create_product")

	token, err := h.token(c)
	if err != nil {
		return err
	}

	var req upstream.ProductData
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	prod, err := h.API.CreateProduct(ctx, token, req)
	if err != nil {
		l.Warn("create_product_failed", "error", err)
		return respondError(c, err)
	}

	l.Info("product_created", "product_id", prod.ID)
	return c.JSON(http.StatusCreated, map[string]any{"success": true, "product": prod})
}

func (h *BusinessHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "business.update_product")

	token, err := h.token(c)
	if err != nil {
		return err
	}

	var req upstream.ProductData
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	prod, err := h.API.UpdateProduct(ctx, token, c.Param("id"), req)
	if err != nil {
		l.Warn("update_product_failed", "id", c.Param("id"), "error", err)
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "product": prod})
}

func (h *BusinessHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "business.delete_product")

	token, err := h.token(c)
	if err != nil {
		return err
	}

	if err := h.API.DeleteProduct(ctx, token, c.Param("id")); err != nil {
		l.Warn("delete_product_failed", "id", c.Param("id"), "error", err)
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *BusinessHTTP) Orders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "business.orders")

	token, err := h.token(c)
	if err != nil {
		return err
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	orders, meta, err := h.API.BusinessOrders(ctx, token, page, size)
	if err != nil {
		l.Error("business_orders_failed", "error", err)
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "orders": orders, "meta": meta})
}

// UpdateOrderStatus forwards whatever transition the seller picked; the
// backend rejects illegal ones.
func (h *BusinessHTTP) UpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "business.update_order_status")

	token, err := h.token(c)
	if err != nil {
		return err
	}

	var req upstream.OrderStatusUpdate
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.API.UpdateOrderStatus(ctx, token, c.Param("id"), req)
	if err != nil {
		l.Warn("order_status_update_failed", "id", c.Param("id"), "error", err)
		return respondError(c, err)
	}

	l.Info("order_status_updated", "id", order.ID, "status", order.OrderStatus)
	return c.JSON(http.StatusOK, map[string]any{"success": true, "order": order})
}

func (h *BusinessHTTP) Customers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "business.customers")

	token, err := h.token(c)
	if err != nil {
		return err
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	customers, meta, err := h.API.BusinessCustomers(ctx, token, page, size)
	if err != nil {
		l.Error("business_customers_failed", "error", err)
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "customers": customers, "meta": meta})
}

func (h *BusinessHTTP) Wallet(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "business.wallet")

	token, err := h.token(c)
	if err != nil {
		return err
	}

	wallet, err := h.API.Wallet(ctx, token)
	if err != nil {
		l.Error("wallet_fetch_failed", "error", err)
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "wallet": wallet})
}

func (h *BusinessHTTP) WalletTransactions(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "business.wallet_transactions")

	token, err := h.token(c)
	if err != nil {
		return err
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	txs, meta, err := h.API.WalletTransactions(ctx, token, page, size)
	if err != nil {
		l.Error("wallet_transactions_failed", "error", err)
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "transactions": txs, "meta": meta})
}
