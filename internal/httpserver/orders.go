package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pasalko/storefront/internal/format"
	"github.com/pasalko/storefront/internal/logging"
	mw "github.com/pasalko/storefront/internal/middleware"
	"github.com/pasalko/storefront/internal/upstream"
	"github.com/pasalko/storefront/internal/util"
)

type OrderHTTP struct {
	API *upstream.Client
}

func (h *OrderHTTP) token(c echo.Context) (string, error) {
	s := mw.CurrentSession(c)
	if !s.Authenticated() {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return s.Token, nil
}

func (h *OrderHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.list")

	token, err := h.token(c)
	if err != nil {
		return err
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	orders, meta, err := h.API.Orders(ctx, token, page, size)
	if err != nil {
		l.Error("orders_list_failed", "error", err)
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{"success": true, "orders": orders, "meta": meta})
}

func (h *OrderHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.get")

	token, err := h.token(c)
	if err != nil {
		return err
	}

	order, err := h.API.Order(ctx, token, c.Param("id"))
	if err != nil {
		l.Warn("order_get_failed", "id", c.Param("id"), "error", err)
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"order":   order,
		"display": map[string]any{
			"total":      format.Currency(order.Total),
			"placed_on":  format.Date(order.CreatedAt),
			"updated_at": format.DateTime(order.UpdatedAt),
		},
	})
}

func (h *OrderHTTP) Cancel(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.cancel")

	token, err := h.token(c)
	if err != nil {
		return err
	}

	order, err := h.API.CancelOrder(ctx, token, c.Param("id"))
	if err != nil {
		l.Warn("order_cancel_failed", "id", c.Param("id"), "error", err)
		return respondError(c, err)
	}

	l.Info("order_cancelled", "id", order.ID)
	return c.JSON(http.StatusOK, map[string]any{"success": true, "order": order})
}
