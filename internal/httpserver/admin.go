package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pasalko/storefront/internal/logging"
	mw "github.com/pasalko/storefront/internal/middleware"
	"github.com/pasalko/storefront/internal/upstream"
	"github.com/pasalko/storefront/internal/util"
)

// AdminHTTP proxies business-approval actions. The route guard already
// redirected non-admin sessions away from /admin paths.
type AdminHTTP struct {
	API *upstream.Client
}

func (h *AdminHTTP) token(c echo.Context) string {
	return mw.CurrentSession(c).Token
}

func (h *AdminHTTP) PendingBusinesses(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.pending_businesses")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	businesses, meta, err := h.API.PendingBusinesses(ctx, h.token(c), page, size)
	if err != nil {
		l.Error("pending_businesses_failed", "error", err)
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "businesses": businesses, "meta": meta})
}

func (h *AdminHTTP) ApproveBusiness(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.approve_business")

	biz, err := h.API.ApproveBusiness(ctx, h.token(c), c.Param("id"))
	if err != nil {
		l.Warn("approve_business_failed", "id", c.Param("id"), "error", err)
		return respondError(c, err)
	}

	l.Info("business_approved", "id", biz.ID)
	return c.JSON(http.StatusOK, map[string]any{"success": true, "business": biz})
}

func (h *AdminHTTP) RejectBusiness(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.reject_business")

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	biz, err := h.API.RejectBusiness(ctx, h.token(c), c.Param("id"), req.Reason)
	if err != nil {
		l.Warn("reject_business_failed", "id", c.Param("id"), "error", err)
		return respondError(c, err)
	}

	l.Info("business_rejected", "id", biz.ID)
	return c.JSON(http.StatusOK, map[string]any{"success": true, "business": biz})
}
