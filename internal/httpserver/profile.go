package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pasalko/storefront/internal/logging"
	mw "github.com/pasalko/storefront/internal/middleware"
	"github.com/pasalko/storefront/internal/session"
	"github.com/pasalko/storefront/internal/upstream"
)

type ProfileHTTP struct {
	API      *upstream.Client
	Sessions session.Provider
}

func (h *ProfileHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "profile.get")

	s := mw.CurrentSession(c)
	if !s.Authenticated() {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := h.API.Profile(ctx, s.Token)
	if err != nil {
		l.Warn("profile_fetch_failed", "error", err)
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{"success": true, "user": user})
}

func (h *ProfileHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "profile.update")

	s := mw.CurrentSession(c)
	if !s.Authenticated() {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req upstream.ProfileUpdate
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.API.UpdateProfile(ctx, s.Token, req)
	if err != nil {
		l.Warn("profile_update_failed", "error", err)
		return respondError(c, err)
	}

	// Refresh the cached copy the guard reads the role from.
	if s.User != nil {
		s.User.Name = user.Name
	}
	s.AddFlash("success", "profile updated")
	ns := notices(s)
	if err := h.Sessions.Set(c, s); err != nil {
		l.Error("session_set_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "session error")
	}

	l.Info("profile_updated", "user_id", user.ID)
	return c.JSON(http.StatusOK, map[string]any{"success": true, "user": user, "notices": ns})
}
