package httpserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pasalko/storefront/internal/logging"
	mw "github.com/pasalko/storefront/internal/middleware"
	"github.com/pasalko/storefront/internal/session"
	"github.com/pasalko/storefront/internal/upstream"
)

type AuthHTTP struct {
	API      *upstream.Client
	Sessions session.Provider
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.API.Login(ctx, upstream.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		l.Warn("login_failed", "error", err)
		return respondError(c, err)
	}

	s := &session.Session{
		Token: res.Token,
		User: &session.User{
			ID:    res.User.ID,
			Name:  res.User.Name,
			Email: res.User.Email,
			Role:  res.User.Role,
		},
	}
	if err := h.Sessions.Set(c, s); err != nil {
		l.Error("session_set_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "session error")
	}

	l.Info("login_success", "user_id", res.User.ID)
	return c.JSON(http.StatusOK, map[string]any{"success": true, "user": res.User})
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req upstream.RegisterData
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.API.Register(ctx, req)
	if err != nil {
		l.Warn("register_failed", "error", err)
		return respondError(c, err)
	}

	s := &session.Session{
		Token: res.Token,
		User: &session.User{
			ID:    res.User.ID,
			Name:  res.User.Name,
			Email: res.User.Email,
			Role:  res.User.Role,
		},
	}
	if err := h.Sessions.Set(c, s); err != nil {
		l.Error("session_set_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "session error")
	}

	l.Info("register_success", "user_id", res.User.ID)
	return c.JSON(http.StatusCreated, map[string]any{"success": true, "user": res.User})
}

// businessNotVerifiedMessage replaces the raw upstream wording on the
// seller login form.
const businessNotVerifiedMessage = "your business account is not verified yet, please wait for approval"

func (h *AuthHTTP) BusinessLogin(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.business_login")

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("business_login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.API.BusinessLogin(ctx, upstream.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		msg := upstream.Message(err)
		if strings.Contains(msg, "user does not exist") || strings.Contains(msg, "not verified") {
			msg = businessNotVerifiedMessage
		}
		l.Warn("business_login_failed", "error", err)
		return c.JSON(errorStatus(err), map[string]any{
			"success":        false,
			"message":        msg,
			"dismissAfterMs": session.DismissAfterMs,
		})
	}

	s := &session.Session{
		Token: res.Token,
		User: &session.User{
			ID:         res.Business.ID,
			Name:       res.Business.Name,
			Email:      res.Business.Email,
			Role:       "business",
			BusinessID: res.Business.ID,
		},
	}
	if err := h.Sessions.Set(c, s); err != nil {
		l.Error("session_set_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "session error")
	}

	l.Info("business_login_success", "business_id", res.Business.ID)
	return c.JSON(http.StatusOK, map[string]any{"success": true, "business": res.Business})
}

func (h *AuthHTTP) BusinessRegister(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.business_register")

	var req upstream.RegisterData
	if err := c.Bind(&req); err != nil {
		l.Warn("business_register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.API.BusinessRegister(ctx, req)
	if err != nil {
		l.Warn("business_register_failed", "error", err)
		return respondError(c, err)
	}

	// The temp token only authorizes the verification-document upload
	// and dies after an hour.
	s := &session.Session{
		TempToken:    res.TempToken,
		TempTokenExp: time.Now().Add(session.TempTokenTTL),
	}
	if err := h.Sessions.Set(c, s); err != nil {
		l.Error("session_set_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "session error")
	}

	l.Info("business_register_success", "business_id", res.Business.ID)
	return c.JSON(http.StatusCreated, map[string]any{"success": true, "business": res.Business})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	if s := mw.CurrentSession(c); s.Authenticated() {
		// Best effort; the cookies are cleared regardless.
		if err := h.API.Logout(ctx, s.Token); err != nil {
			l.Warn("upstream_logout_failed", "error", err)
		}
	}
	if err := h.Sessions.Clear(c); err != nil {
		l.Error("session_clear_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "session error")
	}

	l.Info("logout_success")
	return c.Redirect(http.StatusSeeOther, "/login")
}

func (h *AuthHTTP) ForgotPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.forgot_password")

	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("forgot_password_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.API.ForgotPassword(ctx, req.Email); err != nil {
		l.Warn("forgot_password_failed", "error", err)
		return respondError(c, err)
	}

	l.Info("forgot_password_sent")
	return c.JSON(http.StatusOK, map[string]any{"success": true, "message": "password reset instructions sent"})
}
