package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pasalko/storefront/internal/session"
)

type staticSessions struct {
	s *session.Session
}

func (p *staticSessions) Get(echo.Context) (*session.Session, error) {
	if p.s == nil {
		return nil, session.ErrNoSession
	}
	return p.s, nil
}

func (p *staticSessions) Set(_ echo.Context, s *session.Session) error { return nil }
func (p *staticSessions) Clear(echo.Context) error                     { return nil }

func runGuard(t *testing.T, path string, s *session.Session) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	g := &Guard{Sessions: &staticSessions{s: s}}
	reached := false
	handler := g.Middleware(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	require.NoError(t, handler(c))
	return rec, reached
}

func TestGuard_Redirects(t *testing.T) {
	t.Parallel()

	customer := &session.Session{Token: "tok", User: &session.User{ID: "u1", Role: "user"}}
	admin := &session.Session{Token: "tok", User: &session.User{ID: "a1", Role: "admin"}}

	tests := []struct {
		name     string
		path     string
		session  *session.Session
		location string
	}{
		{name: "admin path as customer", path: "/admin/businesses/pending", session: customer, location: "/"},
		{name: "admin path unauthenticated", path: "/admin/businesses/pending", session: nil, location: "/"},
		{name: "admin path as admin", path: "/admin/businesses/pending", session: admin},
		{name: "login while authenticated", path: "/login", session: customer, location: "/"},
		{name: "register while authenticated", path: "/register", session: customer, location: "/"},
		{name: "forgot password while authenticated", path: "/forgot-password", session: customer, location: "/"},
		{name: "login while anonymous", path: "/login", session: nil},
		{name: "profile unauthenticated", path: "/profile", session: nil, location: "/login"},
		{name: "orders unauthenticated", path: "/auth/orders", session: nil, location: "/login"},
		{name: "orders authenticated", path: "/auth/orders", session: customer},
		{name: "public catalog always passes", path: "/products", session: nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec, reached := runGuard(t, tt.path, tt.session)
			if tt.location == "" {
				assert.True(t, reached)
				assert.Equal(t, http.StatusOK, rec.Code)
				return
			}
			assert.False(t, reached)
			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, tt.location, rec.Header().Get("Location"))
		})
	}
}

func TestGuard_LoadsSessionIntoContext(t *testing.T) {
	t.Parallel()

	customer := &session.Session{Token: "tok", User: &session.User{ID: "u1", Role: "user"}}
	g := &Guard{Sessions: &staticSessions{s: customer}}

	var got *session.Session
	handler := g.Middleware(func(c echo.Context) error {
		got = CurrentSession(c)
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	c := echo.New().NewContext(req, httptest.NewRecorder())
	require.NoError(t, handler(c))

	require.NotNil(t, got)
	assert.Equal(t, "u1", got.User.ID)
}

func TestCurrentSession_NilWithoutGuard(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := echo.New().NewContext(req, httptest.NewRecorder())
	assert.Nil(t, CurrentSession(c))
}
