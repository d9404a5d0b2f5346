package httpserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/pasalko/storefront/internal/session"
)

// fakeSessions keeps one session in memory so handler tests can observe
// writes without real cookies.
type fakeSessions struct {
	current *session.Session
	cleared bool
}

func (f *fakeSessions) Get(echo.Context) (*session.Session, error) {
	if f.current == nil {
		return nil, session.ErrNoSession
	}
	return f.current, nil
}

func (f *fakeSessions) Set(_ echo.Context, s *session.Session) error {
	f.current = s
	return nil
}

func (f *fakeSessions) Clear(echo.Context) error {
	f.current = nil
	f.cleared = true
	return nil
}

// newContext builds an echo context carrying the given session the way
// the guard middleware would have left it.
func newContext(t *testing.T, method, target, body string, s *session.Session) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.Set("session", s)
	return c, rec
}

func customerSession() *session.Session {
	return &session.Session{
		Token: "tok-abc",
		User:  &session.User{ID: "u1", Name: "Sita", Email: "sita@example.com", Role: "user"},
	}
}

// httpStatus extracts the code from either a written response or an
// *echo.HTTPError returned up the chain.
func httpStatus(err error, rec *httptest.ResponseRecorder) int {
	if err != nil {
		if he, ok := err.(*echo.HTTPError); ok {
			return he.Code
		}
		return http.StatusInternalServerError
	}
	return rec.Code
}
