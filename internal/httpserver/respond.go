package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pasalko/storefront/internal/session"
	"github.com/pasalko/storefront/internal/upstream"
)

// Notice is a transient message a page shows once and then dismisses.
type Notice struct {
	Kind           string `json:"kind"`
	Message        string `json:"message"`
	DismissAfterMs int    `json:"dismissAfterMs"`
}

func notices(s *session.Session) []Notice {
	if s == nil {
		return nil
	}
	flashes := s.ConsumeFlashes(time.Now())
	out := make([]Notice, 0, len(flashes))
	for _, f := range flashes {
		out = append(out, Notice{Kind: f.Kind, Message: f.Message, DismissAfterMs: session.DismissAfterMs})
	}
	return out
}

// errorBody converts an upstream failure into the payload pages show:
// a rejection message verbatim, anything else the generic network line.
func errorBody(err error) map[string]any {
	return map[string]any{
		"success":        false,
		"message":        upstream.Message(err),
		"dismissAfterMs": session.DismissAfterMs,
	}
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, upstream.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, upstream.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, upstream.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, upstream.ErrTransport):
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

func respondError(c echo.Context, err error) error {
	return c.JSON(errorStatus(err), errorBody(err))
}
