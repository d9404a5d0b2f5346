package middleware

import (
	"github.com/labstack/echo/v4"
	ecM "github.com/labstack/echo/v4/middleware"
)

// Common is the baseline chain for every route. Responses are JSON, so
// gzip pays off; the body limit keeps oversized uploads away from the
// JSON binder.
func Common() []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		ecM.Recover(),
		ecM.RequestID(),
		ecM.Secure(),
		ecM.Gzip(),
		ecM.BodyLimit("1M"),
	}
}
