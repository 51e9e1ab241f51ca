package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// AllowAnyOrigin sets Access-Control-Allow-Origin: * on every response whose
// request path starts with pathPrefix, before later middleware can reject
// the request (body limit, rate limit) or Echo's router answers 405.
func AllowAnyOrigin(pathPrefix string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if strings.HasPrefix(c.Request().URL.Path, pathPrefix) {
				c.Response().Header().Set(echo.HeaderAccessControlAllowOrigin, "*")
			}
			return next(c)
		}
	}
}
