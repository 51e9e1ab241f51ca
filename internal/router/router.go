// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers.
package router

import (
	"github.com/deppfellow/blog-articles/internal/handler"
	"github.com/deppfellow/blog-articles/internal/middleware"
	"github.com/deppfellow/blog-articles/internal/server"
	"github.com/labstack/echo/v4"
)

// APIPrefix is the mount point of the versioned API.
const APIPrefix = "/api/v1"

// NewRouter builds the Echo instance with the global middleware chain,
// system routes and the versioned API.
//
// Order matters: the request id and New Relic transaction must exist before
// the context enhancer builds the request logger, and the API allow-origin
// header is set before the body limit or the rate limiter can reject a
// request.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = articleErrorHandler(
		middlewares.Global.GlobalErrorHandler,
		handler.HandleEnvelope(h.Article.Serve),
	)

	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middleware.AllowAnyOrigin(APIPrefix+"/"),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.Global.Secure(),
		middlewares.Global.BodyLimit(),
		middlewares.RateLimit.Limit(),
	)

	registerSystemRoutes(router, h)

	v1 := router.Group(APIPrefix)
	registerArticleRoutes(v1, h)

	return router
}
