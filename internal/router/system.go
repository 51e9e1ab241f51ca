package router

import (
	"github.com/deppfellow/blog-articles/internal/handler"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers endpoints that sit outside the API:
// health status, the docs UI and the static assets it loads.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)

	r.Static("/static", handler.StaticDir)

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
