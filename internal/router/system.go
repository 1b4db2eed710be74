package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/xenaviz/internal/handler"
	"github.com/deppfellow/xenaviz/internal/server"
)

// registerSystemRoutes registers endpoints that are not part of the data API:
// health, metrics, docs and static assets.
func registerSystemRoutes(r *echo.Echo, s *server.Server, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)

	r.GET("/metrics", echo.WrapHandler(s.Metrics.Handler()))

	r.Static("/static", "static")

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
