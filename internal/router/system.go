package router

import (
	"github.com/deppfellow/formrequest/internal/handler"
	"github.com/deppfellow/formrequest/internal/metrics"
	"github.com/labstack/echo/v4"
)

func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)
	r.GET("/metrics", metrics.Handler())

	r.Static("/static", "static")
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
