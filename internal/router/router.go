// Package router builds the Echo instance: the global middleware chain, the
// system routes and the versioned API routes.
package router

import (
	"github.com/deppfellow/formrequest/internal/handler"
	"github.com/deppfellow/formrequest/internal/middleware"
	"github.com/deppfellow/formrequest/internal/server"
	"github.com/labstack/echo/v4"
)

func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middlewares.Global.BodyLimit(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h)

	v1 := router.Group("/api/v1")
	registerContactRoutes(v1, h, middlewares)

	if !s.Config.Primary.IsProduction() {
		registerEmailRoutes(router, h)
	}

	return router
}
