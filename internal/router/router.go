// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/xenaviz/internal/handler"
	"github.com/deppfellow/xenaviz/internal/middleware"
	"github.com/deppfellow/xenaviz/internal/model"
	"github.com/deppfellow/xenaviz/internal/server"
)

// NewRouter builds the echo instance with the global middleware chain and
// every route registered.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	if s.Config.Server.RateLimit > 0 {
		router.Use(middlewares.RateLimit.Limiter())
	}

	router.Use(
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, s, h)
	registerDataRoutes(router, h)

	return router
}

func registerDataRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/", h.Catalog.Greeting)

	r.GET("/data", handler.Handle(
		h.Expression.Handler,
		h.Expression.GetData,
		http.StatusOK,
		model.NewDataRequest,
	))

	r.GET("/data/export", handler.HandleFile(
		h.Expression.Handler,
		h.Expression.ExportData,
		http.StatusOK,
		model.NewExportRequest,
		handler.ExportFilename,
		"text/csv",
	))

	r.GET("/summary", handler.Handle(
		h.Expression.Handler,
		h.Expression.GetSummary,
		http.StatusOK,
		model.NewSummaryRequest,
	))

	r.GET("/genes", handler.Handle(
		h.Catalog.Handler,
		h.Catalog.GetGenes,
		http.StatusOK,
		newEmptyRequest,
	))

	r.GET("/diseases", handler.Handle(
		h.Catalog.Handler,
		h.Catalog.GetDiseases,
		http.StatusOK,
		newEmptyRequest,
	))
}

func newEmptyRequest() *model.EmptyRequest {
	return &model.EmptyRequest{}
}
