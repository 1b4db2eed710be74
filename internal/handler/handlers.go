package handler

import (
	"github.com/deppfellow/xenaviz/internal/server"
	"github.com/deppfellow/xenaviz/internal/service"
)

// Handlers groups all HTTP handlers so router setup passes one value around.
type Handlers struct {
	Health     *HealthHandler
	OpenAPI    *OpenAPIHandler
	Expression *ExpressionHandler
	Catalog    *CatalogHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:     NewHealthHandler(s),
		OpenAPI:    NewOpenAPIHandler(s),
		Expression: NewExpressionHandler(s, services.Expression),
		Catalog:    NewCatalogHandler(s, services.Catalog),
	}
}
