package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/xenaviz/internal/model"
	"github.com/deppfellow/xenaviz/internal/server"
	"github.com/deppfellow/xenaviz/internal/service"
)

type CatalogHandler struct {
	Handler
	catalogService *service.CatalogService
}

func NewCatalogHandler(s *server.Server, catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		Handler:        NewHandler(s),
		catalogService: catalogService,
	}
}

// GetGenes lists every gene of the expression dataset.
func (h *CatalogHandler) GetGenes(c echo.Context, req *model.EmptyRequest) ([]string, error) {
	return h.catalogService.ListGenes(c.Request().Context())
}

// GetDiseases lists the TCGA and TARGET diseases.
func (h *CatalogHandler) GetDiseases(c echo.Context, req *model.EmptyRequest) ([]string, error) {
	return h.catalogService.ListDiseases(c.Request().Context())
}

// Greeting answers the root route.
func (h *CatalogHandler) Greeting(c echo.Context) error {
	return c.String(http.StatusOK, "Hello World")
}
