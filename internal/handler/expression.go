package handler

import (
	"encoding/json"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/xenaviz/internal/model"
	"github.com/deppfellow/xenaviz/internal/server"
	"github.com/deppfellow/xenaviz/internal/service"
)

// ExportFilename is the attachment name of GET /data/export.
const ExportFilename = "expression.csv"

type ExpressionHandler struct {
	Handler
	expressionService *service.ExpressionService
}

func NewExpressionHandler(s *server.Server, expressionService *service.ExpressionService) *ExpressionHandler {
	return &ExpressionHandler{
		Handler:           NewHandler(s),
		expressionService: expressionService,
	}
}

// GetData returns the expression table in the requested orientation.
func (h *ExpressionHandler) GetData(c echo.Context, req *model.DataRequest) (json.Marshaler, error) {
	table, err := h.expressionService.BuildTable(c.Request().Context(), req.Gene, req.Gene2, req.Diseases())
	if err != nil {
		return nil, err
	}
	return table.View(req.Orient), nil
}

// ExportData returns the expression table as CSV.
func (h *ExpressionHandler) ExportData(c echo.Context, req *model.ExportRequest) ([]byte, error) {
	table, err := h.expressionService.BuildTable(c.Request().Context(), req.Gene, req.Gene2, req.Diseases())
	if err != nil {
		return nil, err
	}
	return table.CSV()
}

// GetSummary returns per (Disease/Tissue, Study) statistics of the gene.
func (h *ExpressionHandler) GetSummary(c echo.Context, req *model.SummaryRequest) ([]model.GroupSummary, error) {
	return h.expressionService.Summarize(c.Request().Context(), req.Gene, req.Diseases())
}
