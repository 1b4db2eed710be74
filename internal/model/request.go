package model

import "github.com/go-playground/validator/v10"

// Query parameter defaults.
const (
	DefaultDisease = "Breast Invasive Carcinoma"
	DefaultGene    = "ERBB2"
	DefaultOrient  = OrientColumns
)

var validate = validator.New()

// ExpressionQuery holds the parameters shared by the expression endpoints.
//
// Disease may be repeated and each value may list several comma separated
// labels; see ParseDiseases.
type ExpressionQuery struct {
	Disease []string `query:"disease" validate:"max=100"`
	Gene    string   `query:"gene" validate:"required,max=100,printascii"`
}

// Diseases returns the parsed disease labels.
func (q *ExpressionQuery) Diseases() []string {
	return ParseDiseases(q.Disease)
}

// DataRequest is the query of GET /data.
type DataRequest struct {
	ExpressionQuery
	Gene2  string `query:"gene2" validate:"omitempty,max=100,printascii"`
	Orient string `query:"orient" validate:"required,oneof=columns records"`
}

// NewDataRequest returns a request carrying the defaults.
func NewDataRequest() *DataRequest {
	return &DataRequest{
		ExpressionQuery: defaultExpressionQuery(),
		Orient:          DefaultOrient,
	}
}

func (r *DataRequest) Validate() error {
	return validate.Struct(r)
}

// ExportRequest is the query of GET /data/export.
type ExportRequest struct {
	ExpressionQuery
	Gene2 string `query:"gene2" validate:"omitempty,max=100,printascii"`
}

func NewExportRequest() *ExportRequest {
	return &ExportRequest{ExpressionQuery: defaultExpressionQuery()}
}

func (r *ExportRequest) Validate() error {
	return validate.Struct(r)
}

// SummaryRequest is the query of GET /summary.
type SummaryRequest struct {
	ExpressionQuery
}

func NewSummaryRequest() *SummaryRequest {
	return &SummaryRequest{ExpressionQuery: defaultExpressionQuery()}
}

func (r *SummaryRequest) Validate() error {
	return validate.Struct(r)
}

// EmptyRequest is used by endpoints without parameters.
type EmptyRequest struct{}

func (r *EmptyRequest) Validate() error {
	return nil
}

func defaultExpressionQuery() ExpressionQuery {
	return ExpressionQuery{
		Disease: []string{DefaultDisease},
		Gene:    DefaultGene,
	}
}
