package service

import (
	"context"

	"github.com/deppfellow/xenaviz/internal/config"
)

// CatalogService lists what can be queried: genes and diseases.
type CatalogService struct {
	fields     FieldReader
	expression ExpressionReader
	hub        config.HubConfig
}

func NewCatalogService(fields FieldReader, expression ExpressionReader, hub config.HubConfig) *CatalogService {
	return &CatalogService{
		fields:     fields,
		expression: expression,
		hub:        hub,
	}
}

// ListGenes returns every gene of the expression dataset as the hub lists
// them, duplicates included.
func (s *CatalogService) ListGenes(ctx context.Context) ([]string, error) {
	return s.expression.Genes(ctx)
}

// ListDiseases returns the TCGA and TARGET disease labels of the phenotype
// dataset; GTEx tissue labels are left out.
func (s *CatalogService) ListDiseases(ctx context.Context) ([]string, error) {
	labels, err := s.fields.Codes(ctx, s.hub.PhenotypeDataset, s.hub.DiseaseField)
	if err != nil {
		return nil, err
	}
	return SelectDiseases(labels, s.hub.TCGADiseaseCount, s.hub.TARGETDiseaseOffset), nil
}

// SelectDiseases returns labels[0:min(tcga,n)] followed by labels[target:]
// when n > target.
func SelectDiseases(labels []string, tcga, target int) []string {
	n := len(labels)
	out := make([]string, 0, n)

	out = append(out, labels[:min(tcga, n)]...)
	if n > target {
		out = append(out, labels[target:]...)
	}
	return out
}
