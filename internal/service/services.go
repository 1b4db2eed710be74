// Package service contains the business logic.
//
// It sits between the handler and repository layers. It receives validated
// parameters from the handler, calls the repositories to read the hub and
// shapes the result into the domain model.
package service

import (
	"context"

	"gopkg.in/guregu/null.v3"

	"github.com/deppfellow/xenaviz/internal/repository"
	"github.com/deppfellow/xenaviz/internal/server"
)

// FieldReader decodes categorical fields.
type FieldReader interface {
	Codes(ctx context.Context, dataset, field string) ([]string, error)
	ResolveField(ctx context.Context, dataset string, samples []string, field string) ([]null.String, error)
}

// ExpressionReader reads the expression dataset.
type ExpressionReader interface {
	Samples(ctx context.Context) ([]string, error)
	GeneValues(ctx context.Context, samples []string, gene string) ([]null.Float, error)
	Genes(ctx context.Context) ([]string, error)
}

type Services struct {
	Expression *ExpressionService
	Catalog    *CatalogService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	return &Services{
		Expression: NewExpressionService(repos.Field, repos.Expression, s.Config.Hub),
		Catalog:    NewCatalogService(repos.Field, repos.Expression, s.Config.Hub),
	}, nil
}
