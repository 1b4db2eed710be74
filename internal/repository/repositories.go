// Package repository handles all interactions with the Xena hub.
//
// It wraps the hub client calls, checks the shape of what comes back and
// converts raw hub values into domain values, keeping protocol details away
// from the service layer.
package repository

import (
	"context"

	"github.com/deppfellow/xenaviz/internal/server"
	"github.com/deppfellow/xenaviz/internal/xena"
)

// Hub is the subset of *xena.Client the repositories use.
type Hub interface {
	FieldCodes(ctx context.Context, dataset string, fields []string) ([]xena.FieldCode, error)
	DatasetFetch(ctx context.Context, dataset string, samples, fields []string) ([][]float64, error)
	DatasetSamples(ctx context.Context, dataset string, limit *int) ([]string, error)
	DatasetGeneProbesValues(ctx context.Context, dataset string, samples []string, gene string) (*xena.GeneProbesValues, error)
	DatasetField(ctx context.Context, dataset string) ([]string, error)
}

// Repositories is a container for all repository instances.
type Repositories struct {
	Field      *FieldRepository
	Expression *ExpressionRepository
}

// NewRepositories constructs the repository container from the server's
// hub client and hub config.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Field:      NewFieldRepository(s.Hub),
		Expression: NewExpressionRepository(s.Hub, s.Config.Hub.ExpressionDataset),
	}
}
