package repository

import (
	"context"
	"fmt"

	"gopkg.in/guregu/null.v3"

	"github.com/deppfellow/xenaviz/internal/model"
	"github.com/deppfellow/xenaviz/internal/xena"
)

// ExpressionRepository reads the gene expression dataset.
type ExpressionRepository struct {
	hub     Hub
	dataset string
}

// NewExpressionRepository creates a repository for the given expression dataset.
func NewExpressionRepository(hub Hub, dataset string) *ExpressionRepository {
	return &ExpressionRepository{hub: hub, dataset: dataset}
}

// Samples returns every sample ID of the dataset, in hub order.
func (r *ExpressionRepository) Samples(ctx context.Context) ([]string, error) {
	samples, err := r.hub.DatasetSamples(ctx, r.dataset, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch samples: %w", err)
	}
	return samples, nil
}

// GeneValues returns the expression of gene for every sample, aligned to
// samples. Only the first probe mapped to the gene is used.
func (r *ExpressionRepository) GeneValues(ctx context.Context, samples []string, gene string) ([]null.Float, error) {
	result, err := r.hub.DatasetGeneProbesValues(ctx, r.dataset, samples, gene)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch expression of %q: %w", gene, err)
	}

	if len(result.Values) == 0 {
		return nil, &xena.DecodeError{
			Op:      xena.OpDatasetGeneProbesValues,
			Dataset: r.dataset,
			Reason:  fmt.Sprintf("no probe found for gene %q", gene),
		}
	}

	values := result.Values[0]
	if len(values) != len(samples) {
		return nil, &xena.DecodeError{
			Op:      xena.OpDatasetGeneProbesValues,
			Dataset: r.dataset,
			Reason:  fmt.Sprintf("gene %q has %d values for %d samples", gene, len(values), len(samples)),
		}
	}

	out := make([]null.Float, len(values))
	for i, v := range values {
		out[i] = model.FloatFrom(v)
	}
	return out, nil
}

// Genes returns every field name of the dataset, unfiltered and unsorted.
func (r *ExpressionRepository) Genes(ctx context.Context) ([]string, error) {
	genes, err := r.hub.DatasetField(ctx, r.dataset)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch genes: %w", err)
	}
	if genes == nil {
		genes = []string{}
	}
	return genes, nil
}
