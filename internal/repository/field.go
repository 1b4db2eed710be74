package repository

import (
	"context"
	"fmt"

	"gopkg.in/guregu/null.v3"

	"github.com/deppfellow/xenaviz/internal/model"
	"github.com/deppfellow/xenaviz/internal/xena"
)

// FieldRepository decodes categorical dataset fields.
type FieldRepository struct {
	hub Hub
}

// NewFieldRepository creates a FieldRepository on top of hub.
func NewFieldRepository(hub Hub) *FieldRepository {
	return &FieldRepository{hub: hub}
}

// CodeMap fetches the code string of field and parses it.
func (r *FieldRepository) CodeMap(ctx context.Context, dataset, field string) (model.CodeMap, error) {
	codes, err := r.hub.FieldCodes(ctx, dataset, []string{field})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch codes of field %q: %w", field, err)
	}

	if len(codes) == 0 || codes[0].Code == nil {
		return nil, &xena.DecodeError{
			Op:      xena.OpFieldCodes,
			Dataset: dataset,
			Reason:  fmt.Sprintf("field %q has no code string", field),
		}
	}

	return model.ParseCodeMap(*codes[0].Code), nil
}

// Codes returns the labels of field in code order.
func (r *FieldRepository) Codes(ctx context.Context, dataset, field string) ([]string, error) {
	codeMap, err := r.CodeMap(ctx, dataset, field)
	if err != nil {
		return nil, err
	}
	return codeMap.Labels(), nil
}

// ResolveField returns the decoded value of field for every sample, in
// sample order. Raw codes without a label resolve to null.
func (r *FieldRepository) ResolveField(ctx context.Context, dataset string, samples []string, field string) ([]null.String, error) {
	codeMap, err := r.CodeMap(ctx, dataset, field)
	if err != nil {
		return nil, err
	}

	raw, err := r.hub.DatasetFetch(ctx, dataset, samples, []string{field})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch values of field %q: %w", field, err)
	}

	if len(raw) != 1 {
		return nil, &xena.DecodeError{
			Op:      xena.OpDatasetFetch,
			Dataset: dataset,
			Reason:  fmt.Sprintf("expected 1 value row for field %q, got %d", field, len(raw)),
		}
	}
	if len(raw[0]) != len(samples) {
		return nil, &xena.DecodeError{
			Op:      xena.OpDatasetFetch,
			Dataset: dataset,
			Reason:  fmt.Sprintf("field %q has %d values for %d samples", field, len(raw[0]), len(samples)),
		}
	}

	return codeMap.ResolveAll(raw[0]), nil
}
