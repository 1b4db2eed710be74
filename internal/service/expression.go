package service

import (
	"context"
	"fmt"

	"github.com/montanaflynn/stats"
	"gopkg.in/guregu/null.v3"

	"github.com/deppfellow/xenaviz/internal/config"
	"github.com/deppfellow/xenaviz/internal/model"
)

// ExpressionService builds expression tables and their summaries.
type ExpressionService struct {
	fields     FieldReader
	expression ExpressionReader
	hub        config.HubConfig
}

func NewExpressionService(fields FieldReader, expression ExpressionReader, hub config.HubConfig) *ExpressionService {
	return &ExpressionService{
		fields:     fields,
		expression: expression,
		hub:        hub,
	}
}

// BuildTable joins the expression of gene (and gene2, when not empty) with
// the Study and Disease/Tissue of every sample, then keeps the rows whose
// Disease/Tissue is in diseases. Rows stay in hub sample order.
//
// An empty disease list yields an empty table without querying the hub.
func (s *ExpressionService) BuildTable(ctx context.Context, gene, gene2 string, diseases []string) (*model.ExpressionTable, error) {
	table := &model.ExpressionTable{
		Gene:    gene,
		Gene2:   gene2,
		Records: []model.ExpressionRecord{},
	}
	if len(diseases) == 0 {
		return table, nil
	}

	samples, err := s.expression.Samples(ctx)
	if err != nil {
		return nil, err
	}

	values, err := s.expression.GeneValues(ctx, samples, gene)
	if err != nil {
		return nil, err
	}

	labels, err := s.fields.ResolveField(ctx, s.hub.PhenotypeDataset, samples, s.hub.DiseaseField)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", s.hub.DiseaseField, err)
	}

	var values2 []null.Float
	if gene2 != "" {
		if values2, err = s.expression.GeneValues(ctx, samples, gene2); err != nil {
			return nil, err
		}
	}

	table.Records = make([]model.ExpressionRecord, len(samples))
	for i, sample := range samples {
		rec := model.ExpressionRecord{
			Row:           i,
			Sample:        sample,
			Study:         model.StudyOf(sample),
			Expression:    values[i],
			DiseaseTissue: model.NormalizeDisease(labels[i]),
		}
		if values2 != nil {
			rec.Expression2 = values2[i]
		}
		table.Records[i] = rec
	}

	table.Filter(model.NewDiseaseSet(diseases))

	return table, nil
}

// Summarize groups the table of gene by (Disease/Tissue, Study), in order
// of first appearance, and describes each group's Expression values.
func (s *ExpressionService) Summarize(ctx context.Context, gene string, diseases []string) ([]model.GroupSummary, error) {
	table, err := s.BuildTable(ctx, gene, "", diseases)
	if err != nil {
		return nil, err
	}

	type groupKey struct{ disease, study string }

	var order []groupKey
	groups := make(map[groupKey]*group)
	for _, rec := range table.Records {
		key := groupKey{rec.DiseaseTissue.String, rec.Study}
		g, ok := groups[key]
		if !ok {
			g = &group{}
			groups[key] = g
			order = append(order, key)
		}
		g.samples++
		if rec.Expression.Valid {
			g.values = append(g.values, rec.Expression.Float64)
		}
	}

	out := make([]model.GroupSummary, 0, len(order))
	for _, key := range order {
		summary := groups[key].describe()
		summary.DiseaseTissue = key.disease
		summary.Study = key.study
		out = append(out, summary)
	}
	return out, nil
}

type group struct {
	samples int
	values  stats.Float64Data
}

func (g *group) describe() model.GroupSummary {
	summary := model.GroupSummary{
		Samples: g.samples,
		Count:   len(g.values),
	}
	if len(g.values) == 0 {
		return summary
	}

	summary.Mean = statistic(stats.Mean(g.values))
	summary.Median = statistic(stats.Median(g.values))
	summary.Min = statistic(stats.Min(g.values))
	summary.Max = statistic(stats.Max(g.values))
	summary.StdDev = statistic(stats.StandardDeviationSample(g.values))

	if q, err := stats.Quartile(g.values); err == nil {
		summary.Q1 = model.FloatFrom(q.Q1)
		summary.Q3 = model.FloatFrom(q.Q3)
	}

	return summary
}

// statistic maps a stats result to a nullable value; errors and NaN are null.
func statistic(v float64, err error) null.Float {
	if err != nil {
		return null.Float{}
	}
	return model.FloatFrom(v)
}
