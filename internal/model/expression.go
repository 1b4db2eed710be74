package model

import (
	"strings"

	"gopkg.in/guregu/null.v3"
)

// Column names of the expression table, in serialization order.
const (
	ColumnSample        = "Sample"
	ColumnStudy         = "Study"
	ColumnExpression    = "Expression"
	ColumnDiseaseTissue = "Disease/Tissue"
	ColumnExpression2   = "Expression2"
)

// diseaseSeparator splits a phenotype label from its qualifier,
// e.g. "Breast Invasive Carcinoma - Primary Tumor".
const diseaseSeparator = " - "

// StudyOf returns the cohort prefix of a sample ID, the text before the
// first hyphen. A sample without a hyphen is its own study.
func StudyOf(sample string) string {
	study, _, _ := strings.Cut(sample, "-")
	return study
}

// NormalizeDisease truncates a Disease/Tissue label at the first " - ".
// Null stays null.
func NormalizeDisease(label null.String) null.String {
	if !label.Valid {
		return label
	}
	head, _, _ := strings.Cut(label.String, diseaseSeparator)
	return null.StringFrom(head)
}

// ExpressionRecord is one sample row of the expression table.
type ExpressionRecord struct {
	// Row is the sample's position in the hub sample list.
	Row int

	Sample        string
	Study         string
	Expression    null.Float
	DiseaseTissue null.String

	// Expression2 is only meaningful when the table has a second gene.
	Expression2 null.Float
}

// ExpressionTable is an ordered set of records.
type ExpressionTable struct {
	Gene  string
	Gene2 string

	Records []ExpressionRecord
}

// HasExpression2 reports whether a second gene was requested.
func (t *ExpressionTable) HasExpression2() bool {
	return t.Gene2 != ""
}

// Columns returns the table's column names in serialization order.
func (t *ExpressionTable) Columns() []string {
	cols := []string{ColumnSample, ColumnStudy, ColumnExpression, ColumnDiseaseTissue}
	if t.HasExpression2() {
		cols = append(cols, ColumnExpression2)
	}
	return cols
}

// Filter keeps the records whose Disease/Tissue is in diseases.
// Records with a null Disease/Tissue are always dropped, and an empty
// disease set drops everything.
func (t *ExpressionTable) Filter(diseases DiseaseSet) {
	kept := t.Records[:0]
	for _, rec := range t.Records {
		if rec.DiseaseTissue.Valid && diseases.Contains(rec.DiseaseTissue.String) {
			kept = append(kept, rec)
		}
	}
	t.Records = kept
}

// DiseaseSet is a set of Disease/Tissue labels.
type DiseaseSet map[string]struct{}

// NewDiseaseSet builds a set from labels.
func NewDiseaseSet(labels []string) DiseaseSet {
	set := make(DiseaseSet, len(labels))
	for _, l := range labels {
		set[l] = struct{}{}
	}
	return set
}

// Contains reports membership of label.
func (s DiseaseSet) Contains(label string) bool {
	_, ok := s[label]
	return ok
}

// ParseDiseases turns raw disease query values into labels.
//
// Each value may hold several comma separated labels; labels are trimmed
// and blanks dropped. Order is kept and duplicates removed.
func ParseDiseases(values []string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if _, dup := seen[part]; dup {
				continue
			}
			seen[part] = struct{}{}
			out = append(out, part)
		}
	}
	return out
}
