package model

import "gopkg.in/guregu/null.v3"

// GroupSummary describes the Expression distribution of one
// (Disease/Tissue, Study) group. Statistics are null when the group has no
// non-null values or the statistic is undefined for its size.
type GroupSummary struct {
	DiseaseTissue string     `json:"disease_tissue"`
	Study         string     `json:"study"`
	Samples       int        `json:"samples"`
	Count         int        `json:"count"`
	Mean          null.Float `json:"mean"`
	Median        null.Float `json:"median"`
	Q1            null.Float `json:"q1"`
	Q3            null.Float `json:"q3"`
	Min           null.Float `json:"min"`
	Max           null.Float `json:"max"`
	StdDev        null.Float `json:"std_dev"`
}
