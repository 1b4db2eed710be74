package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"github.com/gocarina/gocsv"
	"gopkg.in/guregu/null.v3"
)

// Table layouts accepted by ExpressionTable.View.
const (
	// OrientColumns is {"<column>": {"<row>": value}}, the dataframe layout
	// the front end consumes.
	OrientColumns = "columns"

	// OrientRecords is [{"<column>": value}].
	OrientRecords = "records"
)

// FloatFrom wraps a hub value, mapping NaN and infinities to null.
func FloatFrom(v float64) null.Float {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return null.Float{}
	}
	return null.FloatFrom(v)
}

// Value returns the record's value for a column name.
func (r ExpressionRecord) Value(column string) interface{} {
	switch column {
	case ColumnSample:
		return r.Sample
	case ColumnStudy:
		return r.Study
	case ColumnExpression:
		return r.Expression
	case ColumnDiseaseTissue:
		return r.DiseaseTissue
	case ColumnExpression2:
		return r.Expression2
	default:
		return nil
	}
}

// View returns a JSON view of the table in the given orient.
// Unknown orients fall back to OrientColumns.
func (t *ExpressionTable) View(orient string) json.Marshaler {
	if orient == OrientRecords {
		return recordsView{t}
	}
	return columnsView{t}
}

type columnsView struct {
	table *ExpressionTable
}

func (v columnsView) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range v.table.Columns() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, col); err != nil {
			return nil, err
		}
		buf.WriteByte('{')
		for j, rec := range v.table.Records {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeKey(&buf, strconv.Itoa(rec.Row)); err != nil {
				return nil, err
			}
			if err := writeValue(&buf, rec.Value(col)); err != nil {
				return nil, err
			}
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type recordsView struct {
	table *ExpressionTable
}

func (v recordsView) MarshalJSON() ([]byte, error) {
	cols := v.table.Columns()

	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, rec := range v.table.Records {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for j, col := range cols {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeKey(&buf, col); err != nil {
				return nil, err
			}
			if err := writeValue(&buf, rec.Value(col)); err != nil {
				return nil, err
			}
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	if err := writeValue(buf, key); err != nil {
		return err
	}
	buf.WriteByte(':')
	return nil
}

func writeValue(buf *bytes.Buffer, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

type exportRow struct {
	Sample        string `csv:"Sample"`
	Study         string `csv:"Study"`
	Expression    string `csv:"Expression"`
	DiseaseTissue string `csv:"Disease/Tissue"`
}

type exportRowWithSecondGene struct {
	Sample        string `csv:"Sample"`
	Study         string `csv:"Study"`
	Expression    string `csv:"Expression"`
	DiseaseTissue string `csv:"Disease/Tissue"`
	Expression2   string `csv:"Expression2"`
}

// CSV renders the table as CSV with a header row. Null values are empty.
func (t *ExpressionTable) CSV() ([]byte, error) {
	if t.HasExpression2() {
		rows := make([]*exportRowWithSecondGene, 0, len(t.Records))
		for _, rec := range t.Records {
			rows = append(rows, &exportRowWithSecondGene{
				Sample:        rec.Sample,
				Study:         rec.Study,
				Expression:    NullFloatFormatter(rec.Expression),
				DiseaseTissue: NullStringFormatter(rec.DiseaseTissue),
				Expression2:   NullFloatFormatter(rec.Expression2),
			})
		}
		return gocsv.MarshalBytes(&rows)
	}

	rows := make([]*exportRow, 0, len(t.Records))
	for _, rec := range t.Records {
		rows = append(rows, &exportRow{
			Sample:        rec.Sample,
			Study:         rec.Study,
			Expression:    NullFloatFormatter(rec.Expression),
			DiseaseTissue: NullStringFormatter(rec.DiseaseTissue),
		})
	}
	return gocsv.MarshalBytes(&rows)
}

// NullFloatFormatter renders a nullable float, empty when null.
func NullFloatFormatter(n null.Float) string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Float64, 'g', -1, 64)
}

// NullStringFormatter renders a nullable string, empty when null.
func NullStringFormatter(n null.String) string {
	if !n.Valid {
		return ""
	}
	return n.String
}
