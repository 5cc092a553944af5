// Package classify decides whether requested split columns hold dates or
// categorical values.
package classify

import (
	"github.com/junstudys/split-csv-by-field/pkg/dates"
	"github.com/junstudys/split-csv-by-field/pkg/frame"
)

// DefaultThreshold is the share of non-null values that must look like dates.
const DefaultThreshold = 0.8

// Class tags a requested column.
type Class int

const (
	Categorical Class = iota
	Date
	Missing
)

func (c Class) String() string {
	switch c {
	case Date:
		return "DATE"
	case Missing:
		return "MISSING"
	default:
		return "CATEGORICAL"
	}
}

// Classifier holds the detection parameters. The zero value uses
// DefaultThreshold and inspects every row.
type Classifier struct {
	Threshold  float64
	SampleRows int // 0 = all rows
}

func (c Classifier) threshold() float64 {
	if c.Threshold <= 0 || c.Threshold > 1 {
		return DefaultThreshold
	}
	return c.Threshold
}

// IsDateColumn reports whether at least Threshold of the column's non-null
// values match a catalog date format. A column without non-null values is
// never a date column.
func (c Classifier) IsDateColumn(col *frame.Column) bool {
	n := col.Len()
	if c.SampleRows > 0 && c.SampleRows < n {
		n = c.SampleRows
	}
	nonNull, hits := 0, 0
	for i := 0; i < n; i++ {
		v, ok := col.Get(i)
		if !ok {
			continue
		}
		nonNull++
		if dates.IsDate(v) {
			hits++
		}
	}
	if nonNull == 0 {
		return false
	}
	return float64(hits)/float64(nonNull) >= c.threshold()
}

// Classify tags one column name against f.
func (c Classifier) Classify(f *frame.Frame, name string) Class {
	col, ok := f.ColumnByName(name)
	if !ok {
		return Missing
	}
	if c.IsDateColumn(col) {
		return Date
	}
	return Categorical
}

// Result partitions requested fields, each group keeping request order.
type Result struct {
	DateFields    []string
	NonDateFields []string
	Missing       []string
	Classes       map[string]Class
}

// Empty reports whether no requested field exists in the frame.
func (r Result) Empty() bool { return len(r.DateFields) == 0 && len(r.NonDateFields) == 0 }

// Fields classifies each requested field independently. Unknown names are
// collected in Missing rather than failing; a field requested twice is
// classified once.
func (c Classifier) Fields(f *frame.Frame, fields []string) Result {
	res := Result{Classes: make(map[string]Class, len(fields))}
	for _, name := range fields {
		if _, seen := res.Classes[name]; seen {
			continue
		}
		cls := c.Classify(f, name)
		res.Classes[name] = cls
		switch cls {
		case Date:
			res.DateFields = append(res.DateFields, name)
		case Categorical:
			res.NonDateFields = append(res.NonDateFields, name)
		default:
			res.Missing = append(res.Missing, name)
		}
	}
	return res
}
