package split

import (
	"errors"
	"strings"

	"github.com/junstudys/split-csv-by-field/pkg/classify"
	"github.com/junstudys/split-csv-by-field/pkg/dates"
)

var (
	// ErrNoUsableFields means none of the requested columns exist.
	ErrNoUsableFields = errors.New("no usable split fields")
	// ErrMaxRowsRequired means a rows-only split was asked for without a limit.
	ErrMaxRowsRequired = errors.New("rows-only split requires max rows")
)

// Strategy is the splitting shape chosen from the classified fields.
type Strategy int

const (
	NoStrategy Strategy = iota
	// Cascade groups level by level over two or more categorical fields.
	Cascade
	// CategoricalWithDate pairs one categorical field with the first date field.
	CategoricalWithDate
	// CategoricalOnly groups by the single categorical field.
	CategoricalOnly
	// DateOnly groups by the first date field.
	DateOnly
)

func (s Strategy) String() string {
	switch s {
	case Cascade:
		return "cascade"
	case CategoricalWithDate:
		return "categorical+date"
	case CategoricalOnly:
		return "categorical"
	case DateOnly:
		return "date"
	default:
		return "none"
	}
}

// Level is one grouping stage. Period levels bucket by calendar label and
// isolate unparseable dates into the NULL bucket; other levels group by the
// exact cell value and leave null cells out.
type Level struct {
	Field  string
	Period bool
}

func (l Level) String() string {
	if l.Period {
		return l.Field + "(period)"
	}
	return l.Field
}

// ChooseStrategy is the dispatch table over the field groups.
func ChooseStrategy(cls classify.Result) Strategy {
	nd, d := len(cls.NonDateFields), len(cls.DateFields)
	switch {
	case nd >= 2:
		return Cascade
	case nd == 1 && d >= 1:
		return CategoricalWithDate
	case nd == 1:
		return CategoricalOnly
	case d >= 1:
		return DateOnly
	default:
		return NoStrategy
	}
}

// Plan turns classified fields into the ordered grouping levels. Without a
// granularity, date fields are grouped by their raw value like any other
// field.
func Plan(cls classify.Result, g dates.Granularity) (Strategy, []Level, error) {
	s := ChooseStrategy(cls)
	byValue := func(fields ...string) []Level {
		out := make([]Level, len(fields))
		for i, f := range fields {
			out[i] = Level{Field: f}
		}
		return out
	}
	bucketed := g != dates.None

	switch s {
	case Cascade:
		levels := byValue(cls.NonDateFields...)
		switch {
		case len(cls.DateFields) > 0 && bucketed:
			levels = append(levels, Level{Field: cls.DateFields[0], Period: true})
		case len(cls.DateFields) > 0:
			levels = append(levels, byValue(cls.DateFields...)...)
		}
		return s, levels, nil
	case CategoricalWithDate:
		if bucketed {
			return s, []Level{{Field: cls.NonDateFields[0]}, {Field: cls.DateFields[0], Period: true}}, nil
		}
		return s, byValue(cls.NonDateFields[0], cls.DateFields[0]), nil
	case CategoricalOnly:
		return s, byValue(cls.NonDateFields[0]), nil
	case DateOnly:
		if bucketed {
			return s, []Level{{Field: cls.DateFields[0], Period: true}}, nil
		}
		return s, byValue(cls.DateFields[0]), nil
	}
	return s, nil, ErrNoUsableFields
}

// Describe renders levels for logs, e.g. "province > city > order_date(period)".
func Describe(levels []Level) string {
	parts := make([]string, len(levels))
	for i, l := range levels {
		parts[i] = l.String()
	}
	return strings.Join(parts, " > ")
}
