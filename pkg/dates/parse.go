package dates

import (
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Parsed is the result of parsing a column of raw values. OK[i] is false for
// null inputs and for values no parser accepted.
type Parsed struct {
	Times  []time.Time
	OK     []bool
	Layout string // catalog layout that parsed every value, empty on fallback
}

// Valid counts the successfully parsed values.
func (p Parsed) Valid() int {
	n := 0
	for _, ok := range p.OK {
		if ok {
			n++
		}
	}
	return n
}

// ParseColumn parses values, skipping those flagged in nulls (nulls may be
// nil). Each catalog layout is tried against the whole column first; the first
// layout that parses every non-null value wins. This keeps plain numbers such
// as 20240115 from being read as anything else. If no layout is exhaustive,
// every value is parsed on its own: catalog layouts first, then a permissive
// parser.
func ParseColumn(values []string, nulls []bool) Parsed {
	n := len(values)
	isNull := func(i int) bool { return nulls != nil && nulls[i] }

	for _, f := range Catalog {
		if p, ok := parseStrict(f.Layout, values, isNull); ok {
			return p
		}
	}

	out := Parsed{Times: make([]time.Time, n), OK: make([]bool, n)}
	for i, v := range values {
		if isNull(i) {
			continue
		}
		if t, ok := ParseValue(v); ok {
			out.Times[i], out.OK[i] = t, true
		}
	}
	return out
}

// parseStrict parses every non-null value with layout, failing on the first
// miss. A column with no non-null values never parses strictly.
func parseStrict(layout string, values []string, isNull func(int) bool) (Parsed, bool) {
	p := Parsed{Times: make([]time.Time, len(values)), OK: make([]bool, len(values)), Layout: layout}
	seen := 0
	for i, v := range values {
		if isNull(i) {
			continue
		}
		t, err := time.Parse(layout, strings.TrimSpace(v))
		if err != nil {
			return Parsed{}, false
		}
		p.Times[i], p.OK[i] = t, true
		seen++
	}
	return p, seen > 0
}

// ParseValue parses a single value: catalog layouts first, then dateparse.
// Plain numbers outside the catalog are not dates; dateparse would read them
// as years or Unix timestamps.
func ParseValue(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, false
	}
	for _, f := range Catalog {
		if t, err := time.Parse(f.Layout, v); err == nil {
			return t, true
		}
	}
	if _, err := strconv.ParseFloat(v, 64); err == nil {
		return time.Time{}, false
	}
	t, err := dateparse.ParseIn(v, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
