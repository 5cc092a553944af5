// Package profile describes the columns of a dataset for field selection.
package profile

import (
	"fmt"
	"strings"

	"github.com/junstudys/split-csv-by-field/pkg/classify"
	"github.com/junstudys/split-csv-by-field/pkg/dates"
	"github.com/junstudys/split-csv-by-field/pkg/frame"
)

// SampleRows is how many leading rows field listing looks at.
const SampleRows = 1000

type ColumnProfile struct {
	Index    int    `json:"index"`
	Name     string `json:"name"`
	Class    string `json:"class"`
	Format   string `json:"format,omitempty"`
	Count    int    `json:"count"`
	Nulls    int    `json:"nulls"`
	Distinct int    `json:"distinct"`
	Sample   string `json:"sample,omitempty"`
}

type Profile struct {
	Rows    int             `json:"rows"`
	Columns []ColumnProfile `json:"columns"`
}

// Build profiles every column of f. The detected format is that of the
// first non-null value.
func Build(f *frame.Frame, c classify.Classifier) Profile {
	out := Profile{Rows: f.Rows(), Columns: make([]ColumnProfile, 0, f.Cols())}
	for i := 0; i < f.Cols(); i++ {
		col := f.Column(i)
		cp := ColumnProfile{Index: i + 1, Name: col.Name(), Class: classify.Categorical.String()}
		if c.IsDateColumn(col) {
			cp.Class = classify.Date.String()
		}
		seen := make(map[string]struct{})
		for r := 0; r < col.Len(); r++ {
			v, ok := col.Get(r)
			if !ok {
				cp.Nulls++
				continue
			}
			cp.Count++
			seen[v] = struct{}{}
			if cp.Sample == "" {
				cp.Sample = v
				cp.Format, _ = dates.DetectFormat(v)
			}
		}
		cp.Distinct = len(seen)
		out.Columns = append(out.Columns, cp)
	}
	return out
}

// Fields returns the column names in order.
func (p Profile) Fields() []string {
	names := make([]string, len(p.Columns))
	for i, c := range p.Columns {
		names[i] = c.Name
	}
	return names
}

func (p Profile) ReportText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Fields (first %d rows)\n", p.Rows)
	for _, c := range p.Columns {
		fmt.Fprintf(&b, "%3d. %s [%s]", c.Index, c.Name, c.Class)
		if c.Format != "" {
			fmt.Fprintf(&b, " format=%s", c.Format)
		}
		fmt.Fprintf(&b, " count=%d nulls=%d distinct=%d", c.Count, c.Nulls, c.Distinct)
		if c.Sample != "" {
			fmt.Fprintf(&b, " sample=%q", truncate(c.Sample, 40))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
