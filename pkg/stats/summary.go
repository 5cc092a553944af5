package stats

import (
	"fmt"
	"strings"

	mstats "github.com/montanaflynn/stats"
)

// Distribution describes the spread of rows per output file.
type Distribution struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

// Distribution summarises the manifest; ok is false when nothing was written.
func (r Run) Distribution() (d Distribution, ok bool) {
	if len(r.Outputs) == 0 {
		return d, false
	}
	data := make(mstats.Float64Data, len(r.Outputs))
	for i, o := range r.Outputs {
		data[i] = float64(o.Rows)
	}
	var err error
	if d.Min, err = data.Min(); err != nil {
		return d, false
	}
	if d.Max, err = data.Max(); err != nil {
		return d, false
	}
	if d.Mean, err = data.Mean(); err != nil {
		return d, false
	}
	if d.Median, err = data.Median(); err != nil {
		return d, false
	}
	return d, true
}

// ReportText renders the end-of-run summary.
func (r Run) ReportText(outputDir string) string {
	var b strings.Builder
	b.WriteString("Run Summary\n")
	fmt.Fprintf(&b, "- input files:  %d\n", r.TotalFiles)
	fmt.Fprintf(&b, "- total rows:   %d\n", r.TotalRows)
	fmt.Fprintf(&b, "- output files: %d\n", r.OutputFiles)
	if outputDir != "" {
		fmt.Fprintf(&b, "- output dir:   %s\n", outputDir)
	}
	if d, ok := r.Distribution(); ok {
		fmt.Fprintf(&b, "- rows/file:    min=%.0f max=%.0f mean=%.1f median=%.1f\n", d.Min, d.Max, d.Mean, d.Median)
	}
	for _, o := range r.Outputs {
		fmt.Fprintf(&b, "  • %s (%d rows)\n", o.Name, o.Rows)
	}
	if len(r.Errors) > 0 {
		fmt.Fprintf(&b, "errors (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			fmt.Fprintf(&b, "  - %s\n", e)
		}
	}
	return b.String()
}
