// Package stats accumulates per-run totals for a batch of split operations.
package stats

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Output is one written file and the number of data rows it holds.
type Output struct {
	Name string `json:"name"`
	Rows int    `json:"rows"`
}

// Manifest lists the files produced by one split call in write order.
type Manifest []Output

// Rows sums the row counts.
func (m Manifest) Rows() int {
	n := 0
	for _, o := range m {
		n += o.Rows
	}
	return n
}

// Run is the cumulative state of one batch. It is owned by the caller driving
// the batch and is not safe for concurrent use.
type Run struct {
	TotalFiles  int      `json:"total_files"`
	TotalRows   int      `json:"total_rows"`
	OutputFiles int      `json:"output_files"`
	Outputs     Manifest `json:"files"`
	Errors      []string `json:"errors"`
}

// Collector records into a Run and mirrors the counters into a Prometheus
// registry so they can be exported after the run.
type Collector struct {
	run Run
	reg *prometheus.Registry

	inputFiles  prometheus.Counter
	inputRows   prometheus.Counter
	outputFiles prometheus.Counter
	outputRows  prometheus.Counter
	errors      prometheus.Counter
	fileRows    prometheus.Histogram
}

// NewCollector returns an empty collector with its own registry.
func NewCollector() *Collector {
	c := &Collector{reg: prometheus.NewRegistry()}
	c.inputFiles = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "splitcsv_input_files_total",
		Help: "Input files read.",
	})
	c.inputRows = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "splitcsv_input_rows_total",
		Help: "Data rows read from input files.",
	})
	c.outputFiles = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "splitcsv_output_files_total",
		Help: "Partition files written.",
	})
	c.outputRows = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "splitcsv_output_rows_total",
		Help: "Data rows written to partition files.",
	})
	c.errors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "splitcsv_errors_total",
		Help: "Input files that failed to split.",
	})
	c.fileRows = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "splitcsv_output_file_rows",
		Help:    "Rows per written partition file.",
		Buckets: prometheus.ExponentialBuckets(10, 10, 7),
	})
	c.reg.MustRegister(c.inputFiles, c.inputRows, c.outputFiles, c.outputRows, c.errors, c.fileRows)
	return c
}

// AddInput records one input file with rows data rows.
func (c *Collector) AddInput(rows int) {
	c.run.TotalFiles++
	c.run.TotalRows += rows
	c.inputFiles.Inc()
	c.inputRows.Add(float64(rows))
}

// AddOutput appends a written file to the manifest.
func (c *Collector) AddOutput(name string, rows int) {
	c.run.OutputFiles++
	c.run.Outputs = append(c.run.Outputs, Output{Name: name, Rows: rows})
	c.outputFiles.Inc()
	c.outputRows.Add(float64(rows))
	c.fileRows.Observe(float64(rows))
}

// AddError records a per-file failure message.
func (c *Collector) AddError(msg string) {
	c.run.Errors = append(c.run.Errors, msg)
	c.errors.Inc()
}

// Run returns a copy of the accumulated state.
func (c *Collector) Run() Run {
	out := c.run
	out.Outputs = append(Manifest(nil), c.run.Outputs...)
	out.Errors = append([]string(nil), c.run.Errors...)
	return out
}

// WriteMetrics writes the counters in the Prometheus text format, atomically
// replacing path.
func (c *Collector) WriteMetrics(path string) error {
	return prometheus.WriteToTextfile(path, c.reg)
}
