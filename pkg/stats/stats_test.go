package stats

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorAccumulates(t *testing.T) {
	c := NewCollector()
	c.AddInput(10)
	c.AddInput(5)
	c.AddOutput("a_GD.csv", 8)
	c.AddOutput("a_ZJ.csv", 2)
	c.AddError("processing b.csv: boom")

	run := c.Run()
	assert.Equal(t, 2, run.TotalFiles)
	assert.Equal(t, 15, run.TotalRows)
	assert.Equal(t, 2, run.OutputFiles)
	assert.Equal(t, 10, run.Outputs.Rows())
	assert.Equal(t, []string{"processing b.csv: boom"}, run.Errors)

	assert.Equal(t, 15.0, testutil.ToFloat64(c.inputRows))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.outputFiles))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.errors))

	// snapshot is detached from later writes
	c.AddOutput("late.csv", 1)
	assert.Len(t, run.Outputs, 2)
}

func TestDistribution(t *testing.T) {
	_, ok := Run{}.Distribution()
	assert.False(t, ok)

	r := Run{Outputs: Manifest{{"a", 400}, {"b", 200}, {"c", 400}}}
	d, ok := r.Distribution()
	require.True(t, ok)
	assert.Equal(t, 200.0, d.Min)
	assert.Equal(t, 400.0, d.Max)
	assert.InDelta(t, 333.3, d.Mean, 0.1)
	assert.Equal(t, 400.0, d.Median)
}

func TestReportText(t *testing.T) {
	r := Run{TotalFiles: 1, TotalRows: 3, OutputFiles: 2,
		Outputs: Manifest{{"base_GD.csv", 2}, {"base_ZJ.csv", 1}},
		Errors:  []string{"x failed"}}
	txt := r.ReportText("/tmp/out")
	assert.Contains(t, txt, "base_GD.csv (2 rows)")
	assert.Contains(t, txt, "output dir:   /tmp/out")
	assert.Contains(t, txt, "errors (1)")
}

func TestWriteMetrics(t *testing.T) {
	c := NewCollector()
	c.AddInput(3)
	c.AddOutput("x.csv", 3)
	path := filepath.Join(t.TempDir(), "split.prom")
	require.NoError(t, c.WriteMetrics(path))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(b), "splitcsv_output_files_total 1"))
}
