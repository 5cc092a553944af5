package batch

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/junstudys/split-csv-by-field/pkg/dates"
	"github.com/junstudys/split-csv-by-field/pkg/errs"
	"github.com/junstudys/split-csv-by-field/pkg/io/csvio"
	"github.com/junstudys/split-csv-by-field/pkg/split"
	"github.com/junstudys/split-csv-by-field/pkg/stats"
)

func writeCSV(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func newRunner(out string, spec split.Spec) *Runner {
	return &Runner{
		Planner:   &split.Planner{Sink: csvio.Sink{}, Stats: stats.NewCollector()},
		Spec:      spec,
		OutputDir: out,
	}
}

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.csv", "a.CSV", "c.csv.gz", "d.parquet", "f.xlsx", "notes.txt", "sub/e.csv"} {
		writeCSV(t, filepath.Join(dir, name), "x\n")
	}

	files, err := ListFiles(dir, false)
	require.NoError(t, err)
	var names []string
	for _, f := range files {
		rel, _ := filepath.Rel(dir, f)
		names = append(names, filepath.ToSlash(rel))
	}
	assert.Equal(t, []string{"a.CSV", "b.csv", "c.csv.gz", "d.parquet", "f.xlsx"}, names)

	files, err = ListFiles(dir, true)
	require.NoError(t, err)
	assert.Len(t, files, 6)
	assert.True(t, sort.StringsAreSorted(files))

	one, err := ListFiles(filepath.Join(dir, "b.csv"), false)
	require.NoError(t, err)
	assert.Len(t, one, 1)
	none, err := ListFiles(filepath.Join(dir, "notes.txt"), false)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = ListFiles(filepath.Join(dir, "missing"), false)
	assert.Error(t, err)
}

func TestRunSplitsAndRecordsErrors(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "parts")
	writeCSV(t, filepath.Join(in, "sales.csv"),
		"province,order_date,amount\nGD,2024-01-05,1\nGD,2024-02-05,2\nZJ,2024-01-09,3\nZJ,bad,4\nZJ,2024-01-20,5\nGD,2024-01-25,6\n")
	writeCSV(t, filepath.Join(in, "empty.csv"), "")

	r := newRunner(out, split.Spec{Fields: []string{"province", "order_date"}, Granularity: dates.Month})
	var milestones []int
	var analysed string
	r.Progress = func(p Progress) {
		if p.File == filepath.Join(in, "sales.csv") {
			milestones = append(milestones, p.Percent)
			if p.Percent == 20 {
				analysed = p.Message
			}
		}
	}

	files, err := ListFiles(in, false)
	require.NoError(t, err)
	run, err := r.Run(context.Background(), files)
	require.NoError(t, err)

	assert.Equal(t, 1, run.TotalFiles)
	assert.Equal(t, 6, run.TotalRows)
	got := map[string]int{}
	for _, o := range run.Outputs {
		got[o.Name] = o.Rows
	}
	assert.Equal(t, map[string]int{
		"sales_GD_2024-01.csv": 2,
		"sales_GD_2024-02.csv": 1,
		"sales_ZJ_2024-01.csv": 2,
		"sales_ZJ_NULL.csv":    1,
	}, got)
	assert.Equal(t, []int{0, 10, 20, 30, 90, 100}, milestones)
	assert.Contains(t, analysed, "categorical+date")
	assert.Contains(t, analysed, "order_date(period)")

	require.Len(t, run.Errors, 1)
	assert.Contains(t, run.Errors[0], "empty.csv")
	assert.True(t, strings.HasPrefix(run.Errors[0], string(errs.KindRead)))

	for name := range got {
		_, err := os.Stat(filepath.Join(out, name))
		assert.NoError(t, err, name)
	}
}

func TestRunRowsOnly(t *testing.T) {
	in := filepath.Join(t.TempDir(), "big.csv")
	writeCSV(t, in, "id\n1\n2\n3\n4\n5\n")
	out := t.TempDir()

	r := newRunner(out, split.Spec{MaxRows: 2})
	run, err := r.Run(context.Background(), []string{in})
	require.NoError(t, err)
	assert.Equal(t, stats.Manifest{
		{Name: "big_part1.csv", Rows: 2},
		{Name: "big_part2.csv", Rows: 2},
		{Name: "big_part3.csv", Rows: 1},
	}, run.Outputs)

	r = newRunner(out, split.Spec{})
	run, err = r.Run(context.Background(), []string{in})
	require.NoError(t, err)
	assert.Equal(t, stats.Manifest{{Name: "big.csv", Rows: 5}}, run.Outputs, "default limit keeps small files whole")
}

func TestRunNoUsableFieldsIsRecorded(t *testing.T) {
	in := filepath.Join(t.TempDir(), "a.csv")
	writeCSV(t, in, "x\n1\n")
	r := newRunner(t.TempDir(), split.Spec{Fields: []string{"nope"}})
	var milestones []int
	r.Progress = func(p Progress) { milestones = append(milestones, p.Percent) }
	run, err := r.Run(context.Background(), []string{in})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 10, 100}, milestones, "no analysis milestone before planning fails")
	require.Len(t, run.Errors, 1)
	assert.Contains(t, run.Errors[0], split.ErrNoUsableFields.Error())
	assert.Empty(t, run.Outputs)
}

func TestRunCancelled(t *testing.T) {
	in := filepath.Join(t.TempDir(), "a.csv")
	writeCSV(t, in, "x\n1\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	run, err := newRunner(t.TempDir(), split.Spec{}).Run(ctx, []string{in})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, run.TotalFiles)
}

func TestRunBadOutputDir(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	writeCSV(t, blocker, "x")
	_, err := newRunner(filepath.Join(blocker, "out"), split.Spec{}).Run(context.Background(), nil)
	assert.True(t, errs.Is(err, errs.KindWrite))
}

func TestRunWarnsOnRepeatedBaseNames(t *testing.T) {
	in := t.TempDir()
	writeCSV(t, filepath.Join(in, "a", "x.csv"), "id\n1\n")
	writeCSV(t, filepath.Join(in, "b", "x.csv"), "id\n2\n")
	files, err := ListFiles(in, true)
	require.NoError(t, err)
	require.Len(t, files, 2)

	core, logs := observer.New(zap.WarnLevel)
	r := newRunner(t.TempDir(), split.Spec{})
	r.Log = zap.New(core)
	run, err := r.Run(context.Background(), files)
	require.NoError(t, err)
	assert.Equal(t, 2, run.TotalFiles)

	warned := logs.FilterMessageSnippet("share an output base name").All()
	require.Len(t, warned, 1)
	fields := warned[0].ContextMap()
	assert.Equal(t, files[1], fields["file"])
	assert.Equal(t, files[0], fields["other"])
}
