// Package batch drives a split over many input files, recording per-file
// failures without aborting the run.
package batch

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/junstudys/split-csv-by-field/pkg/errs"
	"github.com/junstudys/split-csv-by-field/pkg/frame"
	iox "github.com/junstudys/split-csv-by-field/pkg/io/ioutils"
	"github.com/junstudys/split-csv-by-field/pkg/split"
	"github.com/junstudys/split-csv-by-field/pkg/stats"
)

// DefaultRowsOnlyMax applies to a rows-only split without a configured limit.
const DefaultRowsOnlyMax = 500000

// Progress is one milestone while processing a file.
type Progress struct {
	File    string
	Index   int // 1-based position of File in the batch
	Total   int
	Percent int
	Message string
}

// ProgressFunc receives milestones 0, 10, 20, 30, 90 and 100 for every file.
// 20 and 30 follow field classification; a failed file ends at 100 without
// the milestones it never reached.
type ProgressFunc func(Progress)

// Runner processes files one after another through a Planner. The Planner's
// Stats collector is the run's only mutable state.
type Runner struct {
	Planner   *split.Planner
	Load      func(path string) (*frame.Frame, error)
	Spec      split.Spec
	OutputDir string
	Progress  ProgressFunc
	Log       *zap.Logger
}

// Run splits every input into OutputDir and returns the run totals. A file
// that cannot be read or split is recorded in the run errors and skipped.
// Only an unusable output directory or a cancelled ctx end the run early.
func (r *Runner) Run(ctx context.Context, inputs []string) (stats.Run, error) {
	if r.Planner.Stats == nil {
		r.Planner.Stats = stats.NewCollector()
	}
	col := r.Planner.Stats
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("run_id", uuid.NewString()))
	planner := *r.Planner
	planner.Log = log

	if err := os.MkdirAll(r.OutputDir, 0o755); err != nil {
		return col.Run(), errs.E(errs.KindWrite, "create output dir", r.OutputDir, err)
	}
	load := r.Load
	if load == nil {
		load = Loader{Log: log}.Load
	}

	log.Info("batch started",
		zap.Int("files", len(inputs)),
		zap.Strings("fields", r.Spec.Fields),
		zap.String("period", r.Spec.Granularity.Description()),
		zap.Int("max_rows", r.Spec.MaxRows),
		zap.String("output_dir", r.OutputDir),
	)
	bases := make(map[string]string) // output base -> first input
	for i, path := range inputs {
		if err := ctx.Err(); err != nil {
			log.Warn("batch cancelled", zap.Int("remaining", len(inputs)-i))
			return col.Run(), err
		}
		base := iox.TrimExt(path)
		if prev, dup := bases[base]; dup {
			log.Warn("inputs share an output base name, later outputs may replace earlier ones",
				zap.String("base", base), zap.String("file", path), zap.String("other", prev))
		} else {
			bases[base] = path
		}
		r.processFile(planner, load, path, base, i+1, len(inputs))
	}
	run := col.Run()
	log.Info("batch finished",
		zap.Int("files", run.TotalFiles),
		zap.Int("rows", run.TotalRows),
		zap.Int("outputs", run.OutputFiles),
		zap.Int("errors", len(run.Errors)),
	)
	return run, nil
}

func (r *Runner) processFile(p split.Planner, load func(string) (*frame.Frame, error), path, base string, idx, total int) {
	log := p.Log.With(zap.String("file", path))
	progress := func(pct int, msg string) {
		if r.Progress != nil {
			r.Progress(Progress{File: path, Index: idx, Total: total, Percent: pct, Message: msg})
		}
	}
	fail := func(err error) {
		log.Error("file failed", zap.Error(err))
		p.Stats.AddError(err.Error())
		progress(100, "failed: "+err.Error())
	}

	progress(0, "start")
	log.Info("processing file", zap.Int("index", idx), zap.Int("total", total))

	progress(10, "reading")
	f, err := load(path)
	if err != nil {
		fail(errs.E(errs.KindRead, "load", path, err))
		return
	}
	p.Stats.AddInput(f.Rows())
	log.Info("file loaded", zap.Int("rows", f.Rows()), zap.Int("columns", f.Cols()))

	var m stats.Manifest
	if len(r.Spec.Fields) == 0 {
		max := r.Spec.MaxRows
		if max < 1 {
			max = DefaultRowsOnlyMax
		}
		progress(30, fmt.Sprintf("splitting by rows (%d per file)", max))
		m, err = p.SplitRows(f, max, base, r.OutputDir)
	} else {
		p.Planned = func(s split.Strategy, levels []split.Level) {
			progress(20, fmt.Sprintf("fields analysed: %s (%s)", s, split.Describe(levels)))
			progress(30, "splitting")
		}
		m, err = p.Split(f, r.Spec, base, r.OutputDir)
	}
	if err != nil {
		if errs.KindOf(err) == "" {
			err = errs.E(errs.KindSplit, "split", path, err)
		} else {
			err = fmt.Errorf("%s: %w", path, err)
		}
		fail(err)
		return
	}
	progress(90, fmt.Sprintf("split complete: %d files", len(m)))
	log.Info("file split", zap.Int("outputs", len(m)), zap.Int("rows_written", m.Rows()))
	progress(100, "done")
}
