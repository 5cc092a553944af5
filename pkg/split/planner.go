// Package split partitions a frame into files by categorical values, calendar
// periods and row counts.
package split

import (
	"sort"

	"go.uber.org/zap"

	"github.com/junstudys/split-csv-by-field/pkg/classify"
	"github.com/junstudys/split-csv-by-field/pkg/dates"
	"github.com/junstudys/split-csv-by-field/pkg/errs"
	"github.com/junstudys/split-csv-by-field/pkg/frame"
	"github.com/junstudys/split-csv-by-field/pkg/stats"
)

// Spec is the caller's split configuration.
type Spec struct {
	Fields      []string
	Granularity dates.Granularity // None = group dates by raw value
	MaxRows     int               // 0 = no secondary chunking
}

// Planner classifies the requested fields, picks a strategy and writes every
// branch through a Chunker. A Planner is not safe for concurrent use: all
// writes go to the one Stats collector.
type Planner struct {
	Classifier classify.Classifier
	Sink       Sink
	Stats      *stats.Collector
	Log        *zap.Logger
	// Planned, when set, is called once the fields are classified and the
	// levels chosen, before anything is written.
	Planned    func(Strategy, []Level)
}

func (p *Planner) logger() *zap.Logger {
	if p.Log == nil {
		return zap.NewNop()
	}
	return p.Log
}

func (p *Planner) chunker(dir string, maxRows int) *Chunker {
	return &Chunker{Dir: dir, MaxRows: maxRows, Sink: p.Sink, Stats: p.Stats, Log: p.Log}
}

// Split partitions f into dir, naming files after base. It returns the files
// written by this call; the same entries are appended to Stats.
func (p *Planner) Split(f *frame.Frame, spec Spec, base, dir string) (stats.Manifest, error) {
	log := p.logger()
	g, err := dates.ParseGranularity(string(spec.Granularity))
	if err != nil {
		return nil, errs.E(errs.KindConfig, "split", base, err)
	}
	cls := p.Classifier.Fields(f, spec.Fields)
	for _, name := range cls.Missing {
		log.Warn("split field not found, skipped", zap.String("field", name))
	}
	for _, name := range cls.DateFields {
		log.Info("field classified", zap.String("field", name), zap.Stringer("class", classify.Date))
	}
	for _, name := range cls.NonDateFields {
		log.Info("field classified", zap.String("field", name), zap.Stringer("class", classify.Categorical))
	}

	strategy, levels, err := Plan(cls, g)
	if err != nil {
		return nil, err
	}
	log.Info("split strategy",
		zap.Stringer("strategy", strategy),
		zap.String("levels", Describe(levels)),
		zap.String("period", g.Description()),
	)
	if p.Planned != nil {
		p.Planned(strategy, levels)
	}
	return p.walk(f, levels, g, p.chunker(dir, spec.MaxRows), base)
}

// SplitRows chunks f by row count only.
func (p *Planner) SplitRows(f *frame.Frame, maxRows int, base, dir string) (stats.Manifest, error) {
	if maxRows < 1 {
		return nil, ErrMaxRowsRequired
	}
	return p.chunker(dir, maxRows).Write(f, base, "")
}

type branch struct {
	f      *frame.Frame
	suffix string
	depth  int
}

// walk visits branches depth-first with an explicit stack; children are
// pushed in reverse so they are written in group order.
func (p *Planner) walk(f *frame.Frame, levels []Level, g dates.Granularity, c *Chunker, base string) (stats.Manifest, error) {
	var out stats.Manifest
	leaves := make(map[string]bool)
	stack := []branch{{f: f}}
	for len(stack) > 0 {
		b := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if b.depth == len(levels) {
			if leaves[b.suffix] {
				p.logger().Warn("different groups share an output name", zap.String("suffix", b.suffix))
			}
			leaves[b.suffix] = true
			files, err := c.Write(b.f, base, b.suffix)
			out = append(out, files...)
			if err != nil {
				return out, err
			}
			continue
		}

		lv := levels[b.depth]
		var groups []group
		if lv.Period {
			groups = p.periodGroups(b.f, lv.Field, g)
		} else {
			groups = p.valueGroups(b.f, lv.Field)
		}
		p.logger().Debug("level grouped",
			zap.Int("level", b.depth+1),
			zap.String("field", lv.Field),
			zap.Int("groups", len(groups)),
			zap.String("suffix", b.suffix),
		)
		for i := len(groups) - 1; i >= 0; i-- {
			gr := groups[i]
			stack = append(stack, branch{f: b.f.Take(gr.rows), suffix: b.suffix + "_" + gr.token, depth: b.depth + 1})
		}
	}
	return out, nil
}

type group struct {
	token string
	rows  []int
}

// valueGroups groups rows by file name token in first-seen order. Values
// that sanitize to the same token share one group. Null cells belong to no
// group.
func (p *Planner) valueGroups(f *frame.Frame, field string) []group {
	col, ok := f.ColumnByName(field)
	if !ok {
		return nil
	}
	tokens := make(map[string]string) // value -> token
	first := make(map[string]string)  // token -> first value
	index := make(map[string]int)     // token -> group
	var out []group
	for i := 0; i < col.Len(); i++ {
		v, ok := col.Get(i)
		if !ok {
			continue
		}
		tok, known := tokens[v]
		if !known {
			tok = SafeName(v)
			tokens[v] = tok
			if prev, clash := first[tok]; clash {
				p.logger().Warn("distinct values map to the same file name, merged",
					zap.String("field", field), zap.String("token", tok),
					zap.String("value", v), zap.String("other", prev))
			} else {
				first[tok] = v
			}
		}
		gi, seen := index[tok]
		if !seen {
			gi = len(out)
			index[tok] = gi
			out = append(out, group{token: tok})
		}
		out[gi].rows = append(out[gi].rows, i)
	}
	return out
}

// periodGroups buckets rows by period label in ascending order and appends a
// NULL group for rows whose date is missing or unparseable.
func (p *Planner) periodGroups(f *frame.Frame, field string, g dates.Granularity) []group {
	col, ok := f.ColumnByName(field)
	if !ok {
		return nil
	}
	values := make([]string, col.Len())
	nulls := make([]bool, col.Len())
	for i := range values {
		v, ok := col.Get(i)
		values[i], nulls[i] = v, !ok
	}
	keys, valid := dates.PeriodKeys(values, nulls, g)

	buckets := make(map[string][]int)
	var invalid []int
	for i, k := range keys {
		if !valid[i] {
			invalid = append(invalid, i)
			continue
		}
		buckets[k] = append(buckets[k], i)
	}
	labels := make([]string, 0, len(buckets))
	for k := range buckets {
		labels = append(labels, k)
	}
	sort.Strings(labels)

	out := make([]group, 0, len(labels)+1)
	for _, k := range labels {
		out = append(out, group{token: capLength(k), rows: buckets[k]})
	}
	if len(labels) == 0 && len(invalid) > 0 {
		p.logger().Warn("no valid dates", zap.String("field", field), zap.Int("rows", len(invalid)))
	}
	if len(invalid) > 0 {
		out = append(out, group{token: NullToken, rows: invalid})
	}
	return out
}
