package split

import (
	"path/filepath"

	"go.uber.org/zap"

	"github.com/junstudys/split-csv-by-field/pkg/errs"
	"github.com/junstudys/split-csv-by-field/pkg/frame"
	"github.com/junstudys/split-csv-by-field/pkg/stats"
)

// Sink writes one frame to one file. Implementations live in the io
// packages (CSV, JSON lines, Parquet).
type Sink interface {
	// Ext is the file extension without the dot.
	Ext() string
	WriteFile(path string, f *frame.Frame) error
}

// Bounds returns the [lo, hi) row ranges of sequential chunks of at most max
// rows covering n rows. max < 1, or n <= max, yields a single range.
func Bounds(n, max int) [][2]int {
	if max < 1 || n <= max {
		return [][2]int{{0, n}}
	}
	parts := (n + max - 1) / max
	out := make([][2]int, parts)
	for i := range out {
		lo := i * max
		hi := lo + max
		if hi > n {
			hi = n
		}
		out[i] = [2]int{lo, hi}
	}
	return out
}

// Chunker writes a slice either whole or as numbered parts.
type Chunker struct {
	Dir     string
	MaxRows int // 0 = never chunk
	Sink    Sink
	Stats   *stats.Collector
	Log     *zap.Logger
}

// Write stores f as {base}{suffix}.ext, or as {base}{suffix}_part{i}.ext for
// i = 1..k when f holds more than MaxRows rows. Each file is added to the
// stats manifest only after it was written successfully.
func (c *Chunker) Write(f *frame.Frame, base, suffix string) (stats.Manifest, error) {
	bounds := Bounds(f.Rows(), c.MaxRows)
	out := make(stats.Manifest, 0, len(bounds))
	for i, b := range bounds {
		part := 0
		slice := f
		if len(bounds) > 1 {
			part = i + 1
			slice = f.Slice(b[0], b[1])
		}
		name := fileName(base, suffix, part, c.Sink.Ext())
		if err := c.Sink.WriteFile(filepath.Join(c.Dir, name), slice); err != nil {
			return out, errs.E(errs.KindWrite, "write", name, err)
		}
		out = append(out, stats.Output{Name: name, Rows: slice.Rows()})
		if c.Stats != nil {
			c.Stats.AddOutput(name, slice.Rows())
		}
		if c.Log != nil {
			c.Log.Debug("wrote partition", zap.String("file", name), zap.Int("rows", slice.Rows()))
		}
	}
	return out, nil
}
