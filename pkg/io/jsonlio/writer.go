package jsonlio

import (
	"bufio"
	"io"

	json "github.com/goccy/go-json"

	"github.com/junstudys/split-csv-by-field/pkg/frame"
	iox "github.com/junstudys/split-csv-by-field/pkg/io/ioutils"
)

// Write emits one JSON object per row. Keys keep the column order and nulls
// are written as JSON null.
func Write(out io.Writer, f *frame.Frame) error {
	w := bufio.NewWriter(out)
	keys := make([][]byte, f.Cols())
	for c, name := range f.Schema().Names() {
		k, err := json.Marshal(name)
		if err != nil {
			return err
		}
		keys[c] = k
	}
	for r := 0; r < f.Rows(); r++ {
		_ = w.WriteByte('{')
		for c := 0; c < f.Cols(); c++ {
			if c > 0 {
				_ = w.WriteByte(',')
			}
			_, _ = w.Write(keys[c])
			_ = w.WriteByte(':')
			v, ok := f.Column(c).Get(r)
			if !ok {
				_, _ = w.WriteString("null")
				continue
			}
			b, err := json.Marshal(v)
			if err != nil {
				return err
			}
			_, _ = w.Write(b)
		}
		if _, err := w.WriteString("}\n"); err != nil {
			return err
		}
	}
	return w.Flush()
}

func WriteAll(path string, f *frame.Frame) error {
	return iox.WriteAtomic(path, func(w io.Writer) error { return Write(w, f) })
}

// Sink writes split outputs as JSON Lines files.
type Sink struct{}

func (Sink) Ext() string { return "jsonl" }

func (Sink) WriteFile(path string, f *frame.Frame) error { return WriteAll(path, f) }
