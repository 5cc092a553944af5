package csvio

import (
	"encoding/csv"
	"io"

	"github.com/junstudys/split-csv-by-field/pkg/frame"
	iox "github.com/junstudys/split-csv-by-field/pkg/io/ioutils"
)

const bom = "\ufeff"

type WriterOptions struct {
	Delimiter rune // default ','
	NoBOM     bool // omit the UTF-8 byte order mark spreadsheet tools look for
}

// Write writes a Frame as CSV with a header row. Nulls are written as empty
// cells.
func Write(out io.Writer, f *frame.Frame, opt WriterOptions) error {
	if !opt.NoBOM {
		if _, err := io.WriteString(out, bom); err != nil {
			return err
		}
	}
	w := csv.NewWriter(out)
	if opt.Delimiter != 0 {
		w.Comma = opt.Delimiter
	}
	if err := w.Write(f.Schema().Names()); err != nil {
		return err
	}
	for r := 0; r < f.Rows(); r++ {
		if err := w.Write(f.Record(r)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteAll writes a Frame to a CSV file. The file appears only once it is
// completely written.
func WriteAll(path string, f *frame.Frame, opt WriterOptions) error {
	return iox.WriteAtomic(path, func(w io.Writer) error {
		return Write(w, f, opt)
	})
}

// Sink writes split outputs as CSV files.
type Sink struct {
	Options WriterOptions
}

func (Sink) Ext() string { return "csv" }

func (s Sink) WriteFile(path string, f *frame.Frame) error {
	return WriteAll(path, f, s.Options)
}
