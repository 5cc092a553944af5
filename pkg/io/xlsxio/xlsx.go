// Package xlsxio reads and writes single-sheet Excel workbooks.
package xlsxio

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/junstudys/split-csv-by-field/pkg/frame"
	iox "github.com/junstudys/split-csv-by-field/pkg/io/ioutils"
)

// MaxSheetRows is Excel's row limit per sheet, header included.
const MaxSheetRows = 1048576

const sheet = "Sheet1"

// WriteAll writes f to Sheet1 of a new workbook. Every cell is written as
// text so values keep their exact form; nulls are left empty.
func WriteAll(path string, f *frame.Frame) error {
	if f.Rows()+1 > MaxSheetRows {
		return fmt.Errorf("%d rows exceed the xlsx sheet limit of %d; set a max rows per file", f.Rows(), MaxSheetRows-1)
	}
	x := excelize.NewFile()
	defer func() { _ = x.Close() }()

	sw, err := x.NewStreamWriter(sheet)
	if err != nil {
		return err
	}
	row := make([]interface{}, f.Cols())
	for c, name := range f.Schema().Names() {
		row[c] = name
	}
	if err := sw.SetRow("A1", row); err != nil {
		return err
	}
	for r := 0; r < f.Rows(); r++ {
		for c := 0; c < f.Cols(); c++ {
			row[c] = nil
			if v, ok := f.Column(c).Get(r); ok {
				row[c] = v
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	return iox.WriteAtomic(path, func(w io.Writer) error {
		_, err := x.WriteTo(w)
		return err
	})
}

// ReadFile loads the first sheet; the first row is the header. maxRows
// limits the data rows read (0 = all).
func ReadFile(path string, nulls frame.NullSet, maxRows int) (*frame.Frame, error) {
	x, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = x.Close() }()

	sheets := x.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx: no sheets in %s", path)
	}
	rows, err := x.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("xlsx: empty sheet %q, no header row", sheets[0])
	}
	f := frame.NewFrame(frame.SchemaOf(rows[0]...)).WithNulls(nulls)
	for _, rec := range rows[1:] {
		if maxRows > 0 && f.Rows() >= maxRows {
			break
		}
		f.AppendRecord(rec)
	}
	return f, nil
}

// Sink writes split outputs as xlsx workbooks.
type Sink struct{}

func (Sink) Ext() string { return "xlsx" }

func (Sink) WriteFile(path string, f *frame.Frame) error { return WriteAll(path, f) }
