package parquetio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	parquet "github.com/segmentio/parquet-go"

	"github.com/junstudys/split-csv-by-field/pkg/frame"
)

type Reader struct {
	file   *os.File
	reader *parquet.GenericReader[map[string]any]
	names  []string
	nulls  frame.NullSet
}

// OpenReader opens a Parquet file. Columns keep the file's schema order.
func OpenReader(path string, nulls frame.NullSet) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r := parquet.NewGenericReader[map[string]any](f)
	fields := r.Schema().Fields()
	names := make([]string, len(fields))
	for i, fd := range fields {
		names[i] = fd.Name()
	}
	return &Reader{file: f, reader: r, names: names, nulls: nulls}, nil
}

func (r *Reader) Close() error {
	_ = r.reader.Close()
	return r.file.Close()
}

// Names returns the column names in schema order.
func (r *Reader) Names() []string { return r.names }

// ReadAll loads up to maxRows rows (0 = all) into a Frame, rendering every
// value as text.
func (r *Reader) ReadAll(maxRows int) (*frame.Frame, error) {
	f := frame.NewFrame(frame.SchemaOf(r.names...)).WithNulls(r.nulls)
	buf := make([]map[string]any, 1024)
	rec := make([]string, len(r.names))
	for maxRows <= 0 || f.Rows() < maxRows {
		for i := range buf {
			buf[i] = make(map[string]any, len(r.names))
		}
		n, err := r.reader.Read(buf)
		for i := 0; i < n && (maxRows <= 0 || f.Rows() < maxRows); i++ {
			for c, name := range r.names {
				rec[c] = text(buf[i][name])
			}
			f.AppendRecord(rec)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		if n == 0 {
			break
		}
	}
	return f, nil
}

// ReadFile is OpenReader + ReadAll + Close.
func ReadFile(path string, nulls frame.NullSet, maxRows int) (*frame.Frame, error) {
	r, err := OpenReader(path, nulls)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	return r.ReadAll(maxRows)
}

func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case fmt.Stringer:
		return t.String()
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}
