package parquetio

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	local "github.com/xitongsys/parquet-go-source/local"
	pw "github.com/xitongsys/parquet-go/writer"

	"github.com/junstudys/split-csv-by-field/pkg/frame"
)

// tag values are comma separated key=value pairs
var tagEscaper = strings.NewReplacer(",", "_", "=", "_")

type field struct {
	Tag string `json:"Tag"`
}

type schemaDoc struct {
	Tag    string  `json:"Tag"`
	Fields []field `json:"Fields"`
}

// inName is the JSON key a column travels under; the external column name is
// the header itself.
func inName(i int) string { return "C" + strconv.Itoa(i) }

func parquetSchemaJSON(s frame.Schema) (string, error) {
	sc := schemaDoc{Tag: "name=schema, repetitiontype=REQUIRED"}
	for i, cs := range s.Columns {
		name := tagEscaper.Replace(strings.TrimSpace(cs.Name))
		if name == "" {
			name = "column_" + strconv.Itoa(i)
		}
		sc.Fields = append(sc.Fields, field{Tag: "name=" + name + ", inname=" + inName(i) +
			", type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"})
	}
	b, err := json.Marshal(sc)
	return string(b), err
}

// WriteAll writes a Frame to a Parquet file using parquet-go JSONWriter. Every
// column is an optional UTF8 string; nulls stay null. The file is written to a
// temporary sibling and renamed into place once complete.
func WriteAll(path string, f *frame.Frame) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".tmp")
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	schema, err := parquetSchemaJSON(f.Schema())
	if err != nil {
		return err
	}
	fw, err := local.NewLocalFileWriter(tmp)
	if err != nil {
		return err
	}
	writer, err := pw.NewJSONWriter(schema, fw, 4)
	if err != nil {
		_ = fw.Close()
		return fmt.Errorf("parquet writer init: %w", err)
	}
	for r := 0; r < f.Rows(); r++ {
		rec := make(map[string]any, f.Cols())
		for c := 0; c < f.Cols(); c++ {
			if v, ok := f.Column(c).Get(r); ok {
				rec[inName(c)] = v
			}
		}
		line, err := json.Marshal(rec)
		if err != nil {
			_ = fw.Close()
			return err
		}
		if err := writer.Write(string(line)); err != nil {
			_ = fw.Close()
			return fmt.Errorf("parquet write row: %w", err)
		}
	}
	if err := writer.WriteStop(); err != nil {
		_ = fw.Close()
		return fmt.Errorf("parquet finish: %w", err)
	}
	if err := fw.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Sink writes split outputs as Parquet files.
type Sink struct{}

func (Sink) Ext() string { return "parquet" }

func (Sink) WriteFile(path string, f *frame.Frame) error { return WriteAll(path, f) }
