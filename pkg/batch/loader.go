package batch

import (
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/junstudys/split-csv-by-field/pkg/frame"
	"github.com/junstudys/split-csv-by-field/pkg/io/csvio"
	"github.com/junstudys/split-csv-by-field/pkg/io/parquetio"
	"github.com/junstudys/split-csv-by-field/pkg/io/xlsxio"
)

// Loader reads one input file into a frame, picking the reader by extension.
// CSV.NullValues and CSV.MaxRows apply to every format.
type Loader struct {
	CSV csvio.ReaderOptions
	Log *zap.Logger
}

func (l Loader) Load(path string) (*frame.Frame, error) {
	nulls := frame.DefaultNulls().With(l.CSV.NullValues...)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return parquetio.ReadFile(path, nulls, l.CSV.MaxRows)
	case ".xlsx":
		return xlsxio.ReadFile(path, nulls, l.CSV.MaxRows)
	}
	f, info, err := csvio.ReadFile(path, l.CSV)
	if err != nil {
		return nil, err
	}
	if l.Log != nil {
		l.Log.Debug("csv loaded", zap.String("file", path), zap.String("encoding", info.Encoding), zap.Int("rows", f.Rows()))
		if info.Warnings != "" {
			l.Log.Warn("csv records repaired", zap.String("file", path), zap.String("repairs", info.Warnings))
		}
	}
	return f, nil
}
