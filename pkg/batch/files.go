package batch

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Supported reports whether path names an input the loader can read:
// .csv, .csv.gz, .parquet or .xlsx, case-insensitively.
func Supported(path string) bool {
	name := strings.ToLower(filepath.Base(path))
	return strings.HasSuffix(name, ".csv") ||
		strings.HasSuffix(name, ".csv.gz") ||
		strings.HasSuffix(name, ".parquet") ||
		strings.HasSuffix(name, ".xlsx")
}

// ListFiles expands path into the input files to process in lexical order.
// A file is returned as is when supported; a directory yields its supported
// files, descending into subdirectories only when recursive is set.
func ListFiles(path string, recursive bool) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if Supported(path) {
			return []string{path}, nil
		}
		return nil, nil
	}

	var out []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != path && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if Supported(p) {
			out = append(out, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}
