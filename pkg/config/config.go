// Package config loads split settings from defaults, a config file, .env
// files and SPLITCSV_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/junstudys/split-csv-by-field/pkg/classify"
	"github.com/junstudys/split-csv-by-field/pkg/dates"
)

type Config struct {
	Input       InputConfig  `json:"input" toml:"input" yaml:"input"`
	Output      OutputConfig `json:"output" toml:"output" yaml:"output"`
	Split       SplitConfig  `json:"split" toml:"split" yaml:"split"`
	Log         LogConfig    `json:"log" toml:"log" yaml:"log"`
	MetricsFile string       `json:"metrics_file" toml:"metrics_file" yaml:"metrics_file" env:"SPLITCSV_METRICS_FILE"`
}

type InputConfig struct {
	Path       string   `json:"path" toml:"path" yaml:"path" env:"SPLITCSV_INPUT"`
	Recursive  bool     `json:"recursive" toml:"recursive" yaml:"recursive" env:"SPLITCSV_RECURSIVE"`
	Encoding   string   `json:"encoding" toml:"encoding" yaml:"encoding" env:"SPLITCSV_ENCODING"`
	Delimiter  string   `json:"delimiter" toml:"delimiter" yaml:"delimiter" env:"SPLITCSV_DELIMITER"`
	NullValues []string `json:"null_values" toml:"null_values" yaml:"null_values" env:"SPLITCSV_NULL_VALUES"`

	// StrictRecords fails a CSV file on rows with too few or too many fields
	// instead of padding or truncating them.
	StrictRecords bool `json:"strict_records" toml:"strict_records" yaml:"strict_records" env:"SPLITCSV_STRICT_RECORDS"`
}

type OutputConfig struct {
	Dir       string `json:"dir" toml:"dir" yaml:"dir" env:"SPLITCSV_OUTPUT_DIR"`
	Format    string `json:"format" toml:"format" yaml:"format" env:"SPLITCSV_OUTPUT_FORMAT"`
	Delimiter string `json:"delimiter" toml:"delimiter" yaml:"delimiter" env:"SPLITCSV_OUTPUT_DELIMITER"`
	NoBOM     bool   `json:"no_bom" toml:"no_bom" yaml:"no_bom" env:"SPLITCSV_NO_BOM"`
}

type SplitConfig struct {
	Fields     []string `json:"fields" toml:"fields" yaml:"fields" env:"SPLITCSV_FIELDS"`
	Period     string   `json:"period" toml:"period" yaml:"period" env:"SPLITCSV_PERIOD"`
	MaxRows    int      `json:"max_rows" toml:"max_rows" yaml:"max_rows" env:"SPLITCSV_MAX_ROWS"`
	Threshold  float64  `json:"date_threshold" toml:"date_threshold" yaml:"date_threshold" env:"SPLITCSV_DATE_THRESHOLD"`
	SampleRows int      `json:"sample_rows" toml:"sample_rows" yaml:"sample_rows" env:"SPLITCSV_SAMPLE_ROWS"`
}

type LogConfig struct {
	Level       string `json:"level" toml:"level" yaml:"level" env:"SPLITCSV_LOG_LEVEL"`
	Encoding    string `json:"encoding" toml:"encoding" yaml:"encoding" env:"SPLITCSV_LOG_ENCODING"`
	Development bool   `json:"development" toml:"development" yaml:"development" env:"SPLITCSV_LOG_DEVELOPMENT"`
}

// Output formats.
const (
	FormatCSV     = "csv"
	FormatJSONL   = "jsonl"
	FormatParquet = "parquet"
	FormatXLSX    = "xlsx"
)

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Input:  InputConfig{Encoding: "auto"},
		Output: OutputConfig{Dir: "./split_data", Format: FormatCSV},
		Split:  SplitConfig{Threshold: classify.DefaultThreshold},
		Log:    LogConfig{Level: "info", Encoding: "console"},
	}
}

// Granularity returns the parsed period code.
func (c *Config) Granularity() dates.Granularity {
	g, _ := dates.ParseGranularity(c.Split.Period)
	return g
}

// Validate checks that the configuration is usable.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []error
	if _, err := dates.ParseGranularity(c.Split.Period); err != nil {
		errs = append(errs, err)
	}
	if c.Split.MaxRows < 0 {
		errs = append(errs, fmt.Errorf("max_rows must be >= 0, got %d", c.Split.MaxRows))
	}
	if c.Split.Threshold <= 0 || c.Split.Threshold > 1 {
		errs = append(errs, fmt.Errorf("date_threshold must be in (0,1], got %g", c.Split.Threshold))
	}
	if c.Split.SampleRows < 0 {
		errs = append(errs, fmt.Errorf("sample_rows must be >= 0, got %d", c.Split.SampleRows))
	}
	switch strings.ToLower(c.Output.Format) {
	case FormatCSV, FormatJSONL, FormatParquet, FormatXLSX:
	default:
		errs = append(errs, fmt.Errorf("unknown output format %q", c.Output.Format))
	}
	if c.Output.Dir == "" {
		errs = append(errs, errors.New("output dir is required"))
	}
	if _, err := Delimiter(c.Input.Delimiter); err != nil {
		errs = append(errs, fmt.Errorf("input %w", err))
	}
	if _, err := Delimiter(c.Output.Delimiter); err != nil {
		errs = append(errs, fmt.Errorf("output %w", err))
	}
	return errors.Join(errs...)
}

// Delimiter parses a delimiter setting. Empty means "sniff" on input and ','
// on output; "tab" and `\t` mean a tab.
func Delimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case "tab", `\t`:
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("invalid delimiter %q", s)
	}
	return r, nil
}
