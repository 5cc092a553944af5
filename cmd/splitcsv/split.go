package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/junstudys/split-csv-by-field/pkg/batch"
	"github.com/junstudys/split-csv-by-field/pkg/classify"
	"github.com/junstudys/split-csv-by-field/pkg/config"
	"github.com/junstudys/split-csv-by-field/pkg/dates"
	"github.com/junstudys/split-csv-by-field/pkg/errs"
	"github.com/junstudys/split-csv-by-field/pkg/io/csvio"
	"github.com/junstudys/split-csv-by-field/pkg/io/jsonlio"
	"github.com/junstudys/split-csv-by-field/pkg/io/parquetio"
	"github.com/junstudys/split-csv-by-field/pkg/io/xlsxio"
	"github.com/junstudys/split-csv-by-field/pkg/split"
	"github.com/junstudys/split-csv-by-field/pkg/stats"
)

type splitFlags struct {
	output      string
	fields      []string
	period      string
	maxRows     int
	recursive   bool
	encoding    string
	delimiter   string
	nullValues  []string
	strictRecs  bool
	format      string
	threshold   float64
	sampleRows  int
	noBOM       bool
	metricsFile string
	strict      bool
	jsonOut     bool
	progress    bool
}

func newSplitCmd(root *rootOptions) *cobra.Command {
	var fl splitFlags
	cmd := &cobra.Command{
		Use:   "split [input]",
		Short: "Split a file or every CSV in a directory",
		Long: `Split a file, or every .csv, .csv.gz, .parquet and .xlsx file in a directory.

Without --fields each file is only chunked by row count (--max-rows, default
500000). With fields, categorical values cascade in the order given; date
fields are detected automatically and bucketed by --period when set.

Example:
  splitcsv split sales.csv --fields province,city,order_date --period M --max-rows 100000`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load(cmd)
			if err != nil {
				return errs.E(errs.KindConfig, "load", root.configPath, err)
			}
			applySplitFlags(cmd, &fl, cfg)
			if len(args) == 1 {
				cfg.Input.Path = args[0]
			}
			if cfg.Input.Path == "" {
				return errs.Errorf(errs.KindConfig, "", "", "no input given; pass a file or directory, or set input.path")
			}
			if err := cfg.Validate(); err != nil {
				return errs.E(errs.KindConfig, "validate", root.configPath, err)
			}
			log, err := newLogger(cfg)
			if err != nil {
				return errs.E(errs.KindConfig, "logger", "", err)
			}
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runSplit(ctx, cmd, cfg, fl, log)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&fl.output, "output", "o", "", "Output directory (default ./split_data)")
	f.StringSliceVarP(&fl.fields, "fields", "f", nil, "Split fields in cascade order, comma separated")
	f.StringVarP(&fl.period, "period", "p", "", "Date bucketing: "+periodHelp())
	f.IntVarP(&fl.maxRows, "max-rows", "m", 0, "Maximum rows per output file; 0 disables chunking in field mode")
	f.BoolVarP(&fl.recursive, "recursive", "r", false, "Descend into subdirectories")
	f.StringVar(&fl.encoding, "encoding", "", "Input encoding: auto, utf-8, gbk, gb18030, big5, utf-16le, ...")
	f.StringVar(&fl.delimiter, "delimiter", "", "Input delimiter; sniffed when empty")
	f.StringSliceVar(&fl.nullValues, "null-values", nil, "Extra cell values read as null")
	f.BoolVar(&fl.strictRecs, "strict-records", false, "Fail a CSV file on rows with the wrong number of fields")
	f.StringVar(&fl.format, "format", "", "Output format: csv, jsonl, parquet, xlsx")
	f.Float64Var(&fl.threshold, "date-threshold", 0, "Share of values that must look like dates (default 0.8)")
	f.IntVar(&fl.sampleRows, "sample-rows", 0, "Rows inspected for date detection; 0 = all")
	f.BoolVar(&fl.noBOM, "no-bom", false, "Write CSV without the UTF-8 byte order mark")
	f.StringVar(&fl.metricsFile, "metrics-file", "", "Write run metrics in Prometheus text format to this file")
	f.BoolVar(&fl.strict, "strict", false, "Exit non-zero when any file failed")
	f.BoolVar(&fl.jsonOut, "json", false, "Print the run summary as JSON")
	f.BoolVar(&fl.progress, "progress", false, "Print per-file progress to stderr")
	return cmd
}

// applySplitFlags copies explicitly set flags over the loaded config.
func applySplitFlags(cmd *cobra.Command, fl *splitFlags, cfg *config.Config) {
	set := cmd.Flags().Changed
	if set("output") {
		cfg.Output.Dir = fl.output
	}
	if set("fields") {
		cfg.Split.Fields = fl.fields
	}
	if set("period") {
		cfg.Split.Period = fl.period
	}
	if set("max-rows") {
		cfg.Split.MaxRows = fl.maxRows
	}
	if set("recursive") {
		cfg.Input.Recursive = fl.recursive
	}
	if set("encoding") {
		cfg.Input.Encoding = fl.encoding
	}
	if set("delimiter") {
		cfg.Input.Delimiter = fl.delimiter
	}
	if set("null-values") {
		cfg.Input.NullValues = fl.nullValues
	}
	if set("strict-records") {
		cfg.Input.StrictRecords = fl.strictRecs
	}
	if set("format") {
		cfg.Output.Format = fl.format
	}
	if set("date-threshold") {
		cfg.Split.Threshold = fl.threshold
	}
	if set("sample-rows") {
		cfg.Split.SampleRows = fl.sampleRows
	}
	if set("no-bom") {
		cfg.Output.NoBOM = fl.noBOM
	}
	if set("metrics-file") {
		cfg.MetricsFile = fl.metricsFile
	}
}

func runSplit(ctx context.Context, cmd *cobra.Command, cfg *config.Config, fl splitFlags, log *zap.Logger) error {
	sink, err := newSink(cfg)
	if err != nil {
		return errs.E(errs.KindConfig, "output", "", err)
	}
	inDelim, _ := config.Delimiter(cfg.Input.Delimiter)

	inputs, err := batch.ListFiles(cfg.Input.Path, cfg.Input.Recursive)
	if err != nil {
		return errs.E(errs.KindRead, "list", cfg.Input.Path, err)
	}
	if len(inputs) == 0 {
		log.Warn("no input files found", zap.String("path", cfg.Input.Path))
	}

	collector := stats.NewCollector()
	runner := &batch.Runner{
		Planner: &split.Planner{
			Classifier: classify.Classifier{Threshold: cfg.Split.Threshold, SampleRows: cfg.Split.SampleRows},
			Sink:       sink,
			Stats:      collector,
		},
		Load: batch.Loader{
			CSV: csvio.ReaderOptions{
				Delimiter:  inDelim,
				Encoding:   cfg.Input.Encoding,
				NullValues: cfg.Input.NullValues,
				Strict:     cfg.Input.StrictRecords,
			},
			Log: log,
		}.Load,
		Spec: split.Spec{
			Fields:      cfg.Split.Fields,
			Granularity: cfg.Granularity(),
			MaxRows:     cfg.Split.MaxRows,
		},
		OutputDir: cfg.Output.Dir,
		Log:       log,
	}
	if fl.progress {
		stderr := cmd.ErrOrStderr()
		runner.Progress = func(p batch.Progress) {
			fmt.Fprintf(stderr, "[%d/%d] %3d%% %s: %s\n", p.Index, p.Total, p.Percent, filepath.Base(p.File), p.Message)
		}
	}

	run, err := runner.Run(ctx, inputs)
	if cfg.MetricsFile != "" {
		if merr := collector.WriteMetrics(cfg.MetricsFile); merr != nil {
			log.Error("metrics export failed", zap.String("path", cfg.MetricsFile), zap.Error(merr))
		}
	}
	if perr := printSummary(cmd, run, cfg.Output.Dir, fl.jsonOut); perr != nil {
		return perr
	}
	if err != nil {
		return err
	}
	if fl.strict && len(run.Errors) > 0 {
		return fmt.Errorf("%d file(s) failed", len(run.Errors))
	}
	return nil
}

func newSink(cfg *config.Config) (split.Sink, error) {
	switch strings.ToLower(cfg.Output.Format) {
	case "", config.FormatCSV:
		d, _ := config.Delimiter(cfg.Output.Delimiter)
		return csvio.Sink{Options: csvio.WriterOptions{Delimiter: d, NoBOM: cfg.Output.NoBOM}}, nil
	case config.FormatJSONL:
		return jsonlio.Sink{}, nil
	case config.FormatParquet:
		return parquetio.Sink{}, nil
	case config.FormatXLSX:
		return xlsxio.Sink{}, nil
	}
	return nil, errors.New("unknown output format " + cfg.Output.Format)
}

type summary struct {
	OutputDir    string              `json:"output_dir"`
	Run          stats.Run           `json:"run"`
	Distribution *stats.Distribution `json:"rows_per_file,omitempty"`
}

func printSummary(cmd *cobra.Command, run stats.Run, dir string, asJSON bool) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	out := cmd.OutOrStdout()
	if !asJSON {
		_, err := fmt.Fprint(out, run.ReportText(abs))
		return err
	}
	s := summary{OutputDir: abs, Run: run}
	if d, ok := run.Distribution(); ok {
		s.Distribution = &d
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(b))
	return err
}

func periodHelp() string { return dates.Codes() }
