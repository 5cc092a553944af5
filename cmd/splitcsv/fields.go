package main

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/junstudys/split-csv-by-field/pkg/batch"
	"github.com/junstudys/split-csv-by-field/pkg/classify"
	"github.com/junstudys/split-csv-by-field/pkg/config"
	"github.com/junstudys/split-csv-by-field/pkg/errs"
	"github.com/junstudys/split-csv-by-field/pkg/io/csvio"
	"github.com/junstudys/split-csv-by-field/pkg/profile"
)

func newListFieldsCmd(root *rootOptions) *cobra.Command {
	var (
		asJSON    bool
		encoding  string
		delimiter string
	)
	cmd := &cobra.Command{
		Use:   "list-fields <file>",
		Short: "List the columns of a file with their detected kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load(cmd)
			if err != nil {
				return errs.E(errs.KindConfig, "load", root.configPath, err)
			}
			if cmd.Flags().Changed("encoding") {
				cfg.Input.Encoding = encoding
			}
			if cmd.Flags().Changed("delimiter") {
				cfg.Input.Delimiter = delimiter
			}
			d, err := config.Delimiter(cfg.Input.Delimiter)
			if err != nil {
				return errs.E(errs.KindConfig, "delimiter", "", err)
			}

			path := args[0]
			f, err := batch.Loader{CSV: csvio.ReaderOptions{
				Delimiter:  d,
				Encoding:   cfg.Input.Encoding,
				NullValues: cfg.Input.NullValues,
				Strict:     cfg.Input.StrictRecords,
				MaxRows:    profile.SampleRows,
			}}.Load(path)
			if err != nil {
				return errs.E(errs.KindRead, "load", path, err)
			}

			p := profile.Build(f, classify.Classifier{Threshold: cfg.Split.Threshold})
			out := cmd.OutOrStdout()
			if asJSON {
				b, err := json.MarshalIndent(p, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(b))
				return err
			}
			_, err = fmt.Fprint(out, p.ReportText())
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the field list as JSON")
	cmd.Flags().StringVar(&encoding, "encoding", "", "Input encoding (default auto)")
	cmd.Flags().StringVar(&delimiter, "delimiter", "", "Input delimiter; sniffed when empty")
	return cmd
}
