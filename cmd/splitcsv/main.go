package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/junstudys/split-csv-by-field/pkg/config"
	"github.com/junstudys/split-csv-by-field/pkg/logging"
)

var (
	version = "0.1.0-dev"
)

// rootOptions are the flags shared by every command.
type rootOptions struct {
	configPath string
	envFiles   []string
	logLevel   string
	logFormat  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "splitcsv",
		Short: "Split CSV files into partitions by field values, time periods and row counts",
		Long: `splitcsv partitions tabular files into many smaller files.

Categorical fields cascade into one file per value combination. A date field
can be bucketed by period (` + periodHelp() + `), and every
output can be capped at a maximum number of rows.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to a config file (.json, .toml, .yaml)")
	root.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", nil, "Dotenv files to load (default .env)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "Log encoding (console, json)")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "splitcsv %s\n", version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})
	root.AddCommand(newSplitCmd(opts))
	root.AddCommand(newListFieldsCmd(opts))
	return root
}

// load resolves the configuration and logger shared by the commands. Flag
// overrides are applied by the caller before Validate.
func (o *rootOptions) load(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.configPath, o.envFiles...)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Encoding = o.logFormat
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(logging.Config{
		Level:       cfg.Log.Level,
		Encoding:    cfg.Log.Encoding,
		Development: cfg.Log.Development,
	})
}
