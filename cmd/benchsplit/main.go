package main

import (
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/junstudys/split-csv-by-field/pkg/dates"
	"github.com/junstudys/split-csv-by-field/pkg/frame"
	"github.com/junstudys/split-csv-by-field/pkg/split"
	"github.com/junstudys/split-csv-by-field/pkg/stats"
)

type genOptions struct {
	rows      int
	provinces int
	cities    int
	days      int
	junk      float64
	missing   float64
	seed      int64
}

// generate builds a synthetic orders frame: province, city, order_date and
// amount. A share of dates is unparseable and a share of cities is null.
func generate(o genOptions) *frame.Frame {
	rnd := rand.New(rand.NewSource(o.seed))
	f := frame.NewFrame(frame.SchemaOf("province", "city", "order_date", "amount"))
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	rec := make([]string, 4)
	for i := 0; i < o.rows; i++ {
		p := rnd.Intn(o.provinces)
		rec[0] = "P" + strconv.Itoa(p)
		rec[1] = ""
		if rnd.Float64() >= o.missing {
			rec[1] = "P" + strconv.Itoa(p) + "-C" + strconv.Itoa(rnd.Intn(o.cities))
		}
		if rnd.Float64() < o.junk {
			rec[2] = "n/d"
		} else {
			rec[2] = start.AddDate(0, 0, rnd.Intn(o.days)).Format("2006-01-02")
		}
		rec[3] = strconv.FormatFloat(rnd.Float64()*1000, 'f', 2, 64)
		f.AppendRecord(rec)
	}
	return f
}

// blackholeSink counts what would have been written.
type blackholeSink struct{ rows, files int }

func (b *blackholeSink) Ext() string { return "csv" }
func (b *blackholeSink) WriteFile(path string, f *frame.Frame) error {
	b.rows += f.Rows()
	b.files++
	return nil
}

func main() {
	var (
		o       genOptions
		period  string
		maxRows int
		jsonOut bool
	)
	cmd := &cobra.Command{
		Use:   "benchsplit",
		Short: "Measure planner throughput on synthetic data",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := dates.ParseGranularity(period)
			if err != nil {
				return err
			}
			f := generate(o)
			sink := &blackholeSink{}
			p := &split.Planner{Sink: sink, Stats: stats.NewCollector()}
			spec := split.Spec{Fields: []string{"province", "city", "order_date"}, Granularity: g, MaxRows: maxRows}

			runtime.GC()
			var msBefore, msAfter runtime.MemStats
			runtime.ReadMemStats(&msBefore)
			start := time.Now()
			if _, err := p.Split(f, spec, "bench", ""); err != nil {
				return err
			}
			elapsed := time.Since(start)
			runtime.ReadMemStats(&msAfter)

			rowsPerSec := float64(o.rows) / elapsed.Seconds()
			if jsonOut {
				b, err := json.MarshalIndent(map[string]any{
					"rows":                  o.rows,
					"rows_written":          sink.rows,
					"files":                 sink.files,
					"period":                g.String(),
					"max_rows":              maxRows,
					"elapsed_ms":            elapsed.Milliseconds(),
					"rows_per_sec":          rowsPerSec,
					"mem_total_alloc_bytes": msAfter.TotalAlloc - msBefore.TotalAlloc,
					"gc_num":                msAfter.NumGC - msBefore.NumGC,
				}, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(b))
				return nil
			}
			fmt.Printf("Rows: %d (written %d)\n", o.rows, sink.rows)
			fmt.Printf("Files: %d\n", sink.files)
			fmt.Printf("Elapsed: %s\n", elapsed)
			fmt.Printf("Throughput: %.0f rows/s\n", rowsPerSec)
			fmt.Printf("Total Alloc (delta): %d MB\n", (msAfter.TotalAlloc-msBefore.TotalAlloc)/1024/1024)
			fmt.Printf("GC cycles (delta): %d\n", msAfter.NumGC-msBefore.NumGC)
			return nil
		},
	}
	fl := cmd.Flags()
	fl.IntVar(&o.rows, "rows", 1_000_000, "total rows to generate")
	fl.IntVar(&o.provinces, "provinces", 30, "distinct provinces")
	fl.IntVar(&o.cities, "cities", 20, "distinct cities per province")
	fl.IntVar(&o.days, "days", 730, "span of generated dates in days")
	fl.Float64Var(&o.junk, "junk", 0.02, "probability of an unparseable date")
	fl.Float64Var(&o.missing, "missing", 0.01, "probability of a null city")
	fl.Int64Var(&o.seed, "seed", 42, "random seed")
	fl.StringVar(&period, "period", "M", "date bucketing code")
	fl.IntVar(&maxRows, "max-rows", 0, "rows per output file, 0 = unlimited")
	fl.BoolVar(&jsonOut, "json", false, "emit JSON summary")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
