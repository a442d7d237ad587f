package main

import (
	"fmt"
	"os"
	"runtime"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/parsearch/parsearch/pkg/log"
)

type rootOptions struct {
	workers  int
	folds    int
	seed     int64
	logLevel string
	config   string
	plotPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "parsearch",
		Short: "Benchmark hyper-parameter search strategies",
		Long: `parsearch runs grid search and randomized search over built-in datasets,
timing sequential execution against a parallel worker pool.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return log.SetupLogger(opts.logLevel)
		},
	}

	flags := cmd.PersistentFlags()
	flags.IntVar(&opts.workers, "workers", runtime.NumCPU(), "worker pool size for parallel runs")
	flags.IntVar(&opts.folds, "folds", 3, "number of cross-validation folds")
	flags.Int64Var(&opts.seed, "seed", 42, "seed for data generation, folds and sampling")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flags.StringVar(&opts.config, "config", "", "YAML file overriding the search spaces")
	flags.StringVar(&opts.plotPath, "plot", "", "write a PNG bar chart of elapsed times")

	cmd.AddCommand(newDigitsCmd(opts))
	cmd.AddCommand(newTextCmd(opts))
	return cmd
}

// timing is one benchmarked run: a strategy label and its elapsed time.
type timing struct {
	Label     string
	Elapsed   time.Duration
	BestScore float64
}

// timeRun measures one search fit and records its best score.
func timeRun(label string, fit func() (float64, error)) (timing, error) {
	start := time.Now()
	score, err := fit()
	if err != nil {
		return timing{}, err
	}
	return timing{Label: label, Elapsed: time.Since(start), BestScore: score}, nil
}

// report prints the timing table and writes the chart when requested.
func report(timings []timing, plotPath string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STRATEGY\tELAPSED\tBEST CV SCORE")
	for _, t := range timings {
		fmt.Fprintf(w, "%s\t%s\t%.4f\n", t.Label, t.Elapsed.Round(time.Millisecond), t.BestScore)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for i := 1; i < len(timings); i += 2 {
		seq, par := timings[i-1], timings[i]
		if par.Elapsed > 0 {
			fmt.Printf("%s speedup: %.2fx\n", par.Label,
				float64(seq.Elapsed)/float64(par.Elapsed))
		}
	}

	if plotPath != "" {
		if err := writeTimingChart(plotPath, timings); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", plotPath)
	}
	return nil
}
