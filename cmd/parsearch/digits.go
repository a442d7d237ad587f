package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/parsearch/parsearch/core/parallel"
	"github.com/parsearch/parsearch/datasets"
	"github.com/parsearch/parsearch/linear_model"
	"github.com/parsearch/parsearch/metrics"
	"github.com/parsearch/parsearch/model_selection"
	"github.com/parsearch/parsearch/pipeline"
	"github.com/parsearch/parsearch/pkg/log"
	"github.com/parsearch/parsearch/preprocessing"
)

func newDigitsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "digits",
		Short: "Search logistic regression parameters on the digits dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDigits(cmd.Context(), opts)
		},
	}
}

func digitsGrid(spaces *searchSpaces) model_selection.ParamGrid {
	if spaces.Digits != nil && len(spaces.Digits.Grid) > 0 {
		return model_selection.ParamGrid(spaces.Digits.Grid)
	}
	return model_selection.ParamGrid{
		"clf__C":        {0.01, 0.1, 1.0, 10.0},
		"clf__penalty":  {"l2", "none"},
		"clf__max_iter": {50, 100},
	}
}

func digitsRandom(spaces *searchSpaces) (model_selection.ParamSpace, int, error) {
	if spaces.Digits != nil && spaces.Digits.Random != nil {
		space, err := spaces.Digits.Random.space()
		return space, spaces.Digits.Random.NIter, err
	}
	return model_selection.ParamSpace{
		"clf__C":        model_selection.LogUniform{Low: 1e-3, High: 1e2},
		"clf__max_iter": model_selection.UniformInt{Low: 30, High: 150},
	}, 10, nil
}

func runDigits(ctx context.Context, opts *rootOptions) error {
	spaces, err := loadSearchSpaces(opts.config)
	if err != nil {
		return err
	}

	dataset := datasets.LoadDigits(datasets.WithDigitsSeed(uint64(opts.seed)))
	X := dataset.Data
	y := dataset.TargetMatrix()

	slog.Info("loaded digits dataset",
		slog.Int(log.SamplesKey, dataset.NSamples()),
		slog.Int(log.FeaturesKey, dataset.NFeatures()),
		slog.Int(log.ClassesKey, len(dataset.TargetNames)))

	estimator, err := pipeline.New(
		[]pipeline.Step{
			{Name: "scale", Transformer: preprocessing.NewStandardScalerDefault()},
		},
		"clf", linear_model.NewLogisticRegression(
			linear_model.WithMaxIter(100),
			linear_model.WithRandomState(opts.seed),
		),
	)
	if err != nil {
		return err
	}

	grid := digitsGrid(spaces)
	space, nIter, err := digitsRandom(spaces)
	if err != nil {
		return err
	}

	sequential := parallel.NewClient(parallel.WithWorkers(1))
	pooled := parallel.NewClient(parallel.WithWorkers(opts.workers))

	searchOpts := func(client *parallel.Client) []model_selection.SearchOption {
		return []model_selection.SearchOption{
			model_selection.WithFolds(opts.folds),
			model_selection.WithSeed(opts.seed),
			model_selection.WithScorer(metrics.AccuracyScore),
			model_selection.WithClient(client),
			model_selection.WithLogger(slog.Default()),
		}
	}

	timings := make([]timing, 0, 4)

	run := func(label string, fit func() (float64, error)) error {
		t, err := timeRun(label, fit)
		if err != nil {
			return err
		}
		timings = append(timings, t)
		return nil
	}

	gridFit := func(client *parallel.Client) func() (float64, error) {
		return func() (float64, error) {
			search := model_selection.NewGridSearchCV(estimator, grid, searchOpts(client)...)
			if err := search.Fit(ctx, X, y); err != nil {
				return 0, err
			}
			return search.BestScore()
		}
	}
	randomFit := func(client *parallel.Client) func() (float64, error) {
		return func() (float64, error) {
			search := model_selection.NewRandomizedSearchCV(estimator, space, nIter, searchOpts(client)...)
			if err := search.Fit(ctx, X, y); err != nil {
				return 0, err
			}
			return search.BestScore()
		}
	}

	if err := run("grid/sequential", gridFit(sequential)); err != nil {
		return err
	}
	if err := run("grid/parallel", gridFit(pooled)); err != nil {
		return err
	}
	if err := run("random/sequential", randomFit(sequential)); err != nil {
		return err
	}
	if err := run("random/parallel", randomFit(pooled)); err != nil {
		return err
	}

	return report(timings, opts.plotPath)
}
