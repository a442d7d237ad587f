package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/parsearch/parsearch/core/parallel"
	"github.com/parsearch/parsearch/datasets"
	"github.com/parsearch/parsearch/feature_extraction"
	"github.com/parsearch/parsearch/metrics"
	"github.com/parsearch/parsearch/model_selection"
	"github.com/parsearch/parsearch/naive_bayes"
	"github.com/parsearch/parsearch/pipeline"
	"github.com/parsearch/parsearch/pkg/log"
)

func newTextCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "text",
		Short: "Search a text-classification pipeline on the newsgroups corpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runText(cmd.Context(), opts)
		},
	}
}

func textGrid(spaces *searchSpaces) model_selection.ParamGrid {
	if spaces.Text != nil && len(spaces.Text.Grid) > 0 {
		return model_selection.ParamGrid(spaces.Text.Grid)
	}
	return model_selection.ParamGrid{
		"vect__max_features": {500, 1000},
		"vect__ngram_max":    {1, 2},
		"tfidf__use_idf":     {true, false},
		"clf__alpha":         {0.1, 1.0},
	}
}

func textRandom(spaces *searchSpaces) (model_selection.ParamSpace, int, error) {
	if spaces.Text != nil && spaces.Text.Random != nil {
		space, err := spaces.Text.Random.space()
		return space, spaces.Text.Random.NIter, err
	}
	return model_selection.ParamSpace{
		"vect__max_features": model_selection.UniformInt{Low: 200, High: 2000},
		"clf__alpha":         model_selection.LogUniform{Low: 1e-3, High: 10},
	}, 10, nil
}

func runText(ctx context.Context, opts *rootOptions) error {
	spaces, err := loadSearchSpaces(opts.config)
	if err != nil {
		return err
	}

	corpus := datasets.LoadNewsgroups(datasets.WithNewsgroupsSeed(uint64(opts.seed)))
	X := feature_extraction.NewCorpus(corpus.Docs)
	y := corpus.TargetMatrix()

	slog.Info("loaded newsgroups corpus",
		slog.Int(log.SamplesKey, len(corpus.Docs)),
		slog.Int(log.ClassesKey, len(corpus.TargetNames)))

	template, err := pipeline.New(
		[]pipeline.Step{
			{Name: "vect", Transformer: feature_extraction.NewCountVectorizer()},
			{Name: "tfidf", Transformer: feature_extraction.NewTfidfTransformer()},
		},
		"clf", naive_bayes.NewMultinomialNB(),
	)
	if err != nil {
		return err
	}

	grid := textGrid(spaces)
	space, nIter, err := textRandom(spaces)
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
			search := model_selection.NewGridSearchCV(template, grid, searchOpts(client)...)
			if err := search.Fit(ctx, X, y); err != nil {
				return 0, err
			}
			return search.BestScore()
		}
	}
	randomFit := func(client *parallel.Client) func() (float64, error) {
		return func() (float64, error) {
			search := model_selection.NewRandomizedSearchCV(template, space, nIter, searchOpts(client)...)
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
