package model_selection

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/parsearch/parsearch/core/model"
	"github.com/parsearch/parsearch/core/parallel"
	scierr "github.com/parsearch/parsearch/pkg/errors"
	"github.com/parsearch/parsearch/pkg/log"
)

// CVResult records how one parameter combination performed across folds.
type CVResult struct {
	Params        model.Params
	FoldScores    []float64
	MeanTestScore float64
	StdTestScore  float64
	MeanFitTime   time.Duration
	Rank          int
}

// CVResults holds one CVResult per tried combination, in candidate order.
type CVResults []CVResult

// Best returns the index of the highest mean test score. Ties go to the
// earlier candidate.
func (r CVResults) Best() int {
	best := 0
	for i := 1; i < len(r); i++ {
		if r[i].MeanTestScore > r[best].MeanTestScore {
			best = i
		}
	}
	return best
}

// Scorer computes a score from true and predicted labels. Higher is better.
// The metrics package provides implementations, e.g. metrics.AccuracyScore
// and metrics.F1Score.
type Scorer func(yTrue, yPred mat.Matrix) (float64, error)

// searchCV is the engine shared by the search objects: it evaluates candidate
// parameter sets with k-fold cross-validation, in parallel across candidates,
// and refits the winner.
type searchCV struct {
	estimator model.Estimator
	state     *model.StateManager

	folds    int
	stratify bool
	seed     int64
	refit    bool
	scorer   Scorer
	client   *parallel.Client
	logger   *slog.Logger

	results       CVResults
	bestIndex     int
	bestEstimator model.Estimator
}

// SearchOption configures a search object.
type SearchOption func(*searchCV)

// WithFolds sets the number of cross-validation folds.
func WithFolds(k int) SearchOption {
	return func(s *searchCV) {
		s.folds = k
	}
}

// WithStratify toggles stratified splitting. On by default, since every
// estimator here is a classifier.
func WithStratify(stratify bool) SearchOption {
	return func(s *searchCV) {
		s.stratify = stratify
	}
}

// WithSeed sets the seed used for fold shuffling and candidate sampling.
func WithSeed(seed int64) SearchOption {
	return func(s *searchCV) {
		s.seed = seed
	}
}

// WithRefit controls refitting the best candidate on the full data after the
// search. On by default.
func WithRefit(refit bool) SearchOption {
	return func(s *searchCV) {
		s.refit = refit
	}
}

// WithScorer scores each test fold by predicting it and handing true and
// predicted labels to the scorer, instead of calling the estimator's own
// Score method.
func WithScorer(scorer Scorer) SearchOption {
	return func(s *searchCV) {
		s.scorer = scorer
	}
}

// WithClient sets the parallel client used to fan candidates out over
// workers. Defaults to a client with one worker per CPU.
func WithClient(client *parallel.Client) SearchOption {
	return func(s *searchCV) {
		s.client = client
	}
}

// WithLogger attaches a structured logger. Candidate progress is logged at
// debug level, the final best score at info.
func WithLogger(logger *slog.Logger) SearchOption {
	return func(s *searchCV) {
		s.logger = logger
	}
}

func newSearchCV(estimator model.Estimator, opts ...SearchOption) *searchCV {
	s := &searchCV{
		estimator: estimator,
		state:     model.NewStateManager(),
		folds:     5,
		stratify:  true,
		seed:      42,
		refit:     true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.client == nil {
		s.client = parallel.NewClient()
	}
	if s.logger == nil {
		s.logger = slog.New(discardHandler{})
	}
	return s
}

func (s *searchCV) split(y mat.Matrix) ([]Fold, error) {
	if s.stratify {
		return NewStratifiedKFold(s.folds, uint64(s.seed)).Split(y)
	}
	nSamples, _ := y.Dims()
	return NewKFold(s.folds, uint64(s.seed)).Split(nSamples)
}

// evaluate runs cross-validation for every candidate. Results are written to
// a fixed slot per candidate, so the outcome is identical whether the client
// runs tasks sequentially or across workers.
func (s *searchCV) evaluate(ctx context.Context, X, y mat.Matrix, candidates []model.Params) error {
	if len(candidates) == 0 {
		return scierr.Wrap(scierr.ErrEmptyGrid, "search")
	}
	nSamples, _ := X.Dims()
	yRows, _ := y.Dims()
	if nSamples != yRows {
		return scierr.NewDimensionError("search.Fit", nSamples, yRows, 0)
	}

	folds, err := s.split(y)
	if err != nil {
		return err
	}

	s.logger.Info("starting hyper-parameter search",
		slog.Int(log.CandidatesKey, len(candidates)),
		slog.Int(log.FoldsKey, len(folds)),
		slog.Int(log.WorkersKey, s.client.Workers()),
		slog.Int64(log.SeedKey, s.seed))

	results := make(CVResults, len(candidates))
	errs := s.client.Map(ctx, len(candidates), func(i int) error {
		result, err := s.evaluateCandidate(X, y, candidates[i], folds)
		if err != nil {
			return err
		}
		results[i] = result
		s.logger.Debug("candidate evaluated",
			slog.String("params", candidates[i].String()),
			slog.Float64("mean_test_score", result.MeanTestScore))
		return nil
	})
	for i, err := range errs {
		if err != nil {
			return scierr.Wrapf(err, "candidate %s", candidates[i].String())
		}
	}

	assignRanks(results)
	s.results = results
	s.bestIndex = results.Best()
	return nil
}

// evaluateCandidate fits and scores one parameter combination on every fold.
// The template estimator is cloned per fold so fits never share state.
func (s *searchCV) evaluateCandidate(X, y mat.Matrix, params model.Params, folds []Fold) (CVResult, error) {
	result := CVResult{
		Params:     params.Copy(),
		FoldScores: make([]float64, len(folds)),
	}

	var totalFit time.Duration
	for f, fold := range folds {
		candidate := s.estimator.Clone()
		if err := candidate.SetParams(params); err != nil {
			return CVResult{}, err
		}

		XTrain := SubsetRows(X, fold.TrainIndices)
		yTrain := SubsetRows(y, fold.TrainIndices)
		XTest := SubsetRows(X, fold.TestIndices)
		yTest := SubsetRows(y, fold.TestIndices)

		start := time.Now()
		if err := candidate.Fit(XTrain, yTrain); err != nil {
			return CVResult{}, scierr.Wrapf(err, "fold %d", f)
		}
		totalFit += time.Since(start)

		score, err := s.scoreFold(candidate, XTest, yTest)
		if err != nil {
			return CVResult{}, scierr.Wrapf(err, "fold %d", f)
		}
		result.FoldScores[f] = score
	}

	result.MeanFitTime = totalFit / time.Duration(len(folds))
	result.MeanTestScore, result.StdTestScore = meanStd(result.FoldScores)
	return result, nil
}

// scoreFold scores one fitted candidate on a held-out fold.
func (s *searchCV) scoreFold(candidate model.Estimator, XTest, yTest mat.Matrix) (float64, error) {
	if s.scorer == nil {
		return candidate.Score(XTest, yTest)
	}
	yPred, err := candidate.Predict(XTest)
	if err != nil {
		return 0, err
	}
	return s.scorer(yTest, yPred)
}

func (s *searchCV) finish(X, y mat.Matrix) error {
	if s.refit {
		best := s.estimator.Clone()
		if err := best.SetParams(s.results[s.bestIndex].Params); err != nil {
			return err
		}
		start := time.Now()
		if err := best.Fit(X, y); err != nil {
			return scierr.Wrap(err, "refit best candidate")
		}
		s.logger.Debug("refit complete",
			slog.Int64(log.FitTimeMsKey, time.Since(start).Milliseconds()))
		s.bestEstimator = best
	}

	nSamples, nFeatures := X.Dims()
	s.state.SetDimensions(nFeatures, nSamples)
	s.state.SetFitted()

	s.logger.Info("search complete",
		slog.String("best_params", s.results[s.bestIndex].Params.String()),
		slog.Float64(log.BestScoreKey, s.results[s.bestIndex].MeanTestScore))
	return nil
}

// Results returns the per-candidate cross-validation table.
func (s *searchCV) Results() (CVResults, error) {
	if err := s.state.RequireFitted("search", "Results"); err != nil {
		return nil, err
	}
	return s.results, nil
}

// BestParams returns the parameters of the best candidate.
func (s *searchCV) BestParams() (model.Params, error) {
	if err := s.state.RequireFitted("search", "BestParams"); err != nil {
		return nil, err
	}
	return s.results[s.bestIndex].Params.Copy(), nil
}

// BestScore returns the best mean cross-validated score.
func (s *searchCV) BestScore() (float64, error) {
	if err := s.state.RequireFitted("search", "BestScore"); err != nil {
		return 0, err
	}
	return s.results[s.bestIndex].MeanTestScore, nil
}

// BestEstimator returns the best candidate refitted on the full data.
func (s *searchCV) BestEstimator() (model.Estimator, error) {
	if err := s.state.RequireFitted("search", "BestEstimator"); err != nil {
		return nil, err
	}
	if s.bestEstimator == nil {
		return nil, scierr.NewValueError("search.BestEstimator", "search was run with refit disabled")
	}
	return s.bestEstimator, nil
}

// Predict delegates to the refitted best estimator.
func (s *searchCV) Predict(X mat.Matrix) (mat.Matrix, error) {
	best, err := s.BestEstimator()
	if err != nil {
		return nil, err
	}
	return best.Predict(X)
}

// Score delegates to the refitted best estimator.
func (s *searchCV) Score(X, y mat.Matrix) (float64, error) {
	best, err := s.BestEstimator()
	if err != nil {
		return 0, err
	}
	return best.Score(X, y)
}

// GridSearchCV exhaustively evaluates every combination of a ParamGrid.
type GridSearchCV struct {
	*searchCV
	grid ParamGrid
}

// NewGridSearchCV creates a grid search over the given estimator and grid.
func NewGridSearchCV(estimator model.Estimator, grid ParamGrid, opts ...SearchOption) *GridSearchCV {
	return &GridSearchCV{searchCV: newSearchCV(estimator, opts...), grid: grid}
}

// Fit enumerates the grid and cross-validates every combination.
func (g *GridSearchCV) Fit(ctx context.Context, X, y mat.Matrix) error {
	candidates, err := g.grid.Enumerate()
	if err != nil {
		return err
	}
	if err := g.evaluate(ctx, X, y, candidates); err != nil {
		return err
	}
	return g.finish(X, y)
}

// RandomizedSearchCV evaluates a fixed number of combinations sampled from
// parameter distributions.
type RandomizedSearchCV struct {
	*searchCV
	space ParamSpace
	nIter int
}

// NewRandomizedSearchCV creates a randomized search drawing nIter candidates
// from the space.
func NewRandomizedSearchCV(estimator model.Estimator, space ParamSpace, nIter int, opts ...SearchOption) *RandomizedSearchCV {
	return &RandomizedSearchCV{searchCV: newSearchCV(estimator, opts...), space: space, nIter: nIter}
}

// Fit samples candidates and cross-validates each one.
func (r *RandomizedSearchCV) Fit(ctx context.Context, X, y mat.Matrix) error {
	if r.nIter <= 0 {
		return scierr.NewValidationError("n_iter", "must be positive", r.nIter)
	}
	sampler, err := NewParamSampler(r.space, r.seed)
	if err != nil {
		return err
	}
	if err := r.evaluate(ctx, X, y, sampler.Sample(r.nIter)); err != nil {
		return err
	}
	return r.finish(X, y)
}

// assignRanks gives rank 1 to the best mean score. Equal scores share a rank,
// competition style.
func assignRanks(results CVResults) {
	order := make([]int, len(results))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return results[order[a]].MeanTestScore > results[order[b]].MeanTestScore
	})

	for pos, idx := range order {
		if pos > 0 && results[idx].MeanTestScore == results[order[pos-1]].MeanTestScore {
			results[idx].Rank = results[order[pos-1]].Rank
		} else {
			results[idx].Rank = pos + 1
		}
	}
}

func meanStd(values []float64) (float64, float64) {
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}

// discardHandler drops every record; used when no logger is attached.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }
