package model_selection

import (
	"context"
	"math"
	"math/rand"
	"sort"

	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/mat"

	"github.com/parsearch/parsearch/core/model"
	scierr "github.com/parsearch/parsearch/pkg/errors"
)

// Acquisition selects how BayesSearchCV trades exploration against
// exploitation when proposing the next candidate.
type Acquisition string

const (
	// UCB scores a point by mean + beta*stddev.
	UCB Acquisition = "ucb"
	// EI scores a point by its expected improvement over the best score.
	EI Acquisition = "ei"
	// PI scores a point by its probability of improving on the best score.
	PI Acquisition = "pi"
)

// NumericRange describes one tunable numeric parameter on a normalized
// [0,1] axis, so the surrogate model sees comparable scales.
type NumericRange interface {
	// Value maps a normalized position to the parameter value.
	Value(u float64) interface{}
}

// FloatRange is a continuous range. With Log set, positions map through a
// log scale, suiting parameters like C or alpha.
type FloatRange[T constraints.Float] struct {
	Low, High T
	Log       bool
}

// Value maps a normalized position to a float in [Low, High].
func (r FloatRange[T]) Value(u float64) interface{} {
	if r.Log {
		logLow, logHigh := math.Log(float64(r.Low)), math.Log(float64(r.High))
		return math.Exp(logLow + u*(logHigh-logLow))
	}
	return float64(r.Low) + u*float64(r.High-r.Low)
}

// IntRange is an inclusive integer range.
type IntRange[T constraints.Integer] struct {
	Low, High T
}

// Value maps a normalized position to an int in [Low, High].
func (r IntRange[T]) Value(u float64) interface{} {
	span := float64(r.High-r.Low) + 1
	idx := int(u * span)
	if idx >= int(r.High-r.Low)+1 {
		idx = int(r.High - r.Low)
	}
	return int(r.Low) + idx
}

// BayesSearchCV tunes numeric parameters with a Gaussian-process surrogate:
// a few random candidates seed the model, then each iteration evaluates the
// point that maximizes the acquisition function.
type BayesSearchCV struct {
	*searchCV

	ranges      map[string]NumericRange
	nIter       int
	nInitPoints int
	acquisition Acquisition
	beta        float64 // UCB exploration weight
	xi          float64 // EI/PI improvement margin
}

// BayesOption configures a BayesSearchCV beyond the shared search options.
type BayesOption func(*BayesSearchCV)

// WithInitPoints sets how many random candidates seed the surrogate.
func WithInitPoints(n int) BayesOption {
	return func(b *BayesSearchCV) {
		b.nInitPoints = n
	}
}

// WithAcquisition selects the acquisition function.
func WithAcquisition(a Acquisition) BayesOption {
	return func(b *BayesSearchCV) {
		b.acquisition = a
	}
}

// WithBeta sets the UCB exploration weight.
func WithBeta(beta float64) BayesOption {
	return func(b *BayesSearchCV) {
		b.beta = beta
	}
}

// WithXi sets the minimum improvement margin for EI and PI.
func WithXi(xi float64) BayesOption {
	return func(b *BayesSearchCV) {
		b.xi = xi
	}
}

// NewBayesSearchCV creates a Bayesian search running nIter surrogate-guided
// evaluations after the initial random ones.
func NewBayesSearchCV(estimator model.Estimator, ranges map[string]NumericRange, nIter int,
	searchOpts []SearchOption, opts ...BayesOption) *BayesSearchCV {
	b := &BayesSearchCV{
		searchCV:    newSearchCV(estimator, searchOpts...),
		ranges:      ranges,
		nIter:       nIter,
		nInitPoints: 5,
		acquisition: UCB,
		beta:        2.0,
		xi:          0.01,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *BayesSearchCV) sortedNames() []string {
	names := make([]string, 0, len(b.ranges))
	for name := range b.ranges {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// toParams converts a normalized point into estimator parameters, following
// the sorted name order used everywhere.
func (b *BayesSearchCV) toParams(names []string, point []float64) model.Params {
	params := make(model.Params, len(names))
	for i, name := range names {
		params[name] = b.ranges[name].Value(point[i])
	}
	return params
}

func (b *BayesSearchCV) acquire(mean, variance, bestSoFar float64) float64 {
	stddev := math.Sqrt(variance)
	switch b.acquisition {
	case EI:
		if stddev == 0 {
			return 0
		}
		z := (mean - bestSoFar - b.xi) / stddev
		return (mean-bestSoFar-b.xi)*normalCDF(z) + stddev*normalPDF(z)
	case PI:
		if stddev == 0 {
			return 0
		}
		return normalCDF((mean - bestSoFar - b.xi) / stddev)
	default:
		return mean + b.beta*stddev
	}
}

// Fit seeds the surrogate with random candidates, then runs nIter iterations
// of propose-evaluate-update.
func (b *BayesSearchCV) Fit(ctx context.Context, X, y mat.Matrix) error {
	if len(b.ranges) == 0 {
		return scierr.Wrap(scierr.ErrEmptyGrid, "BayesSearchCV")
	}
	if b.nIter <= 0 {
		return scierr.NewValidationError("n_iter", "must be positive", b.nIter)
	}

	names := b.sortedNames()
	rng := rand.New(rand.NewSource(b.seed))

	folds, err := b.split(y)
	if err != nil {
		return err
	}

	randomPoint := func() []float64 {
		point := make([]float64, len(names))
		for i := range point {
			point[i] = rng.Float64()
		}
		return point
	}

	// Seed points are drawn up front so the RNG stream stays deterministic
	// while the evaluations fan out over the client.
	initPoints := make([][]float64, b.nInitPoints)
	for i := range initPoints {
		initPoints[i] = randomPoint()
	}

	results := make(CVResults, b.nInitPoints, b.nInitPoints+b.nIter)
	errs := b.client.Map(ctx, b.nInitPoints, func(i int) error {
		result, err := b.evaluateCandidate(X, y, b.toParams(names, initPoints[i]), folds)
		if err != nil {
			return err
		}
		results[i] = result
		return nil
	})
	for _, err := range errs {
		if err != nil {
			return scierr.Wrap(err, "initial candidates")
		}
	}

	gp := newGaussianProcess()
	bestSoFar := math.Inf(-1)
	for i, point := range initPoints {
		gp.Update(point, results[i].MeanTestScore)
		if results[i].MeanTestScore > bestSoFar {
			bestSoFar = results[i].MeanTestScore
		}
	}

	// nCandidates random probes per iteration approximate the acquisition
	// argmax over the box.
	const nCandidates = 256
	for iter := 0; iter < b.nIter; iter++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		var bestPoint []float64
		bestAcq := math.Inf(-1)
		for c := 0; c < nCandidates; c++ {
			point := randomPoint()
			mean, variance := gp.Predict(point)
			if acq := b.acquire(mean, variance, bestSoFar); acq > bestAcq {
				bestAcq = acq
				bestPoint = point
			}
		}

		result, err := b.evaluateCandidate(X, y, b.toParams(names, bestPoint), folds)
		if err != nil {
			return err
		}
		results = append(results, result)
		gp.Update(bestPoint, result.MeanTestScore)
		if result.MeanTestScore > bestSoFar {
			bestSoFar = result.MeanTestScore
		}
	}

	assignRanks(results)
	b.results = results
	b.bestIndex = results.Best()
	return b.finish(X, y)
}
