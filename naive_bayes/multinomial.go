// Package naive_bayes implements naive Bayes classifiers for count data.
package naive_bayes

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/parsearch/parsearch/core/model"
	scierr "github.com/parsearch/parsearch/pkg/errors"
)

// MultinomialNB is a multinomial naive Bayes classifier. It works on
// non-negative count features (word counts, tf-idf) and supports
// incremental training through PartialFit.
type MultinomialNB struct {
	state *model.StateManager

	// Hyper-parameters.
	alpha    float64 // additive smoothing
	fitPrior bool    // learn class priors from data; uniform otherwise

	// Fitted parameters.
	classes      []int
	classCount   []float64   // samples per class
	featureCount [][]float64 // (n_classes, n_features) summed counts
	nFeatures    int
	nSamplesSeen int
}

// Option is a functional option for MultinomialNB.
type Option func(*MultinomialNB)

// WithAlpha sets the additive smoothing parameter.
func WithAlpha(alpha float64) Option {
	return func(nb *MultinomialNB) {
		nb.alpha = alpha
	}
}

// WithFitPrior controls whether class priors are learned from the data.
func WithFitPrior(fit bool) Option {
	return func(nb *MultinomialNB) {
		nb.fitPrior = fit
	}
}

// NewMultinomialNB creates a MultinomialNB with alpha=1 (Laplace smoothing)
// and learned class priors.
func NewMultinomialNB(opts ...Option) *MultinomialNB {
	nb := &MultinomialNB{
		state:    model.NewStateManager(),
		alpha:    1.0,
		fitPrior: true,
	}
	for _, opt := range opts {
		opt(nb)
	}
	return nb
}

func validateCounts(X mat.Matrix, op string) error {
	r, c := X.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if X.At(i, j) < 0 {
				return scierr.NewValueError(op, "multinomial naive Bayes requires non-negative feature values")
			}
		}
	}
	return nil
}

// Fit trains the classifier from scratch, discarding any previous state.
func (nb *MultinomialNB) Fit(X, y mat.Matrix) error {
	nSamples, _ := X.Dims()
	yRows, _ := y.Dims()
	if nSamples == 0 {
		return scierr.NewModelError("MultinomialNB.Fit", "empty data", scierr.ErrEmptyData)
	}
	if nSamples != yRows {
		return scierr.NewDimensionError("MultinomialNB.Fit", nSamples, yRows, 0)
	}

	classSet := make(map[int]bool)
	for i := 0; i < yRows; i++ {
		classSet[int(y.At(i, 0))] = true
	}
	classes := make([]int, 0, len(classSet))
	for class := range classSet {
		classes = append(classes, class)
	}
	for i := 1; i < len(classes); i++ {
		for j := i; j > 0 && classes[j-1] > classes[j]; j-- {
			classes[j-1], classes[j] = classes[j], classes[j-1]
		}
	}

	nb.reset()
	return nb.PartialFit(X, y, classes)
}

func (nb *MultinomialNB) reset() {
	nb.state = model.NewStateManager()
	nb.classes = nil
	nb.classCount = nil
	nb.featureCount = nil
	nb.nFeatures = 0
	nb.nSamplesSeen = 0
}

// PartialFit updates the model with a batch of samples. The full class list
// must be passed on the first call; later calls may pass nil.
func (nb *MultinomialNB) PartialFit(X, y mat.Matrix, classes []int) error {
	nSamples, nFeatures := X.Dims()
	yRows, _ := y.Dims()
	if nSamples != yRows {
		return scierr.NewDimensionError("MultinomialNB.PartialFit", nSamples, yRows, 0)
	}
	if nb.alpha < 0 {
		return scierr.NewValidationError("alpha", "must be non-negative", nb.alpha)
	}
	if err := validateCounts(X, "MultinomialNB.PartialFit"); err != nil {
		return err
	}

	if nb.classes == nil {
		if len(classes) == 0 {
			return scierr.NewValueError("MultinomialNB.PartialFit", "classes must be provided on the first call")
		}
		nb.classes = make([]int, len(classes))
		copy(nb.classes, classes)
		nb.nFeatures = nFeatures
		nb.classCount = make([]float64, len(classes))
		nb.featureCount = make([][]float64, len(classes))
		for i := range nb.featureCount {
			nb.featureCount[i] = make([]float64, nFeatures)
		}
	} else if nFeatures != nb.nFeatures {
		return scierr.NewDimensionError("MultinomialNB.PartialFit", nb.nFeatures, nFeatures, 1)
	}

	classIndex := make(map[int]int, len(nb.classes))
	for idx, class := range nb.classes {
		classIndex[class] = idx
	}

	for i := 0; i < nSamples; i++ {
		label := int(y.At(i, 0))
		idx, ok := classIndex[label]
		if !ok {
			return scierr.NewValueError("MultinomialNB.PartialFit", "label outside the declared class set")
		}
		nb.classCount[idx]++
		for j := 0; j < nFeatures; j++ {
			nb.featureCount[idx][j] += X.At(i, j)
		}
	}

	nb.nSamplesSeen += nSamples
	nb.state.SetDimensions(nb.nFeatures, nb.nSamplesSeen)
	nb.state.SetFitted()
	return nil
}

// jointLogLikelihood returns log P(class) + sum log P(feature|class) for each
// sample and class.
func (nb *MultinomialNB) jointLogLikelihood(X mat.Matrix) *mat.Dense {
	nSamples, _ := X.Dims()
	nClasses := len(nb.classes)

	logPrior := make([]float64, nClasses)
	if nb.fitPrior {
		total := 0.0
		for _, c := range nb.classCount {
			total += c
		}
		for idx, c := range nb.classCount {
			logPrior[idx] = math.Log(c / total)
		}
	} else {
		uniform := -math.Log(float64(nClasses))
		for idx := range logPrior {
			logPrior[idx] = uniform
		}
	}

	// Smoothed log feature probabilities per class.
	logProb := make([][]float64, nClasses)
	for idx := range logProb {
		logProb[idx] = make([]float64, nb.nFeatures)
		total := 0.0
		for _, c := range nb.featureCount[idx] {
			total += c + nb.alpha
		}
		for j, c := range nb.featureCount[idx] {
			logProb[idx][j] = math.Log((c + nb.alpha) / total)
		}
	}

	jll := mat.NewDense(nSamples, nClasses, nil)
	for i := 0; i < nSamples; i++ {
		for idx := 0; idx < nClasses; idx++ {
			sum := logPrior[idx]
			for j := 0; j < nb.nFeatures; j++ {
				if count := X.At(i, j); count > 0 {
					sum += count * logProb[idx][j]
				}
			}
			jll.Set(i, idx, sum)
		}
	}
	return jll
}

// Predict returns the most probable class label for each sample.
func (nb *MultinomialNB) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := nb.state.RequireFitted("MultinomialNB", "Predict"); err != nil {
		return nil, err
	}
	_, nFeatures := X.Dims()
	if nFeatures != nb.nFeatures {
		return nil, scierr.NewDimensionError("MultinomialNB.Predict", nb.nFeatures, nFeatures, 1)
	}

	jll := nb.jointLogLikelihood(X)
	nSamples, nClasses := jll.Dims()
	predictions := mat.NewDense(nSamples, 1, nil)
	for i := 0; i < nSamples; i++ {
		bestIdx, best := 0, math.Inf(-1)
		for idx := 0; idx < nClasses; idx++ {
			if v := jll.At(i, idx); v > best {
				best = v
				bestIdx = idx
			}
		}
		predictions.Set(i, 0, float64(nb.classes[bestIdx]))
	}
	return predictions, nil
}

// PredictLogProba returns normalized log probabilities per class.
func (nb *MultinomialNB) PredictLogProba(X mat.Matrix) (mat.Matrix, error) {
	if err := nb.state.RequireFitted("MultinomialNB", "PredictLogProba"); err != nil {
		return nil, err
	}
	_, nFeatures := X.Dims()
	if nFeatures != nb.nFeatures {
		return nil, scierr.NewDimensionError("MultinomialNB.PredictLogProba", nb.nFeatures, nFeatures, 1)
	}

	jll := nb.jointLogLikelihood(X)
	nSamples, nClasses := jll.Dims()
	for i := 0; i < nSamples; i++ {
		// log-sum-exp normalization.
		maxVal := math.Inf(-1)
		for idx := 0; idx < nClasses; idx++ {
			if v := jll.At(i, idx); v > maxVal {
				maxVal = v
			}
		}
		sum := 0.0
		for idx := 0; idx < nClasses; idx++ {
			sum += math.Exp(jll.At(i, idx) - maxVal)
		}
		logNorm := maxVal + math.Log(sum)
		for idx := 0; idx < nClasses; idx++ {
			jll.Set(i, idx, jll.At(i, idx)-logNorm)
		}
	}
	return jll, nil
}

// PredictProba returns per-class probability estimates.
func (nb *MultinomialNB) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	logProba, err := nb.PredictLogProba(X)
	if err != nil {
		return nil, err
	}
	nSamples, nClasses := logProba.Dims()
	proba := mat.NewDense(nSamples, nClasses, nil)
	for i := 0; i < nSamples; i++ {
		for idx := 0; idx < nClasses; idx++ {
			proba.Set(i, idx, math.Exp(logProba.At(i, idx)))
		}
	}
	return proba, nil
}

// Score returns the mean accuracy on the given test data.
func (nb *MultinomialNB) Score(X, y mat.Matrix) (float64, error) {
	predictions, err := nb.Predict(X)
	if err != nil {
		return 0, err
	}
	nSamples, _ := X.Dims()
	correct := 0
	for i := 0; i < nSamples; i++ {
		if predictions.At(i, 0) == y.At(i, 0) {
			correct++
		}
	}
	return float64(correct) / float64(nSamples), nil
}

// Classes returns the labels seen during fitting, ascending.
func (nb *MultinomialNB) Classes() []int {
	out := make([]int, len(nb.classes))
	copy(out, nb.classes)
	return out
}

// NSamplesSeen returns the number of samples consumed so far.
func (nb *MultinomialNB) NSamplesSeen() int {
	return nb.nSamplesSeen
}

// GetParams returns the hyper-parameters.
func (nb *MultinomialNB) GetParams() model.Params {
	return model.Params{
		"alpha":     nb.alpha,
		"fit_prior": nb.fitPrior,
	}
}

// SetParams overrides hyper-parameters. Unknown names return a ParamError.
func (nb *MultinomialNB) SetParams(params model.Params) error {
	for key := range params {
		switch key {
		case "alpha":
			nb.alpha = params.GetFloat64(key, nb.alpha)
		case "fit_prior":
			nb.fitPrior = params.GetBool(key, nb.fitPrior)
		default:
			return scierr.NewParamError("MultinomialNB", key, "unknown parameter")
		}
	}
	return nil
}

// Clone returns an unfitted copy with the same hyper-parameters.
func (nb *MultinomialNB) Clone() model.Estimator {
	return NewMultinomialNB(WithAlpha(nb.alpha), WithFitPrior(nb.fitPrior))
}
