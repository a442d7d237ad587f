// Package linear_model provides linear classifiers with settable
// hyper-parameters, suitable as search candidates.
package linear_model

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/parsearch/parsearch/core/model"
	scierr "github.com/parsearch/parsearch/pkg/errors"
)

// LogisticRegression implements logistic regression trained with batch
// gradient descent. Binary problems use a single weight vector; multiclass
// problems are handled one-vs-rest.
type LogisticRegression struct {
	state *model.StateManager

	// Hyper-parameters.
	penalty      string  // "l2" or "none"
	c            float64 // inverse regularization strength
	fitIntercept bool
	maxIter      int
	tol          float64
	randomState  int64 // < 0 means unseeded

	// Fitted parameters.
	coef      [][]float64 // (1, n_features) binary, (n_classes, n_features) OVR
	intercept []float64
	classes   []int
	nClasses  int
	nFeatures int
	nIter     []int

	rng *rand.Rand
}

// Option is a functional option for LogisticRegression.
type Option func(*LogisticRegression)

// WithPenalty sets the regularization type: "l2" or "none".
func WithPenalty(penalty string) Option {
	return func(lr *LogisticRegression) {
		lr.penalty = penalty
	}
}

// WithC sets the inverse regularization strength.
func WithC(c float64) Option {
	return func(lr *LogisticRegression) {
		lr.c = c
	}
}

// WithFitIntercept controls whether an intercept term is fitted.
func WithFitIntercept(fit bool) Option {
	return func(lr *LogisticRegression) {
		lr.fitIntercept = fit
	}
}

// WithMaxIter sets the maximum number of gradient descent iterations.
func WithMaxIter(maxIter int) Option {
	return func(lr *LogisticRegression) {
		lr.maxIter = maxIter
	}
}

// WithTol sets the gradient tolerance for early stopping.
func WithTol(tol float64) Option {
	return func(lr *LogisticRegression) {
		lr.tol = tol
	}
}

// WithRandomState sets the seed for weight initialization.
func WithRandomState(seed int64) Option {
	return func(lr *LogisticRegression) {
		lr.randomState = seed
	}
}

// NewLogisticRegression creates a LogisticRegression with sklearn-like
// defaults: l2 penalty, C=1, up to 100 iterations.
func NewLogisticRegression(opts ...Option) *LogisticRegression {
	lr := &LogisticRegression{
		state:        model.NewStateManager(),
		penalty:      "l2",
		c:            1.0,
		fitIntercept: true,
		maxIter:      100,
		tol:          1e-4,
		randomState:  -1,
	}
	for _, opt := range opts {
		opt(lr)
	}
	lr.resetRNG()
	return lr
}

func (lr *LogisticRegression) resetRNG() {
	if lr.randomState >= 0 {
		lr.rng = rand.New(rand.NewSource(lr.randomState))
	} else {
		lr.rng = rand.New(rand.NewSource(rand.Int63()))
	}
}

// Fit trains the classifier.
func (lr *LogisticRegression) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()

	if nSamples == 0 {
		return scierr.NewModelError("LogisticRegression.Fit", "empty data", scierr.ErrEmptyData)
	}
	if nSamples != yRows {
		return scierr.NewDimensionError("LogisticRegression.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return scierr.NewDimensionError("LogisticRegression.Fit", 1, yCols, 1)
	}
	if lr.c <= 0 {
		return scierr.NewValidationError("C", "must be positive", lr.c)
	}

	lr.extractClasses(y)
	lr.nFeatures = nFeatures
	lr.initializeWeights(nFeatures)

	if lr.nClasses < 2 {
		return scierr.NewValueError("LogisticRegression.Fit", "needs samples from at least 2 classes")
	}

	if lr.nClasses == 2 {
		yBinary := lr.binarize(y, lr.classes[1])
		lr.descend(X, yBinary, 0)
	} else {
		for classIdx, class := range lr.classes {
			yBinary := lr.binarize(y, class)
			lr.descend(X, yBinary, classIdx)
		}
	}

	lr.state.SetDimensions(nFeatures, nSamples)
	lr.state.SetFitted()
	return nil
}

func (lr *LogisticRegression) extractClasses(y mat.Matrix) {
	rows, _ := y.Dims()
	classMap := make(map[int]bool)
	for i := 0; i < rows; i++ {
		classMap[int(y.At(i, 0))] = true
	}

	lr.classes = make([]int, 0, len(classMap))
	for class := range classMap {
		lr.classes = append(lr.classes, class)
	}
	// Insertion sort keeps the label order deterministic.
	for i := 1; i < len(lr.classes); i++ {
		for j := i; j > 0 && lr.classes[j-1] > lr.classes[j]; j-- {
			lr.classes[j-1], lr.classes[j] = lr.classes[j], lr.classes[j-1]
		}
	}
	lr.nClasses = len(lr.classes)
}

func (lr *LogisticRegression) initializeWeights(nFeatures int) {
	nModels := 1
	if lr.nClasses > 2 {
		nModels = lr.nClasses
	}

	lr.coef = make([][]float64, nModels)
	lr.intercept = make([]float64, nModels)
	lr.nIter = make([]int, nModels)
	for i := range lr.coef {
		lr.coef[i] = make([]float64, nFeatures)
		for j := range lr.coef[i] {
			lr.coef[i][j] = lr.rng.NormFloat64() * 0.01
		}
	}
}

func (lr *LogisticRegression) binarize(y mat.Matrix, positive int) *mat.Dense {
	rows, _ := y.Dims()
	out := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		if int(y.At(i, 0)) == positive {
			out.Set(i, 0, 1)
		}
	}
	return out
}

// descend runs batch gradient descent for one binary subproblem, writing the
// result into coef[modelIdx] and intercept[modelIdx].
func (lr *LogisticRegression) descend(X mat.Matrix, yBinary mat.Matrix, modelIdx int) {
	nSamples, nFeatures := X.Dims()
	weights := lr.coef[modelIdx]
	intercept := &lr.intercept[modelIdx]

	baseLearningRate := 1.0
	converged := false

	for iter := 0; iter < lr.maxIter; iter++ {
		gradWeights := make([]float64, nFeatures)
		gradIntercept := 0.0

		for i := 0; i < nSamples; i++ {
			z := *intercept
			for j := 0; j < nFeatures; j++ {
				z += X.At(i, j) * weights[j]
			}
			residual := sigmoid(z) - yBinary.At(i, 0)
			gradIntercept += residual
			for j := 0; j < nFeatures; j++ {
				gradWeights[j] += residual * X.At(i, j)
			}
		}

		for j := range gradWeights {
			gradWeights[j] /= float64(nSamples)
		}
		gradIntercept /= float64(nSamples)

		if lr.penalty == "l2" {
			lambda := 1.0 / lr.c
			for j := range weights {
				gradWeights[j] += lambda * weights[j] / float64(nSamples)
			}
		}

		learningRate := baseLearningRate / (1.0 + 0.1*float64(iter))
		for j := range weights {
			weights[j] -= learningRate * gradWeights[j]
		}
		if lr.fitIntercept {
			*intercept -= learningRate * gradIntercept
		}

		lr.nIter[modelIdx] = iter + 1

		maxGrad := math.Abs(gradIntercept)
		for _, g := range gradWeights {
			if math.Abs(g) > maxGrad {
				maxGrad = math.Abs(g)
			}
		}
		if maxGrad < lr.tol {
			converged = true
			break
		}
	}

	if !converged {
		scierr.Warn(scierr.NewConvergenceWarning("LogisticRegression", lr.maxIter, ""))
	}
}

// decision computes the raw score of sample i for the given model index.
func (lr *LogisticRegression) decision(X mat.Matrix, i, modelIdx int) float64 {
	z := lr.intercept[modelIdx]
	for j := 0; j < lr.nFeatures; j++ {
		z += X.At(i, j) * lr.coef[modelIdx][j]
	}
	return z
}

// Predict returns the predicted class label for each sample.
func (lr *LogisticRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := lr.state.RequireFitted("LogisticRegression", "Predict"); err != nil {
		return nil, err
	}

	nSamples, nFeatures := X.Dims()
	if nFeatures != lr.nFeatures {
		return nil, scierr.NewDimensionError("LogisticRegression.Predict", lr.nFeatures, nFeatures, 1)
	}

	predictions := mat.NewDense(nSamples, 1, nil)
	if lr.nClasses == 2 {
		for i := 0; i < nSamples; i++ {
			if sigmoid(lr.decision(X, i, 0)) >= 0.5 {
				predictions.Set(i, 0, float64(lr.classes[1]))
			} else {
				predictions.Set(i, 0, float64(lr.classes[0]))
			}
		}
	} else {
		for i := 0; i < nSamples; i++ {
			bestClass, maxScore := 0, math.Inf(-1)
			for classIdx := 0; classIdx < lr.nClasses; classIdx++ {
				if score := lr.decision(X, i, classIdx); score > maxScore {
					maxScore = score
					bestClass = classIdx
				}
			}
			predictions.Set(i, 0, float64(lr.classes[bestClass]))
		}
	}
	return predictions, nil
}

// PredictProba returns per-class probability estimates: sigmoid for binary
// problems, softmax over the OVR scores otherwise.
func (lr *LogisticRegression) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if err := lr.state.RequireFitted("LogisticRegression", "PredictProba"); err != nil {
		return nil, err
	}

	nSamples, nFeatures := X.Dims()
	if nFeatures != lr.nFeatures {
		return nil, scierr.NewDimensionError("LogisticRegression.PredictProba", lr.nFeatures, nFeatures, 1)
	}

	probas := mat.NewDense(nSamples, lr.nClasses, nil)
	if lr.nClasses == 2 {
		for i := 0; i < nSamples; i++ {
			p := sigmoid(lr.decision(X, i, 0))
			probas.Set(i, 0, 1-p)
			probas.Set(i, 1, p)
		}
	} else {
		for i := 0; i < nSamples; i++ {
			scores := make([]float64, lr.nClasses)
			maxScore := math.Inf(-1)
			for classIdx := range scores {
				scores[classIdx] = lr.decision(X, i, classIdx)
				if scores[classIdx] > maxScore {
					maxScore = scores[classIdx]
				}
			}
			sum := 0.0
			for classIdx := range scores {
				scores[classIdx] = math.Exp(scores[classIdx] - maxScore)
				sum += scores[classIdx]
			}
			for classIdx := range scores {
				probas.Set(i, classIdx, scores[classIdx]/sum)
			}
		}
	}
	return probas, nil
}

// Score returns the mean accuracy on the given test data.
func (lr *LogisticRegression) Score(X, y mat.Matrix) (float64, error) {
	predictions, err := lr.Predict(X)
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

// Classes returns the labels seen during fitting.
func (lr *LogisticRegression) Classes() []int {
	out := make([]int, len(lr.classes))
	copy(out, lr.classes)
	return out
}

// NIter returns the iterations used per fitted subproblem.
func (lr *LogisticRegression) NIter() []int {
	out := make([]int, len(lr.nIter))
	copy(out, lr.nIter)
	return out
}

// GetParams returns the hyper-parameters.
func (lr *LogisticRegression) GetParams() model.Params {
	return model.Params{
		"penalty":       lr.penalty,
		"C":             lr.c,
		"fit_intercept": lr.fitIntercept,
		"max_iter":      lr.maxIter,
		"tol":           lr.tol,
		"random_state":  lr.randomState,
	}
}

// SetParams overrides hyper-parameters. Unknown names return a ParamError.
func (lr *LogisticRegression) SetParams(params model.Params) error {
	for key := range params {
		switch key {
		case "penalty":
			penalty := params.GetString(key, lr.penalty)
			if penalty != "l2" && penalty != "none" {
				return scierr.NewParamError("LogisticRegression", key, "must be 'l2' or 'none'")
			}
			lr.penalty = penalty
		case "C":
			lr.c = params.GetFloat64(key, lr.c)
		case "fit_intercept":
			lr.fitIntercept = params.GetBool(key, lr.fitIntercept)
		case "max_iter":
			lr.maxIter = params.GetInt(key, lr.maxIter)
		case "tol":
			lr.tol = params.GetFloat64(key, lr.tol)
		case "random_state":
			lr.randomState = int64(params.GetInt(key, int(lr.randomState)))
			lr.resetRNG()
		default:
			return scierr.NewParamError("LogisticRegression", key, "unknown parameter")
		}
	}
	return nil
}

// Clone returns an unfitted copy with the same hyper-parameters.
func (lr *LogisticRegression) Clone() model.Estimator {
	clone := NewLogisticRegression(
		WithPenalty(lr.penalty),
		WithC(lr.c),
		WithFitIntercept(lr.fitIntercept),
		WithMaxIter(lr.maxIter),
		WithTol(lr.tol),
		WithRandomState(lr.randomState),
	)
	return clone
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}
