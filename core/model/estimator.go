// Package model defines the estimator contracts shared by every tunable
// component in parsearch: supervised estimators, transformers, pipelines and
// the search objects that drive them.
package model

import "gonum.org/v1/gonum/mat"

// Fitter is the interface for trainable estimators.
type Fitter interface {
	// Fit trains the estimator on the given data.
	Fit(X, y mat.Matrix) error
}

// Predictor is the interface for estimators that can predict.
type Predictor interface {
	// Predict returns predictions for the input data.
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Scorer is the interface for estimators that can evaluate themselves.
// For classifiers the score is mean accuracy, higher is better.
type Scorer interface {
	Score(X, y mat.Matrix) (float64, error)
}

// Transformer is the interface for data transformations.
type Transformer interface {
	// Fit learns the parameters required by the transformation.
	Fit(X mat.Matrix) error

	// Transform applies the transformation.
	Transform(X mat.Matrix) (mat.Matrix, error)

	// FitTransform runs Fit and Transform in one step.
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}

// ParamEditor exposes hyper-parameters for search. Every candidate evaluated
// by a search object is configured through SetParams before Fit.
type ParamEditor interface {
	// GetParams returns the current hyper-parameters.
	GetParams() Params

	// SetParams overrides hyper-parameters. Unknown names or ill-typed
	// values return a ParamError.
	SetParams(params Params) error
}

// Cloner produces an unfitted copy sharing no state with the receiver.
// Search objects clone the template estimator once per candidate so that
// parallel fits cannot interfere.
type Cloner interface {
	Clone() Estimator
}

// TunableTransformer is a transformer that search objects can reconfigure
// and clone, e.g. a vectorizer step inside a pipeline.
type TunableTransformer interface {
	Transformer
	ParamEditor
	CloneTransformer() TunableTransformer
}

// Estimator is the full contract required of anything placed inside a search
// object: trainable, predictive, scorable, tunable and clonable.
type Estimator interface {
	Fitter
	Predictor
	Scorer
	ParamEditor
	Cloner
}

// Classifier extends Estimator with class probabilities and label access.
type Classifier interface {
	Estimator

	// PredictProba returns per-class probability estimates.
	PredictProba(X mat.Matrix) (mat.Matrix, error)

	// Classes returns the labels seen during fitting, ascending.
	Classes() []int
}
