// Package preprocessing provides feature scaling transformers that can be
// placed in front of an estimator inside a pipeline.
package preprocessing

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/parsearch/parsearch/core/model"
	"github.com/parsearch/parsearch/core/parallel"
	scierr "github.com/parsearch/parsearch/pkg/errors"
)

// StandardScaler standardizes features to zero mean and unit variance.
type StandardScaler struct {
	state *model.StateManager

	// Mean holds the per-feature mean.
	Mean []float64

	// Scale holds the per-feature standard deviation.
	Scale []float64

	// NFeatures is the number of features seen during Fit.
	NFeatures int

	// WithMean controls whether the mean is subtracted.
	WithMean bool

	// WithStd controls whether features are divided by their deviation.
	WithStd bool
}

// NewStandardScaler creates a StandardScaler.
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{
		state:    model.NewStateManager(),
		WithMean: withMean,
		WithStd:  withStd,
	}
}

// NewStandardScalerDefault creates a StandardScaler with both centering and
// scaling enabled.
func NewStandardScalerDefault() *StandardScaler {
	return NewStandardScaler(true, true)
}

// Fit computes per-feature mean and standard deviation from X.
func (s *StandardScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return scierr.NewModelError("StandardScaler.Fit", "empty data", scierr.ErrEmptyData)
	}

	s.NFeatures = c
	s.Mean = make([]float64, c)
	s.Scale = make([]float64, c)

	if s.WithMean {
		for j := 0; j < c; j++ {
			sum := 0.0
			for i := 0; i < r; i++ {
				sum += X.At(i, j)
			}
			s.Mean[j] = sum / float64(r)
		}
	}

	if s.WithStd {
		for j := 0; j < c; j++ {
			sumSquares := 0.0
			for i := 0; i < r; i++ {
				diff := X.At(i, j) - s.Mean[j]
				sumSquares += diff * diff
			}
			s.Scale[j] = math.Sqrt(sumSquares / float64(r))

			// A near-constant feature scales by 1 to avoid division by zero.
			if math.Abs(s.Scale[j]) < 1e-8 {
				s.Scale[j] = 1.0
			}
		}
	} else {
		for j := 0; j < c; j++ {
			s.Scale[j] = 1.0
		}
	}

	s.state.SetDimensions(c, r)
	s.state.SetFitted()
	return nil
}

// Transform standardizes X using the fitted statistics.
func (s *StandardScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !s.state.IsFitted() {
		return nil, scierr.NewNotFittedError("StandardScaler", "Transform")
	}

	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, scierr.NewDimensionError("StandardScaler.Transform", s.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	parallel.ParallelizeWithThreshold(r, 1024, func(start, end int) {
		for i := start; i < end; i++ {
			for j := 0; j < c; j++ {
				result.Set(i, j, (X.At(i, j)-s.Mean[j])/s.Scale[j])
			}
		}
	})

	return result, nil
}

// FitTransform runs Fit and Transform in one step.
func (s *StandardScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform maps standardized data back to the original scale.
func (s *StandardScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if !s.state.IsFitted() {
		return nil, scierr.NewNotFittedError("StandardScaler", "InverseTransform")
	}

	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, scierr.NewDimensionError("StandardScaler.InverseTransform", s.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			result.Set(i, j, X.At(i, j)*s.Scale[j]+s.Mean[j])
		}
	}
	return result, nil
}

// GetParams returns the scaler hyper-parameters.
func (s *StandardScaler) GetParams() model.Params {
	return model.Params{
		"with_mean": s.WithMean,
		"with_std":  s.WithStd,
	}
}

// SetParams overrides scaler hyper-parameters.
func (s *StandardScaler) SetParams(params model.Params) error {
	for key := range params {
		switch key {
		case "with_mean":
			s.WithMean = params.GetBool(key, s.WithMean)
		case "with_std":
			s.WithStd = params.GetBool(key, s.WithStd)
		default:
			return scierr.NewParamError("StandardScaler", key, "unknown parameter")
		}
	}
	return nil
}

// CloneTransformer returns an unfitted copy with the same hyper-parameters.
func (s *StandardScaler) CloneTransformer() model.TunableTransformer {
	return NewStandardScaler(s.WithMean, s.WithStd)
}

// MinMaxScaler rescales features to the [Min, Max] range, default [0, 1].
type MinMaxScaler struct {
	state *model.StateManager

	Min float64
	Max float64

	// DataMin and DataMax hold the per-feature range seen during Fit.
	DataMin []float64
	DataMax []float64

	NFeatures int
}

// NewMinMaxScaler creates a MinMaxScaler for the given output range.
func NewMinMaxScaler(min, max float64) *MinMaxScaler {
	return &MinMaxScaler{
		state: model.NewStateManager(),
		Min:   min,
		Max:   max,
	}
}

// NewMinMaxScalerDefault creates a MinMaxScaler with the [0, 1] range.
func NewMinMaxScalerDefault() *MinMaxScaler {
	return NewMinMaxScaler(0, 1)
}

// Fit records the per-feature minimum and maximum of X.
func (s *MinMaxScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return scierr.NewModelError("MinMaxScaler.Fit", "empty data", scierr.ErrEmptyData)
	}
	if s.Max <= s.Min {
		return scierr.NewValidationError("feature_range", "max must be greater than min", [2]float64{s.Min, s.Max})
	}

	s.NFeatures = c
	s.DataMin = make([]float64, c)
	s.DataMax = make([]float64, c)

	for j := 0; j < c; j++ {
		lo, hi := X.At(0, j), X.At(0, j)
		for i := 1; i < r; i++ {
			v := X.At(i, j)
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		s.DataMin[j] = lo
		s.DataMax[j] = hi
	}

	s.state.SetDimensions(c, r)
	s.state.SetFitted()
	return nil
}

// Transform rescales X into the configured output range.
func (s *MinMaxScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !s.state.IsFitted() {
		return nil, scierr.NewNotFittedError("MinMaxScaler", "Transform")
	}

	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, scierr.NewDimensionError("MinMaxScaler.Transform", s.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			span := s.DataMax[j] - s.DataMin[j]
			scaled := s.Min
			if span > 0 {
				scaled = (X.At(i, j)-s.DataMin[j])/span*(s.Max-s.Min) + s.Min
			}
			result.Set(i, j, scaled)
		}
	}
	return result, nil
}

// FitTransform runs Fit and Transform in one step.
func (s *MinMaxScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// GetParams returns the scaler hyper-parameters.
func (s *MinMaxScaler) GetParams() model.Params {
	return model.Params{
		"min": s.Min,
		"max": s.Max,
	}
}

// SetParams overrides scaler hyper-parameters.
func (s *MinMaxScaler) SetParams(params model.Params) error {
	for key := range params {
		switch key {
		case "min":
			s.Min = params.GetFloat64(key, s.Min)
		case "max":
			s.Max = params.GetFloat64(key, s.Max)
		default:
			return scierr.NewParamError("MinMaxScaler", key, "unknown parameter")
		}
	}
	return nil
}

// CloneTransformer returns an unfitted copy with the same hyper-parameters.
func (s *MinMaxScaler) CloneTransformer() model.TunableTransformer {
	return NewMinMaxScaler(s.Min, s.Max)
}
