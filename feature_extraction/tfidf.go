package feature_extraction

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/parsearch/parsearch/core/model"
	scierr "github.com/parsearch/parsearch/pkg/errors"
)

// TfidfTransformer reweights a count matrix with inverse document
// frequencies and optionally normalizes rows to unit length.
type TfidfTransformer struct {
	state *model.StateManager

	// Hyper-parameters.
	useIDF      bool
	smoothIDF   bool
	sublinearTF bool
	norm        string // "l2" or "none"

	// IDF holds the fitted per-term inverse document frequency.
	IDF []float64

	nFeatures int
}

// TfidfOption configures a TfidfTransformer.
type TfidfOption func(*TfidfTransformer)

// WithUseIDF enables or disables inverse-document-frequency reweighting.
func WithUseIDF(use bool) TfidfOption {
	return func(t *TfidfTransformer) {
		t.useIDF = use
	}
}

// WithSmoothIDF adds one to document frequencies, as if an extra document
// contained every term once.
func WithSmoothIDF(smooth bool) TfidfOption {
	return func(t *TfidfTransformer) {
		t.smoothIDF = smooth
	}
}

// WithSublinearTF replaces tf with 1 + log(tf).
func WithSublinearTF(sublinear bool) TfidfOption {
	return func(t *TfidfTransformer) {
		t.sublinearTF = sublinear
	}
}

// WithNorm sets the row normalization: "l2" or "none".
func WithNorm(norm string) TfidfOption {
	return func(t *TfidfTransformer) {
		t.norm = norm
	}
}

// NewTfidfTransformer creates a TfidfTransformer with sklearn-like defaults:
// smoothed idf on, l2 normalization.
func NewTfidfTransformer(opts ...TfidfOption) *TfidfTransformer {
	t := &TfidfTransformer{
		state:     model.NewStateManager(),
		useIDF:    true,
		smoothIDF: true,
		norm:      "l2",
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Fit computes idf weights from a count matrix.
func (t *TfidfTransformer) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return scierr.NewModelError("TfidfTransformer.Fit", "empty count matrix", scierr.ErrEmptyData)
	}
	if t.norm != "l2" && t.norm != "none" {
		return scierr.NewValidationError("norm", "must be 'l2' or 'none'", t.norm)
	}

	t.nFeatures = c
	t.IDF = make([]float64, c)

	if t.useIDF {
		for j := 0; j < c; j++ {
			df := 0
			for i := 0; i < r; i++ {
				if X.At(i, j) > 0 {
					df++
				}
			}
			n, d := float64(r), float64(df)
			if t.smoothIDF {
				n++
				d++
			}
			// idf(t) = ln(n/df) + 1, so terms in every document still count.
			t.IDF[j] = math.Log(n/d) + 1
		}
	} else {
		for j := 0; j < c; j++ {
			t.IDF[j] = 1
		}
	}

	t.state.SetDimensions(c, r)
	t.state.SetFitted()
	return nil
}

// Transform applies tf-idf weighting to a count matrix.
func (t *TfidfTransformer) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !t.state.IsFitted() {
		return nil, scierr.NewNotFittedError("TfidfTransformer", "Transform")
	}

	r, c := X.Dims()
	if c != t.nFeatures {
		return nil, scierr.NewDimensionError("TfidfTransformer.Transform", t.nFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		norm := 0.0
		for j := 0; j < c; j++ {
			tf := X.At(i, j)
			if t.sublinearTF && tf > 0 {
				tf = 1 + math.Log(tf)
			}
			v := tf * t.IDF[j]
			result.Set(i, j, v)
			norm += v * v
		}

		if t.norm == "l2" && norm > 0 {
			norm = math.Sqrt(norm)
			for j := 0; j < c; j++ {
				result.Set(i, j, result.At(i, j)/norm)
			}
		}
	}
	return result, nil
}

// FitTransform runs Fit and Transform in one step.
func (t *TfidfTransformer) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := t.Fit(X); err != nil {
		return nil, err
	}
	return t.Transform(X)
}

// GetParams returns the transformer hyper-parameters.
func (t *TfidfTransformer) GetParams() model.Params {
	return model.Params{
		"use_idf":      t.useIDF,
		"smooth_idf":   t.smoothIDF,
		"sublinear_tf": t.sublinearTF,
		"norm":         t.norm,
	}
}

// SetParams overrides transformer hyper-parameters.
func (t *TfidfTransformer) SetParams(params model.Params) error {
	for key := range params {
		switch key {
		case "use_idf":
			t.useIDF = params.GetBool(key, t.useIDF)
		case "smooth_idf":
			t.smoothIDF = params.GetBool(key, t.smoothIDF)
		case "sublinear_tf":
			t.sublinearTF = params.GetBool(key, t.sublinearTF)
		case "norm":
			t.norm = params.GetString(key, t.norm)
		default:
			return scierr.NewParamError("TfidfTransformer", key, "unknown parameter")
		}
	}
	return nil
}

// CloneTransformer returns an unfitted copy with the same hyper-parameters.
func (t *TfidfTransformer) CloneTransformer() model.TunableTransformer {
	return &TfidfTransformer{
		state:       model.NewStateManager(),
		useIDF:      t.useIDF,
		smoothIDF:   t.smoothIDF,
		sublinearTF: t.sublinearTF,
		norm:        t.norm,
	}
}
