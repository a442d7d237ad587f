package feature_extraction

import (
	"gonum.org/v1/gonum/mat"

	"github.com/parsearch/parsearch/core/model"
	scierr "github.com/parsearch/parsearch/pkg/errors"
)

// TfidfVectorizer composes a CountVectorizer and a TfidfTransformer into a
// single transformer: raw documents in, tf-idf weighted matrix out. Parameters
// of both stages are exposed flat, so a search can tune "max_features" and
// "use_idf" on the same object.
type TfidfVectorizer struct {
	counter *CountVectorizer
	tfidf   *TfidfTransformer
}

// NewTfidfVectorizer creates a TfidfVectorizer. CountVectorizerOption and
// TfidfOption values configure the respective stage.
func NewTfidfVectorizer(countOpts []CountVectorizerOption, tfidfOpts ...TfidfOption) *TfidfVectorizer {
	return &TfidfVectorizer{
		counter: NewCountVectorizer(countOpts...),
		tfidf:   NewTfidfTransformer(tfidfOpts...),
	}
}

// Fit learns the vocabulary and idf weights from the corpus.
func (v *TfidfVectorizer) Fit(X mat.Matrix) error {
	counts, err := v.counter.FitTransform(X)
	if err != nil {
		return err
	}
	return v.tfidf.Fit(counts)
}

// Transform maps the corpus to the fitted tf-idf representation.
func (v *TfidfVectorizer) Transform(X mat.Matrix) (mat.Matrix, error) {
	counts, err := v.counter.Transform(X)
	if err != nil {
		return nil, err
	}
	return v.tfidf.Transform(counts)
}

// FitTransform runs Fit and Transform in one step.
func (v *TfidfVectorizer) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := v.Fit(X); err != nil {
		return nil, err
	}
	return v.Transform(X)
}

// FeatureNames returns the vocabulary terms in column order.
func (v *TfidfVectorizer) FeatureNames() []string {
	return v.counter.FeatureNames()
}

// GetParams returns the parameters of both stages, flattened.
func (v *TfidfVectorizer) GetParams() model.Params {
	params := v.counter.GetParams()
	for key, value := range v.tfidf.GetParams() {
		params[key] = value
	}
	return params
}

// SetParams routes each parameter to the stage that owns it.
func (v *TfidfVectorizer) SetParams(params model.Params) error {
	counterKeys := v.counter.GetParams()
	tfidfKeys := v.tfidf.GetParams()

	for key, value := range params {
		single := model.Params{key: value}
		if _, ok := counterKeys[key]; ok {
			if err := v.counter.SetParams(single); err != nil {
				return err
			}
			continue
		}
		if _, ok := tfidfKeys[key]; ok {
			if err := v.tfidf.SetParams(single); err != nil {
				return err
			}
			continue
		}
		return scierr.NewParamError("TfidfVectorizer", key, "unknown parameter")
	}
	return nil
}

// CloneTransformer returns an unfitted copy with the same hyper-parameters.
func (v *TfidfVectorizer) CloneTransformer() model.TunableTransformer {
	return &TfidfVectorizer{
		counter: v.counter.CloneTransformer().(*CountVectorizer),
		tfidf:   v.tfidf.CloneTransformer().(*TfidfTransformer),
	}
}
