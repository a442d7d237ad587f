package feature_extraction

import (
	"sort"
	"strings"
	"unicode"

	"gonum.org/v1/gonum/mat"

	"github.com/parsearch/parsearch/core/model"
	scierr "github.com/parsearch/parsearch/pkg/errors"
)

// CountVectorizer converts raw documents into a matrix of token counts.
// The vocabulary is ordered alphabetically so column order is deterministic
// across runs with the same configuration.
type CountVectorizer struct {
	state *model.StateManager

	// Hyper-parameters.
	lowercase   bool
	minDF       int // minimum number of documents a term must appear in
	maxFeatures int // keep only the most frequent terms; 0 keeps all
	ngramMax    int // build word n-grams from 1 up to this size

	// Vocabulary maps term to column index, fitted.
	Vocabulary map[string]int
}

// CountVectorizerOption configures a CountVectorizer.
type CountVectorizerOption func(*CountVectorizer)

// WithLowercase controls case folding before tokenization.
func WithLowercase(lowercase bool) CountVectorizerOption {
	return func(v *CountVectorizer) {
		v.lowercase = lowercase
	}
}

// WithMinDF sets the minimum document frequency for a term to be kept.
func WithMinDF(minDF int) CountVectorizerOption {
	return func(v *CountVectorizer) {
		v.minDF = minDF
	}
}

// WithMaxFeatures caps the vocabulary at the most frequent terms.
func WithMaxFeatures(maxFeatures int) CountVectorizerOption {
	return func(v *CountVectorizer) {
		v.maxFeatures = maxFeatures
	}
}

// WithNgramMax builds word n-grams from 1 up to the given size.
func WithNgramMax(n int) CountVectorizerOption {
	return func(v *CountVectorizer) {
		v.ngramMax = n
	}
}

// NewCountVectorizer creates a CountVectorizer with sklearn-like defaults:
// lowercasing on, unigrams only, no frequency pruning.
func NewCountVectorizer(opts ...CountVectorizerOption) *CountVectorizer {
	v := &CountVectorizer{
		state:     model.NewStateManager(),
		lowercase: true,
		minDF:     1,
		ngramMax:  1,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// tokenize splits a document into word tokens: maximal runs of letters and
// digits of length two or more, matching the default sklearn token pattern.
func (v *CountVectorizer) tokenize(doc string) []string {
	if v.lowercase {
		doc = strings.ToLower(doc)
	}

	words := strings.FieldsFunc(doc, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if len(w) >= 2 {
			tokens = append(tokens, w)
		}
	}

	if v.ngramMax <= 1 {
		return tokens
	}

	// Append higher-order n-grams joined with a space.
	withNgrams := make([]string, 0, len(tokens)*v.ngramMax)
	withNgrams = append(withNgrams, tokens...)
	for n := 2; n <= v.ngramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			withNgrams = append(withNgrams, strings.Join(tokens[i:i+n], " "))
		}
	}
	return withNgrams
}

func corpusDocs(X mat.Matrix, op string) ([]string, error) {
	corpus, ok := X.(*Corpus)
	if !ok {
		return nil, scierr.NewValueError(op, "input must be a *feature_extraction.Corpus of raw documents")
	}
	if len(corpus.Docs()) == 0 {
		return nil, scierr.NewModelError(op, "empty corpus", scierr.ErrEmptyData)
	}
	return corpus.Docs(), nil
}

// Fit learns the vocabulary from the corpus.
func (v *CountVectorizer) Fit(X mat.Matrix) error {
	docs, err := corpusDocs(X, "CountVectorizer.Fit")
	if err != nil {
		return err
	}

	termCount := make(map[string]int)
	docFreq := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, tok := range v.tokenize(doc) {
			termCount[tok]++
			if !seen[tok] {
				docFreq[tok]++
				seen[tok] = true
			}
		}
	}

	terms := make([]string, 0, len(termCount))
	for term, df := range docFreq {
		if df >= v.minDF {
			terms = append(terms, term)
		}
	}
	if len(terms) == 0 {
		return scierr.NewModelError("CountVectorizer.Fit", "no terms survived pruning", scierr.ErrEmptyVocabulary)
	}

	if v.maxFeatures > 0 && len(terms) > v.maxFeatures {
		// Keep the most frequent terms; ties break alphabetically.
		sort.Slice(terms, func(i, j int) bool {
			if termCount[terms[i]] != termCount[terms[j]] {
				return termCount[terms[i]] > termCount[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:v.maxFeatures]
	}

	sort.Strings(terms)
	v.Vocabulary = make(map[string]int, len(terms))
	for i, term := range terms {
		v.Vocabulary[term] = i
	}

	v.state.SetDimensions(len(terms), len(docs))
	v.state.SetFitted()
	return nil
}

// Transform maps the corpus onto the fitted vocabulary, producing a
// (n_docs, n_terms) count matrix. Out-of-vocabulary tokens are dropped.
func (v *CountVectorizer) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !v.state.IsFitted() {
		return nil, scierr.NewNotFittedError("CountVectorizer", "Transform")
	}
	docs, err := corpusDocs(X, "CountVectorizer.Transform")
	if err != nil {
		return nil, err
	}

	counts := mat.NewDense(len(docs), len(v.Vocabulary), nil)
	for i, doc := range docs {
		for _, tok := range v.tokenize(doc) {
			if j, ok := v.Vocabulary[tok]; ok {
				counts.Set(i, j, counts.At(i, j)+1)
			}
		}
	}
	return counts, nil
}

// FitTransform runs Fit and Transform in one step.
func (v *CountVectorizer) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := v.Fit(X); err != nil {
		return nil, err
	}
	return v.Transform(X)
}

// FeatureNames returns the vocabulary terms in column order.
func (v *CountVectorizer) FeatureNames() []string {
	names := make([]string, len(v.Vocabulary))
	for term, idx := range v.Vocabulary {
		names[idx] = term
	}
	return names
}

// GetParams returns the vectorizer hyper-parameters.
func (v *CountVectorizer) GetParams() model.Params {
	return model.Params{
		"lowercase":    v.lowercase,
		"min_df":       v.minDF,
		"max_features": v.maxFeatures,
		"ngram_max":    v.ngramMax,
	}
}

// SetParams overrides vectorizer hyper-parameters.
func (v *CountVectorizer) SetParams(params model.Params) error {
	for key := range params {
		switch key {
		case "lowercase":
			v.lowercase = params.GetBool(key, v.lowercase)
		case "min_df":
			v.minDF = params.GetInt(key, v.minDF)
		case "max_features":
			v.maxFeatures = params.GetInt(key, v.maxFeatures)
		case "ngram_max":
			v.ngramMax = params.GetInt(key, v.ngramMax)
		default:
			return scierr.NewParamError("CountVectorizer", key, "unknown parameter")
		}
	}
	return nil
}

// CloneTransformer returns an unfitted copy with the same hyper-parameters.
func (v *CountVectorizer) CloneTransformer() model.TunableTransformer {
	return &CountVectorizer{
		state:       model.NewStateManager(),
		lowercase:   v.lowercase,
		minDF:       v.minDF,
		maxFeatures: v.maxFeatures,
		ngramMax:    v.ngramMax,
	}
}
