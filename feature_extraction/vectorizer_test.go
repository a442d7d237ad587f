package feature_extraction

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	scierr "github.com/parsearch/parsearch/pkg/errors"
)

func TestCountVectorizerBasic(t *testing.T) {
	corpus := NewCorpus([]string{
		"the cat sat on the mat",
		"the dog sat on the log",
	})

	vec := NewCountVectorizer()
	counts, err := vec.FitTransform(corpus)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	// Vocabulary: cat, dog, log, mat, on, sat, the (alphabetical).
	names := vec.FeatureNames()
	want := []string{"cat", "dog", "log", "mat", "on", "sat", "the"}
	if len(names) != len(want) {
		t.Fatalf("vocabulary = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("vocabulary = %v, want %v", names, want)
		}
	}

	// "the" appears twice in each document.
	theIdx := vec.Vocabulary["the"]
	if counts.At(0, theIdx) != 2 || counts.At(1, theIdx) != 2 {
		t.Error("'the' should count 2 per document")
	}
	// "cat" appears only in the first document.
	catIdx := vec.Vocabulary["cat"]
	if counts.At(0, catIdx) != 1 || counts.At(1, catIdx) != 0 {
		t.Error("'cat' should appear only in document 0")
	}
}

func TestCountVectorizerDropsShortTokens(t *testing.T) {
	vec := NewCountVectorizer()
	if err := vec.Fit(NewCorpus([]string{"a I go to it"})); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if _, ok := vec.Vocabulary["a"]; ok {
		t.Error("single-character tokens must be dropped")
	}
	if _, ok := vec.Vocabulary["go"]; !ok {
		t.Error("two-character tokens must be kept")
	}
}

func TestCountVectorizerMaxFeatures(t *testing.T) {
	corpus := NewCorpus([]string{
		"apple apple apple banana banana cherry",
	})

	vec := NewCountVectorizer(WithMaxFeatures(2))
	if err := vec.Fit(corpus); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if len(vec.Vocabulary) != 2 {
		t.Fatalf("vocabulary size = %d, want 2", len(vec.Vocabulary))
	}
	if _, ok := vec.Vocabulary["cherry"]; ok {
		t.Error("least frequent term should be pruned")
	}
}

func TestCountVectorizerMinDF(t *testing.T) {
	corpus := NewCorpus([]string{
		"shared unique1",
		"shared unique2",
		"shared unique3",
	})

	vec := NewCountVectorizer(WithMinDF(2))
	if err := vec.Fit(corpus); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if len(vec.Vocabulary) != 1 {
		t.Fatalf("vocabulary = %v, want only 'shared'", vec.FeatureNames())
	}
}

func TestCountVectorizerNgrams(t *testing.T) {
	vec := NewCountVectorizer(WithNgramMax(2))
	if err := vec.Fit(NewCorpus([]string{"new york city"})); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if _, ok := vec.Vocabulary["new york"]; !ok {
		t.Errorf("bigram 'new york' missing from %v", vec.FeatureNames())
	}
	if _, ok := vec.Vocabulary["york city"]; !ok {
		t.Errorf("bigram 'york city' missing from %v", vec.FeatureNames())
	}
}

func TestCountVectorizerOOVIgnored(t *testing.T) {
	vec := NewCountVectorizer()
	if err := vec.Fit(NewCorpus([]string{"known words here"})); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	counts, err := vec.Transform(NewCorpus([]string{"unseen vocabulary words"}))
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	total := 0.0
	_, c := counts.Dims()
	for j := 0; j < c; j++ {
		total += counts.At(0, j)
	}
	if total != 1 { // only "words" is in-vocabulary
		t.Errorf("expected 1 in-vocabulary token, got %f", total)
	}
}

func TestCountVectorizerRequiresCorpus(t *testing.T) {
	vec := NewCountVectorizer()
	err := vec.Fit(mat.NewDense(2, 2, nil))
	if err == nil {
		t.Fatal("numeric input should be rejected")
	}
}

func TestCountVectorizerNotFitted(t *testing.T) {
	vec := NewCountVectorizer()
	_, err := vec.Transform(NewCorpus([]string{"doc"}))

	var nfe *scierr.NotFittedError
	if !scierr.As(err, &nfe) {
		t.Errorf("expected NotFittedError, got %v", err)
	}
}

func TestCountVectorizerSetParams(t *testing.T) {
	vec := NewCountVectorizer()
	if err := vec.SetParams(map[string]interface{}{"max_features": 100, "ngram_max": 2}); err != nil {
		t.Fatalf("SetParams failed: %v", err)
	}

	params := vec.GetParams()
	if params.GetInt("max_features", 0) != 100 {
		t.Error("max_features not applied")
	}

	if err := vec.SetParams(map[string]interface{}{"stop_words": "english"}); err == nil {
		t.Error("unknown parameter should fail")
	}
}

func TestCountVectorizerCloneIsUnfitted(t *testing.T) {
	vec := NewCountVectorizer(WithMaxFeatures(5))
	if err := vec.Fit(NewCorpus([]string{"some words to learn"})); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	clone := vec.CloneTransformer().(*CountVectorizer)
	if clone.Vocabulary != nil {
		t.Error("clone must not inherit the fitted vocabulary")
	}
	if clone.GetParams().GetInt("max_features", 0) != 5 {
		t.Error("clone must keep hyper-parameters")
	}
}

func TestTfidfTransformerL2Norm(t *testing.T) {
	counts := mat.NewDense(2, 3, []float64{
		2, 1, 0,
		0, 1, 3,
	})

	tfidf := NewTfidfTransformer()
	weighted, err := tfidf.FitTransform(counts)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	// Each row should have unit l2 norm.
	for i := 0; i < 2; i++ {
		norm := 0.0
		for j := 0; j < 3; j++ {
			norm += weighted.At(i, j) * weighted.At(i, j)
		}
		if math.Abs(math.Sqrt(norm)-1) > 1e-10 {
			t.Errorf("row %d norm = %f, want 1", i, math.Sqrt(norm))
		}
	}
}

func TestTfidfDownweightsCommonTerms(t *testing.T) {
	// Term 0 appears in every document, term 1 in a single one.
	counts := mat.NewDense(4, 2, []float64{
		1, 1,
		1, 0,
		1, 0,
		1, 0,
	})

	tfidf := NewTfidfTransformer(WithNorm("none"))
	weighted, err := tfidf.FitTransform(counts)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	if weighted.At(0, 1) <= weighted.At(0, 0) {
		t.Errorf("rare term weight %f should exceed common term weight %f",
			weighted.At(0, 1), weighted.At(0, 0))
	}
}

func TestTfidfWithoutIDFKeepsCounts(t *testing.T) {
	counts := mat.NewDense(1, 2, []float64{3, 4})

	tfidf := NewTfidfTransformer(WithUseIDF(false), WithNorm("none"))
	weighted, err := tfidf.FitTransform(counts)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	if weighted.At(0, 0) != 3 || weighted.At(0, 1) != 4 {
		t.Error("with idf and norm disabled the counts must pass through")
	}
}

func TestTfidfInvalidNorm(t *testing.T) {
	tfidf := NewTfidfTransformer(WithNorm("l7"))
	if err := tfidf.Fit(mat.NewDense(1, 1, []float64{1})); err == nil {
		t.Fatal("invalid norm should fail")
	}
}

func TestTfidfDimensionMismatch(t *testing.T) {
	tfidf := NewTfidfTransformer()
	if err := tfidf.Fit(mat.NewDense(2, 3, []float64{1, 0, 0, 0, 1, 0})); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	_, err := tfidf.Transform(mat.NewDense(1, 2, []float64{1, 0}))
	var de *scierr.DimensionError
	if !scierr.As(err, &de) {
		t.Errorf("expected DimensionError, got %v", err)
	}
}

func TestTfidfVectorizerEndToEnd(t *testing.T) {
	corpus := NewCorpus([]string{
		"the cat sat on the mat",
		"the dog sat on the log",
	})

	vec := NewTfidfVectorizer(nil)
	weighted, err := vec.FitTransform(corpus)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	r, c := weighted.Dims()
	if r != 2 || c != len(vec.FeatureNames()) {
		t.Fatalf("dims = (%d,%d), want (2,%d)", r, c, len(vec.FeatureNames()))
	}
	for i := 0; i < r; i++ {
		norm := 0.0
		for j := 0; j < c; j++ {
			norm += weighted.At(i, j) * weighted.At(i, j)
		}
		if math.Abs(math.Sqrt(norm)-1) > 1e-10 {
			t.Errorf("row %d norm = %f, want 1", i, math.Sqrt(norm))
		}
	}
}

func TestTfidfVectorizerParamRouting(t *testing.T) {
	vec := NewTfidfVectorizer(nil)

	err := vec.SetParams(map[string]interface{}{
		"max_features": 50,
		"use_idf":      false,
	})
	if err != nil {
		t.Fatalf("SetParams failed: %v", err)
	}

	params := vec.GetParams()
	if params.GetInt("max_features", 0) != 50 {
		t.Error("max_features should reach the counting stage")
	}
	if params.GetBool("use_idf", true) {
		t.Error("use_idf should reach the weighting stage")
	}

	if err := vec.SetParams(map[string]interface{}{"analyzer": "char"}); err == nil {
		t.Error("unknown parameter should fail")
	}
}

func TestTfidfVectorizerCloneIsUnfitted(t *testing.T) {
	vec := NewTfidfVectorizer([]CountVectorizerOption{WithMaxFeatures(3)})
	if _, err := vec.FitTransform(NewCorpus([]string{"words to learn here"})); err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	clone := vec.CloneTransformer().(*TfidfVectorizer)
	if _, err := clone.Transform(NewCorpus([]string{"words"})); err == nil {
		t.Error("clone must be unfitted")
	}
	if clone.GetParams().GetInt("max_features", 0) != 3 {
		t.Error("clone must keep hyper-parameters")
	}
}

func TestCorpusSubsetRows(t *testing.T) {
	corpus := NewCorpus([]string{"doc a", "doc b", "doc c", "doc d"})

	subset := corpus.SubsetRows([]int{3, 1}).(*Corpus)
	docs := subset.Docs()
	if len(docs) != 2 || docs[0] != "doc d" || docs[1] != "doc b" {
		t.Errorf("SubsetRows = %v, want [doc d, doc b]", docs)
	}

	r, c := subset.Dims()
	if r != 2 || c != 1 {
		t.Errorf("Dims = (%d,%d), want (2,1)", r, c)
	}
}
