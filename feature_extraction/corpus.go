// Package feature_extraction provides text vectorizers that turn raw
// documents into numeric feature matrices: bag-of-words counts and tf-idf
// weighting, composable inside a pipeline and tunable by search objects.
package feature_extraction

import (
	"gonum.org/v1/gonum/mat"
)

// Corpus adapts a slice of raw documents to the mat.Matrix fit contract so
// that vectorizers can stand at the front of a pipeline and cross-validation
// can split documents with the same code it uses for numeric matrices. The
// matrix view is (n_docs, 1) with the document index as the only value.
type Corpus struct {
	docs []string
}

// NewCorpus wraps raw documents for use as pipeline input.
func NewCorpus(docs []string) *Corpus {
	return &Corpus{docs: docs}
}

// Docs returns the underlying documents.
func (c *Corpus) Docs() []string {
	return c.docs
}

// Dims implements mat.Matrix.
func (c *Corpus) Dims() (r, cols int) {
	return len(c.docs), 1
}

// At implements mat.Matrix; the value is the document index.
func (c *Corpus) At(i, _ int) float64 {
	return float64(i)
}

// T implements mat.Matrix.
func (c *Corpus) T() mat.Matrix {
	return mat.Transpose{Matrix: c}
}

// SubsetRows returns a Corpus holding the documents at the given indices.
// Cross-validation splitters use this to cut train and test folds.
func (c *Corpus) SubsetRows(indices []int) mat.Matrix {
	subset := make([]string, len(indices))
	for i, idx := range indices {
		subset[i] = c.docs[idx]
	}
	return &Corpus{docs: subset}
}
