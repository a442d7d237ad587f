// Package datasets provides the built-in example datasets used by the search
// benchmarks. Loaders are deterministic: the same seed always produces the
// same samples, so benchmark runs and tests are reproducible without
// downloading anything.
package datasets

import (
	"gonum.org/v1/gonum/mat"
)

// Dataset is a tabular dataset: a feature matrix plus an integer label per row.
type Dataset struct {
	// Data is the (n_samples, n_features) feature matrix.
	Data *mat.Dense

	// Target holds one class label per sample.
	Target []int

	// FeatureNames names each column of Data.
	FeatureNames []string

	// TargetNames names each class label.
	TargetNames []string
}

// NSamples returns the number of samples.
func (d *Dataset) NSamples() int {
	r, _ := d.Data.Dims()
	return r
}

// NFeatures returns the number of features.
func (d *Dataset) NFeatures() int {
	_, c := d.Data.Dims()
	return c
}

// TargetMatrix returns the labels as an (n_samples, 1) column matrix, the
// shape estimators consume.
func (d *Dataset) TargetMatrix() *mat.Dense {
	y := mat.NewDense(len(d.Target), 1, nil)
	for i, t := range d.Target {
		y.Set(i, 0, float64(t))
	}
	return y
}

// TextDataset is a corpus of raw documents with an integer label per document.
type TextDataset struct {
	// Docs holds the raw document texts.
	Docs []string

	// Target holds one class label per document.
	Target []int

	// TargetNames names each class label.
	TargetNames []string
}

// NSamples returns the number of documents.
func (d *TextDataset) NSamples() int {
	return len(d.Docs)
}

// TargetMatrix returns the labels as an (n_samples, 1) column matrix.
func (d *TextDataset) TargetMatrix() *mat.Dense {
	y := mat.NewDense(len(d.Target), 1, nil)
	for i, t := range d.Target {
		y.Set(i, 0, float64(t))
	}
	return y
}
