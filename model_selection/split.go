// Package model_selection provides cross-validation splitters, parameter
// grids and distributions, and the search objects that tune estimators over
// them.
package model_selection

import (
	randv2 "math/rand/v2"

	"gonum.org/v1/gonum/mat"

	scierr "github.com/parsearch/parsearch/pkg/errors"
)

// Fold holds the train and test indices of one cross-validation split.
type Fold struct {
	TrainIndices []int
	TestIndices  []int
}

// RowSubsetter is implemented by matrix types that can extract rows
// themselves, e.g. a raw-document corpus that has no numeric columns yet.
type RowSubsetter interface {
	SubsetRows(indices []int) mat.Matrix
}

// KFold splits samples into k consecutive folds, optionally shuffled.
type KFold struct {
	NSplits int
	Shuffle bool
	Seed    uint64
}

// NewKFold creates a KFold splitter with shuffling enabled.
func NewKFold(nSplits int, seed uint64) *KFold {
	return &KFold{NSplits: nSplits, Shuffle: true, Seed: seed}
}

// Split returns the folds for n samples.
func (k *KFold) Split(nSamples int) ([]Fold, error) {
	if k.NSplits < 2 {
		return nil, scierr.NewValidationError("n_splits", "must be at least 2", k.NSplits)
	}
	if nSamples < k.NSplits {
		return nil, scierr.NewValueError("KFold.Split", "more folds than samples")
	}

	indices := make([]int, nSamples)
	for i := range indices {
		indices[i] = i
	}
	if k.Shuffle {
		rng := randv2.New(randv2.NewPCG(k.Seed, k.Seed))
		rng.Shuffle(nSamples, func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	// The first nSamples % NSplits folds get one extra sample.
	foldSizes := make([]int, k.NSplits)
	for i := range foldSizes {
		foldSizes[i] = nSamples / k.NSplits
		if i < nSamples%k.NSplits {
			foldSizes[i]++
		}
	}

	folds := make([]Fold, k.NSplits)
	start := 0
	for f := 0; f < k.NSplits; f++ {
		end := start + foldSizes[f]
		test := make([]int, end-start)
		copy(test, indices[start:end])

		train := make([]int, 0, nSamples-len(test))
		train = append(train, indices[:start]...)
		train = append(train, indices[end:]...)

		folds[f] = Fold{TrainIndices: train, TestIndices: test}
		start = end
	}
	return folds, nil
}

// StratifiedKFold splits so that each fold keeps the class proportions of the
// full label vector, within one sample per class.
type StratifiedKFold struct {
	NSplits int
	Shuffle bool
	Seed    uint64
}

// NewStratifiedKFold creates a StratifiedKFold splitter with shuffling
// enabled.
func NewStratifiedKFold(nSplits int, seed uint64) *StratifiedKFold {
	return &StratifiedKFold{NSplits: nSplits, Shuffle: true, Seed: seed}
}

// Split returns the folds for the given label column.
func (s *StratifiedKFold) Split(y mat.Matrix) ([]Fold, error) {
	if s.NSplits < 2 {
		return nil, scierr.NewValidationError("n_splits", "must be at least 2", s.NSplits)
	}
	nSamples, cols := y.Dims()
	if cols != 1 {
		return nil, scierr.NewValueError("StratifiedKFold.Split", "labels must be a column vector")
	}
	if nSamples < s.NSplits {
		return nil, scierr.NewValueError("StratifiedKFold.Split", "more folds than samples")
	}

	// Group sample indices per class, preserving input order.
	byClass := make(map[int][]int)
	classOrder := make([]int, 0)
	for i := 0; i < nSamples; i++ {
		label := int(y.At(i, 0))
		if _, ok := byClass[label]; !ok {
			classOrder = append(classOrder, label)
		}
		byClass[label] = append(byClass[label], i)
	}
	for i := 1; i < len(classOrder); i++ {
		for j := i; j > 0 && classOrder[j-1] > classOrder[j]; j-- {
			classOrder[j-1], classOrder[j] = classOrder[j], classOrder[j-1]
		}
	}

	rng := randv2.New(randv2.NewPCG(s.Seed, s.Seed))
	testSets := make([][]int, s.NSplits)

	for _, class := range classOrder {
		indices := byClass[class]
		if len(indices) < s.NSplits {
			return nil, scierr.NewValueError("StratifiedKFold.Split",
				"every class needs at least n_splits samples")
		}
		if s.Shuffle {
			rng.Shuffle(len(indices), func(i, j int) {
				indices[i], indices[j] = indices[j], indices[i]
			})
		}
		// Deal this class round-robin across folds.
		for pos, idx := range indices {
			f := pos % s.NSplits
			testSets[f] = append(testSets[f], idx)
		}
	}

	folds := make([]Fold, s.NSplits)
	for f := 0; f < s.NSplits; f++ {
		inTest := make([]bool, nSamples)
		for _, idx := range testSets[f] {
			inTest[idx] = true
		}
		train := make([]int, 0, nSamples-len(testSets[f]))
		for i := 0; i < nSamples; i++ {
			if !inTest[i] {
				train = append(train, i)
			}
		}
		folds[f] = Fold{TrainIndices: train, TestIndices: testSets[f]}
	}
	return folds, nil
}

// TrainTestSplit shuffles and splits X and y, putting testSize (a fraction in
// (0,1)) of the samples into the test set.
func TrainTestSplit(X, y mat.Matrix, testSize float64, seed uint64) (XTrain, XTest, yTrain, yTest mat.Matrix, err error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, nil, nil, scierr.NewValidationError("test_size", "must be in (0, 1)", testSize)
	}
	nSamples, _ := X.Dims()
	yRows, _ := y.Dims()
	if nSamples != yRows {
		return nil, nil, nil, nil, scierr.NewDimensionError("TrainTestSplit", nSamples, yRows, 0)
	}

	indices := make([]int, nSamples)
	for i := range indices {
		indices[i] = i
	}
	rng := randv2.New(randv2.NewPCG(seed, seed))
	rng.Shuffle(nSamples, func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})

	nTest := int(float64(nSamples) * testSize)
	if nTest == 0 {
		nTest = 1
	}

	testIdx := indices[:nTest]
	trainIdx := indices[nTest:]
	return SubsetRows(X, trainIdx), SubsetRows(X, testIdx),
		SubsetRows(y, trainIdx), SubsetRows(y, testIdx), nil
}

// SubsetRows extracts the given rows of m. Matrix types that implement
// RowSubsetter extract themselves; anything else is copied densely.
func SubsetRows(m mat.Matrix, indices []int) mat.Matrix {
	if sub, ok := m.(RowSubsetter); ok {
		return sub.SubsetRows(indices)
	}

	_, cols := m.Dims()
	out := mat.NewDense(len(indices), cols, nil)
	for i, idx := range indices {
		for j := 0; j < cols; j++ {
			out.Set(i, j, m.At(idx, j))
		}
	}
	return out
}
