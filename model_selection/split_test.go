package model_selection

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestKFoldPartitionsAllSamples(t *testing.T) {
	kf := NewKFold(4, 1)
	folds, err := kf.Split(10)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if len(folds) != 4 {
		t.Fatalf("got %d folds, want 4", len(folds))
	}

	seen := make(map[int]int)
	for _, fold := range folds {
		for _, idx := range fold.TestIndices {
			seen[idx]++
		}
		if len(fold.TrainIndices)+len(fold.TestIndices) != 10 {
			t.Error("train and test must partition the samples")
		}
	}
	if len(seen) != 10 {
		t.Errorf("test sets cover %d samples, want 10", len(seen))
	}
	for idx, count := range seen {
		if count != 1 {
			t.Errorf("sample %d appears in %d test sets", idx, count)
		}
	}
}

func TestKFoldSizesDifferByAtMostOne(t *testing.T) {
	kf := NewKFold(3, 7)
	folds, err := kf.Split(10)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	minSize, maxSize := 10, 0
	for _, fold := range folds {
		if len(fold.TestIndices) < minSize {
			minSize = len(fold.TestIndices)
		}
		if len(fold.TestIndices) > maxSize {
			maxSize = len(fold.TestIndices)
		}
	}
	if maxSize-minSize > 1 {
		t.Errorf("fold sizes range from %d to %d", minSize, maxSize)
	}
}

func TestKFoldDeterministicWithSeed(t *testing.T) {
	first, err := NewKFold(3, 42).Split(9)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	second, err := NewKFold(3, 42).Split(9)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	for f := range first {
		for i := range first[f].TestIndices {
			if first[f].TestIndices[i] != second[f].TestIndices[i] {
				t.Fatal("same seed must give identical folds")
			}
		}
	}
}

func TestKFoldTooFewSamples(t *testing.T) {
	if _, err := NewKFold(5, 1).Split(3); err == nil {
		t.Error("more folds than samples should fail")
	}
}

func TestStratifiedKFoldPreservesProportions(t *testing.T) {
	// 12 samples of class 0, 6 of class 1.
	labels := make([]float64, 18)
	for i := 12; i < 18; i++ {
		labels[i] = 1
	}
	y := mat.NewDense(18, 1, labels)

	folds, err := NewStratifiedKFold(3, 5).Split(y)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	for f, fold := range folds {
		count0, count1 := 0, 0
		for _, idx := range fold.TestIndices {
			if y.At(idx, 0) == 0 {
				count0++
			} else {
				count1++
			}
		}
		// Exact proportions: 4 of class 0 and 2 of class 1 per fold.
		if count0 != 4 || count1 != 2 {
			t.Errorf("fold %d has %d/%d samples per class, want 4/2", f, count0, count1)
		}
	}
}

func TestStratifiedKFoldUnevenClasses(t *testing.T) {
	// 7 samples of class 0, 5 of class 1: per-fold counts may differ by one.
	labels := make([]float64, 12)
	for i := 7; i < 12; i++ {
		labels[i] = 1
	}
	y := mat.NewDense(12, 1, labels)

	folds, err := NewStratifiedKFold(2, 3).Split(y)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	for f, fold := range folds {
		count0 := 0
		for _, idx := range fold.TestIndices {
			if y.At(idx, 0) == 0 {
				count0++
			}
		}
		if count0 < 3 || count0 > 4 {
			t.Errorf("fold %d has %d class-0 samples, want 3 or 4", f, count0)
		}
	}
}

func TestStratifiedKFoldClassTooSmall(t *testing.T) {
	y := mat.NewDense(5, 1, []float64{0, 0, 0, 0, 1})
	if _, err := NewStratifiedKFold(3, 1).Split(y); err == nil {
		t.Error("class with fewer samples than folds should fail")
	}
}

func TestTrainTestSplit(t *testing.T) {
	X := mat.NewDense(10, 2, nil)
	for i := 0; i < 10; i++ {
		X.Set(i, 0, float64(i))
	}
	y := mat.NewDense(10, 1, nil)
	for i := 0; i < 10; i++ {
		y.Set(i, 0, float64(i))
	}

	XTrain, XTest, yTrain, yTest, err := TrainTestSplit(X, y, 0.3, 9)
	if err != nil {
		t.Fatalf("TrainTestSplit failed: %v", err)
	}

	trainRows, _ := XTrain.Dims()
	testRows, _ := XTest.Dims()
	if trainRows != 7 || testRows != 3 {
		t.Errorf("split sizes = %d/%d, want 7/3", trainRows, testRows)
	}

	// X and y rows must stay aligned after shuffling.
	for i := 0; i < trainRows; i++ {
		if XTrain.At(i, 0) != yTrain.At(i, 0) {
			t.Fatal("train features and labels out of alignment")
		}
	}
	for i := 0; i < testRows; i++ {
		if XTest.At(i, 0) != yTest.At(i, 0) {
			t.Fatal("test features and labels out of alignment")
		}
	}
}

func TestTrainTestSplitInvalidSize(t *testing.T) {
	X := mat.NewDense(4, 1, nil)
	y := mat.NewDense(4, 1, nil)
	if _, _, _, _, err := TrainTestSplit(X, y, 1.5, 0); err == nil {
		t.Error("test_size outside (0,1) should fail")
	}
}

func TestSubsetRowsDense(t *testing.T) {
	m := mat.NewDense(4, 2, []float64{
		0, 1,
		2, 3,
		4, 5,
		6, 7,
	})

	sub := SubsetRows(m, []int{2, 0})
	if sub.At(0, 0) != 4 || sub.At(1, 1) != 1 {
		t.Errorf("SubsetRows picked wrong rows: %v", mat.Formatted(sub))
	}
}
