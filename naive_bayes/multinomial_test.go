package naive_bayes

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	scierr "github.com/parsearch/parsearch/pkg/errors"
)

func TestMultinomialNBBasicFit(t *testing.T) {
	// Word-count features, three per document.
	X := mat.NewDense(6, 3, []float64{
		2, 1, 0,
		1, 1, 1,
		1, 0, 1,
		0, 1, 2,
		0, 2, 1,
		1, 2, 2,
	})
	y := mat.NewDense(6, 1, []float64{0, 0, 0, 1, 1, 1})

	nb := NewMultinomialNB()
	if err := nb.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if !nb.state.IsFitted() {
		t.Error("Model should be fitted after Fit()")
	}

	classes := nb.Classes()
	if len(classes) != 2 || classes[0] != 0 || classes[1] != 1 {
		t.Errorf("Classes = %v, want [0 1]", classes)
	}
}

func TestMultinomialNBPartialFit(t *testing.T) {
	nb := NewMultinomialNB()

	X1 := mat.NewDense(3, 3, []float64{
		2, 1, 0,
		1, 1, 1,
		1, 0, 1,
	})
	y1 := mat.NewDense(3, 1, []float64{0, 0, 0})

	// The full class set must be declared up front.
	if err := nb.PartialFit(X1, y1, []int{0, 1}); err != nil {
		t.Fatalf("First PartialFit failed: %v", err)
	}

	X2 := mat.NewDense(3, 3, []float64{
		0, 1, 2,
		0, 2, 1,
		1, 2, 2,
	})
	y2 := mat.NewDense(3, 1, []float64{1, 1, 1})

	if err := nb.PartialFit(X2, y2, nil); err != nil {
		t.Fatalf("Second PartialFit failed: %v", err)
	}

	if nb.NSamplesSeen() != 6 {
		t.Errorf("Expected 6 samples seen, got %d", nb.NSamplesSeen())
	}
}

func TestMultinomialNBPredict(t *testing.T) {
	XTrain := mat.NewDense(6, 3, []float64{
		3, 0, 0,
		2, 1, 0,
		1, 0, 0,
		0, 0, 3,
		0, 1, 2,
		0, 0, 1,
	})
	yTrain := mat.NewDense(6, 1, []float64{0, 0, 0, 1, 1, 1})

	nb := NewMultinomialNB()
	if err := nb.Fit(XTrain, yTrain); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	XTest := mat.NewDense(2, 3, []float64{
		2, 0, 0,
		0, 0, 2,
	})

	predictions, err := nb.Predict(XTest)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	if predictions.At(0, 0) != 0 {
		t.Errorf("First sample should be class 0, got %f", predictions.At(0, 0))
	}
	if predictions.At(1, 0) != 1 {
		t.Errorf("Second sample should be class 1, got %f", predictions.At(1, 0))
	}
}

func TestMultinomialNBPredictProba(t *testing.T) {
	XTrain := mat.NewDense(6, 3, []float64{
		3, 0, 0,
		2, 1, 0,
		1, 0, 0,
		0, 0, 3,
		0, 1, 2,
		0, 0, 1,
	})
	yTrain := mat.NewDense(6, 1, []float64{0, 0, 0, 1, 1, 1})

	nb := NewMultinomialNB()
	if err := nb.Fit(XTrain, yTrain); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	XTest := mat.NewDense(2, 3, []float64{
		2, 0, 0,
		0, 0, 2,
	})

	proba, err := nb.PredictProba(XTest)
	if err != nil {
		t.Fatalf("PredictProba failed: %v", err)
	}

	rows, cols := proba.Dims()
	if rows != 2 || cols != 2 {
		t.Fatalf("Proba shape should be (2, 2), got (%d, %d)", rows, cols)
	}

	for i := 0; i < rows; i++ {
		sum := 0.0
		for j := 0; j < cols; j++ {
			p := proba.At(i, j)
			if p < 0 || p > 1 {
				t.Errorf("Probability should be in [0, 1], got %f", p)
			}
			sum += p
		}
		if math.Abs(sum-1.0) > 1e-10 {
			t.Errorf("Probabilities should sum to 1, got %f", sum)
		}
	}

	if proba.At(0, 0) <= proba.At(0, 1) {
		t.Error("First sample should favor class 0")
	}
	if proba.At(1, 1) <= proba.At(1, 0) {
		t.Error("Second sample should favor class 1")
	}
}

func TestMultinomialNBPredictLogProba(t *testing.T) {
	XTrain := mat.NewDense(4, 2, []float64{
		2, 0,
		1, 1,
		0, 2,
		1, 1,
	})
	yTrain := mat.NewDense(4, 1, []float64{0, 0, 1, 1})

	nb := NewMultinomialNB()
	if err := nb.Fit(XTrain, yTrain); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	logProba, err := nb.PredictLogProba(mat.NewDense(1, 2, []float64{1, 1}))
	if err != nil {
		t.Fatalf("PredictLogProba failed: %v", err)
	}

	rows, cols := logProba.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if logProba.At(i, j) > 0 {
				t.Errorf("Log probability should be <= 0, got %f", logProba.At(i, j))
			}
		}
	}

	sum := 0.0
	for j := 0; j < cols; j++ {
		sum += math.Exp(logProba.At(0, j))
	}
	if math.Abs(sum-1.0) > 1e-10 {
		t.Errorf("Exp of log probabilities should sum to 1, got %f", sum)
	}
}

func TestMultinomialNBWithAlpha(t *testing.T) {
	// Zero counts for the middle feature in both classes.
	XTrain := mat.NewDense(4, 3, []float64{
		2, 0, 0,
		1, 0, 0,
		0, 0, 2,
		0, 0, 1,
	})
	yTrain := mat.NewDense(4, 1, []float64{0, 0, 1, 1})

	for _, alpha := range []float64{0.5, 1.0, 10.0} {
		nb := NewMultinomialNB(WithAlpha(alpha))
		if err := nb.Fit(XTrain, yTrain); err != nil {
			t.Fatalf("Fit with alpha=%f failed: %v", alpha, err)
		}

		proba, err := nb.PredictProba(mat.NewDense(1, 3, []float64{1, 1, 1}))
		if err != nil {
			t.Fatalf("PredictProba with alpha=%f failed: %v", alpha, err)
		}
		for j := 0; j < 2; j++ {
			p := proba.At(0, j)
			if math.IsNaN(p) || math.IsInf(p, 0) {
				t.Errorf("With alpha=%f, got invalid probability: %f", alpha, p)
			}
		}
	}
}

func TestMultinomialNBScore(t *testing.T) {
	XTrain := mat.NewDense(6, 2, []float64{
		5, 0,
		4, 1,
		3, 0,
		0, 5,
		1, 4,
		0, 3,
	})
	yTrain := mat.NewDense(6, 1, []float64{0, 0, 0, 1, 1, 1})

	nb := NewMultinomialNB()
	if err := nb.Fit(XTrain, yTrain); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	score, err := nb.Score(XTrain, yTrain)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if score < 0.9 {
		t.Errorf("Score should be high for separable data, got %f", score)
	}
}

func TestMultinomialNBInvalidInput(t *testing.T) {
	nb := NewMultinomialNB()

	XInvalid := mat.NewDense(2, 2, []float64{
		1, -1,
		2, 3,
	})
	y := mat.NewDense(2, 1, []float64{0, 1})

	if err := nb.Fit(XInvalid, y); err == nil {
		t.Error("Fit should fail with negative values")
	}

	nbUnfitted := NewMultinomialNB()
	_, err := nbUnfitted.Predict(mat.NewDense(2, 2, []float64{1, 0, 0, 1}))
	var nfe *scierr.NotFittedError
	if !scierr.As(err, &nfe) {
		t.Errorf("expected NotFittedError, got %v", err)
	}
}

func TestMultinomialNBFitPrior(t *testing.T) {
	// 4 samples of class 0, 1 of class 1.
	XTrain := mat.NewDense(5, 2, []float64{
		2, 1,
		1, 2,
		1, 1,
		1, 0,
		0, 1,
	})
	yTrain := mat.NewDense(5, 1, []float64{0, 0, 0, 0, 1})

	nbWithPrior := NewMultinomialNB()
	if err := nbWithPrior.Fit(XTrain, yTrain); err != nil {
		t.Fatalf("Fit with prior failed: %v", err)
	}

	nbWithoutPrior := NewMultinomialNB(WithFitPrior(false))
	if err := nbWithoutPrior.Fit(XTrain, yTrain); err != nil {
		t.Fatalf("Fit without prior failed: %v", err)
	}

	XTest := mat.NewDense(1, 2, []float64{1, 1})
	probaWithPrior, _ := nbWithPrior.PredictProba(XTest)
	probaWithoutPrior, _ := nbWithoutPrior.PredictProba(XTest)

	diff1 := math.Abs(probaWithPrior.At(0, 0) - probaWithPrior.At(0, 1))
	diff2 := math.Abs(probaWithoutPrior.At(0, 0) - probaWithoutPrior.At(0, 1))
	if diff1 <= diff2 {
		t.Error("Learned prior should skew probabilities on imbalanced data")
	}
}

func TestMultinomialNBSetParams(t *testing.T) {
	nb := NewMultinomialNB()
	if err := nb.SetParams(map[string]interface{}{"alpha": 0.5, "fit_prior": false}); err != nil {
		t.Fatalf("SetParams failed: %v", err)
	}
	if nb.alpha != 0.5 || nb.fitPrior {
		t.Error("SetParams did not apply values")
	}

	if err := nb.SetParams(map[string]interface{}{"gamma": 1.0}); err == nil {
		t.Error("unknown parameter should fail")
	}
}

func TestMultinomialNBCloneIsUnfitted(t *testing.T) {
	X := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	y := mat.NewDense(2, 1, []float64{0, 1})

	nb := NewMultinomialNB(WithAlpha(2.0))
	if err := nb.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	clone := nb.Clone().(*MultinomialNB)
	if clone.state.IsFitted() {
		t.Error("clone must be unfitted")
	}
	if clone.alpha != 2.0 {
		t.Error("clone must keep hyper-parameters")
	}
}
