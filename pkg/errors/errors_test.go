package errors

import (
	"strings"
	"testing"
)

func TestNotFittedError(t *testing.T) {
	err := NewNotFittedError("GridSearchCV", "BestParams")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var nfe *NotFittedError
	if !As(err, &nfe) {
		t.Fatalf("expected NotFittedError, got %T", err)
	}
	if nfe.ModelName != "GridSearchCV" {
		t.Errorf("ModelName = %q, want GridSearchCV", nfe.ModelName)
	}
	if !strings.Contains(err.Error(), "not fitted") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestDimensionError(t *testing.T) {
	err := NewDimensionError("StandardScaler.Transform", 64, 32, 1)

	var de *DimensionError
	if !As(err, &de) {
		t.Fatalf("expected DimensionError, got %T", err)
	}
	if de.Expected != 64 || de.Got != 32 {
		t.Errorf("Expected/Got = %d/%d, want 64/32", de.Expected, de.Got)
	}
	if !strings.Contains(err.Error(), "features") {
		t.Errorf("axis 1 should report features: %s", err.Error())
	}
}

func TestParamError(t *testing.T) {
	err := NewParamError("LogisticRegression", "n_leaves", "unknown parameter")

	var pe *ParamError
	if !As(err, &pe) {
		t.Fatalf("expected ParamError, got %T", err)
	}
	if pe.Param != "n_leaves" {
		t.Errorf("Param = %q, want n_leaves", pe.Param)
	}
}

func TestWarningHandler(t *testing.T) {
	var captured error
	old := warningHandler
	SetWarningHandler(func(w error) { captured = w })
	defer SetWarningHandler(old)

	w := NewConvergenceWarning("lbfgs", 100, "")
	Warn(w)

	if captured == nil {
		t.Fatal("warning handler was not invoked")
	}
	if !strings.Contains(captured.Error(), "lbfgs") {
		t.Errorf("unexpected warning: %s", captured.Error())
	}
}

func TestWrapPreservesType(t *testing.T) {
	base := NewNotFittedError("Pipeline", "Predict")
	wrapped := Wrap(base, "scoring candidate 3")

	var nfe *NotFittedError
	if !As(wrapped, &nfe) {
		t.Error("wrapping should preserve the underlying error type")
	}
}

func TestSafeExecuteRecoversPanic(t *testing.T) {
	err := SafeExecute("candidate fit", func() error {
		panic("index out of range")
	})
	if err == nil {
		t.Fatal("expected error from panicking function")
	}

	var pe *PanicError
	if !As(err, &pe) {
		t.Fatalf("expected PanicError, got %T", err)
	}
	if pe.Operation != "candidate fit" {
		t.Errorf("Operation = %q, want 'candidate fit'", pe.Operation)
	}
	if pe.StackTrace == "" {
		t.Error("stack trace should be captured")
	}
}

func TestCheckNumericalStability(t *testing.T) {
	if err := CheckNumericalStability("tfidf", []float64{1, 2, 3}, 0); err != nil {
		t.Errorf("finite values should pass: %v", err)
	}

	nan := []float64{1, 0, 3}
	nan[1] = nan[1] / nan[1] // NaN
	if err := CheckNumericalStability("tfidf", nan, 0); err == nil {
		t.Error("NaN should be detected")
	}
}

func TestSafeDivide(t *testing.T) {
	if got := SafeDivide(10, 2); got != 5 {
		t.Errorf("SafeDivide(10,2) = %f, want 5", got)
	}
	if got := SafeDivide(10, 0); got != 0 {
		t.Errorf("SafeDivide(10,0) = %f, want 0", got)
	}
}
