// Package parsearch provides parallel hyper-parameter search for Go machine
// learning models, with a scikit-learn-like estimator API.
//
// The library covers the full tuning loop: deterministic dataset generators,
// preprocessing and text feature extraction, classifiers with settable
// hyper-parameters, pipelines, cross-validation splitters, and search objects
// that evaluate candidates across a worker pool.
//
// # Quick Start
//
// Grid search over a logistic regression:
//
//	package main
//
//	import (
//	    "context"
//	    "fmt"
//	    "log"
//
//	    "github.com/parsearch/parsearch/datasets"
//	    "github.com/parsearch/parsearch/linear_model"
//	    "github.com/parsearch/parsearch/model_selection"
//	)
//
//	func main() {
//	    digits, err := datasets.LoadDigits()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    grid := model_selection.ParamGrid{
//	        "C":       {0.1, 1.0, 10.0},
//	        "penalty": {"l2", "none"},
//	    }
//	    search := model_selection.NewGridSearchCV(
//	        linear_model.NewLogisticRegression(), grid,
//	        model_selection.WithFolds(3),
//	    )
//	    if err := search.Fit(context.Background(), digits.Data, digits.TargetMatrix()); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    best, _ := search.BestParams()
//	    score, _ := search.BestScore()
//	    fmt.Println(best, score)
//	}
//
// Candidates are evaluated concurrently through core/parallel.Client; pass
// model_selection.WithClient to control the worker pool. For the same seed,
// parallel and sequential runs produce identical results.
//
// # Packages
//
//   - model_selection: splitters, parameter grids and distributions,
//     GridSearchCV, RandomizedSearchCV, BayesSearchCV
//   - pipeline: transformer chains tunable via "step__param" names
//   - linear_model, naive_bayes: classifiers implementing the estimator contract
//   - feature_extraction: CountVectorizer and TfidfTransformer for raw text
//   - preprocessing: feature scalers
//   - datasets: deterministic digits and newsgroups generators
//   - metrics: accuracy, precision, recall, F1, confusion matrix
//   - core/model: estimator interfaces, Params, fitted-state management
//   - core/parallel: bounded worker pool used by the searches
//
// The cmd/parsearch command benchmarks grid against randomized search and
// sequential against parallel execution on the built-in datasets.
package parsearch
