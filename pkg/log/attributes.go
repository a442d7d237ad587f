// Standard attribute keys for hyper-parameter search logging. Keys follow a
// hierarchical naming convention ("search.candidates", "data.samples") so
// that runs can be filtered and compared in log analysis.

package log

// Estimator and operation context.
const (
	// EstimatorKey identifies the estimator or search object type.
	// Examples: "LogisticRegression", "GridSearchCV", "Pipeline"
	EstimatorKey = "estimator.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "transform", "score", "search"
	OperationKey = "ml.operation"
)

// Data shape.
const (
	// SamplesKey is the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey is the number of features (columns) in the dataset.
	FeaturesKey = "data.features"

	// ClassesKey is the number of distinct target classes.
	ClassesKey = "data.classes"
)

// Search run context.
const (
	// CandidatesKey is the number of parameter combinations evaluated.
	CandidatesKey = "search.candidates"

	// FoldsKey is the number of cross-validation folds.
	FoldsKey = "search.folds"

	// WorkersKey is the size of the parallel worker pool.
	WorkersKey = "search.workers"

	// BestScoreKey is the best mean cross-validation score found.
	BestScoreKey = "search.best_score"

	// SeedKey is the random seed used for sampling and shuffling.
	SeedKey = "search.seed"
)

// Performance.
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// FitTimeMsKey records the cumulative fit time across candidates.
	FitTimeMsKey = "perf.fit_time_ms"

	// AccuracyKey records accuracy for evaluation operations.
	AccuracyKey = "metrics.accuracy"
)
