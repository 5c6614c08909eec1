// Package log defines standard attribute keys for machine learning operations.
//
// The keys follow a hierarchical naming convention (e.g. "model.name",
// "data.samples") so logs can be filtered by category.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of machine learning model.
	// Examples: "KNeighborsRegressor", "GradientRegression", "RegressionTree"
	ModelNameKey = "model.name"

	// EstimatorIDKey is a unique identifier for one model instance.
	// Estimators assign a UUID at construction.
	EstimatorIDKey = "estimator.id"

	// OperationKey specifies the machine learning operation being performed.
	// Standard values: "fit", "predict", "score"
	OperationKey = "ml.operation"

	// ComponentKey identifies which component or package is performing the operation.
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of model lifecycle.
	PhaseKey = "ml.phase"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in the dataset.
	FeaturesKey = "data.features"

	// TargetsKey indicates the number of target columns.
	TargetsKey = "data.targets"

	// BatchSizeKey indicates the size of processing batches.
	BatchSizeKey = "data.batch_size"
)

// Performance Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// LossKey records loss value during training or evaluation.
	LossKey = "metrics.loss"

	// R2ScoreKey records R² coefficient of determination for regression.
	R2ScoreKey = "metrics.r2_score"

	// MSEKey records mean squared error for regression.
	MSEKey = "metrics.mse"

	// EpochKey records the current epoch number during training.
	EpochKey = "training.epoch"
)

// Spatial index context
const (
	// NeighborsKey records the requested neighbor count K.
	NeighborsKey = "knn.k"

	// TreeDepthKey records the depth of a built KD-tree.
	TreeDepthKey = "knn.tree_depth"

	// WeightingKey records the neighbor weighting policy.
	WeightingKey = "knn.weighting"
)

// Prediction and Output Context
const (
	// PredsKey indicates the number of predictions made.
	PredsKey = "preds.count"
)

// Error and Warning Context
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	ErrorCodeKey = "error.code"

	// ErrorTypeKey categorizes the type of error encountered.
	ErrorTypeKey = "error.type"

	// SuggestionKey provides helpful suggestions for resolving issues.
	SuggestionKey = "error.suggestion"
)

// Hyperparameters and Configuration
const (
	// HyperParamsKey contains model hyperparameters as a structured object.
	HyperParamsKey = "model.hyperparams"

	// LearningRateKey records the learning rate for gradient-based algorithms.
	LearningRateKey = "hyperparams.learning_rate"

	// RandomSeedKey records the random seed for reproducibility.
	RandomSeedKey = "config.random_seed"
)

// Standard attribute value constants for common operations.
const (
	// Standard ML operations
	OperationFit     = "fit"
	OperationPredict = "predict"
	OperationScore   = "score"

	// Standard ML phases
	PhaseTraining  = "training"
	PhaseInference = "inference"

	// Standard error codes
	ErrorNotFitted         = "NOT_FITTED"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorInputMismatch     = "INPUT_MISMATCH"
	ErrorEmptyData         = "EMPTY_DATA"
	ErrorInvalidInput      = "INVALID_INPUT"
	ErrorConvergence       = "CONVERGENCE_FAILURE"
)
