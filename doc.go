// Package gomachine is a small collection of regressors for Go built on gonum
// matrices.
//
// The central estimator is a k-nearest-neighbor regressor backed by a KD-tree.
// Predictions are a weighted sum of the K nearest training targets, where the
// weights come from a pluggable policy (softmax over distances by default).
// Sibling estimators share the same Fit/Predict/Score surface:
//
//   - neighbors: KD-tree construction, exact k-nearest search, KNeighborsRegressor
//   - linear: mini-batch gradient descent linear regression without intercept
//   - neural: two-layer feed-forward network trained with momentum
//   - tree: multiway regression tree over discrete feature values
//   - preprocessing: StandardScaler, MinMaxScaler and a scaler/regressor Pipeline
//   - metrics: MSE, RMSE, MAE, MAPE, R², explained variance
//   - config: YAML estimator configuration
//   - core/model, core/parallel: shared state handling and worker helpers
//
// # Quick Start
//
//	X := mat.NewDense(4, 1, []float64{0, 1, 2, 10})
//	y := mat.NewDense(4, 1, []float64{0, 1, 2, 10})
//
//	knn := neighbors.NewKNeighborsRegressor(neighbors.WithK(2))
//	if err := knn.Fit(X, y); err != nil {
//	    log.Fatal(err)
//	}
//	pred, err := knn.Predict(mat.NewDense(1, 1, []float64{1.5}))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(pred.At(0, 0)) // 1.5
//
// # Command line
//
// The gomachine command fits a configured estimator on a CSV file and prints
// predictions for another:
//
//	gomachine fit-predict --train train.csv --test test.csv --plot pred.png
//
// # Errors and warnings
//
// Errors are typed (see pkg/errors) and carry stack traces via
// cockroachdb/errors. Non-fatal conditions such as asking for more neighbors
// than there are training points are reported through errors.Warn, which the
// command routes to zerolog.
package gomachine
