// Package model holds the interfaces and fitted-state handling shared by every estimator.
package model

import "gonum.org/v1/gonum/mat"

// Fitter is implemented by models that learn from X and y.
type Fitter interface {
	// Fit trains the model on the given data.
	Fit(X, y mat.Matrix) error
}

// Predictor is implemented by models that produce predictions.
type Predictor interface {
	// Predict returns one prediction row per row of X.
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Model is a supervised model.
type Model interface {
	Fitter
	Predictor
}
