// Package neighbors implements k-nearest-neighbor regression backed by a KD-tree.
//
// BuildKDTree partitions the training points by the median along an axis that
// cycles with depth (axis = depth mod D). Query walks the tree toward the
// query point first and only descends into the far side of a split when the
// distance to the splitting plane is smaller than the worst neighbor kept so
// far, which is a lower bound on anything across the plane.
//
// The tree is immutable once built, so any number of goroutines may query it
// concurrently. KNeighborsRegressor wraps the tree with the Fit/Predict
// contract shared by the other estimators:
//
//	knn := neighbors.NewKNeighborsRegressor(neighbors.WithK(3))
//	if err := knn.Fit(X, y); err != nil {
//	    return err
//	}
//	pred, err := knn.Predict(XTest)
//
// The default weighting, SoftmaxDistance, applies softmax to the raw
// distances and therefore gives farther neighbors more weight. It is kept as
// the default for compatibility; SoftmaxNegativeDistance and InverseDistance
// favour closer neighbors.
package neighbors
