package neighbors

// DefaultK is the neighbor count used when none (or a non-positive one) is given.
const DefaultK = 5

// Option configures a KNeighborsRegressor.
type Option func(*KNeighborsRegressor)

// WithK sets the number of neighbors. Non-positive values select DefaultK.
func WithK(k int) Option {
	return func(m *KNeighborsRegressor) {
		if k <= 0 {
			k = DefaultK
		}
		m.k = k
	}
}

// WithWeighting sets how neighbor targets are combined into a prediction.
func WithWeighting(p WeightingPolicy) Option {
	return func(m *KNeighborsRegressor) {
		m.weighting = p
	}
}

// WithNJobs sets the number of goroutines used for batch prediction.
// Non-positive values use all CPUs.
func WithNJobs(n int) Option {
	return func(m *KNeighborsRegressor) {
		m.nJobs = n
	}
}
