package tree

// Default hyperparameters.
const (
	DefaultMaxDepth   = 3
	DefaultMinSamples = 3
	DefaultMinCV      = 5.0
)

// Option configures a RegressionTree.
type Option func(*RegressionTree)

// WithMaxDepth sets the depth below which nodes may still split.
func WithMaxDepth(d int) Option {
	return func(t *RegressionTree) {
		if d <= 0 {
			d = DefaultMaxDepth
		}
		t.maxDepth = d
	}
}

// WithMinSamples sets the row count at or below which a node becomes a leaf.
func WithMinSamples(n int) Option {
	return func(t *RegressionTree) {
		if n <= 0 {
			n = DefaultMinSamples
		}
		t.minSamples = n
	}
}

// WithMinCV sets the coefficient of variation (percent) below which a node
// becomes a leaf.
func WithMinCV(cv float64) Option {
	return func(t *RegressionTree) {
		if cv <= 0 {
			cv = DefaultMinCV
		}
		t.minCV = cv
	}
}

// WithRandomState seeds the generator that routes feature values never seen
// during Fit.
func WithRandomState(seed uint64) Option {
	return func(t *RegressionTree) {
		t.randomState = seed
	}
}
