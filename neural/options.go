package neural

// Default hyperparameters.
const (
	DefaultMomentum     = 0.9
	DefaultLearningRate = 0.01
	DefaultEpochs       = 10
	DefaultHiddenSize   = 10
	DefaultOutputSize   = 1
)

// Option configures an MLPRegressor.
type Option func(*MLPRegressor)

// WithMomentum sets the factor applied to the previous weights on every update.
func WithMomentum(m float64) Option {
	return func(r *MLPRegressor) {
		if m <= 0 {
			m = DefaultMomentum
		}
		r.momentum = m
	}
}

// WithLearningRate sets the learning rate.
func WithLearningRate(lr float64) Option {
	return func(r *MLPRegressor) {
		if lr <= 0 {
			lr = DefaultLearningRate
		}
		r.learningRate = lr
	}
}

// WithEpochs sets the number of full-batch passes.
func WithEpochs(n int) Option {
	return func(r *MLPRegressor) {
		if n <= 0 {
			n = DefaultEpochs
		}
		r.epochs = n
	}
}

// WithHiddenSize sets the width of the hidden layer.
func WithHiddenSize(n int) Option {
	return func(r *MLPRegressor) {
		if n <= 0 {
			n = DefaultHiddenSize
		}
		r.hiddenSize = n
	}
}

// WithOutputSize sets the number of output columns.
func WithOutputSize(n int) Option {
	return func(r *MLPRegressor) {
		if n <= 0 {
			n = DefaultOutputSize
		}
		r.outputSize = n
	}
}

// WithActivation selects the output and hidden-derivative activation by
// name: "sigmoid", "relu" or "tanh". Unknown names select relu.
func WithActivation(name string) Option {
	return func(r *MLPRegressor) {
		r.activation = ActivationByName(name)
	}
}
