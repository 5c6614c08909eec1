package linear

// Default hyperparameters.
const (
	DefaultBatchSize    = 8
	DefaultEpochs       = 10
	DefaultLearningRate = 0.15
)

// Option configures a GradientRegression.
type Option func(*GradientRegression)

// WithBatchSize sets the mini-batch size. Non-positive values select the default.
func WithBatchSize(n int) Option {
	return func(gr *GradientRegression) {
		if n <= 0 {
			n = DefaultBatchSize
		}
		gr.batchSize = n
	}
}

// WithEpochs sets the number of passes over the data. Non-positive values select the default.
func WithEpochs(n int) Option {
	return func(gr *GradientRegression) {
		if n <= 0 {
			n = DefaultEpochs
		}
		gr.epochs = n
	}
}

// WithLearningRate sets the step size. Non-positive values select the default.
func WithLearningRate(lr float64) Option {
	return func(gr *GradientRegression) {
		if lr <= 0 {
			lr = DefaultLearningRate
		}
		gr.learningRate = lr
	}
}
