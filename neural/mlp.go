// Package neural provides a two-layer feed-forward network regressor trained
// by full-batch backpropagation.
package neural

import (
	"context"
	"sync"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gomachine/core/model"
	"github.com/YuminosukeSato/gomachine/metrics"
	"github.com/YuminosukeSato/gomachine/pkg/errors"
	"github.com/YuminosukeSato/gomachine/pkg/log"
)

// MLPRegressor is a network with one sigmoid hidden layer and a configurable
// output activation. Weights start at zero, so training is deterministic.
type MLPRegressor struct {
	state *model.StateManager
	mu    sync.RWMutex

	momentum     float64
	learningRate float64
	epochs       int
	hiddenSize   int
	outputSize   int
	activation   Activation

	w1     *mat.Dense // inputs × hidden
	w2     *mat.Dense // hidden × outputs
	losses []float64
	logger log.Logger
}

var (
	_ model.Regressor       = (*MLPRegressor)(nil)
	_ model.ParameterGetter = (*MLPRegressor)(nil)
)

var hiddenActivation = sigmoid{}

// NewMLPRegressor creates an unfitted network.
func NewMLPRegressor(opts ...Option) *MLPRegressor {
	r := &MLPRegressor{
		state:        model.NewStateManager("MLPRegressor"),
		momentum:     DefaultMomentum,
		learningRate: DefaultLearningRate,
		epochs:       DefaultEpochs,
		hiddenSize:   DefaultHiddenSize,
		outputSize:   DefaultOutputSize,
		activation:   relu{},
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = log.GetLoggerWithName("neural").With(
		log.ModelNameKey, r.state.Name(),
		log.EstimatorIDKey, r.state.ID(),
	)
	return r
}

// Fit trains the network on X (n×features) and y (n×outputSize).
//
// Each epoch runs one forward pass over all rows and updates
//
//	w2 = momentum·w2 + hiddenᵀ·(lr·δout)
//	w1 = momentum·w1 + Xᵀ·(lr·δhidden)
//
// where δout = (y − out) ⊙ sigmoid'(out) and δhidden = (δout·w2ᵀ) ⊙ act'(hidden).
func (r *MLPRegressor) Fit(X, y mat.Matrix) error {
	const op = "MLPRegressor.Fit"
	start := time.Now()

	rows, cols := X.Dims()
	ry, cy := y.Dims()
	if rows == 0 || cols == 0 {
		return errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if ry != rows {
		return errors.NewDimensionError(op, rows, ry, 0)
	}
	if cy != r.outputSize {
		return errors.NewDimensionError(op, r.outputSize, cy, 1)
	}

	Xd := mat.DenseCopyOf(X)
	yd := mat.DenseCopyOf(y)
	w1 := mat.NewDense(cols, r.hiddenSize, nil)
	w2 := mat.NewDense(r.hiddenSize, r.outputSize, nil)

	losses := make([]float64, 0, r.epochs)
	for epoch := 0; epoch < r.epochs; epoch++ {
		hidden, out := r.forward(Xd, w1, w2)

		var dOut mat.Dense
		dOut.Sub(yd, out)
		losses = append(losses, meanSquare(&dOut))
		dOut.Apply(func(i, j int, v float64) float64 {
			return v * hiddenActivation.Derivative(out.At(i, j))
		}, &dOut)

		var dHidden mat.Dense
		dHidden.Mul(&dOut, w2.T())
		dHidden.Apply(func(i, j int, v float64) float64 {
			return v * r.activation.Derivative(hidden.At(i, j))
		}, &dHidden)

		var g2, g1 mat.Dense
		g2.Mul(hidden.T(), &dOut)
		g1.Mul(Xd.T(), &dHidden)

		w2.Scale(r.momentum, w2)
		w2.Apply(func(i, j int, v float64) float64 { return v + r.learningRate*g2.At(i, j) }, w2)
		w1.Scale(r.momentum, w1)
		w1.Apply(func(i, j int, v float64) float64 { return v + r.learningRate*g1.At(i, j) }, w1)

		if err := errors.CheckMatrix(op, w1, cols, r.hiddenSize, epoch); err != nil {
			return err
		}
		if err := errors.CheckMatrix(op, w2, r.hiddenSize, r.outputSize, epoch); err != nil {
			return err
		}
	}

	r.mu.Lock()
	r.w1, r.w2 = w1, w2
	r.losses = losses
	r.state.SetFitted(cols, rows)
	r.mu.Unlock()

	if r.logger.Enabled(context.Background(), log.LevelDebug) {
		r.logger.Debug("Fit completed",
			log.OperationKey, log.OperationFit,
			log.PhaseKey, log.PhaseTraining,
			log.SamplesKey, rows,
			log.FeaturesKey, cols,
			log.LearningRateKey, r.learningRate,
			log.LossKey, losses[len(losses)-1],
			log.DurationMsKey, time.Since(start).Milliseconds(),
		)
	}
	return nil
}

func (r *MLPRegressor) forward(X mat.Matrix, w1, w2 *mat.Dense) (hidden, out *mat.Dense) {
	hidden = new(mat.Dense)
	hidden.Mul(X, w1)
	hidden.Apply(func(_, _ int, v float64) float64 { return hiddenActivation.Apply(v) }, hidden)

	out = new(mat.Dense)
	out.Mul(hidden, w2)
	out.Apply(func(_, _ int, v float64) float64 { return r.activation.Apply(v) }, out)
	return hidden, out
}

func meanSquare(m *mat.Dense) float64 {
	rows, cols := m.Dims()
	var sum float64
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := m.At(i, j)
			sum += v * v
		}
	}
	return sum / float64(rows*cols)
}

// Predict returns the network output for X as an n×outputSize matrix.
func (r *MLPRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := r.state.RequireFitted("Predict"); err != nil {
		return nil, err
	}
	if err := r.state.CheckFeatures("MLPRegressor.Predict", X); err != nil {
		return nil, err
	}
	_, out := r.forward(X, r.w1, r.w2)
	return out, nil
}

// Score returns R² of the predictions. It requires a single output column.
func (r *MLPRegressor) Score(X, y mat.Matrix) (float64, error) {
	pred, err := r.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.R2ScoreMatrix(y, pred)
}

// Losses returns the training mean squared error observed at the start of
// each epoch.
func (r *MLPRegressor) Losses() []float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]float64(nil), r.losses...)
}

// Weights returns copies of the input-to-hidden and hidden-to-output weights.
func (r *MLPRegressor) Weights() (w1, w2 *mat.Dense) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.w1 == nil {
		return nil, nil
	}
	return mat.DenseCopyOf(r.w1), mat.DenseCopyOf(r.w2)
}

// GetParams returns the network hyperparameters.
func (r *MLPRegressor) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"momentum":      r.momentum,
		"learning_rate": r.learningRate,
		"epochs":        r.epochs,
		"hidden_size":   r.hiddenSize,
		"output_size":   r.outputSize,
		"activation":    r.activation.Name(),
	}
}
