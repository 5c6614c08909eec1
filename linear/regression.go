// Package linear provides linear regression trained by mini-batch gradient descent.
package linear

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gomachine/core/model"
	"github.com/YuminosukeSato/gomachine/metrics"
	"github.com/YuminosukeSato/gomachine/pkg/errors"
	"github.com/YuminosukeSato/gomachine/pkg/log"
)

// GradientRegression is a linear model without intercept whose weights are
// learned by mini-batch gradient descent.
type GradientRegression struct {
	state *model.StateManager
	mu    sync.RWMutex

	batchSize    int
	epochs       int
	learningRate float64

	theta  *mat.VecDense // one weight per feature
	losses []float64     // training MSE after each epoch
	logger log.Logger
}

var (
	_ model.Regressor       = (*GradientRegression)(nil)
	_ model.ParameterGetter = (*GradientRegression)(nil)
)

// NewGradientRegression creates an unfitted model.
func NewGradientRegression(opts ...Option) *GradientRegression {
	gr := &GradientRegression{
		state:        model.NewStateManager("GradientRegression"),
		batchSize:    DefaultBatchSize,
		epochs:       DefaultEpochs,
		learningRate: DefaultLearningRate,
	}
	for _, opt := range opts {
		opt(gr)
	}
	gr.logger = log.GetLoggerWithName("linear").With(
		log.ModelNameKey, gr.state.Name(),
		log.EstimatorIDKey, gr.state.ID(),
	)
	return gr
}

// Fit learns theta from X and the single target column y. Each batch
// computes h = X_b·theta once and then, for every feature k,
// theta_k -= (lr / nFeatures) · Σ (h - y)·x_k.
func (gr *GradientRegression) Fit(X, y mat.Matrix) error {
	const op = "GradientRegression.Fit"
	start := time.Now()

	r, c := X.Dims()
	ry, cy := y.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError(op, r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError(op, "y must be a column vector")
	}

	Xd := mat.DenseCopyOf(X)
	yv := mat.NewVecDense(r, mat.Col(nil, 0, y))
	theta := mat.NewVecDense(c, nil)
	step := gr.learningRate / float64(c)

	losses := make([]float64, 0, gr.epochs)
	for epoch := 0; epoch < gr.epochs; epoch++ {
		for b := 0; b < r; b += gr.batchSize {
			e := b + gr.batchSize
			if e > r {
				e = r
			}
			Xb := Xd.Slice(b, e, 0, c)
			yb := yv.SliceVec(b, e)

			// h - y
			var resid mat.VecDense
			resid.MulVec(Xb, theta)
			resid.SubVec(&resid, yb)

			var grad mat.VecDense
			grad.MulVec(Xb.T(), &resid)
			theta.AddScaledVec(theta, -step, &grad)
		}

		if err := errors.CheckNumericalStability(op, theta.RawVector().Data, epoch); err != nil {
			return err
		}

		loss, err := mseOf(Xd, yv, theta)
		if err != nil {
			return err
		}
		losses = append(losses, loss)
		gr.logger.Debug("epoch completed", log.EpochKey, epoch, log.LossKey, loss)
	}

	// warn when the final epoch made the loss worse
	if n := len(losses); n >= 2 && losses[n-1] > losses[n-2] {
		errors.Warn(errors.NewConvergenceWarning("GradientRegression", gr.epochs,
			"loss increased during the final epoch; consider lowering the learning rate"))
	}

	gr.mu.Lock()
	gr.theta = theta
	gr.losses = losses
	gr.state.SetFitted(c, r)
	gr.mu.Unlock()

	if gr.logger.Enabled(context.Background(), log.LevelDebug) {
		gr.logger.Debug("Fit completed",
			log.OperationKey, log.OperationFit,
			log.PhaseKey, log.PhaseTraining,
			log.SamplesKey, r,
			log.FeaturesKey, c,
			log.BatchSizeKey, gr.batchSize,
			log.LearningRateKey, gr.learningRate,
			log.DurationMsKey, time.Since(start).Milliseconds(),
		)
	}
	return nil
}

func mseOf(X *mat.Dense, y, theta *mat.VecDense) (float64, error) {
	var pred mat.VecDense
	pred.MulVec(X, theta)
	return metrics.MSE(y, &pred)
}

// Predict returns X·theta as an n×1 matrix. Fitted state and width are
// checked under the same lock Fit publishes them with.
func (gr *GradientRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	gr.mu.RLock()
	defer gr.mu.RUnlock()

	if err := gr.state.RequireFitted("Predict"); err != nil {
		return nil, err
	}
	if err := gr.state.CheckFeatures("GradientRegression.Predict", X); err != nil {
		return nil, err
	}

	r, _ := X.Dims()
	var pred mat.VecDense
	pred.MulVec(X, gr.theta)
	return mat.NewDense(r, 1, pred.RawVector().Data), nil
}

// Coef returns a copy of the learned weights, or nil before Fit.
func (gr *GradientRegression) Coef() []float64 {
	gr.mu.RLock()
	defer gr.mu.RUnlock()
	if gr.theta == nil {
		return nil
	}
	return mat.Col(nil, 0, gr.theta)
}

// Losses returns the training MSE recorded after each epoch.
func (gr *GradientRegression) Losses() []float64 {
	gr.mu.RLock()
	defer gr.mu.RUnlock()
	return append([]float64(nil), gr.losses...)
}

// Score returns R² of the predictions on X.
func (gr *GradientRegression) Score(X, y mat.Matrix) (float64, error) {
	pred, err := gr.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.R2ScoreMatrix(y, pred)
}

// GetParams returns the hyperparameters.
func (gr *GradientRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"batch_size":    gr.batchSize,
		"epochs":        gr.epochs,
		"learning_rate": gr.learningRate,
	}
}

// modelSpec heads the exported document.
type modelSpec struct {
	Name          string `json:"name"`
	FormatVersion string `json:"format_version"`
}

// exportedModel is the JSON form of a fitted model.
type exportedModel struct {
	ModelSpec    modelSpec `json:"model_spec"`
	Coefficients []float64 `json:"coefficients"`
	NFeatures    int       `json:"n_features"`
	NSamples     int       `json:"n_samples"`
}

const formatVersion = "1.0"

// ExportJSON writes the learned weights as JSON.
//
// Example:
//
//	var buf bytes.Buffer
//	err := gr.ExportJSON(&buf)
func (gr *GradientRegression) ExportJSON(w io.Writer) error {
	if err := gr.state.RequireFitted("ExportJSON"); err != nil {
		return err
	}
	nFeatures, nSamples := gr.state.GetDimensions()

	m := exportedModel{
		ModelSpec:    modelSpec{Name: gr.state.Name(), FormatVersion: formatVersion},
		Coefficients: gr.Coef(),
		NFeatures:    nFeatures,
		NSamples:     nSamples,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return errors.Wrap(err, "failed to encode model")
	}
	return nil
}

// LoadJSON reads a document written by ExportJSON and marks the model fitted.
func (gr *GradientRegression) LoadJSON(r io.Reader) error {
	const op = "GradientRegression.LoadJSON"

	var m exportedModel
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return errors.Wrap(err, "failed to decode model")
	}
	if m.ModelSpec.Name != gr.state.Name() {
		return errors.NewValueError(op, "unexpected model name "+m.ModelSpec.Name)
	}
	if len(m.Coefficients) == 0 || len(m.Coefficients) != m.NFeatures {
		return errors.NewDimensionError(op, m.NFeatures, len(m.Coefficients), 1)
	}

	gr.mu.Lock()
	defer gr.mu.Unlock()
	gr.theta = mat.NewVecDense(len(m.Coefficients), m.Coefficients)
	gr.losses = nil
	gr.state.SetFitted(m.NFeatures, m.NSamples)
	return nil
}
