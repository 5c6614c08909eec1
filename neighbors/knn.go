package neighbors

import (
	"context"
	"sync"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gomachine/core/model"
	"github.com/YuminosukeSato/gomachine/core/parallel"
	"github.com/YuminosukeSato/gomachine/metrics"
	"github.com/YuminosukeSato/gomachine/pkg/errors"
	"github.com/YuminosukeSato/gomachine/pkg/log"
)

// parallelThreshold is the number of query rows at or below which Predict
// runs on the calling goroutine.
const parallelThreshold = 256

// KNeighborsRegressor predicts a target as the weighted combination of the
// targets of the K nearest training points.
//
// Fit replaces the tree wholesale and holds an exclusive lock; Predict and
// KNeighbors share a read lock and never mutate the model, so concurrent
// predictions are safe.
type KNeighborsRegressor struct {
	state *model.StateManager
	mu    sync.RWMutex

	k         int
	weighting WeightingPolicy
	nJobs     int

	tree   *KDTree
	logger log.Logger
}

var (
	_ model.Regressor       = (*KNeighborsRegressor)(nil)
	_ model.ParameterGetter = (*KNeighborsRegressor)(nil)
)

// NewKNeighborsRegressor creates an unfitted regressor. K defaults to 5 and
// the weighting to SoftmaxDistance.
func NewKNeighborsRegressor(opts ...Option) *KNeighborsRegressor {
	m := &KNeighborsRegressor{
		state:     model.NewStateManager("KNeighborsRegressor"),
		k:         DefaultK,
		weighting: SoftmaxDistance,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = log.GetLoggerWithName("neighbors").With(
		log.ModelNameKey, m.state.Name(),
		log.EstimatorIDKey, m.state.ID(),
	)
	return m
}

// K returns the configured neighbor count.
func (m *KNeighborsRegressor) K() int { return m.k }

// Weighting returns the configured weighting policy.
func (m *KNeighborsRegressor) Weighting() WeightingPolicy { return m.weighting }

// IsFitted reports whether Fit has completed successfully.
func (m *KNeighborsRegressor) IsFitted() bool { return m.state.IsFitted() }

// Tree returns the fitted KD-tree, or nil before Fit.
func (m *KNeighborsRegressor) Tree() *KDTree {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tree
}

// Fit builds a KD-tree over the rows of X paired with the single column of y.
// An empty X is accepted; the fitted model then predicts NaN.
func (m *KNeighborsRegressor) Fit(X, y mat.Matrix) error {
	start := time.Now()

	rows, cols := X.Dims()
	yRows, yCols := y.Dims()
	if rows != yRows {
		return errors.NewInputMismatchError("KNeighborsRegressor.Fit", rows, yRows)
	}
	if yRows > 0 && yCols != 1 {
		return errors.NewValueError("KNeighborsRegressor.Fit", "y must be a column vector")
	}

	points := make([][]float64, rows)
	targets := make([]float64, rows)
	for i := 0; i < rows; i++ {
		points[i] = mat.Row(nil, i, X)
		targets[i] = y.At(i, 0)
	}

	tree, err := BuildKDTree(points, targets)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.tree = tree
	m.state.SetFitted(cols, rows)
	m.mu.Unlock()

	if m.logger.Enabled(context.Background(), log.LevelDebug) {
		m.logger.Debug("Fit completed",
			log.OperationKey, log.OperationFit,
			log.PhaseKey, log.PhaseTraining,
			log.SamplesKey, rows,
			log.FeaturesKey, cols,
			log.NeighborsKey, m.k,
			log.TreeDepthKey, tree.Depth(),
			log.DurationMsKey, time.Since(start).Milliseconds(),
		)
	}
	return nil
}

// Predict returns an n×1 matrix with one prediction per row of X.
func (m *KNeighborsRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	start := time.Now()

	sets, err := m.kneighbors("Predict", X)
	if err != nil {
		return nil, err
	}

	preds := make([]float64, len(sets))
	for i, nbs := range sets {
		preds[i] = m.weighting.Predict(nbs)
	}

	if m.logger.Enabled(context.Background(), log.LevelDebug) {
		m.logger.Debug("Predict completed",
			log.OperationKey, log.OperationPredict,
			log.PhaseKey, log.PhaseInference,
			log.PredsKey, len(preds),
			log.WeightingKey, m.weighting.String(),
			log.DurationMsKey, time.Since(start).Milliseconds(),
		)
	}
	return mat.NewDense(len(preds), 1, preds), nil
}

// KNeighbors returns the neighbor set of every row of X, each sorted by
// ascending distance.
func (m *KNeighborsRegressor) KNeighbors(X mat.Matrix) ([][]Neighbor, error) {
	return m.kneighbors("KNeighbors", X)
}

func (m *KNeighborsRegressor) kneighbors(method string, X mat.Matrix) ([][]Neighbor, error) {
	if err := m.state.RequireFitted(method); err != nil {
		return nil, err
	}
	op := "KNeighborsRegressor." + method

	m.mu.RLock()
	defer m.mu.RUnlock()

	rows, cols := X.Dims()
	if rows == 0 {
		return nil, errors.NewValueError(op, "X has no rows")
	}
	if m.tree.Len() > 0 && cols != m.tree.Dims() {
		return nil, errors.NewDimensionError(op, m.tree.Dims(), cols, 1)
	}
	if m.tree.Len() < m.k {
		errors.Warn(errors.NewEmptyResultWarning(op, m.k, m.tree.Len()))
	}

	sets := make([][]Neighbor, rows)
	err := parallel.ParallelizeErrWithThreshold(rows, m.nJobs, parallelThreshold, func(start, end int) error {
		return errors.SafeExecute(op, func() error {
			buf := make([]float64, cols)
			for i := start; i < end; i++ {
				nbs, err := m.tree.Query(mat.Row(buf, i, X), m.k)
				if err != nil {
					return err
				}
				sets[i] = nbs
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return sets, nil
}

// Score returns the coefficient of determination R² of the predictions on X.
func (m *KNeighborsRegressor) Score(X, y mat.Matrix) (float64, error) {
	pred, err := m.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.R2ScoreMatrix(y, pred)
}

// GetParams returns the hyperparameters of the regressor.
func (m *KNeighborsRegressor) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"k":         m.k,
		"weighting": m.weighting.String(),
		"n_jobs":    m.nJobs,
	}
}
