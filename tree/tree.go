// Package tree provides a multiway regression tree for discrete-valued
// features.
//
// Each internal node splits on one feature and has one child per distinct
// value of that feature; the feature is not considered again below the split.
// Splitting stops when the targets' coefficient of variation drops below
// MinCV, when few rows remain, when the maximum depth is exceeded, or when no
// features are left. Leaves predict the mean target.
package tree

import (
	"context"
	"math"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/gomachine/core/model"
	"github.com/YuminosukeSato/gomachine/metrics"
	"github.com/YuminosukeSato/gomachine/pkg/errors"
	"github.com/YuminosukeSato/gomachine/pkg/log"
)

type node struct {
	leaf  bool
	value float64

	feature  int // column of the original feature vector
	values   []float64
	children []*node
	index    map[float64]int
}

// RegressionTree is a multiway regression tree.
type RegressionTree struct {
	state *model.StateManager
	mu    sync.RWMutex

	maxDepth    int
	minSamples  int
	minCV       float64
	randomState uint64

	root *node

	rngMu sync.Mutex
	rng   *rand.Rand

	logger log.Logger
}

var (
	_ model.Regressor       = (*RegressionTree)(nil)
	_ model.ParameterGetter = (*RegressionTree)(nil)
)

// NewRegressionTree creates an unfitted tree.
func NewRegressionTree(opts ...Option) *RegressionTree {
	t := &RegressionTree{
		state:      model.NewStateManager("RegressionTree"),
		maxDepth:   DefaultMaxDepth,
		minSamples: DefaultMinSamples,
		minCV:      DefaultMinCV,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = log.GetLoggerWithName("tree").With(
		log.ModelNameKey, t.state.Name(),
		log.EstimatorIDKey, t.state.ID(),
	)
	return t
}

// Fit grows the tree from X and the single target column y.
func (t *RegressionTree) Fit(X, y mat.Matrix) error {
	const op = "RegressionTree.Fit"
	start := time.Now()

	rows, cols := X.Dims()
	ry, cy := y.Dims()
	if rows == 0 || cols == 0 {
		return errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if ry != rows {
		return errors.NewDimensionError(op, rows, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError(op, "y must be a column vector")
	}

	samples := make([][]float64, rows)
	targets := make([]float64, rows)
	for i := 0; i < rows; i++ {
		samples[i] = mat.Row(nil, i, X)
		targets[i] = y.At(i, 0)
	}
	features := make([]int, cols)
	for j := range features {
		features[j] = j
	}

	root := t.grow(samples, targets, features, 0)

	rng := rand.New(rand.NewPCG(t.randomState, t.randomState))

	t.mu.Lock()
	t.rngMu.Lock()
	t.rng = rng
	t.rngMu.Unlock()
	t.root = root
	t.state.SetFitted(cols, rows)
	t.mu.Unlock()

	if t.logger.Enabled(context.Background(), log.LevelDebug) {
		t.logger.Debug("Fit completed",
			log.OperationKey, log.OperationFit,
			log.PhaseKey, log.PhaseTraining,
			log.SamplesKey, rows,
			log.FeaturesKey, cols,
			log.TreeDepthKey, depth(root),
			log.RandomSeedKey, t.randomState,
			log.DurationMsKey, time.Since(start).Milliseconds(),
		)
	}
	return nil
}

func (t *RegressionTree) grow(samples [][]float64, targets []float64, features []int, d int) *node {
	if coefficientOfVariation(targets) < t.minCV ||
		len(targets) <= t.minSamples ||
		d > t.maxDepth ||
		len(features) == 0 {
		return &node{leaf: true, value: stat.Mean(targets, nil)}
	}

	best, bestSSE := 0, math.Inf(1)
	for i, f := range features {
		if sse := splitSSE(samples, targets, f); sse < bestSSE {
			best, bestSSE = i, sse
		}
	}
	feature := features[best]

	remaining := make([]int, 0, len(features)-1)
	remaining = append(remaining, features[:best]...)
	remaining = append(remaining, features[best+1:]...)

	values, groups := groupBy(samples, feature)
	n := &node{
		feature:  feature,
		values:   values,
		children: make([]*node, len(values)),
		index:    make(map[float64]int, len(values)),
	}
	for i, v := range values {
		g := groups[i]
		subSamples := make([][]float64, len(g))
		subTargets := make([]float64, len(g))
		for k, row := range g {
			subSamples[k] = samples[row]
			subTargets[k] = targets[row]
		}
		n.index[v] = i
		n.children[i] = t.grow(subSamples, subTargets, remaining, d+1)
	}
	return n
}

// coefficientOfVariation returns 100·std/mean using the sample standard
// deviation. It is NaN for a single value.
func coefficientOfVariation(targets []float64) float64 {
	mean, std := stat.MeanStdDev(targets, nil)
	return std / mean * 100
}

// groupBy returns the distinct values of column f in ascending order and, for
// each, the indices of the rows holding it.
func groupBy(samples [][]float64, f int) ([]float64, [][]int) {
	byValue := make(map[float64][]int)
	var values []float64
	for i, s := range samples {
		v := s[f]
		if _, ok := byValue[v]; !ok {
			values = append(values, v)
		}
		byValue[v] = append(byValue[v], i)
	}
	sort.Float64s(values)

	groups := make([][]int, len(values))
	for i, v := range values {
		groups[i] = byValue[v]
	}
	return values, groups
}

// splitSSE sums, over every distinct value of column f, the squared error of
// all targets against that value's group mean.
func splitSSE(samples [][]float64, targets []float64, f int) float64 {
	_, groups := groupBy(samples, f)
	var sse float64
	buf := make([]float64, 0, len(targets))
	for _, g := range groups {
		buf = buf[:0]
		for _, row := range g {
			buf = append(buf, targets[row])
		}
		mean := stat.Mean(buf, nil)
		for _, v := range targets {
			sse += (v - mean) * (v - mean)
		}
	}
	return sse
}

func depth(n *node) int {
	if n == nil || n.leaf {
		return 1
	}
	deepest := 0
	for _, c := range n.children {
		if d := depth(c); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}

// Predict routes each row of X to a leaf by exact feature value. A value
// not seen during Fit follows a randomly chosen child.
func (t *RegressionTree) Predict(X mat.Matrix) (mat.Matrix, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if err := t.state.RequireFitted("Predict"); err != nil {
		return nil, err
	}
	if err := t.state.CheckFeatures("RegressionTree.Predict", X); err != nil {
		return nil, err
	}

	rows, _ := X.Dims()
	preds := make([]float64, rows)
	for i := 0; i < rows; i++ {
		preds[i] = t.predictRow(mat.Row(nil, i, X))
	}
	return mat.NewDense(rows, 1, preds), nil
}

func (t *RegressionTree) predictRow(x []float64) float64 {
	n := t.root
	for !n.leaf {
		i, ok := n.index[x[n.feature]]
		if !ok {
			i = t.randomChild(len(n.children))
		}
		n = n.children[i]
	}
	return n.value
}

func (t *RegressionTree) randomChild(n int) int {
	t.rngMu.Lock()
	defer t.rngMu.Unlock()
	return t.rng.IntN(n)
}

// Depth returns the number of levels in the fitted tree, or 0 before Fit.
func (t *RegressionTree) Depth() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.root == nil {
		return 0
	}
	return depth(t.root)
}

// Score returns R² of the predictions on X.
func (t *RegressionTree) Score(X, y mat.Matrix) (float64, error) {
	pred, err := t.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.R2ScoreMatrix(y, pred)
}

// GetParams returns the tree hyperparameters.
func (t *RegressionTree) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"max_depth":    t.maxDepth,
		"min_samples":  t.minSamples,
		"min_cv":       t.minCV,
		"random_state": t.randomState,
	}
}
