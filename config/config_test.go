package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/gomachine/linear"
	"github.com/YuminosukeSato/gomachine/neighbors"
	"github.com/YuminosukeSato/gomachine/neural"
	"github.com/YuminosukeSato/gomachine/pkg/errors"
	"github.com/YuminosukeSato/gomachine/preprocessing"
	"github.com/YuminosukeSato/gomachine/tree"
)

func TestParseEmptyUsesDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
estimator: KNN
scale: standard
knn:
  k: 3
  weighting: inverse-distance
tree:
  max_depth: 5
`))
	require.NoError(t, err)

	assert.Equal(t, EstimatorKNN, cfg.Estimator)
	assert.Equal(t, ScaleStandard, cfg.Scale)
	assert.Equal(t, 3, cfg.KNN.K)
	assert.Equal(t, "inverse-distance", cfg.KNN.Weighting)
	assert.Equal(t, 0, cfg.KNN.NJobs)
	assert.Equal(t, 5, cfg.Tree.MaxDepth)
	assert.Equal(t, tree.DefaultMinSamples, cfg.Tree.MinSamples)
	assert.Equal(t, linear.DefaultLearningRate, cfg.Linear.LearningRate)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		param string
	}{
		{"unknown estimator", "estimator: svm", "estimator"},
		{"unknown scale", "scale: robust", "scale"},
		{"negative k", "knn: {k: -1}", "knn.k"},
		{"unknown weighting", "knn: {weighting: uniform}", "weighting"},
		{"negative batch", "linear: {batch_size: -8}", "linear.batch_size"},
		{"momentum above one", "neural: {momentum: 1.5}", "neural.momentum"},
		{"unknown activation", "neural: {activation: softplus}", "neural.activation"},
		{"negative min cv", "tree: {min_cv: -1}", "tree.min_cv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			var valErr *errors.ValidationError
			require.True(t, errors.As(err, &valErr), "got %v", err)
			assert.Equal(t, tt.param, valErr.ParamName)
		})
	}

	_, err := Parse([]byte("estimator: knn\nneighbours: 3\n"))
	assert.Error(t, err, "unknown keys are rejected")

	_, err = Parse([]byte("estimator: [knn"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gomachine.yaml")
	require.NoError(t, os.WriteFile(path, []byte("estimator: tree\ntree: {random_state: 9}\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, EstimatorTree, cfg.Estimator)
	assert.Equal(t, uint64(9), cfg.Tree.RandomState)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Estimator = EstimatorNeural
	cfg.Neural.Activation = "tanh"

	data, err := cfg.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "estimator: neural")

	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestNewRegressor(t *testing.T) {
	build := func(doc string) interface{} {
		cfg, err := Parse([]byte(doc))
		require.NoError(t, err)
		r, err := cfg.NewRegressor()
		require.NoError(t, err)
		return r
	}

	knn, ok := build("estimator: knn\nknn: {k: 2, weighting: softmax-negative-distance}").(*neighbors.KNeighborsRegressor)
	require.True(t, ok)
	assert.Equal(t, 2, knn.K())
	assert.Equal(t, neighbors.SoftmaxNegativeDistance, knn.Weighting())

	_, ok = build("estimator: linear").(*linear.GradientRegression)
	assert.True(t, ok)

	mlp, ok := build("estimator: neural\nneural: {activation: sigmoid}").(*neural.MLPRegressor)
	require.True(t, ok)
	assert.Equal(t, "sigmoid", mlp.GetParams()["activation"])

	_, ok = build("estimator: tree").(*tree.RegressionTree)
	assert.True(t, ok)

	p, ok := build("estimator: tree\nscale: minmax").(*preprocessing.Pipeline)
	require.True(t, ok)
	assert.IsType(t, &preprocessing.MinMaxScaler{}, p.Transformer)
	assert.IsType(t, &tree.RegressionTree{}, p.Regressor)

	p, ok = build("scale: standard").(*preprocessing.Pipeline)
	require.True(t, ok)
	assert.IsType(t, &preprocessing.StandardScaler{}, p.Transformer)

	bad := Default()
	bad.Estimator = "svm"
	_, err := bad.NewRegressor()
	assert.Error(t, err)
}
