// Package config loads the YAML document that selects an estimator and its
// hyperparameters for the gomachine command.
//
//	estimator: knn        # knn | linear | neural | tree
//	scale: standard       # none | standard | minmax
//	knn:
//	  k: 5
//	  weighting: softmax-distance
//	  n_jobs: 0
//	linear: {batch_size: 8, epochs: 10, learning_rate: 0.15}
//	neural: {momentum: 0.9, learning_rate: 0.01, epochs: 10, hidden_size: 10, activation: relu}
//	tree: {max_depth: 3, min_samples: 3, min_cv: 5, random_state: 0}
//
// Fields left out keep their defaults.
package config

import (
	"bytes"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/gomachine/core/model"
	"github.com/YuminosukeSato/gomachine/linear"
	"github.com/YuminosukeSato/gomachine/neighbors"
	"github.com/YuminosukeSato/gomachine/neural"
	"github.com/YuminosukeSato/gomachine/pkg/errors"
	"github.com/YuminosukeSato/gomachine/preprocessing"
	"github.com/YuminosukeSato/gomachine/tree"
)

// Estimator names.
const (
	EstimatorKNN    = "knn"
	EstimatorLinear = "linear"
	EstimatorNeural = "neural"
	EstimatorTree   = "tree"
)

// Scaling modes.
const (
	ScaleNone     = "none"
	ScaleStandard = "standard"
	ScaleMinMax   = "minmax"
)

// Config selects an estimator and carries the settings of every estimator.
type Config struct {
	// Estimator is one of knn, linear, neural or tree.
	Estimator string `yaml:"estimator"`

	// Scale selects the feature scaler applied before the estimator.
	Scale string `yaml:"scale,omitempty"`

	KNN    KNNConfig    `yaml:"knn"`
	Linear LinearConfig `yaml:"linear"`
	Neural NeuralConfig `yaml:"neural"`
	Tree   TreeConfig   `yaml:"tree"`
}

// KNNConfig configures neighbors.KNeighborsRegressor.
type KNNConfig struct {
	K         int    `yaml:"k"`
	Weighting string `yaml:"weighting"`
	NJobs     int    `yaml:"n_jobs"`
}

// LinearConfig configures linear.GradientRegression.
type LinearConfig struct {
	BatchSize    int     `yaml:"batch_size"`
	Epochs       int     `yaml:"epochs"`
	LearningRate float64 `yaml:"learning_rate"`
}

// NeuralConfig configures neural.MLPRegressor.
type NeuralConfig struct {
	Momentum     float64 `yaml:"momentum"`
	LearningRate float64 `yaml:"learning_rate"`
	Epochs       int     `yaml:"epochs"`
	HiddenSize   int     `yaml:"hidden_size"`
	Activation   string  `yaml:"activation"`
}

// TreeConfig configures tree.RegressionTree.
type TreeConfig struct {
	MaxDepth    int     `yaml:"max_depth"`
	MinSamples  int     `yaml:"min_samples"`
	MinCV       float64 `yaml:"min_cv"`
	RandomState uint64  `yaml:"random_state"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Estimator: EstimatorKNN,
		Scale:     ScaleNone,
		KNN: KNNConfig{
			K:         neighbors.DefaultK,
			Weighting: neighbors.SoftmaxDistance.String(),
		},
		Linear: LinearConfig{
			BatchSize:    linear.DefaultBatchSize,
			Epochs:       linear.DefaultEpochs,
			LearningRate: linear.DefaultLearningRate,
		},
		Neural: NeuralConfig{
			Momentum:     neural.DefaultMomentum,
			LearningRate: neural.DefaultLearningRate,
			Epochs:       neural.DefaultEpochs,
			HiddenSize:   neural.DefaultHiddenSize,
			Activation:   "relu",
		},
		Tree: TreeConfig{
			MaxDepth:   tree.DefaultMaxDepth,
			MinSamples: tree.DefaultMinSamples,
			MinCV:      tree.DefaultMinCV,
		},
	}
}

// Load reads and validates the configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %s", path)
	}
	return Parse(data)
}

// Parse decodes a YAML document over the defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "parsing config")
	}

	cfg.Estimator = strings.ToLower(strings.TrimSpace(cfg.Estimator))
	cfg.Scale = strings.ToLower(strings.TrimSpace(cfg.Scale))
	if cfg.Scale == "" {
		cfg.Scale = ScaleNone
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating config")
	}
	return cfg, nil
}

// Marshal encodes the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, errors.Wrap(err, "encoding config")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "encoding config")
	}
	return buf.Bytes(), nil
}

// Validate checks every section, not only the selected estimator's.
func (c *Config) Validate() error {
	switch c.Estimator {
	case EstimatorKNN, EstimatorLinear, EstimatorNeural, EstimatorTree:
	default:
		return errors.NewValidationError("estimator", "must be one of knn, linear, neural, tree", c.Estimator)
	}
	switch c.Scale {
	case ScaleNone, ScaleStandard, ScaleMinMax:
	default:
		return errors.NewValidationError("scale", "must be one of none, standard, minmax", c.Scale)
	}

	if c.KNN.K < 0 {
		return errors.NewValidationError("knn.k", "must be non-negative", c.KNN.K)
	}
	if _, err := neighbors.ParseWeightingPolicy(c.KNN.Weighting); err != nil {
		return err
	}

	if c.Linear.BatchSize < 0 {
		return errors.NewValidationError("linear.batch_size", "must be non-negative", c.Linear.BatchSize)
	}
	if c.Linear.Epochs < 0 {
		return errors.NewValidationError("linear.epochs", "must be non-negative", c.Linear.Epochs)
	}
	if c.Linear.LearningRate < 0 {
		return errors.NewValidationError("linear.learning_rate", "must be non-negative", c.Linear.LearningRate)
	}

	if c.Neural.Momentum < 0 || c.Neural.Momentum > 1 {
		return errors.NewValidationError("neural.momentum", "must be between 0 and 1", c.Neural.Momentum)
	}
	if c.Neural.LearningRate < 0 {
		return errors.NewValidationError("neural.learning_rate", "must be non-negative", c.Neural.LearningRate)
	}
	if c.Neural.Epochs < 0 || c.Neural.HiddenSize < 0 {
		return errors.NewValidationError("neural", "epochs and hidden_size must be non-negative",
			[2]int{c.Neural.Epochs, c.Neural.HiddenSize})
	}
	switch strings.ToLower(c.Neural.Activation) {
	case "", "sigmoid", "relu", "tanh":
	default:
		return errors.NewValidationError("neural.activation", "must be one of sigmoid, relu, tanh", c.Neural.Activation)
	}

	if c.Tree.MaxDepth < 0 || c.Tree.MinSamples < 0 {
		return errors.NewValidationError("tree", "max_depth and min_samples must be non-negative",
			[2]int{c.Tree.MaxDepth, c.Tree.MinSamples})
	}
	if c.Tree.MinCV < 0 {
		return errors.NewValidationError("tree.min_cv", "must be non-negative", c.Tree.MinCV)
	}
	return nil
}

// NewRegressor builds the selected estimator, wrapped in a
// preprocessing.Pipeline when a scaler is configured.
func (c *Config) NewRegressor() (model.Regressor, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var r model.Regressor
	switch c.Estimator {
	case EstimatorKNN:
		w, err := neighbors.ParseWeightingPolicy(c.KNN.Weighting)
		if err != nil {
			return nil, err
		}
		r = neighbors.NewKNeighborsRegressor(
			neighbors.WithK(c.KNN.K),
			neighbors.WithWeighting(w),
			neighbors.WithNJobs(c.KNN.NJobs),
		)
	case EstimatorLinear:
		r = linear.NewGradientRegression(
			linear.WithBatchSize(c.Linear.BatchSize),
			linear.WithEpochs(c.Linear.Epochs),
			linear.WithLearningRate(c.Linear.LearningRate),
		)
	case EstimatorNeural:
		r = neural.NewMLPRegressor(
			neural.WithMomentum(c.Neural.Momentum),
			neural.WithLearningRate(c.Neural.LearningRate),
			neural.WithEpochs(c.Neural.Epochs),
			neural.WithHiddenSize(c.Neural.HiddenSize),
			neural.WithActivation(c.Neural.Activation),
		)
	case EstimatorTree:
		r = tree.NewRegressionTree(
			tree.WithMaxDepth(c.Tree.MaxDepth),
			tree.WithMinSamples(c.Tree.MinSamples),
			tree.WithMinCV(c.Tree.MinCV),
			tree.WithRandomState(c.Tree.RandomState),
		)
	}

	switch c.Scale {
	case ScaleStandard:
		return preprocessing.NewPipeline(preprocessing.NewStandardScalerDefault(), r), nil
	case ScaleMinMax:
		return preprocessing.NewPipeline(preprocessing.NewMinMaxScalerDefault(), r), nil
	}
	return r, nil
}
