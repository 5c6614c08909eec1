package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gomachine/config"
	"github.com/YuminosukeSato/gomachine/metrics"
	"github.com/YuminosukeSato/gomachine/pkg/errors"
	"github.com/YuminosukeSato/gomachine/pkg/log"
)

type fitPredictOptions struct {
	configPath   string
	estimator    string
	trainPath    string
	testPath     string
	targetColumn int
	header       bool
	plotPath     string
}

func newFitPredictCmd() *cobra.Command {
	opts := &fitPredictOptions{}

	cmd := &cobra.Command{
		Use:   "fit-predict",
		Short: "Fit a regressor on a training CSV and predict a test CSV",
		Long: `Fit the configured regressor on --train and print one prediction per row
of --test.

The test file may either hold only the feature columns or carry the target
column at the same position as the training file. In the second case the
output includes the actual values and R²/MSE are logged.

Examples:
  gomachine fit-predict --train train.csv --test test.csv
  gomachine fit-predict --config tree.yaml --train train.csv --test test.csv --header
  gomachine fit-predict --estimator knn --train t.csv --test q.csv --plot pred.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			restore := log.UseZerologWarnings(cmd.ErrOrStderr())
			defer restore()
			return runFitPredict(cmd.OutOrStdout(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "YAML estimator configuration (defaults when empty)")
	f.StringVar(&opts.estimator, "estimator", "", "Override the configured estimator (knn, linear, neural, tree)")
	f.StringVar(&opts.trainPath, "train", "", "Training CSV file")
	f.StringVar(&opts.testPath, "test", "", "Test CSV file")
	f.IntVar(&opts.targetColumn, "target-column", -1, "Target column index; negative values count from the end")
	f.BoolVar(&opts.header, "header", false, "CSV files start with a header row")
	f.StringVar(&opts.plotPath, "plot", "", "Write a predictions scatter plot to this file (.png, .svg, .pdf)")
	_ = cmd.MarkFlagRequired("train")
	_ = cmd.MarkFlagRequired("test")

	return cmd
}

func loadConfig(opts *fitPredictOptions) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return nil, err
		}
	}
	if opts.estimator != "" {
		cfg.Estimator = strings.ToLower(opts.estimator)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func runFitPredict(out io.Writer, opts *fitPredictOptions) error {
	logger := log.GetLoggerWithName("cmd.fit-predict")
	start := time.Now()

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	train, err := readTableFile(opts.trainPath, opts.header)
	if err != nil {
		return err
	}
	XTrain, yTrain, err := train.split(opts.targetColumn)
	if err != nil {
		return err
	}

	test, err := readTableFile(opts.testPath, opts.header)
	if err != nil {
		return err
	}
	XTest, yTest, err := testMatrices(test, train.cols, opts.targetColumn)
	if err != nil {
		return err
	}

	reg, err := cfg.NewRegressor()
	if err != nil {
		return err
	}
	if err := reg.Fit(XTrain, yTrain); err != nil {
		return errors.Wrap(err, "fit")
	}
	pred, err := reg.Predict(XTest)
	if err != nil {
		return errors.Wrap(err, "predict")
	}

	predicted := mat.Col(nil, 0, pred)
	var actual []float64
	if yTest != nil {
		actual = mat.Col(nil, 0, yTest)
	}
	if err := writePredictions(out, actual, predicted); err != nil {
		return err
	}

	fields := []any{
		log.ModelNameKey, cfg.Estimator,
		log.SamplesKey, len(train.rows),
		log.PredsKey, len(predicted),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	}
	if yTest != nil {
		if mse, err := metrics.MSEMatrix(yTest, pred); err == nil {
			fields = append(fields, log.MSEKey, mse)
		}
		if r2, err := metrics.R2ScoreMatrix(yTest, pred); err == nil {
			fields = append(fields, log.R2ScoreKey, r2)
		} else {
			logger.Warn("R² unavailable", log.ErrAttrKey, err)
		}
	}
	logger.Info("fit-predict completed", fields...)

	if opts.plotPath != "" {
		if err := savePlot(opts.plotPath, actual, predicted); err != nil {
			return err
		}
		logger.Info("plot written", "path", opts.plotPath)
	}
	return nil
}

// testMatrices accepts a test table with either the training width (target
// included) or one column fewer (features only).
func testMatrices(test *table, trainCols, targetColumn int) (X, y *mat.Dense, err error) {
	switch test.cols {
	case trainCols:
		return test.split(targetColumn)
	case trainCols - 1:
		X, err = test.features()
		return X, nil, err
	default:
		return nil, nil, errors.NewDimensionError("fit-predict", trainCols-1, test.cols, 1)
	}
}

func writePredictions(w io.Writer, actual, predicted []float64) error {
	format := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

	if actual == nil {
		if _, err := fmt.Fprintln(w, "prediction"); err != nil {
			return err
		}
		for _, p := range predicted {
			if _, err := fmt.Fprintln(w, format(p)); err != nil {
				return err
			}
		}
		return nil
	}

	if _, err := fmt.Fprintln(w, "actual,prediction"); err != nil {
		return err
	}
	for i, p := range predicted {
		if _, err := fmt.Fprintf(w, "%s,%s\n", format(actual[i]), format(p)); err != nil {
			return err
		}
	}
	return nil
}
