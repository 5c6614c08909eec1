package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gomachine/pkg/errors"
)

func vec(v ...float64) *mat.VecDense { return mat.NewVecDense(len(v), v) }

func TestVectorMetrics(t *testing.T) {
	tests := []struct {
		name  string
		fn    func(yTrue, yPred *mat.VecDense) (float64, error)
		yTrue *mat.VecDense
		yPred *mat.VecDense
		want  float64
	}{
		{"MSE perfect", MSE, vec(1, 2, 3, 4, 5), vec(1, 2, 3, 4, 5), 0},
		{"MSE simple", MSE, vec(1, 2, 3, 4), vec(1.5, 2.5, 2.5, 3.5), 0.25},
		{"MSE larger errors", MSE, vec(10, 20, 30), vec(12, 18, 33), 17.0 / 3.0},
		{"RMSE unit offset", RMSE, vec(0, 0, 0, 0), vec(1, 1, 1, 1), 1},
		{"MAE simple", MAE, vec(1, 2, 3, 4), vec(1.5, 2.5, 2.5, 3.5), 0.5},
		{"MAE negative differences", MAE, vec(1, 2, 3, 4), vec(2, 1, 4, 3), 1},
		{"R2 perfect", R2Score, vec(1, 2, 3, 4, 5), vec(1, 2, 3, 4, 5), 1},
		{"R2 worse than mean", R2Score, vec(1, 2, 3, 4), vec(4, 3, 2, 1), -3},
		{"MAPE skips zeros", MAPE, vec(0, 2, 4), vec(1, 1, 5), 37.5},
		{"explained variance constant offset", ExplainedVarianceScore, vec(1, 2, 3, 4), vec(2, 3, 4, 5), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn(tt.yTrue, tt.yPred)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-10)
		})
	}
}

func TestVectorMetricErrors(t *testing.T) {
	fns := map[string]func(yTrue, yPred *mat.VecDense) (float64, error){
		"MSE":                    MSE,
		"RMSE":                   RMSE,
		"MAE":                    MAE,
		"R2Score":                R2Score,
		"MAPE":                   MAPE,
		"ExplainedVarianceScore": ExplainedVarianceScore,
	}

	for name, fn := range fns {
		t.Run(name+"/dimension mismatch", func(t *testing.T) {
			_, err := fn(vec(1, 2, 3), vec(1, 2))
			var dimErr *errors.DimensionError
			assert.True(t, errors.As(err, &dimErr))
		})
		t.Run(name+"/empty", func(t *testing.T) {
			_, err := fn(&mat.VecDense{}, &mat.VecDense{})
			var valErr *errors.ValueError
			assert.True(t, errors.As(err, &valErr))
		})
	}
}

func TestNoVarianceInTruth(t *testing.T) {
	_, err := R2Score(vec(3, 3, 3, 3, 3), vec(2, 3, 4, 3, 3))
	assert.Error(t, err)

	_, err = ExplainedVarianceScore(vec(3, 3), vec(1, 2))
	assert.Error(t, err)

	_, err = MAPE(vec(0, 0), vec(1, 2))
	assert.Error(t, err)
}

func TestMatrixAdapters(t *testing.T) {
	yTrue := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	yPred := mat.NewDense(4, 1, []float64{1.5, 2.5, 2.5, 3.5})

	mse, err := MSEMatrix(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, mse, 1e-10)

	r2, err := R2ScoreMatrix(yTrue, yTrue)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, r2, 1e-10)

	wide := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	_, err = MSEMatrix(wide, wide)
	assert.Error(t, err)

	_, err = R2ScoreMatrix(yTrue, mat.NewDense(3, 1, nil))
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))

	_, err = R2ScoreMatrix(&mat.Dense{}, &mat.Dense{})
	assert.Error(t, err)
}

func BenchmarkMSE(b *testing.B) {
	size := 10000
	yTrue := mat.NewVecDense(size, nil)
	yPred := mat.NewVecDense(size, nil)
	for i := 0; i < size; i++ {
		yTrue.SetVec(i, float64(i))
		yPred.SetVec(i, float64(i)+0.1*float64(i%10))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = MSE(yTrue, yPred)
	}
}
