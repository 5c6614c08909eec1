package linear

import (
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// createNoIntercept generates y = X·weights plus small noise.
func createNoIntercept(rows int, weights []float64) (*mat.Dense, *mat.Dense) {
	// fixed seed
	rng := rand.New(rand.NewPCG(42, 42))
	cols := len(weights)

	X := mat.NewDense(rows, cols, nil)
	y := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		var sum float64
		for j := 0; j < cols; j++ {
			v := rng.Float64()*2.0 - 1.0
			X.Set(i, j, v)
			sum += v * weights[j]
		}
		y.Set(i, 0, sum+(rng.Float64()-0.5)*0.01)
	}
	return X, y
}

// BenchmarkGradientRegressionFit measures Fit across data sizes.
func BenchmarkGradientRegressionFit(b *testing.B) {
	sizes := []struct {
		name string
		rows int
		cols int
	}{
		{"Small_100x10", 100, 10},
		{"Medium_1000x10", 1000, 10},
		{"Large_10000x20", 10000, 20},
	}

	for _, size := range sizes {
		b.Run(size.name, func(b *testing.B) {
			weights := make([]float64, size.cols)
			for j := range weights {
				weights[j] = float64(j+1) * 0.5
			}
			X, y := createNoIntercept(size.rows, weights)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				gr := NewGradientRegression(WithBatchSize(32))
				if err := gr.Fit(X, y); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkGradientRegressionPredict measures Predict.
func BenchmarkGradientRegressionPredict(b *testing.B) {
	X, y := createNoIntercept(10000, []float64{1, 2, 3, 4, 5})
	gr := NewGradientRegression()
	if err := gr.Fit(X, y); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = gr.Predict(X)
	}
}
