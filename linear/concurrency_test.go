package linear

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gomachine/pkg/errors"
)

// refitWhilePredicting alternates refits between two feature widths while
// several goroutines call predict. predict may fail with a DimensionError but
// must never panic.
func refitWhilePredicting(t *testing.T, refit func(i int) error, predict func() error) {
	t.Helper()

	var (
		wg      sync.WaitGroup
		panics  atomic.Int32
		foreign atomic.Int32
		done    = make(chan struct{})
	)
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				func() {
					defer func() {
						if recover() != nil {
							panics.Add(1)
						}
					}()
					if err := predict(); err != nil {
						var dimErr *errors.DimensionError
						if !errors.As(err, &dimErr) {
							foreign.Add(1)
						}
					}
				}()
			}
		}()
	}

	for i := 0; i < 400; i++ {
		if err := refit(i); err != nil {
			t.Errorf("refit %d: %v", i, err)
			break
		}
	}
	close(done)
	wg.Wait()

	assert.Zero(t, panics.Load(), "predict panicked during refit")
	assert.Zero(t, foreign.Load(), "predict failed with something other than a DimensionError")
}

var (
	narrowX = mat.NewDense(4, 2, []float64{
		0, 1,
		1, 0,
		1, 1,
		2, 1,
	})
	wideX = mat.NewDense(4, 3, []float64{
		0, 1, 2,
		1, 0, 2,
		1, 1, 0,
		2, 1, 1,
	})
	refitY = mat.NewDense(4, 1, []float64{1, 2, 3, 4})
)

func alternate(i int) *mat.Dense {
	if i%2 == 0 {
		return wideX
	}
	return narrowX
}

func TestGradientRegressionRefitDuringPredict(t *testing.T) {
	gr := NewGradientRegression(WithEpochs(1))
	errors.SetWarningHandler(func(error) {})
	t.Cleanup(func() { errors.SetWarningHandler(func(error) {}) })
	if err := gr.Fit(narrowX, refitY); err != nil {
		t.Fatal(err)
	}

	refitWhilePredicting(t,
		func(i int) error { return gr.Fit(alternate(i), refitY) },
		func() error {
			_, err := gr.Predict(narrowX)
			return err
		})
}
