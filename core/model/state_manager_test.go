package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gomachine/pkg/errors"
)

func TestStateManagerLifecycle(t *testing.T) {
	s := NewStateManager("KNeighborsRegressor")

	assert.False(t, s.IsFitted())
	assert.Equal(t, "KNeighborsRegressor", s.Name())
	assert.NotEmpty(t, s.ID())

	err := s.RequireFitted("Predict")
	var notFitted *errors.NotFittedError
	require.True(t, errors.As(err, &notFitted))
	assert.Equal(t, "Predict", notFitted.Method)

	s.SetFitted(3, 10)
	assert.True(t, s.IsFitted())
	assert.NoError(t, s.RequireFitted("Predict"))

	nFeatures, nSamples := s.GetDimensions()
	assert.Equal(t, 3, nFeatures)
	assert.Equal(t, 10, nSamples)

	s.SetFitted(5, 2)
	nFeatures, nSamples = s.GetDimensions()
	assert.Equal(t, 5, nFeatures, "refit replaces the recorded shape")
	assert.Equal(t, 2, nSamples)
}

func TestStateManagerCheckFeatures(t *testing.T) {
	s := NewStateManager("m")
	s.SetFitted(2, 4)

	assert.NoError(t, s.CheckFeatures("m.Predict", mat.NewDense(1, 2, nil)))

	err := s.CheckFeatures("m.Predict", mat.NewDense(1, 3, nil))
	var dimErr *errors.DimensionError
	require.True(t, errors.As(err, &dimErr))
	assert.Equal(t, 2, dimErr.Expected)
	assert.Equal(t, 3, dimErr.Got)
}

func TestStateManagerIDsAreUnique(t *testing.T) {
	a, b := NewStateManager("m"), NewStateManager("m")
	assert.NotEqual(t, a.ID(), b.ID())
}
