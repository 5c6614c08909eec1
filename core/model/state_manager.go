package model

import (
	"sync"

	"github.com/google/uuid"

	"github.com/YuminosukeSato/gomachine/pkg/errors"
)

// StateManager manages the fitted state of a model in a thread-safe manner.
// Estimators hold it by composition. Each manager carries a random instance
// ID used to correlate fit and predict log records.
type StateManager struct {
	mu sync.RWMutex

	name      string
	id        string
	fitted    bool
	nFeatures int
	nSamples  int
}

// NewStateManager creates a new StateManager for the named model.
func NewStateManager(name string) *StateManager {
	return &StateManager{
		name: name,
		id:   uuid.New().String(),
	}
}

// Name returns the model name given at construction.
func (s *StateManager) Name() string { return s.name }

// ID returns the instance ID.
func (s *StateManager) ID() string { return s.id }

// IsFitted returns whether the model has been fitted.
func (s *StateManager) IsFitted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fitted
}

// SetFitted marks the model as fitted and records the training shape.
func (s *StateManager) SetFitted(nFeatures, nSamples int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fitted = true
	s.nFeatures = nFeatures
	s.nSamples = nSamples
}

// GetDimensions returns the number of features and samples seen during fitting.
func (s *StateManager) GetDimensions() (nFeatures, nSamples int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nFeatures, s.nSamples
}

// RequireFitted returns a NotFittedError naming method if the model has not
// been fitted.
func (s *StateManager) RequireFitted(method string) error {
	if !s.IsFitted() {
		return errors.NewNotFittedError(s.name, method)
	}
	return nil
}

// CheckFeatures returns a DimensionError when X's column count differs from
// the number of features seen during fitting.
func (s *StateManager) CheckFeatures(op string, X interface{ Dims() (int, int) }) error {
	_, c := X.Dims()
	nFeatures, _ := s.GetDimensions()
	if c != nFeatures {
		return errors.NewDimensionError(op, nFeatures, c, 1)
	}
	return nil
}
