package neural

import (
	"math"
	"strings"
)

// Activation is an element-wise activation function with its derivative.
// Derivatives are evaluated on already-activated values, matching how the
// backward pass feeds them layer outputs.
type Activation interface {
	Name() string
	Apply(x float64) float64
	Derivative(x float64) float64
}

type sigmoid struct{}

func (sigmoid) Name() string { return "sigmoid" }

func (sigmoid) Apply(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

func (s sigmoid) Derivative(x float64) float64 {
	fx := s.Apply(x)
	return fx * (1 - fx)
}

type relu struct{}

func (relu) Name() string { return "relu" }

func (relu) Apply(x float64) float64 {
	if x < 0 {
		return 0
	}
	return x
}

func (relu) Derivative(x float64) float64 {
	if x < 0 {
		return 0
	}
	return 1
}

type tanh struct{}

func (tanh) Name() string { return "tanh" }

func (tanh) Apply(x float64) float64 { return math.Tanh(x) }

func (tanh) Derivative(x float64) float64 {
	t := math.Tanh(x)
	return 1 - t*t
}

// ActivationByName returns the activation called name. Unknown names fall
// back to ReLU.
func ActivationByName(name string) Activation {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sigmoid":
		return sigmoid{}
	case "tanh":
		return tanh{}
	default:
		return relu{}
	}
}
