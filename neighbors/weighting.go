package neighbors

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/gomachine/pkg/errors"
)

// WeightingPolicy turns neighbor distances into aggregation weights.
type WeightingPolicy int

const (
	// SoftmaxDistance weights neighbors by softmax of their distances, so
	// farther neighbors get larger weights. The softmax is shifted by the
	// largest distance, so distances beyond about 709 do not overflow: the
	// farthest neighbor takes the weight instead of every weight becoming NaN
	// and the prediction collapsing to 0.
	SoftmaxDistance WeightingPolicy = iota
	// SoftmaxNegativeDistance weights neighbors by softmax of the negated
	// distances. Closer neighbors dominate.
	SoftmaxNegativeDistance
	// InverseDistance weights neighbors by 1/d. Exact matches share all of
	// the weight.
	InverseDistance
)

var weightingNames = map[WeightingPolicy]string{
	SoftmaxDistance:         "softmax-distance",
	SoftmaxNegativeDistance: "softmax-negative-distance",
	InverseDistance:         "inverse-distance",
}

func (p WeightingPolicy) String() string {
	if name, ok := weightingNames[p]; ok {
		return name
	}
	return "unknown"
}

// ParseWeightingPolicy parses the names produced by WeightingPolicy.String.
// The empty string selects SoftmaxDistance.
func ParseWeightingPolicy(s string) (WeightingPolicy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SoftmaxDistance, nil
	}
	for p, name := range weightingNames {
		if name == s {
			return p, nil
		}
	}
	return 0, errors.NewValidationError("weighting", "unknown weighting policy", s)
}

// Weights returns one weight per distance. The weights sum to 1 unless
// every weight was NaN, in which case they are all 0.
func (p WeightingPolicy) Weights(distances []float64) []float64 {
	if len(distances) == 0 {
		return nil
	}

	var w []float64
	switch p {
	case SoftmaxNegativeDistance:
		logits := make([]float64, len(distances))
		for i, d := range distances {
			logits[i] = -d
		}
		w = softmax(logits)
	case InverseDistance:
		w = inverseDistance(distances)
	default:
		w = softmax(append([]float64(nil), distances...))
	}

	for i, v := range w {
		if math.IsNaN(v) {
			w[i] = 0
		}
	}
	return w
}

// Predict returns the weighted sum of the neighbor targets, or NaN when
// there are no neighbors.
func (p WeightingPolicy) Predict(nbs []Neighbor) float64 {
	if len(nbs) == 0 {
		return math.NaN()
	}
	distances := make([]float64, len(nbs))
	targets := make([]float64, len(nbs))
	for i, nb := range nbs {
		distances[i] = nb.Distance
		targets[i] = nb.Target
	}
	return floats.Dot(p.Weights(distances), targets)
}

// softmax overwrites logits with exp(x_i - max) / Σ exp(x_j - max).
func softmax(logits []float64) []float64 {
	floats.AddConst(-floats.Max(logits), logits)
	for i, v := range logits {
		logits[i] = math.Exp(v)
	}
	sum := floats.Sum(logits)
	floats.Scale(1/sum, logits)
	return logits
}

func inverseDistance(distances []float64) []float64 {
	w := make([]float64, len(distances))

	exact := 0
	for _, d := range distances {
		if d == 0 {
			exact++
		}
	}
	if exact > 0 {
		for i, d := range distances {
			if d == 0 {
				w[i] = 1 / float64(exact)
			}
		}
		return w
	}

	for i, d := range distances {
		w[i] = 1 / d
	}
	floats.Scale(1/floats.Sum(w), w)
	return w
}
