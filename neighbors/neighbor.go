package neighbors

import (
	"math"
	"sort"
)

// Neighbor is one result of a nearest-neighbor query.
type Neighbor struct {
	Target   float64
	Distance float64
}

// neighborSet keeps at most k neighbors for the duration of one query.
type neighborSet struct {
	k     int
	items []Neighbor
}

func newNeighborSet(k int) *neighborSet {
	return &neighborSet{k: k, items: make([]Neighbor, 0, k)}
}

// worst returns the largest kept distance, or +Inf while the set is not full.
func (s *neighborSet) worst() float64 {
	if len(s.items) < s.k {
		return math.Inf(1)
	}
	_, d := s.maxIndex()
	return d
}

// maxIndex returns the first index holding the largest distance.
func (s *neighborSet) maxIndex() (int, float64) {
	idx, maxD := 0, math.Inf(-1)
	for i, nb := range s.items {
		if nb.Distance > maxD {
			idx, maxD = i, nb.Distance
		}
	}
	return idx, maxD
}

// insert adds nb, evicting the current farthest entry when the set is full.
// Callers only insert when nb.Distance < worst().
func (s *neighborSet) insert(nb Neighbor) {
	if len(s.items) < s.k {
		s.items = append(s.items, nb)
		return
	}
	idx, _ := s.maxIndex()
	s.items[idx] = nb
}

// sorted returns the kept neighbors by ascending distance.
func (s *neighborSet) sorted() []Neighbor {
	out := make([]Neighbor, len(s.items))
	copy(out, s.items)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Distance < out[j].Distance
	})
	return out
}
