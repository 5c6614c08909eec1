package neighbors

import (
	"sort"

	"github.com/YuminosukeSato/gomachine/pkg/errors"
)

// KDTree is an immutable KD-tree over training points and their targets.
// A tree built from no points has a nil root and answers every query with an
// empty neighbor set.
type KDTree struct {
	root *Node
	dims int
	size int
}

type pointTarget struct {
	point  []float64
	target float64
}

// BuildKDTree builds a balanced KD-tree. points[i] is paired with targets[i].
// The input slices are copied.
func BuildKDTree(points [][]float64, targets []float64) (*KDTree, error) {
	if len(points) != len(targets) {
		return nil, errors.NewInputMismatchError("BuildKDTree", len(points), len(targets))
	}
	if len(points) == 0 {
		return &KDTree{}, nil
	}

	dims := len(points[0])
	if dims == 0 {
		return nil, errors.NewValueError("BuildKDTree", "points must have at least one dimension")
	}

	items := make([]pointTarget, len(points))
	for i, p := range points {
		if len(p) != dims {
			return nil, errors.NewDimensionError("BuildKDTree", dims, len(p), 1)
		}
		cp := make([]float64, dims)
		copy(cp, p)
		items[i] = pointTarget{point: cp, target: targets[i]}
	}

	return &KDTree{
		root: build(items, 0, dims),
		dims: dims,
		size: len(items),
	}, nil
}

// build sorts items by the axis for depth and splits at the median.
func build(items []pointTarget, depth, dims int) *Node {
	if len(items) == 0 {
		return nil
	}
	axis := depth % dims
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].point[axis] < items[j].point[axis]
	})

	median := len(items) / 2
	return &Node{
		point:  items[median].point,
		target: items[median].target,
		left:   build(items[:median], depth+1, dims),
		right:  build(items[median+1:], depth+1, dims),
	}
}

// Len returns the number of points in the tree.
func (t *KDTree) Len() int { return t.size }

// Dims returns the dimensionality of the points, or 0 for an empty tree.
func (t *KDTree) Dims() int { return t.dims }

// Root returns the root node, or nil for an empty tree.
func (t *KDTree) Root() *Node { return t.root }

// Depth returns the number of levels in the tree.
func (t *KDTree) Depth() int {
	return nodeDepth(t.root)
}

func nodeDepth(n *Node) int {
	if n == nil {
		return 0
	}
	l, r := nodeDepth(n.left), nodeDepth(n.right)
	if l > r {
		return l + 1
	}
	return r + 1
}

// Walk visits nodes in pre-order with their depth. Returning false from fn
// skips the node's subtrees.
func (t *KDTree) Walk(fn func(n *Node, depth int) bool) {
	walk(t.root, 0, fn)
}

func walk(n *Node, depth int, fn func(*Node, int) bool) {
	if n == nil {
		return
	}
	if !fn(n, depth) {
		return
	}
	walk(n.left, depth+1, fn)
	walk(n.right, depth+1, fn)
}

// Query returns up to k nearest neighbors of query sorted by ascending
// distance. Fewer than k neighbors are returned only when the tree holds
// fewer than k points.
func (t *KDTree) Query(query []float64, k int) ([]Neighbor, error) {
	return t.query(query, k, false)
}

// query is Query with pruning optionally disabled.
func (t *KDTree) query(query []float64, k int, exhaustive bool) ([]Neighbor, error) {
	if k <= 0 {
		return nil, errors.NewValueError("KDTree.Query", "k must be positive")
	}
	if t.root == nil {
		return []Neighbor{}, nil
	}
	if len(query) != t.dims {
		return nil, errors.NewDimensionError("KDTree.Query", t.dims, len(query), 1)
	}

	s := &searcher{
		query:      query,
		dims:       t.dims,
		exhaustive: exhaustive,
		set:        newNeighborSet(k),
	}
	if err := s.visit(t.root, 0); err != nil {
		return nil, err
	}
	return s.set.sorted(), nil
}

type searcher struct {
	query      []float64
	dims       int
	exhaustive bool
	set        *neighborSet
}

func (s *searcher) visit(n *Node, depth int) error {
	if n == nil {
		return nil
	}

	d, err := n.DistanceTo(s.query)
	if err != nil {
		return err
	}
	if d < s.set.worst() {
		s.set.insert(Neighbor{Target: n.target, Distance: d})
	}

	axis := depth % s.dims
	q := s.query[axis]
	near, far := n.children(n.SideOf(q, axis))
	if err := s.visit(near, depth+1); err != nil {
		return err
	}

	// worst may have shrunk while visiting the near side.
	if s.exhaustive || n.AxisDistance(q, axis) < s.set.worst() {
		return s.visit(far, depth+1)
	}
	return nil
}
