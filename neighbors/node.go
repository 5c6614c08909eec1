package neighbors

import (
	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/gomachine/pkg/errors"
)

// Side names a child of a Node relative to its splitting plane.
type Side int

const (
	// Left holds points whose coordinate on the split axis is <= the node's.
	Left Side = iota
	// Right holds points whose coordinate on the split axis is >= the node's.
	Right
)

func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// Node is one training point in a KD-tree. A node exclusively owns its
// subtrees; a node without children is a leaf.
type Node struct {
	point  []float64
	target float64
	left   *Node
	right  *Node
}

// Point returns the node's feature vector. The slice must not be modified.
func (n *Node) Point() []float64 { return n.point }

// Target returns the target value stored with the point.
func (n *Node) Target() float64 { return n.target }

// Left returns the left subtree, or nil.
func (n *Node) Left() *Node { return n.left }

// Right returns the right subtree, or nil.
func (n *Node) Right() *Node { return n.right }

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return n.left == nil && n.right == nil }

// DistanceTo returns the Euclidean distance between the node's point and query.
func (n *Node) DistanceTo(query []float64) (float64, error) {
	if len(query) != len(n.point) {
		return 0, errors.NewDimensionError("Node.DistanceTo", len(n.point), len(query), 1)
	}
	return floats.Distance(n.point, query, 2), nil
}

// AxisDistance returns |q - point[axis]|, the distance from a query coordinate
// to this node's splitting plane. It never exceeds the Euclidean distance to
// any point on the other side of the plane.
func (n *Node) AxisDistance(q float64, axis int) float64 {
	d := q - n.point[axis]
	if d < 0 {
		return -d
	}
	return d
}

// SideOf returns the side of the splitting plane q falls on. Ties go Left.
func (n *Node) SideOf(q float64, axis int) Side {
	if q <= n.point[axis] {
		return Left
	}
	return Right
}

// children returns the subtree on side s first and the opposite one second.
func (n *Node) children(s Side) (near, far *Node) {
	if s == Left {
		return n.left, n.right
	}
	return n.right, n.left
}
