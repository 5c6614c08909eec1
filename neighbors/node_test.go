package neighbors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/gomachine/pkg/errors"
)

func TestNodeDistanceTo(t *testing.T) {
	n := &Node{point: []float64{0, 0}}

	d, err := n.DistanceTo([]float64{3, 4})
	require.NoError(t, err)
	assert.InDelta(t, 5.0, d, 1e-12)

	_, err = n.DistanceTo([]float64{1, 2, 3})
	var dimErr *errors.DimensionError
	require.True(t, errors.As(err, &dimErr))
	assert.Equal(t, 2, dimErr.Expected)
	assert.Equal(t, 3, dimErr.Got)
}

func TestNodeAxisDistanceAndSide(t *testing.T) {
	n := &Node{point: []float64{2, -1}}

	assert.Equal(t, 0.5, n.AxisDistance(1.5, 0))
	assert.Equal(t, 3.0, n.AxisDistance(2, 1))

	assert.Equal(t, Left, n.SideOf(1.5, 0))
	assert.Equal(t, Left, n.SideOf(2, 0), "ties go left")
	assert.Equal(t, Right, n.SideOf(2.5, 0))
	assert.Equal(t, "left", Left.String())
	assert.Equal(t, "right", Right.String())
}

func TestNodeChildren(t *testing.T) {
	l, r := &Node{}, &Node{}
	n := &Node{left: l, right: r}

	near, far := n.children(Left)
	assert.Same(t, l, near)
	assert.Same(t, r, far)

	near, far = n.children(Right)
	assert.Same(t, r, near)
	assert.Same(t, l, far)

	assert.False(t, n.IsLeaf())
	assert.True(t, l.IsLeaf())
}

func TestNeighborSetReplacesFirstWorst(t *testing.T) {
	s := newNeighborSet(3)
	assert.True(t, s.worst() > 1e300)

	s.insert(Neighbor{Target: 1, Distance: 4})
	s.insert(Neighbor{Target: 2, Distance: 1})
	s.insert(Neighbor{Target: 3, Distance: 4})
	assert.Equal(t, 4.0, s.worst())

	s.insert(Neighbor{Target: 4, Distance: 2})
	assert.Equal(t, []Neighbor{
		{Target: 4, Distance: 2},
		{Target: 2, Distance: 1},
		{Target: 3, Distance: 4},
	}, s.items)

	assert.Equal(t, []Neighbor{
		{Target: 2, Distance: 1},
		{Target: 4, Distance: 2},
		{Target: 3, Distance: 4},
	}, s.sorted())
}
