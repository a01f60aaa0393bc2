package geometry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/csgtree/pkg/csg"
	"github.com/chazu/csgtree/pkg/geometry"
	"github.com/chazu/csgtree/pkg/graph"
	"github.com/chazu/csgtree/pkg/kernel/sdfx"
)

func TestCountingEvaluator(t *testing.T) {
	tree := graph.New()
	c := cube(tree, 1, 1, 1, false)
	s := sphere(tree, 1)
	counter := geometry.Count(geometry.New(tree, traceKernel{}))

	for _, n := range []*graph.Node{c, c, s} {
		_, err := counter.EvaluateGeometry(n)
		require.NoError(t, err)
	}

	assert.Equal(t, 2, counter.Calls(c.ID))
	assert.Equal(t, 1, counter.Calls(s.ID))
	assert.Equal(t, 3, counter.Total())
}

func TestBuilderWithSdfxKernel(t *testing.T) {
	tree := graph.New()
	c := cube(tree, 10, 10, 10, false)
	cyl := add(tree, graph.NodePrimitive, "cylinder", graph.CylinderData{Height: 20, Radius1: 2, Radius2: 2, Center: true})
	hole := op(tree, graph.OpDifference, c, cyl)
	moved := add(tree, graph.NodeTransform, "translate", graph.TransformData{Translation: &graph.Vec3{X: 5}}, hole)
	root := op(tree, graph.OpUnion, sphere(tree, 3), moved)
	tree.SetRoot(root.ID)

	counter := geometry.Count(geometry.New(tree, sdfx.New()))
	res, err := csg.Build(tree, counter)
	require.NoError(t, err)

	require.NotNil(t, res.Root)
	assert.Equal(t, "union(sphere(5), translate(difference(cube(1), cylinder(2))))", res.Root.String())
	assert.Equal(t, 3, counter.Total())

	min, max := res.Root.Left().Geometry().BoundingBox()
	assert.InDelta(t, -3, min[0], 1e-6)
	assert.InDelta(t, 3, max[2], 1e-6)
}
