package csg

import (
	"errors"

	"github.com/chazu/csgtree/pkg/graph"
	"github.com/chazu/csgtree/pkg/kernel"
)

// fakeSolid stands in for kernel geometry; it remembers which node made it.
type fakeSolid struct {
	node graph.NodeID
}

func (s fakeSolid) BoundingBox() (min, max [3]float64) {
	return [3]float64{}, [3]float64{1, 1, 1}
}

// fakeEvaluator counts calls per node and can be told to fail or produce
// nothing for specific nodes.
type fakeEvaluator struct {
	calls map[graph.NodeID]int
	fail  map[graph.NodeID]bool
	empty map[graph.NodeID]bool
}

func newFakeEvaluator() *fakeEvaluator {
	return &fakeEvaluator{
		calls: make(map[graph.NodeID]int),
		fail:  make(map[graph.NodeID]bool),
		empty: make(map[graph.NodeID]bool),
	}
}

var errFakeEvaluation = errors.New("fake evaluation failure")

func (f *fakeEvaluator) EvaluateGeometry(n *graph.Node) (kernel.Solid, error) {
	f.calls[n.ID]++
	switch {
	case f.fail[n.ID]:
		return nil, errFakeEvaluation
	case f.empty[n.ID]:
		return nil, nil
	}
	return fakeSolid{node: n.ID}, nil
}

func (f *fakeEvaluator) total() int {
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

// fixture builds small modeling trees for tests.
type fixture struct {
	t *graph.Tree
}

func newFixture() *fixture {
	return &fixture{t: graph.New()}
}

func (f *fixture) add(kind graph.NodeKind, name string, data graph.NodeData, children ...*graph.Node) *graph.Node {
	n := &graph.Node{Kind: kind, Name: name, Data: data}
	for _, c := range children {
		n.Children = append(n.Children, c.ID)
	}
	f.t.Add(n)
	return n
}

func (f *fixture) cube() *graph.Node {
	return f.add(graph.NodePrimitive, "cube", graph.CubeData{Size: graph.Vec3{X: 1, Y: 1, Z: 1}})
}

func (f *fixture) cylinder() *graph.Node {
	return f.add(graph.NodePrimitive, "cylinder", graph.CylinderData{Height: 2, Radius1: 1, Radius2: 1})
}

func (f *fixture) sphere() *graph.Node {
	return f.add(graph.NodePrimitive, "sphere", graph.SphereData{Radius: 1})
}

func (f *fixture) op(op graph.Operator, children ...*graph.Node) *graph.Node {
	return f.add(graph.NodeOperation, op.String(), graph.OperationData{Op: op}, children...)
}

func (f *fixture) group(children ...*graph.Node) *graph.Node {
	return f.add(graph.NodeGroup, "group", graph.GroupData{}, children...)
}

func (f *fixture) list(children ...*graph.Node) *graph.Node {
	return f.add(graph.NodeList, "list", graph.GroupData{}, children...)
}

func (f *fixture) translate(v graph.Vec3, children ...*graph.Node) *graph.Node {
	return f.add(graph.NodeTransform, "translate", graph.TransformData{Translation: &v}, children...)
}

func (f *fixture) color(c graph.Color, children ...*graph.Node) *graph.Node {
	return f.add(graph.NodeColor, "color", graph.ColorData{Color: c}, children...)
}

func (f *fixture) render(children ...*graph.Node) *graph.Node {
	return f.add(graph.NodeRender, "render", graph.RenderData{}, children...)
}

// root marks n as the tree root and returns it.
func (f *fixture) root(n *graph.Node) *graph.Node {
	f.t.SetRoot(n.ID)
	return n
}

func with(n *graph.Node, m graph.Modifiers) *graph.Node {
	n.Modifiers |= m
	return n
}
